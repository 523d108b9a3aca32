package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/freight-atlas/pkg/clock"
	"github.com/de-tools/freight-atlas/pkg/models/domain"
	"github.com/de-tools/freight-atlas/pkg/store/duckdb"
	"github.com/de-tools/freight-atlas/pkg/store/duckdb/records"
	"github.com/de-tools/freight-atlas/pkg/store/duckdb/syncstate"
	"github.com/rs/zerolog"
)

// RecordSource is the remote side of a sync.
type RecordSource interface {
	Load(ctx context.Context, q domain.RecordQuery) ([]domain.Record, error)
}

// Runner copies records of one source profile into the local DuckDB store, a batch of
// BatchDays at a time. Every batch and its checkpoint are committed together, so an
// interrupted run resumes from the last committed day.
type Runner struct {
	source      string
	db          *sql.DB
	remote      RecordSource
	recordStore records.Store
	stateStore  syncstate.Store
	clock       clock.Clock
	done        chan struct{}
	progress    chan RunnerProgress
	config      RunnerConfig
	err         error
}

type RunnerConfig struct {
	// BatchDays is the number of issue days copied per transaction.
	BatchDays int
	// Since is the first day synced when the source has no checkpoint.
	// Zero means today minus DefaultLookbackDays.
	Since         time.Time
	MaxRetries    int
	SleepInterval time.Duration
}

type RunnerProgress struct {
	ProcessedRecords int64
	LastSyncedOn     time.Time
	Remaining        int
}

const (
	DefaultBatchDays = 30
	// DefaultLookbackDays covers the widest window plus its year-ago comparison.
	DefaultLookbackDays = 730
)

func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		BatchDays:     DefaultBatchDays,
		MaxRetries:    3,
		SleepInterval: 10 * time.Second,
	}
}

func NewRunner(
	source string,
	db *sql.DB,
	remote RecordSource,
	recordStore records.Store,
	stateStore syncstate.Store,
	clk clock.Clock,
	config RunnerConfig,
) *Runner {
	if config.BatchDays <= 0 {
		config.BatchDays = DefaultBatchDays
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	return &Runner{
		source:      source,
		db:          db,
		remote:      remote,
		recordStore: recordStore,
		stateStore:  stateStore,
		clock:       clk,
		done:        make(chan struct{}),
		progress:    make(chan RunnerProgress, 100),
		config:      config,
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Progress is best effort: updates are dropped while the buffer is full.
func (r *Runner) Progress() <-chan RunnerProgress {
	return r.progress
}

// Err is the failure that stopped the run. Only valid after Done is closed.
func (r *Runner) Err() error {
	return r.err
}

func (r *Runner) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("source", r.source).Logger()
	ctx = logger.WithContext(ctx)
	defer close(r.done)
	defer close(r.progress)

	state, err := r.stateStore.GetState(context.WithoutCancel(ctx), r.source)
	if err != nil {
		r.err = err
		logger.Error().Err(err).Msg("failed to read sync state")
		return
	}
	if state == nil {
		state = &domain.SyncState{Source: r.source}
	}

	today := r.clock.Today()
	start := r.startDate(state, today)
	logger.Info().Time("from", start).Time("to", today).Msg("sync started")

	for !start.After(today) {
		if ctx.Err() != nil {
			r.finish(ctx, state, domain.SyncStatusCancelled, nil)
			logger.Info().Msg("sync cancelled")
			return
		}

		end := start.AddDate(0, 0, r.config.BatchDays-1)
		if end.After(today) {
			end = today
		}

		batch, err := r.fetch(ctx, start, end)
		if err != nil {
			r.finish(ctx, state, r.failureStatus(ctx), err)
			return
		}

		err = duckdb.InTransaction(ctx, r.db, func(ctx context.Context) error {
			if err := r.recordStore.ReplaceRange(ctx, start, end, batch); err != nil {
				return err
			}
			synced := end
			next := *state
			next.Status = domain.SyncStatusRunning
			next.LastSyncedOn = &synced
			next.SyncedRecords += int64(len(batch))
			next.UpdatedAt = time.Now().UTC()
			next.Error = nil
			if err := r.stateStore.SaveState(ctx, &next); err != nil {
				return err
			}
			*state = next
			return nil
		})
		if err != nil {
			r.finish(ctx, state, r.failureStatus(ctx), fmt.Errorf("store batch %s..%s: %w", start.Format(time.DateOnly), end.Format(time.DateOnly), err))
			return
		}

		logger.Debug().
			Time("from", start).
			Time("to", end).
			Int("records", len(batch)).
			Msg("batch synced")

		select {
		case r.progress <- RunnerProgress{
			ProcessedRecords: state.SyncedRecords,
			LastSyncedOn:     end,
			Remaining:        int(today.Sub(end).Hours() / 24),
		}:
		default:
		}

		start = end.AddDate(0, 0, 1)
	}

	r.finish(ctx, state, domain.SyncStatusFinished, nil)
	logger.Info().Int64("records", state.SyncedRecords).Msg("sync finished")
}

// startDate resumes from the last synced day itself so records issued later that day are picked up.
func (r *Runner) startDate(state *domain.SyncState, today time.Time) time.Time {
	if state.LastSyncedOn != nil {
		return domain.Date(*state.LastSyncedOn)
	}
	if !r.config.Since.IsZero() {
		return domain.Date(r.config.Since)
	}
	return today.AddDate(0, 0, -DefaultLookbackDays)
}

func (r *Runner) fetch(ctx context.Context, start, end time.Time) ([]domain.Record, error) {
	logger := zerolog.Ctx(ctx)

	var lastErr error
	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.config.SleepInterval):
			}
		}

		batch, err := r.remote.Load(ctx, domain.RecordQuery{Start: start, End: &end})
		if err == nil {
			return batch, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		logger.Warn().Err(err).Int("attempt", attempt+1).Msg("failed to load records from source")
	}
	return nil, fmt.Errorf("load records %s..%s: %w", start.Format(time.DateOnly), end.Format(time.DateOnly), lastErr)
}

func (r *Runner) failureStatus(ctx context.Context) domain.SyncStatus {
	if errors.Is(ctx.Err(), context.Canceled) {
		return domain.SyncStatusCancelled
	}
	return domain.SyncStatusFailed
}

// finish persists the terminal status. It runs on a fresh context so a cancelled run is still recorded.
func (r *Runner) finish(ctx context.Context, state *domain.SyncState, status domain.SyncStatus, cause error) {
	logger := zerolog.Ctx(ctx)
	if status == domain.SyncStatusFailed {
		r.err = cause
		logger.Error().Err(cause).Msg("sync failed")
	}

	state.Status = status
	state.UpdatedAt = time.Now().UTC()
	state.Error = nil
	if cause != nil {
		msg := cause.Error()
		state.Error = &msg
	}

	saveCtx := context.WithoutCancel(ctx)
	if err := r.stateStore.SaveState(saveCtx, state); err != nil {
		logger.Error().Err(err).Str("status", string(status)).Msg("failed to save sync state")
		if r.err == nil {
			r.err = err
		}
	}
}
