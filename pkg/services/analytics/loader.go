package analytics

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/de-tools/freight-atlas/pkg/clock"
	"github.com/de-tools/freight-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// RecordStore is the ingress port: any source able to return the records matching a query.
type RecordStore interface {
	Load(ctx context.Context, q domain.RecordQuery) ([]domain.Record, error)
}

// Frame is an immutable snapshot of the records issued within [Start, End].
type Frame struct {
	Start   time.Time
	End     time.Time
	Client  string
	Records []domain.Record
}

func (f Frame) Len() int {
	return len(f.Records)
}

// Loader pulls record snapshots from the store for relative or explicit windows.
type Loader struct {
	store RecordStore
	clock clock.Clock
}

func NewLoader(store RecordStore, clk clock.Clock) *Loader {
	if clk == nil {
		clk = clock.System()
	}
	return &Loader{store: store, clock: clk}
}

// LoadWindow loads records issued since today-days. The upper bound is left open and the
// frame end is reported as today.
func (l *Loader) LoadWindow(ctx context.Context, days int, client string) (Frame, error) {
	today := l.clock.Today()
	start := today.AddDate(0, 0, -days)
	return l.load(ctx, start, nil, today, client)
}

// LoadRange loads records issued within the closed interval [start, end].
func (l *Loader) LoadRange(ctx context.Context, start, end time.Time, client string) (Frame, error) {
	start, end = domain.Date(start), domain.Date(end)
	return l.load(ctx, start, &end, end, client)
}

func (l *Loader) load(ctx context.Context, start time.Time, end *time.Time, frameEnd time.Time, client string) (Frame, error) {
	logger := zerolog.Ctx(ctx)

	if l.store == nil {
		return Frame{}, fmt.Errorf("%w: no record store configured", ErrStoreUnavailable)
	}

	records, err := l.store.Load(ctx, domain.RecordQuery{
		Start:           start,
		End:             end,
		ClientSubstring: client,
	})
	if err != nil {
		logger.Error().Err(err).Time("start", start).Msg("failed to load records")
		return Frame{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	snapshot := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if r.IssuedOn.IsZero() {
			continue
		}
		snapshot = append(snapshot, r)
	}
	slices.SortStableFunc(snapshot, func(a, b domain.Record) int {
		if c := a.IssuedOn.Compare(b.IssuedOn); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	logger.Debug().
		Time("start", start).
		Time("end", frameEnd).
		Str("client", client).
		Int("records", len(snapshot)).
		Msg("records loaded")

	return Frame{
		Start:   start,
		End:     frameEnd,
		Client:  client,
		Records: snapshot,
	}, nil
}
