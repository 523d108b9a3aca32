package workflow

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/freight-atlas/pkg/clock"
	"github.com/de-tools/freight-atlas/pkg/models/domain"
	"github.com/de-tools/freight-atlas/pkg/store/duckdb"
	"github.com/de-tools/freight-atlas/pkg/store/duckdb/records"
	"github.com/de-tools/freight-atlas/pkg/store/duckdb/syncstate"
	"github.com/de-tools/freight-atlas/pkg/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

type fixture struct {
	db          *sql.DB
	recordStore records.Store
	stateStore  syncstate.Store
	remote      *memory.RecordStore
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	recordStore, err := records.NewStore(db)
	require.NoError(t, err)
	stateStore, err := syncstate.NewStore(db)
	require.NoError(t, err)

	return &fixture{
		db:          db,
		recordStore: recordStore,
		stateStore:  stateStore,
		remote:      memory.NewRecordStore(),
	}
}

func (f *fixture) runner(remote RecordSource, config RunnerConfig) *Runner {
	return NewRunner("warehouse", f.db, remote, f.recordStore, f.stateStore, clock.Fixed(today), config)
}

func (f *fixture) local(t *testing.T) []domain.Record {
	recs, err := f.recordStore.Load(context.Background(), domain.RecordQuery{Start: today.AddDate(-5, 0, 0)})
	require.NoError(t, err)
	return recs
}

func record(id int64, issued time.Time, amount float64) domain.Record {
	return domain.Record{ID: id, ClientName: "Acme", VehiclePlate: "ABC1234", Amount: amount, IssuedOn: issued}
}

func run(r *Runner) {
	r.Run(context.Background())
	<-r.Done()
}

func TestRunner_Run(t *testing.T) {
	t.Run("copies every batch and checkpoints", func(t *testing.T) {
		f := setupFixture(t)
		f.remote.Add(
			record(1, today.AddDate(0, 0, -40), 100),
			record(2, today.AddDate(0, 0, -12), 200),
			record(3, today, 300),
			record(4, today.AddDate(0, 0, -90), 999),
		)

		r := f.runner(f.remote, RunnerConfig{BatchDays: 10, Since: today.AddDate(0, 0, -49)})
		run(r)
		require.NoError(t, r.Err())

		recs := f.local(t)
		require.Len(t, recs, 3)
		assert.Equal(t, int64(1), recs[0].ID)
		assert.Equal(t, int64(3), recs[2].ID)

		state, err := f.stateStore.GetState(context.Background(), "warehouse")
		require.NoError(t, err)
		require.NotNil(t, state)
		assert.Equal(t, domain.SyncStatusFinished, state.Status)
		assert.Equal(t, int64(3), state.SyncedRecords)
		require.NotNil(t, state.LastSyncedOn)
		assert.True(t, state.LastSyncedOn.Equal(today))
		assert.Nil(t, state.Error)

		var progress []RunnerProgress
		for p := range r.Progress() {
			progress = append(progress, p)
		}
		require.Len(t, progress, 5)
		assert.Equal(t, 0, progress[len(progress)-1].Remaining)
	})

	t.Run("resumes from the last synced day", func(t *testing.T) {
		f := setupFixture(t)
		f.remote.Add(record(1, today.AddDate(0, 0, -3), 100))
		run(f.runner(f.remote, RunnerConfig{BatchDays: 30, Since: today.AddDate(0, 0, -5)}))

		f.remote.Add(
			record(2, today, 50),
			record(3, today.AddDate(0, 0, -60), 75),
		)
		r := f.runner(f.remote, RunnerConfig{BatchDays: 30})
		run(r)
		require.NoError(t, r.Err())

		recs := f.local(t)
		require.Len(t, recs, 2)
		assert.Equal(t, int64(1), recs[0].ID)
		assert.Equal(t, int64(2), recs[1].ID)
	})

	t.Run("remote failure marks the state failed", func(t *testing.T) {
		f := setupFixture(t)
		f.remote.FailWith(errors.New("warehouse offline"))

		r := f.runner(f.remote, RunnerConfig{BatchDays: 30, Since: today.AddDate(0, 0, -5), MaxRetries: 1})
		run(r)
		require.Error(t, r.Err())
		assert.Contains(t, r.Err().Error(), "warehouse offline")

		state, err := f.stateStore.GetState(context.Background(), "warehouse")
		require.NoError(t, err)
		require.NotNil(t, state)
		assert.Equal(t, domain.SyncStatusFailed, state.Status)
		require.NotNil(t, state.Error)
		assert.Contains(t, *state.Error, "warehouse offline")
		assert.Nil(t, state.LastSyncedOn)
	})

	t.Run("cancelled context stops before the first batch", func(t *testing.T) {
		f := setupFixture(t)
		f.remote.Add(record(1, today, 100))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := f.runner(f.remote, RunnerConfig{BatchDays: 30, Since: today.AddDate(0, 0, -5)})
		r.Run(ctx)
		<-r.Done()
		assert.NoError(t, r.Err())
		assert.Empty(t, f.local(t))

		state, err := f.stateStore.GetState(context.Background(), "warehouse")
		require.NoError(t, err)
		require.NotNil(t, state)
		assert.Equal(t, domain.SyncStatusCancelled, state.Status)
	})
}

func TestRunner_StartDate(t *testing.T) {
	f := setupFixture(t)
	synced := today.AddDate(0, 0, -7)

	tests := []struct {
		name   string
		state  domain.SyncState
		since  time.Time
		expect time.Time
	}{
		{name: "checkpoint", state: domain.SyncState{LastSyncedOn: &synced}, since: today.AddDate(-1, 0, 0), expect: synced},
		{name: "since", since: today.AddDate(0, -1, 0), expect: today.AddDate(0, -1, 0)},
		{name: "default lookback", expect: today.AddDate(0, 0, -DefaultLookbackDays)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := f.runner(f.remote, RunnerConfig{Since: tt.since})
			assert.True(t, r.startDate(&tt.state, today).Equal(tt.expect))
		})
	}
}
