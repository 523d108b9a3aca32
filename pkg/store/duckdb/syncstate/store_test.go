package syncstate

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/de-tools/freight-atlas/pkg/models/domain"
	"github.com/de-tools/freight-atlas/pkg/store/duckdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)

	store, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{
		db:    db,
		store: store,
	}
}

func TestNewStore(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := setupFixture(t)
		assert.NotNil(t, f.store)
	})

	t.Run("nil db", func(t *testing.T) {
		store, err := NewStore(nil)
		assert.Error(t, err)
		assert.Nil(t, store)
	})
}

func TestStore_GetState_Unknown(t *testing.T) {
	f := setupFixture(t)

	state, err := f.store.GetState(context.Background(), "warehouse")

	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestStore_SaveState(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	synced := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

	t.Run("insert", func(t *testing.T) {
		err := f.store.SaveState(ctx, &domain.SyncState{
			Source:        "warehouse",
			Status:        domain.SyncStatusRunning,
			LastSyncedOn:  &synced,
			SyncedRecords: 42,
			UpdatedAt:     updated,
		})
		require.NoError(t, err)

		state, err := f.store.GetState(ctx, "warehouse")
		require.NoError(t, err)
		require.NotNil(t, state)
		assert.Equal(t, domain.SyncStatusRunning, state.Status)
		require.NotNil(t, state.LastSyncedOn)
		assert.Equal(t, synced, *state.LastSyncedOn)
		assert.Equal(t, int64(42), state.SyncedRecords)
		assert.Equal(t, updated, state.UpdatedAt)
		assert.Nil(t, state.Error)
	})

	t.Run("replace", func(t *testing.T) {
		msg := "connection reset"
		err := f.store.SaveState(ctx, &domain.SyncState{
			Source:        "warehouse",
			Status:        domain.SyncStatusFailed,
			LastSyncedOn:  &synced,
			SyncedRecords: 42,
			UpdatedAt:     updated.Add(time.Hour),
			Error:         &msg,
		})
		require.NoError(t, err)

		state, err := f.store.GetState(ctx, "warehouse")
		require.NoError(t, err)
		assert.Equal(t, domain.SyncStatusFailed, state.Status)
		require.NotNil(t, state.Error)
		assert.Equal(t, msg, *state.Error)

		var count int
		require.NoError(t, f.db.QueryRow("SELECT COUNT(*) FROM sync_state").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("within a rolled back transaction", func(t *testing.T) {
		tx, err := f.db.BeginTx(ctx, nil)
		require.NoError(t, err)

		err = f.store.SaveState(duckdb.WithTransaction(ctx, tx), &domain.SyncState{
			Source:    "lake",
			Status:    domain.SyncStatusRunning,
			UpdatedAt: updated,
		})
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())

		state, err := f.store.GetState(ctx, "lake")
		require.NoError(t, err)
		assert.Nil(t, state)
	})

	t.Run("missing source", func(t *testing.T) {
		assert.Error(t, f.store.SaveState(ctx, &domain.SyncState{}))
	})
}
