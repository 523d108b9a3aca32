package syncstate

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/de-tools/freight-atlas/pkg/adapters"
	"github.com/de-tools/freight-atlas/pkg/models/domain"
	"github.com/de-tools/freight-atlas/pkg/models/store"
	"github.com/de-tools/freight-atlas/pkg/store/duckdb"
)

type Store interface {
	// GetState returns nil when the source was never synced.
	GetState(ctx context.Context, source string) (*domain.SyncState, error)
	SaveState(ctx context.Context, state *domain.SyncState) error
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db: db,
	}, nil
}

// conn prefers the transaction carried by ctx.
func (s *defaultStore) conn(ctx context.Context) queryer {
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		return tx
	}
	return s.db
}

func (s *defaultStore) GetState(ctx context.Context, source string) (*domain.SyncState, error) {
	var row store.SyncState
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT source, status, last_synced_on, synced_records, updated_at, error
		FROM sync_state
		WHERE source = ?`, source,
	).Scan(&row.Source, &row.Status, &row.LastSyncedOn, &row.SyncedRecords, &row.UpdatedAt, &row.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sync state %s: %w", source, err)
	}
	return adapters.MapStoreSyncStateToDomain(&row), nil
}

func (s *defaultStore) SaveState(ctx context.Context, state *domain.SyncState) error {
	if state == nil || state.Source == "" {
		return fmt.Errorf("sync state requires a source")
	}
	row := adapters.MapDomainSyncStateToStore(state)

	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT OR REPLACE INTO sync_state (source, status, last_synced_on, synced_records, updated_at, error)
		VALUES (?, ?, ?, ?, ?, ?)`,
		row.Source, row.Status, nullable(row.LastSyncedOn), row.SyncedRecords, row.UpdatedAt, nullable(row.Error),
	)
	if err != nil {
		return fmt.Errorf("save sync state %s: %w", state.Source, err)
	}
	return nil
}

func nullable(v driver.Valuer) any {
	value, _ := v.Value()
	return value
}
