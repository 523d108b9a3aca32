package adapters

import (
	"database/sql"

	"github.com/de-tools/freight-atlas/pkg/models/domain"
	"github.com/de-tools/freight-atlas/pkg/models/store"
)

func MapStoreSyncStateToDomain(s *store.SyncState) *domain.SyncState {
	if s == nil {
		return nil
	}

	state := &domain.SyncState{
		Source:        s.Source,
		Status:        domain.SyncStatus(s.Status),
		SyncedRecords: s.SyncedRecords,
		UpdatedAt:     s.UpdatedAt.UTC(),
	}
	if s.LastSyncedOn.Valid {
		d := domain.Date(s.LastSyncedOn.Time)
		state.LastSyncedOn = &d
	}
	if s.Error.Valid {
		state.Error = &s.Error.String
	}
	return state
}

func MapDomainSyncStateToStore(s *domain.SyncState) *store.SyncState {
	row := &store.SyncState{
		Source:        s.Source,
		Status:        string(s.Status),
		SyncedRecords: s.SyncedRecords,
		UpdatedAt:     s.UpdatedAt,
	}
	if s.LastSyncedOn != nil {
		row.LastSyncedOn = sql.NullTime{Time: *s.LastSyncedOn, Valid: true}
	}
	if s.Error != nil {
		row.Error = sql.NullString{String: *s.Error, Valid: true}
	}
	return row
}
