package domain

import "time"

type SyncStatus string

const (
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusFinished  SyncStatus = "finished"
	SyncStatusFailed    SyncStatus = "failed"
	SyncStatusCancelled SyncStatus = "cancelled"
)

// SyncState tracks how far records from a source profile were copied into the local store.
type SyncState struct {
	Source        string
	Status        SyncStatus
	LastSyncedOn  *time.Time
	SyncedRecords int64
	UpdatedAt     time.Time
	Error         *string
}
