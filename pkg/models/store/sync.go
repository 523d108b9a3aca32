package store

import (
	"database/sql"
	"time"
)

type SyncState struct {
	Source        string
	Status        string
	LastSyncedOn  sql.NullTime
	SyncedRecords int64
	UpdatedAt     time.Time
	Error         sql.NullString
}
