package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const CteRecordsSchema = `
	CREATE TABLE IF NOT EXISTS cte_records (
		id BIGINT NOT NULL PRIMARY KEY,
		client_name VARCHAR,
		vehicle_plate VARCHAR,
		amount DOUBLE NOT NULL DEFAULT 0,
		issued_on DATE,
		settled_on DATE,
		invoice_number VARCHAR,
		invoice_included_on DATE,
		process_sent_on DATE,
		first_sent_on DATE,
		rq_tmc_on DATE,
		attested_on DATE,
		final_sent_on DATE,
		origin_city VARCHAR,
		destination_city VARCHAR
	);
`

const CteRecordsIssuedIndex = `
	CREATE INDEX IF NOT EXISTS idx_cte_records_issued_on ON cte_records (issued_on);
`

const SyncStateSchema = `
	CREATE TABLE IF NOT EXISTS sync_state (
		source VARCHAR NOT NULL PRIMARY KEY,
		status VARCHAR NOT NULL,
		last_synced_on DATE,
		synced_records BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMP NOT NULL,
		error VARCHAR
	);
`

var bootQueries = []string{
	CteRecordsSchema,
	CteRecordsIssuedIndex,
	SyncStateSchema,
}

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return fmt.Errorf("boot query: %w", err)
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
