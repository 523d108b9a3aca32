package records

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/freight-atlas/pkg/adapters"
	"github.com/de-tools/freight-atlas/pkg/models/domain"
	"github.com/de-tools/freight-atlas/pkg/models/store"
	"github.com/de-tools/freight-atlas/pkg/store/duckdb"
	sqlstore "github.com/de-tools/freight-atlas/pkg/store/sql"
)

// Store supports ingestion (Add, ReplaceRange) and windowed reads (Load) of CTE records kept in DuckDB.
type Store interface {
	Add(ctx context.Context, records []domain.Record) error
	// ReplaceRange swaps every record issued within [start, end] for records.
	ReplaceRange(ctx context.Context, start, end time.Time, records []domain.Record) error
	Load(ctx context.Context, q domain.RecordQuery) ([]domain.Record, error)
}

type recordStore struct {
	db     *sql.DB
	reader *sqlstore.RecordStore
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	reader, err := sqlstore.NewRecordStore(db, sqlstore.DefaultTable, sqlstore.PlaceholderQuestion)
	if err != nil {
		return nil, err
	}
	return &recordStore{
		db:     db,
		reader: reader,
	}, nil
}

// Add inserts records atomically, joining the transaction carried by ctx when there is one.
func (s *recordStore) Add(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	return duckdb.InTransaction(ctx, s.db, func(ctx context.Context) error {
		return s.insert(ctx, records)
	})
}

func (s *recordStore) ReplaceRange(ctx context.Context, start, end time.Time, records []domain.Record) error {
	return duckdb.InTransaction(ctx, s.db, func(ctx context.Context) error {
		query := fmt.Sprintf("DELETE FROM %s WHERE issued_on >= ? AND issued_on <= ?", sqlstore.DefaultTable)
		if _, err := duckdb.GetTransaction(ctx).ExecContext(ctx, query, domain.Date(start), domain.Date(end)); err != nil {
			return fmt.Errorf("delete records: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		return s.insert(ctx, records)
	})
}

func (s *recordStore) insert(ctx context.Context, records []domain.Record) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(store.Columns)), ", ")
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		sqlstore.DefaultTable,
		strings.Join(store.Columns, ", "),
		placeholders,
	)

	stmt, err := duckdb.GetTransaction(ctx).PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		if record.IssuedOn.IsZero() {
			return fmt.Errorf("insert record %d: issue date is required", record.ID)
		}
		record.VehiclePlate = adapters.NormalizePlate(record.VehiclePlate)
		row := adapters.MapDomainRecordToStore(record)
		if _, err := stmt.ExecContext(ctx, row.Values()...); err != nil {
			return fmt.Errorf("insert record %d: %w", record.ID, err)
		}
	}

	return nil
}

func (s *recordStore) Load(ctx context.Context, q domain.RecordQuery) ([]domain.Record, error) {
	return s.reader.Load(ctx, q)
}
