package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/de-tools/freight-atlas/pkg/adapters"
	"github.com/de-tools/freight-atlas/pkg/models/domain"
	"github.com/de-tools/freight-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

const DefaultTable = "cte_records"

// Placeholder selects the bind-parameter syntax of the target database.
type Placeholder int

const (
	// PlaceholderQuestion is used by DuckDB, Snowflake and Databricks.
	PlaceholderQuestion Placeholder = iota
	// PlaceholderDollar is used by Postgres through pgx.
	PlaceholderDollar
)

// PlaceholderForDriver maps a database/sql driver name onto its bind syntax.
func PlaceholderForDriver(driver string) Placeholder {
	switch driver {
	case "pgx", "postgres", "postgresql":
		return PlaceholderDollar
	default:
		return PlaceholderQuestion
	}
}

// RecordStore reads CTE records from any database/sql connection that exposes a cte_records table.
type RecordStore struct {
	db          *sql.DB
	table       string
	placeholder Placeholder
}

func NewRecordStore(db *sql.DB, table string, placeholder Placeholder) (*RecordStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if table == "" {
		table = DefaultTable
	}
	return &RecordStore{
		db:          db,
		table:       table,
		placeholder: placeholder,
	}, nil
}

func (s *RecordStore) Load(ctx context.Context, q domain.RecordQuery) ([]domain.Record, error) {
	logger := zerolog.Ctx(ctx)
	query, args := s.BuildQuery(q)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close record query rows")
		}
	}(rows)

	records := make([]domain.Record, 0)
	for rows.Next() {
		var row store.Record
		if err := rows.Scan(row.ScanTargets()...); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec, ok := adapters.MapStoreRecordToDomain(row)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

// BuildQuery renders the SELECT statement and its arguments for q.
func (s *RecordStore) BuildQuery(q domain.RecordQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	bind := func(v any) string {
		args = append(args, v)
		if s.placeholder == PlaceholderDollar {
			return fmt.Sprintf("$%d", len(args))
		}
		return "?"
	}

	conds = append(conds, "issued_on >= "+bind(q.Start))
	if q.End != nil {
		conds = append(conds, "issued_on <= "+bind(*q.End))
	}
	if q.ClientSubstring != "" {
		pattern := "%" + escapeLike(strings.ToLower(q.ClientSubstring)) + "%"
		conds = append(conds, "LOWER(client_name) LIKE "+bind(pattern)+" ESCAPE '"+likeEscape+"'")
	}

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s ORDER BY issued_on, id",
		strings.Join(store.Columns, ", "),
		s.table,
		strings.Join(conds, " AND "),
	)
	return query, args
}

// likeEscape is not special inside a string literal in any supported dialect.
// Snowflake and Databricks read a backslash inside a literal as an escape.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

func escapeLike(s string) string {
	return likeReplacer.Replace(s)
}
