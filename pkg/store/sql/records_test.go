package sql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/freight-atlas/pkg/models/domain"
	"github.com/de-tools/freight-atlas/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectPrefix = "SELECT id, client_name, vehicle_plate, amount, issued_on, settled_on, invoice_number, " +
	"invoice_included_on, process_sent_on, first_sent_on, rq_tmc_on, attested_on, final_sent_on, " +
	"origin_city, destination_city FROM cte_records WHERE "

func TestRecordStore_BuildQuery(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		placeholder Placeholder
		query       domain.RecordQuery
		wantWhere   string
		wantArgs    []any
	}{
		{
			name:      "start only",
			query:     domain.RecordQuery{Start: start},
			wantWhere: "issued_on >= ?",
			wantArgs:  []any{start},
		},
		{
			name:      "start, end and client",
			query:     domain.RecordQuery{Start: start, End: &end, ClientSubstring: "AcMe"},
			wantWhere: `issued_on >= ? AND issued_on <= ? AND LOWER(client_name) LIKE ? ESCAPE '!'`,
			wantArgs:  []any{start, end, "%acme%"},
		},
		{
			name:        "dollar placeholders",
			placeholder: PlaceholderDollar,
			query:       domain.RecordQuery{Start: start, End: &end, ClientSubstring: "50%_off"},
			wantWhere:   `issued_on >= $1 AND issued_on <= $2 AND LOWER(client_name) LIKE $3 ESCAPE '!'`,
			wantArgs:    []any{start, end, `%50!%!_off%`},
		},
		{
			name:        "snowflake and databricks escape without backslashes",
			placeholder: PlaceholderForDriver("snowflake"),
			query:       domain.RecordQuery{Start: start, ClientSubstring: `Wow! C:\Cargo`},
			wantWhere:   `issued_on >= ? AND LOWER(client_name) LIKE ? ESCAPE '!'`,
			wantArgs:    []any{start, `%wow!! c:\cargo%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &RecordStore{table: DefaultTable, placeholder: tt.placeholder}
			query, args := s.BuildQuery(tt.query)

			assert.Equal(t, selectPrefix+tt.wantWhere+" ORDER BY issued_on, id", query)
			assert.NotContains(t, query, `\`)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestNewRecordStore_NilDB(t *testing.T) {
	s, err := NewRecordStore(nil, "", PlaceholderQuestion)
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestPlaceholderForDriver(t *testing.T) {
	assert.Equal(t, PlaceholderDollar, PlaceholderForDriver("pgx"))
	assert.Equal(t, PlaceholderQuestion, PlaceholderForDriver("duckdb"))
	assert.Equal(t, PlaceholderQuestion, PlaceholderForDriver("snowflake"))
	assert.Equal(t, PlaceholderQuestion, PlaceholderForDriver("databricks"))
}

func TestRecordStore_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewRecordStore(db, "", PlaceholderQuestion)
	require.NoError(t, err)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	issued := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	t.Run("maps rows and skips undated ones", func(t *testing.T) {
		rows := sqlmock.NewRows(store.Columns).
			AddRow(int64(1), "Acme", "abc1234", 500.0, issued, issued, "NF1", nil, nil, nil, nil, nil, nil, "Campinas", "Santos").
			AddRow(int64(2), "Beta", nil, 100.0, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil)

		mock.ExpectQuery(regexp.QuoteMeta(selectPrefix + "issued_on >= ? ORDER BY issued_on, id")).
			WithArgs(start).
			WillReturnRows(rows)

		records, err := s.Load(context.Background(), domain.RecordQuery{Start: start})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, int64(1), records[0].ID)
		assert.Equal(t, "ABC1234", records[0].VehiclePlate)
		assert.True(t, records[0].IsPaid())
	})

	t.Run("wraps query errors", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(selectPrefix)).
			WillReturnError(errors.New("connection refused"))

		_, err := s.Load(context.Background(), domain.RecordQuery{Start: start})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query records")
		assert.Contains(t, err.Error(), "connection refused")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
