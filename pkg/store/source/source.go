package source

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/databricks/databricks-sql-go"
	"github.com/de-tools/freight-atlas/pkg/models/domain"
	"github.com/de-tools/freight-atlas/pkg/store/duckdb"
	"github.com/de-tools/freight-atlas/pkg/store/duckdb/records"
	sqlstore "github.com/de-tools/freight-atlas/pkg/store/sql"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"github.com/snowflakedb/gosnowflake"
)

// RecordLoader is the read side every source exposes.
type RecordLoader interface {
	Load(ctx context.Context, q domain.RecordQuery) ([]domain.Record, error)
}

// Source is an opened data-source profile. Close releases the underlying connection pool.
type Source struct {
	RecordLoader
	Profile domain.DataSourceProfile
	db      *sql.DB
}

// Local exposes the DuckDB connection and ingestion store of a duckdb profile, the only
// kind of source that can be written to.
func (s *Source) Local() (*sql.DB, records.Store, error) {
	store, ok := s.RecordLoader.(records.Store)
	if s.Profile.Driver != domain.DriverDuckDB || s.db == nil || !ok {
		return nil, nil, fmt.Errorf("profile %s is not a local duckdb store", s.Profile)
	}
	return s.db, store, nil
}

func (s *Source) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Open connects the profile's driver. Connections are lazy: an unreachable database only
// surfaces when records are loaded.
func Open(ctx context.Context, profile domain.DataSourceProfile) (*Source, error) {
	logger := zerolog.Ctx(ctx)

	var (
		db     *sql.DB
		loader RecordLoader
		err    error
	)
	switch profile.Driver {
	case domain.DriverDuckDB:
		db, loader, err = openDuckDB(profile)
	case domain.DriverPostgres:
		if _, err = pgx.ParseConfig(profile.DSN); err != nil {
			return nil, fmt.Errorf("invalid postgres dsn for profile %s: %w", profile.Name, err)
		}
		db, loader, err = openSQL(profile)
	case domain.DriverSnowflake:
		if _, err = gosnowflake.ParseDSN(profile.DSN); err != nil {
			return nil, fmt.Errorf("invalid snowflake dsn for profile %s: %w", profile.Name, err)
		}
		db, loader, err = openSQL(profile)
	case domain.DriverDatabricks:
		db, loader, err = openSQL(profile)
	default:
		return nil, fmt.Errorf("profile %s: unsupported driver %q", profile.Name, profile.Driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("profile", profile.String()).Str("table", profile.Table).Msg("data source opened")
	return &Source{
		RecordLoader: loader,
		Profile:      profile,
		db:           db,
	}, nil
}

func openDuckDB(profile domain.DataSourceProfile) (*sql.DB, RecordLoader, error) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: profile.DSN})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	store, err := records.NewStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create records store: %w", err)
	}
	return db, store, nil
}

func openSQL(profile domain.DataSourceProfile) (*sql.DB, RecordLoader, error) {
	driver := string(profile.Driver)
	db, err := sql.Open(driver, profile.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s connection: %w", driver, err)
	}
	store, err := sqlstore.NewRecordStore(db, profile.Table, sqlstore.PlaceholderForDriver(driver))
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, store, nil
}
