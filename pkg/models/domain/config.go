package domain

import "fmt"

type Driver string

const (
	DriverDuckDB     Driver = "duckdb"
	DriverPostgres   Driver = "pgx"
	DriverSnowflake  Driver = "snowflake"
	DriverDatabricks Driver = "databricks"
)

// DataSourceProfile names a record source: the database/sql driver, its DSN and the table
// holding the CTE records.
type DataSourceProfile struct {
	Name   string
	Driver Driver
	DSN    string
	Table  string
}

func (p DataSourceProfile) String() string {
	return fmt.Sprintf("%s:%s", p.Driver, p.Name)
}
