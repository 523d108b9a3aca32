package config

import (
	"context"
	"fmt"

	"github.com/de-tools/freight-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// Registry reads data-source profiles from an INI file, one section per profile:
//
//	[default]
//	driver = duckdb
//	dsn    = freight-atlas.db
type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.DataSourceProfile, error)
	GetProfile(ctx context.Context, name string) (domain.DataSourceProfile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

// NewRegistryFromBytes is NewRegistry for in-memory INI content.
func NewRegistryFromBytes(data []byte) (Registry, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(ctx context.Context) ([]domain.DataSourceProfile, error) {
	var profiles []domain.DataSourceProfile
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		p, err := cr.GetProfile(ctx, section.Name())
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (domain.DataSourceProfile, error) {
	section, err := cr.cfg.GetSection(name)
	if err != nil {
		return domain.DataSourceProfile{}, fmt.Errorf("profile %s not found", name)
	}

	driver := domain.Driver(section.Key("driver").MustString(string(domain.DriverDuckDB)))
	switch driver {
	case domain.DriverDuckDB, domain.DriverPostgres, domain.DriverSnowflake, domain.DriverDatabricks:
	default:
		return domain.DataSourceProfile{}, fmt.Errorf("profile %s: unsupported driver %q", name, driver)
	}

	dsn := section.Key("dsn").String()
	if dsn == "" {
		return domain.DataSourceProfile{}, fmt.Errorf("profile %s: dsn is required", name)
	}

	return domain.DataSourceProfile{
		Name:   name,
		Driver: driver,
		DSN:    dsn,
		Table:  section.Key("table").MustString("cte_records"),
	}, nil
}
