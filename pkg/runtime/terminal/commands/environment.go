package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/freight-atlas/pkg/clock"
	"github.com/de-tools/freight-atlas/pkg/models/domain"
	"github.com/de-tools/freight-atlas/pkg/services/config"
	"github.com/de-tools/freight-atlas/pkg/store/source"
	"github.com/rs/zerolog"
)

// OpenFunc connects a data-source profile.
type OpenFunc func(ctx context.Context, profile domain.DataSourceProfile) (*source.Source, error)

// Environment is resolved by the root command before any subcommand runs.
type Environment struct {
	Settings *config.Settings
	Clock    clock.Clock
	Open     OpenFunc
}

func (e *Environment) Registry() (config.Registry, error) {
	return config.NewRegistry(e.Settings.ProfilesPath)
}

// OpenProfile resolves name (or the configured profile when empty) and connects it.
func (e *Environment) OpenProfile(ctx context.Context, name string) (*source.Source, error) {
	if name == "" {
		name = e.Settings.Profile
	}
	registry, err := e.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	p, err := registry.GetProfile(ctx, name)
	if err != nil {
		return nil, err
	}

	src, err := e.Open(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to open data source %s: %w", p, err)
	}
	return src, nil
}

func (e *Environment) Close(ctx context.Context, src *source.Source) {
	if err := src.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("profile", src.Profile.Name).Msg("failed to close data source")
	}
}
