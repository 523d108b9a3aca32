package analytics

import "slices"

// DefaultWindowDays is used whenever a request carries an unsupported window.
const DefaultWindowDays = 180

// ValidWindows are the window sizes, in days, the engine accepts.
var ValidWindows = []int{7, 15, 30, 60, 90, 180}

// Settings tunes list sizes and auxiliary windows. Score weights and tier thresholds are fixed.
type Settings struct {
	// DefaultWindowDays replaces invalid request windows (default: 180)
	DefaultWindowDays int `mapstructure:"default_window_days"`
	// TopClients is the length of the client ranking (default: 10)
	TopClients int `mapstructure:"top_clients"`
	// VehicleShortlist is the size of the gainers/losers lists (default: 5)
	VehicleShortlist int `mapstructure:"vehicle_shortlist"`
	// EfficiencySplitDays splits the efficiency window into prior and recent parts (default: 30)
	EfficiencySplitDays int `mapstructure:"efficiency_split_days"`
	// EfficiencyMinWindowDays is the shortest lookback loaded for the efficiency delta (default: 60)
	EfficiencyMinWindowDays int `mapstructure:"efficiency_min_window_days"`
	// ProjectionLookbackDays is the history used by the projection (default: 365)
	ProjectionLookbackDays int `mapstructure:"projection_lookback_days"`
	// ProjectionMonths is the projection horizon (default: 3)
	ProjectionMonths int `mapstructure:"projection_months"`
}

func DefaultSettings() Settings {
	return Settings{
		DefaultWindowDays:       DefaultWindowDays,
		TopClients:              10,
		VehicleShortlist:        5,
		EfficiencySplitDays:     30,
		EfficiencyMinWindowDays: 60,
		ProjectionLookbackDays:  365,
		ProjectionMonths:        3,
	}
}

// withDefaults replaces unset or invalid fields with their defaults.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if !slices.Contains(ValidWindows, s.DefaultWindowDays) {
		s.DefaultWindowDays = d.DefaultWindowDays
	}
	if s.TopClients <= 0 {
		s.TopClients = d.TopClients
	}
	if s.VehicleShortlist <= 0 {
		s.VehicleShortlist = d.VehicleShortlist
	}
	if s.EfficiencySplitDays <= 0 {
		s.EfficiencySplitDays = d.EfficiencySplitDays
	}
	if s.EfficiencyMinWindowDays <= 0 {
		s.EfficiencyMinWindowDays = d.EfficiencyMinWindowDays
	}
	if s.ProjectionLookbackDays <= 0 {
		s.ProjectionLookbackDays = d.ProjectionLookbackDays
	}
	if s.ProjectionMonths <= 0 {
		s.ProjectionMonths = d.ProjectionMonths
	}
	return s
}

// NormalizeWindow coerces days into ValidWindows, falling back to fallback.
func NormalizeWindow(days, fallback int) int {
	if slices.Contains(ValidWindows, days) {
		return days
	}
	return fallback
}
