package config

import (
	"fmt"
	"strings"

	"github.com/de-tools/freight-atlas/pkg/services/analytics"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FREIGHT_SERVER_PORT.
const EnvPrefix = "FREIGHT"

type ServerSettings struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Settings is the process configuration shared by the CLI and the web server.
type Settings struct {
	Analytics analytics.Settings `mapstructure:",squash"`
	Server    ServerSettings     `mapstructure:"server"`
	LogLevel  string             `mapstructure:"log_level"`
	// Profile names the data-source profile to analyze
	Profile string `mapstructure:"profile"`
	// ProfilesPath is the INI file holding data-source profiles
	ProfilesPath string `mapstructure:"profiles_path"`
}

func setDefaults(v *viper.Viper, profilesPath string) {
	d := analytics.DefaultSettings()
	v.SetDefault("default_window_days", d.DefaultWindowDays)
	v.SetDefault("top_clients", d.TopClients)
	v.SetDefault("vehicle_shortlist", d.VehicleShortlist)
	v.SetDefault("efficiency_split_days", d.EfficiencySplitDays)
	v.SetDefault("efficiency_min_window_days", d.EfficiencyMinWindowDays)
	v.SetDefault("projection_lookback_days", d.ProjectionLookbackDays)
	v.SetDefault("projection_months", d.ProjectionMonths)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("profile", "default")
	v.SetDefault("profiles_path", profilesPath)
}

// LoadSettings reads settings from path, when given, and from FREIGHT_* environment
// variables. Environment values win over the file; the file wins over defaults.
func LoadSettings(path, defaultProfilesPath string) (*Settings, error) {
	v := viper.New()
	setDefaults(v, defaultProfilesPath)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Settings
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &cfg, nil
}
