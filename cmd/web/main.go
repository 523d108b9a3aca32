package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/de-tools/freight-atlas/pkg/clock"
	"github.com/de-tools/freight-atlas/pkg/runtime/terminal"
	"github.com/de-tools/freight-atlas/pkg/server"
	"github.com/de-tools/freight-atlas/pkg/services/analytics"
	"github.com/de-tools/freight-atlas/pkg/services/config"
	"github.com/de-tools/freight-atlas/pkg/store/source"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	profilesPath string
	profileName  string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Freight Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Settings file (yaml, toml or json)")
	rootCmd.Flags().StringVar(&profilesPath, "profiles", "",
		"Path to the profiles INI file (default is $HOME/.freight-atlas/profiles.ini)")
	rootCmd.Flags().StringVarP(&profileName, "profile", "p", "", "Data-source profile to serve")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	settings, err := config.LoadSettings(cfgPath, terminal.DefaultProfilesPath())
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if profilesPath != "" {
		settings.ProfilesPath = profilesPath
	}
	if profileName != "" {
		settings.Profile = profileName
	}

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	registry, err := config.NewRegistry(settings.ProfilesPath)
	if err != nil {
		return fmt.Errorf("failed to create profile registry: %w", err)
	}

	logger.Info().Msgf("Profiles found at `%s` successfully loaded.", settings.ProfilesPath)
	profiles, _ := registry.GetProfiles(ctx)
	for _, p := range profiles {
		logger.Info().Msgf("Name: `%s`, Driver: `%s`", p.Name, p.Driver)
	}

	profile, err := registry.GetProfile(ctx, settings.Profile)
	if err != nil {
		return err
	}
	src, err := source.Open(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to open data source %s: %w", profile, err)
	}
	defer src.Close()

	engine := analytics.NewEngine(src, clock.System(), settings.Analytics)

	addr := net.JoinHostPort(settings.Server.Host, strconv.Itoa(settings.Server.Port))
	api := server.NewWebAPI(logger, server.Config{
		Addr: addr,
		Dependencies: server.Dependencies{
			Analyzer: engine,
			Profile:  profile.String(),
		},
	})

	return api.Start()
}
