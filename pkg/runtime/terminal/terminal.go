package terminal

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/de-tools/freight-atlas/pkg/clock"
	"github.com/de-tools/freight-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/freight-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/freight-atlas/pkg/services/config"
	"github.com/de-tools/freight-atlas/pkg/store/source"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	env      *commands.Environment
	reporter *export.Reporter
	rootCmd  *cobra.Command
	output   io.Writer
	logs     io.Writer

	configPath   string
	profilesPath string
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// Logs receives structured logs (default: stderr)
	Logs  io.Writer
	Clock clock.Clock
	Open  commands.OpenFunc
}

// DefaultProfilesPath is $HOME/.freight-atlas/profiles.ini.
func DefaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "profiles.ini"
	}
	return filepath.Join(home, ".freight-atlas", "profiles.ini")
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logs == nil {
		opts.Logs = os.Stderr
	}
	if opts.Clock == nil {
		opts.Clock = clock.System()
	}
	if opts.Open == nil {
		opts.Open = source.Open
	}

	cli := &CLI{
		env: &commands.Environment{
			Clock: opts.Clock,
			Open:  opts.Open,
		},
		reporter: export.NewReporter(opts.Output),
		output:   opts.Output,
		logs:     opts.Logs,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// ExecuteContext runs the CLI with ctx; cancelling it stops a running sync between batches.
func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args[1:], mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "freight-atlas",
		Short:         "Freight invoice financial analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.LoadSettings(cli.configPath, DefaultProfilesPath())
			if err != nil {
				return err
			}
			if cli.profilesPath != "" {
				settings.ProfilesPath = cli.profilesPath
			}
			cli.env.Settings = settings

			level, err := zerolog.ParseLevel(settings.LogLevel)
			if err != nil {
				level = zerolog.InfoLevel
			}
			logger := zerolog.New(cli.logs).Level(level).With().Timestamp().Logger()
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
	}

	cmd.SetOut(cli.output)
	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Settings file (yaml, toml or json)")
	cmd.PersistentFlags().StringVar(&cli.profilesPath, "profiles", "", "Profiles INI file (default is $HOME/.freight-atlas/profiles.ini)")

	cmd.AddCommand(commands.NewAnalyzeCmd(cli.env, cli.reporter))
	cmd.AddCommand(commands.NewProfilesCmd(cli.env))
	cmd.AddCommand(commands.NewSyncCmd(cli.env))

	return cmd
}
