package commands

import (
	"fmt"

	"github.com/de-tools/freight-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/freight-atlas/pkg/services/analytics"
	"github.com/spf13/cobra"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type AnalyzeCmd struct {
	window   int
	client   string
	profile  string
	format   string
	env      *Environment
	reporter *export.Reporter
}

func NewAnalyzeCmd(env *Environment, reporter *export.Reporter) *cobra.Command {
	ac := &AnalyzeCmd{env: env, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze freight revenue over a window",
		Long: fmt.Sprintf("Builds the financial report for the last --window days (one of %v). "+
			"Unsupported windows fall back to the configured default.", analytics.ValidWindows),
		RunE: ac.run,
	}

	cmd.Flags().IntVarP(&ac.window, "window", "w", 0, "Window size in days (defaults to default_window_days)")
	cmd.Flags().StringVar(&ac.client, "client", "", "Case-insensitive client name filter")
	cmd.Flags().StringVarP(&ac.profile, "profile", "p", "", "Data-source profile (defaults to the configured profile)")
	cmd.Flags().StringVarP(&ac.format, "format", "f", FormatText, "Output format: text or json")

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, _ []string) error {
	if ac.format != FormatText && ac.format != FormatJSON {
		return fmt.Errorf("unsupported format %q (expected %s or %s)", ac.format, FormatText, FormatJSON)
	}

	ctx := cmd.Context()
	src, err := ac.env.OpenProfile(ctx, ac.profile)
	if err != nil {
		return err
	}
	defer ac.env.Close(ctx, src)

	window := ac.window
	if window == 0 {
		window = ac.env.Settings.Analytics.DefaultWindowDays
	}
	engine := analytics.NewEngine(src, ac.env.Clock, ac.env.Settings.Analytics)
	report := engine.Analyze(ctx, analytics.Request{
		WindowDays:   window,
		ClientFilter: ac.client,
	})

	if ac.format == FormatJSON {
		return ac.reporter.JSON(report)
	}
	return ac.reporter.Handle(report)
}
