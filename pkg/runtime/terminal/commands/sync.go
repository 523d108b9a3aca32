package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/freight-atlas/pkg/services/workflow"
	"github.com/de-tools/freight-atlas/pkg/store/duckdb/syncstate"
	"github.com/spf13/cobra"
)

type SyncCmd struct {
	from      string
	to        string
	since     string
	batchDays int
	env       *Environment
}

func NewSyncCmd(env *Environment) *cobra.Command {
	sc := &SyncCmd{env: env}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy records from a remote profile into a local DuckDB profile",
		Long: "Copies CTE records issued since the last sync of --from into the --to DuckDB store, " +
			"one batch of --batch-days at a time. Re-running resumes from the last synced day.",
		RunE: sc.run,
	}

	cmd.Flags().StringVar(&sc.from, "from", "", "Profile to read records from")
	cmd.Flags().StringVar(&sc.to, "to", "", "Local duckdb profile to write to (defaults to the configured profile)")
	cmd.Flags().StringVar(&sc.since, "since", "", "First issue date (YYYY-MM-DD) when --from was never synced")
	cmd.Flags().IntVar(&sc.batchDays, "batch-days", workflow.DefaultBatchDays, "Issue days copied per transaction")

	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func (sc *SyncCmd) run(cmd *cobra.Command, _ []string) error {
	config := workflow.DefaultRunnerConfig()
	config.BatchDays = sc.batchDays
	if sc.since != "" {
		since, err := time.Parse(time.DateOnly, sc.since)
		if err != nil {
			return fmt.Errorf("invalid --since %q: expected YYYY-MM-DD", sc.since)
		}
		config.Since = since
	}

	to := sc.to
	if to == "" {
		to = sc.env.Settings.Profile
	}
	if to == sc.from {
		return fmt.Errorf("cannot sync profile %s into itself", sc.from)
	}

	ctx := cmd.Context()
	target, err := sc.env.OpenProfile(ctx, to)
	if err != nil {
		return err
	}
	defer sc.env.Close(ctx, target)

	db, recordStore, err := target.Local()
	if err != nil {
		return err
	}
	stateStore, err := syncstate.NewStore(db)
	if err != nil {
		return err
	}

	remote, err := sc.env.OpenProfile(ctx, sc.from)
	if err != nil {
		return err
	}
	defer sc.env.Close(ctx, remote)

	runner := workflow.NewRunner(remote.Profile.Name, db, remote, recordStore, stateStore, sc.env.Clock, config)
	go runner.Run(ctx)

	out := cmd.OutOrStdout()
	for p := range runner.Progress() {
		fmt.Fprintf(out, "synced through %s (%d records, %d days left)\n",
			p.LastSyncedOn.Format(time.DateOnly), p.ProcessedRecords, p.Remaining)
	}
	<-runner.Done()

	if err := runner.Err(); err != nil {
		return fmt.Errorf("sync %s failed: %w", remote.Profile.Name, err)
	}

	state, err := stateStore.GetState(context.WithoutCancel(ctx), remote.Profile.Name)
	if err != nil {
		return err
	}
	if state != nil {
		fmt.Fprintf(out, "%s: %s, %d records\n", state.Source, state.Status, state.SyncedRecords)
	}
	return nil
}
