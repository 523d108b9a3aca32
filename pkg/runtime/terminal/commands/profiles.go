package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewProfilesCmd(env *Environment) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List configured data-source profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := env.Registry()
			if err != nil {
				return fmt.Errorf("failed to load profiles: %w", err)
			}
			profiles, err := registry.GetProfiles(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range profiles {
				marker := " "
				if p.Name == env.Settings.Profile {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-20s %-12s %s\n", marker, p.Name, p.Driver, p.Table)
			}
			return nil
		},
	}
}
