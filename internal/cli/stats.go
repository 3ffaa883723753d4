package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "stats",
		Short:        "Print budget, catalog entry, and linkage counts",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newBulkEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer env.close()

			stats, err := env.bulkSvc.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to collect stats: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "budgets:         %d\ncatalog entries: %d\nlinked budgets:  %d\n",
				stats.Budgets, stats.Entries, stats.Linked)
			return nil
		},
	}

	return cmd
}
