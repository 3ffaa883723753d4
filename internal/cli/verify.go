package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "verify",
		Short:        "Report budgets whose catalog entries are missing or drifted",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newBulkEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer env.close()

			report, err := env.bulkSvc.VerifyConsistency(cmd.Context())
			if err != nil {
				return fmt.Errorf("consistency check failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "checked: %d\nmissing: %d\n", report.Processed, report.Failed)
			for _, issue := range report.Issues {
				fmt.Fprintf(out, "issue: %s\n", issue)
			}
			if len(report.Issues) == 0 {
				fmt.Fprintln(out, "no inconsistencies found")
			}
			return nil
		},
	}

	return cmd
}
