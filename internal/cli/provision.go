package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewProvisionCommand creates the provision command.
func NewProvisionCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create catalog entries for budgets lacking one",
		Long: `Walks every budget and provisions the missing catalog entries in
parallel. Existing entries are skipped; failures are collected and reported
without stopping the pass.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newBulkEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer env.close()

			report, err := env.bulkSvc.ProvisionMissing(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("provisioning pass failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "processed: %d\ncreated:   %d\nskipped:   %d\nfailed:    %d\n",
				report.Processed, report.Created, report.Skipped, report.Failed)
			for _, w := range report.Warnings {
				fmt.Fprintf(out, "warning: %s: %s\n", w.Code, w.Reason)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of budgets to process (0 = all)")

	return cmd
}
