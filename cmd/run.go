package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var dryRun bool

// runCmd performs a single run over the catalog.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every catalog query once",
	Long: `Loads the query catalog and synchronizes each query into its sheet, in catalog order.
A failing query is reported and the run continues. Exits non-zero when any query failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(dryRun)
		if err != nil {
			return err
		}
		defer a.close()

		report, err := a.service.RunOnce(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, res := range report.Results {
			if res.Error != "" {
				fmt.Fprintf(out, "%-30s %-8s %s: %s\n", res.Name, res.State, res.Kind, res.Error)
				continue
			}
			fmt.Fprintf(out, "%-30s %-8s updated=%d added=%d batches=%d\n", res.Name, res.State, res.Updated, res.Added, res.Batches)
		}

		if !report.OK() {
			return fmt.Errorf("%d of %d queries failed", report.FailedCount(), len(report.Results))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "read sheets and plan changes without writing")
	RootCmd.AddCommand(runCmd)
}
