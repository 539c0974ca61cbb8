package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// queriesCmd lists the catalog in processing order.
var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "List catalog queries in processing order",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := loadBase()
		if err != nil {
			return err
		}
		defer logg.Sync()

		load, err := newCatalog(cfg)
		if err != nil {
			return err
		}
		specs, err := load(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, s := range specs {
			fmt.Fprintf(out, "%-30s %-10s %-20s %s\n", s.Name, s.Database, s.TableID, s.PrimaryColumn)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(queriesCmd)
}
