package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(get func() *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema for the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := get()
			if err := d.backend.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate %s: %w", d.backend.Driver, err)
			}

			d.logger.Info("schema applied", "store_driver", d.backend.Driver)
			fmt.Fprintf(cmd.OutOrStdout(), "schema applied to %s store\n", d.backend.Driver)
			return nil
		},
	}
}
