package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(open opener) *cobra.Command {
	var d *deps

	root := &cobra.Command{
		Use:          "shortlinks",
		Short:        "Manage short links",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			d, err = open(cmd.Context())
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if d == nil {
				return nil
			}
			return d.Close()
		},
	}

	get := func() *deps { return d }
	root.AddCommand(
		newMigrateCmd(get),
		newCreateCmd(get),
		newStatsCmd(get),
	)
	return root
}
