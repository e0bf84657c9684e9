package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sundayezeilo/shortlinks/internal/app"
)

func newStatsCmd(get func() *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "stats CODE",
		Short: "Show the target and click count of a short link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := get()
			_, resolver := app.NewServices(d.backend.Store, d.cfg)

			link, err := resolver.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "code:\t%s\n", link.Code)
			fmt.Fprintf(w, "target:\t%s\n", link.TargetURL)
			fmt.Fprintf(w, "clicks:\t%d\n", link.ClickCount)
			fmt.Fprintf(w, "created:\t%s\n", link.CreatedAt.UTC().Format(time.RFC3339))
			return w.Flush()
		},
	}
}
