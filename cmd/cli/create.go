package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sundayezeilo/shortlinks/internal/app"
	"github.com/sundayezeilo/shortlinks/internal/shortener"
)

func newCreateCmd(get func() *deps) *cobra.Command {
	var (
		targetURL string
		alias     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a short link for a URL",
		Example: `  shortlinks create --url "https://example.com/a/b"
  shortlinks create --url "https://example.com/a/b" --alias docs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := get()
			allocator, _ := app.NewServices(d.backend.Store, d.cfg)

			link, err := allocator.Allocate(cmd.Context(), shortener.AllocateRequest{
				TargetURL: targetURL,
				Alias:     alias,
			})
			if err != nil {
				if errors.Is(err, shortener.ErrAliasTaken) {
					return fmt.Errorf("alias %q is already taken", alias)
				}
				return err
			}

			d.logger.Info("short link created", "code", link.Code)
			fmt.Fprintf(cmd.OutOrStdout(), "%s/r/%s\n", strings.TrimRight(d.cfg.Server.BaseURL, "/"), link.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&targetURL, "url", "", "URL to shorten (required)")
	cmd.Flags().StringVar(&alias, "alias", "", "custom code to use instead of a generated one")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
