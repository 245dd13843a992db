package main

import "github.com/spf13/cobra"

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show coverage, volume and divergence totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.openDesk(cmd.Context())
			if err != nil {
				return err
			}
			return a.presenter().ShowSummary(cmd.Context(), d.Summary())
		},
	}
}
