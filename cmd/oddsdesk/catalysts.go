package main

import "github.com/spf13/cobra"

func newCatalystsCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "catalysts",
		Short: "List each market's next catalyst, soonest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.openDesk(cmd.Context())
			if err != nil {
				return err
			}
			return a.presenter().ShowCatalysts(cmd.Context(), d.Catalysts(limit))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "max entries; 0 shows all")
	return cmd
}
