package main

import (
	"fmt"
	"strings"

	"github.com/alejandrodnm/oddsdesk/internal/ranking"
	"github.com/spf13/cobra"
)

func newMarketsCmd(a *app) *cobra.Command {
	var (
		opts       ranking.Options
		withHeader bool
	)

	cmd := &cobra.Command{
		Use:   "markets",
		Short: "List merged markets, filtered and ranked",
		Long: fmt.Sprintf(`List merged markets, filtered and ranked.

Sorts: %s
Coverage: all, cross-listed, exclusive
Unknown sort or coverage values fall back to the defaults.`, strings.Join(sortNames(), ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.openDesk(cmd.Context())
			if err != nil {
				return err
			}
			if withHeader {
				return d.Report(cmd.Context(), a.presenter(), opts)
			}
			return a.presenter().ShowMarkets(cmd.Context(), d.Markets(opts))
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Sort, "sort", "", "sort order (default from config)")
	f.StringVar(&opts.Coverage, "coverage", "", "coverage filter: all|cross-listed|exclusive")
	f.StringSliceVar(&opts.Venues, "venue", nil, "keep markets listed on these venues (kalshi, polymarket)")
	f.StringVarP(&opts.Query, "query", "q", "", "case-insensitive text search over title, question and tags")
	f.IntVar(&opts.Limit, "limit", 0, "max rows; 0 uses config, negative shows all")
	f.BoolVar(&withHeader, "summary", false, "print the desk summary before the list")
	return cmd
}

func sortNames() []string {
	names := ranking.SortNames()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
