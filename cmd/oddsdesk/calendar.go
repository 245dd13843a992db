package main

import (
	"fmt"
	"time"

	"github.com/alejandrodnm/oddsdesk/internal/calendar"
	"github.com/alejandrodnm/oddsdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newCalendarCmd(a *app) *cobra.Command {
	var (
		desks     []string
		minImpact string
		from, to  string
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show calendar events grouped by UTC day",
		Long: `Show calendar events grouped by UTC day.

Within a day, all-day events come first, then timed events by start time.
Without --from/--to the window is the configured horizon from today.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := calendar.Filter{
				Desks:     a.cfg.Calendar.Desks,
				MinImpact: a.cfg.Calendar.MinImpact,
			}
			if cmd.Flags().Changed("desk") {
				filter.Desks = desks
			}
			if cmd.Flags().Changed("impact") {
				filter.MinImpact = minImpact
			}
			var err error
			if filter.From, err = parseBound("from", from); err != nil {
				return err
			}
			if filter.To, err = parseBound("to", to); err != nil {
				return err
			}

			d, err := a.openDesk(cmd.Context())
			if err != nil {
				return err
			}
			return a.presenter().ShowCalendar(cmd.Context(), d.Calendar(filter))
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&desks, "desk", nil, "only these desks (politics, economy, crypto...)")
	f.StringVar(&minImpact, "impact", "", "minimum impact: high|medium|low")
	f.StringVar(&from, "from", "", "window start (RFC3339 or YYYY-MM-DD)")
	f.StringVar(&to, "to", "", "window end, exclusive (RFC3339 or YYYY-MM-DD)")
	return cmd
}

func parseBound(name, raw string) (t time.Time, err error) {
	if raw == "" {
		return t, nil
	}
	t, ok := domain.ParseTimestamp(raw)
	if !ok {
		return t, fmt.Errorf("invalid --%s %q", name, raw)
	}
	return t, nil
}
