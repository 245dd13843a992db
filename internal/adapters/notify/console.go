package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/oddsdesk/internal/aggregate"
	"github.com/alejandrodnm/oddsdesk/internal/calendar"
	"github.com/alejandrodnm/oddsdesk/internal/domain"
	"github.com/alejandrodnm/oddsdesk/internal/ports"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

const titleWidth = 42

// Console implementa ports.Presenter.
type Console struct {
	out   io.Writer
	table bool
}

var _ ports.Presenter = (*Console)(nil)

// NewConsole crea un presenter que escribe a stdout. Con table=false imprime
// una línea por fila, útil para pipes y grep.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un presenter para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// ShowMarkets imprime los mercados en el orden recibido.
func (c *Console) ShowMarkets(_ context.Context, markets []domain.MergedMarket) error {
	if len(markets) == 0 {
		fmt.Fprintln(c.out, "No markets match the current filters")
		return nil
	}
	if !c.table {
		for _, m := range markets {
			fmt.Fprintf(c.out, "%s\t%s\t%s\t%s\t%s\n",
				m.Slug, m.Coverage(), yesLabel(m, domain.VenueKalshi),
				yesLabel(m, domain.VenuePolymarket), intLabel(m.Combined.Divergence))
		}
		return nil
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Market", "Coverage", "Kalshi", "Polymarket", "Div", "24h", "Volume", "Expires", "Next catalyst")
	for i, m := range markets {
		table.Append(
			fmt.Sprintf("%d", i+1),
			domain.TruncateTitle(m.Title, m.Slug, titleWidth),
			string(m.Coverage()),
			yesLabel(m, domain.VenueKalshi),
			yesLabel(m, domain.VenuePolymarket),
			intLabel(m.Combined.Divergence),
			changeLabel(m),
			money(m.Combined.CombinedVolume),
			dateLabel(m.ExpiresAt),
			catalystLabel(m.NextCatalyst),
		)
	}
	table.Render()
	fmt.Fprintln(c.out, "  Kalshi/Polymarket = YES % | Div = |yes gap| en puntos | 24h = mayor movimiento absoluto")
	return nil
}

// ShowCalendar imprime un bloque por día.
func (c *Console) ShowCalendar(_ context.Context, days []calendar.DayGroup) error {
	if len(days) == 0 {
		fmt.Fprintln(c.out, "No calendar events in range")
		return nil
	}
	for _, day := range days {
		fmt.Fprintf(c.out, "\n== %s (%d) ==\n", day.Date, len(day.Events))
		if !c.table {
			for _, e := range day.Events {
				fmt.Fprintf(c.out, "%s\t%s\t%s\t%s\n", timeLabel(e), e.Desk, e.Impact, e.Title)
			}
			continue
		}
		table := tablewriter.NewWriter(c.out)
		table.Header("Time (UTC)", "Desk", "Impact", "Event", "Markets")
		for _, e := range day.Events {
			table.Append(
				timeLabel(e),
				e.Desk,
				string(e.Impact),
				domain.TruncateTitle(e.Title, e.Slug, titleWidth),
				linksLabel(e.Markets),
			)
		}
		table.Render()
	}
	return nil
}

// ShowCatalysts imprime la lista global de próximos catalysts.
func (c *Console) ShowCatalysts(_ context.Context, entries []calendar.CatalystEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "No upcoming catalysts")
		return nil
	}
	if !c.table {
		for _, e := range entries {
			fmt.Fprintf(c.out, "%s\t%s\t%s\n",
				e.Catalyst.Date.UTC().Format(time.RFC3339), e.Slug, e.Catalyst.Description)
		}
		return nil
	}
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Date (UTC)", "Market", "Catalyst")
	for i, e := range entries {
		table.Append(
			fmt.Sprintf("%d", i+1),
			e.Catalyst.Date.UTC().Format("2006-01-02 15:04"),
			domain.TruncateTitle(e.Title, e.Slug, titleWidth),
			e.Catalyst.Description,
		)
	}
	table.Render()
	return nil
}

// ShowSummary imprime la cabecera del desk.
func (c *Console) ShowSummary(_ context.Context, s aggregate.Summary) error {
	fmt.Fprintf(c.out, "\n=== DESK SUMMARY (%d markets) ===\n", s.Markets)
	fmt.Fprintf(c.out, "  Cross-listed:     %d (%.0f%%)\n", s.CrossListed(), s.CrossListedShare()*100)
	for _, v := range domain.Venues() {
		fmt.Fprintf(c.out, "  %-17s %d\n", v.Label()+" only:", s.ByCoverage[domain.VenueOnly(v)])
	}
	fmt.Fprintf(c.out, "  Volume:           %s\n", money(s.CombinedVolume))
	fmt.Fprintf(c.out, "  Liquidity:        %s\n", money(s.CombinedLiquidity))
	if s.AvgDivergence != nil {
		fmt.Fprintf(c.out, "  Avg divergence:   %.1f pts (max %d)\n", *s.AvgDivergence, *s.MaxDivergence)
	} else {
		fmt.Fprintln(c.out, "  Avg divergence:   -")
	}
	return nil
}

// --- helpers de formato ---

func yesLabel(m domain.MergedMarket, v domain.Venue) string {
	l, ok := m.Listing(v)
	if !ok {
		return ""
	}
	if yes, ok := l.Yes(); ok {
		return fmt.Sprintf("%d%%", yes)
	}
	return "-"
}

func intLabel(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}

// changeLabel muestra el movimiento 24h de mayor magnitud entre los venues.
func changeLabel(m domain.MergedMarket) string {
	var best *float64
	for _, l := range m.Listings {
		if l.Change24h == nil {
			continue
		}
		if best == nil || abs(*l.Change24h) > abs(*best) {
			best = l.Change24h
		}
	}
	if best == nil {
		return "-"
	}
	return fmt.Sprintf("%+.1f", *best)
}

func money(v float64) string {
	return "$" + humanize.CommafWithDigits(v, 0)
}

func dateLabel(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02")
}

func catalystLabel(c *domain.Catalyst) string {
	if c == nil {
		return "-"
	}
	return dateLabel(c.Date) + " " + truncate(c.Description, 24)
}

func timeLabel(e domain.CalendarEvent) string {
	if e.AllDay {
		return "all day"
	}
	label := e.StartsAt.UTC().Format("15:04")
	if !e.EndsAt.IsZero() {
		label += "–" + e.EndsAt.UTC().Format("15:04")
	}
	return label
}

func linksLabel(links []domain.MarketLink) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		label := l.Slug
		if label == "" {
			label = l.ID
		}
		if l.YesProbability != nil {
			label += fmt.Sprintf(" %d%%", *l.YesProbability)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
