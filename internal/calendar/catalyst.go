package calendar

import (
	"slices"
	"time"

	"github.com/alejandrodnm/oddsdesk/internal/domain"
)

// NextCatalyst devuelve el catalyst con la fecha más pequeña >= now.
// Con empate exacto gana el primero de la lista. Si ninguno es futuro devuelve
// nil: nunca se recurre al catalyst pasado más reciente.
func NextCatalyst(catalysts []domain.Catalyst, now time.Time) *domain.Catalyst {
	var next *domain.Catalyst
	for _, c := range catalysts {
		c := c
		if c.Date.Before(now) {
			continue
		}
		if next == nil || c.Date.Before(next.Date) {
			next = &c
		}
	}
	return next
}

// CatalystEntry es el próximo catalyst de un mercado, para la lista global.
type CatalystEntry struct {
	MarketID string
	Slug     string
	Title    string
	Catalyst domain.Catalyst
}

// UpcomingCatalysts toma el próximo catalyst de cada mercado y los ordena por
// fecha ascendente; los empates mantienen el orden de los mercados.
// limit <= 0 devuelve todos.
func UpcomingCatalysts(markets []domain.MergedMarket, now time.Time, limit int) []CatalystEntry {
	entries := make([]CatalystEntry, 0, len(markets))
	for _, m := range markets {
		next := NextCatalyst(m.Catalysts, now)
		if next == nil {
			continue
		}
		entries = append(entries, CatalystEntry{
			MarketID: m.ID,
			Slug:     m.Slug,
			Title:    m.Title,
			Catalyst: *next,
		})
	}

	slices.SortStableFunc(entries, func(a, b CatalystEntry) int {
		return a.Catalyst.Date.Compare(b.Catalyst.Date)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
