package ranking

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/alejandrodnm/oddsdesk/internal/domain"
)

// SortName identifica una estrategia de orden del catálogo.
type SortName string

const (
	SortRelevance                  SortName = "relevance"
	SortChange24h                  SortName = "change-24h"
	SortNewest                     SortName = "newest"
	SortExpiringSoonest            SortName = "expiring-soonest"
	SortVolumeCombined             SortName = "volume-combined"
	SortVolumeKalshi               SortName = "volume-kalshi"
	SortVolumePolymarket           SortName = "volume-polymarket"
	SortYesHighest                 SortName = "yes-highest"
	SortYesLowest                  SortName = "yes-lowest"
	SortDivergence                 SortName = "divergence"
	SortDivergenceKalshiHigher     SortName = "divergence-kalshi-higher"
	SortDivergencePolymarketHigher SortName = "divergence-polymarket-higher"
)

// strategy es un orden con exclusión previa opcional.
// Los campos que pueden faltar legítimamente (expiración, divergencia, precio)
// excluyen en vez de ordenar con un default: "sin dato" no es "cero".
type strategy struct {
	keep    func(domain.MergedMarket) bool // nil = conservar todos
	compare func(a, b domain.MergedMarket) int
}

var strategies = map[SortName]strategy{
	SortChange24h: {
		compare: descending(maxAbsChange),
	},
	SortExpiringSoonest: {
		keep:    domain.MergedMarket.HasExpiry,
		compare: func(a, b domain.MergedMarket) int {
			return a.ExpiresAt.Compare(b.ExpiresAt)
		},
	},
	SortVolumeCombined: {
		compare: descending(func(m domain.MergedMarket) float64 { return m.Combined.CombinedVolume }),
	},
	SortVolumeKalshi: {
		compare: descending(venueVolume(domain.VenueKalshi)),
	},
	SortVolumePolymarket: {
		compare: descending(venueVolume(domain.VenuePolymarket)),
	},
	SortYesHighest: {
		compare: descending(maxYes),
	},
	SortYesLowest: {
		keep:    func(m domain.MergedMarket) bool { _, ok := minYes(m); return ok },
		compare: func(a, b domain.MergedMarket) int {
			ya, _ := minYes(a)
			yb, _ := minYes(b)
			return cmp.Compare(ya, yb)
		},
	},
	SortDivergence: {
		keep:    hasDivergence,
		compare: descending(divergence),
	},
	SortDivergenceKalshiHigher: {
		keep:    venueHigher(domain.VenueKalshi),
		compare: descending(divergence),
	},
	SortDivergencePolymarketHigher: {
		keep:    venueHigher(domain.VenuePolymarket),
		compare: descending(divergence),
	},
}

// SortNames devuelve todos los nombres válidos, relevance primero.
func SortNames() []SortName {
	return []SortName{
		SortRelevance,
		SortChange24h,
		SortNewest,
		SortExpiringSoonest,
		SortVolumeCombined,
		SortVolumeKalshi,
		SortVolumePolymarket,
		SortYesHighest,
		SortYesLowest,
		SortDivergence,
		SortDivergenceKalshiHigher,
		SortDivergencePolymarketHigher,
	}
}

// ParseSort convierte texto libre en SortName. Un nombre desconocido (p. ej.
// de una URL vieja) degrada a relevance en lugar de fallar.
func ParseSort(s string) SortName {
	name := SortName(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortNames(), name) {
		return name
	}
	return SortRelevance
}

// Sort devuelve una copia ordenada de markets. Todos los órdenes son estables:
// claves iguales conservan el orden de entrada.
func Sort(markets []domain.MergedMarket, name SortName) []domain.MergedMarket {
	if name == SortNewest {
		// TODO: ordenar por un timestamp real de actualización cuando el dataset lo traiga;
		// hoy "newest" es el orden de entrada invertido.
		out := slices.Clone(markets)
		slices.Reverse(out)
		return out
	}

	s, ok := strategies[name]
	if !ok {
		return slices.Clone(markets)
	}

	out := make([]domain.MergedMarket, 0, len(markets))
	for _, m := range markets {
		if s.keep == nil || s.keep(m) {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, s.compare)
	return out
}

// --- claves ---

func descending(key func(domain.MergedMarket) float64) func(a, b domain.MergedMarket) int {
	return func(a, b domain.MergedMarket) int {
		return cmp.Compare(key(b), key(a))
	}
}

// maxAbsChange: mayor |cambio 24h| entre listings; ausente cuenta como 0.
func maxAbsChange(m domain.MergedMarket) float64 {
	best := 0.0
	for _, l := range m.Listings {
		if l.Change24h != nil {
			best = math.Max(best, math.Abs(*l.Change24h))
		}
	}
	return best
}

// venueVolume: volumen del venue, 0 si no cotiza ahí (cero es el valor correcto).
func venueVolume(v domain.Venue) func(domain.MergedMarket) float64 {
	return func(m domain.MergedMarket) float64 {
		if l, ok := m.Listing(v); ok {
			return l.Volume
		}
		return 0
	}
}

// maxYes: mayor precio YES entre listings; ausente cuenta como 0.
func maxYes(m domain.MergedMarket) float64 {
	best := 0
	for _, l := range m.Listings {
		if y, ok := l.Yes(); ok && y > best {
			best = y
		}
	}
	return float64(best)
}

// minYes: menor precio YES definido; false si ningún listing tiene precio.
func minYes(m domain.MergedMarket) (int, bool) {
	lowest, found := 0, false
	for _, l := range m.Listings {
		if y, ok := l.Yes(); ok && (!found || y < lowest) {
			lowest, found = y, true
		}
	}
	return lowest, found
}

func hasDivergence(m domain.MergedMarket) bool {
	return m.Combined.Divergence != nil
}

func divergence(m domain.MergedMarket) float64 {
	if m.Combined.Divergence == nil {
		return 0
	}
	return float64(*m.Combined.Divergence)
}

// venueHigher conserva mercados donde v cotiza YES estrictamente por encima del otro venue.
func venueHigher(v domain.Venue) func(domain.MergedMarket) bool {
	return func(m domain.MergedMarket) bool {
		gap, ok := m.YesGap(v)
		return ok && gap > 0 && hasDivergence(m)
	}
}
