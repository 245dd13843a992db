package aggregate

import "github.com/alejandrodnm/oddsdesk/internal/domain"

// Summary resume una colección de mercados para la cabecera de un desk.
type Summary struct {
	Markets           int
	ByCoverage        map[domain.Coverage]int
	CombinedVolume    float64
	CombinedLiquidity float64
	// AvgDivergence es la media sobre los mercados con divergencia definida;
	// nil si ninguno la tiene.
	AvgDivergence *float64
	MaxDivergence *int
}

// CrossListed devuelve cuántos mercados cotizan en ambos venues.
func (s Summary) CrossListed() int {
	return s.ByCoverage[domain.CoverageCrossListed]
}

// CrossListedShare devuelve la fracción (0–1) de mercados cross-listed.
func (s Summary) CrossListedShare() float64 {
	if s.Markets == 0 {
		return 0
	}
	return float64(s.CrossListed()) / float64(s.Markets)
}

// Summarize calcula el resumen. No modifica markets.
func Summarize(markets []domain.MergedMarket) Summary {
	s := Summary{
		Markets:    len(markets),
		ByCoverage: make(map[domain.Coverage]int, 3),
	}

	var divSum, divCount int
	for _, m := range markets {
		s.ByCoverage[m.Coverage()]++
		s.CombinedVolume += m.Combined.CombinedVolume
		s.CombinedLiquidity += m.Combined.CombinedLiquidity

		if d := m.Combined.Divergence; d != nil {
			divSum += *d
			divCount++
			if s.MaxDivergence == nil || *d > *s.MaxDivergence {
				s.MaxDivergence = domain.IntPtr(*d)
			}
		}
	}

	if divCount > 0 {
		s.AvgDivergence = domain.FloatPtr(float64(divSum) / float64(divCount))
	}
	return s
}
