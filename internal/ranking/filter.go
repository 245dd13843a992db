package ranking

import (
	"slices"
	"strings"

	"github.com/alejandrodnm/oddsdesk/internal/domain"
	"golang.org/x/text/cases"
)

// CoverageFilter conserva mercados según su cobertura.
type CoverageFilter string

const (
	CoverageAll         CoverageFilter = "all"
	CoverageCrossListed CoverageFilter = "cross-listed"
	CoverageExclusive   CoverageFilter = "exclusive" // un solo venue
)

// ParseCoverage convierte texto libre en CoverageFilter. Desconocido → all.
func ParseCoverage(s string) CoverageFilter {
	switch c := CoverageFilter(strings.ToLower(strings.TrimSpace(s))); c {
	case CoverageCrossListed, CoverageExclusive:
		return c
	default:
		return CoverageAll
	}
}

// Filter aplica los filtros de cobertura, venues y texto sobre mercados.
// Cada filtro es independiente y opcional.
type Filter struct {
	coverage CoverageFilter
	venues   map[domain.Venue]bool
	query    string
	fold     cases.Caser
}

// NewFilter crea un Filter desde las opciones crudas. Los venues desconocidos
// se ignoran; si no queda ninguno, el filtro de venues no aplica.
// Un Filter no es seguro para uso concurrente (el Caser tiene estado).
func NewFilter(opts Options) *Filter {
	f := &Filter{
		coverage: ParseCoverage(opts.Coverage),
		venues:   make(map[domain.Venue]bool, len(opts.Venues)),
		fold:     cases.Fold(),
	}
	for _, raw := range opts.Venues {
		if v, err := domain.ParseVenue(raw); err == nil {
			f.venues[v] = true
		}
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		f.query = f.fold.String(q)
	}
	return f
}

// Apply devuelve los mercados que pasan todos los filtros, en orden de entrada.
func (f *Filter) Apply(markets []domain.MergedMarket) []domain.MergedMarket {
	result := make([]domain.MergedMarket, 0, len(markets))
	for _, m := range markets {
		if f.passes(m) {
			result = append(result, m)
		}
	}
	return result
}

// passes devuelve true si el mercado supera todos los criterios.
func (f *Filter) passes(m domain.MergedMarket) bool {
	switch f.coverage {
	case CoverageCrossListed:
		if m.Combined.PlatformCount != 2 {
			return false
		}
	case CoverageExclusive:
		if m.Combined.PlatformCount != 1 {
			return false
		}
	}

	if len(f.venues) > 0 && !slices.ContainsFunc(m.Listings, func(l domain.Listing) bool {
		return f.venues[l.Venue]
	}) {
		return false
	}

	if f.query != "" && !f.matches(m) {
		return false
	}
	return true
}

// matches busca la query como substring (sin mayúsculas) en título,
// pregunta canónica y tags. Basta con que aparezca en uno.
func (f *Filter) matches(m domain.MergedMarket) bool {
	if strings.Contains(f.fold.String(m.Title), f.query) {
		return true
	}
	if strings.Contains(f.fold.String(m.CanonicalQuestion), f.query) {
		return true
	}
	for _, tag := range m.Tags {
		if strings.Contains(f.fold.String(tag), f.query) {
			return true
		}
	}
	return false
}
