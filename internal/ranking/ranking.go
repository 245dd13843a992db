// Package ranking implementa el pipeline filtro → orden sobre mercados fusionados.
package ranking

import "github.com/alejandrodnm/oddsdesk/internal/domain"

// Options son las opciones crudas de una vista de mercados. Vienen del estado
// de la UI o de parámetros de URL, así que cualquier valor desconocido degrada
// a no-op en lugar de fallar.
type Options struct {
	Sort     string   // nombre del catálogo; desconocido → relevance
	Coverage string   // all | cross-listed | exclusive
	Venues   []string // subconjunto de venues; vacío → todos
	Query    string   // substring sobre título, pregunta canónica y tags
	Limit    int      // 0 = sin límite
}

// Apply filtra y después ordena. Devuelve siempre un slice nuevo y no
// modifica markets.
func Apply(markets []domain.MergedMarket, opts Options) []domain.MergedMarket {
	filtered := NewFilter(opts).Apply(markets)
	ranked := Sort(filtered, ParseSort(opts.Sort))
	if opts.Limit > 0 && len(ranked) > opts.Limit {
		ranked = ranked[:opts.Limit]
	}
	return ranked
}
