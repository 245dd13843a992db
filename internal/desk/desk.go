// Package desk orquesta la carga del snapshot y las vistas de solo lectura
// (mercados rankeados, calendario, catalysts y resumen).
package desk

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/oddsdesk/internal/aggregate"
	"github.com/alejandrodnm/oddsdesk/internal/calendar"
	"github.com/alejandrodnm/oddsdesk/internal/domain"
	"github.com/alejandrodnm/oddsdesk/internal/ports"
	"github.com/alejandrodnm/oddsdesk/internal/ranking"
)

// Config contiene los defaults de las vistas.
type Config struct {
	Sort        string // orden por defecto si Options.Sort viene vacío
	Coverage    string // cobertura por defecto si Options.Coverage viene vacío
	Limit       int    // límite por defecto si Options.Limit es 0
	HorizonDays int    // ventana del calendario desde now si el filtro no trae fechas; 0 = sin ventana
}

// DefaultConfig devuelve la configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Sort:        string(ranking.SortRelevance),
		Coverage:    string(ranking.CoverageAll),
		Limit:       25,
		HorizonDays: 30,
	}
}

// Desk es el snapshot inmutable de mercados y eventos ya fusionados.
// Todas las vistas son lecturas puras: se puede compartir entre goroutines.
type Desk struct {
	cfg     Config
	now     time.Time
	markets []domain.MergedMarket
	events  []domain.CalendarEvent
}

// Open carga el dataset de source, normaliza las cotizaciones y fusiona los
// mercados respecto a now.
func Open(ctx context.Context, cfg Config, source ports.DatasetSource, now time.Time) (*Desk, error) {
	start := time.Now()

	ds, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("desk.Open: load dataset: %w", err)
	}
	d := Build(cfg, ds, now)

	slog.Info("desk ready",
		"markets", len(d.markets),
		"events", len(d.events),
		"quotes", len(ds.Quotes),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return d, nil
}

// Build crea el Desk a partir de un dataset ya cargado.
func Build(cfg Config, ds domain.Dataset, now time.Time) *Desk {
	listings := aggregate.NormalizeQuotes(ds.Quotes)
	return &Desk{
		cfg:     cfg,
		now:     now,
		markets: aggregate.Merge(ds.Questions, listings, now),
		events:  append([]domain.CalendarEvent(nil), ds.Events...),
	}
}

// Now devuelve el instante de referencia del snapshot.
func (d *Desk) Now() time.Time { return d.now }

// All devuelve todos los mercados en el orden de curación.
func (d *Desk) All() []domain.MergedMarket {
	return append([]domain.MergedMarket(nil), d.markets...)
}

// Markets aplica filtros y orden. Los campos vacíos de opts toman los defaults de Config.
func (d *Desk) Markets(opts ranking.Options) []domain.MergedMarket {
	if opts.Sort == "" {
		opts.Sort = d.cfg.Sort
	}
	if opts.Coverage == "" {
		opts.Coverage = d.cfg.Coverage
	}
	if opts.Limit == 0 {
		opts.Limit = d.cfg.Limit
	}
	return ranking.Apply(d.markets, opts)
}

// Calendar filtra los eventos y los agrupa por día UTC en orden cronológico.
// Sin From ni To se usa la ventana [inicio del día de now, +HorizonDays).
func (d *Desk) Calendar(f calendar.Filter) []calendar.DayGroup {
	if f.From.IsZero() && f.To.IsZero() && d.cfg.HorizonDays > 0 {
		day := d.now.UTC().Truncate(24 * time.Hour)
		f.From = day
		f.To = day.AddDate(0, 0, d.cfg.HorizonDays)
	}
	return calendar.Days(f.Apply(d.events))
}

// Catalysts devuelve el próximo catalyst de cada mercado, ordenados por fecha.
func (d *Desk) Catalysts(limit int) []calendar.CatalystEntry {
	return calendar.UpcomingCatalysts(d.markets, d.now, limit)
}

// Summary resume todos los mercados del snapshot.
func (d *Desk) Summary() aggregate.Summary {
	return aggregate.Summarize(d.markets)
}

// Report muestra el resumen y la vista de mercados en p.
func (d *Desk) Report(ctx context.Context, p ports.Presenter, opts ranking.Options) error {
	if err := p.ShowSummary(ctx, d.Summary()); err != nil {
		return fmt.Errorf("desk.Report: summary: %w", err)
	}
	if err := p.ShowMarkets(ctx, d.Markets(opts)); err != nil {
		return fmt.Errorf("desk.Report: markets: %w", err)
	}
	return nil
}
