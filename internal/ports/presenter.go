package ports

import (
	"context"

	"github.com/alejandrodnm/oddsdesk/internal/aggregate"
	"github.com/alejandrodnm/oddsdesk/internal/calendar"
	"github.com/alejandrodnm/oddsdesk/internal/domain"
)

// Presenter muestra las vistas del desk al usuario.
// En la implementación de consola, imprime tablas formateadas.
type Presenter interface {
	ShowMarkets(ctx context.Context, markets []domain.MergedMarket) error
	ShowCalendar(ctx context.Context, days []calendar.DayGroup) error
	ShowCatalysts(ctx context.Context, entries []calendar.CatalystEntry) error
	ShowSummary(ctx context.Context, s aggregate.Summary) error
}
