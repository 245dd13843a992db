package calendar

import (
	"strings"
	"time"

	"github.com/alejandrodnm/oddsdesk/internal/domain"
)

// Filter acota la vista de calendario. Todos los campos son opcionales y los
// valores desconocidos no filtran nada.
type Filter struct {
	// Desks conserva solo los eventos de estos desks (sin distinguir mayúsculas).
	Desks []string
	// MinImpact descarta eventos por debajo de este nivel (high|medium|low).
	MinImpact string
	// From y To acotan la ventana [From, To). Un evento que empezó antes de From
	// pero sigue abierto (EndsAt >= From) se conserva.
	From time.Time
	To   time.Time
}

// Apply devuelve los eventos que pasan el filtro, en el orden de entrada.
func (f Filter) Apply(events []domain.CalendarEvent) []domain.CalendarEvent {
	desks := make(map[string]bool, len(f.Desks))
	for _, d := range f.Desks {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			desks[d] = true
		}
	}
	minRank := domain.ParseImpact(f.MinImpact).Rank()

	result := make([]domain.CalendarEvent, 0, len(events))
	for _, e := range events {
		if len(desks) > 0 && !desks[strings.ToLower(e.Desk)] {
			continue
		}
		if minRank > 0 && e.Impact.Rank() < minRank {
			continue
		}
		if !f.inWindow(e) {
			continue
		}
		result = append(result, e)
	}
	return result
}

func (f Filter) inWindow(e domain.CalendarEvent) bool {
	end := e.EndsAt
	if end.IsZero() {
		end = e.StartsAt
	}
	if !f.From.IsZero() && end.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !e.StartsAt.Before(f.To) {
		return false
	}
	return true
}
