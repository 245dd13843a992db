// Package calendar agrupa eventos fechados por día y extrae los próximos catalysts.
package calendar

import (
	"slices"
	"sort"
	"time"

	"github.com/alejandrodnm/oddsdesk/internal/domain"
)

const dateKeyLayout = "2006-01-02"

// DateKey normaliza un instante a su fecha de calendario UTC (YYYY-MM-DD).
//
// Se usa la fecha UTC y no la zona propia del evento: dos eventos en el mismo
// instante caen en el mismo día venga de donde venga, y un evento nocturno en
// hora local puede caer en el día siguiente.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateKeyLayout)
}

// DayGroup son los eventos de un mismo día UTC, ya ordenados.
type DayGroup struct {
	Date   string
	Events []domain.CalendarEvent
}

// GroupByDay agrupa los eventos por DateKey de su inicio.
// Dentro de cada día: primero los all-day (en orden de entrada), después los
// eventos con hora por inicio ascendente. No modifica events.
func GroupByDay(events []domain.CalendarEvent) map[string][]domain.CalendarEvent {
	groups := make(map[string][]domain.CalendarEvent)
	for _, e := range events {
		key := DateKey(e.StartsAt)
		groups[key] = append(groups[key], e)
	}
	for _, g := range groups {
		slices.SortStableFunc(g, compareInDay)
	}
	return groups
}

// Days devuelve los mismos grupos que GroupByDay ordenados por fecha.
func Days(events []domain.CalendarEvent) []DayGroup {
	groups := GroupByDay(events)
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	// ISO 8601: el orden lexicográfico es el cronológico
	sort.Strings(keys)

	days := make([]DayGroup, 0, len(keys))
	for _, k := range keys {
		days = append(days, DayGroup{Date: k, Events: groups[k]})
	}
	return days
}

// Flatten concatena los grupos en orden de grupo y luego de evento.
func Flatten(days []DayGroup) []domain.CalendarEvent {
	n := 0
	for _, d := range days {
		n += len(d.Events)
	}
	out := make([]domain.CalendarEvent, 0, n)
	for _, d := range days {
		out = append(out, d.Events...)
	}
	return out
}

// compareInDay: all-day antes que timed; entre timed, solo cuenta el inicio.
func compareInDay(a, b domain.CalendarEvent) int {
	if a.AllDay != b.AllDay {
		if a.AllDay {
			return -1
		}
		return 1
	}
	if a.AllDay {
		return 0
	}
	return a.StartsAt.Compare(b.StartsAt)
}
