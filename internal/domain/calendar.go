package domain

import (
	"strings"
	"time"
)

// Impact es el nivel de impacto esperado de un evento de calendario.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// ParseImpact convierte texto libre en Impact. Desconocido → "" (sin nivel).
func ParseImpact(s string) Impact {
	switch i := Impact(strings.ToLower(strings.TrimSpace(s))); i {
	case ImpactHigh, ImpactMedium, ImpactLow:
		return i
	default:
		return ""
	}
}

// Rank ordena los niveles: high=3, medium=2, low=1, desconocido=0.
func (i Impact) Rank() int {
	switch i {
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	case ImpactLow:
		return 1
	default:
		return 0
	}
}

// MarketLink es la foto de un mercado enlazado desde un evento de calendario.
// No se sincroniza con el MergedMarket: es un snapshot editorial.
type MarketLink struct {
	ID             string
	Title          string
	Slug           string
	Venues         []Venue
	YesProbability *int
	Divergence     *int
}

// CalendarEvent es un acontecimiento fechado en el calendario de un desk.
type CalendarEvent struct {
	ID       string
	Slug     string
	Title    string
	Desk     string // politics, economy, crypto...
	Impact   Impact
	Type     string // release, hearing, election...
	StartsAt time.Time
	EndsAt   time.Time // zero = sin hora de fin
	AllDay   bool
	Status   string
	Markets  []MarketLink
}
