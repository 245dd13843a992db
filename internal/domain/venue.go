package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownVenue indica un identificador de venue fuera del enum cerrado.
// Es un defecto de datos upstream, no algo que el core intente reparar.
var ErrUnknownVenue = errors.New("unknown venue")

// Venue identifica uno de los dos exchanges de predicción que comparamos.
type Venue string

const (
	VenueKalshi     Venue = "kalshi"     // exchange regulado (precios en centavos)
	VenuePolymarket Venue = "polymarket" // exchange crypto (precios 0–1)
)

// Venues devuelve el enum completo en orden canónico.
func Venues() []Venue {
	return []Venue{VenueKalshi, VenuePolymarket}
}

// ParseVenue convierte un identificador crudo en Venue.
// Acepta mayúsculas y espacios alrededor; cualquier otro valor es ErrUnknownVenue.
func ParseVenue(s string) (Venue, error) {
	v := Venue(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("domain.ParseVenue %q: %w", s, ErrUnknownVenue)
	}
	return v, nil
}

// Valid devuelve true si v pertenece al enum.
func (v Venue) Valid() bool {
	return v == VenueKalshi || v == VenuePolymarket
}

// Label devuelve el nombre legible del venue.
func (v Venue) Label() string {
	switch v {
	case VenueKalshi:
		return "Kalshi"
	case VenuePolymarket:
		return "Polymarket"
	default:
		return string(v)
	}
}

// Other devuelve el venue contrario. Solo tiene sentido con dos venues.
func (v Venue) Other() Venue {
	if v == VenueKalshi {
		return VenuePolymarket
	}
	return VenueKalshi
}
