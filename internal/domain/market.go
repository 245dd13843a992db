package domain

import (
	"strings"
	"time"
)

// Listing es la cotización de un venue para una pregunta.
type Listing struct {
	Venue          Venue
	VenueMarketID  string   // ticker de Kalshi o condition id de Polymarket
	YesProbability *int     // 0–100; nil si el venue pausó la cotización
	NoProbability  *int     // normalmente 100 - yes, pero se guarda aparte por el redondeo del venue
	Change24h      *float64 // puntos porcentuales, con signo
	Volume         float64  // USD, nunca negativo
	Liquidity      float64  // USD, nunca negativo
	UpdatedAt      time.Time
	URL            string
}

// HasYes devuelve true si el venue tiene precio YES definido.
func (l Listing) HasYes() bool {
	return l.YesProbability != nil
}

// Yes devuelve el precio YES y si está definido.
func (l Listing) Yes() (int, bool) {
	if l.YesProbability == nil {
		return 0, false
	}
	return *l.YesProbability, true
}

// MarketStatus es el ciclo de vida de un mercado.
type MarketStatus string

const (
	MarketActive   MarketStatus = "active"
	MarketResolved MarketStatus = "resolved"
	MarketPending  MarketStatus = "pending"
)

// ParseMarketStatus convierte texto libre en MarketStatus. Desconocido → active.
func ParseMarketStatus(s string) MarketStatus {
	switch MarketStatus(strings.ToLower(strings.TrimSpace(s))) {
	case MarketResolved:
		return MarketResolved
	case MarketPending:
		return MarketPending
	default:
		return MarketActive
	}
}

// Coverage clasifica un mercado según los venues donde cotiza.
type Coverage string

const CoverageCrossListed Coverage = "cross-listed"

// VenueOnly devuelve la cobertura "<venue>-only".
func VenueOnly(v Venue) Coverage {
	return Coverage(string(v) + "-only")
}

// CoverageOf clasifica un conjunto de listings. Solo depende de qué venues
// están presentes, nunca de los precios. Sin listings devuelve "".
func CoverageOf(listings []Listing) Coverage {
	switch len(listings) {
	case 0:
		return ""
	case 1:
		return VenueOnly(listings[0].Venue)
	default:
		return CoverageCrossListed
	}
}

// Catalyst es un evento fechado que se espera que mueva el precio de un mercado.
type Catalyst struct {
	Date        time.Time
	Description string
}

// Combined resume las métricas cross-venue de un mercado.
type Combined struct {
	CombinedVolume    float64
	CombinedLiquidity float64
	PlatformCount     int
	Divergence        *int // nil salvo que haya dos venues con precio YES
}

// Combine calcula el resumen sobre los listings presentes.
// Los venues ausentes no aportan nada (no cuentan como listings a cero).
func Combine(listings []Listing) Combined {
	c := Combined{PlatformCount: len(listings)}
	for _, l := range listings {
		c.CombinedVolume += l.Volume
		c.CombinedLiquidity += l.Liquidity
	}
	if len(listings) == 2 {
		c.Divergence = Divergence(listings[0].YesProbability, listings[1].YesProbability)
	}
	return c
}

// MergedMarket es la entidad canónica, independiente del venue.
type MergedMarket struct {
	ID                string
	Slug              string
	Title             string
	CanonicalQuestion string
	Category          string
	Tags              []string
	Listings          []Listing // 1..2, como mucho uno por venue; el orden no es estable
	Combined          Combined
	Catalysts         []Catalyst
	NextCatalyst      *Catalyst
	ExpiresAt         time.Time // zero = sin fecha de expiración
	Status            MarketStatus
}

// Listing busca el listing de un venue. Nunca acceder por posición.
func (m MergedMarket) Listing(v Venue) (Listing, bool) {
	for _, l := range m.Listings {
		if l.Venue == v {
			return l, true
		}
	}
	return Listing{}, false
}

// HasVenue devuelve true si el mercado cotiza en v.
func (m MergedMarket) HasVenue(v Venue) bool {
	_, ok := m.Listing(v)
	return ok
}

// Coverage devuelve la clasificación de cobertura del mercado.
func (m MergedMarket) Coverage() Coverage {
	return CoverageOf(m.Listings)
}

// IsCrossListed devuelve true si el mercado cotiza en ambos venues.
func (m MergedMarket) IsCrossListed() bool {
	return m.Combined.PlatformCount == 2
}

// Venues devuelve los venues presentes en orden canónico.
func (m MergedMarket) Venues() []Venue {
	out := make([]Venue, 0, len(m.Listings))
	for _, v := range Venues() {
		if m.HasVenue(v) {
			out = append(out, v)
		}
	}
	return out
}

// YesGap devuelve yes(v) - yes(v.Other()) si ambos están definidos.
func (m MergedMarket) YesGap(v Venue) (int, bool) {
	a, okA := m.Listing(v)
	b, okB := m.Listing(v.Other())
	if !okA || !okB || !a.HasYes() || !b.HasYes() {
		return 0, false
	}
	return *a.YesProbability - *b.YesProbability, true
}

// HasExpiry devuelve true si el mercado tiene fecha de expiración.
func (m MergedMarket) HasExpiry() bool {
	return !m.ExpiresAt.IsZero()
}

// TruncateTitle devuelve el título truncado a maxLen caracteres.
// Si el título está vacío usa el slug como fallback.
func TruncateTitle(title, slug string, maxLen int) string {
	t := title
	if t == "" {
		t = slug
	}
	r := []rune(t)
	if len(r) > maxLen && maxLen > 3 {
		t = string(r[:maxLen-3]) + "..."
	}
	return t
}
