// Package aggregate normaliza las cotizaciones de cada venue y las fusiona en
// mercados canónicos cross-venue.
package aggregate

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alejandrodnm/oddsdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// maxMagnitude acota los dígitos enteros y decimales que se aceptan del texto.
// Más allá, la aritmética de decimal reescala a números de tamaño arbitrario.
const maxMagnitude = 30

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)

	// Un precio de Polymarket desde 2 se lee como porcentaje; por debajo es
	// una fracción (1.02 → 102 → 100).
	percentFloor = decimal.NewFromInt(2)

	saturated = decimal.New(1, maxMagnitude)
)

// KeyedListing es un Listing etiquetado con la clave de su pregunta canónica.
type KeyedListing struct {
	Key     string
	Listing domain.Listing
}

// NormalizeQuote convierte una cotización cruda en Listing.
//
// Ningún campo numérico mal formado hace fallar el registro: las probabilidades
// pasan a ausentes y volumen/liquidez a cero. El único error es un venue fuera
// del enum (domain.ErrUnknownVenue).
func NormalizeQuote(q domain.RawQuote) (KeyedListing, error) {
	venue, err := domain.ParseVenue(q.Venue)
	if err != nil {
		return KeyedListing{}, fmt.Errorf("aggregate.NormalizeQuote: %w", err)
	}

	l := domain.Listing{
		Venue:          venue,
		VenueMarketID:  strings.TrimSpace(q.VenueMarketID),
		YesProbability: parseProbability(q.Yes, venue),
		NoProbability:  parseProbability(q.No, venue),
		Change24h:      parseChange(q.Change24h, venue),
		Volume:         parseAmount(q.Volume),
		Liquidity:      parseAmount(q.Liquidity),
		URL:            strings.TrimSpace(q.URL),
	}
	if l.NoProbability == nil && l.YesProbability != nil {
		l.NoProbability = domain.IntPtr(100 - *l.YesProbability)
	}
	if ts, ok := domain.ParseTimestamp(q.UpdatedAt); ok {
		l.UpdatedAt = ts.UTC()
	}

	return KeyedListing{Key: strings.TrimSpace(q.MarketKey), Listing: l}, nil
}

// NormalizeQuotes normaliza todas las cotizaciones y descarta (con log) las de
// venues desconocidos.
func NormalizeQuotes(quotes []domain.RawQuote) []KeyedListing {
	listings := make([]KeyedListing, 0, len(quotes))
	for _, q := range quotes {
		kl, err := NormalizeQuote(q)
		if err != nil {
			slog.Warn("skipping quote",
				"market_key", q.MarketKey,
				"venue", q.Venue,
				"err", err,
			)
			continue
		}
		listings = append(listings, kl)
	}
	return listings
}

// parseDecimal interpreta un número en texto. Tolera espacios, "$", "%" y
// separadores de miles. Devuelve false si no es un número.
func parseDecimal(raw string) (decimal.Decimal, bool) {
	d, _, ok := parseDecimalUnit(raw)
	return d, ok
}

// parseDecimalUnit es parseDecimal e informa además si el texto traía "%".
// El resultado se acota con boundDecimal antes de cualquier aritmética.
func parseDecimalUnit(raw string) (d decimal.Decimal, percent bool, ok bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s, percent = strings.CutSuffix(s, "%")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Decimal{}, false, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false, false
	}
	return boundDecimal(d), percent, true
}

// boundDecimal satura d a ±1e30 y descarta lo que está por debajo de 1e-30.
// Sólo mira exponente y mantisa, que ya están acotados por el texto de entrada.
func boundDecimal(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return d
	}
	exp := int64(d.Exponent())
	magnitude := int64(d.NumDigits()) + exp
	switch {
	case magnitude > maxMagnitude:
		if d.IsNegative() {
			return saturated.Neg()
		}
		return saturated
	case magnitude < -maxMagnitude:
		return decimal.Zero
	case exp < -maxMagnitude:
		return d.Truncate(maxMagnitude)
	}
	return d
}

// priceScale devuelve el factor a puntos porcentuales de un venue.
// Kalshi cotiza en centavos (0–100); Polymarket en fracciones (0–1).
func priceScale(v domain.Venue) decimal.Decimal {
	if v == domain.VenuePolymarket {
		return hundred
	}
	return one
}

// parseProbability devuelve la probabilidad en enteros [0,100] o nil.
// Un precio de Polymarket con "%" o desde 2 ya viene en porcentaje y no se
// reescala. El recorte a [0,100] se hace antes de pasar a int.
func parseProbability(raw string, v domain.Venue) *int {
	d, percent, ok := parseDecimalUnit(raw)
	if !ok {
		return nil
	}
	if v == domain.VenuePolymarket && !percent && d.LessThan(percentFloor) {
		d = d.Mul(hundred)
	}
	p := domain.ClampPercentDecimal(d)
	return &p
}

// parseChange devuelve el cambio 24h en puntos porcentuales (2 decimales) o nil.
func parseChange(raw string, v domain.Venue) *float64 {
	d, ok := parseDecimal(raw)
	if !ok {
		return nil
	}
	f, _ := d.Mul(priceScale(v)).Round(2).Float64()
	return &f
}

// parseAmount devuelve un importe no negativo; cualquier cosa inválida es 0.
func parseAmount(raw string) float64 {
	d, ok := parseDecimal(raw)
	if !ok || d.IsNegative() {
		return 0
	}
	f, _ := d.Float64()
	return domain.NonNegative(f)
}
