package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	half    = decimal.NewFromFloat(0.5)
	hundred = decimal.NewFromInt(100)
	maxInt  = decimal.NewFromInt(math.MaxInt)
	minInt  = decimal.NewFromInt(math.MinInt)
)

// RoundHalfUp redondea al entero más cercano; los empates (x.5) suben hacia +∞.
// NaN e Inf devuelven 0.
func RoundHalfUp(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return RoundHalfUpDecimal(decimal.NewFromFloat(v))
}

// RoundHalfUpDecimal es RoundHalfUp sin pasar por float64.
// Los precios de los venues llegan como texto, así "0.325" → 32.5 → 33 de forma exacta.
// Fuera del rango de int satura en sus extremos.
func RoundHalfUpDecimal(d decimal.Decimal) int {
	r := d.Add(half).Floor()
	switch {
	case r.GreaterThan(maxInt):
		return math.MaxInt
	case r.LessThan(minInt):
		return math.MinInt
	}
	return int(r.IntPart())
}

// ClampPercentDecimal limita d a [0, 100] antes de redondear, de modo que
// magnitudes enormes nunca llegan a convertirse a int.
func ClampPercentDecimal(d decimal.Decimal) int {
	return RoundHalfUpDecimal(decimal.Max(decimal.Zero, decimal.Min(d, hundred)))
}

// ClampPercent limita v al rango [0, 100].
func ClampPercent(v int) int {
	return max(0, min(100, v))
}

// NonNegative devuelve v, o 0 si v es negativo, NaN o Inf.
func NonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Divergence calcula |a - b| en puntos porcentuales.
// Devuelve nil si falta alguno de los dos precios: ausencia y divergencia cero
// son hechos distintos.
func Divergence(a, b *int) *int {
	if a == nil || b == nil {
		return nil
	}
	d := *a - *b
	if d < 0 {
		d = -d
	}
	return &d
}

// IntPtr devuelve un puntero a una copia de v.
func IntPtr(v int) *int { return &v }

// FloatPtr devuelve un puntero a una copia de v.
func FloatPtr(v float64) *float64 { return &v }
