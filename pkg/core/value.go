// Package core provides the in-memory table and annotation models shared by the
// mapping, normalization and concentration stages of MSNorm.
package core

import "math"

// Value is a nullable float. A null Value is distinct from NaN: NaN and ±Inf
// are valid floating-point results, null means "no value".
type Value struct {
	Float float64
	Valid bool
}

// Null returns the null Value.
func Null() Value {
	return Value{}
}

// Of wraps f as a valid Value.
func Of(f float64) Value {
	return Value{Float: f, Valid: true}
}

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool {
	return !v.Valid
}

// IsFinite reports whether v is valid and neither NaN nor ±Inf.
func (v Value) IsFinite() bool {
	return v.Valid && !math.IsNaN(v.Float) && !math.IsInf(v.Float, 0)
}

// Div divides v by d using IEEE-754 semantics. A zero denominator yields
// ±Inf or NaN, not null. Null in either operand yields null.
func (v Value) Div(d Value) Value {
	if !v.Valid || !d.Valid {
		return Null()
	}
	return Of(v.Float / d.Float)
}

// Mul multiplies v by o. Null in either operand yields null.
func (v Value) Mul(o Value) Value {
	if !v.Valid || !o.Valid {
		return Null()
	}
	return Of(v.Float * o.Float)
}

// Nulls returns n null values.
func Nulls(n int) []Value {
	return make([]Value, n)
}

// RoundFloat rounds a float to n decimal places
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
