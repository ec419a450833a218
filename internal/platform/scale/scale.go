// Package scale normalises sums computed over a sparsely covered date window
// up to the nominal window length, and holds the half-up rounding used by
// every reported figure.
package scale

import "github.com/shopspring/decimal"

// Factor is nominal/available expressed as a ratio so scaled values are
// rounded once from the exact product.
type Factor struct {
	Nominal   int64
	Available int64
}

// For returns the factor for a window. Scaling applies only when some but not
// all nominal days carry data; otherwise the factor is the identity.
func For(nominal, available int64) Factor {
	if available > 0 && available < nominal {
		return Factor{Nominal: nominal, Available: available}
	}
	return Factor{Nominal: 1, Available: 1}
}

// Identity reports whether the factor leaves values unchanged.
func (f Factor) Identity() bool {
	return f.Nominal == f.Available
}

// Value returns the factor as a float for reporting.
func (f Factor) Value() float64 {
	v, _ := decimal.NewFromInt(f.Nominal).Div(decimal.NewFromInt(f.Available)).Float64()
	return v
}

// Apply returns round(raw * nominal / available).
func (f Factor) Apply(raw int64) int64 {
	if f.Identity() {
		return raw
	}
	return MulRound(raw, f.Nominal, f.Available)
}

// MulRound returns round(x * num / den) computed in decimal.
func MulRound(x, num, den int64) int64 {
	if den == 0 {
		return 0
	}
	return decimal.NewFromInt(x).
		Mul(decimal.NewFromInt(num)).
		Div(decimal.NewFromInt(den)).
		Round(0).
		IntPart()
}

// Round rounds half away from zero to an integer.
func Round(x float64) int64 {
	return decimal.NewFromFloat(x).Round(0).IntPart()
}

// RoundTo rounds x to the given number of decimals.
func RoundTo(x float64, places int32) float64 {
	v, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return v
}

// Ratio returns round(num / den * 100), or 0 when den is zero.
func Ratio(num, den int64) int64 {
	return MulRound(num, 100, den)
}

// Mean returns sum/count rounded to the given decimals, or 0 for no samples.
func Mean(sum float64, count int64, places int32) float64 {
	if count == 0 {
		return 0
	}
	v, _ := decimal.NewFromFloat(sum).
		Div(decimal.NewFromInt(count)).
		Round(places).
		Float64()
	return v
}
