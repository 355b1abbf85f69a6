package transfer

import "github.com/shopspring/decimal"

// decimalWithin reports whether the absolute difference between a and b is
// within tol (a plain float64 tolerance, matching the spec's literal 0.01
// constants).
func decimalWithin(a, b decimal.Decimal, tol float64) bool {
	diff := a.Sub(b).Abs()
	return diff.LessThanOrEqual(decimal.NewFromFloat(tol))
}
