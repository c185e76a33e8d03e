package ledger

import "math"

// Tolerance is the rounding slack applied to every amount comparison.
// Amounts are rupiah values carried as float64; anything below a sen
// is treated as noise.
const Tolerance = 0.01

// AmountsEqual reports whether two amounts match within Tolerance.
func AmountsEqual(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}

// IsZeroAmount reports whether an amount is indistinguishable from zero.
func IsZeroAmount(a float64) bool {
	return math.Abs(a) < Tolerance
}

// Round2 rounds an amount to two decimal places.
func Round2(a float64) float64 {
	return math.Round(a*100) / 100
}

// SafeAmount normalises NaN and infinities to zero so a malformed input
// field degrades to an empty balance instead of poisoning aggregates.
func SafeAmount(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	return a
}
