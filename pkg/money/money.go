// Package money fixes the rounding policy for ledger arithmetic: every stored
// value is rounded to cents, comparisons tolerate half a cent.
package money

import "math"

// Eps is half a cent: the tolerance for equality and zero checks on amounts
// that went through float arithmetic.
const Eps = 0.005

// Round2 rounds to cents.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }

// Eq reports whether two amounts are equal within Eps.
func Eq(a, b float64) bool { return math.Abs(a-b) < Eps }

// IsZero reports whether an amount is zero within Eps.
func IsZero(v float64) bool { return math.Abs(v) < Eps }

// Units returns how many whole units of size price cover amount
// (ceiling division), e.g. share counts.
func Units(amount, price float64) int {
	if price <= 0 {
		return 0
	}
	return int(math.Ceil(Round2(amount) / price))
}

// Allocate splits total across weights pro-rata, rounding each slice to cents
// and assigning the accumulated remainder to the last non-zero weight so the
// slices always sum to exactly Round2(total). Each slice is clamped to what
// is still unallocated, so no slice goes negative even when every earlier
// slice rounded up (a 2-cent total over four equal weights rounds each
// quarter-cent up to a cent).
func Allocate(total float64, weights []float64) []float64 {
	out := make([]float64, len(weights))
	if len(weights) == 0 {
		return out
	}
	var weightSum float64
	for _, w := range weights {
		weightSum += w
	}
	total = Round2(total)
	if weightSum <= 0 || IsZero(total) {
		return out
	}

	last := -1
	for i, w := range weights {
		if w > 0 {
			last = i
		}
	}

	var allocated float64
	for i, w := range weights {
		if i == last {
			out[i] = Round2(total - allocated)
			break
		}
		slice := Round2(total * w / weightSum)
		if rem := Round2(total - allocated); slice > rem {
			slice = rem
		}
		out[i] = slice
		allocated = Round2(allocated + slice)
	}
	return out
}
