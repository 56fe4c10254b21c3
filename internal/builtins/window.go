package builtins

import (
	"math"

	"tacalc/internal/value"
)

// fullWindowSum sums v over [bar-n+1, bar], returning NaN if the window
// runs off the start of history or any value in it is NaN — the "requires
// full window" rule spec section 4.6 calls out for ma/sum.
func fullWindowSum(v value.Value, bar, n int) float64 {
	if n <= 0 || bar-n+1 < 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := bar - n + 1; i <= bar; i++ {
		x := v.AsNumber(i)
		if math.IsNaN(x) {
			return math.NaN()
		}
		sum += x
	}
	return sum
}

func fullWindowMean(v value.Value, bar, n int) float64 {
	s := fullWindowSum(v, bar, n)
	if math.IsNaN(s) {
		return s
	}
	return s / float64(n)
}

// clampedExtreme scans [max(0,bar-n+1), bar] (or, with excludeCurrent,
// [max(0,bar-n), bar-1]) ignoring NaN, and returns the max (findMax=true)
// or min value found, NaN if nothing qualifies.
func clampedExtreme(v value.Value, bar, n int, findMax, excludeCurrent bool) float64 {
	end := bar
	if excludeCurrent {
		end = bar - 1
	}
	start := end - n + 1
	if start < 0 {
		start = 0
	}
	result := math.NaN()
	for i := start; i <= end; i++ {
		x := v.AsNumber(i)
		if math.IsNaN(x) {
			continue
		}
		if math.IsNaN(result) || (findMax && x > result) || (!findMax && x < result) {
			result = x
		}
	}
	return result
}

// extremeOffset mirrors clampedExtreme but returns the distance back (in
// bars) from bar to the extreme, per hhvbars/llvbars' "offset-back index"
// definition; 0 when the extreme is the current bar, NaN if none found.
func extremeOffset(v value.Value, bar, n int, findMax bool) float64 {
	start := bar - n + 1
	if start < 0 {
		start = 0
	}
	best := math.NaN()
	bestIdx := -1
	for i := start; i <= bar; i++ {
		x := v.AsNumber(i)
		if math.IsNaN(x) {
			continue
		}
		if math.IsNaN(best) || (findMax && x > best) || (!findMax && x < best) {
			best = x
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return math.NaN()
	}
	return float64(bar - bestIdx)
}
