package builtins

import (
	"math"

	"tacalc/internal/value"
)

// rsi computes a windowed relative-strength index over the last n bar-to-bar
// differences: Σ(positive diffs)/n vs Σ(|negative diffs|)/n, per spec
// section 8's EasyLanguage `RSI` supplement. This is the plain windowed
// form, not Wilder's exponential smoothing — the pack has no TA library to
// follow for the smoothed variant, and a windowed average keeps the same
// "full window required, else NaN" discipline as every other averaging
// builtin here.
func rsi(ctx *Context, args []value.Value) float64 {
	bar := ctx.BarIndex
	n := int(args[1].AsNumber(bar))
	if n <= 0 || bar-n < 0 {
		return math.NaN()
	}

	var gain, loss float64
	for i := bar - n + 1; i <= bar; i++ {
		diff := args[0].AsNumber(i) - args[0].AsNumber(i-1)
		if math.IsNaN(diff) {
			return math.NaN()
		}
		if diff > 0 {
			gain += diff
		} else {
			loss += -diff
		}
	}
	avgGain := gain / float64(n)
	avgLoss := loss / float64(n)
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

func init() {
	register("rsi", Func{2, 2, rsi})
}
