package builtins

import (
	"math"

	"tacalc/internal/value"
)

func init() {
	register("avedev", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar, n := ctx.BarIndex, int(args[1].AsNumber(ctx.BarIndex))
		mean := fullWindowMean(args[0], bar, n)
		if math.IsNaN(mean) {
			return math.NaN()
		}
		var sum float64
		for i := bar - n + 1; i <= bar; i++ {
			sum += math.Abs(args[0].AsNumber(i) - mean)
		}
		return sum / float64(n)
	}})

	register("devsq", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar, n := ctx.BarIndex, int(args[1].AsNumber(ctx.BarIndex))
		mean := fullWindowMean(args[0], bar, n)
		if math.IsNaN(mean) {
			return math.NaN()
		}
		var sum float64
		for i := bar - n + 1; i <= bar; i++ {
			d := args[0].AsNumber(i) - mean
			sum += d * d
		}
		return sum
	}})

	variance := func(sample bool) func(ctx *Context, args []value.Value) float64 {
		return func(ctx *Context, args []value.Value) float64 {
			bar, n := ctx.BarIndex, int(args[1].AsNumber(ctx.BarIndex))
			mean := fullWindowMean(args[0], bar, n)
			if math.IsNaN(mean) {
				return math.NaN()
			}
			var sum float64
			for i := bar - n + 1; i <= bar; i++ {
				d := args[0].AsNumber(i) - mean
				sum += d * d
			}
			denom := float64(n)
			if sample {
				denom = float64(n - 1)
			}
			if denom <= 0 {
				return math.NaN()
			}
			return sum / denom
		}
	}
	register("var", Func{2, 2, variance(true)})
	register("varp", Func{2, 2, variance(false)})

	stddev := func(sample bool) func(ctx *Context, args []value.Value) float64 {
		v := variance(sample)
		return func(ctx *Context, args []value.Value) float64 {
			return math.Sqrt(v(ctx, args))
		}
	}
	register("std", Func{2, 2, stddev(true)})
	register("stddev", Func{2, 2, stddev(true)})
	register("stdp", Func{2, 2, stddev(false)})

	register("covar", Func{3, 3, func(ctx *Context, args []value.Value) float64 {
		bar, n := ctx.BarIndex, int(args[2].AsNumber(ctx.BarIndex))
		meanX := fullWindowMean(args[0], bar, n)
		meanY := fullWindowMean(args[1], bar, n)
		if math.IsNaN(meanX) || math.IsNaN(meanY) {
			return math.NaN()
		}
		var sum float64
		for i := bar - n + 1; i <= bar; i++ {
			sum += (args[0].AsNumber(i) - meanX) * (args[1].AsNumber(i) - meanY)
		}
		return sum / float64(n)
	}})

	register("slope", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar, n := ctx.BarIndex, int(args[1].AsNumber(ctx.BarIndex))
		if n <= 1 || bar-n+1 < 0 {
			return math.NaN()
		}
		var sumX, sumY, sumXY, sumXX float64
		for i := 0; i < n; i++ {
			x := float64(i)
			y := args[0].AsNumber(bar - n + 1 + i)
			if math.IsNaN(y) {
				return math.NaN()
			}
			sumX += x
			sumY += y
			sumXY += x * y
			sumXX += x * x
		}
		fn := float64(n)
		denom := fn*sumXX - sumX*sumX
		if denom == 0 {
			return math.NaN()
		}
		return (fn*sumXY - sumX*sumY) / denom
	}})
}
