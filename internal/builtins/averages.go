package builtins

import (
	"math"

	"tacalc/internal/value"
)

func init() {
	register("ma", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		n := int(args[1].AsNumber(ctx.BarIndex))
		return fullWindowMean(args[0], ctx.BarIndex, n)
	}})

	register("sma", Func{2, 3, func(ctx *Context, args []value.Value) float64 {
		// weight (args[2]) is accepted and ignored, per spec section 4.6.
		n := int(args[1].AsNumber(ctx.BarIndex))
		return fullWindowMean(args[0], ctx.BarIndex, n)
	}})

	register("wma", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		n := int(args[1].AsNumber(bar))
		if n <= 0 || bar-n+1 < 0 {
			return math.NaN()
		}
		var sum, wsum float64
		weight := 1.0
		for i := bar - n + 1; i <= bar; i++ {
			x := args[0].AsNumber(i)
			if math.IsNaN(x) {
				return math.NaN()
			}
			sum += x * weight
			wsum += weight
			weight++
		}
		return sum / wsum
	}})

	register("tma", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		n := int(args[1].AsNumber(bar))
		if n <= 0 || bar-n+1 < 0 {
			return math.NaN()
		}
		var sum float64
		for i := bar - n + 1; i <= bar; i++ {
			m := fullWindowMean(args[0], i, n)
			if math.IsNaN(m) {
				return math.NaN()
			}
			sum += m
		}
		return sum / float64(n)
	}})

	register("ema", emaFunc(2))
	register("expma", emaFunc(2))

	register("mema", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		n := args[1].AsNumber(bar)
		x := args[0].AsNumber(bar)
		if bar == 0 {
			return x
		}
		prev := ctx.Result.At(bar - 1)
		if math.IsNaN(prev) {
			return x
		}
		return (x + (n-1)*prev) / n
	}})

	register("dma", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		a := args[1].AsNumber(bar)
		x := args[0].AsNumber(bar)
		if bar == 0 {
			return x
		}
		prev := ctx.Result.At(bar - 1)
		if math.IsNaN(prev) {
			return x
		}
		return a*x + (1-a)*prev
	}})

	register("ama", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		a := args[1].AsNumber(bar)
		x := args[0].AsNumber(bar)
		if bar == 0 {
			return x
		}
		prev := ctx.Result.At(bar - 1)
		if math.IsNaN(prev) {
			return x
		}
		return prev + a*(x-prev)
	}})

	register("xma", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		return math.NaN() // [STUB]: undocumented variant, no formula in the source material.
	}})

	register("expmema", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		return math.NaN() // [STUB]: SMA-seeded ema variant, behavior not pinned down by any example script.
	}})
}

// emaFunc builds the ema/expma recurrence: y_b = (2x_b + (n-1)y_{b-1})/(n+1),
// seeded with y_0 = x_0, per spec section 4.6 and its testable property.
func emaFunc(minArgs int) Func {
	return Func{minArgs, 2, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		n := args[1].AsNumber(bar)
		x := args[0].AsNumber(bar)
		if bar == 0 {
			return x
		}
		prev := ctx.Result.At(bar - 1)
		if math.IsNaN(prev) {
			return x
		}
		return (2*x + (n-1)*prev) / (n + 1)
	}}
}
