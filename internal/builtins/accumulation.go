package builtins

import (
	"math"

	"tacalc/internal/value"
)

func init() {
	register("sum", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		n := int(args[1].AsNumber(ctx.BarIndex))
		return fullWindowSum(args[0], ctx.BarIndex, n)
	}})

	register("count", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		n := int(args[1].AsNumber(bar))
		start := bar - n + 1
		if start < 0 {
			start = 0
		}
		count := 0.0
		for i := start; i <= bar; i++ {
			if args[0].AsBool(i) {
				count++
			}
		}
		return count
	}})

	register("barscount", Func{1, 1, func(ctx *Context, args []value.Value) float64 {
		count := 0.0
		for i := 0; i <= ctx.BarIndex; i++ {
			if !math.IsNaN(args[0].AsNumber(i)) {
				count++
			}
		}
		return count
	}})

	barsSince := func(ctx *Context, args []value.Value) float64 {
		for i := ctx.BarIndex; i >= 0; i-- {
			if args[0].AsBool(i) {
				return float64(ctx.BarIndex - i)
			}
		}
		return -1
	}
	// BARSLAST and BARSSINCE are treated as the same function, per spec
	// section 9's open question: tests exercise them as interchangeable
	// aliases with identical results in positive cases.
	register("barslast", Func{1, 1, barsSince})
	register("barssince", Func{1, 1, barsSince})

	register("barssincen", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		n := int(args[1].AsNumber(bar))
		start := bar - n + 1
		if start < 0 {
			start = 0
		}
		for i := bar; i >= start; i-- {
			if args[0].AsBool(i) {
				return float64(bar - i)
			}
		}
		return -1
	}})

	stub := func(ctx *Context, args []value.Value) float64 { return math.NaN() }
	register("mular", Func{2, 2, stub})         // [STUB]: product over window.
	register("barsstatus", Func{1, 1, stub})    // [STUB]
	register("barslastcount", Func{1, 1, stub}) // [STUB]
}
