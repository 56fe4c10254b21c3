package builtins

import (
	"math"

	"tacalc/internal/value"
)

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func init() {
	register("if", Func{3, 3, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		if args[0].AsBool(bar) {
			return args[1].AsNumber(bar)
		}
		return args[2].AsNumber(bar)
	}})

	register("not", Func{1, 1, func(ctx *Context, args []value.Value) float64 {
		return boolf(!args[0].AsBool(ctx.BarIndex))
	}})

	// input.int(default, title) is Pine's input-declaration placeholder
	// (spec section 4.6's "Plot placeholder" category): the title is
	// documentation only, and the call always just returns its default.
	register("input.int", Func{1, 2, func(ctx *Context, args []value.Value) float64 {
		return args[0].AsNumber(ctx.BarIndex)
	}})

	register("isnull", Func{1, 1, func(ctx *Context, args []value.Value) float64 {
		return boolf(math.IsNaN(args[0].AsNumber(ctx.BarIndex)))
	}})

	register("valuewhen", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		if args[0].AsBool(bar) {
			return args[1].AsNumber(bar)
		}
		if bar == 0 {
			return math.NaN()
		}
		return ctx.Result.At(bar - 1)
	}})

	// cross(a,b) is true iff a and b's relative order flips between the
	// previous bar and this one, per spec section 4.6's testable property.
	register("cross", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		if bar == 0 {
			return 0
		}
		a, b := args[0].AsNumber(bar), args[1].AsNumber(bar)
		pa, pb := args[0].AsNumber(bar-1), args[1].AsNumber(bar-1)
		up := a > b && pa <= pb
		down := a < b && pa >= pb
		return boolf(up || down)
	}})

	// longcross(a,b) is cross's upward-only counterpart: a overtakes b.
	register("longcross", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		if bar == 0 {
			return 0
		}
		a, b := args[0].AsNumber(bar), args[1].AsNumber(bar)
		pa, pb := args[0].AsNumber(bar-1), args[1].AsNumber(bar-1)
		return boolf(a > b && pa <= pb)
	}})

	register("every", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar, n := ctx.BarIndex, int(args[1].AsNumber(ctx.BarIndex))
		start := bar - n + 1
		if start < 0 {
			start = 0
		}
		for i := start; i <= bar; i++ {
			if !args[0].AsBool(i) {
				return 0
			}
		}
		return 1
	}})

	register("exist", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar, n := ctx.BarIndex, int(args[1].AsNumber(ctx.BarIndex))
		start := bar - n + 1
		if start < 0 {
			start = 0
		}
		for i := start; i <= bar; i++ {
			if args[0].AsBool(i) {
				return 1
			}
		}
		return 0
	}})

	// filter(cond,n) suppresses a truth if this same call site already
	// emitted a truth within the preceding n bars — it reads its own
	// accumulated output history rather than re-scanning cond.
	register("filter", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		if !args[0].AsBool(bar) {
			return 0
		}
		n := int(args[1].AsNumber(bar))
		start := bar - n
		if start < 0 {
			start = 0
		}
		for i := start; i < bar; i++ {
			if ctx.Result.At(i) != 0 {
				return 0
			}
		}
		return 1
	}})

	stub := func(ctx *Context, args []value.Value) float64 { return math.NaN() }
	register("last", Func{3, 3, stub})        // [STUB]
	register("tfilt", Func{2, 2, stub})       // [STUB]
	register("tfilter", Func{2, 2, stub})     // [STUB]
	register("islastbar", Func{0, 0, stub})   // [STUB]: needs total-bar count, not carried in Context.
	register("totalbarscount", Func{0, 0, stub}) // [STUB]: same limitation as islastbar.
}
