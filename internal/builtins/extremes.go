package builtins

import (
	"math"

	"tacalc/internal/value"
)

func init() {
	register("hhv", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		n := int(args[1].AsNumber(ctx.BarIndex))
		return clampedExtreme(args[0], ctx.BarIndex, n, true, false)
	}})
	register("llv", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		n := int(args[1].AsNumber(ctx.BarIndex))
		return clampedExtreme(args[0], ctx.BarIndex, n, false, false)
	}})
	register("hv", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		n := int(args[1].AsNumber(ctx.BarIndex))
		return clampedExtreme(args[0], ctx.BarIndex, n, true, true)
	}})
	register("lv", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		n := int(args[1].AsNumber(ctx.BarIndex))
		return clampedExtreme(args[0], ctx.BarIndex, n, false, true)
	}})
	register("hhvbars", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		n := int(args[1].AsNumber(ctx.BarIndex))
		return extremeOffset(args[0], ctx.BarIndex, n, true)
	}})
	register("llvbars", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		n := int(args[1].AsNumber(ctx.BarIndex))
		return extremeOffset(args[0], ctx.BarIndex, n, false)
	}})

	stubExtreme := func(ctx *Context, args []value.Value) float64 { return math.NaN() }
	// [STUB]: rank-th extreme within an arbitrary skip+window range —
	// declared with the right arity so arity-checked callers still work.
	register("findhigh", Func{4, 4, stubExtreme})
	register("findlow", Func{4, 4, stubExtreme})
	register("findhighbars", Func{4, 4, stubExtreme})
	register("findlowbars", Func{4, 4, stubExtreme})
}
