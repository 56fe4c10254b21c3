package builtins

import "tacalc/internal/value"

func init() {
	refFn := func(ctx *Context, args []value.Value) float64 {
		k := int(args[1].AsNumber(ctx.BarIndex))
		return args[0].AsNumber(ctx.BarIndex - k)
	}
	register("ref", Func{2, 2, refFn})
	register("hod", Func{2, 2, refFn}) // alias, per spec section 4.6.
	register("lod", Func{2, 2, refFn}) // alias, per spec section 4.6.

	passThrough := func(ctx *Context, args []value.Value) float64 {
		return args[0].AsNumber(ctx.BarIndex)
	}
	register("refv", Func{1, 2, passThrough})
	register("reverse", Func{1, 1, passThrough})
}
