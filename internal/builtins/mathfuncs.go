package builtins

import (
	"math"

	"tacalc/internal/value"
)

func init() {
	unary := func(fn func(float64) float64) func(ctx *Context, args []value.Value) float64 {
		return func(ctx *Context, args []value.Value) float64 {
			return fn(args[0].AsNumber(ctx.BarIndex))
		}
	}
	register("abs", Func{1, 1, unary(math.Abs)})
	register("sqrt", Func{1, 1, unary(math.Sqrt)})
	register("ln", Func{1, 1, unary(math.Log)})
	register("log", Func{1, 1, unary(math.Log10)})
	register("exp", Func{1, 1, unary(math.Exp)})
	register("int", Func{1, 1, unary(math.Trunc)})
	register("intpart", Func{1, 1, unary(math.Trunc)})
	register("facepart", Func{1, 1, unary(func(x float64) float64 { return x - math.Trunc(x) })})
	register("ceil", Func{1, 1, unary(math.Ceil)})
	register("ceiling", Func{1, 1, unary(math.Ceil)})
	register("floor", Func{1, 1, unary(math.Floor)})
	register("sign", Func{1, 1, unary(func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		default:
			return 0
		}
	})})
	register("sin", Func{1, 1, unary(math.Sin)})
	register("cos", Func{1, 1, unary(math.Cos)})
	register("tan", Func{1, 1, unary(math.Tan)})
	register("asin", Func{1, 1, unary(math.Asin)})
	register("acos", Func{1, 1, unary(math.Acos)})
	register("atan", Func{1, 1, unary(math.Atan)})
	// round accepts 1 or 2 args: an optional decimal-places operand.
	register("round", Func{1, 2, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		x := args[0].AsNumber(bar)
		if len(args) == 1 {
			return math.Round(x)
		}
		places := args[1].AsNumber(bar)
		scale := math.Pow(10, places)
		return math.Round(x*scale) / scale
	}})

	register("between", Func{3, 3, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		x, lo, hi := args[0].AsNumber(bar), args[1].AsNumber(bar), args[2].AsNumber(bar)
		return boolf(x >= lo && x <= hi)
	}})

	register("pow", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		return math.Pow(args[0].AsNumber(bar), args[1].AsNumber(bar))
	}})
	register("mod", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		return math.Mod(args[0].AsNumber(bar), args[1].AsNumber(bar))
	}})
	register("max", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		return math.Max(args[0].AsNumber(bar), args[1].AsNumber(bar))
	}})
	register("min", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		bar := ctx.BarIndex
		return math.Min(args[0].AsNumber(bar), args[1].AsNumber(bar))
	}})

	register("round2", Func{2, 2, func(ctx *Context, args []value.Value) float64 {
		return math.NaN() // [STUB]: rounding-to-n-decimals helper, no reference behavior pinned down.
	}})
	register("rand", Func{0, 1, func(ctx *Context, args []value.Value) float64 {
		return math.NaN() // [STUB]: nondeterministic by nature, excluded from reproducible bar evaluation.
	}})
}
