// Package builtins implements the ~80-function built-in library of spec
// section 4.6: each entry declares an arity range and a per-bar body that
// reads from a caller-provided result series' own history (for stateful
// recurrences like ema/dma) and returns the bar's new value, which the VM
// then writes into that series.
//
// A Func never sees the VM directly — only the current bar index and the
// persistent Result series the VM looked up (or created) in its built-in
// cache under the call site's canonical key. That is enough for every
// function in spec section 4.6's representative list, and keeps this
// package free of any dependency on internal/vm.
package builtins

import "tacalc/internal/value"

// Context is the invocation context a built-in body receives: the current
// bar and the series backing this call site's memory across bars.
type Context struct {
	BarIndex int
	Result   *value.Series
}

// Func is one built-in's declared arity range and implementation. Call
// returns the scalar value for ctx.BarIndex; the VM writes it into
// ctx.Result and pushes ctx.Result as the call's result.
type Func struct {
	MinArgs int
	MaxArgs int
	Call    func(ctx *Context, args []value.Value) float64
}

var registry = map[string]Func{}

func register(name string, fn Func) {
	registry[name] = fn
}

// Lookup returns the built-in registered under name (already lower-cased
// by the compiler, per spec section 4.3's "lower-cased builtin name
// lookup" rule).
func Lookup(name string) (Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}
