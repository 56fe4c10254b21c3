// Package vm implements the stack-based, per-bar interpreter described in
// spec section 4.5: an operand stack, a globals vector, an intermediate-
// series vector, a built-in function cache, and a plot registry, all
// persisting across the bar loop except the operand stack itself.
package vm

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"tacalc/internal/builtins"
	"tacalc/internal/bytecode"
	"tacalc/internal/value"
)

// PlotEntry is one registered output series (Hithink `:` bindings,
// EasyLanguage PlotN, Pine plot(), Hithink DRAWTEXT) — append-only and
// deduplicated by series pointer identity.
type PlotEntry struct {
	Name   string
	Series *value.Series
}

// VM executes one Bytecode program across a historical window of bars.
type VM struct {
	bc  *bytecode.Bytecode
	log *logrus.Logger

	data map[string]*value.Series

	stack []value.Value
	ip    int

	barIndex  int
	totalBars int

	globals       []value.Value
	intermediates []*value.Series
	builtinCache  map[string]*value.Series

	plotted     []PlotEntry
	plottedSeen map[*value.Series]bool
	plotByName  map[string]*value.Series

	// Debug gates per-instruction logrus tracing.
	Debug bool
}

// New constructs a VM over bc, with data supplying the host-registered
// built-in series (open/high/low/close/volume/time/date). log may be nil,
// in which case Debug tracing is silently skipped.
func New(bc *bytecode.Bytecode, data map[string]*value.Series, log *logrus.Logger) *VM {
	v := &VM{data: data, log: log}
	v.Reload(bc)
	return v
}

// Reload installs a new program and resets every piece of execution state
// the spec's Lifecycle paragraph says bytecode reload clears: globals,
// intermediates, the built-in cache, and the plot registry. Host-registered
// data series are untouched.
func (v *VM) Reload(bc *bytecode.Bytecode) {
	v.bc = bc
	v.globals = make([]value.Value, len(bc.Globals))
	v.intermediates = make([]*value.Series, bc.VarCount)
	for i := range v.intermediates {
		v.intermediates[i] = value.NewSeries(fmt.Sprintf("_tmp%d", i))
	}
	v.builtinCache = make(map[string]*value.Series)
	v.plotted = nil
	v.plottedSeen = make(map[*value.Series]bool)
	v.plotByName = make(map[string]*value.Series)
	v.barIndex = 0
	v.stack = v.stack[:0]
}

// Plotted returns the registered output series, in registration order.
func (v *VM) Plotted() []PlotEntry { return v.plotted }

// BarIndex returns the next bar Execute will run (or is currently running).
func (v *VM) BarIndex() int { return v.barIndex }

// Execute runs bars [BarIndex(), totalBars), supporting incremental
// execution: calling it again with a larger totalBars continues from
// where the previous call left off instead of recomputing prior bars.
func (v *VM) Execute(totalBars int) error {
	v.totalBars = totalBars
	for ; v.barIndex < totalBars; v.barIndex++ {
		if err := v.runBar(); err != nil {
			return err
		}
	}
	return nil
}

func (v *VM) runBar() error {
	v.stack = v.stack[:0]
	v.ip = 0
	for {
		if v.ip < 0 || v.ip >= len(v.bc.Instructions) {
			return v.fail("instruction pointer ran past the end of the program")
		}
		ins := v.bc.Instructions[v.ip]
		if v.Debug && v.log != nil {
			v.log.WithFields(logrus.Fields{
				"bar": v.barIndex, "ip": v.ip, "op": ins.Op.String(), "operand": ins.Operand,
			}).Debug("tacalc: executing instruction")
		}
		next := v.ip + 1

		switch ins.Op {
		case bytecode.Halt:
			if len(v.stack) != 0 {
				return v.fail("stack not empty at HALT")
			}
			return nil

		case bytecode.PushConst:
			c, err := v.constant(ins.Operand)
			if err != nil {
				return err
			}
			v.push(constToValue(c))

		case bytecode.Pop:
			if _, err := v.pop(); err != nil {
				return err
			}

		case bytecode.Add, bytecode.Sub, bytecode.Mul, bytecode.Div,
			bytecode.Less, bytecode.LessEqual, bytecode.Greater, bytecode.GreaterEqual,
			bytecode.EqualEqual, bytecode.BangEqual, bytecode.LogicalAnd, bytecode.LogicalOr:
			if err := v.execMath(ins.Op, ins.Operand); err != nil {
				return err
			}

		case bytecode.LoadBuiltinVar:
			c, err := v.constant(ins.Operand)
			if err != nil {
				return err
			}
			s, ok := v.data[c.Str]
			if !ok {
				return v.fail(fmt.Sprintf("undefined built-in variable %q", c.Str))
			}
			v.push(value.FromSeries(s))

		case bytecode.LoadGlobal:
			if ins.Operand < 0 || ins.Operand >= len(v.globals) {
				return v.fail("global slot out of range")
			}
			v.push(v.globals[ins.Operand])

		case bytecode.StoreGlobal:
			if err := v.execStore(ins.Operand, false); err != nil {
				return err
			}

		case bytecode.StoreAndPlotGlobal:
			if err := v.execStore(ins.Operand, true); err != nil {
				return err
			}

		case bytecode.RenameSeries:
			if err := v.execRename(); err != nil {
				return err
			}

		case bytecode.JumpIfFalse:
			cond, err := v.pop()
			if err != nil {
				return err
			}
			if !cond.AsBool(v.barIndex) {
				next = v.ip + 1 + ins.Operand
			}

		case bytecode.Jump:
			next = v.ip + 1 + ins.Operand

		case bytecode.CallBuiltinFunc:
			if err := v.execCall(ins.Operand); err != nil {
				return err
			}

		case bytecode.CallPlot:
			if err := v.execCallPlot(ins.Operand); err != nil {
				return err
			}

		default:
			return v.fail(fmt.Sprintf("unknown opcode %s", ins.Op))
		}

		v.ip = next
	}
}

func (v *VM) constant(idx int) (bytecode.Const, error) {
	if idx < 0 || idx >= len(v.bc.Constants) {
		return bytecode.Const{}, v.fail("constant index out of range")
	}
	return v.bc.Constants[idx], nil
}

func constToValue(c bytecode.Const) value.Value {
	switch c.Kind {
	case bytecode.ConstNumber:
		return value.Num(c.Number)
	case bytecode.ConstBool:
		return value.Bool(c.Bool)
	case bytecode.ConstString:
		return value.Str(c.Str)
	case bytecode.ConstSeries:
		return value.FromSeries(value.NewSeries(c.SeriesName))
	default:
		return value.None
	}
}

func (v *VM) push(val value.Value) { v.stack = append(v.stack, val) }

func (v *VM) pop() (value.Value, error) {
	if len(v.stack) == 0 {
		return value.None, v.fail("stack underflow")
	}
	n := len(v.stack) - 1
	val := v.stack[n]
	v.stack = v.stack[:n]
	return val, nil
}

func (v *VM) fail(msg string) error {
	return &RuntimeError{BarIndex: v.barIndex, IP: v.ip, Message: msg}
}

// execMath implements spec section 4.5's "arithmetic operand semantics":
// every binary op writes its result into its pre-allocated intermediate
// series at the current bar, then pushes that series so later ops can
// observe its history.
func (v *VM) execMath(op bytecode.Op, slot int) error {
	right, err := v.pop()
	if err != nil {
		return err
	}
	left, err := v.pop()
	if err != nil {
		return err
	}
	if slot < 0 || slot >= len(v.intermediates) {
		return v.fail("intermediate slot out of range")
	}
	bar := v.barIndex
	var result float64
	switch op {
	case bytecode.Add:
		result = left.AsNumber(bar) + right.AsNumber(bar)
	case bytecode.Sub:
		result = left.AsNumber(bar) - right.AsNumber(bar)
	case bytecode.Mul:
		result = left.AsNumber(bar) * right.AsNumber(bar)
	case bytecode.Div:
		r := right.AsNumber(bar)
		if r == 0 {
			result = nan()
		} else {
			result = left.AsNumber(bar) / r
		}
	case bytecode.Less:
		result = boolf(left.AsNumber(bar) < right.AsNumber(bar))
	case bytecode.LessEqual:
		result = boolf(left.AsNumber(bar) <= right.AsNumber(bar))
	case bytecode.Greater:
		result = boolf(left.AsNumber(bar) > right.AsNumber(bar))
	case bytecode.GreaterEqual:
		result = boolf(left.AsNumber(bar) >= right.AsNumber(bar))
	case bytecode.EqualEqual:
		result = boolf(left.AsNumber(bar) == right.AsNumber(bar))
	case bytecode.BangEqual:
		result = boolf(left.AsNumber(bar) != right.AsNumber(bar))
	case bytecode.LogicalAnd:
		result = boolf(left.AsBool(bar) && right.AsBool(bar))
	case bytecode.LogicalOr:
		result = boolf(left.AsBool(bar) || right.AsBool(bar))
	default:
		return v.fail(fmt.Sprintf("%s is not a math opcode", op))
	}
	series := v.intermediates[slot]
	series.Set(bar, result)
	v.push(value.FromSeries(series))
	return nil
}

// execStore implements STORE_GLOBAL/STORE_AND_PLOT_GLOBAL's "upgrade
// scalar to series" rule from spec section 4.5: a first write into an
// empty slot lifts the incoming value into a brand-new named series (or
// adopts the incoming series directly, renaming it); subsequent writes
// mutate that series in place at the current bar.
func (v *VM) execStore(slot int, plot bool) error {
	val, err := v.pop()
	if err != nil {
		return err
	}
	if slot < 0 || slot >= len(v.globals) {
		return v.fail("global slot out of range")
	}
	name := v.bc.Globals[slot]
	cur := v.globals[slot]

	var target *value.Series
	if cur.Kind == value.KindSeries && cur.Series != nil {
		target = cur.Series
		if val.Kind == value.KindSeries && val.Series != nil {
			target.Set(v.barIndex, val.Series.At(v.barIndex))
		} else {
			target.Set(v.barIndex, val.AsNumber(v.barIndex))
		}
	} else if val.Kind == value.KindSeries && val.Series != nil {
		val.Series.Rename(name)
		target = val.Series
		v.globals[slot] = value.FromSeries(target)
	} else {
		target = value.NewSeries(name)
		target.Set(v.barIndex, val.AsNumber(v.barIndex))
		v.globals[slot] = value.FromSeries(target)
	}

	if plot {
		v.registerPlot(name, target)
	}
	return nil
}

func (v *VM) registerPlot(name string, s *value.Series) {
	if v.plottedSeen[s] {
		return
	}
	v.plottedSeen[s] = true
	v.plotted = append(v.plotted, PlotEntry{Name: name, Series: s})
}

// execRename implements RENAME_SERIES: pop the name, then rename the
// series now exposed on top of the stack in place, leaving it there.
func (v *VM) execRename() error {
	nameVal, err := v.pop()
	if err != nil {
		return err
	}
	if len(v.stack) == 0 {
		return v.fail("stack underflow in RENAME_SERIES")
	}
	top := &v.stack[len(v.stack)-1]
	if top.Kind != value.KindSeries || top.Series == nil {
		return v.fail("RENAME_SERIES requires a series on top of stack")
	}
	top.Series.Rename(nameVal.Str)
	return nil
}

// execCall implements CALL_BUILTIN_FUNC: look up the built-in, validate
// arity, pop its arguments, and obtain-or-create its cache-backed result
// series under the call site's canonical key, per spec section 4.5.
func (v *VM) execCall(constIdx int) error {
	c, err := v.constant(constIdx)
	if err != nil {
		return err
	}
	if c.Kind != bytecode.ConstFuncRef {
		return v.fail("CALL_BUILTIN_FUNC constant is not a function reference")
	}
	fn, ok := builtins.Lookup(c.Str)
	if !ok {
		return v.fail(fmt.Sprintf("undefined built-in function %q", c.Str))
	}
	if c.Argc < fn.MinArgs || c.Argc > fn.MaxArgs {
		return v.fail(fmt.Sprintf("arity mismatch calling %q: got %d args, want [%d,%d]", c.Str, c.Argc, fn.MinArgs, fn.MaxArgs))
	}
	if len(v.stack) < c.Argc {
		return v.fail(fmt.Sprintf("stack underflow calling %q", c.Str))
	}

	args := make([]value.Value, c.Argc)
	for i := c.Argc - 1; i >= 0; i-- {
		val, err := v.pop()
		if err != nil {
			return err
		}
		args[i] = val
	}

	key := callCacheKey(c.Str, args)
	result, ok := v.builtinCache[key]
	if !ok {
		result = value.NewSeries(key)
		v.builtinCache[key] = result
	}

	scalar := fn.Call(&builtins.Context{BarIndex: v.barIndex, Result: result}, args)
	result.Set(v.barIndex, scalar)
	v.push(value.FromSeries(result))
	return nil
}

// callCacheKey renders spec section 4.5's "funcname(arg_names~params)"
// canonical key: series arguments contribute their name (so two calls
// over the same series share memory), scalars contribute their rendered
// value (so `ma(close, 5)` and `ma(close, 10)` get independent memory).
func callCacheKey(name string, args []value.Value) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteByte('~')
		}
		if a.Kind == value.KindSeries && a.Series != nil {
			sb.WriteString(a.Series.Name)
		} else {
			sb.WriteString(a.String())
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// execCallPlot implements CALL_PLOT 3: pop name, value, color (in that
// order), register the value as a series under the popped name in the same
// plot registry STORE_AND_PLOT_GLOBAL feeds, and push true. The color is
// popped and discarded; PlotEntry records no color. Unlike a global slot, the
// target series is keyed by the popped name at a per-VM map rather than a
// compile-time global slot, since DRAWTEXT's name is an arbitrary runtime
// string constant; a bar where the gating condition is false never calls
// CALL_PLOT at all, so the series is simply never written for that bar and
// reads back as NaN, matching STORE_AND_PLOT_GLOBAL's own gap behavior.
func (v *VM) execCallPlot(argc int) error {
	if argc != 3 {
		return v.fail("CALL_PLOT operand must be 3")
	}
	nameVal, err := v.pop()
	if err != nil {
		return err
	}
	valueVal, err := v.pop()
	if err != nil {
		return err
	}
	if _, err := v.pop(); err != nil { // color: carried for symmetry, not interpreted by the VM
		return err
	}

	name := nameVal.Str
	if nameVal.Kind != value.KindString {
		name = nameVal.String()
	}

	series, ok := v.plotByName[name]
	if !ok {
		series = value.NewSeries(name)
		v.plotByName[name] = series
	}
	series.Set(v.barIndex, valueVal.AsNumber(v.barIndex))
	v.registerPlot(name, series)

	v.push(value.Bool(true))
	return nil
}
