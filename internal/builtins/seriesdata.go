package builtins

import "tacalc/internal/value"

// CanonicalDataSeries are the built-in data series every dialect's
// resolve_load recognizes, registered by the host rather than computed —
// spec section 4.6's "Data series" category.
var CanonicalDataSeries = []string{"open", "high", "low", "close", "volume", "time", "date"}

// Dataset builds the host-registered data series map a VM is constructed
// with. Any series left nil is still addressable by name (reading it just
// yields NaN at every bar via Series.At's out-of-range rule); omit ones a
// script never needs.
func Dataset(open, high, low, close, volume, timeData, date []float64) map[string]*value.Series {
	return map[string]*value.Series{
		"open":   value.FromSlice("open", open),
		"high":   value.FromSlice("high", high),
		"low":    value.FromSlice("low", low),
		"close":  value.FromSlice("close", close),
		"volume": value.FromSlice("volume", volume),
		"time":   value.FromSlice("time", timeData),
		"date":   value.FromSlice("date", date),
	}
}
