package main

import (
	"tacalc/internal/builtins"
	"tacalc/internal/value"
)

// Sample OHLCV bars the run/repl commands execute scripts against, per
// spec section 6: this is the CLI's own concern (a convenience for
// informational use), not a core adapter the library imposes on hosts.
var (
	sampleOpen   = []float64{10, 10.5, 11, 10.8, 11.2, 11.6, 11.4, 11.9, 12.3, 12.1, 12.6, 13.0, 12.8, 13.2, 13.6}
	sampleHigh   = []float64{10.6, 11.1, 11.3, 11.4, 11.8, 11.9, 11.8, 12.4, 12.6, 12.7, 13.1, 13.3, 13.3, 13.7, 13.9}
	sampleLow    = []float64{9.8, 10.3, 10.6, 10.5, 11.0, 11.2, 11.1, 11.7, 12.0, 11.9, 12.4, 12.7, 12.6, 13.0, 13.4}
	sampleClose  = []float64{10.4, 10.9, 10.9, 11.1, 11.5, 11.3, 11.7, 12.2, 12.1, 12.5, 12.9, 12.8, 13.1, 13.5, 13.8}
	sampleVolume = []float64{1200, 1350, 1100, 1420, 1600, 1500, 1380, 1700, 1550, 1620, 1800, 1690, 1750, 1900, 2000}
	sampleTime   = []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}
	sampleDate   = []float64{20240101, 20240102, 20240103, 20240104, 20240105, 20240108, 20240109, 20240110, 20240111, 20240112, 20240115, 20240116, 20240117, 20240118, 20240119}
)

// sampleDataset wraps the embedded bars into the host data map the VM's
// New expects, plus the bar count.
func sampleDataset() (map[string]*value.Series, int) {
	data := builtins.Dataset(sampleOpen, sampleHigh, sampleLow, sampleClose, sampleVolume, sampleTime, sampleDate)
	return data, len(sampleClose)
}
