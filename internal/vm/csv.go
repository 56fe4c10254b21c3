package vm

import (
	"strconv"
	"strings"
)

// PlottedResultsCSV renders every registered plot series as a CSV table,
// one row per bar (0-indexed in the "time" column since bar-level time
// values belong to the host's own "time" data series, not this export),
// values formatted to precision decimal places, NaN rendered empty.
func (v *VM) PlottedResultsCSV(precision int) string {
	var sb strings.Builder

	sb.WriteString("time")
	for _, p := range v.plotted {
		sb.WriteByte(',')
		sb.WriteString(p.Name)
	}
	sb.WriteByte('\n')

	for bar := 0; bar < v.totalBars; bar++ {
		sb.WriteString(strconv.Itoa(bar))
		for _, p := range v.plotted {
			sb.WriteByte(',')
			x := p.Series.At(bar)
			if x != x { // NaN
				continue
			}
			sb.WriteString(strconv.FormatFloat(x, 'f', precision, 64))
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
