package vm

import "math"

func nan() float64 { return math.NaN() }

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
