package dj

// ArcType names one of the energy arc templates.
type ArcType string

const (
	ArcProgressive ArcType = "progressive"
	ArcPeak        ArcType = "peak"
	ArcValley      ArcType = "valley"
	ArcFlat        ArcType = "flat"
)

// EnergyArc produces the target energy (0.0-1.0) for every position of
// a set with the given length. Unknown arc types fall back to the
// progressive ramp.
func EnergyArc(arc ArcType, length int) []float64 {
	if length <= 0 {
		return nil
	}
	if length == 1 {
		// Single-slot sets have no transitions to shape.
		return []float64{0.6}
	}
	switch arc {
	case ArcPeak:
		return peakArc(length)
	case ArcValley:
		return valleyArc(length)
	case ArcFlat:
		return flatArc(length)
	default:
		return progressiveArc(length)
	}
}

// progressiveArc ramps linearly from 0.3 to 0.9.
func progressiveArc(length int) []float64 {
	arc := make([]float64, length)
	for i := range arc {
		arc[i] = 0.3 + 0.6*(float64(i)/float64(length-1))
	}
	return arc
}

// peakArc builds 0.3 -> 1.0 until 70% through, then descends to 0.5.
func peakArc(length int) []float64 {
	arc := make([]float64, length)
	peak := int(float64(length) * 0.7)

	for i := range arc {
		if i <= peak {
			arc[i] = 0.3 + 0.7*(float64(i)/float64(peak))
		} else {
			remaining := length - peak - 1
			afterPeak := i - peak
			arc[i] = 1.0 - 0.5*(float64(afterPeak)/float64(remaining))
		}
	}
	return arc
}

// valleyArc descends 0.8 -> 0.4 to the midpoint, then recovers to 0.9.
func valleyArc(length int) []float64 {
	arc := make([]float64, length)
	valley := int(float64(length) * 0.5)

	for i := range arc {
		if i <= valley {
			arc[i] = 0.8 - 0.4*(float64(i)/float64(valley))
		} else {
			remaining := length - valley - 1
			afterValley := i - valley
			arc[i] = 0.4 + 0.5*(float64(afterValley)/float64(remaining))
		}
	}
	return arc
}

// flatArc holds a constant 0.6.
func flatArc(length int) []float64 {
	arc := make([]float64, length)
	for i := range arc {
		arc[i] = 0.6
	}
	return arc
}
