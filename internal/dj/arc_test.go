package dj

import (
	"math"
	"testing"
)

func TestProgressiveArc(t *testing.T) {
	arc := EnergyArc(ArcProgressive, 10)

	if math.Abs(arc[0]-0.3) > 1e-9 {
		t.Errorf("progressive start = %v; want 0.3", arc[0])
	}
	if math.Abs(arc[9]-0.9) > 1e-9 {
		t.Errorf("progressive end = %v; want 0.9", arc[9])
	}
	for i := 1; i < len(arc); i++ {
		if arc[i] < arc[i-1] {
			t.Errorf("progressive arc must be non-decreasing, dipped at %d", i)
		}
	}
}

func TestPeakArc(t *testing.T) {
	arc := EnergyArc(ArcPeak, 10)

	peakIdx := 0
	for i, e := range arc {
		if e > arc[peakIdx] {
			peakIdx = i
		}
	}

	// Peak sits at the 70% mark and reaches full energy.
	if peakIdx != 7 {
		t.Errorf("peak index = %d; want 7", peakIdx)
	}
	if math.Abs(arc[peakIdx]-1.0) > 1e-9 {
		t.Errorf("peak energy = %v; want 1.0", arc[peakIdx])
	}
	if math.Abs(arc[9]-0.5) > 1e-9 {
		t.Errorf("peak wind-down end = %v; want 0.5", arc[9])
	}
}

func TestValleyArc(t *testing.T) {
	arc := EnergyArc(ArcValley, 10)

	if math.Abs(arc[0]-0.8) > 1e-9 {
		t.Errorf("valley start = %v; want 0.8", arc[0])
	}
	if math.Abs(arc[5]-0.4) > 1e-9 {
		t.Errorf("valley bottom = %v; want 0.4", arc[5])
	}
	if math.Abs(arc[9]-0.9) > 1e-9 {
		t.Errorf("valley recovery end = %v; want 0.9", arc[9])
	}
}

func TestFlatArc(t *testing.T) {
	arc := EnergyArc(ArcFlat, 5)

	if len(arc) != 5 {
		t.Fatalf("flat arc length = %d; want 5", len(arc))
	}
	for i, e := range arc {
		if e != 0.6 {
			t.Errorf("flat arc[%d] = %v; want 0.6", i, e)
		}
	}
}

func TestArcsStayInRange(t *testing.T) {
	arcs := []ArcType{ArcProgressive, ArcPeak, ArcValley, ArcFlat}

	for _, arcType := range arcs {
		for length := 2; length <= 100; length++ {
			arc := EnergyArc(arcType, length)
			if len(arc) != length {
				t.Fatalf("%s(%d) returned %d values", arcType, length, len(arc))
			}
			for i, e := range arc {
				if e < 0.0 || e > 1.0 {
					t.Errorf("%s(%d)[%d] = %v out of [0,1]", arcType, length, i, e)
				}
			}
		}
	}
}

func TestUnknownArcFallsBack(t *testing.T) {
	got := EnergyArc(ArcType("sawtooth"), 10)
	want := EnergyArc(ArcProgressive, 10)

	for i := range got {
		if got[i] != want[i] {
			t.Fatal("unknown arc type should fall back to progressive")
		}
	}
}
