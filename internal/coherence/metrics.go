package coherence

import (
	"errors"
	"fmt"
	"math"

	"musicflow/internal/camelot"
)

var (
	// ErrInvalidWeights means the four component weights do not sum to 1.0.
	ErrInvalidWeights = errors.New("coherence weights must sum to 1.0")
	// ErrSequenceTooShort means fewer than 2 tracks were given for sequence analysis.
	ErrSequenceTooShort = errors.New("sequence must contain at least 2 tracks")
)

// TrackFeatures holds the attributes of one track needed for scoring.
// Optional fields are pointers; the scoring functions substitute the
// neutral 0.5 when they are nil.
type TrackFeatures struct {
	BPM        float64
	CamelotKey string
	Energy     *float64
	Valence    *float64

	Danceability     *float64
	Loudness         *float64
	Instrumentalness *float64
}

// Weights is the component weighting used for the overall score.
type Weights struct {
	BPM     float64 `json:"bpm"`
	Key     float64 `json:"key"`
	Valence float64 `json:"valence"`
	Energy  float64 `json:"energy"`
}

// Result is the per-transition coherence breakdown.
type Result struct {
	BPM     float64 `json:"bpm_coherence"`
	Key     float64 `json:"key_coherence"`
	Valence float64 `json:"valence_coherence"`
	Energy  float64 `json:"energy_coherence"`
	Overall float64 `json:"overall_coherence"`
	Weights Weights `json:"weights"`
}

// SequenceResult aggregates coherence over a whole track sequence.
type SequenceResult struct {
	Length           int       `json:"sequence_length"`
	Average          float64   `json:"average_coherence"`
	Minimum          float64   `json:"minimum_coherence"`
	Variance         float64   `json:"coherence_variance"`
	TransitionScores []float64 `json:"transition_scores"`
	EnergyArcQuality float64   `json:"energy_arc_quality"`
	QualityRating    string    `json:"quality_rating"`
}

// Metrics scores track transitions across four dimensions (BPM, key,
// valence, energy). Weights are validated at construction; an instance
// that exists is always usable. Read-only after New, safe to share.
type Metrics struct {
	weights Weights
	wheel   *camelot.Wheel

	bpmTolerance     float64
	energySmoothing  float64
	valenceSmoothing float64
}

// Default weighting: key compatibility matters most, then BPM and
// valence, then energy.
const (
	DefaultWeightBPM     = 0.25
	DefaultWeightKey     = 0.30
	DefaultWeightValence = 0.25
	DefaultWeightEnergy  = 0.20
)

// New validates the weights and builds a Metrics instance.
func New(w Weights, wheel *camelot.Wheel) (*Metrics, error) {
	total := w.BPM + w.Key + w.Valence + w.Energy
	if math.Abs(total-1.0) > 0.01 {
		return nil, fmt.Errorf("%w: got %.3f", ErrInvalidWeights, total)
	}

	return &Metrics{
		weights:          w,
		wheel:            wheel,
		bpmTolerance:     10.0,
		energySmoothing:  0.15,
		valenceSmoothing: 0.20,
	}, nil
}

// NewDefault builds Metrics with the default weighting.
func NewDefault(wheel *camelot.Wheel) *Metrics {
	m, err := New(Weights{
		BPM:     DefaultWeightBPM,
		Key:     DefaultWeightKey,
		Valence: DefaultWeightValence,
		Energy:  DefaultWeightEnergy,
	}, wheel)
	if err != nil {
		// Unreachable: defaults sum to 1.0.
		panic(err)
	}
	return m
}

// Weights returns the configured weighting.
func (m *Metrics) Weights() Weights { return m.weights }

// BPMCoherence scores tempo continuity. Exact match is 1.0, linear
// decay to 0.7 inside the tolerance window, exponential decay beyond.
func (m *Metrics) BPMCoherence(bpm1, bpm2 float64) float64 {
	if bpm1 <= 0 || bpm2 <= 0 {
		return 0.0
	}

	diff := math.Abs(bpm1 - bpm2)
	if diff == 0 {
		return 1.0
	}

	if diff <= m.bpmTolerance {
		return 1.0 - (diff/m.bpmTolerance)*0.3
	}

	return math.Max(0.0, 0.7*math.Exp(-0.1*(diff-m.bpmTolerance)))
}

// KeyCoherence scores harmonic continuity via the Camelot Wheel,
// reshaped to boost strong relationships and dampen weak ones.
// Missing keys score the neutral 0.5.
func (m *Metrics) KeyCoherence(key1, key2 string) float64 {
	if key1 == "" || key2 == "" {
		return 0.5
	}

	compat := m.wheel.CompatibilityScore(key1, key2)

	switch {
	case compat >= 0.8:
		return math.Min(1.0, compat+0.1)
	case compat >= 0.5:
		return compat
	default:
		return compat * 0.8
	}
}

// ValenceCoherence scores emotional continuity. Nil inputs score 0.5.
func (m *Metrics) ValenceCoherence(v1, v2 *float64) float64 {
	if v1 == nil || v2 == nil {
		return 0.5
	}

	a := clamp01(*v1)
	b := clamp01(*v2)
	diff := math.Abs(a - b)

	if diff <= 0.05 {
		return 1.0
	}

	if diff <= m.valenceSmoothing {
		return 1.0 - (diff/m.valenceSmoothing)*0.2
	}

	penalty := (diff - m.valenceSmoothing) / (1.0 - m.valenceSmoothing)
	return math.Max(0.2, 0.8-penalty*0.6)
}

// EnergyCoherence scores intensity continuity. Nil inputs score 0.5.
func (m *Metrics) EnergyCoherence(e1, e2 *float64) float64 {
	if e1 == nil || e2 == nil {
		return 0.5
	}

	a := clamp01(*e1)
	b := clamp01(*e2)
	diff := math.Abs(a - b)

	if diff <= 0.05 {
		return 1.0
	}

	if diff <= m.energySmoothing {
		return 1.0 - (diff/m.energySmoothing)*0.25
	}

	if diff <= 0.35 {
		base := 0.75 - ((diff-m.energySmoothing)/0.20)*0.35
		return math.Max(0.4, base)
	}

	return math.Max(0.1, 0.4-(diff-0.35)*0.6)
}

// OverallCoherence combines the four component scores using the
// configured weights. Total function: missing inputs fall back to
// neutral component scores, never to an error.
func (m *Metrics) OverallCoherence(f1, f2 TrackFeatures) Result {
	r := Result{
		BPM:     m.BPMCoherence(f1.BPM, f2.BPM),
		Key:     m.KeyCoherence(f1.CamelotKey, f2.CamelotKey),
		Valence: m.ValenceCoherence(f1.Valence, f2.Valence),
		Energy:  m.EnergyCoherence(f1.Energy, f2.Energy),
		Weights: m.weights,
	}

	r.Overall = m.weights.BPM*r.BPM +
		m.weights.Key*r.Key +
		m.weights.Valence*r.Valence +
		m.weights.Energy*r.Energy

	return r
}

// SequenceCoherence analyzes every adjacent transition in the sequence.
func (m *Metrics) SequenceCoherence(sequence []TrackFeatures) (*SequenceResult, error) {
	if len(sequence) < 2 {
		return nil, ErrSequenceTooShort
	}

	scores := make([]float64, 0, len(sequence)-1)
	for i := 0; i < len(sequence)-1; i++ {
		r := m.OverallCoherence(sequence[i], sequence[i+1])
		scores = append(scores, r.Overall)
	}

	avg := 0.0
	min := scores[0]
	for _, s := range scores {
		avg += s
		if s < min {
			min = s
		}
	}
	avg /= float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		variance += (s - avg) * (s - avg)
	}
	variance /= float64(len(scores))

	var energies []float64
	for _, f := range sequence {
		if f.Energy != nil {
			energies = append(energies, *f.Energy)
		}
	}
	arcQuality := 0.5
	if len(energies) > 0 {
		arcQuality = analyzeEnergyArc(energies)
	}

	return &SequenceResult{
		Length:           len(sequence),
		Average:          avg,
		Minimum:          min,
		Variance:         variance,
		TransitionScores: scores,
		EnergyArcQuality: arcQuality,
		QualityRating:    rateSequence(avg, min, variance),
	}, nil
}

// analyzeEnergyArc rewards a peak near 70% through the set, blended
// 40/60 with transition smoothness (steps of |Δenergy| <= 0.3 count
// as smooth).
func analyzeEnergyArc(energies []float64) float64 {
	if len(energies) < 3 {
		return 0.5
	}

	peakIdx := 0
	for i, e := range energies {
		if e > energies[peakIdx] {
			peakIdx = i
		}
	}
	peakPosition := float64(peakIdx) / float64(len(energies)-1)

	peakScore := 1.0 - math.Abs(peakPosition-0.7)*2
	if peakScore < 0.0 {
		peakScore = 0.0
	}

	smoothness := 0.0
	for i := 0; i < len(energies)-1; i++ {
		if math.Abs(energies[i+1]-energies[i]) > 0.3 {
			smoothness += 0.5
		} else {
			smoothness += 1.0
		}
	}
	smoothness /= float64(len(energies) - 1)

	return peakScore*0.4 + smoothness*0.6
}

// rateSequence maps aggregate stats to a discrete label.
// First match wins.
func rateSequence(avg, min, variance float64) string {
	switch {
	case avg >= 0.8 && min >= 0.6 && variance <= 0.05:
		return "PROFESSIONAL"
	case avg >= 0.7 && min >= 0.5 && variance <= 0.1:
		return "EXCELLENT"
	case avg >= 0.6 && min >= 0.4:
		return "GOOD"
	case avg >= 0.5:
		return "FAIR"
	default:
		return "POOR"
	}
}

// SuggestImprovements returns one actionable message per weak
// component of the transition.
func (m *Metrics) SuggestImprovements(f1, f2 TrackFeatures) []string {
	var suggestions []string
	r := m.OverallCoherence(f1, f2)

	if r.BPM < 0.6 {
		bpmDiff := math.Abs(f1.BPM - f2.BPM)
		if bpmDiff > 20 {
			suggestions = append(suggestions,
				fmt.Sprintf("Consider tempo adjustment: %.1f BPM difference is too large", bpmDiff))
		} else {
			suggestions = append(suggestions,
				"Use gradual tempo transition or find intermediate track")
		}
	}

	if r.Key < 0.5 {
		suggestions = append(suggestions,
			fmt.Sprintf("Key transition %s → %s is not harmonically compatible",
				f1.CamelotKey, f2.CamelotKey))
	}

	if r.Energy < 0.4 && f1.Energy != nil && f2.Energy != nil {
		energyDiff := math.Abs(*f1.Energy - *f2.Energy)
		if energyDiff > 0.4 {
			suggestions = append(suggestions,
				fmt.Sprintf("Energy jump too large (%.2f), consider intermediate track", energyDiff))
		}
	}

	if r.Valence < 0.4 && f1.Valence != nil && f2.Valence != nil {
		if math.Abs(*f1.Valence-*f2.Valence) > 0.5 {
			suggestions = append(suggestions,
				"Emotional transition too abrupt, consider mood bridge")
		}
	}

	return suggestions
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}

// Float is a small helper for building optional feature values.
func Float(v float64) *float64 { return &v }
