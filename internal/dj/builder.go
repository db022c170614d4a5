package dj

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"musicflow/internal/camelot"
	"musicflow/internal/coherence"
	"musicflow/internal/models"
)

// ErrInvalidConfig covers misconfigured build requests: non-positive
// target length or a lambda outside [0,1]. Everything else degrades
// gracefully instead of failing.
var ErrInvalidConfig = errors.New("invalid playlist config")

// Config is the entire external configuration contract for one build.
type Config struct {
	TargetBPM    *float64 `json:"target_bpm,omitempty"`
	TargetLength int      `json:"target_length"`

	// Lambda balances popularity (λ) against novelty (1-λ).
	Lambda       float64 `json:"lambda_popularity"`
	MaxBPMDelta  float64 `json:"max_bpm_delta"`
	MinCoherence float64 `json:"min_coherence_threshold"`
	ArcType      ArcType `json:"energy_arc_type"`

	SeedTrackID string   `json:"seed_track_id,omitempty"`
	Genres      []string `json:"genre_filter,omitempty"`
	MinYear     int      `json:"min_year,omitempty"`
	MaxYear     int      `json:"max_year,omitempty"`
	Exclude     []string `json:"exclude_tracks,omitempty"`
}

// Validate fails fast on structural misconfiguration.
func (c Config) Validate() error {
	if c.TargetLength <= 0 {
		return fmt.Errorf("%w: target_length must be positive, got %d", ErrInvalidConfig, c.TargetLength)
	}
	if c.Lambda < 0.0 || c.Lambda > 1.0 {
		return fmt.Errorf("%w: lambda_popularity must be in [0,1], got %v", ErrInvalidConfig, c.Lambda)
	}
	return nil
}

// Breakdown carries the sub-scores behind one selection.
type Breakdown struct {
	KeyScore       float64          `json:"key_score"`
	TempoScore     float64          `json:"tempo_score"`
	CoherenceScore float64          `json:"coherence_score"`
	TotalScore     float64          `json:"total_score"`
	BPMDiff        float64          `json:"bpm_diff"`
	EnergyDiff     float64          `json:"energy_diff"`
	Lambda         float64          `json:"lambda_adjustment"`
	FinalScore     float64          `json:"final_score"`
	Coherence      coherence.Result `json:"coherence_details"`
}

// Entry is one slot of the generated playlist.
type Entry struct {
	Track           models.Track `json:"track"`
	Position        int          `json:"position"` // 0-based
	TransitionScore float64      `json:"transition_score"`
	Breakdown       Breakdown    `json:"breakdown"`
	SelectedReason  string       `json:"selected_reason"`
}

// Transition scoring weights for the greedy loop. Empirically tuned
// for harmonic-first mixing; treat as constants, not theory.
const (
	weightKeyCompat  = 0.6
	weightTempo      = 0.2
	weightCoherence  = 0.2
	energyArcPenalty = 0.2
)

// Builder runs the constrained greedy search. The wheel and the
// metrics are read-only and shared; each Build call keeps its own
// state, so independent builds may run concurrently.
type Builder struct {
	source  TrackSource
	wheel   *camelot.Wheel
	metrics *coherence.Metrics
	rng     *rand.Rand
	now     func() time.Time
}

// New creates a Builder. Pass a nil rng for time-seeded randomness;
// tests inject a fixed-seed source for deterministic seed selection.
func New(source TrackSource, wheel *camelot.Wheel, metrics *coherence.Metrics, rng *rand.Rand) *Builder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Builder{
		source:  source,
		wheel:   wheel,
		metrics: metrics,
		rng:     rng,
		now:     time.Now,
	}
}

// Build generates an ordered playlist. Recoverable conditions (empty
// pool, no seed) return an empty slice with a nil error; only source
// failures and invalid configs surface as errors. An early stop when
// no candidate clears the coherence threshold yields a valid partial
// playlist.
func (b *Builder) Build(cfg Config) ([]Entry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	filters := Filters{Genres: cfg.Genres, MinYear: cfg.MinYear, MaxYear: cfg.MaxYear}
	if cfg.TargetBPM != nil {
		// Fetch a window twice as wide as the hard delta so the seed
		// has headroom on both sides.
		filters.MinBPM = *cfg.TargetBPM - cfg.MaxBPMDelta*2
		filters.MaxBPM = *cfg.TargetBPM + cfg.MaxBPMDelta*2
	}

	pool, err := b.source.Tracks(filters)
	if err != nil {
		return nil, fmt.Errorf("fetching candidate pool: %w", err)
	}
	if len(pool) == 0 {
		log.Println("⚠️ No tracks available for playlist generation")
		return []Entry{}, nil
	}

	if len(cfg.Exclude) > 0 {
		excluded := make(map[string]bool, len(cfg.Exclude))
		for _, id := range cfg.Exclude {
			excluded[id] = true
		}
		kept := pool[:0]
		for _, tr := range pool {
			if !excluded[tr.TrackID] {
				kept = append(kept, tr)
			}
		}
		pool = kept
	}

	targetArc := EnergyArc(cfg.ArcType, cfg.TargetLength)

	seed := b.selectSeed(pool, cfg)
	if seed == nil {
		log.Println("⚠️ Could not select seed track")
		return []Entry{}, nil
	}

	playlist := []Entry{{
		Track:           *seed,
		Position:        0,
		TransitionScore: 1.0,
		SelectedReason:  "Seed track",
	}}
	used := map[string]bool{seed.TrackID: true}

	for position := 1; position < cfg.TargetLength; position++ {
		current := playlist[len(playlist)-1].Track
		targetEnergy := targetArc[position]

		var best *models.Track
		bestScore := -1.0
		var bestBreakdown Breakdown

		for i := range pool {
			candidate := &pool[i]
			if used[candidate.TrackID] {
				continue
			}

			score, breakdown := b.scoreTransition(current, *candidate, cfg)

			// Hard constraint: the transition itself must be coherent
			// enough. Rejected candidates stay eligible for later
			// positions where the anchor differs.
			if breakdown.Coherence.Overall < cfg.MinCoherence {
				continue
			}

			energyDiff := math.Abs(candidate.Energy - targetEnergy)
			adjusted := score * (1.0 - energyDiff*energyArcPenalty)

			lambdaAdj := b.lambdaAdjustment(*candidate, cfg.Lambda)
			final := adjusted * (0.8 + 0.2*lambdaAdj)

			if final > bestScore {
				bestScore = final
				best = candidate
				breakdown.EnergyDiff = energyDiff
				breakdown.Lambda = lambdaAdj
				breakdown.FinalScore = final
				bestBreakdown = breakdown
			}
		}

		if best == nil {
			log.Printf("⚠️ No suitable track for position %d, stopping with %d tracks", position, len(playlist))
			break
		}

		playlist = append(playlist, Entry{
			Track:           *best,
			Position:        position,
			TransitionScore: bestScore,
			Breakdown:       bestBreakdown,
			SelectedReason:  selectionReason(bestBreakdown),
		})
		used[best.TrackID] = true
	}

	log.Printf("🎚️ Generated playlist with %d tracks (arc: %s)", len(playlist), cfg.ArcType)
	return playlist, nil
}

// scoreTransition computes the raw transition score before arc and
// lambda adjustment: 0.6*key + 0.2*tempo + 0.2*coherence.
func (b *Builder) scoreTransition(current, candidate models.Track, cfg Config) (float64, Breakdown) {
	keyScore := b.wheel.CompatibilityScore(current.CamelotKey, candidate.CamelotKey)

	bpmDiff := math.Abs(current.BPM - candidate.BPM)
	tempoScore := 0.0
	if bpmDiff <= cfg.MaxBPMDelta {
		tempoScore = 1.0 - bpmDiff/cfg.MaxBPMDelta
	}

	cohResult := b.metrics.OverallCoherence(features(current), features(candidate))

	total := weightKeyCompat*keyScore + weightTempo*tempoScore + weightCoherence*cohResult.Overall

	return total, Breakdown{
		KeyScore:       keyScore,
		TempoScore:     tempoScore,
		CoherenceScore: cohResult.Overall,
		TotalScore:     total,
		BPMDiff:        bpmDiff,
		Coherence:      cohResult,
	}
}

// features maps a library record to the scorer's value type. Default
// fallbacks live in the scoring functions, not here.
func features(t models.Track) coherence.TrackFeatures {
	e := t.Energy
	v := t.ValenceOrDefault()
	return coherence.TrackFeatures{
		BPM:          t.BPM,
		CamelotKey:   t.CamelotKey,
		Energy:       &e,
		Valence:      &v,
		Danceability: t.Danceability,
	}
}

// lambdaAdjustment blends popularity with novelty:
// λ·popularity + (1-λ)·novelty, where novelty favors obscure and
// older tracks (age normalized over 20 years).
func (b *Builder) lambdaAdjustment(t models.Track, lambda float64) float64 {
	popularity := t.PopularityOrDefault() / 100.0

	currentYear := b.now().Year()
	age := 0
	if t.Year > 0 {
		age = currentYear - t.Year
	}
	ageFactor := math.Min(1.0, float64(age)/20.0)

	novelty := (1.0-popularity)*0.7 + ageFactor*0.3

	return lambda*popularity + (1.0-lambda)*novelty
}

// selectSeed picks the opening track. An explicit seed id wins;
// otherwise candidates near the target BPM are ranked by
// 0.5·lambda-adjustment + 0.5·genre-confidence and one of the top 5
// is picked at random. The randomness is deliberate: it keeps repeat
// builds from always opening with the same track.
func (b *Builder) selectSeed(pool []models.Track, cfg Config) *models.Track {
	if cfg.SeedTrackID != "" {
		for i := range pool {
			if pool[i].TrackID == cfg.SeedTrackID {
				return &pool[i]
			}
		}
	}

	candidates := pool
	if cfg.TargetBPM != nil {
		var near []models.Track
		for _, t := range pool {
			if math.Abs(t.BPM-*cfg.TargetBPM) <= cfg.MaxBPMDelta {
				near = append(near, t)
			}
		}
		if len(near) > 0 {
			candidates = near
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	type scored struct {
		track models.Track
		score float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, t := range candidates {
		s := b.lambdaAdjustment(t, cfg.Lambda)*0.5 + t.ConfidenceOrDefault()*0.5
		ranked = append(ranked, scored{track: t, score: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	top := ranked
	if len(top) > 5 {
		top = top[:5]
	}

	pick := top[b.rng.Intn(len(top))].track
	return &pick
}

// selectionReason renders a human-readable explanation of a pick.
func selectionReason(bd Breakdown) string {
	var reasons []string

	if bd.KeyScore >= 0.8 {
		reasons = append(reasons, "Excellent harmonic match")
	} else if bd.KeyScore >= 0.6 {
		reasons = append(reasons, "Good key compatibility")
	}

	if bd.TempoScore >= 0.9 {
		reasons = append(reasons, "Perfect tempo match")
	} else if bd.TempoScore >= 0.7 {
		reasons = append(reasons, "Smooth BPM transition")
	}

	if bd.CoherenceScore >= 0.8 {
		reasons = append(reasons, "High coherence")
	}

	if bd.EnergyDiff <= 0.1 {
		reasons = append(reasons, "Matches energy arc")
	}

	if len(reasons) == 0 {
		return "Selected by algorithm"
	}
	return strings.Join(reasons, " + ")
}
