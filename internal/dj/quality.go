package dj

import (
	"errors"

	"musicflow/internal/coherence"
)

// ErrPlaylistTooShort is returned by quality analysis for playlists
// with fewer than 2 tracks.
var ErrPlaylistTooShort = errors.New("playlist too short for analysis")

// QualityReport summarizes how well a generated playlist hangs together.
type QualityReport struct {
	Length             int                       `json:"playlist_length"`
	Sequence           *coherence.SequenceResult `json:"sequence_analysis"`
	BPMRange           float64                   `json:"bpm_range"`
	GenreDiversity     float64                   `json:"genre_diversity"`
	UniqueGenres       []string                  `json:"unique_genres"`
	KeyDistribution    map[string]int            `json:"key_distribution"`
	AvgTransitionScore float64                   `json:"average_transition_score"`
	Summary            string                    `json:"quality_summary"`
}

// AnalyzeQuality runs sequence coherence plus playlist-level metrics
// over a generated playlist.
func (b *Builder) AnalyzeQuality(playlist []Entry) (*QualityReport, error) {
	if len(playlist) < 2 {
		return nil, ErrPlaylistTooShort
	}

	seq := make([]coherence.TrackFeatures, 0, len(playlist))
	for _, e := range playlist {
		seq = append(seq, features(e.Track))
	}

	analysis, err := b.metrics.SequenceCoherence(seq)
	if err != nil {
		return nil, err
	}

	minBPM := playlist[0].Track.BPM
	maxBPM := minBPM
	keyDist := make(map[string]int)
	genreSet := make(map[string]bool)

	for _, e := range playlist {
		if e.Track.BPM < minBPM {
			minBPM = e.Track.BPM
		}
		if e.Track.BPM > maxBPM {
			maxBPM = e.Track.BPM
		}
		keyDist[e.Track.CamelotKey]++
		if e.Track.Genre != "" {
			genreSet[e.Track.Genre] = true
		}
	}

	genres := make([]string, 0, len(genreSet))
	for g := range genreSet {
		genres = append(genres, g)
	}
	diversity := float64(len(genres)) / float64(len(playlist))

	avgTransition := 0.0
	for _, e := range playlist[1:] {
		avgTransition += e.TransitionScore
	}
	avgTransition /= float64(len(playlist) - 1)

	return &QualityReport{
		Length:             len(playlist),
		Sequence:           analysis,
		BPMRange:           maxBPM - minBPM,
		GenreDiversity:     diversity,
		UniqueGenres:       genres,
		KeyDistribution:    keyDist,
		AvgTransitionScore: avgTransition,
		Summary:            qualitySummary(analysis.QualityRating, avgTransition, diversity),
	}, nil
}

func qualitySummary(rating string, avgTransition, diversity float64) string {
	var summary string
	switch rating {
	case "PROFESSIONAL":
		summary = "Professional-grade playlist with excellent flow"
	case "EXCELLENT":
		summary = "High-quality playlist suitable for DJ performance"
	case "GOOD":
		summary = "Good playlist with smooth transitions"
	case "FAIR":
		summary = "Acceptable playlist with room for improvement"
	default:
		summary = "Playlist needs refinement for professional use"
	}

	if avgTransition >= 0.8 {
		summary += ". Outstanding harmonic compatibility."
	} else if avgTransition >= 0.6 {
		summary += ". Good harmonic mixing throughout."
	}

	if diversity < 0.2 {
		summary += " Very cohesive genre selection."
	} else if diversity > 0.5 {
		summary += " Diverse genre exploration."
	}

	return summary
}
