package models

import (
	"time"

	"gorm.io/gorm"
)

// Track is one enriched library record. The core DJ attributes come
// from Mixed In Key style tag data; the enrichment columns are filled
// by external metadata sources and may be null.
type Track struct {
	gorm.Model

	// Identity
	TrackID string `gorm:"uniqueIndex;not null" json:"track_id"`
	Title   string `gorm:"index" json:"title"`
	Artist  string `gorm:"index" json:"artist"`
	Album   string `json:"album"`

	// Core DJ attributes
	BPM        float64 `gorm:"index" json:"bpm"`
	CamelotKey string  `gorm:"size:4;index" json:"camelot_key"`
	Energy     float64 `json:"energy"` // 0.0 to 1.0

	// Enrichment
	Genre             string   `gorm:"index" json:"genre"`
	Style             string   `json:"style"`
	Year              int      `gorm:"index" json:"year"`
	Mood              string   `json:"mood"`
	SpotifyPopularity *float64 `json:"spotify_popularity,omitempty"` // 0 to 100
	Valence           *float64 `json:"valence,omitempty"`            // 0.0 to 1.0
	Danceability      *float64 `json:"danceability,omitempty"`
	Loudness          *float64 `json:"loudness,omitempty"`
	Instrumentalness  *float64 `json:"instrumentalness,omitempty"`
	GenreConfidence   *float64 `json:"genre_confidence,omitempty"`

	// Tech details (from the file itself)
	Duration float64 `json:"duration"` // seconds
	Format   string  `json:"format"`
	Path     string  `json:"path"` // source file, informational only

	// Library bookkeeping
	PlayCount  int        `gorm:"default:0" json:"play_count"`
	LastPlayed *time.Time `gorm:"index" json:"last_played,omitempty"`
}

// ValenceOrDefault returns the track's valence or the neutral 0.5.
func (t *Track) ValenceOrDefault() float64 {
	if t.Valence == nil {
		return 0.5
	}
	return *t.Valence
}

// PopularityOrDefault returns spotify popularity (0-100) or 50.
func (t *Track) PopularityOrDefault() float64 {
	if t.SpotifyPopularity == nil {
		return 50
	}
	return *t.SpotifyPopularity
}

// ConfidenceOrDefault returns genre confidence or the neutral 0.5.
func (t *Track) ConfidenceOrDefault() float64 {
	if t.GenreConfidence == nil {
		return 0.5
	}
	return *t.GenreConfidence
}
