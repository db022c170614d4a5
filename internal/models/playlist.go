package models

import (
	"time"

	"gorm.io/gorm"
)

// Playlist is a generated DJ set persisted for later listing/export.
type Playlist struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name          string  `json:"name" gorm:"not null"`
	ArcType       string  `json:"arc_type"`
	TargetLength  int     `json:"target_length"`
	QualityRating string  `json:"quality_rating"`
	AvgCoherence  float64 `json:"avg_coherence"`
	TotalDuration int     `json:"total_duration"` // seconds

	Entries []PlaylistEntry `json:"entries" gorm:"foreignKey:PlaylistID"`
}

// PlaylistEntry is one ordered slot in a playlist, with the selection
// metadata the builder produced for it.
type PlaylistEntry struct {
	ID         uint `gorm:"primarykey" json:"-"`
	PlaylistID uint `gorm:"index" json:"playlist_id"`
	TrackID    uint `gorm:"index" json:"-"`

	Track Track `json:"track"`

	Position        int     `json:"position"` // 0-based
	TransitionScore float64 `json:"transition_score"`
	KeyScore        float64 `json:"key_score"`
	TempoScore      float64 `json:"tempo_score"`
	CoherenceScore  float64 `json:"coherence_score"`
	SelectedReason  string  `json:"selected_reason"`
}
