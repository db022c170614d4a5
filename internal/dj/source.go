package dj

import (
	"gorm.io/gorm"

	"musicflow/internal/models"
)

// Filters narrows the candidate pool before scoring starts.
// Zero values mean "no constraint".
type Filters struct {
	Genres  []string
	MinBPM  float64
	MaxBPM  float64
	MinYear int
	MaxYear int
}

// TrackSource supplies the candidate pool. The builder treats it as a
// synchronous read returning an already-materialized slice; callers
// own any caching or async fetching behind it.
type TrackSource interface {
	Tracks(f Filters) ([]models.Track, error)
}

// GormSource reads candidates from the track library database.
type GormSource struct {
	db *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{db: db}
}

func (s *GormSource) Tracks(f Filters) ([]models.Track, error) {
	var tracks []models.Track

	query := s.db.Model(&models.Track{})
	query = applyFilters(query, f)

	err := query.Find(&tracks).Error
	return tracks, err
}

// applyFilters handles the common constraints: Genre, BPM window, Year range.
func applyFilters(db *gorm.DB, f Filters) *gorm.DB {
	if len(f.Genres) > 0 {
		db = db.Where("genre IN ?", f.Genres)
	}

	if f.MinBPM > 0 {
		db = db.Where("bpm >= ?", f.MinBPM)
	}
	if f.MaxBPM > 0 {
		db = db.Where("bpm <= ?", f.MaxBPM)
	}

	if f.MinYear > 0 {
		db = db.Where("year >= ?", f.MinYear)
	}
	if f.MaxYear > 0 {
		db = db.Where("year <= ?", f.MaxYear)
	}

	return db
}
