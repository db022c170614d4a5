package database

import (
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"musicflow/internal/models"
)

func f(v float64) *float64 { return &v }

// SeedDemoTracks populates the DB with a small mixable demo library so
// a fresh install can generate playlists before any ingestion ran.
func SeedDemoTracks(db *gorm.DB) {
	tracks := []models.Track{
		// --- WARMUP: deep and slow, harmonically clustered around 8A ---
		{
			TrackID: "demo-001", Title: "First Light", Artist: "Aurora Sound",
			BPM: 120, CamelotKey: "8A", Energy: 0.35, Genre: "Deep House", Year: 2019,
			SpotifyPopularity: f(42), Valence: f(0.40), Danceability: f(0.65),
			GenreConfidence: f(0.9), Duration: 372,
		},
		{
			TrackID: "demo-002", Title: "Submerge", Artist: "Kelp Theory",
			BPM: 121, CamelotKey: "8B", Energy: 0.40, Genre: "Deep House", Year: 2021,
			SpotifyPopularity: f(35), Valence: f(0.45), Danceability: f(0.70),
			GenreConfidence: f(0.85), Duration: 401,
		},
		{
			TrackID: "demo-003", Title: "Harbour Lights", Artist: "Aurora Sound",
			BPM: 122, CamelotKey: "9A", Energy: 0.45, Genre: "Deep House", Year: 2020,
			SpotifyPopularity: f(58), Valence: f(0.50), Danceability: f(0.72),
			GenreConfidence: f(0.9), Duration: 388,
		},

		// --- BUILD: tech house, stepping up the wheel ---
		{
			TrackID: "demo-004", Title: "Copper Wire", Artist: "Voltfeld",
			BPM: 124, CamelotKey: "9B", Energy: 0.55, Genre: "Tech House", Year: 2022,
			SpotifyPopularity: f(61), Valence: f(0.55), Danceability: f(0.80),
			GenreConfidence: f(0.8), Duration: 356,
		},
		{
			TrackID: "demo-005", Title: "Midnight Transit", Artist: "Voltfeld",
			BPM: 125, CamelotKey: "10A", Energy: 0.62, Genre: "Tech House", Year: 2022,
			SpotifyPopularity: f(47), Valence: f(0.52), Danceability: f(0.82),
			GenreConfidence: f(0.8), Duration: 344,
		},
		{
			TrackID: "demo-006", Title: "Pressure Gauge", Artist: "Monohelix",
			BPM: 126, CamelotKey: "10B", Energy: 0.70, Genre: "Tech House", Year: 2023,
			SpotifyPopularity: f(72), Valence: f(0.60), Danceability: f(0.85),
			GenreConfidence: f(0.75), Duration: 330,
		},

		// --- PEAK: techno ---
		{
			TrackID: "demo-007", Title: "Axis Shift", Artist: "Monohelix",
			BPM: 128, CamelotKey: "11A", Energy: 0.82, Genre: "Techno", Year: 2023,
			SpotifyPopularity: f(66), Valence: f(0.55), Danceability: f(0.88),
			GenreConfidence: f(0.85), Duration: 365,
		},
		{
			TrackID: "demo-008", Title: "Redline", Artist: "Kessler Syndrome",
			BPM: 129, CamelotKey: "11B", Energy: 0.90, Genre: "Techno", Year: 2024,
			SpotifyPopularity: f(54), Valence: f(0.48), Danceability: f(0.90),
			GenreConfidence: f(0.9), Duration: 348,
		},

		// --- COOLDOWN ---
		{
			TrackID: "demo-009", Title: "Afterglow", Artist: "Kelp Theory",
			BPM: 124, CamelotKey: "12A", Energy: 0.55, Genre: "Melodic Techno", Year: 2021,
			SpotifyPopularity: f(39), Valence: f(0.62), Danceability: f(0.75),
			GenreConfidence: f(0.7), Duration: 412,
		},
		{
			TrackID: "demo-010", Title: "Slow Orbit", Artist: "Aurora Sound",
			BPM: 122, CamelotKey: "12B", Energy: 0.45, Genre: "Melodic Techno", Year: 2018,
			SpotifyPopularity: f(28), Valence: f(0.58), Danceability: f(0.68),
			GenreConfidence: f(0.7), Duration: 430,
		},
	}

	log.Printf("🌱 Seeding %d demo tracks...", len(tracks))
	for _, tr := range tracks {
		// UPSERT on TrackID so restarts don't duplicate the library.
		db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "track_id"}},
			DoNothing: true,
		}).Create(&tr)
	}
}
