package dj

import (
	"errors"
	"math/rand"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"musicflow/internal/camelot"
	"musicflow/internal/coherence"
	"musicflow/internal/models"
)

// sliceSource serves a fixed pool; filters are applied by the caller's
// fixture, not here.
type sliceSource struct {
	tracks []models.Track
	err    error
}

func (s *sliceSource) Tracks(_ Filters) ([]models.Track, error) {
	return s.tracks, s.err
}

func newTestBuilder(t *testing.T, pool []models.Track) *Builder {
	t.Helper()
	wheel := camelot.New()
	metrics := coherence.NewDefault(wheel)
	// Fixed seed keeps the top-5 random pick deterministic in tests.
	return New(&sliceSource{tracks: pool}, wheel, metrics, rand.New(rand.NewSource(1)))
}

func fl(v float64) *float64 { return &v }

func compatibleTrack(id string) models.Track {
	return models.Track{
		TrackID: id, Title: "Track " + id, Artist: "Test Artist",
		BPM: 128, CamelotKey: "8A", Energy: 0.5,
		Valence: fl(0.5), Genre: "House", Year: 2022,
	}
}

func defaultConfig(length int) Config {
	return Config{
		TargetLength: length,
		Lambda:       0.4,
		MaxBPMDelta:  10.0,
		MinCoherence: 0.6,
		ArcType:      ArcProgressive,
	}
}

func TestBuildReturnsUniqueTracks(t *testing.T) {
	pool := []models.Track{
		compatibleTrack("t1"), compatibleTrack("t2"), compatibleTrack("t3"),
		compatibleTrack("t4"), compatibleTrack("t5"),
	}
	b := newTestBuilder(t, pool)

	playlist, err := b.Build(defaultConfig(5))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(playlist) != 5 {
		t.Fatalf("expected 5 tracks, got %d", len(playlist))
	}

	seen := map[string]bool{}
	for i, e := range playlist {
		if e.Position != i {
			t.Errorf("entry %d has position %d", i, e.Position)
		}
		if seen[e.Track.TrackID] {
			t.Errorf("duplicate track %s in playlist", e.Track.TrackID)
		}
		seen[e.Track.TrackID] = true
	}

	if playlist[0].TransitionScore != 1.0 {
		t.Errorf("seed transition score = %v; want 1.0", playlist[0].TransitionScore)
	}
	if playlist[0].SelectedReason != "Seed track" {
		t.Errorf("seed reason = %q", playlist[0].SelectedReason)
	}
}

func TestBuildImpossibleThreshold(t *testing.T) {
	pool := []models.Track{compatibleTrack("t1"), compatibleTrack("t2"), compatibleTrack("t3")}
	b := newTestBuilder(t, pool)

	cfg := defaultConfig(5)
	cfg.MinCoherence = 1.1 // nothing can satisfy this

	playlist, err := b.Build(cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(playlist) != 1 {
		t.Errorf("expected seed-only playlist, got %d tracks", len(playlist))
	}
}

func TestBuildEmptyPool(t *testing.T) {
	b := newTestBuilder(t, nil)

	playlist, err := b.Build(defaultConfig(5))
	if err != nil {
		t.Fatalf("empty pool must not error, got %v", err)
	}
	if len(playlist) != 0 {
		t.Errorf("expected empty playlist, got %d tracks", len(playlist))
	}
}

func TestBuildInvalidConfig(t *testing.T) {
	b := newTestBuilder(t, []models.Track{compatibleTrack("t1")})

	tests := []Config{
		{TargetLength: 0, Lambda: 0.4, MaxBPMDelta: 10},
		{TargetLength: -3, Lambda: 0.4, MaxBPMDelta: 10},
		{TargetLength: 5, Lambda: 1.5, MaxBPMDelta: 10},
		{TargetLength: 5, Lambda: -0.1, MaxBPMDelta: 10},
	}

	for _, cfg := range tests {
		if _, err := b.Build(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("config %+v: expected ErrInvalidConfig, got %v", cfg, err)
		}
	}
}

func TestBuildExcludesTracks(t *testing.T) {
	pool := []models.Track{compatibleTrack("t1"), compatibleTrack("t2"), compatibleTrack("t3")}
	b := newTestBuilder(t, pool)

	cfg := defaultConfig(3)
	cfg.Exclude = []string{"t2"}

	playlist, err := b.Build(cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for _, e := range playlist {
		if e.Track.TrackID == "t2" {
			t.Error("excluded track t2 appeared in playlist")
		}
	}
	if len(playlist) != 2 {
		t.Errorf("expected 2 tracks after exclusion, got %d", len(playlist))
	}
}

func TestBuildPrefersSmoothTransition(t *testing.T) {
	seed := compatibleTrack("seed") // 128 BPM, 8A, energy 0.5

	smooth := models.Track{
		TrackID: "smooth", Title: "Smooth", Artist: "A",
		BPM: 129, CamelotKey: "8B", Energy: 0.55, Valence: fl(0.5), Year: 2022,
	}
	trainwreck := models.Track{
		TrackID: "trainwreck", Title: "Trainwreck", Artist: "B",
		BPM: 150, CamelotKey: "2A", Energy: 0.9, Valence: fl(0.5), Year: 2022,
	}

	b := newTestBuilder(t, []models.Track{seed, smooth, trainwreck})

	cfg := defaultConfig(2)
	cfg.SeedTrackID = "seed"

	playlist, err := b.Build(cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(playlist) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(playlist))
	}

	// The 22 BPM jump fails the hard cutoff and the clashing key drags
	// overall coherence below threshold; the harmonic neighbour wins.
	if playlist[1].Track.TrackID != "smooth" {
		t.Errorf("position 1 = %s; want smooth", playlist[1].Track.TrackID)
	}
	if playlist[1].Breakdown.TempoScore <= 0.8 {
		t.Errorf("smooth tempo score = %v; want > 0.8", playlist[1].Breakdown.TempoScore)
	}
}

func TestSelectSeedExplicitID(t *testing.T) {
	pool := []models.Track{compatibleTrack("t1"), compatibleTrack("t2"), compatibleTrack("t3")}
	b := newTestBuilder(t, pool)

	cfg := defaultConfig(3)
	cfg.SeedTrackID = "t3"

	seed := b.selectSeed(pool, cfg)
	if seed == nil || seed.TrackID != "t3" {
		t.Fatalf("explicit seed id should win, got %+v", seed)
	}
}

func TestSelectSeedBPMWindow(t *testing.T) {
	slow := compatibleTrack("slow")
	slow.BPM = 90
	fast := compatibleTrack("fast")
	fast.BPM = 128

	b := newTestBuilder(t, []models.Track{slow, fast})

	cfg := defaultConfig(2)
	target := 128.0
	cfg.TargetBPM = &target

	// Only "fast" is inside the BPM window, so the random top-5 pick
	// has exactly one option.
	for i := 0; i < 10; i++ {
		seed := b.selectSeed([]models.Track{slow, fast}, cfg)
		if seed == nil || seed.TrackID != "fast" {
			t.Fatalf("seed = %+v; want fast", seed)
		}
	}
}

func TestLambdaAdjustment(t *testing.T) {
	b := newTestBuilder(t, nil)

	popular := compatibleTrack("pop")
	popular.SpotifyPopularity = fl(100)
	popular.Year = b.now().Year() // brand new: zero age factor

	obscure := compatibleTrack("obscure")
	obscure.SpotifyPopularity = fl(0)
	obscure.Year = b.now().Year() - 30 // age factor saturates at 1.0

	// Full popularity weighting favors the hit...
	if got := b.lambdaAdjustment(popular, 1.0); got != 1.0 {
		t.Errorf("lambda=1 popular = %v; want 1.0", got)
	}
	// ...full novelty weighting favors the deep cut: 0.7*1 + 0.3*1.
	if got := b.lambdaAdjustment(obscure, 0.0); got != 1.0 {
		t.Errorf("lambda=0 obscure = %v; want 1.0", got)
	}
	// Missing popularity defaults to 50.
	unknown := compatibleTrack("unknown")
	unknown.Year = b.now().Year()
	if got := b.lambdaAdjustment(unknown, 1.0); got != 0.5 {
		t.Errorf("default popularity adjustment = %v; want 0.5", got)
	}
}

func TestGormSourceFilters(t *testing.T) {
	d, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := d.AutoMigrate(&models.Track{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tracks := []models.Track{
		{TrackID: "h1", Genre: "House", BPM: 124, Year: 2020, CamelotKey: "8A"},
		{TrackID: "h2", Genre: "House", BPM: 126, Year: 2015, CamelotKey: "9A"},
		{TrackID: "tech1", Genre: "Techno", BPM: 140, Year: 2023, CamelotKey: "10A"},
		{TrackID: "amb1", Genre: "Ambient", BPM: 80, Year: 2020, CamelotKey: "3B"},
	}
	if err := d.Create(&tracks).Error; err != nil {
		t.Fatalf("seeding: %v", err)
	}

	src := NewGormSource(d)

	got, err := src.Tracks(Filters{Genres: []string{"House"}, MinBPM: 120, MaxBPM: 130, MinYear: 2018})
	if err != nil {
		t.Fatalf("Tracks failed: %v", err)
	}
	if len(got) != 1 || got[0].TrackID != "h1" {
		t.Errorf("filters returned %+v; want only h1", got)
	}

	all, err := src.Tracks(Filters{})
	if err != nil {
		t.Fatalf("Tracks failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("no filters should return all 4 tracks, got %d", len(all))
	}
}

func TestBuildFromGormSource(t *testing.T) {
	d, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := d.AutoMigrate(&models.Track{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var tracks []models.Track
	keys := []string{"8A", "8B", "9A", "9B", "8A", "8B"}
	for i, k := range keys {
		tr := compatibleTrack(string(rune('a' + i)))
		tr.CamelotKey = k
		tr.BPM = 124 + float64(i)
		tracks = append(tracks, tr)
	}
	if err := d.Create(&tracks).Error; err != nil {
		t.Fatalf("seeding: %v", err)
	}

	wheel := camelot.New()
	b := New(NewGormSource(d), wheel, coherence.NewDefault(wheel), rand.New(rand.NewSource(7)))

	playlist, err := b.Build(defaultConfig(4))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(playlist) != 4 {
		t.Fatalf("expected 4 tracks, got %d", len(playlist))
	}

	report, err := b.AnalyzeQuality(playlist)
	if err != nil {
		t.Fatalf("AnalyzeQuality failed: %v", err)
	}
	if report.Length != 4 {
		t.Errorf("report length = %d", report.Length)
	}
	if report.Sequence.Average < 0.6 {
		t.Errorf("harmonically clustered pool should mix well, avg = %v", report.Sequence.Average)
	}
}

func TestAnalyzeQualityTooShort(t *testing.T) {
	b := newTestBuilder(t, nil)

	if _, err := b.AnalyzeQuality([]Entry{{}}); !errors.Is(err, ErrPlaylistTooShort) {
		t.Errorf("expected ErrPlaylistTooShort, got %v", err)
	}
}
