package ingest

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"musicflow/internal/camelot"
	"musicflow/internal/config"
	database "musicflow/internal/db"
	"musicflow/internal/models"
)

var (
	jobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "musicflow_ingest_jobs_total",
			Help: "Total library files processed",
		},
		[]string{"status"},
	)
	duration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "musicflow_ingest_duration_seconds",
			Help:    "Processing time per file",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(jobs, duration)
}

// Worker polls the library directory and syncs track rows into the
// database. Enrichment columns are left untouched; an external
// pipeline owns those.
type Worker struct {
	cfg   *config.Config
	db    *database.Client
	wheel *camelot.Wheel
}

func New(cfg *config.Config, db *database.Client, wheel *camelot.Wheel) *Worker {
	return &Worker{cfg: cfg, db: db, wheel: wheel}
}

func (w *Worker) Run() {
	ticker := time.NewTicker(time.Duration(w.cfg.Library.PollingInterval) * time.Second)
	defer ticker.Stop()

	log.Printf("Watcher started on '%s'...", w.cfg.Library.Path)
	w.ScanLibrary()

	for range ticker.C {
		w.ScanLibrary()
	}
}

// ScanLibrary walks the library once and upserts every supported file.
func (w *Worker) ScanLibrary() {
	processed, failed := 0, 0

	err := filepath.Walk(w.cfg.Library.Path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !IsSupportedFormat(path) {
			return nil
		}

		if err := w.processFile(path, info); err != nil {
			log.Printf("❌ FAILED %s: %v", path, err)
			jobs.WithLabelValues("failure").Inc()
			failed++
		} else {
			jobs.WithLabelValues("success").Inc()
			processed++
		}
		return nil
	})
	if err != nil {
		log.Printf("Error walking library: %v", err)
		return
	}

	if processed > 0 || failed > 0 {
		log.Printf("📊 Library scan: %d synced, %d failed", processed, failed)
	}
}

func (w *Worker) processFile(path string, info os.FileInfo) error {
	timer := prometheus.NewTimer(duration)
	defer timer.ObserveDuration()

	ft, err := ReadTags(path)
	if err != nil {
		return err
	}

	if ft.Artist == "" {
		ft.Artist = "Unknown Artist"
	}

	if ft.CamelotKey != "" {
		normalized := w.wheel.NormalizeKey(ft.CamelotKey)
		if w.wheel.ValidateKey(normalized) {
			ft.CamelotKey = normalized
		} else {
			log.Printf("⚠️ Unrecognized key %q in %s", ft.CamelotKey, filepath.Base(path))
			ft.CamelotKey = ""
		}
	}

	rel, err := filepath.Rel(w.cfg.Library.Path, path)
	if err != nil {
		rel = path
	}
	trackID := filepath.ToSlash(rel)

	track := models.Track{
		TrackID:    trackID,
		Title:      ft.Title,
		Artist:     ft.Artist,
		Album:      ft.Album,
		Genre:      ft.Genre,
		Year:       ft.Year,
		BPM:        ft.BPM,
		CamelotKey: ft.CamelotKey,
		Energy:     ft.Energy,
		Format:     ft.Format,
		Path:       path,
	}

	return w.db.DB.Where(models.Track{TrackID: trackID}).Assign(track).FirstOrCreate(&track).Error
}
