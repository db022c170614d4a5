package main

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"musicflow/internal/api"
	"musicflow/internal/config"
	database "musicflow/internal/db"
	"musicflow/internal/dj"
	"musicflow/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting MusicFlow API Server...")

	// 1. Setup Configuration
	cfg := config.Load()

	// 2. Initialize Infrastructure
	db := database.New(cfg)

	// 3. Run Database Migrations
	db.AutoMigrate()
	database.SeedDemoTracks(db.DB)

	// 4. Generation profiles (non-fatal; builder falls back to the
	// built-in preset)
	if err := dj.LoadProfiles(cfg.Builder.ProfilesFile); err != nil {
		log.Printf("⚠️ Could not load profiles file: %v", err)
	}

	// 5. Export artifact storage
	store := storage.New(cfg)

	// 6. Setup Metrics
	api.RegisterMetrics()
	go func() {
		http.Handle("/_metrics", promhttp.Handler())
		log.Printf("📊 Metrics exposed at http://localhost%s/_metrics", cfg.Server.MetricsPort)
		if err := http.ListenAndServe(cfg.Server.MetricsPort, nil); err != nil {
			log.Printf("⚠️ Metrics server error: %v", err)
		}
	}()

	// 7. Start Server
	srv := api.New(cfg, db, store)

	log.Printf("🚀 API Server starting on %s", cfg.Server.Port)
	if err := srv.Start(cfg.Server.Port); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}
