package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"musicflow/internal/camelot"
	"musicflow/internal/config"
	database "musicflow/internal/db"
	"musicflow/internal/ingest"
)

func main() {
	once := flag.Bool("once", false, "Scan the library a single time and exit")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting MusicFlow Library Ingester...")

	cfg := config.Load()

	db := database.New(cfg)
	db.AutoMigrate()

	ingest.RegisterMetrics()
	go func() {
		http.Handle("/_metrics", promhttp.Handler())
		if err := http.ListenAndServe(cfg.Server.MetricsPort, nil); err != nil {
			log.Printf("⚠️ Metrics server error: %v", err)
		}
	}()

	worker := ingest.New(cfg, db, camelot.New())

	if *once {
		worker.ScanLibrary()
		return
	}
	worker.Run()
}
