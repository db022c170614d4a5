package main

import (
	"flag"
	"fmt"
	"log"

	"musicflow/internal/camelot"
	"musicflow/internal/coherence"
	"musicflow/internal/config"
	database "musicflow/internal/db"
	"musicflow/internal/dj"
	"musicflow/internal/storage"
)

func main() {
	// 1. Parse Flags
	// We add flags to override config.yaml / profile values
	profile := flag.String("profile", "", "Generation profile preset from the profiles file")
	format := flag.String("format", "m3u", "Export format (json, m3u, csv)")
	name := flag.String("name", "CLI Set", "Playlist name for stored artifacts")
	seed := flag.String("seed", "", "Seed track ID (random harmonic pick when empty)")
	length := flag.Int("length", 0, "Override target playlist length")
	arc := flag.String("arc", "", "Override energy arc (progressive, peak, valley, flat)")
	store := flag.Bool("store", false, "Persist the export artifact to the configured storage")
	simulate := flag.Bool("simulate", false, "Print the set with transition breakdowns instead of exporting")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// 2. Load Config + Profiles
	cfg := config.Load()
	if err := dj.LoadProfiles(cfg.Builder.ProfilesFile); err != nil {
		log.Printf("⚠️ Could not load profiles file: %v", err)
	}

	buildCfg := dj.GetProfile(*profile).Config()

	// 3. Apply Flag Overrides
	if *seed != "" {
		buildCfg.SeedTrackID = *seed
	}
	if *length > 0 {
		buildCfg.TargetLength = *length
	}
	if *arc != "" {
		buildCfg.ArcType = dj.ArcType(*arc)
	}

	// 4. Init Infrastructure
	db := database.New(cfg)
	db.AutoMigrate()

	wheel := camelot.New()
	metrics, err := coherence.New(dj.GetProfile(*profile).Weights(), wheel)
	if err != nil {
		log.Printf("⚠️ Invalid profile weights, using defaults: %v", err)
		metrics = coherence.NewDefault(wheel)
	}

	builder := dj.New(dj.NewGormSource(db.DB), wheel, metrics, nil)

	// 5. Build
	playlist, err := builder.Build(buildCfg)
	if err != nil {
		log.Fatalf("❌ Generation failed: %v", err)
	}
	if len(playlist) == 0 {
		log.Fatal("❌ No tracks matched the generation constraints")
	}

	if *simulate {
		printSet(builder, playlist)
		return
	}

	// 6. Export
	content, err := dj.Export(playlist, *format)
	if err != nil {
		log.Fatalf("❌ Export failed: %v", err)
	}

	if *store {
		key, err := storage.New(cfg).SaveExport(*name, *format, content)
		if err != nil {
			log.Fatalf("❌ Failed to store export: %v", err)
		}
		log.Printf("✅ Export stored as %s", key)
		return
	}

	fmt.Println(content)
}

// printSet dumps the generated set with per-transition scoring, the
// dry-run view for tuning profiles.
func printSet(builder *dj.Builder, playlist []dj.Entry) {
	fmt.Printf("🎚️ Generated set (%d tracks)\n\n", len(playlist))

	for _, e := range playlist {
		fmt.Printf("%2d. %s - %s [%s, %.0f BPM, energy %.1f]\n",
			e.Position+1, e.Track.Artist, e.Track.Title,
			e.Track.CamelotKey, e.Track.BPM, e.Track.Energy)
		fmt.Printf("    score %.3f (key %.2f / tempo %.2f / coherence %.2f) | %s\n",
			e.TransitionScore, e.Breakdown.KeyScore, e.Breakdown.TempoScore,
			e.Breakdown.CoherenceScore, e.SelectedReason)
	}

	report, err := builder.AnalyzeQuality(playlist)
	if err != nil {
		return
	}
	fmt.Printf("\n📊 %s\n", report.Summary)
}
