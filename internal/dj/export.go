package dj

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnsupportedFormat is returned for export formats other than
// json, m3u and csv.
var ErrUnsupportedFormat = errors.New("unsupported export format")

type exportTrack struct {
	Position        int     `json:"position"`
	TrackID         string  `json:"track_id"`
	Title           string  `json:"title"`
	Artist          string  `json:"artist"`
	BPM             float64 `json:"bpm"`
	Key             string  `json:"key"`
	Energy          float64 `json:"energy"`
	Genre           string  `json:"genre"`
	Year            int     `json:"year"`
	TransitionScore float64 `json:"transition_score"`
	SelectionReason string  `json:"selection_reason"`
}

type exportDocument struct {
	GeneratedAt   string        `json:"generated_at"`
	TrackCount    int           `json:"track_count"`
	TotalDuration float64       `json:"total_duration"` // minutes
	Tracks        []exportTrack `json:"tracks"`
}

// Export renders a playlist in the requested format (json, m3u, csv).
func Export(playlist []Entry, format string) (string, error) {
	switch format {
	case "json":
		return exportJSON(playlist)
	case "m3u":
		return exportM3U(playlist), nil
	case "csv":
		return exportCSV(playlist), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func exportJSON(playlist []Entry) (string, error) {
	doc := exportDocument{
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		TrackCount:  len(playlist),
		Tracks:      make([]exportTrack, 0, len(playlist)),
	}

	totalSeconds := 0.0
	for _, e := range playlist {
		totalSeconds += e.Track.Duration
		doc.Tracks = append(doc.Tracks, exportTrack{
			Position:        e.Position + 1,
			TrackID:         e.Track.TrackID,
			Title:           e.Track.Title,
			Artist:          e.Track.Artist,
			BPM:             e.Track.BPM,
			Key:             e.Track.CamelotKey,
			Energy:          e.Track.Energy,
			Genre:           e.Track.Genre,
			Year:            e.Track.Year,
			TransitionScore: e.TransitionScore,
			SelectionReason: e.SelectedReason,
		})
	}
	doc.TotalDuration = totalSeconds / 60.0

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// exportM3U emits extended M3U with BPM/key metadata comments. File
// paths are left for the consumer to resolve.
func exportM3U(playlist []Entry) string {
	lines := []string{"#EXTM3U", "#PLAYLIST:MusicFlow DJ Set"}

	for _, e := range playlist {
		duration := -1
		if e.Track.Duration > 0 {
			duration = int(e.Track.Duration)
		}
		lines = append(lines,
			fmt.Sprintf("#EXTINF:%d,%s - %s", duration, e.Track.Artist, e.Track.Title),
			fmt.Sprintf("# BPM: %g, Key: %s", e.Track.BPM, e.Track.CamelotKey),
			"", // placeholder for the resolved file path
		)
	}

	return strings.Join(lines, "\n")
}

// exportCSV quotes the free-text fields since artist names and
// selection reasons routinely contain commas.
func exportCSV(playlist []Entry) string {
	lines := []string{"Position,Artist,Title,BPM,Key,Energy,Genre,Year,Score,Reason"}

	for _, e := range playlist {
		year := ""
		if e.Track.Year > 0 {
			year = fmt.Sprintf("%d", e.Track.Year)
		}
		lines = append(lines, fmt.Sprintf("%d,%q,%q,%g,%s,%.2f,%q,%s,%.3f,%q",
			e.Position+1,
			e.Track.Artist,
			e.Track.Title,
			e.Track.BPM,
			e.Track.CamelotKey,
			e.Track.Energy,
			e.Track.Genre,
			year,
			e.TransitionScore,
			e.SelectedReason,
		))
	}

	return strings.Join(lines, "\n")
}
