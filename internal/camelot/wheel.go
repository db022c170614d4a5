package camelot

import (
	"log"
	"sort"
	"strings"
)

// KeyInfo describes one of the 24 positions on the wheel.
type KeyInfo struct {
	Name     string // Musical name, e.g. "C" or "Am"
	Mode     string // "major" or "minor"
	Position int    // 1-12
}

// Transition pairs a Camelot key with its compatibility score.
type Transition struct {
	Key   string  `json:"key"`
	Score float64 `json:"score"`
}

// Wheel is the extended Camelot Wheel: 24 keys plus a precomputed
// 24x24 compatibility matrix. Build once, read-only afterwards,
// safe to share across goroutines.
type Wheel struct {
	keys   map[string]KeyInfo
	matrix map[string]map[string]float64
}

// New builds the wheel and its compatibility matrix.
func New() *Wheel {
	w := &Wheel{
		keys: map[string]KeyInfo{
			// Major keys (B side)
			"1B":  {Name: "C", Mode: "major", Position: 1},
			"2B":  {Name: "G", Mode: "major", Position: 2},
			"3B":  {Name: "D", Mode: "major", Position: 3},
			"4B":  {Name: "A", Mode: "major", Position: 4},
			"5B":  {Name: "E", Mode: "major", Position: 5},
			"6B":  {Name: "B", Mode: "major", Position: 6},
			"7B":  {Name: "F#", Mode: "major", Position: 7},
			"8B":  {Name: "Db", Mode: "major", Position: 8},
			"9B":  {Name: "Ab", Mode: "major", Position: 9},
			"10B": {Name: "Eb", Mode: "major", Position: 10},
			"11B": {Name: "Bb", Mode: "major", Position: 11},
			"12B": {Name: "F", Mode: "major", Position: 12},

			// Minor keys (A side)
			"1A":  {Name: "Am", Mode: "minor", Position: 1},
			"2A":  {Name: "Em", Mode: "minor", Position: 2},
			"3A":  {Name: "Bm", Mode: "minor", Position: 3},
			"4A":  {Name: "F#m", Mode: "minor", Position: 4},
			"5A":  {Name: "C#m", Mode: "minor", Position: 5},
			"6A":  {Name: "G#m", Mode: "minor", Position: 6},
			"7A":  {Name: "D#m", Mode: "minor", Position: 7},
			"8A":  {Name: "Bbm", Mode: "minor", Position: 8},
			"9A":  {Name: "Fm", Mode: "minor", Position: 9},
			"10A": {Name: "Cm", Mode: "minor", Position: 10},
			"11A": {Name: "Gm", Mode: "minor", Position: 11},
			"12A": {Name: "Dm", Mode: "minor", Position: 12},
		},
	}

	w.matrix = make(map[string]map[string]float64, len(w.keys))
	for k1 := range w.keys {
		row := make(map[string]float64, len(w.keys))
		for k2 := range w.keys {
			row[k2] = w.score(k1, k2)
		}
		w.matrix[k1] = row
	}

	return w
}

// score implements the fixed compatibility decision table.
// The branch order matters for tie-breaking, so keep it explicit
// rather than collapsing it into a formula.
//
//	1.0 same key
//	0.9 relative major/minor
//	0.8 adjacent (+/-1 step, same mode)
//	0.7 perfect fifth (distance 7, same mode)
//	0.6 third minor (distance 3, same mode)
//	0.5 submediant (distance 4, same mode)
//	0.4/0.2/0.3 cross-mode neighbours
func (w *Wheel) score(k1, k2 string) float64 {
	if k1 == k2 {
		return 1.0
	}

	a := w.keys[k1]
	b := w.keys[k2]
	dist := wheelDistance(a.Position, b.Position)

	// Relative major/minor (same position, different mode)
	if a.Position == b.Position && a.Mode != b.Mode {
		return 0.9
	}

	if a.Mode == b.Mode {
		switch {
		case dist == 1:
			return 0.8
		case dist == 7:
			return 0.7
		case dist == 3:
			return 0.6
		case dist == 4:
			return 0.5
		case dist <= 2:
			return 0.3
		case dist <= 3:
			return 0.1
		}
		// Distances 5 and 6 fall through to the cross-mode table,
		// which scores them 0.0. Keep it that way.
	}

	switch {
	case dist <= 1:
		return 0.4
	case dist <= 2:
		return 0.2
	case dist == 7:
		return 0.3
	}

	return 0.0
}

// wheelDistance is the circular distance over the 12 positions.
func wheelDistance(p1, p2 int) int {
	d := p1 - p2
	if d < 0 {
		d = -d
	}
	if 12-d < d {
		d = 12 - d
	}
	return d
}

// CompatibilityScore returns the harmonic compatibility of two keys.
// Invalid keys score 0.0 with a warning; missing key data is common
// in real libraries and must not break the selection loop.
func (w *Wheel) CompatibilityScore(key1, key2 string) float64 {
	if !w.ValidateKey(key1) || !w.ValidateKey(key2) {
		log.Printf("⚠️ Invalid Camelot key: %q or %q", key1, key2)
		return 0.0
	}
	return w.matrix[key1][key2]
}

// CompatibleKeys lists every key scoring at least minScore against
// sourceKey, best first. Empty for an invalid source.
func (w *Wheel) CompatibleKeys(sourceKey string, minScore float64) []Transition {
	if !w.ValidateKey(sourceKey) {
		return nil
	}

	var out []Transition
	for key, score := range w.matrix[sourceKey] {
		if score >= minScore {
			out = append(out, Transition{Key: key, Score: score})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// BestTransitions ranks a finite candidate set against sourceKey.
// Only strictly positive scores are kept.
func (w *Wheel) BestTransitions(sourceKey string, candidates []string) []Transition {
	var out []Transition
	for _, key := range candidates {
		if score := w.CompatibilityScore(sourceKey, key); score > 0.0 {
			out = append(out, Transition{Key: key, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// ValidateKey reports whether key is one of the 24 canonical keys.
func (w *Wheel) ValidateKey(key string) bool {
	_, ok := w.keys[key]
	return ok
}

// KeyInfo returns the wheel entry for a canonical key.
func (w *Wheel) KeyInfo(key string) (KeyInfo, bool) {
	info, ok := w.keys[key]
	return info, ok
}

// NormalizeKey maps common alternate notations ("C major", "Am", "F#")
// to canonical Camelot form. Returns "" if unrecognized; that is a
// data condition, not an error.
func (w *Wheel) NormalizeKey(key string) string {
	if key == "" {
		return ""
	}

	key = strings.ToUpper(strings.TrimSpace(key))

	// Already canonical ("8a" -> "8A")
	if w.ValidateKey(key) {
		return key
	}

	return altNotations[key]
}

// altNotations covers the mixes of key-name spellings seen in the wild:
// full names, abbreviations and bare note names for major keys,
// "Xm" shorthand for minor keys.
var altNotations = map[string]string{
	// Major keys
	"C MAJOR": "1B", "C MAJ": "1B", "C": "1B",
	"G MAJOR": "2B", "G MAJ": "2B", "G": "2B",
	"D MAJOR": "3B", "D MAJ": "3B", "D": "3B",
	"A MAJOR": "4B", "A MAJ": "4B", "A": "4B",
	"E MAJOR": "5B", "E MAJ": "5B", "E": "5B",
	"B MAJOR": "6B", "B MAJ": "6B", "B": "6B",
	"F# MAJOR": "7B", "F# MAJ": "7B", "F#": "7B", "FS": "7B",
	"DB MAJOR": "8B", "DB MAJ": "8B", "DB": "8B", "C#": "8B",
	"AB MAJOR": "9B", "AB MAJ": "9B", "AB": "9B",
	"EB MAJOR": "10B", "EB MAJ": "10B", "EB": "10B",
	"BB MAJOR": "11B", "BB MAJ": "11B", "BB": "11B",
	"F MAJOR": "12B", "F MAJ": "12B", "F": "12B",

	// Minor keys
	"A MINOR": "1A", "A MIN": "1A", "AM": "1A",
	"E MINOR": "2A", "E MIN": "2A", "EM": "2A",
	"B MINOR": "3A", "B MIN": "3A", "BM": "3A",
	"F# MINOR": "4A", "F# MIN": "4A", "F#M": "4A", "FSM": "4A",
	"C# MINOR": "5A", "C# MIN": "5A", "C#M": "5A",
	"G# MINOR": "6A", "G# MIN": "6A", "G#M": "6A",
	"D# MINOR": "7A", "D# MIN": "7A", "D#M": "7A",
	"BB MINOR": "8A", "BB MIN": "8A", "BBM": "8A",
	"F MINOR": "9A", "F MIN": "9A", "FM": "9A",
	"C MINOR": "10A", "C MIN": "10A", "CM": "10A",
	"G MINOR": "11A", "G MIN": "11A", "GM": "11A",
	"D MINOR": "12A", "D MIN": "12A", "DM": "12A",
}

// Keys returns the 24 canonical Camelot keys in stable order.
func (w *Wheel) Keys() []string {
	out := make([]string, 0, len(w.keys))
	for k := range w.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
