package camelot

import (
	"math"
	"testing"
)

func TestCompatibilityScoreIdentity(t *testing.T) {
	w := New()

	for _, k := range w.Keys() {
		if got := w.CompatibilityScore(k, k); got != 1.0 {
			t.Errorf("CompatibilityScore(%s, %s) = %v; want 1.0", k, k, got)
		}
	}
}

func TestCompatibilityScoreSymmetry(t *testing.T) {
	w := New()
	keys := w.Keys()

	for _, k1 := range keys {
		for _, k2 := range keys {
			a := w.CompatibilityScore(k1, k2)
			b := w.CompatibilityScore(k2, k1)
			if a != b {
				t.Errorf("asymmetric score: (%s,%s)=%v but (%s,%s)=%v", k1, k2, a, k2, k1, b)
			}
			if a < 0.0 || a > 1.0 {
				t.Errorf("score out of range: (%s,%s)=%v", k1, k2, a)
			}
		}
	}
}

func TestCompatibilityScoreTable(t *testing.T) {
	w := New()

	tests := []struct {
		name   string
		k1, k2 string
		want   float64
	}{
		{"Exact match", "8A", "8A", 1.0},
		{"Relative major/minor", "8A", "8B", 0.9},
		{"Adjacent same mode", "8A", "9A", 0.8},
		{"Adjacent with wrap", "12B", "1B", 0.8},
		{"Third minor", "1A", "4A", 0.6},
		{"Submediant", "1A", "5A", 0.5},
		{"Distance 2 same mode", "1A", "3A", 0.3},
		// Circular distance tops out at 6, so the distance-7 fifth
		// branches can never fire; distance 5 lands at 0.0.
		{"Distance 5 same mode", "1A", "6A", 0.0},
		{"Tritone", "1B", "7B", 0.0},
		{"Cross-mode adjacent", "1A", "2B", 0.4},
		{"Cross-mode distance 2", "1A", "3B", 0.2},
		{"Cross-mode distance 5", "1A", "8B", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.CompatibilityScore(tt.k1, tt.k2); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CompatibilityScore(%s, %s) = %v; want %v", tt.k1, tt.k2, got, tt.want)
			}
		})
	}
}

func TestCompatibilityScoreInvalidKeys(t *testing.T) {
	w := New()

	if got := w.CompatibilityScore("13A", "8A"); got != 0.0 {
		t.Errorf("invalid key should score 0.0, got %v", got)
	}
	if got := w.CompatibilityScore("8A", ""); got != 0.0 {
		t.Errorf("empty key should score 0.0, got %v", got)
	}
}

func TestCompatibleKeys(t *testing.T) {
	w := New()

	got := w.CompatibleKeys("8A", 0.5)
	if len(got) == 0 {
		t.Fatal("expected compatible keys for 8A")
	}

	// Sorted by score descending, starting with the key itself
	if got[0].Key != "8A" || got[0].Score != 1.0 {
		t.Errorf("first entry should be the key itself, got %+v", got[0])
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("scores not descending at %d: %v after %v", i, got[i].Score, got[i-1].Score)
		}
		if got[i].Score < 0.5 {
			t.Errorf("score below threshold: %+v", got[i])
		}
	}

	if w.CompatibleKeys("99X", 0.0) != nil {
		t.Error("invalid source should yield nil")
	}
}

func TestBestTransitions(t *testing.T) {
	w := New()

	got := w.BestTransitions("8A", []string{"8B", "2A", "9A", "1B"})

	// 2A (distance 6 same mode) and 1B (cross-mode distance 5) are
	// incompatible with 8A and must be dropped.
	for _, tr := range got {
		if tr.Key == "2A" || tr.Key == "1B" {
			t.Errorf("incompatible key %s should not appear", tr.Key)
		}
		if tr.Score <= 0.0 {
			t.Errorf("non-positive score leaked through: %+v", tr)
		}
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 transitions, got %d: %+v", len(got), got)
	}
	if got[0].Key != "8B" { // 0.9 beats 9A's 0.8
		t.Errorf("expected 8B first, got %s", got[0].Key)
	}
}

func TestNormalizeKey(t *testing.T) {
	w := New()

	tests := []struct {
		in   string
		want string
	}{
		{"8A", "8A"},
		{"8a", "8A"},
		{" 8A ", "8A"},
		{"C major", "1B"},
		{"C MAJ", "1B"},
		{"C", "1B"},
		{"Am", "1A"},
		{"F#", "7B"},
		{"F# minor", "4A"},
		{"Bbm", "8A"},
		{"H major", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := w.NormalizeKey(tt.in); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateKey(t *testing.T) {
	w := New()

	if len(w.Keys()) != 24 {
		t.Fatalf("wheel must have exactly 24 keys, got %d", len(w.Keys()))
	}
	if !w.ValidateKey("12B") || w.ValidateKey("0A") || w.ValidateKey("13B") {
		t.Error("ValidateKey boundary check failed")
	}
}
