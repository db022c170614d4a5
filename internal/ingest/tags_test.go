package ingest

import "testing"

func TestParseMIKComment(t *testing.T) {
	tests := []struct {
		name       string
		comment    string
		wantKey    string
		wantEnergy float64
		wantOK     bool
	}{
		{"Key and energy", "8A - Energy 7", "8A", 0.7, true},
		{"Key only", "11B", "11B", 0, true},
		{"Lowercase key", "4a - Energy 5", "4A", 0.5, true},
		{"Max energy", "1A - Energy 10", "1A", 1.0, true},
		{"Energy out of range ignored", "3B - Energy 11", "3B", 0, true},
		{"Embedded in prose", "Analyzed: 12A - Energy 3 (MIK)", "12A", 0.3, true},
		{"No key", "just a regular comment", "", 0, false},
		{"Empty", "", "", 0, false},
		{"No A/B suffix", "99X nothing here", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, energy, ok := ParseMIKComment(tt.comment)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if key != tt.wantKey {
				t.Errorf("key = %q, want %q", key, tt.wantKey)
			}
			if energy != tt.wantEnergy {
				t.Errorf("energy = %v, want %v", energy, tt.wantEnergy)
			}
		})
	}
}

func TestIsSupportedFormat(t *testing.T) {
	supported := []string{"a.mp3", "b.FLAC", "dir/c.m4a", "d.ogg"}
	for _, p := range supported {
		if !IsSupportedFormat(p) {
			t.Errorf("expected %q to be supported", p)
		}
	}

	unsupported := []string{"a.wav", "b.txt", "c", "d.mp3.bak"}
	for _, p := range unsupported {
		if IsSupportedFormat(p) {
			t.Errorf("expected %q to be unsupported", p)
		}
	}
}
