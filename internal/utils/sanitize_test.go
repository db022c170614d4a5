package utils

import "testing"

func TestSanitizeYear(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Plain year", "2020", "2020"},
		{"ISO date", "1997-01-20T08:00:00Z", "1997"},
		{"Date only", "2003-06-14", "2003"},
		{"Two digits", "97", "0000"},
		{"Garbage prefix", "abcd-01", "0000"},
		{"Empty", "", "0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeYear(tt.in); got != tt.want {
				t.Errorf("SanitizeYear(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		def  string
		want string
	}{
		{"Spaces to underscores", "Deep House", "x", "Deep_House"},
		{"Strips punctuation", "Don't Stop!", "x", "Dont_Stop"},
		{"Empty uses default", "", "playlist", "playlist"},
		{"Keeps dashes", "Drum-and-Bass", "x", "Drum-and-Bass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in, tt.def); got != tt.want {
				t.Errorf("Sanitize(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanFilename(t *testing.T) {
	if got := CleanFilename("first_light-extended_mix.mp3"); got != "first light extended mix" {
		t.Errorf("CleanFilename = %q", got)
	}
}
