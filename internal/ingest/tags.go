package ingest

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/dhowden/tag"

	"musicflow/internal/utils"
)

// FileTags is what a library file tells us about itself. BPM, key and
// energy come from Mixed In Key style tags when present.
type FileTags struct {
	Title  string
	Artist string
	Album  string
	Genre  string
	Year   int

	BPM        float64
	CamelotKey string
	Energy     float64 // 0.0 to 1.0, scaled from MIK's 1-10
	Format     string
}

var supportedExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".ogg":  true,
}

func IsSupportedFormat(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// ReadTags extracts metadata from one audio file. Generic tags come
// from the container-agnostic reader; MP3s get a second pass over the
// raw ID3 frames for TKEY/TBPM, which the generic reader skips.
func ReadTags(path string) (FileTags, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileTags{}, err
	}
	defer f.Close()

	ft := FileTags{
		Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
	}

	meta, err := tag.ReadFrom(f)
	if err == nil {
		ft.Title = meta.Title()
		ft.Artist = meta.Artist()
		ft.Album = meta.Album()
		ft.Genre = meta.Genre()
		ft.Year = meta.Year()

		// Mixed In Key writes its analysis into the comment field:
		// "8A - Energy 7"
		if key, energy, ok := ParseMIKComment(meta.Comment()); ok {
			ft.CamelotKey = key
			ft.Energy = energy
		}
	}

	if ft.Format == "mp3" {
		readID3Frames(path, &ft)
	}

	if ft.Title == "" {
		ft.Title = utils.CleanFilename(filepath.Base(path))
	}

	return ft, nil
}

// readID3Frames fills BPM and key from the TBPM/TKEY text frames.
func readID3Frames(path string, ft *FileTags) {
	id3, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return
	}
	defer id3.Close()

	if v := id3.GetTextFrame("TBPM").Text; v != "" {
		if bpm, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			ft.BPM = bpm
		}
	}
	if v := id3.GetTextFrame("TKEY").Text; v != "" && ft.CamelotKey == "" {
		ft.CamelotKey = strings.TrimSpace(v)
	}

	// Some encoders only write a full date frame ("1997-01-20"); pull
	// the year out of it when the generic reader found none.
	if ft.Year == 0 {
		for _, frame := range []string{"TDRC", "TYER"} {
			if v := id3.GetTextFrame(frame).Text; v != "" {
				if y, err := strconv.Atoi(utils.SanitizeYear(v)); err == nil && y > 0 {
					ft.Year = y
					break
				}
			}
		}
	}
}

var mikCommentRe = regexp.MustCompile(`(?i)\b(\d{1,2}[AB])\b(?:\s*-\s*Energy\s+(\d{1,2}))?`)

// ParseMIKComment pulls the Camelot key and energy level out of a
// Mixed In Key comment string. Energy is scaled from MIK's 1-10 range
// down to 0.0-1.0; a comment without an energy level yields 0.
func ParseMIKComment(comment string) (key string, energy float64, ok bool) {
	m := mikCommentRe.FindStringSubmatch(comment)
	if m == nil {
		return "", 0, false
	}

	key = strings.ToUpper(m[1])
	if m[2] != "" {
		if level, err := strconv.Atoi(m[2]); err == nil && level >= 1 && level <= 10 {
			energy = float64(level) / 10.0
		}
	}
	return key, energy, true
}
