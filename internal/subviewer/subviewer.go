// Package subviewer renders speaker-labeled transcripts in the SubViewer
// subtitle format: https://wiki.videolan.org/SubViewer/
package subviewer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/diascribe/diascribe/internal/diarize"
	"github.com/diascribe/diascribe/internal/errs"
)

// OutputSuffix is appended to the source base name for the subtitle file.
const OutputSuffix = "_output.sub"

// FormatTimestamp converts seconds to a zero-padded HH:MM:SS.mmm string.
// Milliseconds are truncated, not rounded, so the mapping is monotonic.
func FormatTimestamp(seconds float64) (string, error) {
	if seconds < 0 {
		return "", fmt.Errorf("%w: negative timestamp %f", errs.ErrInvalidArgument, seconds)
	}

	totalMillis := int64(seconds * 1000)
	millis := totalMillis % 1000
	totalSecs := totalMillis / 1000
	secs := totalSecs % 60
	mins := (totalSecs / 60) % 60
	hours := totalSecs / 3600

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, mins, secs, millis), nil
}

// Render formats captioned turns as a SubViewer text block. Each turn becomes
// a "start,end" line followed by "speaker: text", separated by blank lines.
func Render(turns []diarize.CaptionedTurn) (string, error) {
	var b strings.Builder
	for _, t := range turns {
		start, err := FormatTimestamp(t.Start)
		if err != nil {
			return "", err
		}
		end, err := FormatTimestamp(t.End)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s,%s\n%s: %s\n\n", start, end, t.Speaker, t.Text)
	}
	return b.String(), nil
}

// OutputPath returns the subtitle file path for a source base name. The base
// may be empty (remote sources without a resolvable name), in which case the
// file is just the suffix, matching last-run-wins caching semantics.
func OutputPath(dir, baseName string) string {
	return filepath.Join(dir, baseName+OutputSuffix)
}

// Write renders the turns and persists them to path, overwriting any
// existing file.
func Write(path string, turns []diarize.CaptionedTurn) error {
	text, err := Render(turns)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write subtitle file: %w", err)
	}
	return nil
}

// BaseName returns the file name of path without directory or extension,
// mirroring how the subtitle file inherits its name from the source.
func BaseName(path string) string {
	if path == "" {
		return ""
	}
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
