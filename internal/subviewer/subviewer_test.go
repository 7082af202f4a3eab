package subviewer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/diascribe/diascribe/internal/diarize"
	"github.com/diascribe/diascribe/internal/errs"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "Zero", input: 0, expected: "00:00:00.000"},
		{name: "Truncates fractional millis", input: 3661.2505, expected: "01:01:01.250"},
		{name: "Sub-second", input: 0.5, expected: "00:00:00.500"},
		{name: "Exact minute", input: 60, expected: "00:01:00.000"},
		{name: "Beyond 24h", input: 90000, expected: "25:00:00.000"},
		{name: "Millisecond precision", input: 3.2, expected: "00:00:03.200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatTimestamp(tt.input)
			if err != nil {
				t.Fatalf("FormatTimestamp(%f) error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("FormatTimestamp(%f) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatTimestampNegative(t *testing.T) {
	_, err := FormatTimestamp(-1)
	if !errors.Is(err, errs.ErrInvalidArgument) {
		t.Errorf("FormatTimestamp(-1) error = %v, want ErrInvalidArgument", err)
	}
}

func TestFormatTimestampMonotonic(t *testing.T) {
	inputs := []float64{0, 0.001, 0.5, 1, 59.999, 60, 61.25, 3599.9, 3600, 3661.2505, 86400}
	var prev string
	for i, in := range inputs {
		got, err := FormatTimestamp(in)
		if err != nil {
			t.Fatalf("FormatTimestamp(%f) error: %v", in, err)
		}
		if i > 0 && got < prev {
			t.Errorf("FormatTimestamp not monotonic: %q < %q for input %f", got, prev, in)
		}
		prev = got
	}
}

func TestRender(t *testing.T) {
	turns := []diarize.CaptionedTurn{
		{Turn: diarize.Turn{Speaker: "SPEAKER_00", Start: 0.0, End: 3.2}, Text: "hello there"},
		{Turn: diarize.Turn{Speaker: "SPEAKER_01", Start: 3.2, End: 6.0}, Text: "goodbye now"},
	}

	want := "00:00:00.000,00:00:03.200\nSPEAKER_00: hello there\n\n" +
		"00:00:03.200,00:00:06.000\nSPEAKER_01: goodbye now\n\n"

	got, err := Render(turns)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	got, err := Render(nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if got != "" {
		t.Errorf("Render(nil) = %q, want empty", got)
	}
}

func TestWriteOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := OutputPath(dir, "talk")

	if err := os.WriteFile(path, []byte("stale content"), 0644); err != nil {
		t.Fatal(err)
	}

	turns := []diarize.CaptionedTurn{
		{Turn: diarize.Turn{Speaker: "SPEAKER_00", Start: 0, End: 1}, Text: "hi"},
	}
	if err := Write(path, turns); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "00:00:00.000,00:00:01.000\nSPEAKER_00: hi\n\n"
	if string(data) != want {
		t.Errorf("file content = %q, want %q", string(data), want)
	}
}

func TestOutputPath(t *testing.T) {
	got := OutputPath("out", "lecture")
	want := filepath.Join("out", "lecture_output.sub")
	if got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}

	// Empty base name still yields a valid file name.
	got = OutputPath("out", "")
	want = filepath.Join("out", "_output.sub")
	if got != want {
		t.Errorf("OutputPath with empty base = %q, want %q", got, want)
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"/tmp/videos/talk.mp4", "talk"},
		{"episode.final.mp3", "episode.final"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := BaseName(tt.input); got != tt.expected {
			t.Errorf("BaseName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
