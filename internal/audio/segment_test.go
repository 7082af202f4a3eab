package audio

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/diascribe/diascribe/internal/errs"
)

// writeTestWAV writes a mono 16-bit WAV with a low-frequency sine so clip
// contents differ across windows.
func writeTestWAV(t *testing.T, path string, sampleRate int, seconds float64) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	frames := int(seconds * float64(sampleRate))
	data := make([]int, frames)
	for i := range data {
		data[i] = int(10000 * math.Sin(2*math.Pi*220*float64(i)/float64(sampleRate)))
	}

	encoder := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := encoder.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := encoder.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "source.wav")
	writeTestWAV(t, path, 8000, 6.0)

	src, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if src.SampleRate() != 8000 {
		t.Errorf("SampleRate = %d, want 8000", src.SampleRate())
	}
	if src.Frames() != 48000 {
		t.Errorf("Frames = %d, want 48000", src.Frames())
	}
	if src.Duration() != 6.0 {
		t.Errorf("Duration = %f, want 6.0", src.Duration())
	}
}

func TestExtractClipDeterministic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "source.wav")
	writeTestWAV(t, path, 8000, 6.0)

	src, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	clipA := filepath.Join(dir, "a.wav")
	clipB := filepath.Join(dir, "b.wav")
	if err := src.ExtractClip(2.0, 4.0, clipA); err != nil {
		t.Fatalf("first extraction error: %v", err)
	}
	if err := src.ExtractClip(2.0, 4.0, clipB); err != nil {
		t.Fatalf("second extraction error: %v", err)
	}

	dataA, err := os.ReadFile(clipA)
	if err != nil {
		t.Fatal(err)
	}
	dataB, err := os.ReadFile(clipB)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dataA, dataB) {
		t.Error("repeated extraction produced different bytes")
	}
}

func TestExtractClipWindow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "source.wav")
	writeTestWAV(t, path, 8000, 6.0)

	src, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	clip := filepath.Join(dir, "clip.wav")
	if err := src.ExtractClip(2.0, 4.0, clip); err != nil {
		t.Fatal(err)
	}

	out, err := Load(clip)
	if err != nil {
		t.Fatalf("failed to load clip: %v", err)
	}
	// [2.0, 4.0) at 8kHz floors to frames 16000..32000.
	if out.Frames() != 16000 {
		t.Errorf("clip frames = %d, want 16000", out.Frames())
	}

	// End beyond source length is clamped.
	if err := src.ExtractClip(5.5, 100, clip); err != nil {
		t.Fatal(err)
	}
	out, err = Load(clip)
	if err != nil {
		t.Fatal(err)
	}
	if out.Frames() != 4000 {
		t.Errorf("clamped clip frames = %d, want 4000", out.Frames())
	}
}

func TestExtractClipOutOfRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "source.wav")
	writeTestWAV(t, path, 8000, 6.0)

	src, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		start, end float64
	}{
		{name: "Start beyond duration", start: 6.0, end: 7.0},
		{name: "Start equals end", start: 2.0, end: 2.0},
		{name: "Start after end", start: 4.0, end: 2.0},
		{name: "Negative start", start: -1.0, end: 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := src.ExtractClip(tt.start, tt.end, filepath.Join(dir, "bad.wav"))
			if !errors.Is(err, errs.ErrOutOfRange) {
				t.Errorf("ExtractClip(%f, %f) error = %v, want ErrOutOfRange", tt.start, tt.end, err)
			}
		})
	}
}

func TestClipName(t *testing.T) {
	tests := []struct {
		start    float64
		speaker  string
		expected string
	}{
		{0, "SPEAKER_00", "0.00-SPEAKER_00.wav"},
		{3.2, "SPEAKER_01", "3.20-SPEAKER_01.wav"},
		{5.3, "SPEAKER_00", "5.30-SPEAKER_00.wav"},
	}
	for _, tt := range tests {
		if got := ClipName(tt.start, tt.speaker); got != tt.expected {
			t.Errorf("ClipName(%f, %q) = %q, want %q", tt.start, tt.speaker, got, tt.expected)
		}
	}
}
