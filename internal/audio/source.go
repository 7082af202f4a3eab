// Package audio provides the decoded audio source handle, sample-accurate
// per-turn clip extraction, and input conversion to WAV.
package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Source is a fully decoded PCM audio source. All turn windows in a run are
// offsets into one Source.
type Source struct {
	path     string
	buf      *audio.IntBuffer
	bitDepth int
}

// Load decodes a WAV file into memory.
func Load(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode WAV: %w", err)
	}

	return &Source{
		path:     path,
		buf:      buf,
		bitDepth: int(decoder.BitDepth),
	}, nil
}

// Path returns the file the source was decoded from.
func (s *Source) Path() string { return s.path }

// SampleRate returns the source sample rate in Hz.
func (s *Source) SampleRate() int { return s.buf.Format.SampleRate }

// Channels returns the number of interleaved channels.
func (s *Source) Channels() int { return s.buf.Format.NumChannels }

// Frames returns the number of sample frames in the source.
func (s *Source) Frames() int {
	if s.buf.Format.NumChannels == 0 {
		return 0
	}
	return len(s.buf.Data) / s.buf.Format.NumChannels
}

// Duration returns the source length in seconds.
func (s *Source) Duration() float64 {
	if s.buf.Format.SampleRate == 0 {
		return 0
	}
	return float64(s.Frames()) / float64(s.buf.Format.SampleRate)
}
