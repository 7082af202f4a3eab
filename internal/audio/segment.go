package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/diascribe/diascribe/internal/errs"
)

// ClipName returns the deterministic clip file name for a turn, derived from
// the turn start and speaker label so repeated runs produce identical names.
func ClipName(start float64, speaker string) string {
	return fmt.Sprintf("%.2f-%s.wav", start, speaker)
}

// ExtractClip writes the [start, end) window of the source as an independent
// WAV clip. The window is floored to whole frame boundaries and the end is
// clamped to the source length, so extraction is deterministic and
// sample-accurate. Returns ErrOutOfRange when the window does not intersect
// the source.
func (s *Source) ExtractClip(start, end float64, path string) error {
	if start < 0 || start >= end {
		return fmt.Errorf("%w: invalid window [%f, %f)", errs.ErrOutOfRange, start, end)
	}
	if start >= s.Duration() {
		return fmt.Errorf("%w: window start %f beyond source duration %f", errs.ErrOutOfRange, start, s.Duration())
	}

	rate := s.buf.Format.SampleRate
	channels := s.buf.Format.NumChannels

	startFrame := int(start * float64(rate))
	endFrame := int(end * float64(rate))
	if endFrame > s.Frames() {
		endFrame = s.Frames()
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create clip file: %w", err)
	}
	defer out.Close()

	encoder := wav.NewEncoder(out, rate, s.bitDepth, channels, 1)
	clip := &audio.IntBuffer{
		Format:         s.buf.Format,
		Data:           s.buf.Data[startFrame*channels : endFrame*channels],
		SourceBitDepth: s.bitDepth,
	}
	if err := encoder.Write(clip); err != nil {
		return fmt.Errorf("failed to encode clip: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize clip: %w", err)
	}
	return nil
}
