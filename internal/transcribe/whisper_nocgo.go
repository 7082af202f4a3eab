//go:build !cgo

package transcribe

import (
	"context"
	"fmt"
)

// Whisper is unavailable without cgo; whisper.cpp requires it.
type Whisper struct{}

// NewWhisper reports that local transcription needs a cgo-enabled build.
func NewWhisper(modelPath, language string) (*Whisper, error) {
	return nil, fmt.Errorf("local transcription requires a cgo-enabled build; use --provider openai instead")
}

func (w *Whisper) Name() string { return "whisper.cpp" }

func (w *Whisper) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return "", fmt.Errorf("local transcription requires a cgo-enabled build")
}

func (w *Whisper) Close() error { return nil }
