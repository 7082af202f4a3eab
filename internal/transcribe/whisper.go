//go:build cgo

package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/go-audio/wav"
)

// Whisper implements Transcriber using whisper.cpp.
type Whisper struct {
	model     whisper.Model
	modelPath string
	language  string
}

// NewWhisper loads a ggml model from modelPath.
func NewWhisper(modelPath, language string) (*Whisper, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("whisper model not found: %s\nRun: diascribe models", modelPath)
	}

	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load whisper model: %w", err)
	}

	if language == "" {
		language = "auto"
	}

	return &Whisper{
		model:     model,
		modelPath: modelPath,
		language:  language,
	}, nil
}

// Name returns the provider name.
func (w *Whisper) Name() string {
	return "whisper.cpp"
}

// Transcribe decodes the WAV clip bytes and runs them through the model.
func (w *Whisper) Transcribe(ctx context.Context, audio []byte) (string, error) {
	samples, err := decodeSamples(audio)
	if err != nil {
		return "", fmt.Errorf("failed to read audio: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	wctx, err := w.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("failed to create whisper context: %w", err)
	}

	if w.language != "auto" {
		if err := wctx.SetLanguage(w.language); err != nil {
			return "", fmt.Errorf("failed to set language: %w", err)
		}
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("failed to process audio: %w", err)
	}

	var text strings.Builder
	for {
		segment, err := wctx.NextSegment()
		if err != nil {
			break
		}
		text.WriteString(segment.Text)
		text.WriteString(" ")
	}

	return strings.TrimSpace(text.String()), nil
}

// Close releases the model resources.
func (w *Whisper) Close() error {
	if w.model != nil {
		return w.model.Close()
	}
	return nil
}

// decodeSamples converts encoded WAV bytes to normalized float32 samples.
func decodeSamples(data []byte) ([]float32, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV data")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode WAV: %w", err)
	}

	const maxInt16 = 32768.0
	samples := make([]float32, len(buf.Data))
	for i, sample := range buf.Data {
		samples[i] = float32(sample) / maxInt16
	}
	return samples, nil
}
