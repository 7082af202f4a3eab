// Package transcribe provides the speech-to-text capability used to caption
// speaker turns.
package transcribe

import (
	"context"
	"fmt"
)

// Transcriber converts an encoded audio clip to text.
type Transcriber interface {
	// Transcribe maps the encoded audio bytes of one clip to its spoken text.
	Transcribe(ctx context.Context, audio []byte) (string, error)

	// Name returns the provider name.
	Name() string
}

// Options configures transcriber construction.
type Options struct {
	// Model selects the quality/speed tier, e.g. "base" or "large-v2".
	Model string

	// ModelsDir holds downloaded ggml model files for the local provider.
	ModelsDir string

	// APIKey authenticates against the hosted provider.
	APIKey string

	// Language hints the spoken language ("auto" to detect).
	Language string
}

// New creates a Transcriber for the given provider.
func New(provider string, opts Options) (Transcriber, error) {
	switch provider {
	case "whisper", "local", "":
		return NewWhisper(ModelPath(opts.ModelsDir, opts.Model), opts.Language)
	case "openai":
		return NewOpenAI(opts.Model, opts.APIKey)
	default:
		return nil, fmt.Errorf("unsupported transcription provider: %s", provider)
	}
}
