package transcribe

import (
	"bytes"
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI implements Transcriber using the OpenAI Whisper API. The hosted API
// exposes a single model, so the tier selection only applies to the local
// provider.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an API-backed transcriber.
func NewOpenAI(model, apiKey string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not provided\nSet OPENAI_API_KEY or configure api_key")
	}
	if model == "" || ValidModel(model) {
		// Local tier names do not exist on the hosted API.
		model = "whisper-1"
	}
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Name returns the provider name.
func (o *OpenAI) Name() string {
	return "openai"
}

// Transcribe uploads the clip bytes and returns the recognized text.
func (o *OpenAI) Transcribe(ctx context.Context, audio []byte) (string, error) {
	req := openai.AudioRequest{
		Model:    o.model,
		Reader:   bytes.NewReader(audio),
		FilePath: "clip.wav",
	}

	resp, err := o.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("transcription API error: %w", err)
	}
	return resp.Text, nil
}
