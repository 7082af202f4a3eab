package diarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/diascribe/diascribe/internal/errs"
)

// DefaultEndpoint is the hosted inference endpoint for the pyannote
// speaker-diarization pipeline.
const DefaultEndpoint = "https://api-inference.huggingface.co/models/pyannote/speaker-diarization-3.0"

// Pyannote invokes a pyannote-style diarization inference endpoint over HTTP.
type Pyannote struct {
	endpoint string
	token    string
	client   *retryablehttp.Client
}

// segment mirrors one entry of the inference endpoint's JSON response.
type segment struct {
	Speaker string  `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// NewPyannote creates a diarizer client. The token authenticates against the
// inference endpoint and must not be empty.
func NewPyannote(endpoint, token string) (*Pyannote, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: diarization auth token not set", errs.ErrMissingCredential)
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	// Retry only transient transport failures; model invocations are
	// expensive, so keep the budget small.
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 2 * time.Second
	client.RetryWaitMax = 10 * time.Second
	client.Logger = nil

	return &Pyannote{
		endpoint: endpoint,
		token:    token,
		client:   client,
	}, nil
}

// Name returns the provider name.
func (p *Pyannote) Name() string {
	return "pyannote"
}

// Diarize posts the audio file to the inference endpoint and decodes the
// returned speaker segments.
func (p *Pyannote) Diarize(ctx context.Context, audioPath string) ([]Turn, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, &errs.DiarizationError{Err: fmt.Errorf("failed to read audio: %w", err)}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, &errs.DiarizationError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &errs.DiarizationError{Err: fmt.Errorf("inference request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &errs.DiarizationError{
			Err: fmt.Errorf("inference endpoint returned %s: %s", resp.Status, bytes.TrimSpace(body)),
		}
	}

	var segments []segment
	if err := json.NewDecoder(resp.Body).Decode(&segments); err != nil {
		return nil, &errs.DiarizationError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	turns := make([]Turn, 0, len(segments))
	for _, s := range segments {
		turns = append(turns, Turn{Speaker: s.Speaker, Start: s.Start, End: s.End})
	}
	return turns, nil
}
