package diarize

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/diascribe/diascribe/internal/errs"
)

func TestNewPyannoteRequiresToken(t *testing.T) {
	_, err := NewPyannote("", "")
	if !errors.Is(err, errs.ErrMissingCredential) {
		t.Errorf("NewPyannote error = %v, want ErrMissingCredential", err)
	}
}

func TestPyannoteDiarize(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"speaker": "SPEAKER_00", "start": 0.0, "end": 3.2},
			{"speaker": "SPEAKER_01", "start": 3.2, "end": 6.0}
		]`))
	}))
	defer server.Close()

	audioPath := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(audioPath, []byte("RIFFxxxxWAVE"), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := NewPyannote(server.URL, "hf_token")
	if err != nil {
		t.Fatal(err)
	}

	turns, err := p.Diarize(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Diarize error: %v", err)
	}

	want := []Turn{
		{Speaker: "SPEAKER_00", Start: 0, End: 3.2},
		{Speaker: "SPEAKER_01", Start: 3.2, End: 6},
	}
	if !reflect.DeepEqual(turns, want) {
		t.Errorf("Diarize = %+v, want %+v", turns, want)
	}
	if gotAuth != "Bearer hf_token" {
		t.Errorf("Authorization header = %q, want Bearer hf_token", gotAuth)
	}
}

func TestPyannoteDiarizeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	audioPath := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(audioPath, []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := NewPyannote(server.URL, "hf_token")
	if err != nil {
		t.Fatal(err)
	}
	p.client.RetryMax = 0

	_, err = p.Diarize(context.Background(), audioPath)
	var derr *errs.DiarizationError
	if !errors.As(err, &derr) {
		t.Errorf("Diarize error = %v, want DiarizationError", err)
	}
}
