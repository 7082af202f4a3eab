// Package errs defines the error taxonomy shared by the pipeline packages.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates a bad or missing caller input, such as an
	// empty source selection or a negative collar.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingCredential indicates the diarization auth token is absent
	// from the environment.
	ErrMissingCredential = errors.New("missing credential")

	// ErrNotFound indicates a skip-requested cached artifact does not exist.
	ErrNotFound = errors.New("not found")

	// ErrOutOfRange indicates a turn window outside the audio source bounds.
	ErrOutOfRange = errors.New("out of range")
)

// TranscriptionError wraps a transcription capability failure for one turn.
type TranscriptionError struct {
	Turn int
	Err  error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed for turn %d: %v", e.Turn, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// DiarizationError wraps a diarization capability failure.
type DiarizationError struct {
	Err error
}

func (e *DiarizationError) Error() string {
	return fmt.Sprintf("diarization failed: %v", e.Err)
}

func (e *DiarizationError) Unwrap() error { return e.Err }
