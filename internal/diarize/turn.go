// Package diarize provides the speaker-turn data model, collar-based turn
// merging, RTTM caching, and the diarization capability interface.
package diarize

import "context"

// Turn is one contiguous time interval attributed to a single speaker.
// Times are offsets in seconds from the start of the audio source.
type Turn struct {
	Speaker string
	Start   float64
	End     float64
}

// CaptionedTurn is a Turn with the transcribed text attached. Text may be
// empty when recognition yields nothing; ClipPath references the extracted
// audio clip the text was produced from.
type CaptionedTurn struct {
	Turn
	Text     string
	ClipPath string
}

// Diarizer partitions an audio file into speaker turns.
type Diarizer interface {
	// Diarize returns the speaker turns for the given audio file, ordered
	// by start time.
	Diarize(ctx context.Context, audioPath string) ([]Turn, error)

	// Name returns the provider name.
	Name() string
}
