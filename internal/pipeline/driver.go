package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/diascribe/diascribe/internal/audio"
	"github.com/diascribe/diascribe/internal/diarize"
	"github.com/diascribe/diascribe/internal/errs"
)

// driver captions merged turns: it extracts each turn's clip, invokes the
// transcription capability, and reassembles results in start-ascending turn
// order. Turns may be transcribed concurrently up to the worker limit; the
// output order never depends on scheduling because results are written back
// by turn index.
type driver struct {
	source      *audio.Source
	transcriber Transcriber
	clipsDir    string
	workers     int
	logger      *zap.Logger
}

// captionAll processes turns and returns one CaptionedTurn per input turn.
// Any per-turn failure aborts the whole batch; there is no partial-output
// mode.
func (d *driver) captionAll(ctx context.Context, turns []diarize.Turn) ([]diarize.CaptionedTurn, error) {
	results := make([]diarize.CaptionedTurn, len(turns))

	workers := d.workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, turn := range turns {
		g.Go(func() error {
			captioned, err := d.captionOne(gctx, i, turn)
			if err != nil {
				return err
			}
			results[i] = captioned
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (d *driver) captionOne(ctx context.Context, index int, turn diarize.Turn) (diarize.CaptionedTurn, error) {
	// Zero-duration turns survive merging but have no audio to recognize.
	if turn.End <= turn.Start {
		return diarize.CaptionedTurn{Turn: turn}, nil
	}

	clipPath := filepath.Join(d.clipsDir, audio.ClipName(turn.Start, turn.Speaker))
	if err := d.source.ExtractClip(turn.Start, turn.End, clipPath); err != nil {
		return diarize.CaptionedTurn{}, fmt.Errorf("turn %d (%s): %w", index, turn.Speaker, err)
	}

	data, err := os.ReadFile(clipPath)
	if err != nil {
		return diarize.CaptionedTurn{}, fmt.Errorf("turn %d: failed to read clip: %w", index, err)
	}

	text, err := d.transcriber.Transcribe(ctx, data)
	if err != nil {
		return diarize.CaptionedTurn{}, &errs.TranscriptionError{Turn: index, Err: err}
	}

	d.logger.Debug("transcribed turn",
		zap.Int("turn", index),
		zap.String("speaker", turn.Speaker),
		zap.Float64("start", turn.Start),
		zap.Float64("end", turn.End))

	return diarize.CaptionedTurn{
		Turn:     turn,
		Text:     strings.TrimSpace(text),
		ClipPath: clipPath,
	}, nil
}
