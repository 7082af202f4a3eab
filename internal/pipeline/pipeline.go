// Package pipeline sequences source acquisition, diarization, transcription,
// and subtitle persistence for one run at a time.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diascribe/diascribe/internal/audio"
	"github.com/diascribe/diascribe/internal/diarize"
	"github.com/diascribe/diascribe/internal/errs"
	"github.com/diascribe/diascribe/internal/fetch"
	"github.com/diascribe/diascribe/internal/subviewer"
)

// Stage names accepted in Request.Skip. Skipping a stage reuses the artifact
// a previous run left in the working directory.
const (
	StageAcquire = "acquire"
	StageDiarize = "diarize"
)

// Progress is invoked at stage boundaries with a completion fraction in
// [0, 1] and a short message. Reporting is advisory only; implementations
// must not block.
type Progress func(fraction float64, message string)

// Coarse progress milestones, matching the stage weights of the interactive
// front end.
const (
	progressAcquire    = 0.10
	progressDiarize    = 0.50
	progressTranscribe = 0.80
	progressDone       = 1.00
)

// Config scopes a controller instance to one working area.
type Config struct {
	// WorkDir holds the run artifacts (audio, diarization, clips, lock).
	WorkDir string

	// OutputDir receives the subtitle file. Empty means current directory.
	OutputDir string

	// Workers bounds concurrent transcription invocations. Values below 1
	// mean sequential processing.
	Workers int
}

// Request describes one run. Exactly one of VideoFile, AudioFile, or URL
// must be set unless acquisition is skipped; when several are set by
// mistake, precedence is video file, then audio file, then URL.
type Request struct {
	URL       string
	VideoFile string
	AudioFile string
	Collar    float64
	Skip      []string
}

// Result is the outcome of a successful run.
type Result struct {
	Transcript string
	OutputPath string
	Turns      []diarize.CaptionedTurn
}

// Pipeline is the run controller. It is not safe for concurrent use; the
// working-directory lock additionally rejects concurrent runs across
// processes.
type Pipeline struct {
	cfg         Config
	store       *DirStore
	diarizer    diarize.Diarizer
	transcriber Transcriber
	progress    Progress
	logger      *zap.Logger
	lock        *flock.Flock
}

// Transcriber is the narrow transcription capability the driver invokes.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
	Name() string
}

// New constructs a controller. The diarizer may be nil when every run will
// skip the diarization stage; the transcriber is always required.
func New(cfg Config, d diarize.Diarizer, t Transcriber, progress Progress, logger *zap.Logger) (*Pipeline, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: transcriber is required", errs.ErrInvalidArgument)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := NewDirStore(cfg.WorkDir)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:         cfg,
		store:       store,
		diarizer:    d,
		transcriber: t,
		progress:    progress,
		logger:      logger,
		lock:        flock.New(filepath.Join(cfg.WorkDir, "diascribe.lock")),
	}, nil
}

// Run executes the pipeline for one source. On failure no subtitle file is
// written; persistence only happens after every turn is captioned.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Collar < 0 {
		return nil, fmt.Errorf("%w: collar must be >= 0, got %f", errs.ErrInvalidArgument, req.Collar)
	}
	skip := make(map[string]bool, len(req.Skip))
	for _, s := range req.Skip {
		switch s {
		case StageAcquire, StageDiarize:
			skip[s] = true
		default:
			return nil, fmt.Errorf("%w: unknown skip stage %q", errs.ErrInvalidArgument, s)
		}
	}

	if !skip[StageAcquire] && req.VideoFile == "" && req.AudioFile == "" && req.URL == "" {
		return nil, fmt.Errorf("%w: provide either URL or file", errs.ErrInvalidArgument)
	}

	locked, err := p.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another run is already using %s", p.cfg.WorkDir)
	}
	defer p.lock.Unlock()

	runID := uuid.NewString()
	logger := p.logger.With(zap.String("run", runID))
	logger.Info("starting pipeline run",
		zap.Float64("collar", req.Collar),
		zap.Strings("skip", req.Skip))

	baseName, err := p.acquire(ctx, req, skip[StageAcquire], logger)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	turns, err := p.diarize(ctx, skip[StageDiarize], logger)
	if err != nil {
		return nil, err
	}

	merged := diarize.Merge(turns, req.Collar)
	logger.Info("merged speaker turns",
		zap.Int("raw", len(turns)),
		zap.Int("merged", len(merged)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	captioned, err := p.transcribe(ctx, merged, logger)
	if err != nil {
		return nil, err
	}

	p.report(progressDone, "Done!")
	transcript, err := subviewer.Render(captioned)
	if err != nil {
		return nil, err
	}

	outputPath := subviewer.OutputPath(p.cfg.OutputDir, baseName)
	if err := subviewer.Write(outputPath, captioned); err != nil {
		return nil, err
	}
	logger.Info("wrote subtitle file", zap.String("path", outputPath))

	return &Result{
		Transcript: transcript,
		OutputPath: outputPath,
		Turns:      captioned,
	}, nil
}

// acquire produces the working WAV file and returns the source base name
// used for the output file.
func (p *Pipeline) acquire(ctx context.Context, req Request, skipped bool, logger *zap.Logger) (string, error) {
	audioPath := p.store.Path(KeyAudio)

	if skipped {
		if !p.store.Has(KeyAudio) {
			return "", fmt.Errorf("%w: no cached audio at %s", errs.ErrNotFound, audioPath)
		}
		p.report(progressAcquire, "Reusing cached audio...")
		logger.Info("reusing cached audio", zap.String("path", audioPath))
		return "", nil
	}

	switch {
	case req.VideoFile != "":
		p.report(progressAcquire, "Processing video file...")
		logger.Info("extracting audio from video", zap.String("file", req.VideoFile))
		if err := audio.ExtractWAV(req.VideoFile, audioPath); err != nil {
			return "", err
		}
		return subviewer.BaseName(req.VideoFile), nil

	case req.AudioFile != "":
		p.report(progressAcquire, "Processing audio file...")
		logger.Info("converting audio file", zap.String("file", req.AudioFile))
		if err := audio.ConvertToWAV(req.AudioFile, audioPath); err != nil {
			return "", err
		}
		return subviewer.BaseName(req.AudioFile), nil

	default:
		p.report(progressAcquire, "Downloading media...")
		logger.Info("fetching remote source", zap.String("url", req.URL))
		mediaPath, err := fetch.Download(ctx, req.URL, p.store.Dir())
		if err != nil {
			return "", err
		}
		if err := audio.ExtractWAV(mediaPath, audioPath); err != nil {
			return "", err
		}
		return "", nil
	}
}

// diarize returns the raw speaker turns, either by invoking the diarization
// capability or by loading the cached RTTM artifact.
func (p *Pipeline) diarize(ctx context.Context, skipped bool, logger *zap.Logger) ([]diarize.Turn, error) {
	if skipped {
		p.report(progressDiarize, "Reusing cached diarization...")
		data, ok, err := p.store.Get(KeyDiarization)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: no cached diarization at %s", errs.ErrNotFound, p.store.Path(KeyDiarization))
		}
		logger.Info("reusing cached diarization", zap.String("path", p.store.Path(KeyDiarization)))
		return diarize.ReadRTTM(bytes.NewReader(data))
	}

	if p.diarizer == nil {
		return nil, fmt.Errorf("%w: no diarizer configured", errs.ErrInvalidArgument)
	}

	p.report(progressDiarize, "Generating speaker diarization... (this may take a while)")
	logger.Info("running diarization", zap.String("provider", p.diarizer.Name()))

	turns, err := p.diarizer.Diarize(ctx, p.store.Path(KeyAudio))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := diarize.WriteRTTM(&buf, "input", turns); err != nil {
		return nil, err
	}
	if err := p.store.Put(KeyDiarization, buf.Bytes()); err != nil {
		return nil, err
	}
	logger.Info("cached diarization", zap.Int("turns", len(turns)))
	return turns, nil
}

// transcribe captions the merged turns.
func (p *Pipeline) transcribe(ctx context.Context, merged []diarize.Turn, logger *zap.Logger) ([]diarize.CaptionedTurn, error) {
	p.report(progressTranscribe, "Generating transcription... (this may take a while)")

	src, err := audio.Load(p.store.Path(KeyAudio))
	if err != nil {
		return nil, err
	}

	clipsDir, err := p.store.ResetClipsDir()
	if err != nil {
		return nil, err
	}

	d := &driver{
		source:      src,
		transcriber: p.transcriber,
		clipsDir:    clipsDir,
		workers:     p.cfg.Workers,
		logger:      logger,
	}
	captioned, err := d.captionAll(ctx, merged)
	if err != nil {
		return nil, err
	}
	logger.Info("transcribed turns",
		zap.Int("turns", len(captioned)),
		zap.String("provider", p.transcriber.Name()))
	return captioned, nil
}

func (p *Pipeline) report(fraction float64, message string) {
	if p.progress != nil {
		p.progress(fraction, message)
	}
}
