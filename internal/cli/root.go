// Package cli implements the diascribe command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/diascribe/diascribe/internal/config"
	"github.com/diascribe/diascribe/internal/diarize"
	"github.com/diascribe/diascribe/internal/errs"
	"github.com/diascribe/diascribe/internal/logging"
	"github.com/diascribe/diascribe/internal/pipeline"
	"github.com/diascribe/diascribe/internal/transcribe"
	"github.com/diascribe/diascribe/internal/version"
)

var (
	flagURL       string
	flagVideo     string
	flagAudio     string
	flagModel     string
	flagProvider  string
	flagCollar    float64
	flagSkip      []string
	flagWorkDir   string
	flagOutputDir string
	flagWorkers   int
	flagVerbose   bool
	flagQuiet     bool
)

var rootCmd = &cobra.Command{
	Use:   "diascribe",
	Short: "Speaker-labeled transcription of video and audio sources",
	Long: `diascribe extracts audio from a video/audio file or remote URL, runs
speaker diarization, transcribes each speaker turn, and writes a timestamped
SubViewer subtitle file (<basename>_output.sub).`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flagURL, "url", "u", "", "remote media URL")
	rootCmd.Flags().StringVarP(&flagVideo, "video", "f", "", "local video file")
	rootCmd.Flags().StringVarP(&flagAudio, "audio", "a", "", "local audio file (wav/mp3)")
	rootCmd.Flags().StringVarP(&flagModel, "model", "m", "", "whisper model tier (see 'diascribe models')")
	rootCmd.Flags().StringVar(&flagProvider, "provider", "", "transcription provider: whisper or openai")
	rootCmd.Flags().Float64VarP(&flagCollar, "collar", "c", -1, "merge same-speaker turns closer than this many seconds")
	rootCmd.Flags().StringSliceVar(&flagSkip, "skip", nil, "stages to skip, reusing cached artifacts: acquire, diarize")
	rootCmd.Flags().StringVar(&flagWorkDir, "workdir", "", "working directory for run artifacts")
	rootCmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "", "directory for the subtitle file")
	rootCmd.Flags().IntVar(&flagWorkers, "workers", 0, "concurrent transcription workers")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress the transcript on stdout")
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		color.Red("Error: %v", err)
	}
	return err
}

func runPipeline(cmd *cobra.Command) error {
	cfg := config.LoadOrDefault()
	applyFlags(cfg)

	if flagURL == "" && flagVideo == "" && flagAudio == "" && !skipsStage(pipeline.StageAcquire) {
		return fmt.Errorf("%w: provide either URL or file", errs.ErrInvalidArgument)
	}
	if cfg.Model != "" && !transcribe.ValidModel(cfg.Model) {
		return fmt.Errorf("%w: unknown model %q (see 'diascribe models')", errs.ErrInvalidArgument, cfg.Model)
	}

	logger, err := logging.New(flagVerbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	transcriber, err := transcribe.New(cfg.Provider, transcribe.Options{
		Model:     cfg.Model,
		ModelsDir: cfg.ModelsDir,
		APIKey:    config.OpenAIKey(),
		Language:  cfg.Language,
	})
	if err != nil {
		return err
	}

	// The diarization credential is validated up front so a missing token
	// fails before any stage runs, not deep inside the pipeline.
	var diarizer diarize.Diarizer
	if !skipsStage(pipeline.StageDiarize) {
		diarizer, err = diarize.NewPyannote(cfg.DiarizationEndpoint, config.AuthToken())
		if err != nil {
			if errors.Is(err, errs.ErrMissingCredential) {
				return fmt.Errorf("%w\nSet %s to your Hugging Face access token", err, config.EnvAuthToken)
			}
			return err
		}
	}

	p, err := pipeline.New(pipeline.Config{
		WorkDir:   cfg.WorkDir,
		OutputDir: cfg.OutputDir,
		Workers:   cfg.Workers,
	}, diarizer, transcriber, newProgressObserver(), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := p.Run(ctx, pipeline.Request{
		URL:       flagURL,
		VideoFile: flagVideo,
		AudioFile: flagAudio,
		Collar:    cfg.Collar,
		Skip:      flagSkip,
	})
	if err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Println(result.Transcript)
	}
	color.Green("Saved: %s", result.OutputPath)
	return nil
}

func applyFlags(cfg *config.Config) {
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagProvider != "" {
		cfg.Provider = flagProvider
	}
	if flagCollar >= 0 {
		cfg.Collar = flagCollar
	}
	if flagWorkDir != "" {
		cfg.WorkDir = config.ExpandPath(flagWorkDir)
	}
	if flagOutputDir != "" {
		cfg.OutputDir = config.ExpandPath(flagOutputDir)
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
}

func skipsStage(stage string) bool {
	for _, s := range flagSkip {
		if s == stage {
			return true
		}
	}
	return false
}
