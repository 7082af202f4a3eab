package cli

import (
	"github.com/schollz/progressbar/v3"

	"github.com/diascribe/diascribe/internal/pipeline"
)

// newProgressObserver renders stage-boundary progress reports as a terminal
// progress bar. The observer is advisory: rendering errors are ignored and
// never affect the run.
func newProgressObserver() pipeline.Progress {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("Starting..."),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
	return func(fraction float64, message string) {
		bar.Describe(message)
		_ = bar.Set(int(fraction * 100))
	}
}
