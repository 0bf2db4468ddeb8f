package progress

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

const tickInterval = 100 * time.Millisecond

type Bar struct {
	*progressbar.ProgressBar
}

// NewSpinner builds an indeterminate bar for work with no known size.
func NewSpinner(w io.Writer, description string) *Bar {
	if w == nil {
		w = os.Stderr
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(tickInterval),
		progressbar.OptionClearOnFinish(),
	)

	return &Bar{ProgressBar: bar}
}

func (b *Bar) Increment() {
	b.Add(1)
}

func (b *Bar) Finish() {
	if b.ProgressBar == nil {
		return
	}
	b.ProgressBar.Finish()
}

// Run executes task on its own goroutine and spins an indeterminate bar on w
// until it returns. There is no cancellation: the task runs to completion.
func Run(w io.Writer, description string, task func() error) error {
	bar := NewSpinner(w, description)
	done := make(chan error, 1)
	go func() {
		done <- task()
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			bar.Finish()
			return err
		case <-ticker.C:
			bar.Increment()
		}
	}
}
