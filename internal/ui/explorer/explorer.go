package explorer

import (
	"context"
	"fmt"

	"github.com/kadirbelkuyu/tabledef/internal/catalog"
	"github.com/kadirbelkuyu/tabledef/internal/export"
	"github.com/kadirbelkuyu/tabledef/pkg/logger"
	"github.com/rivo/tview"
)

// Exporter writes a report for the catalog the explorer is browsing.
type Exporter func(ctx context.Context, req export.Request) (*export.Result, error)

type Options struct {
	// Title names the data source in the tables pane.
	Title    string
	Source   catalog.Source
	Logger   *logger.Logger
	Defaults export.Request
	Export   Exporter
}

// Run blocks until the user leaves the explorer.
func Run(ctx context.Context, opts Options) error {
	if opts.Source == nil {
		return fmt.Errorf("explorer requires a catalog source")
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	app := tview.NewApplication()
	b := newBrowser(app, opts)
	b.start(ctx)

	if err := app.SetRoot(b.pages, true).SetInputCapture(b.capture).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
