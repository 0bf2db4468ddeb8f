package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kadirbelkuyu/tabledef/internal/catalog"
	"github.com/kadirbelkuyu/tabledef/internal/config"
	"github.com/kadirbelkuyu/tabledef/internal/database"
	"github.com/kadirbelkuyu/tabledef/internal/export"
	"github.com/kadirbelkuyu/tabledef/internal/ui/explorer"
	"github.com/kadirbelkuyu/tabledef/pkg/logger"
)

// Default export target when neither the profile nor the user names one.
const (
	defaultDirectory = "output"
	defaultFileName  = "table-definitions"
)

// opener connects to the data source described by cfg.
type opener func(ctx context.Context, cfg *config.Config) (catalog.Source, io.Closer, error)

type Service struct {
	out      io.Writer
	progress io.Writer
	open     opener
	now      func() time.Time
}

func NewService(out io.Writer) *Service {
	if out == nil {
		out = os.Stdout
	}
	return &Service{
		out:      out,
		progress: os.Stderr,
		open:     openPostgres,
		now:      time.Now,
	}
}

func openPostgres(ctx context.Context, cfg *config.Config) (catalog.Source, io.Closer, error) {
	conn, err := database.NewConnection(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	source := catalog.NewPostgresSource(conn.DB, catalog.PostgresOptions{
		Schemas:     cfg.Database.Schemas,
		MultiSchema: cfg.SupportsMultiSchema(),
	})
	return source, conn, nil
}

// DefaultRequest is the export request a profile implies before the user
// changes anything.
func DefaultRequest(cfg *config.Config) export.Request {
	req := export.Request{Directory: defaultDirectory, FileName: defaultFileName}
	if cfg == nil {
		return req
	}
	return req.Merge(export.NewRequest(cfg.Export))
}

// Export writes the table definition report for cfg's data source. Errors
// returned here carry the message meant for the user; the cause is logged.
func (s *Service) Export(ctx context.Context, cfg *config.Config, req export.Request, verboseFlag bool) error {
	log := newLogger(cfg, verboseFlag)
	defer log.Close()

	if err := req.Validate(); err != nil {
		return displayError(err)
	}

	source, closer, err := s.open(ctx, cfg)
	if err != nil {
		log.WithError(err).WithField("server", formatServerLabel(cfg)).Error("Cannot connect to the data source")
		return displayError(err)
	}
	defer closer.Close()

	service := export.NewService(log,
		export.WithProgress(s.progress),
		export.WithSystemName(cfg.Export.SystemName),
		export.WithClock(s.now),
	)
	result, err := service.Export(ctx, source, req)
	if err != nil {
		return displayError(err)
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Table definitions exported.")
	fmt.Fprintf(s.out, "File: %s\n", result.Path)
	fmt.Fprintf(s.out, "Style: %s\n", result.Style)
	fmt.Fprintf(s.out, "Tables: %d (columns: %d, indexes: %d)\n", result.Tables, result.Columns, result.Indexes)
	fmt.Fprintf(s.out, "Size: %d bytes\n", result.Size)
	fmt.Fprintf(s.out, "Checksum: %s\n", shortChecksum(result.Checksum))
	fmt.Fprintf(s.out, "Duration: %s\n", result.CompletedAt.Sub(result.StartedAt).Round(time.Millisecond))
	if result.Unavailable > 0 {
		fmt.Fprintf(s.out, "Warning: %d catalog reads failed. See the log for details.\n", result.Unavailable)
	}
	return nil
}

func (s *Service) ListTables(ctx context.Context, cfg *config.Config, verboseFlag bool) error {
	log := newLogger(cfg, verboseFlag)
	defer log.Close()

	source, closer, err := s.open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer closer.Close()

	result := catalog.NewFetcher(source, log).ListTables(ctx)
	if !result.Available() {
		return result.Err
	}

	fmt.Fprintf(s.out, "\nTables in %s (%s):\n", displayValue(cfg.Database.Database, "database"), formatServerLabel(cfg))
	fmt.Fprintln(s.out, strings.Repeat("=", 36))
	for i, table := range result.Value {
		if table.Description != "" {
			fmt.Fprintf(s.out, "%d. %s - %s\n", i+1, table.QualifiedName(), table.Description)
			continue
		}
		fmt.Fprintf(s.out, "%d. %s\n", i+1, table.QualifiedName())
	}
	fmt.Fprintf(s.out, "\nTotal tables: %d\n", len(result.Value))
	return nil
}

// Explore opens the console UI. Log entries go to the configured log file
// only, since the console belongs to the UI.
func (s *Service) Explore(ctx context.Context, cfg *config.Config, verboseFlag bool) error {
	log := logger.NewLogger(verboseFlag,
		logger.WithOutput(io.Discard),
		logger.WithLevel(cfg.Logging.Level),
		logger.WithFile(cfg.Logging.File),
	)
	defer log.Close()

	fmt.Fprintf(s.out, "Connecting to %s...\n", formatServerLabel(cfg))
	source, closer, err := s.open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer closer.Close()

	service := export.NewService(log,
		export.WithSystemName(cfg.Export.SystemName),
		export.WithClock(s.now),
	)

	fmt.Fprintln(s.out, "Starting TUI... (Press 'q' to exit)")
	return explorer.Run(ctx, explorer.Options{
		Title:    cfg.Database.Database,
		Source:   source,
		Logger:   log,
		Defaults: DefaultRequest(cfg),
		Export: func(ctx context.Context, req export.Request) (*export.Result, error) {
			return service.Export(ctx, source, req)
		},
	})
}

func newLogger(cfg *config.Config, verboseFlag bool) *logger.Logger {
	return logger.NewLogger(verboseFlag,
		logger.WithLevel(cfg.Logging.Level),
		logger.WithFile(cfg.Logging.File),
	)
}

// userError shows message to the user while keeping the cause for errors.Is.
type userError struct {
	message string
	cause   error
}

func (e *userError) Error() string { return e.message }
func (e *userError) Unwrap() error { return e.cause }

func displayError(err error) error {
	var ue *userError
	if errors.As(err, &ue) {
		return err
	}
	return &userError{message: export.UserMessage(err), cause: err}
}

func shortChecksum(checksum string) string {
	if len(checksum) <= 16 {
		return checksum
	}
	return checksum[:16] + "..."
}

func formatServerLabel(cfg *config.Config) string {
	if cfg.Database.URI != "" {
		return "uri"
	}

	host := strings.TrimSpace(cfg.Database.Host)
	if host == "" {
		host = "localhost"
	}
	if cfg.Database.Port > 0 {
		return fmt.Sprintf("%s:%d", host, cfg.Database.Port)
	}
	return host
}

func displayValue(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
