package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kadirbelkuyu/tabledef/internal/catalog"
	"github.com/kadirbelkuyu/tabledef/internal/report"
	"github.com/kadirbelkuyu/tabledef/pkg/logger"
	"github.com/kadirbelkuyu/tabledef/pkg/progress"
)

type Service struct {
	logger     *logger.Logger
	progress   io.Writer
	systemName string
	now        func() time.Time
}

type Option func(*Service)

// WithProgress draws the spinner on w while a report is generated.
func WithProgress(w io.Writer) Option {
	return func(s *Service) {
		s.progress = w
	}
}

func WithSystemName(name string) Option {
	return func(s *Service) {
		s.systemName = name
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Discard()
	}
	s := &Service{
		logger:   log,
		progress: io.Discard,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Export validates req, generates the workbook off the calling goroutine and
// returns where it was written. Nothing is touched when req is invalid.
func (s *Service) Export(ctx context.Context, source catalog.Source, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	style, err := report.ParseStyle(req.Style)
	if err != nil {
		return nil, err
	}

	path, err := filepath.Abs(req.OutputPath())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &Result{
		Path:      path,
		Style:     style,
		StartedAt: s.now(),
	}
	s.logger.Infof("Exporting table definitions (%s) to %s", style, path)

	generator := report.NewGenerator(path, source, style,
		report.WithLogger(s.logger),
		report.WithClock(s.now),
		report.WithSystemName(s.systemName),
	)

	var stats *report.Stats
	err = progress.Run(s.progress, "Exporting table definitions", func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrGenerationFailed, r)
			}
		}()
		stats, err = generator.Generate(ctx)
		return err
	})
	if err != nil {
		s.logger.WithError(err).WithField("path", path).Error("Table definition export failed")
		return nil, err
	}

	result.Tables = stats.Tables
	result.Columns = stats.Columns
	result.Indexes = stats.Indexes
	result.Unavailable = stats.Unavailable
	result.CompletedAt = s.now()

	if err := describeFile(result); err != nil {
		return nil, err
	}

	if result.Unavailable > 0 {
		s.logger.Warnf("%d catalog reads failed; the report has gaps", result.Unavailable)
	}
	s.logger.Infof("Exported %d tables to %s", result.Tables, result.Path)
	return result, nil
}
