package export

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/kadirbelkuyu/tabledef/internal/config"
	"github.com/kadirbelkuyu/tabledef/internal/report"
)

const fileExtension = ".xlsx"

// FailureMessage is shown to users for every failure that is not an input
// problem; the detail goes to the log.
const FailureMessage = "Failed to export table definitions. See the log for details."

var (
	ErrMissingDirectory = errors.New("output directory is required")
	ErrMissingFileName  = errors.New("output file name is required")
	ErrGenerationFailed = errors.New("table definition export failed")
)

// Request is what the export dialog collects.
type Request struct {
	Directory string
	FileName  string
	Style     string
}

// NewRequest seeds a request from the configured export defaults.
func NewRequest(cfg config.ExportConfig) Request {
	return Request{
		Directory: cfg.Directory,
		FileName:  cfg.FileName,
		Style:     cfg.Style,
	}
}

// Merge returns r with every non-blank field of o laid over it.
func (r Request) Merge(o Request) Request {
	if strings.TrimSpace(o.Directory) != "" {
		r.Directory = o.Directory
	}
	if strings.TrimSpace(o.FileName) != "" {
		r.FileName = o.FileName
	}
	if strings.TrimSpace(o.Style) != "" {
		r.Style = o.Style
	}
	return r
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Directory) == "" {
		return ErrMissingDirectory
	}
	if strings.TrimSpace(r.FileName) == "" {
		return ErrMissingFileName
	}
	_, err := report.ParseStyle(r.Style)
	return err
}

// OutputPath returns <directory>/<file name>.xlsx.
func (r Request) OutputPath() string {
	name := strings.TrimSpace(r.FileName)
	if !strings.EqualFold(filepath.Ext(name), fileExtension) {
		name += fileExtension
	}
	return filepath.Join(strings.TrimSpace(r.Directory), name)
}

type Result struct {
	Path        string
	Style       report.Style
	Tables      int
	Columns     int
	Indexes     int
	Unavailable int
	Size        int64
	Checksum    string
	StartedAt   time.Time
	CompletedAt time.Time
}

// UserMessage turns an export error into the text shown to the user. Input
// problems are shown by their own text, without any context the caller
// wrapped around them; anything else gets FailureMessage.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, input := range []error{ErrMissingDirectory, ErrMissingFileName, report.ErrUnknownStyle} {
		if errors.Is(err, input) {
			return input.Error()
		}
	}
	return FailureMessage
}
