package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	*logrus.Logger
	file *os.File
	hook *fileHook
}

type Option func(*options)

type options struct {
	output io.Writer
	level  string
	file   string
	colors bool
}

// WithOutput replaces the console writer (stderr by default).
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
		o.colors = false
	}
}

// WithLevel sets the level by name; verbose still forces debug.
func WithLevel(level string) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithFile additionally appends every entry to the given diagnostic file.
func WithFile(path string) Option {
	return func(o *options) {
		o.file = strings.TrimSpace(path)
	}
}

func NewLogger(verbose bool, opts ...Option) *Logger {
	o := options{output: os.Stderr, level: "info", colors: true}
	for _, opt := range opts {
		opt(&o)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   o.colors,
	})

	level, err := logrus.ParseLevel(o.level)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	l := &Logger{Logger: log}
	log.SetOutput(o.output)
	if o.file != "" {
		f, err := os.OpenFile(o.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot open log file %s: %v\n", o.file, err)
		} else {
			l.file = f
			l.hook = &fileHook{
				out: f,
				formatter: &logrus.TextFormatter{
					FullTimestamp: true,
					DisableColors: true,
				},
			}
			log.AddHook(l.hook)
		}
	}

	return l
}

// fileHook writes every entry to the diagnostic file with its own formatter,
// so console colors never reach the file.
type fileHook struct {
	mu        sync.Mutex
	out       io.Writer
	formatter logrus.Formatter
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.out == nil {
		return nil
	}
	_, err = h.out.Write(line)
	return err
}

// Discard returns a logger that drops every entry.
func Discard() *Logger {
	return NewLogger(false, WithOutput(io.Discard))
}

// Wrap adapts an existing logrus logger, e.g. one built by hooks/test.
func Wrap(log *logrus.Logger) *Logger {
	return &Logger{Logger: log}
}

func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.hook.mu.Lock()
	l.hook.out = nil
	l.hook.mu.Unlock()

	err := l.file.Close()
	l.file = nil
	return err
}
