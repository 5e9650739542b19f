// Logger construction and the pipeline observability sink
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"image-filter-tool/internal/filters"
)

// New creates a logger writing to out. Debug mode switches to text output,
// coloured when out is a terminal.
func New(debugMode bool, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		colours := isTerminal(out)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   colours,
			DisableColors: !colours,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// FileLogger is a logger bound to a log file. Close writes the end marker and
// closes the file.
type FileLogger struct {
	*logrus.Logger

	mu   sync.Mutex
	file *os.File
}

// OpenFile truncates path and returns a plain-text logger writing to it
func OpenFile(path string, debugMode bool) (*FileLogger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	if _, err := io.WriteString(file, "=== Logger started ===\n"); err != nil {
		file.Close()
		return nil, fmt.Errorf("write log file: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(file)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		DisableColors:    true,
		DisableQuote:     true,
		QuoteEmptyFields: true,
	})
	logger.SetLevel(logrus.InfoLevel)
	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
	}

	return &FileLogger{Logger: logger, file: file}, nil
}

func (f *FileLogger) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}
	io.WriteString(f.file, "=== Logger ended ===\n")
	err := f.file.Close()
	f.file = nil
	return err
}

// Sink adapts a logrus logger to the filters.Recorder interface
type Sink struct {
	logger logrus.FieldLogger
}

// NewSink creates a sink tagging every entry with component=pipeline
func NewSink(logger logrus.FieldLogger) *Sink {
	return &Sink{logger: logger.WithField("component", "pipeline")}
}

// Record logs msg; messages starting with "ERROR:" are logged at error level
func (s *Sink) Record(msg string) {
	if rest, ok := strings.CutPrefix(msg, "ERROR:"); ok {
		s.logger.Error(strings.TrimSpace(rest))
		return
	}
	s.logger.Info(msg)
}

// Tee forwards every record to all recorders
type Tee []filters.Recorder

func (t Tee) Record(msg string) {
	for _, r := range t {
		r.Record(msg)
	}
}
