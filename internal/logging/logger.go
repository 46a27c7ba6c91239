// Package logging builds the zerolog logger shared by the grid core and the
// terminal front end.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gridbind/gridbind/internal/config/data"
	"github.com/rs/zerolog"
)

const permission = 0600

// Builder assembles a logger from a writer or a file sink.
type Builder struct {
	writer io.Writer
	path   string
	level  string
}

// Log holds a built logger and the file backing it, if any.
type Log struct {
	Logger zerolog.Logger
	file   *os.File
}

// New returns a builder writing to stderr at the default level.
func New() *Builder {
	return &Builder{level: data.DefaultLogLevel}
}

// FromPath sends records to a file, appending to it.
func (b *Builder) FromPath(path string) *Builder {
	b.path = path
	return b
}

// FromWriter sends records to w. A path wins over a writer.
func (b *Builder) FromWriter(w io.Writer) *Builder {
	b.writer = w
	return b
}

// WithLevel sets the minimum level, e.g. "debug" or "warn".
func (b *Builder) WithLevel(level string) *Builder {
	b.level = level
	return b
}

// Make opens the sink and returns the logger.
func (b *Builder) Make() (*Log, error) {
	lvl, err := ParseLevel(b.level)
	if err != nil {
		return nil, err
	}

	var l Log
	w := b.writer
	if w == nil {
		w = os.Stderr
	}
	if b.path != "" {
		if err := data.EnsureFullPath(b.path, 0700); err != nil {
			return nil, err
		}
		l.file, err = os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = zerolog.SyncWriter(l.file)
	}
	l.Logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()

	return &l, nil
}

// Close releases the log file.
func (l *Log) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel maps a level name to a zerolog level. An empty name is info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}

	return lvl, nil
}
