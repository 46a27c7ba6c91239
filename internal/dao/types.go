package dao

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gridbind/gridbind/internal/list"
)

var (
	// ErrUnknownFormat is returned for a source encoding with no accessor.
	ErrUnknownFormat = errors.New("unknown source format")

	// ErrNoRows is returned when the selected value is not an array of objects.
	ErrNoRows = errors.New("no row array at path")

	// ErrPathUnsupported is returned when a format can't select rows by path.
	ErrPathUnsupported = errors.New("row path not supported")
)

// Format names a source encoding.
type Format string

// Supported source formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatINI  Format = "ini"
)

// FormatOf guesses a source format from a file extension.
func FormatOf(file string) (Format, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".ini", ".conf", ".cfg":
		return FormatINI, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(file))
	}
}

// ParseFormat converts a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatINI:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Source identifies a data file and the row array inside it.
type Source struct {
	File   string // file on disk
	Path   string // gjson path to the rows, empty for the document root
	Format Format // empty to guess from the file extension
}

// NewSource returns a source with its format resolved.
func NewSource(file, path, format string) (Source, error) {
	src := Source{File: file, Path: path}
	var err error
	if format != "" {
		src.Format, err = ParseFormat(format)
	} else {
		src.Format, err = FormatOf(file)
	}

	return src, err
}

// String returns a string representation in the form "file[path]".
func (s Source) String() string {
	if s.Path == "" {
		return s.File
	}
	return fmt.Sprintf("%s[%s]", s.File, s.Path)
}

// Name returns the list name of the source rows.
func (s Source) Name() string {
	if s.Path != "" {
		pp := strings.Split(s.Path, ".")
		return pp[len(pp)-1]
	}
	base := filepath.Base(s.File)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Factory provides file access to the accessors.
type Factory interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
	ModTime(name string) (time.Time, error)
}

// Loader reads the rows of a source.
type Loader interface {
	Load(ctx context.Context, src Source) (*list.Documents, error)
}

// Saver writes rows back to a source.
type Saver interface {
	Save(ctx context.Context, src Source, docs *list.Documents) error
}

// Accessor combines loading and saving with initialization.
type Accessor interface {
	Loader
	Saver
	Init(Factory, Format)
	Format() Format
}
