package config

import (
	"github.com/gridbind/gridbind/internal/config/data"
)

// DefaultLogLevel is the default logging level.
const DefaultLogLevel = data.DefaultLogLevel

// NewFlags creates a new Flags instance with default values set.
func NewFlags() *data.Flags {
	logLevel := DefaultLogLevel
	logFile := AppLogFile
	headless := false
	readOnly := false
	write := false
	path := ""
	format := ""
	sortField := ""
	desc := false
	output := ""

	return &data.Flags{
		LogLevel: &logLevel,
		LogFile:  &logFile,
		Headless: &headless,
		ReadOnly: &readOnly,
		Write:    &write,
		Path:     &path,
		Format:   &format,
		Sort:     &sortField,
		Desc:     &desc,
		Output:   &output,
	}
}

// IsBoolSet returns true if a bool pointer is non-nil and true.
func IsBoolSet(b *bool) bool {
	return b != nil && *b
}

// IsStringSet returns true if a string pointer is non-nil and non-empty.
func IsStringSet(s *string) bool {
	return s != nil && *s != ""
}
