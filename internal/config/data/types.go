// Package data provides configuration data types for the gridbind application.
package data

// Flags represents CLI command-line flags.
type Flags struct {
	LogLevel *string // Log level (e.g., debug, info, warn, error)
	LogFile  *string // Path to log file
	Headless *bool   // Run without the menu and crumbs
	ReadOnly *bool   // Run in read-only mode
	Write    *bool   // Enable write operations
	Path     *string // gjson path selecting the row array
	Format   *string // Source format override (json, yaml, ini)
	Sort     *string // Initial sort field
	Desc     *bool   // Sort descending
	Output   *string // Export destination
}

// UI represents user interface configuration settings.
type UI struct {
	EnableMouse bool `yaml:"enableMouse"`
	Headless    bool `yaml:"headless"`
	Crumbsless  bool `yaml:"crumbsless"`
	Menuless    bool `yaml:"menuless"`
}

// Logger represents logging configuration settings.
type Logger struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// DefaultLogLevel is the logger level used when none is configured.
const DefaultLogLevel = "info"

// NewLogger returns logger settings at the default level.
func NewLogger() Logger {
	return Logger{Level: DefaultLogLevel}
}

// Validate fills in missing logger settings.
func (l *Logger) Validate() {
	if l.Level == "" {
		l.Level = DefaultLogLevel
	}
}

// NewFlags creates a new Flags instance with all pointer fields initialized.
// All pointers are allocated but their values are not set.
func NewFlags() *Flags {
	return &Flags{
		LogLevel: new(string),
		LogFile:  new(string),
		Headless: new(bool),
		ReadOnly: new(bool),
		Write:    new(bool),
		Path:     new(string),
		Format:   new(string),
		Sort:     new(string),
		Desc:     new(bool),
		Output:   new(string),
	}
}
