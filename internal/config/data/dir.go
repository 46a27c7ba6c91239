package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// defaultSourcesDir is set by the config package during initialization.
// This avoids a circular import between data and config packages.
var defaultSourcesDir string

// SetDefaultSourcesDir sets the default sources directory.
// This should be called by the config package during initialization.
func SetDefaultSourcesDir(dir string) {
	defaultSourcesDir = dir
}

// Dir manages the per-source configuration directory structure.
type Dir struct {
	root string
	mx   sync.RWMutex
}

// NewDir creates a new Dir using the default sources directory.
// Note: SetDefaultSourcesDir must be called before using NewDir.
func NewDir() *Dir {
	return &Dir{
		root: defaultSourcesDir,
	}
}

// NewDirAt creates a new Dir at the specified root path.
func NewDirAt(root string) *Dir {
	return &Dir{
		root: root,
	}
}

// Root returns the sources directory.
func (d *Dir) Root() string {
	d.mx.RLock()
	defer d.mx.RUnlock()

	return d.root
}

// SourcePath returns the path to a source's configuration directory.
// Returns: {root}/{sanitized absolute file}/
func (d *Dir) SourcePath(file string) string {
	return filepath.Join(d.Root(), SanitizeSourceSubpath(absPath(file)))
}

// ConfigPath returns the path to a source's config.yaml file.
func (d *Dir) ConfigPath(file string) string {
	return filepath.Join(d.SourcePath(file), "config.yaml")
}

// EnsureSourceDir creates the source directory if it doesn't exist.
func (d *Dir) EnsureSourceDir(file string) error {
	_, err := EnsureDirPath(d.SourcePath(file), 0700)
	return err
}

// Load loads the configuration for a source file.
// Creates a new default config if the file doesn't exist.
func (d *Dir) Load(file string) (*Config, error) {
	if file == "" {
		return nil, errors.New("source file cannot be empty")
	}
	configPath := d.ConfigPath(file)

	ctx := NewSourceContext(absPath(file))
	cfg := NewConfig(ctx)

	if err := LoadYAML(configPath, ctx); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			ctx.Validate()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to load source config: %w", err)
	}
	// A moved config directory still belongs to the requested file.
	ctx.File = absPath(file)
	ctx.Validate()

	return cfg, nil
}

// Save saves the configuration for a source.
func (d *Dir) Save(cfg *Config) error {
	if cfg == nil || cfg.GetContext() == nil {
		return fmt.Errorf("cannot save nil config or context")
	}
	ctx := cfg.GetContext()

	if err := d.EnsureSourceDir(ctx.File); err != nil {
		return fmt.Errorf("failed to ensure source directory: %w", err)
	}

	ctx.mx.RLock()
	defer ctx.mx.RUnlock()
	if err := SaveYAML(d.ConfigPath(ctx.File), ctx); err != nil {
		return fmt.Errorf("failed to save source config: %w", err)
	}

	return nil
}

// ListSources returns all sources that have saved configs, sorted by file.
func (d *Dir) ListSources() ([]*SourceContext, error) {
	root := d.Root()

	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sources directory: %w", err)
	}

	var sources []*SourceContext
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		configPath := filepath.Join(root, entry.Name(), "config.yaml")
		ctx := NewSourceContext("")
		if err := LoadYAML(configPath, ctx); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		if ctx.File == "" {
			continue
		}
		ctx.Validate()
		sources = append(sources, ctx)
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].File < sources[j].File
	})

	return sources, nil
}

func absPath(file string) string {
	if abs, err := filepath.Abs(file); err == nil {
		return abs
	}
	return file
}
