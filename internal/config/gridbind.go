package config

import (
	"fmt"
	"sync"

	"github.com/gridbind/gridbind/internal/config/data"
	"github.com/gridbind/gridbind/internal/grid"
	"github.com/gridbind/gridbind/internal/render"
)

// GridBind represents the gridbind global configuration.
type GridBind struct {
	ReadOnly bool          `yaml:"readOnly"`
	Grid     grid.Settings `yaml:"grid"`
	UI       data.UI       `yaml:"ui"`
	Logger   data.Logger   `yaml:"logger"`

	// Internal state (not serialized)
	activeConfig *data.Config
	dir          *data.Dir
	mx           sync.RWMutex
}

// NewGridBind creates a GridBind with default settings.
func NewGridBind() *GridBind {
	return &GridBind{
		Grid:   grid.DefaultSettings(),
		Logger: data.NewLogger(),
		dir:    data.NewDir(),
	}
}

// Validate ensures GridBind has valid settings.
func (g *GridBind) Validate() {
	g.mx.Lock()
	defer g.mx.Unlock()

	def := grid.DefaultSettings()
	if g.Grid.PreferredColumnWidth <= 0 {
		g.Grid.PreferredColumnWidth = def.PreferredColumnWidth
	}
	if g.Grid.PreferredRowHeight <= 0 {
		g.Grid.PreferredRowHeight = def.PreferredRowHeight
	}
	if g.Grid.NullText == "" {
		g.Grid.NullText = render.DefaultNullText
	}
	if g.Grid.DateFormat == "" {
		g.Grid.DateFormat = render.ShortDateLayout
	}
	g.Logger.Validate()
}

// SetDir points source configs at the given directory.
func (g *GridBind) SetDir(d *data.Dir) {
	g.mx.Lock()
	defer g.mx.Unlock()

	g.dir = d
}

// ActiveConfig returns the current source configuration.
func (g *GridBind) ActiveConfig() *data.Config {
	g.mx.RLock()
	defer g.mx.RUnlock()

	return g.activeConfig
}

// ActiveSource returns the current source context or nil.
func (g *GridBind) ActiveSource() *data.SourceContext {
	if cfg := g.ActiveConfig(); cfg != nil {
		return cfg.GetContext()
	}
	return nil
}

// ActivateSource loads the stored settings of a source file.
func (g *GridBind) ActivateSource(file string) (*data.SourceContext, error) {
	if file == "" {
		return nil, fmt.Errorf("source file cannot be empty")
	}

	g.mx.Lock()
	defer g.mx.Unlock()

	if g.dir == nil {
		g.dir = data.NewDir()
	}
	cfg, err := g.dir.Load(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load config for source %q: %w", file, err)
	}
	g.activeConfig = cfg

	return cfg.GetContext(), nil
}

// SaveSource persists the active source settings.
func (g *GridBind) SaveSource() error {
	g.mx.RLock()
	cfg, dir := g.activeConfig, g.dir
	g.mx.RUnlock()

	if cfg == nil {
		return fmt.Errorf("no active source")
	}
	return dir.Save(cfg)
}

// Sources lists the sources with saved settings.
func (g *GridBind) Sources() ([]*data.SourceContext, error) {
	g.mx.RLock()
	dir := g.dir
	g.mx.RUnlock()

	if dir == nil || dir.Root() == "" {
		return nil, nil
	}
	return dir.ListSources()
}

// IsReadOnly reports the effective read-only mode. A source setting wins
// over the global one.
func (g *GridBind) IsReadOnly() bool {
	g.mx.RLock()
	defer g.mx.RUnlock()

	if g.activeConfig != nil {
		if ctx := g.activeConfig.GetContext(); ctx != nil && ctx.ReadOnly != nil {
			return *ctx.ReadOnly
		}
	}
	return g.ReadOnly
}

// GridSettings returns the grid settings with the effective read-only mode.
func (g *GridBind) GridSettings() grid.Settings {
	ro := g.IsReadOnly()

	g.mx.RLock()
	defer g.mx.RUnlock()
	s := g.Grid
	s.ReadOnly = s.ReadOnly || ro

	return s
}

// Override applies CLI flag overrides to the configuration.
func (g *GridBind) Override(flags *data.Flags) {
	if flags == nil {
		return
	}

	g.mx.Lock()
	defer g.mx.Unlock()

	if IsBoolSet(flags.ReadOnly) {
		g.ReadOnly = true
	}
	// Write flag overrides ReadOnly
	if IsBoolSet(flags.Write) {
		g.ReadOnly = false
	}
	if IsBoolSet(flags.Headless) {
		g.UI.Headless = true
	}
	if IsStringSet(flags.LogLevel) {
		g.Logger.Level = *flags.LogLevel
	}
	if IsStringSet(flags.LogFile) {
		g.Logger.File = *flags.LogFile
	}

	if g.activeConfig == nil {
		return
	}
	ctx := g.activeConfig.GetContext()
	if IsStringSet(flags.Path) {
		ctx.Path = *flags.Path
	}
	if IsStringSet(flags.Format) {
		ctx.Format = *flags.Format
	}
	if IsStringSet(flags.Sort) {
		ctx.SetSort(*flags.Sort, IsBoolSet(flags.Desc))
	}
	// Explicit flags beat the stored source mode.
	if IsBoolSet(flags.ReadOnly) {
		ctx.SetReadOnly(true)
	}
	if IsBoolSet(flags.Write) {
		ctx.SetReadOnly(false)
	}
}
