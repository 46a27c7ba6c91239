package data

import (
	"path/filepath"
	"sync"
)

// SourceContext holds the per-source settings that override global
// configuration. It is persisted under the sources directory, one
// directory per source file.
type SourceContext struct {
	File         string       `yaml:"file"`
	Path         string       `yaml:"path,omitempty"`
	Format       string       `yaml:"format,omitempty"`
	SortField    string       `yaml:"sortField,omitempty"`
	SortDesc     bool         `yaml:"sortDesc,omitempty"`
	ReadOnly     *bool        `yaml:"readOnly,omitempty"`
	View         *View        `yaml:"view,omitempty"`
	FeatureGates FeatureGates `yaml:"featureGates,omitempty"`
	mx           sync.RWMutex `yaml:"-"`
}

// NewSourceContext creates a new SourceContext with default settings.
func NewSourceContext(file string) *SourceContext {
	return &SourceContext{
		File:         file,
		FeatureGates: NewFeatureGates(),
	}
}

// Validate ensures the SourceContext has valid settings.
func (c *SourceContext) Validate() {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.File != "" {
		if abs, err := filepath.Abs(c.File); err == nil {
			c.File = abs
		}
	}
	if c.View != nil {
		c.View.Validate()
	}
}

// GetView returns the current view, creating a default if nil.
func (c *SourceContext) GetView() *View {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.View == nil {
		c.View = NewView()
	}
	return c.View
}

// SetView sets the current view.
func (c *SourceContext) SetView(v *View) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.View = v
}

// IsReadOnly returns whether this source is in read-only mode.
// Returns false if ReadOnly is nil.
func (c *SourceContext) IsReadOnly() bool {
	c.mx.RLock()
	defer c.mx.RUnlock()

	if c.ReadOnly == nil {
		return false
	}
	return *c.ReadOnly
}

// SetReadOnly sets the read-only mode for this source.
func (c *SourceContext) SetReadOnly(ro bool) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.ReadOnly = &ro
}

// Sort returns the persisted sort field and direction.
func (c *SourceContext) Sort() (string, bool) {
	c.mx.RLock()
	defer c.mx.RUnlock()

	return c.SortField, c.SortDesc
}

// SetSort records the sort field and direction.
func (c *SourceContext) SetSort(field string, desc bool) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.SortField, c.SortDesc = field, desc
}

// ContextName returns the sanitized directory name for this source.
func (c *SourceContext) ContextName() string {
	c.mx.RLock()
	defer c.mx.RUnlock()

	return SanitizeSourceSubpath(c.File)
}
