package data

import "sync"

// Config represents a source-specific configuration loaded from disk.
// This is the data structure for ~/.local/share/gridbind/sources/{source}/config.yaml
type Config struct {
	Context *SourceContext `yaml:"gridbind"`
	mx      sync.RWMutex   `yaml:"-"`
}

// NewConfig creates a new Config with the given source context.
func NewConfig(ctx *SourceContext) *Config {
	return &Config{
		Context: ctx,
	}
}

// GetContext returns the source context, thread-safe.
func (c *Config) GetContext() *SourceContext {
	c.mx.RLock()
	defer c.mx.RUnlock()

	return c.Context
}

// SetContext sets the source context, thread-safe.
func (c *Config) SetContext(ctx *SourceContext) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.Context = ctx
}

// Validate ensures the Config has valid settings.
func (c *Config) Validate() {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.Context != nil {
		c.Context.Validate()
	}
}
