package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/gridbind/gridbind/internal/config/data"
)

// Config is the root configuration for the application.
type Config struct {
	GridBind *GridBind `yaml:"gridbind"`
	path     string
	mx       sync.RWMutex
}

// NewConfig creates a new Config with default settings.
func NewConfig() *Config {
	return &Config{
		GridBind: NewGridBind(),
	}
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	c.mx.RLock()
	defer c.mx.RUnlock()

	if c.path == "" {
		return AppConfigFile
	}
	return c.path
}

// Load loads the configuration from the given path.
// If the file doesn't exist, the current config is kept.
func (c *Config) Load(path string, force bool) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.path = path
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !force {
			return nil
		}
		return fmt.Errorf("config file does not exist: %s", path)
	}

	if err := data.LoadYAML(path, c); err != nil {
		return fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	if c.GridBind == nil {
		c.GridBind = NewGridBind()
	}
	c.GridBind.Validate()

	return nil
}

// Save saves the configuration to the file it was loaded from.
// If force is false, only saves if the file already exists.
func (c *Config) Save(force bool) error {
	path := c.Path()
	if path == "" {
		return fmt.Errorf("no config file path configured")
	}

	c.mx.RLock()
	defer c.mx.RUnlock()

	_, err := os.Stat(path)
	if !force && err != nil {
		return nil
	}

	if err := data.SaveYAML(path, c); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", path, err)
	}

	return nil
}

// Refine activates the source file and applies CLI flags on top of the
// stored settings. Precedence is CLI flag > source config > global config.
func (c *Config) Refine(flags *data.Flags, file string) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.GridBind == nil {
		return fmt.Errorf("config.GridBind is nil")
	}

	if file != "" {
		if _, err := c.GridBind.ActivateSource(file); err != nil {
			return err
		}
	}
	c.GridBind.Override(flags)

	return nil
}
