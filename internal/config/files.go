package config

import (
	"os"
	"path/filepath"

	"github.com/gridbind/gridbind/internal/config/data"
)

const AppName = "gridbind"

var (
	// AppConfigDir is ~/.config/gridbind
	AppConfigDir string

	// AppDataDir is ~/.local/share/gridbind
	AppDataDir string

	// AppStateDir is ~/.local/state/gridbind
	AppStateDir string

	// AppConfigFile is ~/.config/gridbind/gridbind.yaml
	AppConfigFile string

	// AppHotkeysFile is ~/.config/gridbind/hotkeys.yaml
	AppHotkeysFile string

	// AppAliasesFile is ~/.config/gridbind/aliases.yaml
	AppAliasesFile string

	// AppSourcesDir is ~/.local/share/gridbind/sources
	AppSourcesDir string

	// AppLogFile is ~/.local/state/gridbind/gridbind.log
	AppLogFile string

	// AppExportsDir is ~/.local/state/gridbind/exports
	AppExportsDir string
)

// InitLocs initializes all application directory paths.
// It respects XDG environment variables if set.
func InitLocs() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}

	AppConfigDir = filepath.Join(configHome, AppName)
	AppDataDir = filepath.Join(dataHome, AppName)
	AppStateDir = filepath.Join(stateHome, AppName)

	AppConfigFile = filepath.Join(AppConfigDir, AppName+".yaml")
	AppHotkeysFile = filepath.Join(AppConfigDir, "hotkeys.yaml")
	AppAliasesFile = filepath.Join(AppConfigDir, "aliases.yaml")

	AppSourcesDir = filepath.Join(AppDataDir, "sources")
	AppLogFile = filepath.Join(AppStateDir, AppName+".log")
	AppExportsDir = filepath.Join(AppStateDir, "exports")

	// Set default sources directory in data package to avoid circular import
	data.SetDefaultSourcesDir(AppSourcesDir)

	dirs := []string{
		AppConfigDir,
		AppDataDir,
		AppStateDir,
		AppSourcesDir,
		AppExportsDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	return nil
}

// InitLogLoc ensures the log directory exists
func InitLogLoc() error {
	logDir := filepath.Dir(AppLogFile)
	return os.MkdirAll(logDir, 0700)
}
