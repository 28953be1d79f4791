package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// configFileName is the config file looked up in the working directory
// and in the XDG config directory.
const configFileName = "sheetpack.toml"

// Config holds file-based defaults for the pack commands. Flags always
// win over config values; config values win over built-in defaults.
type Config struct {
	Paper        string  `toml:"paper"`
	Unit         string  `toml:"unit"`
	Margin       float64 `toml:"margin"`
	ScaleFloor   float64 `toml:"scale-floor"`
	Center       bool    `toml:"center"`
	AllowUpscale bool    `toml:"allow-upscale"`
	Background   string  `toml:"background"`
	JPEGQuality  int     `toml:"jpeg-quality"`
	Format       string  `toml:"format"`
	Out          string  `toml:"out"`
}

// loadConfig reads the config file at path, or searches the default
// locations when path is empty. A missing file is not an error; a
// malformed one is.
func loadConfig(path string) (Config, error) {
	var cfg Config

	if path == "" {
		path = findConfig()
		if path == "" {
			return cfg, nil
		}
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config file %s not found", path)
		}
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q in %s", undecoded[0], path)
	}
	return cfg, nil
}

// findConfig returns the first config file found in the search path:
// ./sheetpack.toml, then $XDG_CONFIG_HOME/sheetpack/sheetpack.toml,
// then ~/.config/sheetpack/sheetpack.toml.
func findConfig() string {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}

	path := filepath.Join(configHome, appName, configFileName)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
