// Package config reads ~/.pswitch/config.yaml, the small set of app
// settings that are not part of any profile.
package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Settings are the app-level knobs.
type Settings struct {
	// AutoSync controls the periodic reconciliation of the active profile
	// against disk.
	AutoSync struct {
		Enabled    bool  `yaml:"enabled"`
		IntervalMs int64 `yaml:"interval_ms"`
	} `yaml:"auto_sync"`

	// Notifications toggles desktop notifications for hook output.
	Notifications bool `yaml:"notifications"`
}

// Default returns the settings used when no config file exists: auto-sync
// on at one minute, notifications on.
func Default() Settings {
	var s Settings
	s.AutoSync.Enabled = true
	s.AutoSync.IntervalMs = 60_000
	s.Notifications = true
	return s
}

// Parse decodes settings YAML over the defaults.
func Parse(data []byte) (Settings, error) {
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing config: %w", err)
	}
	if s.AutoSync.IntervalMs <= 0 {
		s.AutoSync.IntervalMs = Default().AutoSync.IntervalMs
	}
	return s, nil
}

// Load reads settings from path. A missing file yields defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}
