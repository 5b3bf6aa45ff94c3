package paths

import (
	"os"
	"path/filepath"
)

func home() string {
	h, _ := os.UserHomeDir()
	return h
}

// DataDir returns ~/.pswitch.
func DataDir() string {
	return filepath.Join(home(), ".pswitch")
}

// ProfilesDir returns ~/.pswitch/profiles.
func ProfilesDir() string {
	return filepath.Join(DataDir(), "profiles")
}

// BackupsDir returns ~/.pswitch/backups.
func BackupsDir() string {
	return filepath.Join(DataDir(), "backups")
}

// HooksDir returns ~/.pswitch/hooks.
func HooksDir() string {
	return filepath.Join(DataDir(), "hooks")
}

// ConfigFile returns ~/.pswitch/config.yaml.
func ConfigFile() string {
	return filepath.Join(DataDir(), "config.yaml")
}

// DisplayFile returns ~/.pswitch/display-data.json.
func DisplayFile() string {
	return filepath.Join(DataDir(), "display-data.json")
}

// ExpandHome resolves a leading "~" or "~/" against the user's home
// directory. Anything else passes through unchanged.
func ExpandHome(path string) string {
	if path == "~" {
		return home()
	}
	if len(path) >= 2 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home(), path[2:])
	}
	return path
}
