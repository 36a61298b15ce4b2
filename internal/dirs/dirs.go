package dirs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "webmclip"

// AppName returns the canonical application name for directory paths.
func AppName() string {
	return appName
}

// ConfigDir returns the app's configuration directory.
// - Linux: $XDG_CONFIG_HOME/webmclip or ~/.config/webmclip
// - macOS: ~/Library/Application Support/webmclip
// - Windows: %AppData%/webmclip (fallback to os.UserConfigDir)
func ConfigDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", AppName()), nil
	case "linux":
		xdg := os.Getenv("XDG_CONFIG_HOME")
		if xdg != "" {
			return filepath.Join(xdg, AppName()), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppName()), nil
	default:
		cfg, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(cfg, AppName()), nil
	}
}

// DataDir returns the app's data directory.
// - Linux: $XDG_DATA_HOME/webmclip or ~/.local/share/webmclip
// - macOS: ~/Library/Application Support/webmclip
// - Windows: %AppData%/webmclip (fallback to os.UserConfigDir)
func DataDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", AppName()), nil
	case "linux":
		xdg := os.Getenv("XDG_DATA_HOME")
		if xdg != "" {
			return filepath.Join(xdg, AppName()), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", AppName()), nil
	default:
		cfg, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(cfg, AppName()), nil
	}
}

// PresetDir returns the directory holding saved option presets.
func PresetDir() (string, error) {
	c, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(c, "presets"), nil
}

// DefaultOutputDir returns the directory suggested output names go into.
func DefaultOutputDir() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "output"), nil
}

// Ensure creates the directory if it doesn't exist.
func Ensure(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}

// EnsureAll ensures the config and preset dirs exist.
func EnsureAll() error {
	for _, fn := range []func() (string, error){ConfigDir, PresetDir} {
		p, err := fn()
		if err != nil {
			continue
		}
		if err := Ensure(p); err != nil {
			return err
		}
	}
	return nil
}
