// Package dirs resolves the per-OS directories the tool keeps its config,
// scratch space and logs in.
package dirs

import (
	"os"
	"path/filepath"
	"runtime"

	"liftcup/internal/util"
)

const appName = "liftcup"

// AppName returns the canonical application name for directory paths.
func AppName() string {
	return appName
}

// location describes one directory kind per OS.
type location struct {
	xdgEnv   string   // Linux override variable
	linux    []string // path under $HOME on Linux
	darwin   []string // path under $HOME on macOS
	fallback func() (string, error)
	suffix   []string // appended after AppName on non-Linux fallbacks
}

func (l location) resolve() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(append(append([]string{home}, l.darwin...), AppName())...), nil
	case "linux":
		if xdg := os.Getenv(l.xdgEnv); xdg != "" {
			return filepath.Join(xdg, AppName()), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(append(append([]string{home}, l.linux...), AppName())...), nil
	default:
		base, err := l.fallback()
		if err != nil {
			return "", err
		}
		return filepath.Join(append([]string{base, AppName()}, l.suffix...)...), nil
	}
}

var (
	configLoc = location{
		xdgEnv:   "XDG_CONFIG_HOME",
		linux:    []string{".config"},
		darwin:   []string{"Library", "Application Support"},
		fallback: os.UserConfigDir,
	}
	cacheLoc = location{
		xdgEnv:   "XDG_CACHE_HOME",
		linux:    []string{".cache"},
		darwin:   []string{"Library", "Caches"},
		fallback: os.UserCacheDir,
	}
	stateLoc = location{
		xdgEnv:   "XDG_STATE_HOME",
		linux:    []string{".local", "state"},
		darwin:   []string{"Library", "Logs"},
		fallback: os.UserCacheDir,
		suffix:   []string{"state"},
	}
)

// ConfigDir returns the app's configuration directory.
// - Linux: $XDG_CONFIG_HOME/liftcup or ~/.config/liftcup
// - macOS: ~/Library/Application Support/liftcup
// - Windows: %AppData%/liftcup
func ConfigDir() (string, error) {
	return configLoc.resolve()
}

// CacheDir returns the app's cache directory.
// - Linux: $XDG_CACHE_HOME/liftcup or ~/.cache/liftcup
// - macOS: ~/Library/Caches/liftcup
// - Windows: %LocalAppData%/liftcup
func CacheDir() (string, error) {
	return cacheLoc.resolve()
}

// StateDir returns the app's state directory.
// - Linux: $XDG_STATE_HOME/liftcup or ~/.local/state/liftcup
// - macOS: ~/Library/Logs/liftcup
// - Windows: %LocalAppData%/liftcup/state
func StateDir() (string, error) {
	return stateLoc.resolve()
}

// TempBaseDir is the default directory releases are built in.
func TempBaseDir() (string, error) {
	c, err := CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(c, "temp"), nil
}

// LogDir is the default directory for per-release log files.
func LogDir() (string, error) {
	s, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(s, "logs"), nil
}

// EnsureAll ensures the config, cache and state dirs exist.
func EnsureAll() error {
	for _, fn := range []func() (string, error){ConfigDir, CacheDir, StateDir} {
		p, err := fn()
		if err != nil {
			continue
		}
		if err := util.EnsureDir(p); err != nil {
			return err
		}
	}
	return nil
}
