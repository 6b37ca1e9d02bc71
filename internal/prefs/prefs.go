// Package prefs remembers the UI choices atlas restores on the next launch.
// Preferences live in ~/.config/atlas/prefs.toml unless a path is given.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/atlas/internal/config"
	"github.com/five82/atlas/internal/restcountries"
)

// DefaultTheme is used when no theme has been saved.
const DefaultTheme = "Dracula"

const defaultPrefsPath = "~/.config/atlas/prefs.toml"

// Prefs holds what the TUI persists between runs.
type Prefs struct {
	Theme string `toml:"theme"`
	// Region is the last region filter selected on the home view. Empty means all.
	Region restcountries.Region `toml:"region,omitempty"`
}

// Defaults returns the preferences of a first run.
func Defaults() Prefs {
	return Prefs{Theme: DefaultTheme}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path. It always returns usable preferences: a
// missing file yields Defaults with a nil error, while an unreadable or
// malformed file yields Defaults plus the error describing what was skipped.
// An unknown region is dropped and reported the same way.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults(), err
	}

	data, err := os.ReadFile(resolved)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("read prefs: %w", err)
	}

	var raw struct {
		Theme  string `toml:"theme"`
		Region string `toml:"region"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Defaults(), fmt.Errorf("parse prefs: %w", err)
	}

	p := Defaults()
	if theme := strings.TrimSpace(raw.Theme); theme != "" {
		p.Theme = theme
	}
	region, err := restcountries.ParseRegion(raw.Region)
	if err != nil {
		return p, fmt.Errorf("parse prefs: %w", err)
	}
	p.Region = region
	return p, nil
}

// Update applies fn to the stored preferences and saves the result.
// Unreadable preferences are replaced rather than blocking the save.
func Update(path string, fn func(*Prefs)) error {
	p, _ := Load(path)
	fn(&p)
	return Save(path, p)
}

// Save writes p atomically, creating parent directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve prefs path: %w", err)
	}
	return resolved, nil
}
