package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Storage backends accepted by storage_backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config captures everything atlas reads from its config file.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	Debounce       time.Duration
	StorageBackend string
	DataDir        string
	LogLevel       string
}

const (
	defaultConfigPath     = "~/.config/atlas/config.toml"
	defaultDataDir        = "~/.local/share/atlas"
	defaultAPIBaseURL     = "https://restcountries.com/v3.1"
	defaultRequestTimeout = 10 * time.Second
	defaultDebounce       = 500 * time.Millisecond
	defaultLogLevel       = "info"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBaseURL:     defaultAPIBaseURL,
		RequestTimeout: defaultRequestTimeout,
		Debounce:       defaultDebounce,
		StorageBackend: BackendFile,
		DataDir:        mustExpand(defaultDataDir),
		LogLevel:       defaultLogLevel,
	}
}

// Load locates and parses the atlas config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBaseURL     string `toml:"api_base_url"`
		RequestTimeout string `toml:"request_timeout"`
		Debounce       string `toml:"debounce"`
		StorageBackend string `toml:"storage_backend"`
		DataDir        string `toml:"data_dir"`
		LogLevel       string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimRight(strings.TrimSpace(raw.APIBaseURL), "/"); v != "" {
		cfg.APIBaseURL = v
	}
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout, defaultRequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Debounce, err = parseDuration("debounce", raw.Debounce, defaultDebounce); err != nil {
		return Config{}, err
	}

	switch backend := strings.ToLower(strings.TrimSpace(raw.StorageBackend)); backend {
	case "":
	case BackendFile, BackendSQLite:
		cfg.StorageBackend = backend
	default:
		return Config{}, fmt.Errorf("parse config: unknown storage_backend %q", raw.StorageBackend)
	}

	if dir := strings.TrimSpace(raw.DataDir); dir != "" {
		cfg.DataDir = mustExpand(dir)
	}
	if level := strings.ToLower(strings.TrimSpace(raw.LogLevel)); level != "" {
		cfg.LogLevel = level
	}

	return cfg, nil
}

// LogPath returns the path of the structured log written in TUI mode.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir + "/atlas.log")
	}
	return filepath.Join(c.DataDir, "atlas.log")
}

// FavoritesDir is where the file storage backend keeps its keys.
func (c Config) FavoritesDir() string {
	return filepath.Join(c.dataDir(), "storage")
}

// DatabasePath is the SQLite file used by the sqlite storage backend.
func (c Config) DatabasePath() string {
	return filepath.Join(c.dataDir(), "atlas.db")
}

func (c Config) dataDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir)
	}
	return c.DataDir
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", field, err)
	}
	if d <= 0 {
		return fallback, nil
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath trims path, expands a leading ~ and makes it absolute.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
