package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/five82/atlas/internal/config"
	"github.com/five82/atlas/internal/favorites"
	"github.com/five82/atlas/internal/localstore"
	"github.com/five82/atlas/internal/logging"
	"github.com/five82/atlas/internal/restcountries"
)

// Options configure the atlas application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/atlas/prefs.toml
	Verbose    bool
}

// Services are the long-lived components shared by the TUI and the CLI
// subcommands.
type Services struct {
	Config    config.Config
	Logger    *zap.Logger
	Client    *restcountries.Client
	Storage   localstore.Storage
	Favorites *favorites.Store

	closers []func()
}

// Open loads configuration and builds every service. With logToFile the
// logger writes JSON to the configured log path; otherwise it writes to
// stderr at warn level unless opts.Verbose.
func Open(opts Options, logToFile bool) (*Services, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logOpts := logging.Options{Level: cfg.LogLevel, Verbose: opts.Verbose}
	if logToFile {
		logOpts.Path = cfg.LogPath()
	} else if !opts.Verbose {
		logOpts.Level = "warn"
	}
	logger, flush, err := logging.New(logOpts)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	s := &Services{Config: cfg, Logger: logger}
	s.closers = append(s.closers, flush)

	client, err := restcountries.NewClient(restcountries.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}
	s.Client = client

	s.Storage = openStorage(cfg, logger)
	s.closers = append(s.closers, func() {
		if err := s.Storage.Close(); err != nil {
			logger.Warn("close storage", zap.Error(err))
		}
	})
	s.Favorites = favorites.New(s.Storage, logger)

	logger.Debug("services ready",
		zap.String("api", cfg.APIBaseURL),
		zap.String("storage", cfg.StorageBackend),
		zap.Int("favorites", s.Favorites.Len()),
	)
	return s, nil
}

// Close releases storage and flushes the logger, in reverse open order.
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// openStorage opens the configured backend. Favorites must never block
// startup, so any failure falls back to an in-memory store.
func openStorage(cfg config.Config, logger *zap.Logger) localstore.Storage {
	var (
		storage localstore.Storage
		err     error
	)
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		storage, err = localstore.OpenSQLite(cfg.DatabasePath())
	default:
		storage, err = localstore.NewFile(cfg.FavoritesDir())
	}
	if err != nil {
		logger.Warn("storage unavailable, favorites will not persist",
			zap.String("backend", cfg.StorageBackend),
			zap.Error(err),
		)
		return localstore.NewMemory()
	}
	return storage
}
