package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/atlas/internal/prefs"
	"github.com/five82/atlas/internal/restcountries"
	"github.com/five82/atlas/internal/search"
	"github.com/five82/atlas/internal/state"
	"github.com/five82/atlas/internal/ui"
)

// Run boots the atlas TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	svc, err := Open(opts, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	logger := svc.Logger
	logger.Info("atlas starting", zap.String("log", svc.Config.LogPath()))

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("preferences partly ignored", zap.Error(err))
	}

	coord := search.New(svc.Client, &state.Store{}, search.Options{
		Debounce: svc.Config.Debounce,
		Logger:   logger,
	})
	defer coord.Close()

	// Restore the last region; the UI's initial refresh dispatches it.
	if userPrefs.Region != restcountries.RegionAll {
		coord.SetRegion(userPrefs.Region)
	}

	program := ui.NewProgram(ui.Options{
		Context:   ctx,
		Search:    coord,
		Favorites: svc.Favorites,
		Lookup:    svc.Client,
		Logger:    logger,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		LogPath:   svc.Config.LogPath(),
	})

	stop := StartBridge(ctx, program, coord, svc.Favorites)
	defer stop()

	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		logger.Info("atlas interrupted")
		return nil
	}
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	logger.Info("atlas exiting")
	return nil
}
