package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mmcdole/mcc/internal/adapter"
	"github.com/mmcdole/mcc/internal/notify"
	"github.com/mmcdole/mcc/internal/service"
	"github.com/mmcdole/mcc/internal/session"
	"github.com/mmcdole/mcc/internal/store"
)

// app holds everything a command needs. Commands are built around an empty
// app; open fills it in once flags are parsed and main closes it.
type app struct {
	server string // --server flag

	cfg      *adapter.Config
	logger   *slog.Logger
	logFile  io.Closer
	store    *store.BoltStore
	sessions *session.Manager
	notices  *notify.Center

	account *service.Account
	labels  *service.Labels
	recipes *service.Recipes
	pantry  *service.Pantry
}

func (a *app) open() error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, logFile, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger, logFile = adapter.NullLogger(), io.NopCloser(nil)
	}
	slog.SetDefault(logger)
	logger.Info("starting mcc", "version", Version)

	st, err := store.NewBoltStore(cfg.Session.File)
	if err != nil {
		logFile.Close()
		return fmt.Errorf("failed to open session store: %w", err)
	}

	sessions := session.NewManager(st, logger)
	labels := service.NewLabels(sessions, st, logger)

	a.cfg = cfg
	a.logger = logger
	a.logFile = logFile
	a.store = st
	a.sessions = sessions
	a.notices = notify.NewCenter(notify.DefaultTTL, logger)
	a.account = service.NewAccount(sessions, logger)
	a.labels = labels
	a.recipes = service.NewRecipes(sessions, cfg.Input.FractionPlaces, logger)
	a.pantry = service.NewPantry(sessions, labels, logger)
	return nil
}

// close releases the store and log file, if open succeeded
func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close store", "error", err)
	}
	a.logger.Info("shutting down")
	a.logFile.Close()
	a.store = nil
}

// serverURL returns the server given on the command line, else the configured one
func (a *app) serverURL() (string, error) {
	if a.server != "" {
		return a.server, nil
	}
	if a.cfg.IsConfigured() {
		return a.cfg.Server.URL, nil
	}
	return "", fmt.Errorf("no server configured; pass --server")
}
