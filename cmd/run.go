package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/prayz/internal/app"
	"github.com/abhisek/prayz/internal/config"
	"github.com/abhisek/prayz/internal/logging"
	"github.com/abhisek/prayz/internal/services"
	"github.com/abhisek/prayz/internal/store"
)

// env is what every command that touches the database needs.
type env struct {
	svc   *services.Services
	store *store.Store
	logs  io.Closer
}

func (e *env) Close() {
	e.store.Close()
	e.logs.Close()
}

// openEnv loads config, opens the log file and the store, and builds the
// shared services.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logPath := cfg.LogFile
	if logPath == "" {
		if logPath, err = config.DefaultLogPath(); err != nil {
			return nil, fmt.Errorf("resolve log path: %w", err)
		}
	}
	log, logs, err := logging.New(cfg.LogLevel, logPath)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	log.Debug().Str("db", dbPath).Str("command", cmd.CommandPath()).Msg("store opened")
	return &env{
		svc:   services.FromStore(cmd.Context(), st, cfg, log),
		store: st,
		logs:  logs,
	}, nil
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, opts app.Options) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	opts.Services = e.svc
	return app.Run(cmd.Context(), opts)
}

func parseID(s, what string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, s)
	}
	return id, nil
}
