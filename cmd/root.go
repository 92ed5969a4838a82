package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/prayz/internal/app"
	"github.com/abhisek/prayz/internal/config"
	"github.com/abhisek/prayz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "prayz",
	Short: "Prayer lists and guided prayer sessions",
	Long:  "Prayz keeps your prayer lists and walks you through them one request at a time.",
	RunE: func(cmd *cobra.Command, args []string) error {
		noSplash, _ := cmd.Flags().GetBool("no-splash")
		return runApp(cmd, app.Options{Splash: !noSplash})
	},
	SilenceUsage: true,
}

// Execute runs the root command. Cancelling ctx ends a running TUI.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PRAYZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/prayz/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error or disabled")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")

	rootCmd.AddCommand(prayCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(topicCmd)
	rootCmd.AddCommand(requestCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file named by --config, or the default one,
// then applies PRAYZ_* overrides and the --log-level flag.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path (file or PRAYZ_DB), then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
