// Package cmd wires the kmadmin command line: the console (default) and
// the list, columns, delete, seed and setup subcommands.
package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"kmadmin/internal/config"
	"kmadmin/internal/db"
	"kmadmin/internal/logger"
	"kmadmin/internal/ui"
)

type configKey struct{}

var cfgFile string

// NewRootCmd creates the root command.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kmadmin",
		Short: "Kafka manager admin console",
		Long: `kmadmin is a terminal admin console for a Kafka manager: console users,
uploaded config files, platform configs and monitored clusters.

Run without a subcommand to open the interactive console.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			// The console owns the terminal, so it logs to a file.
			logFile := ""
			if cmd == cmd.Root() {
				logFile = cfg.LogFile
			}
			log, err := logger.Setup(logger.Options{Level: cfg.LogLevel, File: logFile, Version: version})
			if err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = logger.WithLogger(ctx, log)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConsole(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ~/.kmadmin/config.yaml)")
	flags.String("db", "", "path to SQLite database (default: ~/.kmadmin/kmadmin.db)")
	flags.String("date-pattern", "", "date pattern for modification times (moment tokens or strftime)")
	flags.String("base-path", "", "base path prepended to cluster and file links")
	flags.String("timezone", "", "IANA timezone for dates (default: local)")
	flags.Bool("pretty-json", false, "pretty-print JSON config values")
	flags.String("operator", "", "operator name recorded on file edits")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "console log file (default: ~/.kmadmin/kmadmin.log)")

	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newColumnsCommand())
	rootCmd.AddCommand(newDeleteCommand())
	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newSetupCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context, version string) error {
	defer logger.Sync()
	return NewRootCmd(version).ExecuteContext(ctx)
}

func getConfig(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}

// openStore opens the configured database and creates its directory.
func openStore(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	return db.Open(ctx, cfg.DBPath)
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func runConsole(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx)

	if cfg.ConfigFile == "" && stdinIsTerminal() {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		switch _, err := runSetupWizard(path, cfg); {
		case errors.Is(err, errSetupCancelled):
			log.Info("setup skipped, using defaults")
		case err != nil:
			return err
		default:
			if cfg, err = config.Load(path, cmd.Root().PersistentFlags()); err != nil {
				return err
			}
		}
	}

	opts, err := cfg.GridOptions()
	if err != nil {
		return err
	}

	database, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("console started", "db", cfg.DBPath)
	app := ui.New(ctx, database, ui.Options{
		Grid:      opts,
		Operator:  cfg.Operator,
		PrefsPath: filepath.Join(cfg.Dir, ui.PrefsFileName),
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running console: %w", err)
	}
	return nil
}
