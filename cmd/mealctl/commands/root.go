// Package commands implements the mealctl command tree.
package commands

import (
	"io"
	"log/slog"
	"os"

	"mealmax/internal/adapter/repo"
	"mealmax/internal/app/kitchen"
	"mealmax/internal/config"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

type appContext struct {
	cfg     config.Config
	repos   repo.Repos
	kitchen kitchen.UseCase
	logger  *slog.Logger
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	app := &appContext{}
	var store, sqlitePath, dsn string
	var verbose bool

	root := &cobra.Command{
		Use:          "mealctl",
		Short:        "Manage meals and run meal battles",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("store") || os.Getenv("MEALMAX_STORE") == "" {
				cfg.Store = store
			}
			if cmd.Flags().Changed("sqlite-path") {
				cfg.SQLitePath = sqlitePath
			}
			if cmd.Flags().Changed("dsn") {
				cfg.DSN = dsn
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			app.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			repos, err := repo.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			app.cfg = cfg
			app.repos = repos
			app.kitchen = kitchen.UseCase{Meals: repos.Meals}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.repos.Close == nil {
				return nil
			}
			return app.repos.Close()
		},
	}

	root.PersistentFlags().StringVar(&store, "store", config.StoreSQLite, "meal store: memory, sqlite or postgres (default $MEALMAX_STORE, then sqlite)")
	root.PersistentFlags().StringVar(&sqlitePath, "sqlite-path", "mealmax.db", "SQLite database file")
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "Postgres DSN (default $MEALMAX_DB_DSN)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log battle details to stderr")

	root.AddCommand(
		createCmd(app),
		deleteCmd(app),
		getCmd(app),
		leaderboardCmd(app),
		clearCmd(app),
		battleCmd(app),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
