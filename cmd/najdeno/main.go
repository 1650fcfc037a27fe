// Command najdeno runs the lost-and-found service and its maintenance tasks.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/erazemk/najdeno/internal/api"
	"github.com/erazemk/najdeno/internal/config"
	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/matching"
	"github.com/erazemk/najdeno/internal/service"
	"github.com/erazemk/najdeno/internal/store"
)

// app carries state shared between the Before hook and the commands.
type app struct {
	cfg      *config.Config
	closeLog func()
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	a := &app{}

	return &cli.App{
		Name:  "najdeno",
		Usage: "Lost-and-found reports with automatic matching",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
				EnvVars: []string{"NAJDENO_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log",
				Aliases: []string{"l"},
				Usage:   "Also append logs to this file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Set logging level (debug, info, warn, error)",
			},
		},
		Before: a.setup,
		After:  a.teardown,
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Create a new database with an admin account",
				Action: a.initCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:    "user",
						Aliases: []string{"u"},
						Usage:   "Admin username",
						Value:   "admin",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: a.serveCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address (overrides server.addr)",
					},
					&cli.StringFlag{
						Name:    "user",
						Aliases: []string{"u"},
						Usage:   "Admin username when the database has to be created",
						Value:   "admin",
					},
				},
			},
			{
				Name:   "match",
				Usage:  "Print all current matches as JSON",
				Action: a.matchCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.IntFlag{
						Name:  "min-score",
						Usage: "Lowest score to report (overrides matching.min_score)",
					},
					&cli.IntFlag{
						Name:  "date-threshold-days",
						Usage: "Date window in days (overrides matching.date_threshold_days)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of pairs; negative for no limit",
					},
				},
			},
		},
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "SQLite database path (overrides database.path)",
	}
}

// setup loads the configuration, applies global flag overrides and installs
// the logger.
func (a *app) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("log") {
		cfg.Server.LogPath = c.String("log")
	}
	if c.IsSet("log-level") {
		cfg.Server.LogLevel = c.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	closeLog, err := setupLogger(cfg.Server.LogPath, cfg.Server.LogLevel, c.App.Writer, c.App.ErrWriter)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.closeLog = closeLog
	return nil
}

func (a *app) teardown(*cli.Context) error {
	if a.closeLog != nil {
		a.closeLog()
	}
	return nil
}

func (a *app) dbPath(c *cli.Context) string {
	if c.IsSet("db") {
		return c.String("db")
	}
	return a.cfg.Database.Path
}

func (a *app) initCommand(c *cli.Context) error {
	path := a.dbPath(c)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("database %s already exists", path)
	}

	database, password, err := initDatabase(c.Context, path, c.String("user"))
	if err != nil {
		return err
	}
	database.Close()

	printInitResult(c.App.Writer, path, c.String("user"), password)
	return nil
}

func (a *app) serveCommand(c *cli.Context) error {
	path := a.dbPath(c)
	addr := a.cfg.Server.Addr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}

	// First run creates the database.
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		database, password, err := initDatabase(c.Context, path, c.String("user"))
		if err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}
		database.Close()
		printInitResult(c.App.Writer, path, c.String("user"), password)
		fmt.Fprintln(c.App.Writer)
	}

	database, err := db.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	slog.Info("database ready", "path", path)

	if n, err := store.PurgeExpiredTokens(c.Context, database, time.Now()); err != nil {
		slog.Warn("failed to purge expired tokens", "error", err)
	} else if n > 0 {
		slog.Info("purged expired tokens", "count", n)
	}

	secret := a.cfg.Auth.JWTSecret
	if secret == "" {
		secret, err = store.GetJWTSecret(c.Context, database)
		if err != nil {
			return fmt.Errorf("loading JWT secret: %w", err)
		}
	}

	router, err := api.NewRouter(database, api.Config{
		JWTSecret:       secret,
		TokenTTL:        a.cfg.Auth.TokenTTL,
		Matching:        a.cfg.Matching.Config,
		AllMatchesLimit: a.cfg.Matching.AllMatchesLimit,
		MaxCandidates:   a.cfg.Matching.MaxCandidates,
		MaxUploadBytes:  a.cfg.Upload.MaxBytes,
		Logger:          slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("setting up router: %w", err)
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           api.LoggingMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr,
		"min_score", a.cfg.Matching.MinScore, "date_threshold_days", a.cfg.Matching.DateThresholdDays)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

// matchCommand ranks the reports in an existing database without starting
// the server.
func (a *app) matchCommand(c *cli.Context) error {
	path := a.dbPath(c)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("database %s: %w", path, err)
	}

	// Flags go through the same checks as the config file.
	full := *a.cfg
	if c.IsSet("date-threshold-days") {
		full.Matching.DateThresholdDays = c.Int("date-threshold-days")
	}
	if c.IsSet("min-score") {
		full.Matching.MinScore = c.Int("min-score")
	}
	if err := full.Validate(); err != nil {
		return err
	}
	cfg := full.Matching.Config
	minScore := cfg.MinScore

	database, err := db.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	svc, err := service.NewMatchService(
		store.NewRepository(database, a.cfg.Matching.MaxCandidates),
		matching.NewMatcher(cfg),
		service.WithAllMatchesLimit(a.cfg.Matching.AllMatchesLimit),
	)
	if err != nil {
		return err
	}

	result, err := svc.AllMatches(c.Context, minScore, c.Int("limit"))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
