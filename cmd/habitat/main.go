// ABOUTME: Entry point for the habitat habit-tracking server.
// ABOUTME: Wires store, extension registry, dispatcher, and API with CLI commands.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/2389/habitat/extensions/activity"
	"github.com/2389/habitat/extensions/core"
	"github.com/2389/habitat/extensions/streak"
	"github.com/2389/habitat/extensions/weightlog"
	"github.com/2389/habitat/internal/api"
	"github.com/2389/habitat/internal/auth"
	"github.com/2389/habitat/internal/config"
	"github.com/2389/habitat/internal/seed"
	"github.com/2389/habitat/internal/store"
)

var (
	port   string
	dbPath string
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "habitat",
		Short: "Habitat - habit tracking server with a pluggable extension system",
		Long: `Habitat is a habit-tracking server whose behavior is extended by
independently authored extensions reacting to habit lifecycle events.

Built-in extensions:
  • streak     Consecutive-day completion streaks (all habit types)
  • weightlog  Last/min/max tracking for weight habits
  • activity   Last-event stamps plus a status endpoint

Quick Start:
  habitat seed          # Generate sample habits
  habitat serve         # Start server on port 9000
  habitat reset         # Wipe and reseed the database`,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the habitat HTTP server on the specified port.

The server provides:
  • Habit CRUD and completion endpoints under /habits
  • Extension extra endpoints under /ext/<name>/
  • Aggregated extension health at /healthz

Authentication:
  Use Bearer tokens in the format: Bearer user:USERNAME
  Example: curl -H "Authorization: Bearer user:me" http://localhost:9000/habits

Environment Variables:
  HABITAT_PORT            Server port (default: 9000)
  HABITAT_DB              Database path (default: habitat.db)
  HABITAT_HOOK_TIMEOUT    Per-hook deadline (default: 5s)
  HABITAT_HEALTH_TIMEOUT  Per-probe deadline (default: 3s)
  OPENAI_API_KEY          Enable AI-generated seed data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfg)
		},
	}
	serveCmd.Flags().StringVarP(&port, "port", "p", cfg.Port, "Port to listen on")
	serveCmd.Flags().StringVarP(&dbPath, "db", "d", cfg.DBPath, "Database path")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with sample habits",
		Long: `Seed the database with sample habits and completion history.

Seeded habits flow through the real lifecycle dispatch, so extension
namespaces (streak counters, weight logs) are populated exactly as they
would be by live traffic.

Set OPENAI_API_KEY to generate habits with AI; otherwise a static sample
set is used. Seed is not idempotent - use 'habitat reset' to start fresh.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cfg)
		},
	}
	seedCmd.Flags().StringVarP(&dbPath, "db", "d", cfg.DBPath, "Database path")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the database (wipe and reseed)",
		Long: `Delete the database file, create a fresh one, and seed it.

Warning: This permanently deletes all data in the database!`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove existing database: %w", err)
			}
			return runSeed(cfg)
		},
	}
	resetCmd.Flags().StringVarP(&dbPath, "db", "d", cfg.DBPath, "Database path")

	rootCmd.AddCommand(serveCmd, seedCmd, resetCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is everything boot wires together.
type app struct {
	store      *store.Store
	registry   *core.Registry
	dispatcher *core.Dispatcher
	health     *core.HealthAggregator
	logger     *slog.Logger
}

// newApp opens the store and registers the built-in extensions. A
// registration failure is fatal: a half-registered extension set must not
// serve traffic.
func newApp(dbPath string, cfg config.Config) (*app, error) {
	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	registry := core.NewRegistry()

	activityExt, err := activity.New(s)
	if err != nil {
		s.Close()
		return nil, err
	}
	for _, ext := range []*core.Extension{
		streak.New(s),
		weightlog.New(s),
		activityExt,
	} {
		if err := registry.Register(ext); err != nil {
			s.Close()
			return nil, err
		}
	}

	return &app{
		store:      s,
		registry:   registry,
		dispatcher: core.NewDispatcher(registry, s, logger, cfg.HookTimeout),
		health:     core.NewHealthAggregator(registry, logger, cfg.HealthTimeout),
		logger:     logger,
	}, nil
}

func (a *app) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(auth.Middleware)

	api.NewHandlers(a.store, a.dispatcher, a.health, a.registry, a.logger).RegisterRoutes(r)

	return r
}

func runServe(cfg config.Config) error {
	cleanPath, err := validateAndCleanDBPath(dbPath)
	if err != nil {
		return err
	}

	a, err := newApp(cleanPath, cfg)
	if err != nil {
		return err
	}

	addr := ":" + port
	a.logger.Info("habitat server listening", slog.String("addr", addr), slog.String("db", cleanPath))
	return http.ListenAndServe(addr, a.handler())
}

func runSeed(cfg config.Config) error {
	cleanPath, err := validateAndCleanDBPath(dbPath)
	if err != nil {
		return err
	}

	a, err := newApp(cleanPath, cfg)
	if err != nil {
		return err
	}
	defer a.store.Close()

	g := seed.NewGenerator(auth.DefaultUser, cfg.OpenAIKey, cfg.OpenAIModel)
	n, err := seed.Run(context.Background(), a.store, a.dispatcher, g, auth.DefaultUser, 0)
	if err != nil {
		return err
	}
	a.logger.Info("seeded habits", slog.Int("count", n))
	return nil
}

// validateAndCleanDBPath validates and cleans a database path.
// Handles Unix/Linux, macOS, and Windows paths (including UNC and drive letters).
func validateAndCleanDBPath(path string) (string, error) {
	cleanPath := strings.TrimSpace(path)
	cleanPath = filepath.Clean(cleanPath)

	// Reject empty and root-like paths
	if cleanPath == "" || cleanPath == "." || cleanPath == "/" {
		return "", fmt.Errorf("database path cannot be empty, '.', or '/'")
	}

	// Windows: reject bare drive letters (e.g., "C:", "D:")
	if runtime.GOOS == "windows" && len(cleanPath) == 2 && cleanPath[1] == ':' {
		return "", fmt.Errorf("database path cannot be a bare drive letter")
	}

	// Check for path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return "", fmt.Errorf("database path cannot contain '..'")
	}

	// Reject known problematic patterns
	badPatterns := []string{
		".git",
		".svn",
		"node_modules",
		".env",
		"credentials",
		"secret",
	}
	lowerPath := strings.ToLower(cleanPath)
	for _, pattern := range badPatterns {
		if strings.Contains(lowerPath, pattern) {
			return "", fmt.Errorf("database path cannot contain '%s' directory", pattern)
		}
	}

	return cleanPath, nil
}
