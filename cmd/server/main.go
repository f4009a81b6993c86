// cmd/server/main.go
// This is the entry point for the Volleyball Club API server.
// The cmd/ folder holds executables and internal/ holds the packages they are built
// from, which other modules cannot import.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	// Internal packages, imported by module path
	"github.com/trentd187/volleyball-club/internal/auth"
	"github.com/trentd187/volleyball-club/internal/config"
	"github.com/trentd187/volleyball-club/internal/database"
	"github.com/trentd187/volleyball-club/internal/server"
	"github.com/trentd187/volleyball-club/internal/websocket"
)

// shutdownTimeout bounds how long in-flight requests get to finish after SIGTERM.
const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration from environment variables (and optionally a .env file).
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	setupLogging(cfg)

	// Open the database. The handle is shared by every service.
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Bring the schema up to date before serving. PostgreSQL uses the versioned SQL
	// files in migrations/; a SQLite DSN was already migrated by Connect.
	if !database.IsSQLite(cfg.DatabaseURL) {
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// The Hub fans recorded match results out to live viewers.
	// "go hub.Run()" runs its event loop in the background.
	hub := websocket.NewHub()
	go hub.Run()

	clock := clockwork.NewRealClock()
	app := server.New(server.Deps{
		DB:         db,
		Tokens:     auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL, clock),
		Clock:      clock,
		Hub:        hub,
		RequestLog: true,
	})

	// Listen in the background so main can wait for a shutdown signal.
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	// Block until SIGINT (Ctrl+C) or SIGTERM (container stop).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Info().Msg("shutting down")

	// Stop accepting connections and let in-flight requests finish, then close
	// live feeds and the database.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	hub.Stop()
	if err := database.Close(db); err != nil {
		log.Error().Err(err).Msg("close database")
	}
	log.Info().Msg("server stopped")
}

// setupLogging configures the global zerolog logger: readable console output in
// development, JSON lines everywhere else.
func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
