/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the roster engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env and parse command-line flags
  2. Initialize structured logging (zerolog)
  3. Initialize SQLite store and business calendar
  4. Optionally seed demo data
  5. Start server with graceful shutdown

CONFIGURATION:
  Flags override environment variables:
  -port    HTTP server port            (env PORT, default 8080)
  -db      SQLite database path        (env DB_PATH, default roster.db)
           Use ":memory:" for an in-memory database
  -tz      Business timezone           (env BUSINESS_TZ, default Australia/Melbourne)
  -seed    Load demo roster data on startup

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/roster.db"

  # Run with in-memory database and demo data
  ./server -db=":memory:" -seed

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/warp/roster-engine/api"
	"github.com/warp/roster-engine/store/sqlite"
	"github.com/warp/roster-engine/wage"
)

func main() {
	// .env is optional; flags and real env still apply without one.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "roster.db"), "SQLite database path")
	tzName := flag.String("tz", envStr("BUSINESS_TZ", wage.DefaultTimezone), "business timezone")
	seed := flag.Bool("seed", false, "load demo roster data on startup")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	cal, err := wage.NewBusinessCalendar(*tzName)
	if err != nil {
		log.Fatal().Err(err).Str("tz", *tzName).Msg("invalid business timezone")
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer store.Close()

	if *seed {
		if err := api.SeedDemo(context.Background(), store, cal); err != nil {
			log.Fatal().Err(err).Msg("failed to seed demo data")
		}
		log.Info().Msg("demo roster seeded")
	}

	handler := api.NewHandler(store, cal, log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", *port).Str("tz", *tzName).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
