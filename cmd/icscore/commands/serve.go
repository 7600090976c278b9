package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/investorcenter/icscore/internal/api"
	"github.com/investorcenter/icscore/internal/api/handlers"
	"github.com/investorcenter/icscore/internal/scoring"
)

// serveCmd starts the read-only score API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the score API server",
	Long: `Starts the HTTP API over published scores.

Endpoints:
  GET /health
  GET /api/v1/scores/{entity}
  GET /api/v1/scores/{entity}/history
  GET /api/v1/scores/{entity}/breakdown
  GET /api/v1/valuations/{entity}
  GET /api/v1/sectors/{sector}/scores

Example:
  go run ./cmd/icscore serve
  go run ./cmd/icscore serve --port 8090`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (default from PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	if servePort != "" {
		cfg.Port = servePort
	}

	repo := scoring.NewRepository(db, log)
	scoreHandler := handlers.NewScoreHandler(repo, db, log)
	router := api.NewRouter(scoreHandler, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("=== IC Score API ===\n")
	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
