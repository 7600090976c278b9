package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/investorcenter/icscore/internal/engineconfig"
	"github.com/investorcenter/icscore/internal/peerstats"
	"github.com/investorcenter/icscore/internal/scoring"
	"github.com/investorcenter/icscore/pkg/config"
	"github.com/investorcenter/icscore/pkg/database"
	"github.com/investorcenter/icscore/pkg/logger"
)

var (
	// Global flags
	tuningFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "icscore",
	Short: "IC Score - sector-relative composite scoring engine",
	Long: `IC Score CLI

Daily batch engine that scores every listed entity on six factors
against its sector peers, estimates fair value, and publishes the
results atomically. The API serves only published runs.

Usage:
  go run ./cmd/icscore [command]

Examples:
  go run ./cmd/icscore score --date 2026-08-28
  go run ./cmd/icscore serve
  go run ./cmd/icscore scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tuningFile, "tuning", "", "engine tuning file (default from ENGINE_TUNING_FILE)")
}

// bootstrap loads env config, the logger and the database pool.
// Callers own db.Close().
func bootstrap() (*config.Config, *logger.Logger, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	return cfg, log, db, nil
}

// loadTuning reads the engine tuning file, preferring the --tuning
// flag over the env-configured path. A missing path falls back to the
// built-in defaults.
func loadTuning(cfg *config.Config, log *logger.Logger) (*engineconfig.Config, error) {
	path := tuningFile
	if path == "" {
		path = cfg.Engine.TuningFile
	}
	if path == "" {
		log.Warn("No tuning file configured, using built-in defaults")
		return engineconfig.Default(), nil
	}

	tuning, err := engineconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load tuning file %s: %w", path, err)
	}

	log.WithFields(map[string]interface{}{
		"path":        path,
		"config_hash": tuning.Hash,
	}).Info("Loaded engine tuning")

	return tuning, nil
}

// newEngine wires the scoring engine against the database.
func newEngine(cfg *config.Config, log *logger.Logger, db *database.DB) (*scoring.Engine, error) {
	tuning, err := loadTuning(cfg, log)
	if err != nil {
		return nil, err
	}

	repo := scoring.NewRepository(db, log)

	return scoring.New(scoring.Params{
		Facts:     scoring.NewFactStore(db),
		StatsRepo: peerstats.NewRepository(db, log),
		Writer:    repo,
		Reader:    repo,
		Config:    tuning,
		Logger:    log,
		Workers:   cfg.Engine.Workers,
	}), nil
}
