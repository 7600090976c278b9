package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// scoreCmd runs one scoring batch and exits.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Run one scoring batch",
	Long: `Runs the full scoring batch for a calculation date and publishes
the results atomically. Re-running the same date publishes a new run
and flips it to current; earlier runs for the date stay queryable.

Example:
  go run ./cmd/icscore score
  go run ./cmd/icscore score --date 2026-08-28`,
	RunE: runScore,
}

var (
	scoreDate    string
	scoreTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreDate, "date", "", "calculation date YYYY-MM-DD (default today UTC)")
	scoreCmd.Flags().DurationVar(&scoreTimeout, "timeout", 30*time.Minute, "batch timeout")
}

func runScore(cmd *cobra.Command, args []string) error {
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if scoreDate != "" {
		parsed, err := time.Parse("2006-01-02", scoreDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", scoreDate)
		}
		date = parsed
	}

	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := newEngine(cfg, log, db)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), scoreTimeout)
	defer cancel()

	fmt.Printf("=== IC Score Batch (%s) ===\n", date.Format("2006-01-02"))

	result, err := engine.Run(ctx, date)
	if err != nil {
		return fmt.Errorf("scoring batch failed: %w", err)
	}

	fmt.Printf("\nRun %s published\n", result.RunID)
	fmt.Printf("  Entities scored:  %d\n", result.EntityCount)
	fmt.Printf("  Entities skipped: %d\n", result.SkippedCount)
	fmt.Printf("  Regime:           %s\n", result.Regime)
	fmt.Printf("  Config hash:      %s\n", result.ConfigHash)
	fmt.Printf("  Duration:         %s\n", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))

	return nil
}
