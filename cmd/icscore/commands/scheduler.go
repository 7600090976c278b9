package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/investorcenter/icscore/internal/scheduler"
)

// schedulerCmd manages the cron daemon that runs the daily batch.
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the scoring scheduler",
	Long: `Starts the scheduler daemon or manages its jobs.

Registered jobs:
  daily-scoring - scores the full universe (default 05:00 UTC)

Example:
  go run ./cmd/icscore scheduler start
  go run ./cmd/icscore scheduler list
  go run ./cmd/icscore scheduler run daily-scoring`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runSchedulerStart,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  runSchedulerList,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func initScheduler() (*scheduler.Scheduler, func(), error) {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return nil, nil, err
	}

	engine, err := newEngine(cfg, log, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	sched := scheduler.New(log)
	job := scheduler.NewScoringJob(engine, cfg.Engine.ScoringSchedule, log)
	if err := sched.AddJob(job); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("register job %s: %w", job.Name(), err)
	}

	return sched, db.Close, nil
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initScheduler()
	if err != nil {
		return err
	}
	defer cleanup()

	sched.Start()

	fmt.Println("=== IC Score Scheduler ===")
	fmt.Println("Registered jobs:")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func runSchedulerList(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initScheduler()
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Println("Registered jobs:")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s\n", name)
	}
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := newEngine(cfg, log, db)
	if err != nil {
		return err
	}

	jobs := []scheduler.Job{
		scheduler.NewScoringJob(engine, cfg.Engine.ScoringSchedule, log),
	}

	jobName := args[0]
	for _, job := range jobs {
		if job.Name() != jobName {
			continue
		}
		fmt.Printf("Running job %s...\n", jobName)
		start := time.Now()
		if err := job.Run(context.Background()); err != nil {
			return fmt.Errorf("job %s failed: %w", jobName, err)
		}
		fmt.Printf("Job %s finished in %s\n", jobName, time.Since(start).Round(time.Millisecond))
		return nil
	}

	return fmt.Errorf("job %s not found", jobName)
}
