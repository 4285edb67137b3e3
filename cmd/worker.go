package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
}

var recurringWorkerCmd = &cobra.Command{
	Use:   "recurring",
	Short: "Materialize due recurring transactions on an interval",
	Run: func(cmd *cobra.Command, args []string) {
		if err := startRecurringWorker(); err != nil {
			fmt.Fprintf(os.Stderr, "Recurring worker failed: %v\n", err)
			os.Exit(1)
		}
	},
}

var workerInterval time.Duration

func startRecurringWorker() error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	interval := workerInterval
	if interval <= 0 {
		interval = app.Config.Recurring.Interval
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Logger.Info("recurring worker is running. Press Ctrl+C to stop.", "interval", interval)
	err = runRecurringTicker(ctx, app, interval)
	app.Logger.Info("recurring worker shutdown complete")
	return err
}

type generationRun struct {
	At       time.Time
	Rules    int
	Inserted int64
	Err      error
}

// lastGeneration is read by the health check of the running server.
var lastGeneration atomic.Pointer[generationRun]

func recurringHealth(context.Context) (map[string]any, error) {
	run := lastGeneration.Load()
	if run == nil {
		return map[string]any{"last_run": nil}, nil
	}
	details := map[string]any{
		"last_run": run.At.Format(time.RFC3339),
		"rules":    run.Rules,
		"inserted": run.Inserted,
	}
	return details, run.Err
}

// runRecurringTicker generates once immediately, then every interval until ctx is done.
// Failed runs are logged and the next tick retries.
func runRecurringTicker(ctx context.Context, app *App, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result, err := app.Recurrences.Generate(ctx, time.Now())
		run := &generationRun{At: time.Now(), Err: err}
		if err != nil {
			app.Logger.Error("recurring generation failed", "error", err)
		} else {
			run.Rules, run.Inserted = result.Rules, result.Inserted
			app.Logger.Info("recurring generation done",
				"as_of", result.AsOf.Format(time.DateOnly),
				"rules", result.Rules,
				"inserted", result.Inserted)
		}
		lastGeneration.Store(run)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func init() {
	recurringWorkerCmd.Flags().DurationVar(&workerInterval, "interval", 0, "generation interval (overrides config)")
	workerCmd.AddCommand(recurringWorkerCmd)
}
