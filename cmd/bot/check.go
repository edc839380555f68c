package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/infra/logger"

	"github.com/spf13/cobra"
)

var checkSince time.Duration

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single poll cycle and exit",
	Long: `Check performs one fetch-validate-notify cycle, as the loop would on
start-up, and exits. The exit code is non-zero when the cycle failed.

Examples:
  # Report the latest status change of the last 30 days
  ./homework-bot check --since 720h`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().DurationVar(&checkSince, "since", 0, "Look back this far instead of starting from now")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := homework.Now()
	if checkSince > 0 {
		start = homework.Checkpoint(time.Now().Add(-checkSince).Unix())
	}

	a, err := buildApplication(ctx, cfg, start)
	if err != nil {
		logger.Log.WithError(err).Error("Application setup failed")
		return err
	}
	defer a.Close()

	out := a.service.Poll(ctx)
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "checkpoint: %d\n", out.Checkpoint)
	if out.Err != nil {
		fmt.Fprintf(w, "failure:    %s\n", app.ClassifyFailure(out.Err))
		fmt.Fprintf(w, "reported:   %t\n", out.ErrorReported)
		return out.Err
	}
	fmt.Fprintf(w, "message:    %s\n", out.Message)
	fmt.Fprintf(w, "sent:       %t\n", out.MessageSent)
	return nil
}
