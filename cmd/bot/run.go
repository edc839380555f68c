package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/scheduler"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll for status changes until interrupted",
	RunE:  runLoop,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runLoop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApplication(ctx, cfg, homework.Now())
	if err != nil {
		logger.Log.WithError(err).Error("Application setup failed")
		return err
	}
	defer a.Close()

	s, err := scheduler.NewPollScheduler(a.service, logger.Component("scheduler"), cfg.PollSchedule)
	if err != nil {
		return err
	}

	logger.Log.Info("Homework status bot started")
	err = s.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Log.Info("Shutting down")
		return nil
	}
	return err
}
