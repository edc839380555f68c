package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"homework_status_bot/internal/infra/logger"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently delivered notifications from the journal",
	Long: `History lists the most recent notifications recorded in the delivery
journal. It needs DATABASE_URL to be set.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of deliveries to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set, the delivery journal is disabled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	journal, db, err := openJournal(ctx, cfg)
	if err != nil {
		logger.Log.WithError(err).Error("Could not open delivery journal")
		return err
	}
	defer db.Close()

	deliveries, err := journal.ListRecent(ctx, historyLimit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SENT AT\tKIND\tCHATS\tTEXT")
	for _, d := range deliveries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", d.SentAt.Local().Format("2006-01-02 15:04:05"), d.Kind, len(d.ChatIDs), d.Text)
	}
	return tw.Flush()
}
