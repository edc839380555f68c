package main

import (
	"github.com/spf13/cobra"
)

var envFiles []string

var rootCmd = &cobra.Command{
	Use:   "homework-bot",
	Short: "Notify a Telegram chat when the review status of a homework changes",
	Long: `homework-bot polls the Practicum homework-statuses API on a fixed
schedule and sends a Telegram message whenever the status of the most
recent submission changes. Repeated identical failures are reported once.

Required environment (or .env file):
  PRACTICUM_TOKEN   API token for the homework-statuses endpoint
  TELEGRAM_TOKEN    bot token
  TELEGRAM_CHAT_ID  one or more chat ids, separated by spaces or commas

Running without a subcommand is the same as "run".`,
	SilenceUsage: true,
	RunE:         runLoop,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Load variables from these .env files instead of ./.env")
}
