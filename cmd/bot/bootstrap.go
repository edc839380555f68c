package main

import (
	"context"
	"database/sql"
	"fmt"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/domain/notification"
	"homework_status_bot/internal/infra/config"
	idb "homework_status_bot/internal/infra/database"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
)

type application struct {
	cfg     *config.AppConfig
	service *app.PollServiceImpl
	db      *sql.DB
}

func (a *application) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// loadConfig reads configuration and initializes the global logger.
// A missing required variable is fatal for every command.
func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		logger.Log.WithError(err).Error("Could not load application configuration")
		return nil, err
	}
	logger.Init(cfg)
	logger.Log.WithFields(logrus.Fields{
		"environment":   cfg.Environment,
		"log_level":     cfg.LogLevel,
		"chats":         len(cfg.TelegramChatIDs),
		"poll_schedule": cfg.PollSchedule,
		"journal":       cfg.DatabaseURL != "",
	}).Info("Configuration loaded")
	return cfg, nil
}

func openJournal(ctx context.Context, cfg *config.AppConfig) (notification.Journal, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return notification.NopJournal{}, nil, nil
	}
	db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to database: %w", err)
	}
	if err := idb.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.Component("database").Info("Delivery journal enabled")
	return idb.NewPostgresDeliveryRepository(db), db, nil
}

// buildApplication wires the poll service. start is the from_date of the first poll.
func buildApplication(ctx context.Context, cfg *config.AppConfig, start homework.Checkpoint) (*application, error) {
	journal, db, err := openJournal(ctx, cfg)
	if err != nil {
		return nil, err
	}

	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.HTTPTimeout, logger.Component("telebot"))
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}
	notifier := telegram.NewNotifier(telegram.NewTelebotAdapter(bot), cfg.TelegramChatIDs, cfg.NotifyRatePerSec, logger.Component("notifier"))
	source := practicum.NewClient(cfg.PracticumEndpoint, cfg.PracticumToken, cfg.HTTPTimeout, logger.Component("practicum"))

	service := app.NewPollServiceImpl(source, notifier, journal, notifier.ChatIDs(), logger.Component("poller"), start)
	return &application{cfg: cfg, service: service, db: db}, nil
}
