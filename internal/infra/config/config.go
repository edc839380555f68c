package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	DefaultPracticumEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultPollSchedule      = "@every 10m"
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultNotifyRatePerSec  = 1.0
)

// AppConfig holds all configuration for the application.
// It is built once at startup and only read afterwards.
type AppConfig struct {
	PracticumToken    string
	PracticumEndpoint string
	TelegramToken     string
	TelegramChatIDs   []int64
	PollSchedule      string
	HTTPTimeout       time.Duration
	NotifyRatePerSec  float64
	DatabaseURL       string // Optional; enables the delivery journal
	LogLevel          string
	Environment       string
}

// MissingError is returned when a required variable is not set.
type MissingError struct {
	Key string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s is not set", e.Key)
}

// Load reads configuration from environment variables and the given .env files.
// With no files it tries ./.env; a missing default file is not an error.
// godotenv.Load will not override existing env variables.
func Load(envFiles ...string) (*AppConfig, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds the configuration from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (*AppConfig, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := &AppConfig{}
	var err error

	cfg.PracticumToken = get("PRACTICUM_TOKEN")
	if cfg.PracticumToken == "" {
		return nil, &MissingError{Key: "PRACTICUM_TOKEN"}
	}

	cfg.TelegramToken = get("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, &MissingError{Key: "TELEGRAM_TOKEN"}
	}

	chatIDsStr := get("TELEGRAM_CHAT_ID")
	if chatIDsStr == "" {
		chatIDsStr = get("TELEGRAM_CHATS_ID")
	}
	if chatIDsStr == "" {
		return nil, &MissingError{Key: "TELEGRAM_CHAT_ID"}
	}
	cfg.TelegramChatIDs, err = ParseChatIDs(chatIDsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
	}

	cfg.PracticumEndpoint = get("PRACTICUM_ENDPOINT")
	if cfg.PracticumEndpoint == "" {
		cfg.PracticumEndpoint = DefaultPracticumEndpoint
	}

	cfg.PollSchedule = get("POLL_SCHEDULE")
	if cfg.PollSchedule == "" {
		cfg.PollSchedule = DefaultPollSchedule
	}
	if _, err := cron.ParseStandard(cfg.PollSchedule); err != nil {
		return nil, fmt.Errorf("invalid POLL_SCHEDULE %q: %w", cfg.PollSchedule, err)
	}

	cfg.HTTPTimeout = DefaultHTTPTimeout
	if v := get("HTTP_TIMEOUT"); v != "" {
		cfg.HTTPTimeout, err = time.ParseDuration(v)
		if err != nil || cfg.HTTPTimeout <= 0 {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT %q", v)
		}
	}

	cfg.NotifyRatePerSec = DefaultNotifyRatePerSec
	if v := get("NOTIFY_RATE_PER_SEC"); v != "" {
		cfg.NotifyRatePerSec, err = strconv.ParseFloat(v, 64)
		if err != nil || cfg.NotifyRatePerSec <= 0 {
			return nil, fmt.Errorf("invalid NOTIFY_RATE_PER_SEC %q", v)
		}
	}

	cfg.DatabaseURL = get("DATABASE_URL")

	cfg.LogLevel = strings.ToLower(get("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(get("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

// ParseChatIDs splits a whitespace- or comma-separated list of chat IDs.
func ParseChatIDs(s string) ([]int64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	ids := make([]int64, 0, len(fields))
	seen := make(map[int64]struct{}, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("chat id %q is not a number", f)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no chat ids in %q", s)
	}
	return ids, nil
}
