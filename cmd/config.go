package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	ServiceName string
	HTTPPort    string

	LogLevel string
	LogFile  string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSslMode      string
	DBMaxOpenConns int

	TelegramEnabled     bool
	TelegramToken       string
	TelegramChannelID   int64
	TelegramPollTimeout time.Duration

	ReservationTTL time.Duration
	SweepInterval  time.Duration
	SweepBatchSize int

	RetryInterval    time.Duration
	RetryBackoff     time.Duration
	RetryBatchSize   int
	RetryMaxAttempts int

	RequestTimeout time.Duration
}

// LoadConfig reads the environment, after loading .env when present.
func LoadConfig() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "truckbot"))
	cfg.HTTPPort = cast.ToString(getOrReturnDefault("HTTP_PORT", "8080"))

	cfg.LogLevel = cast.ToString(getOrReturnDefault("LOG_LEVEL", "info"))
	cfg.LogFile = cast.ToString(getOrReturnDefault("LOG_FILE", ""))

	cfg.DBHost = cast.ToString(getOrReturnDefault("DB_HOST", "localhost"))
	cfg.DBPort = cast.ToString(getOrReturnDefault("DB_PORT", "5432"))
	cfg.DBUser = cast.ToString(getOrReturnDefault("DB_USER", "postgres"))
	cfg.DBPassword = cast.ToString(getOrReturnDefault("DB_PASSWORD", "postgres"))
	cfg.DBName = cast.ToString(getOrReturnDefault("DB_NAME", "truckbot"))
	cfg.DBSslMode = cast.ToString(getOrReturnDefault("DB_SSLMODE", "disable"))
	cfg.DBMaxOpenConns = cast.ToInt(getOrReturnDefault("DB_MAX_OPEN_CONNS", 10))

	cfg.TelegramEnabled = cast.ToBool(getOrReturnDefault("TELEGRAM_ENABLED", true))
	cfg.TelegramToken = cast.ToString(getOrReturnDefault("TELEGRAM_TOKEN", ""))
	cfg.TelegramChannelID = cast.ToInt64(getOrReturnDefault("TELEGRAM_CHANNEL_ID", 0))
	cfg.TelegramPollTimeout = cast.ToDuration(getOrReturnDefault("TELEGRAM_POLL_TIMEOUT", "10s"))

	cfg.ReservationTTL = cast.ToDuration(getOrReturnDefault("RESERVATION_TTL", "15m"))
	cfg.SweepInterval = cast.ToDuration(getOrReturnDefault("SWEEP_INTERVAL", "30s"))
	cfg.SweepBatchSize = cast.ToInt(getOrReturnDefault("SWEEP_BATCH_SIZE", 100))

	cfg.RetryInterval = cast.ToDuration(getOrReturnDefault("RETRY_INTERVAL", "15s"))
	cfg.RetryBackoff = cast.ToDuration(getOrReturnDefault("RETRY_BACKOFF", "30s"))
	cfg.RetryBatchSize = cast.ToInt(getOrReturnDefault("RETRY_BATCH_SIZE", 50))
	cfg.RetryMaxAttempts = cast.ToInt(getOrReturnDefault("RETRY_MAX_ATTEMPTS", 5))

	cfg.RequestTimeout = cast.ToDuration(getOrReturnDefault("REQUEST_TIMEOUT", "10s"))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot work together.
func (c Config) Validate() error {
	var errList []error

	if c.ReservationTTL <= 0 {
		errList = append(errList, errors.New("RESERVATION_TTL must be positive"))
	}
	if c.SweepInterval <= 0 || c.SweepInterval >= c.ReservationTTL {
		errList = append(errList, fmt.Errorf(
			"SWEEP_INTERVAL (%s) must be positive and shorter than RESERVATION_TTL (%s)",
			c.SweepInterval, c.ReservationTTL,
		))
	}
	if c.SweepBatchSize <= 0 {
		errList = append(errList, errors.New("SWEEP_BATCH_SIZE must be positive"))
	}
	if c.RetryInterval <= 0 || c.RetryBatchSize <= 0 || c.RetryMaxAttempts <= 0 {
		errList = append(errList, errors.New("RETRY_INTERVAL, RETRY_BATCH_SIZE and RETRY_MAX_ATTEMPTS must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errList = append(errList, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.TelegramEnabled {
		if c.TelegramToken == "" {
			errList = append(errList, errors.New("TELEGRAM_TOKEN is required when Telegram is enabled"))
		}
		if c.TelegramChannelID == 0 {
			errList = append(errList, errors.New("TELEGRAM_CHANNEL_ID is required when Telegram is enabled"))
		}
	}

	return errors.Join(errList...)
}

// DSN returns the PostgreSQL connection string in key=value form, accepted
// by both pgx and lib/pq.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
