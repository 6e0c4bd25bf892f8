package utils

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Calendar  CalendarConfig
	Notify    NotifyConfig
	RateLimit RateLimitConfig
	Retry     RetryConfig
	Preset    PresetConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	PresetDB int
	QueueDB  int
}

// CalendarConfig selects the calendar adapter. Provider is "google" or "log".
type CalendarConfig struct {
	Provider        string
	CredentialsFile string
	CalendarID      string
}

// NotifyConfig selects the notification sender. Provider is "amqp" or "log".
type NotifyConfig struct {
	Provider string
	AMQPURL  string
	Exchange string
}

type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

type RetryConfig struct {
	MaxAttempts int
	Concurrency int
}

type PresetConfig struct {
	TTLDays int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "feline-finder")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PRESET_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("CALENDAR_PROVIDER", "log")
	viper.SetDefault("GOOGLE_CALENDAR_ID", "primary")
	viper.SetDefault("NOTIFY_PROVIDER", "log")
	viper.SetDefault("AMQP_EXCHANGE", "adoption.notifications")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	viper.SetDefault("RATE_LIMIT_BURST", 30)
	viper.SetDefault("RETRY_MAX_ATTEMPTS", 5)
	viper.SetDefault("RETRY_CONCURRENCY", 5)
	viper.SetDefault("PRESET_TTL_DAYS", 180)

	// .env is optional in containers, the environment carries everything there
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:        viper.GetString("APP_NAME"),
			Port:        viper.GetString("PORT"),
			Debug:       viper.GetBool("DEBUG"),
			LogPath:     viper.GetString("LOG_PATH"),
			CORSOrigins: splitList(viper.GetString("CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			PresetDB: viper.GetInt("REDIS_PRESET_DB"),
			QueueDB:  viper.GetInt("REDIS_QUEUE_DB"),
		},
		Calendar: CalendarConfig{
			Provider:        viper.GetString("CALENDAR_PROVIDER"),
			CredentialsFile: viper.GetString("GOOGLE_CREDENTIALS_FILE"),
			CalendarID:      viper.GetString("GOOGLE_CALENDAR_ID"),
		},
		Notify: NotifyConfig{
			Provider: viper.GetString("NOTIFY_PROVIDER"),
			AMQPURL:  viper.GetString("AMQP_URL"),
			Exchange: viper.GetString("AMQP_EXCHANGE"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
			Burst:     viper.GetInt("RATE_LIMIT_BURST"),
		},
		Retry: RetryConfig{
			MaxAttempts: viper.GetInt("RETRY_MAX_ATTEMPTS"),
			Concurrency: viper.GetInt("RETRY_CONCURRENCY"),
		},
		Preset: PresetConfig{
			TTLDays: viper.GetInt("PRESET_TTL_DAYS"),
		},
	}

	return config, nil
}

// splitList reads a comma separated env value.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
