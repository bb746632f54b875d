package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string        `mapstructure:"PORT"`
	APIBaseURL     string        `mapstructure:"API_BASE_URL"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	HistoryDays    int           `mapstructure:"HISTORY_DAYS"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	RateLimit      float64       `mapstructure:"RATE_LIMIT"`
}

var defaults = map[string]interface{}{
	"PORT":            ":8080",
	"API_BASE_URL":    "https://disease.sh/v3/covid-19",
	"REQUEST_TIMEOUT": "10s",
	"HISTORY_DAYS":    120,
	"LOG_LEVEL":       "info",
	"RATE_LIMIT":      20,
}

// LoadConfig reads .env.<APP_ENV> from dir (default APP_ENV is development).
// Environment variables take precedence over the file; a missing file is fine.
func LoadConfig(dir string) (Config, error) {
	var c Config

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetConfigName(fmt.Sprintf(".env.%s", env))
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("failed to decode config: %w", err)
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL must not be empty")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must not be negative, got %s", c.RequestTimeout)
	}
	if c.HistoryDays <= 0 {
		return fmt.Errorf("HISTORY_DAYS must be positive, got %d", c.HistoryDays)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %v", c.RateLimit)
	}
	return nil
}
