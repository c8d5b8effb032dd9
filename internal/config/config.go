package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rmartinelli/ytgrab/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port           string
	DownloadsDir   string
	HistoryPath    string
	YtDlpPath      string
	FFmpegLocation string
	LogLevel       string
	LogFormat      string
	MaxConcurrent  int
	RatePerMinute  int
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", constants.DefaultPort),
		DownloadsDir:   getEnv("DOWNLOADS_DIR", constants.DefaultDownloadsDir),
		HistoryPath:    getEnv("HISTORY_PATH", constants.DefaultHistoryPath),
		YtDlpPath:      getEnv("YTDLP_PATH", constants.DefaultYtDlpPath),
		FFmpegLocation: getEnv("FFMPEG_LOCATION", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		MaxConcurrent:  getEnvInt("MAX_CONCURRENT", constants.DefaultConcurrency),
		RatePerMinute:  getEnvInt("RATE_PER_MINUTE", constants.DefaultRatePerMinute),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DownloadsDir == "" {
		errors = append(errors, "DOWNLOADS_DIR cannot be empty")
	}

	if c.HistoryPath == "" {
		errors = append(errors, "HISTORY_PATH cannot be empty")
	}

	if c.YtDlpPath == "" {
		errors = append(errors, "YTDLP_PATH cannot be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if c.MaxConcurrent < 1 {
		errors = append(errors, fmt.Sprintf("MAX_CONCURRENT must be at least 1, got: %d", c.MaxConcurrent))
	}

	if c.RatePerMinute < 0 {
		errors = append(errors, fmt.Sprintf("RATE_PER_MINUTE cannot be negative, got: %d", c.RatePerMinute))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable; values that do not
// parse fall back to the default.
func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
