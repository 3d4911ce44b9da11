package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/cesargomez89/lyricbot/internal/constants"
)

// Config holds all application configuration
type Config struct {
	TelegramToken    string        `yaml:"telegram_token"`
	MusixmatchHost   string        `yaml:"musixmatch_host"`
	MusixmatchKey    string        `yaml:"musixmatch_key"`
	Provider         string        `yaml:"provider"`
	DBPath           string        `yaml:"db_path"`
	HTTPPort         string        `yaml:"http_port"`
	LogLevel         string        `yaml:"log_level"`
	LogFormat        string        `yaml:"log_format"`
	PurgeSchedule    string        `yaml:"purge_schedule"`
	SessionTTL       time.Duration `yaml:"session_ttl"`
	LyricsCacheTTL   time.Duration `yaml:"lyrics_cache_ttl"`
	ProviderTimeout  time.Duration `yaml:"provider_timeout"`
	FailThreshold    float64       `yaml:"fail_threshold"`
	SuccessThreshold float64       `yaml:"success_threshold"`
	PageSize         int           `yaml:"page_size"`
	RecentTracks     int           `yaml:"recent_tracks"`

	parseErrors []string
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		MusixmatchHost:   constants.DefaultMusixmatchHost,
		Provider:         constants.DefaultProvider,
		DBPath:           constants.DefaultDBPath,
		HTTPPort:         constants.DefaultHTTPPort,
		LogLevel:         "info",
		LogFormat:        "text",
		PurgeSchedule:    constants.DefaultPurgeSchedule,
		SessionTTL:       constants.DefaultSessionTTL,
		LyricsCacheTTL:   constants.DefaultLyricsCacheTTL,
		ProviderTimeout:  constants.DefaultProviderTimeout,
		FailThreshold:    constants.DefaultFailThreshold,
		SuccessThreshold: constants.DefaultSuccessThreshold,
		PageSize:         constants.DefaultPageSize,
		RecentTracks:     constants.DefaultRecentTracks,
	}
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

// LoadFile reads a YAML file on top of the defaults, then applies
// environment overrides. An empty path behaves like Load.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.TelegramToken = getEnv("TELEGRAM_TOKEN", c.TelegramToken)
	c.MusixmatchHost = getEnv("MUSIXMATCH_HOST", c.MusixmatchHost)
	c.MusixmatchKey = getEnv("MUSIXMATCH_KEY", c.MusixmatchKey)
	c.Provider = getEnv("PROVIDER", c.Provider)
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.HTTPPort = getEnv("HTTP_PORT", c.HTTPPort)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.PurgeSchedule = getEnv("PURGE_SCHEDULE", c.PurgeSchedule)

	c.SessionTTL = c.durationEnv("SESSION_TTL", c.SessionTTL)
	c.LyricsCacheTTL = c.durationEnv("LYRICS_CACHE_TTL", c.LyricsCacheTTL)
	c.ProviderTimeout = c.durationEnv("PROVIDER_TIMEOUT", c.ProviderTimeout)
	c.FailThreshold = c.floatEnv("FAIL_THRESHOLD", c.FailThreshold)
	c.SuccessThreshold = c.floatEnv("SUCCESS_THRESHOLD", c.SuccessThreshold)
	c.PageSize = c.intEnv("PAGE_SIZE", c.PageSize)
	c.RecentTracks = c.intEnv("RECENT_TRACKS", c.RecentTracks)
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	errors := append([]string(nil), c.parseErrors...)

	// Validate Provider
	switch c.Provider {
	case constants.ProviderMusixmatch:
		if c.MusixmatchHost == "" {
			errors = append(errors, "MUSIXMATCH_HOST cannot be empty")
		} else if u, err := url.Parse(c.MusixmatchHost); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("MUSIXMATCH_HOST is not a valid URL: %s", c.MusixmatchHost))
		}
		if c.MusixmatchKey == "" {
			errors = append(errors, "MUSIXMATCH_KEY cannot be empty")
		}
	case constants.ProviderMock:
	default:
		errors = append(errors, fmt.Sprintf("PROVIDER must be one of: musixmatch, mock, got: %s", c.Provider))
	}

	if c.TelegramToken == "" {
		errors = append(errors, "TELEGRAM_TOKEN cannot be empty")
	}

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	// Empty HTTP_PORT disables the ops server
	if c.HTTPPort != "" {
		port, err := strconv.Atoi(c.HTTPPort)
		if err != nil {
			errors = append(errors, fmt.Sprintf("HTTP_PORT must be a valid number, got: %s", c.HTTPPort))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("HTTP_PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.SessionTTL <= 0 {
		errors = append(errors, fmt.Sprintf("SESSION_TTL must be positive, got: %s", c.SessionTTL))
	}
	if c.LyricsCacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("LYRICS_CACHE_TTL must be positive, got: %s", c.LyricsCacheTTL))
	}
	if c.ProviderTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("PROVIDER_TIMEOUT must be positive, got: %s", c.ProviderTimeout))
	}

	if c.PageSize < 1 || c.PageSize > 100 {
		errors = append(errors, fmt.Sprintf("PAGE_SIZE must be between 1 and 100, got: %d", c.PageSize))
	}
	if c.RecentTracks < 0 {
		errors = append(errors, fmt.Sprintf("RECENT_TRACKS cannot be negative, got: %d", c.RecentTracks))
	}

	if c.SuccessThreshold <= 0 || c.FailThreshold >= 1 || c.SuccessThreshold > c.FailThreshold {
		errors = append(errors, fmt.Sprintf("thresholds must satisfy 0 < SUCCESS_THRESHOLD <= FAIL_THRESHOLD < 1, got: %g and %g",
			c.SuccessThreshold, c.FailThreshold))
	}

	if strings.TrimSpace(c.PurgeSchedule) == "" {
		errors = append(errors, "PURGE_SCHEDULE cannot be empty")
	} else if _, err := cron.ParseStandard(c.PurgeSchedule); err != nil {
		errors = append(errors, fmt.Sprintf("PURGE_SCHEDULE is not a valid cron schedule: %s", c.PurgeSchedule))
	}

	// Validate LogLevel
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	// Validate LogFormat
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
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

func (c *Config) durationEnv(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("%s must be a duration, got: %s", key, value))
		return fallback
	}
	return d
}

func (c *Config) intEnv(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("%s must be a number, got: %s", key, value))
		return fallback
	}
	return n
}

func (c *Config) floatEnv(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("%s must be a number, got: %s", key, value))
		return fallback
	}
	return f
}
