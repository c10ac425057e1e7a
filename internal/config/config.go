package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultDataURL is the statistics portal index page the fetcher scrapes.
const DefaultDataURL = "https://ehw.fit.vutbr.cz/izv/"

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataURL       string
	DataDir       string
	CacheFilename string // fmt template, one %s for the region code
	FirstYear     int    // first year the dataset covers

	HTTPAddr    string // metrics server address; empty disables it
	HTTPTimeout time.Duration

	LogLevel  string
	LogFormat string

	// Optional Kafka row export.
	ExportEnabled  bool
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	httpTimeoutStr := envOrDefault("HTTP_TIMEOUT", "30s")
	httpTimeout, err := time.ParseDuration(httpTimeoutStr)
	if err != nil || httpTimeout <= 0 {
		return nil, errors.New("invalid HTTP_TIMEOUT")
	}

	firstYear, err := parseFirstYear()
	if err != nil {
		return nil, err
	}

	exportEnabled := false
	if v := os.Getenv("EXPORT_ENABLED"); v != "" {
		exportEnabled = v == "true"
	}

	cfg := &Config{
		DataURL:       envOrDefault("DATA_URL", DefaultDataURL),
		DataDir:       envOrDefault("DATA_DIR", "data"),
		CacheFilename: envOrDefault("CACHE_FILENAME", "data_%s.gob.gz"),
		FirstYear:     firstYear,

		HTTPAddr:    os.Getenv("HTTP_ADDR"),
		HTTPTimeout: httpTimeout,

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		ExportEnabled:  exportEnabled,
		KafkaBrokers:   parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "accident-rows"),
	}

	if !strings.Contains(cfg.CacheFilename, "%s") {
		return nil, errors.New("CACHE_FILENAME must contain a %s region placeholder")
	}
	if cfg.ExportEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("EXPORT_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

// CachePath formats the cache filename for a region, relative to DataDir.
func (c *Config) CachePath(region string) string {
	return fmt.Sprintf(c.CacheFilename, region)
}

func parseFirstYear() (int, error) {
	s := envOrDefault("FIRST_YEAR", "2016")
	y, err := strconv.Atoi(s)
	if err != nil || y < 2000 {
		return 0, errors.New("invalid FIRST_YEAR")
	}
	return y, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
