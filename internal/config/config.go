// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Remote document store configuration.
	DocstoreBaseURL    string
	DocstoreCollection string
	DocstoreAPIKey     string
	DocstoreTimeout    time.Duration

	// Reverse geocoding configuration.
	GeocoderBaseURL   string
	GeocoderUserAgent string
	GeocoderEnabled   bool
	GeocoderTimeout   time.Duration
	GeocoderCacheSize int

	// Local fallback cache.
	CachePath string

	// Hazard feed configuration. An empty broker list disables the feed.
	KafkaBrokers   []string
	KafkaFeedTopic string

	// AdminEmail identifies the only account allowed to delete hazards.
	AdminEmail string
}

// FeedEnabled reports whether the Kafka hazard feed is configured.
func (c *Config) FeedEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	docstoreTimeout, err := parseDuration("DOCSTORE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	geocoderTimeout, err := parseDuration("GEOCODER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	geocoderEnabled := true
	if v := os.Getenv("GEOCODER_ENABLED"); v != "" {
		geocoderEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DocstoreBaseURL:    os.Getenv("DOCSTORE_BASE_URL"),
		DocstoreCollection: envOrDefault("DOCSTORE_COLLECTION", "hazards"),
		DocstoreAPIKey:     os.Getenv("DOCSTORE_API_KEY"),
		DocstoreTimeout:    docstoreTimeout,

		GeocoderBaseURL:   os.Getenv("GEOCODER_BASE_URL"),
		GeocoderUserAgent: envOrDefault("GEOCODER_USER_AGENT", "hazard-intake-service/1.0"),
		GeocoderEnabled:   geocoderEnabled,
		GeocoderTimeout:   geocoderTimeout,
		GeocoderCacheSize: parsePositiveInt("GEOCODER_CACHE_SIZE", 1000),

		CachePath: envOrDefault("CACHE_PATH", "data/hazards.db"),

		KafkaBrokers:   parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaFeedTopic: envOrDefault("KAFKA_FEED_TOPIC", "hazard-feed"),

		AdminEmail: os.Getenv("ADMIN_EMAIL"),
	}

	if cfg.DocstoreBaseURL == "" {
		return nil, errors.New("DOCSTORE_BASE_URL is required")
	}
	if cfg.DocstoreCollection == "" {
		return nil, errors.New("DOCSTORE_COLLECTION must not be empty")
	}
	if cfg.FeedEnabled() && cfg.KafkaFeedTopic == "" {
		return nil, errors.New("KAFKA_FEED_TOPIC must not be empty when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
