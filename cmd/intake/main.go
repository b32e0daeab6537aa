package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/hazard-intake-service/internal/adapter/docstore"
	httpadapter "github.com/couchcryptid/hazard-intake-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/hazard-intake-service/internal/adapter/kafka"
	"github.com/couchcryptid/hazard-intake-service/internal/adapter/nominatim"
	"github.com/couchcryptid/hazard-intake-service/internal/adapter/sqlitecache"
	"github.com/couchcryptid/hazard-intake-service/internal/config"
	"github.com/couchcryptid/hazard-intake-service/internal/domain"
	"github.com/couchcryptid/hazard-intake-service/internal/observability"
	"github.com/couchcryptid/hazard-intake-service/internal/pipeline"
	"github.com/couchcryptid/hazard-intake-service/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Initialize geocoder (feature-flagged via GEOCODER_ENABLED).
	var geocoder domain.Geocoder
	if cfg.GeocoderEnabled {
		client := nominatim.NewClient(cfg.GeocoderBaseURL, cfg.GeocoderUserAgent, cfg.GeocoderTimeout, metrics, logger)
		geocoder = nominatim.NewCachedGeocoder(client, cfg.GeocoderCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("reverse geocoding enabled", "cache_size", cfg.GeocoderCacheSize, "timeout", cfg.GeocoderTimeout)
	} else {
		logger.Info("reverse geocoding disabled, addresses fall back to coordinates")
	}

	remote := docstore.NewClient(cfg.DocstoreBaseURL, cfg.DocstoreCollection, cfg.DocstoreAPIKey, cfg.DocstoreTimeout, logger)

	cache, err := sqlitecache.Open(cfg.CachePath)
	if err != nil {
		logger.Error("failed to open local cache", "path", cfg.CachePath, "error", err)
		os.Exit(1)
	}

	hazardStore := store.New(remote, cache, logger, metrics)
	builder := domain.NewBuilder(geocoder, logger)

	// The hazard feed is optional; without brokers the service runs
	// standalone and downstream consumers poll the API instead.
	var feed *kafkaadapter.FeedPublisher
	if cfg.FeedEnabled() {
		feed = kafkaadapter.NewFeedPublisher(cfg.KafkaBrokers, cfg.KafkaFeedTopic, logger)
		logger.Info("hazard feed enabled", "topic", cfg.KafkaFeedTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("hazard feed disabled")
	}

	var pipelineFeed pipeline.FeedPublisher
	var serverFeed httpadapter.FeedPublisher
	if feed != nil {
		pipelineFeed = feed
		serverFeed = feed
	}

	p := pipeline.New(builder, hazardStore, pipelineFeed, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, hazardStore, serverFeed, cfg.AdminEmail, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if feed != nil {
		if err := feed.Close(); err != nil {
			logger.Error("feed publisher close error", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Error("local cache close error", "error", err)
	}

	logger.Info("shutdown complete")
}
