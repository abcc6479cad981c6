package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"strade-dashboard/config"
	"strade-dashboard/internal/api"
	"strade-dashboard/internal/credstore"
	"strade-dashboard/internal/events"
	"strade-dashboard/internal/logging"
	"strade-dashboard/internal/market"
	"strade-dashboard/internal/mockdata"
	"strade-dashboard/internal/pages"
	"strade-dashboard/internal/router"
	"strade-dashboard/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:      cfg.LoggingConfig.Level,
		Output:     cfg.LoggingConfig.Output,
		JSONFormat: cfg.LoggingConfig.JSONFormat,
	})
	logger.Info().Msg("starting strade dashboard")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eventBus := events.NewEventBus()

	var store credstore.Store
	if cfg.RedisConfig.Enabled {
		redisStore, err := credstore.NewRedisStore(cfg.RedisConfig, eventBus, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create redis credential store")
		}
		store = redisStore
	} else {
		store = credstore.NewMemoryStore(eventBus)
	}

	sessions := session.NewController(session.Config{
		TokenSecret:      cfg.SessionConfig.TokenSecret,
		TokenDuration:    cfg.SessionConfig.TokenDuration,
		ObserveInterval:  cfg.SessionConfig.ObserveInterval,
		SimulatedLatency: cfg.SessionConfig.SimulatedLatency,
	}, store, eventBus, logger)
	sessions.Initialize(ctx)
	sessions.Observe(ctx)
	defer sessions.Teardown()

	marketClient := market.NewClient(cfg.MarketConfig, logger)
	feed := market.NewFeed(cfg.MarketConfig, marketClient, eventBus, logger)

	provider := mockdata.NewProvider(cfg.MockConfig)

	pageSet := pages.NewSet(provider, feed, cfg.MarketConfig.QuoteCurrency)
	pageRouter := router.New(eventBus, logger)
	pageSet.RegisterAll(pageRouter)

	server := api.NewServer(cfg.ServerConfig, sessions, pageRouter, pageSet, feed, eventBus, logger)
	server.SetAppContext(ctx)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.ServerConfig.ShutdownTimeout)*time.Second)
	defer cancel()

	pageRouter.Reset()
	feed.Stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("stopped")
}
