package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/pharmagen/pharmagen/configs"
	"github.com/pharmagen/pharmagen/internal/application/services"
	"github.com/pharmagen/pharmagen/internal/core/ports"
	"github.com/pharmagen/pharmagen/internal/infrastructure/gemini"
	"github.com/pharmagen/pharmagen/internal/infrastructure/health"
	"github.com/pharmagen/pharmagen/internal/infrastructure/httpserver"
	"github.com/pharmagen/pharmagen/internal/infrastructure/kvstore"
	"github.com/pharmagen/pharmagen/internal/infrastructure/pdf"
	"github.com/pharmagen/pharmagen/internal/infrastructure/redis"
	"github.com/pharmagen/pharmagen/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting PharmaGEN assistant service...")

	// Select the key-value store backend. An unreachable Redis is a warning,
	// not a startup failure: the service degrades to the in-process store.
	var store ports.KeyValueStore
	var healthCheckers []ports.HealthChecker
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.WithError(err).Warn("Redis connection failed; falling back to in-memory store")
			store = kvstore.NewMemoryStore()
		} else {
			defer redisClient.Close()
			logger.Info("Connected to Redis successfully")
			store = kvstore.NewRedisStore(redisClient)
			healthCheckers = append(healthCheckers, health.NewRedisHealthChecker(redisClient))
		}
	} else {
		store = kvstore.NewMemoryStore()
		logger.Info("Using in-memory store (single-instance mode)")
	}
	healthCheckers = append(healthCheckers, health.NewStoreHealthChecker(store))

	// Upstream generation capability
	generator := gemini.NewClient(&cfg.Gemini, logger)

	// Core services: cache manager, rate limiter, turn orchestrator
	cacheService := services.NewCacheService(store, &cfg.Cache, logger)
	rateLimiter := services.NewRateLimiterService(store, &cfg.RateLimit, logger)
	turnService := services.NewTurnService(cacheService, rateLimiter, generator, &services.TurnConfig{
		MaxMessageLength:  cfg.Chat.MaxMessageLength,
		GenerationTimeout: cfg.Gemini.Timeout,
		Temperature:       cfg.Gemini.Temperature,
		TranslationTemp:   cfg.Gemini.TranslationTemp,
		MaxOutputTokens:   cfg.Gemini.MaxOutputTokens,
	}, logger)

	// Conversation layer
	translator := services.NewTranslationService(cacheService, generator, cfg.Gemini.Timeout, cfg.Gemini.TranslationTemp, cfg.Gemini.MaxOutputTokens, logger)
	sessionRepo := repositories.NewSessionKVRepository(store, cfg.Session.TTL, logger)
	chatService := services.NewChatService(sessionRepo, turnService, translator, cfg.Chat.MaxMessageLength, logger)
	reportService := services.NewReportService(sessionRepo, translator, cfg.Chat.AppTitle, logger)
	tokenService := services.NewSessionTokenService(cfg.Session.Secret, cfg.Session.TTL)

	var renderer ports.ReportRenderer
	if cfg.PDF.Enabled {
		renderer = pdf.NewRenderer(logger)
	}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}

	deps := httpserver.ServerDeps{
		ChatService:    chatService,
		ReportService:  reportService,
		ReportRenderer: renderer,
		TokenService:   tokenService,
		HealthCheckers: healthCheckers,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
