package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"proptrackrr/web/config"
	"proptrackrr/web/internal/api"
	"proptrackrr/web/internal/apiclient"
	"proptrackrr/web/internal/contact"
	"proptrackrr/web/internal/dashboard"
	"proptrackrr/web/internal/database"
	"proptrackrr/web/internal/marketplace"
	"proptrackrr/web/internal/models"
	"proptrackrr/web/internal/queue"
	"proptrackrr/web/internal/scheduler"
	"proptrackrr/web/internal/session"
	"proptrackrr/web/internal/telegram"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
	}

	if err := config.LoadSiteContent(cfg.SiteContentPath); err != nil {
		logger.WithError(err).Fatal("Failed to load site content")
	}

	// Initialize session database
	logger.Infof("Using session database at: %s", cfg.Session.DBPath)
	db, err := database.NewDatabase(cfg.Session.DBPath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	client, err := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create API client")
	}

	sessions := session.NewManager(db, session.Options{
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.CookieSecure,
		TTL:        cfg.Session.TTL,
	}, logger)

	boards := dashboard.NewBoards()

	sweeper := scheduler.NewSweeper(db, cfg.Session.TTL, cfg.Session.SweepSpec, logger)
	sweeper.OnRemove(boards.Drop)
	if err := sweeper.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start session sweeper")
	}
	defer sweeper.Stop()

	// Contact messages go to Telegram when a bot is configured
	telegramService := telegram.NewService(logger)
	telegramService.UpdateConfig(&models.TelegramConfig{
		IsEnabled: cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "",
		BotToken:  cfg.Telegram.BotToken,
		ChatID:    cfg.Telegram.ChatID,
	})
	if !telegramService.Enabled() {
		logger.Info("Telegram relay disabled, contact messages will only be logged")
	}

	contactQueue := queue.NewMessageQueue(cfg.Contact.QueueSize, logger)
	relay := contact.NewRelay(contactQueue, telegramService, logger)
	contactQueue.Start()
	defer contactQueue.Close()

	handler := api.NewHandler(api.Deps{
		Logger:      logger,
		Sessions:    sessions,
		Auth:        client,
		Dashboard:   dashboard.NewService(client, boards, logger),
		Marketplace: marketplace.NewService(client, config.GetSiteContent().CreditPacks, logger),
		Relay:       relay,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := api.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	go limiter.Cleanup(ctx)

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(logger))

	if err := api.SetupRoutes(router, handler, api.RouteOptions{
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Limiter:     limiter,
	}); err != nil {
		logger.WithError(err).Fatal("Failed to set up routes")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
}
