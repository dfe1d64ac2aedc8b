package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/mkadlec/barber-whatsapp-bot/internal/api/router"
	appconfig "github.com/mkadlec/barber-whatsapp-bot/internal/config"
	"github.com/mkadlec/barber-whatsapp-bot/internal/conversation"
	"github.com/mkadlec/barber-whatsapp-bot/internal/messaging"
	"github.com/mkadlec/barber-whatsapp-bot/internal/observability/metrics"
	"github.com/mkadlec/barber-whatsapp-bot/internal/reservio"
	"github.com/mkadlec/barber-whatsapp-bot/pkg/logging"
)

func main() {
	// Local development convenience; the deployed environment injects vars.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting barber-whatsapp-bot API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("failed to ping database", "error", err)
		pingCancel()
		os.Exit(1)
	}
	pingCancel()

	var history conversation.HistoryStore = conversation.NewConversationStore(db)
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		rdb := redis.NewClient(opts)
		history = conversation.NewCachedHistoryStore(history, rdb)
		logger.Info("conversation history cache enabled", "addr", cfg.RedisAddr)
	}

	booking := reservio.NewClient(cfg.ReservioBaseURL, cfg.ReservioAPIKey, cfg.ReservioBusinessID, cfg.ReservioTimeout, cfg.SlotsTimeout, logger)

	if cfg.GeminiAPIKey == "" {
		logger.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}
	llm, err := conversation.NewGeminiLLMClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModelID)
	if err != nil {
		logger.Error("failed to initialize gemini client", "error", err)
		os.Exit(1)
	}
	defer func() { _ = llm.Close() }()

	bot := conversation.NewService(booking, history, llm, conversation.Options{
		DefaultServiceID:  cfg.ReservioServiceID,
		DefaultResourceID: cfg.ReservioResourceID,
		Timezone:          cfg.BusinessTimezone,
		OpenHourLocal:     cfg.OpenHourLocal,
		CloseHourLocal:    cfg.CloseHourLocal,
		HistoryLimit:      cfg.HistoryLimit,
	}, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	webhookMetrics := metrics.NewWebhookMetrics(registry)

	botHandler := messaging.NewHandler(bot, cfg.TwilioAuthToken, webhookMetrics, logger)

	r := router.New(&router.Config{
		Logger:         logger,
		BotHandler:     botHandler,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
