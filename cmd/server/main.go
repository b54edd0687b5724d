package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brightdesk.app/chat/common/id"
	"brightdesk.app/chat/common/llm"
	"brightdesk.app/chat/common/logger"
	"brightdesk.app/chat/common/otel"
	"brightdesk.app/chat/core/config"
	"brightdesk.app/chat/core/db"
	"brightdesk.app/chat/internal/export"
	"brightdesk.app/chat/internal/http/middleware"
	httprouter "brightdesk.app/chat/internal/http/router"
	"brightdesk.app/chat/internal/leads"
	"brightdesk.app/chat/internal/queue"
	"brightdesk.app/chat/internal/rag"
	"brightdesk.app/chat/internal/service"
	"brightdesk.app/chat/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "chat server starting", "env", cfg.Env, "port", cfg.Port)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Ingest.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Ingest.RedisStream)

	producer := queue.NewRedisProducer(redisClient, cfg.Ingest.RedisStream, slog.Default())
	defer producer.Close()

	answerClient, err := llm.NewClient(llm.Config{
		Provider: cfg.AnswerLLM.Provider,
		APIKey:   cfg.AnswerLLM.APIKey,
		BaseURL:  cfg.AnswerLLM.BaseURL,
		Model:    cfg.AnswerLLM.Model,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create answer llm client", "error", err)
		os.Exit(1)
	}

	intentClient, err := llm.NewClient(llm.Config{
		Provider: cfg.IntentLLM.Provider,
		APIKey:   cfg.IntentLLM.APIKey,
		BaseURL:  cfg.IntentLLM.BaseURL,
		Model:    cfg.IntentLLM.Model,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create intent llm client", "error", err)
		os.Exit(1)
	}

	embedder, err := rag.NewOpenAIEmbedder(cfg.OpenAI)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create embedder", "error", err)
		os.Exit(1)
	}
	index := rag.NewTypesenseIndex(cfg.Typesense)
	retriever := rag.NewRetriever(embedder, index)
	answerer := rag.NewAnswerer(answerClient, retriever, cfg.AnswerLLM.MaxTokens)

	var exporter leads.Exporter
	if cfg.Sheets.Enabled() {
		exporter, err = export.NewSheetsExporter(ctx, cfg.Sheets)
		if err != nil {
			slog.ErrorContext(ctx, "failed to create sheets exporter", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "sheets exporter initialized", "spreadsheet_id", cfg.Sheets.SpreadsheetID)
	} else {
		exporter = export.NewNopExporter()
		slog.InfoContext(ctx, "sheets export disabled (no spreadsheet configured)")
	}

	stores := store.NewStores(database.Pool())
	services := service.NewServices(stores, answerer, intentClient, producer, exporter, cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel opens the span before Recovery and the logger
	// so panics and request logs carry trace context.
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		WidgetOrigin: cfg.WidgetOrigin,
		AdminAPIKey:  cfg.AdminAPIKey,
	})

	return router
}
