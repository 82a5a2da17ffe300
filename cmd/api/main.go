// Package main is the entry point for the widget proxy server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/annalabs/widget-proxy/internal/config"
	"github.com/annalabs/widget-proxy/internal/dispatch"
	"github.com/annalabs/widget-proxy/internal/handler"
	"github.com/annalabs/widget-proxy/internal/llm"
	"github.com/annalabs/widget-proxy/internal/middleware"
	"github.com/annalabs/widget-proxy/internal/service"
	"github.com/annalabs/widget-proxy/internal/sink"
	"github.com/annalabs/widget-proxy/pkg/logger"
	"github.com/annalabs/widget-proxy/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting widget proxy")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "widget-proxy", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Initialize LLM client
	llmClient, err := newLLMClient(cfg)
	if err != nil {
		log.Error("failed to create LLM client", zap.Error(err))
		os.Exit(1)
	}
	log.Info("completion provider selected", zap.String("provider", llmClient.Name()))

	// Initialize sinks
	logSink := sink.NewLogSink(cfg.LogsWebhookURL, cfg.SinkTimeout)
	leadSink := sink.NewLeadSheetSink(cfg.LeadWebhookURL, cfg.SinkTimeout)
	crmSink := sink.NewCRMSink(cfg.CRMWebhookURL, cfg.SinkTimeout)
	for name, enabled := range map[string]bool{
		"logs": logSink.Enabled(),
		"lead": leadSink.Enabled(),
		"crm":  crmSink.Enabled(),
	} {
		if !enabled {
			log.Warn("sink disabled, no URL configured", zap.String("sink", name))
		}
	}

	// Start the background log dispatcher
	dispatcher := dispatch.New(logSink, cfg.LogQueueSize, cfg.SinkTimeout, log)
	dispatcher.Start()

	// Initialize services
	turnSvc := service.NewTurnService(llmClient, dispatcher, cfg.TurnTimeout, log)
	leadSvc := service.NewLeadService(llmClient, leadSink, crmSink, logSink, cfg.SummaryTimeout, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(dispatcher)
	turnHandler := handler.NewTurnHandler(turnSvc, log)
	leadHandler := handler.NewLeadHandler(leadSvc, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Widget endpoints
	r.Post("/gpt", turnHandler.Handle)
	r.Post("/lead", leadHandler.Handle)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	// Drain pending log entries after the server stops accepting requests
	dispatcher.Close(cfg.LogDrainTimeout)

	log.Info("server stopped")
}

// newLLMClient selects the completion provider: the configured default when
// its key is present, otherwise whichever provider has a key.
func newLLMClient(cfg *config.Config) (llm.Client, error) {
	switch {
	case cfg.DefaultLLM == string(llm.ProviderAnthropic) && cfg.AnthropicAPIKey != "":
		return llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	case cfg.OpenAIAPIKey != "":
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	case cfg.AnthropicAPIKey != "":
		return llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	default:
		return nil, fmt.Errorf("no completion API key configured")
	}
}
