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
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/perjolt/gensum/internal/config"
	"github.com/perjolt/gensum/internal/domain"
	logpkg "github.com/perjolt/gensum/internal/logger"
	"github.com/perjolt/gensum/internal/metrics"
	"github.com/perjolt/gensum/internal/tracing"
	chiTransport "github.com/perjolt/gensum/internal/transport/chi"
	geminiGen "github.com/perjolt/gensum/internal/transport/gemini"
	openaiGen "github.com/perjolt/gensum/internal/transport/openai"
	"github.com/perjolt/gensum/internal/usecase/health"
	summaryuc "github.com/perjolt/gensum/internal/usecase/summary"
	"github.com/perjolt/gensum/internal/version"
)

func main() {
	// Local secrets for ${VAR} expansion in the YAML config
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting gensum API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("model_provider", cfg.Model.Provider),
		zap.String("model", cfg.Model.Model),
		zap.Bool("tracing_enabled", cfg.Tracing.Enabled),
	)

	ctx := context.Background()

	// Trace pipeline — spans become no-ops when tracing is disabled.
	flushTraces, err := tracing.Init(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		PublicKey:   cfg.Tracing.PublicKey,
		SecretKey:   cfg.Tracing.SecretKey,
		Sampler:     cfg.Tracing.Sampler,
		SamplerArg:  cfg.Tracing.SamplerArg,
	})
	if err != nil {
		logger.Fatal("Failed to init tracing", zap.Error(err))
	}

	// Register generation metrics explicitly (no init())
	metrics.RegisterGenerationMetrics()

	// Create model provider based on config
	var generator summaryuc.Generator
	var modelChecker health.ModelChecker
	switch cfg.Model.Provider {
	case "gemini":
		g, err := geminiGen.NewGenerator(ctx, &geminiGen.Config{
			APIKey:          cfg.Model.APIKey,
			BaseURL:         cfg.Model.BaseURL,
			Model:           cfg.Model.Model,
			MaxOutputTokens: cfg.Model.MaxOutputTokens,
			Temperature:     cfg.Model.Temperature,
			Logger:          logger,
		})
		if err != nil {
			logger.Fatal("Failed to create gemini provider", zap.Error(err))
		}
		generator, modelChecker = g, g
	case "openai":
		g := openaiGen.NewGenerator(&openaiGen.Config{
			APIKey:          cfg.Model.APIKey,
			BaseURL:         cfg.Model.BaseURL,
			Model:           cfg.Model.Model,
			MaxOutputTokens: cfg.Model.MaxOutputTokens,
			Temperature:     cfg.Model.Temperature,
			Provider:        "openai",
			Logger:          logger,
		})
		generator, modelChecker = g, g
	default:
		logger.Fatal("Unknown model provider", zap.String("provider", cfg.Model.Provider))
	}

	if cfg.Model.TimeoutSec > 0 {
		generator = &timeoutGenerator{
			next:    generator,
			timeout: time.Duration(cfg.Model.TimeoutSec) * time.Second,
		}
	}

	// Create use case services
	summarySvc := summaryuc.New(generator, cfg.Model.Provider, cfg.Model.Model)
	healthSvc := health.New(modelChecker)

	// Create chi server
	exposeDetails := config.IsDevelopment(env)
	server := chiTransport.NewServer(summarySvc, healthSvc, logger, exposeDetails)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger, exposeDetails))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.RequestLogger(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	// Flush pending trace spans after in-flight requests finish.
	if err := flushTraces(shutdownCtx); err != nil {
		logger.Error("Error flushing traces", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// timeoutGenerator bounds every model call with a deadline while keeping the
// caller's cancellation intact.
type timeoutGenerator struct {
	next    summaryuc.Generator
	timeout time.Duration
}

func (g *timeoutGenerator) Generate(ctx context.Context, prompt string) (domain.GenerationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.next.Generate(ctx, prompt)
}
