package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/perjolt/gensum/internal/domain"
	"github.com/perjolt/gensum/internal/metrics"
)

// Generator is a text generation provider using the Gemini API.
type Generator struct {
	client          *genai.Client
	model           string
	maxOutputTokens int32
	temperature     float32
	logger          *zap.Logger
}

const providerName = "gemini"

// Config holds the Gemini provider settings.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxOutputTokens int
	Temperature     float32
	Logger          *zap.Logger
}

// NewGenerator creates a Gemini generation provider.
func NewGenerator(ctx context.Context, cfg *Config) (*Generator, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Generator{
		client:          client,
		model:           cfg.Model,
		maxOutputTokens: int32(cfg.MaxOutputTokens),
		temperature:     cfg.Temperature,
		logger:          cfg.Logger,
	}, nil
}

// Generate implements the summary Generator contract.
func (g *Generator) Generate(ctx context.Context, prompt string) (domain.GenerationResult, error) {
	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	if g.maxOutputTokens > 0 {
		genCfg.MaxOutputTokens = g.maxOutputTokens
	}

	start := time.Now()

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), genCfg)

	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(providerName, g.model, "error").Inc()
		metrics.GenerationErrorsTotal.WithLabelValues(providerName, g.model, "api_error").Inc()
		return domain.GenerationResult{}, parseAPIError(err)
	}

	if len(resp.Candidates) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(providerName, g.model, "error").Inc()
		metrics.GenerationErrorsTotal.WithLabelValues(providerName, g.model, "empty_response").Inc()
		return domain.GenerationResult{}, domain.Classify(domain.KindModelProvider,
			errors.New("empty generation response"))
	}

	metrics.GenerationRequestsTotal.WithLabelValues(providerName, g.model, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(providerName, g.model).Observe(duration.Seconds())

	result := domain.GenerationResult{Text: resp.Text()}
	if usage := resp.UsageMetadata; usage != nil {
		result.PromptTokens = int(usage.PromptTokenCount)
		result.CompletionTokens = int(usage.CandidatesTokenCount)
		result.TotalTokens = int(usage.TotalTokenCount)
		if result.TotalTokens > 0 {
			metrics.GenerationTokensTotal.WithLabelValues(providerName, g.model, "prompt").
				Add(float64(result.PromptTokens))
			metrics.GenerationTokensTotal.WithLabelValues(providerName, g.model, "completion").
				Add(float64(result.CompletionTokens))
		}
	}

	g.logger.Debug("generation finished",
		zap.String("model", g.model),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// HealthCheck verifies API availability via CountTokens (free endpoint).
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.Models.CountTokens(ctx, g.model, genai.Text("ping"), nil); err != nil {
		return fmt.Errorf("count tokens: %w", err)
	}
	return nil
}

// parseAPIError tags Gemini API failures as model provider errors,
// keeping the upstream code and message in the client-visible text.
func parseAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return domain.Classify(domain.KindModelProvider,
			fmt.Errorf("model API error %d %s: %s", apiErr.Code, apiErr.Status, apiErr.Message))
	}
	return domain.Classify(domain.KindModelProvider, err)
}
