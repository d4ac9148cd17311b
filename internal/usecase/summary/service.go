package summary

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/perjolt/gensum/internal/domain"
	logpkg "github.com/perjolt/gensum/internal/logger"
)

var tracer trace.Tracer = otel.Tracer("gensum/summary")

// Service assembles a grounded prompt from search results and runs it
// through the generative model, bracketing the call with trace spans.
type Service struct {
	generator Generator
	provider  string
	model     string
}

// New creates a summary service.
func New(generator Generator, provider, model string) *Service {
	return &Service{generator: generator, provider: provider, model: model}
}

// Summarize formats the results into the fixed prompt and invokes the model.
// The request context is passed through to the generator, so a caller
// disconnect cancels the in-flight model call.
func (s *Service) Summarize(
	ctx context.Context, query string, results []domain.SearchResult,
) (string, error) {
	ctx, span := tracer.Start(ctx, "search-triggered")
	defer span.End()
	span.SetAttributes(
		attribute.String("summary.query", query),
		attribute.Int("summary.result_count", len(results)),
	)

	contextText := FormatContext(results)
	prompt := BuildPrompt(query, contextText)

	logger := logpkg.FromContext(ctx)
	logger.Debug("prompt assembled",
		zap.Int("context_blocks", len(results)),
		zap.String("prompt", prompt),
	)

	genCtx, genSpan := tracer.Start(ctx, "generation")
	defer genSpan.End()
	genSpan.SetAttributes(
		attribute.String("gen_ai.system", s.provider),
		attribute.String("gen_ai.request.model", s.model),
		attribute.String("gen_ai.prompt", prompt),
	)

	result, err := s.generator.Generate(genCtx, prompt)
	if err != nil {
		genSpan.RecordError(err)
		genSpan.SetStatus(codes.Error, string(domain.KindOf(err)))
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domain.KindOf(err)))
		return "", err
	}

	genSpan.SetAttributes(
		attribute.String("gen_ai.completion", result.Text),
		attribute.Int("gen_ai.usage.input_tokens", result.PromptTokens),
		attribute.Int("gen_ai.usage.output_tokens", result.CompletionTokens),
	)

	logger.Debug("model response received",
		zap.Int("total_tokens", result.TotalTokens),
		zap.String("summary", result.Text),
	)

	return result.Text, nil
}
