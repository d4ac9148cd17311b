package summary

import (
	"context"

	"github.com/perjolt/gensum/internal/domain"
)

// Generator produces a text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (domain.GenerationResult, error)
}
