package health

import "context"

// ModelChecker checks generative model provider availability.
type ModelChecker interface {
	HealthCheck(ctx context.Context) error
}
