package domain

import "errors"

// Kind classifies a failure cause for API clients and telemetry.
type Kind string

const (
	// KindValidation marks client input errors.
	KindValidation Kind = "validation_error"
	// KindModelProvider marks generative model call failures.
	KindModelProvider Kind = "model_provider_error"
	// KindTracing marks trace pipeline failures.
	KindTracing Kind = "tracing_error"
	// KindUnknown marks unclassified failures.
	KindUnknown Kind = "unknown_error"
)

// ClassifiedError tags an error with a Kind without rewriting its message.
// The upstream message must reach API clients verbatim, so the usual
// fmt.Errorf("context: %w") chain is not an option on this path.
type ClassifiedError struct {
	kind Kind
	err  error
}

// Classify wraps err with a failure kind. Returns nil for a nil err.
func Classify(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{kind: kind, err: err}
}

// Error returns the underlying message unchanged.
func (e *ClassifiedError) Error() string { return e.err.Error() }

// Unwrap exposes the underlying error to errors.Is / errors.As.
func (e *ClassifiedError) Unwrap() error { return e.err }

// Kind reports the failure kind carried by the tag.
func (e *ClassifiedError) Kind() Kind { return e.kind }

// KindOf extracts the failure kind from anywhere in an error chain.
// Unclassified errors report KindUnknown.
func KindOf(err error) Kind {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.kind
	}
	return KindUnknown
}
