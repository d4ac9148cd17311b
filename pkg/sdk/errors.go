package gensum

import "fmt"

// APIError is a non-2xx response from the gensum API.
type APIError struct {
	StatusCode int
	// Message is the API's error field, e.g. "Query is required" or the
	// upstream model failure text.
	Message string
	// ErrorType carries the server's failure classification when the server
	// runs in a development environment; empty otherwise.
	ErrorType string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gensum: API error %d: %s", e.StatusCode, e.Message)
}

// IsValidation reports whether the error was rejected as invalid input.
func (e *APIError) IsValidation() bool {
	return e.StatusCode == 400
}
