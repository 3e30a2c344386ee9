package alpaca

import "fmt"

// APIError represents an error response from the Alpaca API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Alpaca API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}
