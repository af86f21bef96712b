package ebay

import "fmt"

// ValidationError means the caller's input cannot produce a valid listing
// (missing images, bad fields). Not retryable; report to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ConfigError means the service is missing configuration it needs before any
// network call can be made (policy IDs, merchant location, default category).
// Fail fast so nothing partially succeeds.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Reason
}

// GatewayError is a failing upstream eBay API call with the status and
// message preserved. Already-completed steps are not rolled back; the caller
// decides what to do with the partial state.
type GatewayError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s failed (status %d): %s", e.Op, e.StatusCode, e.Message)
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func configErrorf(format string, args ...any) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}
