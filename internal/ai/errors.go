package ai

import (
	"errors"
	"fmt"
)

// ProviderError is any failure from the outbound AI capability. Callers
// catch it at the per-record boundary so one failure never aborts a batch.
type ProviderError struct {
	Capability string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s call failed (status %d): %s", e.Capability, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %s call failed: %s", e.Capability, e.Message)
}

// Unwrap returns the underlying cause
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// IsProviderError reports whether err is a provider failure
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
