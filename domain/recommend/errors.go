package recommend

import (
	"errors"
	"fmt"
)

// ErrProvidersExhausted indicates both generation providers failed within
// the attempt budget. Terminal: the caller should report a retryable error
// to the end user rather than presenting a degraded recommendation.
var ErrProvidersExhausted = errors.New("both generation providers exhausted")

// ErrNoProviders indicates that neither generation provider was configured
// with valid credentials at startup.
var ErrNoProviders = errors.New("no generation provider configured")

// MalformedResponseError indicates the generative output was not valid
// structured data after a best-effort extraction attempt. RawText carries
// the original model output for diagnosis.
type MalformedResponseError struct {
	RawText string
	cause   error
}

// NewMalformedResponseError creates a MalformedResponseError.
func NewMalformedResponseError(rawText string, cause error) *MalformedResponseError {
	return &MalformedResponseError{RawText: rawText, cause: cause}
}

// Error implements error.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed generation response: %v (raw: %q)", e.cause, e.RawText)
}

// Unwrap returns the parse error that triggered the failure.
func (e *MalformedResponseError) Unwrap() error { return e.cause }
