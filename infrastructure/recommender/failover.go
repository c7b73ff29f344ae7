package recommender

import (
	"errors"
	"net/http"
	"strings"

	"github.com/skillcompass/skillcompass/infrastructure/provider"
)

// ProviderState identifies which generation provider is active.
type ProviderState int32

// Provider states.
const (
	StatePrimary ProviderState = iota
	StateSecondary
)

// String implements fmt.Stringer.
func (s ProviderState) String() string {
	if s == StateSecondary {
		return "secondary"
	}
	return "primary"
}

// ErrorKind classifies a generation failure for the failover transition.
type ErrorKind int

// Error kinds.
const (
	ErrorKindNone ErrorKind = iota
	ErrorKindQuota
	ErrorKindGeneric
)

// quotaPatterns are substrings that mark a provider error as a quota,
// rate-limit or billing failure. Matched case-insensitively against the
// full error text.
var quotaPatterns = []string{
	"quota",
	"rate limit",
	"rate_limit",
	"too many requests",
	"billing",
	"credit balance",
	"insufficient funds",
	"payment required",
}

// IsQuotaError reports whether err is a quota, rate-limit or billing
// failure. Both the HTTP status carried by a ProviderError and the error
// message text are consulted, since providers are inconsistent about which
// of the two signals the condition.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}

	var perr *provider.ProviderError
	if errors.As(err, &perr) {
		switch perr.StatusCode() {
		case http.StatusTooManyRequests, http.StatusPaymentRequired:
			return true
		}
	}

	text := strings.ToLower(err.Error())
	for _, pattern := range quotaPatterns {
		if strings.Contains(text, pattern) {
			return true
		}
	}
	return false
}

// Classify maps a generation error to its ErrorKind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case IsQuotaError(err):
		return ErrorKindQuota
	default:
		return ErrorKindGeneric
	}
}

// Transition is the pure failover transition function. Any failure on the
// active provider, quota or generic, moves to the other provider; the
// caller enforces the overall attempt budget.
func Transition(state ProviderState, kind ErrorKind) ProviderState {
	if kind == ErrorKindNone {
		return state
	}
	if state == StatePrimary {
		return StateSecondary
	}
	return StatePrimary
}
