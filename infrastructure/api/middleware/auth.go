package middleware

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader is the request header carrying the API key.
const APIKeyHeader = "X-API-KEY"

// AuthConfig holds the keys accepted by the write-protection middleware.
// An empty key set disables authentication.
type AuthConfig struct {
	keys []string
}

// NewAuthConfigWithKeys creates an AuthConfig.
func NewAuthConfigWithKeys(keys []string) AuthConfig {
	return AuthConfig{keys: keys}
}

// Enabled reports whether any key is configured.
func (c AuthConfig) Enabled() bool {
	return len(c.keys) > 0
}

// Validate checks a presented key against the configured set in constant
// time.
func (c AuthConfig) Validate(key string) bool {
	if key == "" {
		return false
	}
	for _, k := range c.keys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
			return true
		}
	}
	return false
}

// WriteProtect requires a valid API key for mutating methods (POST, PUT,
// PATCH, DELETE). Safe methods pass through. With no keys configured every
// request passes.
func WriteProtect(config AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled() || !isMutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			if !config.Validate(r.Header.Get(APIKeyHeader)) {
				WriteError(w, r, NewAuthenticationError("missing or invalid api key"), nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WriteProtectAuth is a convenience wrapper taking the raw key list.
func WriteProtectAuth(keys []string) func(http.Handler) http.Handler {
	return WriteProtect(NewAuthConfigWithKeys(keys))
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
