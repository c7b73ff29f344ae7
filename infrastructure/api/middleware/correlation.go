package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/skillcompass/skillcompass/internal/log"
)

// CorrelationIDHeader is the request header carrying the correlation id.
const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationID propagates the caller's correlation id through the request
// context so log lines can be tied together. Without the header the chi
// request id is used.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationIDHeader)
		if id == "" {
			id = chimiddleware.GetReqID(r.Context())
		}

		ctx := log.WithCorrelationID(r.Context(), id)
		w.Header().Set(CorrelationIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
