package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/skillcompass/skillcompass/application/service"
	"github.com/skillcompass/skillcompass/domain/recommend"
	"github.com/skillcompass/skillcompass/internal/database"
)

// errorResponse is the JSON body returned for failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// WriteError maps an error to an HTTP status and writes a JSON error body.
// Internal detail is logged, never sent to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Any("error", err),
		)
	}
	WriteJSON(w, status, errorResponse{Error: message})
}

func statusFor(err error) (int, string) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code(), apiErr.Message()
	}
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.StatusCode(), srvErr.Message()
	}

	switch {
	case errors.Is(err, ErrAuthentication):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, recommend.ErrProvidersExhausted):
		return http.StatusServiceUnavailable, "generation providers unavailable"
	}

	var malformed *recommend.MalformedResponseError
	if errors.As(err, &malformed) {
		return http.StatusBadGateway, "generation produced an unusable response"
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return http.StatusBadRequest, "invalid request body"
	}

	return http.StatusInternalServerError, "internal server error"
}
