package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"everydollar/internal/core"
	applog "everydollar/internal/log"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps the core error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrDuplicateUsername):
		return http.StatusConflict
	case core.IsAuthError(err):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"message": ...}. Unexpected errors are logged
// and replaced with a generic body so no internals leak.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()

	switch {
	case status == http.StatusInternalServerError:
		applog.FromContext(r.Context()).WithComponent(applog.ComponentHTTP).ErrorContext(r.Context(), "Request failed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err)
		msg = "Internal server error"
	case errors.Is(err, core.ErrInvalidCredentials):
		msg = "Invalid credentials"
	case errors.Is(err, core.ErrTokenMissing):
		msg = "Token is missing"
	case errors.Is(err, core.ErrTokenInvalid):
		msg = "Token is invalid"
	case status == http.StatusNotFound:
		msg = "Transaction not found"
	}

	writeJSON(w, status, messageResponse{Message: msg})
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: no data provided", core.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed JSON body", core.ErrInvalidInput)
	}
	return nil
}
