package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/studyboosters/backend/internal/ctxkeys"
	"github.com/studyboosters/backend/internal/model"
	"github.com/studyboosters/backend/internal/service"
	"github.com/studyboosters/backend/internal/store"
	"github.com/studyboosters/backend/internal/validation"
)

const (
	maxBodySize   = 1 << 20
	maxUploadSize = 16 << 20 // base64 of a 10 MB payload plus metadata
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("insufficient permissions")
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps service and store errors to status codes. Unexpected
// errors are logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", ctxkeys.RequestID(r.Context()),
		)
		message = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, validation.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, validation.ErrInvalidPayload),
		errors.Is(err, service.ErrInvalidRollNumber),
		errors.Is(err, service.ErrSubjectNameRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a size-limited JSON body into dst and validates its tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return validation.ErrPayloadTooLarge
		}
		return fmt.Errorf("%w: invalid JSON body", ErrBadRequest)
	}

	err = validation.Struct(dst)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// principal returns the authenticated caller. Routes are guarded by
// middleware, so a nil principal here means a wiring mistake.
func principal(r *http.Request) (*model.Principal, error) {
	p := ctxkeys.Principal(r.Context())
	if p == nil {
		return nil, ErrUnauthorized
	}
	return p, nil
}
