package response

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/logger"
	pkgctx "github.com/Gourab-ghosh21/digital-spark/internal/pkg/context"
)

type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteError converts a domain error into a consistent JSON HTTP error response.
// Non-domain errors are treated as internal errors (500) without leaking details.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	payload := ErrorPayload{Code: "internal_error", Message: domain.Message(err)}

	var de *domain.Error
	if errors.As(err, &de) {
		status = StatusFromKind(de.Kind)
		payload.Code = de.Code
		payload.Meta = de.Meta
	}
	if status >= http.StatusInternalServerError {
		logger.Ctx(r.Context()).Error().Err(err).Int("status", status).Msg("request failed")
	}
	payload.RequestID = pkgctx.GetRequestID(r.Context())

	render.Status(r, status)
	render.JSON(w, r, ErrorBody{Error: payload})
}

// StatusOf returns the HTTP status WriteError would use for err.
func StatusOf(err error) int {
	var de *domain.Error
	if errors.As(err, &de) {
		return StatusFromKind(de.Kind)
	}
	return http.StatusInternalServerError
}

// StatusFromKind maps domain error kinds to HTTP status codes.
func StatusFromKind(kind domain.ErrKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	case domain.KindUnsupported:
		return http.StatusNotImplemented
	case domain.KindInfrastructure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
