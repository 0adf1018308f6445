package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	gerr "github.com/localconnect/catalog-manager/internal/errors"
)

// ErrResponse renders an error as {"status": ..., "error": ...}.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string `json:"status"`          // user-level status message
	ErrorText  string `json:"error,omitempty"` // application-level error message
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func newErrResponse(err error, status int, text string) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: status,
		StatusText:     http.StatusText(status),
		ErrorText:      text,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return newErrResponse(err, http.StatusBadRequest, err.Error())
}

var (
	ErrUnauthorized = newErrResponse(nil, http.StatusUnauthorized, "authentication required")
	ErrForbidden    = newErrResponse(nil, http.StatusForbidden, "cannot perform this action")
	ErrTooMany      = newErrResponse(nil, http.StatusTooManyRequests, "too many requests")
)

// errorResponse maps catalog errors to HTTP responses. Schema and storage
// details stay in the log.
func errorResponse(r *http.Request, err error) render.Renderer {
	switch {
	case errors.Is(err, gerr.ErrInvalidPage), errors.Is(err, gerr.ErrInvalidProduct):
		return ErrInvalidRequest(err)
	case errors.Is(err, gerr.ErrNotAuthorizedOrNotFound):
		return ErrForbidden
	case errors.Is(err, gerr.ErrStorageUnavailable):
		slog.Default().ErrorContext(r.Context(), "storage unavailable",
			slog.String("path", r.URL.Path),
			slog.String("err", err.Error()),
		)
		return newErrResponse(err, http.StatusServiceUnavailable, "service temporarily unavailable")
	case errors.Is(err, gerr.ErrSchemaIncompatible):
		slog.Default().ErrorContext(r.Context(), "schema incompatible",
			slog.String("path", r.URL.Path),
			slog.String("err", err.Error()),
		)
		return newErrResponse(err, http.StatusInternalServerError, "internal error")
	default:
		slog.Default().ErrorContext(r.Context(), "unexpected error",
			slog.String("path", r.URL.Path),
			slog.String("err", err.Error()),
		)
		return newErrResponse(err, http.StatusInternalServerError, "internal error")
	}
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	_ = render.Render(w, r, errorResponse(r, err))
}
