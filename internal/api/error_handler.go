package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/microtasks/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// domainErrors maps sentinel errors to HTTP codes. The client sees the
// sentinel's message, or the full wrapped message when detailed is set.
var domainErrors = []struct {
	err      error
	code     int
	detailed bool
}{
	{err: domain.ErrMissingCredentials, code: http.StatusBadRequest},
	{err: domain.ErrInvalidCredentials, code: http.StatusBadRequest},
	{err: domain.ErrUserNotFound, code: http.StatusBadRequest},
	{err: domain.ErrInvalidRole, code: http.StatusBadRequest},
	{err: domain.ErrInvalidTask, code: http.StatusBadRequest, detailed: true},
	{err: domain.ErrPermissionDenied, code: http.StatusForbidden},
	{err: domain.ErrTaskNotFound, code: http.StatusNotFound},
	{err: domain.ErrSubmissionNotFound, code: http.StatusNotFound},
	{err: domain.ErrUserExists, code: http.StatusConflict},
	{err: domain.ErrRequestInProgress, code: http.StatusConflict},
	{err: domain.ErrInvalidStatus, code: http.StatusUnprocessableEntity},
	{err: domain.ErrInvalidTransition, code: http.StatusUnprocessableEntity},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	code, msg, unexpected := classifyError(err)
	if unexpected {
		// Log the real cause; the client only sees the generic message.
		logUnexpected(log, c, err)
	}
	return code, msg
}

// classifyError maps err to the status and client message the error handler
// renders. unexpected is set for failures that must be logged.
func classifyError(err error) (code int, msg string, unexpected bool) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			return he.Code, http.StatusText(he.Code), true
		}
		return he.Code, fmt.Sprintf("%v", he.Message), false
	}

	// Known domain errors → deterministic HTTP codes.
	for _, de := range domainErrors {
		if errors.Is(err, de.err) {
			if de.detailed {
				return de.code, err.Error(), false
			}
			return de.code, de.err.Error(), false
		}
	}

	return http.StatusInternalServerError, "internal server error", true
}

// metricsStatus labels request metrics with the status the error handler
// will write, since the response is not committed yet when a handler fails.
func metricsStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	code, _, _ := classifyError(err)
	return code
}

func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
}
