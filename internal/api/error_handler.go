package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/civicstats/identity-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
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
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. Upstream failures are
	// reported generically; the wrapped provider detail stays in the logs.
	switch {
	case errors.Is(err, domain.ErrPhoneAlreadyBound):
		return http.StatusConflict, domain.ErrPhoneAlreadyBound.Error()
	case errors.Is(err, domain.ErrPhoneNotVerified):
		return http.StatusUnprocessableEntity, domain.ErrPhoneNotVerified.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, domain.ErrUserNotFound.Error()
	case errors.Is(err, domain.ErrWeChatExchange):
		logUpstream(err, log, c)
		return http.StatusBadGateway, "identity provider unavailable"
	case errors.Is(err, domain.ErrSmsDelivery):
		logUpstream(err, log, c)
		return http.StatusBadGateway, "sms provider unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func logUpstream(err error, log zerolog.Logger, c echo.Context) {
	log.Error().
		Err(err).
		Str("path", c.Path()).
		Msg("upstream provider error")
}
