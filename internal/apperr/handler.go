package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// GenericMessageKey is the echo context key a route sets to override the
// message returned for unexpected failures.
const GenericMessageKey = "apperr.generic_message"

const defaultGenericMessage = "internal server error"

func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Message, "title": "validation error"})
			return
		}

		var nf *NotFoundError
		if errors.As(err, &nf) {
			_ = c.JSON(http.StatusNotFound, map[string]string{"error": nf.Error(), "title": "not found"})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, map[string]string{"error": msg})
			return
		}

		var ue *UpstreamError
		if errors.As(err, &ue) {
			slog.Error("Upstream failure", "source", ue.Source, "error", ue.Err, "uri", c.Request().RequestURI)
		} else {
			slog.Error("Unhandled error", "error", err, "uri", c.Request().RequestURI)
		}
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": genericMessage(c)})
	}
}

// WithGenericMessage is a route middleware that sets the message returned for
// unexpected failures of that route.
func WithGenericMessage(msg string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(GenericMessageKey, msg)
			return next(c)
		}
	}
}

func genericMessage(c echo.Context) string {
	if msg, ok := c.Get(GenericMessageKey).(string); ok && msg != "" {
		return msg
	}
	return defaultGenericMessage
}
