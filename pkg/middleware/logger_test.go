package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestLogger_PassesThrough(t *testing.T) {
	e := echo.New()
	e.Use(Logger(WithSkipPaths("/health")))
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, path := range []string{"/ok", "/health"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestWithSkipPaths(t *testing.T) {
	cfg := defaultOpt()
	WithSkipPaths("/health", "/swagger")(&cfg)

	e := echo.New()
	for path, skip := range map[string]bool{"/health": true, "/swagger/index.html": true, "/search": false} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), httptest.NewRecorder())
		assert.Equal(t, skip, cfg.Skipper(c), path)
	}
}
