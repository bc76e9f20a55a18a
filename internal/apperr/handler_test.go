package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
)

func handle(t *testing.T, err error, mw ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	e.GET("/x", func(c echo.Context) error { return err }, mw...)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	return rec
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		mw         []echo.MiddlewareFunc
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation",
			err:        fmt.Errorf("wrap: %w", apperr.NewValidation("Search query is required")),
			wantStatus: http.StatusBadRequest,
			wantBody:   `"error":"Search query is required"`,
		},
		{
			name:       "not found",
			err:        apperr.NewNotFound("article", "nope"),
			wantStatus: http.StatusNotFound,
			wantBody:   `"title":"not found"`,
		},
		{
			name:       "echo http error",
			err:        echo.NewHTTPError(http.StatusTeapot, "short and stout"),
			wantStatus: http.StatusTeapot,
			wantBody:   `"error":"short and stout"`,
		},
		{
			name:       "upstream uses route message",
			err:        apperr.NewUpstream("elasticsearch", errors.New("boom")),
			mw:         []echo.MiddlewareFunc{apperr.WithGenericMessage("Failed to perform search")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"error":"Failed to perform search"`,
		},
		{
			name:       "plain error hides details",
			err:        errors.New("secret dsn leaked"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"error":"internal server error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := handle(t, tt.err, tt.mw...)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotContains(t, rec.Body.String(), "secret")
		})
	}
}
