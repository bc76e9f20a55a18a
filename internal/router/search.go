package router

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
	"github.com/aldenluthfi/situs-backend/internal/search"
	"github.com/aldenluthfi/situs-backend/pkg/pagination"
)

type Searcher interface {
	SearchWritings(ctx context.Context, query string, req pagination.OffsetRequest) (*search.Page, error)
	SearchRepositories(ctx context.Context, query string, req pagination.OffsetRequest) (*search.Page, error)
	SearchUniversal(ctx context.Context, query string, req pagination.OffsetRequest) (*search.Page, error)
}

type SearchRouter struct {
	e        *echo.Echo
	searcher Searcher
}

func NewSearchRouter(e *echo.Echo, searcher Searcher) *SearchRouter {
	return &SearchRouter{
		e:        e,
		searcher: searcher,
	}
}

func (r *SearchRouter) Bind() {
	g := r.e.Group("/search")
	g.GET("", r.searchUniversalHandler, apperr.WithGenericMessage("Failed to perform search"))
	g.GET("/writings", r.searchWritingsHandler, apperr.WithGenericMessage("Failed to search writings"))
	g.GET("/repositories", r.searchRepositoriesHandler, apperr.WithGenericMessage("Failed to search repositories"))
}

type searchFunc func(ctx context.Context, query string, req pagination.OffsetRequest) (*search.Page, error)

func (r *SearchRouter) handle(c echo.Context, fn searchFunc) error {
	query := c.QueryParam("q")
	if query == "" {
		return apperr.NewValidation(search.ErrQueryRequired)
	}
	req := pagination.ParseOffsetRequest(c.QueryParam("page"), c.QueryParam("pagesize"))

	res, err := fn(c.Request().Context(), query, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// searchUniversalHandler godoc
// @Summary Search writings and repositories
// @Description Full-text search across both indices. Every result carries a _type tag and the response a per-type breakdown.
// @Tags search
// @Produce json
// @Param q query string true "Search query"
// @Param page query int false "Page number" default(1)
// @Param pagesize query int false "Page size" default(10)
// @Success 200 {object} search.Page
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /search [get]
func (r *SearchRouter) searchUniversalHandler(c echo.Context) error {
	return r.handle(c, r.searcher.SearchUniversal)
}

// searchWritingsHandler godoc
// @Summary Search writings
// @Tags search
// @Produce json
// @Param q query string true "Search query"
// @Param page query int false "Page number" default(1)
// @Param pagesize query int false "Page size" default(10)
// @Success 200 {object} search.Page
// @Failure 400 {object} map[string]string
// @Router /search/writings [get]
func (r *SearchRouter) searchWritingsHandler(c echo.Context) error {
	return r.handle(c, r.searcher.SearchWritings)
}

// searchRepositoriesHandler godoc
// @Summary Search repositories
// @Tags search
// @Produce json
// @Param q query string true "Search query"
// @Param page query int false "Page number" default(1)
// @Param pagesize query int false "Page size" default(10)
// @Success 200 {object} search.Page
// @Failure 400 {object} map[string]string
// @Router /search/repositories [get]
func (r *SearchRouter) searchRepositoriesHandler(c echo.Context) error {
	return r.handle(c, r.searcher.SearchRepositories)
}
