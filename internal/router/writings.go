package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
	"github.com/aldenluthfi/situs-backend/internal/domain"
	"github.com/aldenluthfi/situs-backend/internal/storage"
	"github.com/aldenluthfi/situs-backend/internal/syncer"
	"github.com/aldenluthfi/situs-backend/pkg/pagination"
)

// WritingsSyncer refreshes writings in the store and the search index.
type WritingsSyncer interface {
	SyncWritings(ctx context.Context, opts syncer.Options) (*syncer.Stats, error)
	SyncWritingContent(ctx context.Context, idOrSlug string) (*domain.ArticleWithContent, error)
}

type WritingsRouter struct {
	e      *echo.Echo
	store  storage.ArticleStore
	syncer WritingsSyncer
}

func NewWritingsRouter(e *echo.Echo, store storage.ArticleStore, s WritingsSyncer) *WritingsRouter {
	return &WritingsRouter{
		e:      e,
		store:  store,
		syncer: s,
	}
}

func (r *WritingsRouter) Bind() {
	g := r.e.Group("/writings")
	g.GET("/get_page", r.getPageHandler, apperr.WithGenericMessage("Failed to retrieve paginated writings"))
	g.GET("/sync", r.syncHandler, apperr.WithGenericMessage("Failed to sync writings"))
	g.GET("/sync/:slug", r.syncOneHandler, apperr.WithGenericMessage("Failed to sync writing"))
	g.GET("/:slug", r.getHandler, apperr.WithGenericMessage("Failed to retrieve writing"))
}

// getPageHandler godoc
// @Summary List writings
// @Description Writings newest first, without content.
// @Tags writings
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pagesize query int false "Page size" default(10)
// @Success 200 {object} pagination.OffsetResult[domain.Article]
// @Failure 400 {object} map[string]string
// @Router /writings/get_page [get]
func (r *WritingsRouter) getPageHandler(c echo.Context) error {
	req := pagination.ParseOffsetRequest(c.QueryParam("page"), c.QueryParam("pagesize"))
	if req.Page < 1 || req.Size < 1 {
		return apperr.NewValidation("page and pagesize must be positive")
	}

	articles, total, err := r.store.ListArticles(c.Request().Context(), req.Page, req.Size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewOffsetResult(articles, total, req.Page, req.Size))
}

// getHandler godoc
// @Summary Get a writing
// @Description Refreshes the writing's content from the source and re-indexes it, falling back to the stored copy when the refresh fails.
// @Tags writings
// @Produce json
// @Param slug path string true "Slug or id"
// @Success 200 {object} domain.ArticleWithContent
// @Failure 404 {object} map[string]string
// @Router /writings/{slug} [get]
func (r *WritingsRouter) getHandler(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	article, err := r.syncer.SyncWritingContent(ctx, slug)
	if err == nil {
		return c.JSON(http.StatusOK, article)
	}

	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		return err
	}
	slog.Warn("Serving stored writing, refresh failed", "slug", slug, "error", err)

	id, err := r.store.ResolveArticleID(ctx, slug)
	if err != nil {
		return err
	}
	stored, err := r.store.GetArticleWithContent(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stored)
}

type syncResponse struct {
	Message string        `json:"message"`
	Stats   *syncer.Stats `json:"stats"`
}

// syncHandler godoc
// @Summary Sync writings
// @Description Reconciles writings with the content source and updates the search index.
// @Tags writings
// @Produce json
// @Param full query bool false "Re-index unchanged writings too"
// @Success 200 {object} syncResponse
// @Failure 500 {object} map[string]string
// @Router /writings/sync [get]
func (r *WritingsRouter) syncHandler(c echo.Context) error {
	stats, err := r.syncer.SyncWritings(c.Request().Context(), syncer.Options{Full: c.QueryParam("full") == "true"})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, syncResponse{Message: "Writings synced", Stats: stats})
}

// syncOneHandler godoc
// @Summary Sync one writing
// @Tags writings
// @Produce json
// @Param slug path string true "Slug or id"
// @Success 200 {object} domain.ArticleWithContent
// @Failure 404 {object} map[string]string
// @Router /writings/sync/{slug} [get]
func (r *WritingsRouter) syncOneHandler(c echo.Context) error {
	article, err := r.syncer.SyncWritingContent(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}
