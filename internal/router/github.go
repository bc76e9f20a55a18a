package router

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
	"github.com/aldenluthfi/situs-backend/internal/domain"
	"github.com/aldenluthfi/situs-backend/internal/storage"
	"github.com/aldenluthfi/situs-backend/internal/syncer"
)

type RepositoriesSyncer interface {
	SyncRepositories(ctx context.Context, opts syncer.Options) (*syncer.Stats, error)
}

type GithubRouter struct {
	e      *echo.Echo
	store  storage.RepositoryStore
	syncer RepositoriesSyncer
}

func NewGithubRouter(e *echo.Echo, store storage.RepositoryStore, s RepositoriesSyncer) *GithubRouter {
	return &GithubRouter{
		e:      e,
		store:  store,
		syncer: s,
	}
}

func (r *GithubRouter) Bind() {
	g := r.e.Group("/github/repositories")
	g.GET("", r.listHandler, apperr.WithGenericMessage("Failed to fetch repositories"))
	g.GET("/sync", r.syncHandler, apperr.WithGenericMessage("Failed to sync repositories"))
	g.GET("/:name", r.getHandler, apperr.WithGenericMessage("Failed to fetch repository"))
}

type repositoriesResponse struct {
	Count        int                 `json:"count"`
	Repositories []domain.Repository `json:"repositories"`
}

// listHandler godoc
// @Summary List repositories
// @Tags github
// @Produce json
// @Success 200 {object} repositoriesResponse
// @Router /github/repositories [get]
func (r *GithubRouter) listHandler(c echo.Context) error {
	repos, err := r.store.ListRepositories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, repositoriesResponse{Count: len(repos), Repositories: repos})
}

// getHandler godoc
// @Summary Get a repository by name
// @Tags github
// @Produce json
// @Param name path string true "Repository name"
// @Success 200 {object} domain.Repository
// @Failure 404 {object} map[string]string
// @Router /github/repositories/{name} [get]
func (r *GithubRouter) getHandler(c echo.Context) error {
	repo, err := r.store.GetRepositoryByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, repo)
}

// syncHandler godoc
// @Summary Sync repositories
// @Description Reconciles repositories with the code host and updates the search index.
// @Tags github
// @Produce json
// @Param full query bool false "Re-index unchanged repositories too"
// @Success 200 {object} syncResponse
// @Router /github/repositories/sync [get]
func (r *GithubRouter) syncHandler(c echo.Context) error {
	stats, err := r.syncer.SyncRepositories(c.Request().Context(), syncer.Options{Full: c.QueryParam("full") == "true"})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, syncResponse{Message: "Repositories synced", Stats: stats})
}
