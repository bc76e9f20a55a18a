package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
	"github.com/aldenluthfi/situs-backend/internal/storage"
	"github.com/aldenluthfi/situs-backend/internal/syncer"
)

type FactsSyncer interface {
	SyncFacts(ctx context.Context) (*syncer.FactStats, error)
}

type FactsRouter struct {
	e      *echo.Echo
	store  storage.FactStore
	syncer FactsSyncer
}

func NewFactsRouter(e *echo.Echo, store storage.FactStore, s FactsSyncer) *FactsRouter {
	return &FactsRouter{
		e:      e,
		store:  store,
		syncer: s,
	}
}

func (r *FactsRouter) Bind() {
	g := r.e.Group("/facts")
	g.GET("", r.randomHandler, apperr.WithGenericMessage("Failed to fetch facts"))
	g.GET("/sync", r.syncHandler, apperr.WithGenericMessage("Failed to sync facts"))
}

// randomHandler godoc
// @Summary Get a random fact
// @Description An empty fact table is filled from the facts source before answering.
// @Tags facts
// @Produce json
// @Success 200 {object} domain.Fact
// @Failure 500 {object} map[string]string
// @Router /facts [get]
func (r *FactsRouter) randomHandler(c echo.Context) error {
	ctx := c.Request().Context()

	fact, err := r.store.RandomFact(ctx)
	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		slog.Info("No facts stored, syncing before answering")
		if _, err := r.syncer.SyncFacts(ctx); err != nil {
			return err
		}
		fact, err = r.store.RandomFact(ctx)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fact)
}

type factsSyncResponse struct {
	Message string            `json:"message"`
	Stats   *syncer.FactStats `json:"stats"`
}

// syncHandler godoc
// @Summary Sync facts
// @Description Replaces the stored facts with the deduplicated source listing.
// @Tags facts
// @Produce json
// @Success 200 {object} factsSyncResponse
// @Failure 500 {object} map[string]string
// @Router /facts/sync [get]
func (r *FactsRouter) syncHandler(c echo.Context) error {
	stats, err := r.syncer.SyncFacts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, factsSyncResponse{Message: "Facts synced", Stats: stats})
}
