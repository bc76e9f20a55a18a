// Package app assembles the store, search engine, sources and services from
// a loaded configuration. Both binaries share it.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aldenluthfi/situs-backend/internal/config"
	enginefactory "github.com/aldenluthfi/situs-backend/internal/engine/factory"
	"github.com/aldenluthfi/situs-backend/internal/indexer"
	"github.com/aldenluthfi/situs-backend/internal/reconcile"
	"github.com/aldenluthfi/situs-backend/internal/search"
	"github.com/aldenluthfi/situs-backend/internal/source/facts"
	"github.com/aldenluthfi/situs-backend/internal/source/github"
	"github.com/aldenluthfi/situs-backend/internal/source/notion"
	"github.com/aldenluthfi/situs-backend/internal/storage"
	"github.com/aldenluthfi/situs-backend/internal/storage/factory"
	"github.com/aldenluthfi/situs-backend/internal/syncer"
	pkgserver "github.com/aldenluthfi/situs-backend/pkg/server"
)

type App struct {
	Store      storage.Store
	Health     pkgserver.HealthChecker
	Aggregator *search.Aggregator
	Syncer     *syncer.Service

	closeEngine func() error
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	profile, err := search.LoadProfileFile(cfg.SearchProfilePath)
	if err != nil {
		return nil, err
	}

	host, err := github.NewHost(cfg.Github())
	if err != nil {
		return nil, fmt.Errorf("failed to create github client: %w", err)
	}

	store, health, err := factory.NewStore(ctx, cfg.Storage())
	if err != nil {
		return nil, err
	}

	eng, closeEngine, err := enginefactory.NewEngine(ctx, cfg.Engine())
	if err != nil {
		store.Close()
		return nil, err
	}

	indices := cfg.Indices()
	aggregator := search.NewAggregator(eng, indices, profile, cfg.SearchCache())
	reconciler := reconcile.NewReconciler(store, notion.NewSource(cfg.Notion()), host)
	service := syncer.NewService(reconciler, indexer.New(eng, indices), cfg.EnrichConcurrency, aggregator).
		WithFacts(reconcile.NewFactReconciler(store, facts.NewSource(cfg.Facts())))

	return &App{
		Store:       store,
		Health:      health,
		Aggregator:  aggregator,
		Syncer:      service,
		closeEngine: closeEngine,
	}, nil
}

func (a *App) Close() error {
	slog.Info("Releasing resources")
	a.Store.Close()
	if err := a.closeEngine(); err != nil {
		return fmt.Errorf("failed to close search engine: %w", err)
	}
	return nil
}
