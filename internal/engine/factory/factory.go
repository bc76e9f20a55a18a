package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aldenluthfi/situs-backend/internal/engine"
	"github.com/aldenluthfi/situs-backend/internal/engine/embedded"
	"github.com/aldenluthfi/situs-backend/internal/engine/es"
)

type EngineConfig struct {
	Backend  engine.Backend
	Indices  engine.Indices
	Es       *es.ClientConfig
	Embedded *embedded.Config
}

// NewEngine builds the configured search backend. The returned close func
// releases local resources and is never nil.
func NewEngine(ctx context.Context, cfg EngineConfig) (engine.Engine, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case engine.Elasticsearch:
		if cfg.Es == nil {
			return nil, noop, fmt.Errorf("elasticsearch configuration is missing")
		}
		e, err := es.New(ctx, *cfg.Es, cfg.Indices)
		if err != nil {
			return nil, noop, err
		}
		slog.Info("Search engine ready", "backend", cfg.Backend, "addresses", cfg.Es.Addresses)
		return e, noop, nil

	case engine.Bleve:
		embeddedCfg := embedded.Config{}
		if cfg.Embedded != nil {
			embeddedCfg = *cfg.Embedded
		}
		e, err := embedded.New(embeddedCfg, cfg.Indices)
		if err != nil {
			return nil, noop, err
		}
		slog.Info("Search engine ready", "backend", cfg.Backend, "path", embeddedCfg.Path)
		return e, e.Close, nil

	default:
		return nil, noop, fmt.Errorf("unsupported search backend: %s", cfg.Backend)
	}
}
