// Package main Situs API
// @title Situs API
// @version 1.0
// @description Portfolio backend serving writings and repositories with federated full-text search
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	_ "github.com/aldenluthfi/situs-backend/docs"
	"github.com/aldenluthfi/situs-backend/internal/app"
	"github.com/aldenluthfi/situs-backend/internal/router"
	"github.com/aldenluthfi/situs-backend/internal/server"
)

func main() {
	cfg, err := NewAppConfig().Load()
	if err != nil {
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(cfg.SlogLevel())

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to assemble application", "error", err)
		os.Exit(1)
	}

	srvCfg := cfg.Server()
	s := server.New(&srvCfg, a.Health).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Situs API is running")
	})

	router.NewSearchRouter(s.Echo, a.Aggregator).Bind()
	router.NewWritingsRouter(s.Echo, a.Store, a.Syncer).Bind()
	router.NewGithubRouter(s.Echo, a.Store, a.Syncer).Bind()
	router.NewFactsRouter(s.Echo, a.Store, a.Syncer).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	err = s.Start()
	if closeErr := a.Close(); closeErr != nil {
		slog.Error("Failed to release resources", "error", closeErr)
	}
	if err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
