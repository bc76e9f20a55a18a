package main

import (
	"log/slog"
	"os"

	"github.com/aldenluthfi/situs-backend/internal/config"
	"github.com/aldenluthfi/situs-backend/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

func (as *AppConfig) Load() (*config.Config, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/portfolio_api/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration from environment", "error", err)
		return nil, err
	}
	return cfg, nil
}
