package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aldenluthfi/situs-backend/internal/engine"
	"github.com/aldenluthfi/situs-backend/internal/engine/embedded"
	"github.com/aldenluthfi/situs-backend/internal/engine/es"
	enginefactory "github.com/aldenluthfi/situs-backend/internal/engine/factory"
	"github.com/aldenluthfi/situs-backend/internal/search"
	"github.com/aldenluthfi/situs-backend/internal/server"
	"github.com/aldenluthfi/situs-backend/internal/source/facts"
	"github.com/aldenluthfi/situs-backend/internal/source/github"
	"github.com/aldenluthfi/situs-backend/internal/source/notion"
	"github.com/aldenluthfi/situs-backend/internal/storage"
	"github.com/aldenluthfi/situs-backend/internal/storage/factory"
	"github.com/aldenluthfi/situs-backend/internal/storage/pg"
	"github.com/aldenluthfi/situs-backend/pkg/utils"
)

// Config is the process configuration read from the environment.
type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	Port        string `mapstructure:"PORT"`
	UseHttp2    bool   `mapstructure:"USE_HTTP2"`
	CorsOrigins string `mapstructure:"CORS_ORIGINS"`

	StoreType      string `mapstructure:"STORE_TYPE"`
	PgConnStr      string `mapstructure:"PG_CONNECTION_STRING"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`
	MigrateOnStart bool   `mapstructure:"MIGRATE_ON_START"`
	PgMaxConns     int32  `mapstructure:"PG_MAX_CONNS"`

	SearchBackend       string        `mapstructure:"SEARCH_BACKEND"`
	EsAddresses         string        `mapstructure:"ES_ADDRESSES"`
	EsUsername          string        `mapstructure:"ES_USERNAME"`
	EsPassword          string        `mapstructure:"ES_PASSWORD"`
	EsWritingsIndex     string        `mapstructure:"ES_WRITINGS_INDEX"`
	EsRepositoriesIndex string        `mapstructure:"ES_REPOSITORIES_INDEX"`
	BlevePath           string        `mapstructure:"BLEVE_PATH"`
	SearchProfilePath   string        `mapstructure:"SEARCH_PROFILE_PATH"`
	SearchCacheSize     int           `mapstructure:"SEARCH_CACHE_SIZE"`
	SearchCacheTTL      time.Duration `mapstructure:"SEARCH_CACHE_TTL"`

	NotionAPIKey     string        `mapstructure:"NOTION_API_KEY"`
	NotionDatabaseID string        `mapstructure:"NOTION_WRITINGS_DATABASE_ID"`
	NotionBaseURL    string        `mapstructure:"NOTION_BASE_URL"`
	NotionTimeout    time.Duration `mapstructure:"NOTION_TIMEOUT"`

	GithubToken          string `mapstructure:"GITHUB_TOKEN"`
	GithubBaseURL        string `mapstructure:"GITHUB_BASE_URL"`
	GithubCoverLightPath string `mapstructure:"GITHUB_COVER_LIGHT_PATH"`
	GithubCoverDarkPath  string `mapstructure:"GITHUB_COVER_DARK_PATH"`

	FactsBaseURL string        `mapstructure:"FACTS_BASE_URL"`
	FactsPages   int           `mapstructure:"FACTS_PAGES"`
	FactsTimeout time.Duration `mapstructure:"FACTS_TIMEOUT"`

	EnrichConcurrency int `mapstructure:"SYNC_ENRICH_CONCURRENCY"`
}

var defaults = map[string]any{
	"ENV":                         "",
	"LOG_LEVEL":                   "info",
	"PORT":                        "8080",
	"USE_HTTP2":                   false,
	"CORS_ORIGINS":                "*",
	"STORE_TYPE":                  string(storage.PG),
	"PG_CONNECTION_STRING":        "",
	"MIGRATIONS_PATH":             "file://db/migrations",
	"MIGRATE_ON_START":            false,
	"PG_MAX_CONNS":                10,
	"SEARCH_BACKEND":              string(engine.Elasticsearch),
	"ES_ADDRESSES":                "http://localhost:9200",
	"ES_USERNAME":                 "",
	"ES_PASSWORD":                 "",
	"ES_WRITINGS_INDEX":           "writings",
	"ES_REPOSITORIES_INDEX":       "repositories",
	"BLEVE_PATH":                  "",
	"SEARCH_PROFILE_PATH":         "",
	"SEARCH_CACHE_SIZE":           0,
	"SEARCH_CACHE_TTL":            "30s",
	"NOTION_API_KEY":              "",
	"NOTION_WRITINGS_DATABASE_ID": "",
	"NOTION_BASE_URL":             notion.DefaultBaseURL,
	"NOTION_TIMEOUT":              "30s",
	"GITHUB_TOKEN":                "",
	"GITHUB_BASE_URL":             "",
	"GITHUB_COVER_LIGHT_PATH":     "",
	"GITHUB_COVER_DARK_PATH":      "",
	"FACTS_BASE_URL":              facts.DefaultBaseURL,
	"FACTS_PAGES":                 facts.DefaultPages,
	"FACTS_TIMEOUT":               "30s",
	"SYNC_ENRICH_CONCURRENCY":     8,
}

// Load reads every key from the environment on top of the defaults.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if err := validatePort(c.Port); err != nil {
		return err
	}

	switch storage.Type(c.StoreType) {
	case storage.PG:
		if c.PgConnStr == "" {
			return fmt.Errorf("PG_CONNECTION_STRING is required when STORE_TYPE is %s", storage.PG)
		}
	case storage.InMem:
	default:
		return fmt.Errorf(string(storage.ErrUnsupportedStorer), c.StoreType)
	}

	switch engine.Backend(c.SearchBackend) {
	case engine.Elasticsearch:
		if len(utils.SplitTrim(c.EsAddresses, ",")) == 0 {
			return fmt.Errorf("ES_ADDRESSES is required when SEARCH_BACKEND is %s", engine.Elasticsearch)
		}
	case engine.Bleve:
	default:
		return fmt.Errorf("unsupported search backend: %s", c.SearchBackend)
	}

	if c.EsWritingsIndex == "" || c.EsRepositoriesIndex == "" {
		return fmt.Errorf("index names must not be empty")
	}
	if c.EsWritingsIndex == c.EsRepositoriesIndex {
		return fmt.Errorf("writings and repositories must use different indices")
	}
	if c.SearchCacheSize < 0 {
		return fmt.Errorf("SEARCH_CACHE_SIZE must not be negative")
	}
	if c.FactsPages < 1 {
		return fmt.Errorf("FACTS_PAGES must be at least 1")
	}
	if c.EnrichConcurrency < 1 {
		return fmt.Errorf("SYNC_ENRICH_CONCURRENCY must be at least 1")
	}
	return nil
}

func validatePort(port string) error {
	p, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid PORT %q: %w", port, err)
	}
	if p < 1 || p > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", p)
	}
	return nil
}

// RequireSources fails when a sync could not reach the upstream APIs.
func (c *Config) RequireSources() error {
	var missing []string
	if c.NotionAPIKey == "" {
		missing = append(missing, "NOTION_API_KEY")
	}
	if c.NotionDatabaseID == "" {
		missing = append(missing, "NOTION_WRITINGS_DATABASE_ID")
	}
	if c.GithubToken == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *Config) Server() server.Config {
	return server.Config{
		Port:        c.Port,
		UseHttp2:    c.UseHttp2,
		CorsOrigins: utils.SplitTrim(c.CorsOrigins, ","),
	}
}

func (c *Config) Storage() factory.StorageConfig {
	cfg := factory.StorageConfig{
		Type:    storage.Type(c.StoreType),
		Migrate: c.MigrateOnStart,
	}
	if cfg.Type == storage.PG {
		cfg.Pg = &pg.PoolConfig{
			ConnStr:        c.PgConnStr,
			MigrationsPath: c.MigrationsPath,
			MaxConns:       c.PgMaxConns,
		}
	}
	return cfg
}

func (c *Config) Indices() engine.Indices {
	return engine.Indices{
		Writings:     c.EsWritingsIndex,
		Repositories: c.EsRepositoriesIndex,
	}
}

func (c *Config) Engine() enginefactory.EngineConfig {
	cfg := enginefactory.EngineConfig{
		Backend: engine.Backend(c.SearchBackend),
		Indices: c.Indices(),
	}
	switch cfg.Backend {
	case engine.Elasticsearch:
		cfg.Es = &es.ClientConfig{
			Addresses: utils.SplitTrim(c.EsAddresses, ","),
			Username:  c.EsUsername,
			Password:  c.EsPassword,
		}
	case engine.Bleve:
		cfg.Embedded = &embedded.Config{Path: c.BlevePath}
	}
	return cfg
}

func (c *Config) SearchCache() search.CacheConfig {
	return search.CacheConfig{Size: c.SearchCacheSize, TTL: c.SearchCacheTTL}
}

func (c *Config) Notion() notion.Config {
	return notion.Config{
		APIKey:     c.NotionAPIKey,
		DatabaseID: c.NotionDatabaseID,
		BaseURL:    c.NotionBaseURL,
		Properties: notion.DefaultProperties(),
		Timeout:    c.NotionTimeout,
	}
}

func (c *Config) Facts() facts.Config {
	return facts.Config{
		BaseURL: c.FactsBaseURL,
		Pages:   c.FactsPages,
		Timeout: c.FactsTimeout,
	}
}

func (c *Config) Github() github.Config {
	return github.Config{
		Token:          c.GithubToken,
		BaseURL:        c.GithubBaseURL,
		CoverLightPath: c.GithubCoverLightPath,
		CoverDarkPath:  c.GithubCoverDarkPath,
		Concurrency:    c.EnrichConcurrency,
	}
}
