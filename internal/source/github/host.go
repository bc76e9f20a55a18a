package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gh "github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
	"github.com/aldenluthfi/situs-backend/internal/domain"
	"github.com/aldenluthfi/situs-backend/internal/source"
)

const (
	perPage            = 100
	defaultConcurrency = 8
)

type Config struct {
	Token string
	// BaseURL points the client at an enterprise or test server. Empty means
	// api.github.com.
	BaseURL        string
	CoverLightPath string
	CoverDarkPath  string
	// Concurrency caps the number of repositories enriched at once.
	Concurrency int
}

// Host lists the authenticated user's repositories and enriches each with
// languages, README and cover image URLs.
type Host struct {
	gh  *gh.Client
	cfg Config
}

var _ source.CodeHost = (*Host)(nil)

func NewHost(cfg Config) (*Host, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.Token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := gh.NewClient(httpClient)
	if cfg.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure github base url: %w", err)
		}
	}

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}

	return &Host{gh: client, cfg: cfg}, nil
}

func (h *Host) ListOwnedRepos(ctx context.Context) ([]domain.Repository, error) {
	listed, err := h.listOwned(ctx)
	if err != nil {
		return nil, apperr.NewUpstream("github", err)
	}

	repos := make([]domain.Repository, len(listed))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.cfg.Concurrency)

	for i, r := range listed {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			repos[i] = h.enrich(gctx, r)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to enrich repositories: %w", err)
	}

	slog.Info("Fetched owned repositories", "total", len(repos))
	return repos, nil
}

func (h *Host) listOwned(ctx context.Context) ([]*gh.Repository, error) {
	var owned []*gh.Repository

	opts := &gh.RepositoryListByAuthenticatedUserOptions{
		Type:      "owner",
		Sort:      "updated",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			PerPage: perPage,
		},
	}

	for {
		slog.Debug("Fetching repositories page", "page", opts.Page)

		page, resp, err := h.gh.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories: %w", err)
		}

		for _, r := range page {
			if r.GetArchived() || r.GetFork() {
				continue
			}
			owned = append(owned, r)
		}

		if resp.NextPage == 0 {
			return owned, nil
		}
		opts.Page = resp.NextPage
	}
}

// enrich never fails; a failing lookup leaves its field at the default.
func (h *Host) enrich(ctx context.Context, r *gh.Repository) domain.Repository {
	repo := toDomainRepository(r)
	owner, name := r.GetOwner().GetLogin(), r.GetName()
	logger := slog.With("owner", owner, "repo", name)

	languages, _, err := h.gh.Repositories.ListLanguages(ctx, owner, name)
	if err != nil {
		logger.Warn("Failed to fetch repository languages", "error", err)
	} else if languages != nil {
		repo.Languages = languages
	}

	repo.Readme = h.readme(ctx, owner, name, logger)
	repo.CoverLightURL = h.downloadURL(ctx, owner, name, h.cfg.CoverLightPath, logger)
	repo.CoverDarkURL = h.downloadURL(ctx, owner, name, h.cfg.CoverDarkPath, logger)

	return repo
}

func (h *Host) readme(ctx context.Context, owner, name string, logger *slog.Logger) *string {
	file, _, err := h.gh.Repositories.GetReadme(ctx, owner, name, nil)
	if err != nil {
		if !isNotFound(err) {
			logger.Warn("Failed to fetch repository readme", "error", err)
		}
		return nil
	}

	content, err := file.GetContent()
	if err != nil {
		logger.Warn("Failed to decode repository readme", "error", err)
		return nil
	}
	return &content
}

func (h *Host) downloadURL(ctx context.Context, owner, name, path string, logger *slog.Logger) *string {
	if path == "" {
		return nil
	}

	file, _, _, err := h.gh.Repositories.GetContents(ctx, owner, name, path, nil)
	if err != nil {
		if !isNotFound(err) {
			logger.Warn("Failed to fetch repository file", "path", path, "error", err)
		}
		return nil
	}
	if file == nil || file.GetDownloadURL() == "" {
		return nil
	}

	url := file.GetDownloadURL()
	return &url
}

func isNotFound(err error) bool {
	var respErr *gh.ErrorResponse
	return errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound
}

func toDomainRepository(r *gh.Repository) domain.Repository {
	repo := domain.Repository{
		ID:              r.GetID(),
		Name:            r.GetName(),
		Description:     r.Description,
		Languages:       map[string]int{},
		StargazersCount: r.GetStargazersCount(),
		ForksCount:      r.GetForksCount(),
		Topics:          r.Topics,
		CreatedAt:       r.GetCreatedAt().Time.UTC(),
		UpdatedAt:       r.GetUpdatedAt().Time.UTC(),
		HTMLURL:         r.GetHTMLURL(),
	}
	if repo.Topics == nil {
		repo.Topics = []string{}
	}
	if l := r.GetLicense(); l != nil {
		repo.License = &domain.License{
			Key:    l.GetKey(),
			Name:   l.GetName(),
			SpdxID: l.GetSPDXID(),
			URL:    l.GetURL(),
		}
	}
	return repo
}
