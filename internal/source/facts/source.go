// Package facts reads trivia from a paged public facts API. Every page is a
// JSON array of {text, source} objects.
package facts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
	"github.com/aldenluthfi/situs-backend/internal/domain"
	"github.com/aldenluthfi/situs-backend/internal/source"
)

const (
	DefaultBaseURL = "https://thefact.space"
	DefaultPages   = 26

	upstreamName = "facts"
	fetchLimit   = 4
)

type Config struct {
	BaseURL string
	// Pages is the number of pages fetched, starting at page 0.
	Pages   int
	Timeout time.Duration
}

type Source struct {
	baseURL    string
	pages      int
	httpClient *http.Client
}

var _ source.FactSource = (*Source)(nil)

func NewSource(cfg Config) *Source {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Pages <= 0 {
		cfg.Pages = DefaultPages
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Source{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		pages:      cfg.Pages,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type fact struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// ListFacts fetches every page and returns the facts in page order. Any
// failed page fails the whole listing.
func (s *Source) ListFacts(ctx context.Context) ([]domain.Fact, error) {
	start := time.Now()
	pages := make([][]fact, s.pages)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchLimit)
	for page := range s.pages {
		g.Go(func() error {
			facts, err := s.fetchPage(gctx, page)
			if err != nil {
				return err
			}
			pages[page] = facts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.NewUpstream(upstreamName, err)
	}

	out := make([]domain.Fact, 0, s.pages*100)
	for _, page := range pages {
		for _, f := range page {
			text := strings.TrimSpace(f.Text)
			if text == "" {
				continue
			}
			out = append(out, domain.Fact{Text: text, Source: strings.TrimSpace(f.Source)})
		}
	}

	slog.Info("Facts fetched", "total", len(out), "pages", s.pages, "duration", time.Since(start))
	return out, nil
}

func (s *Source) fetchPage(ctx context.Context, page int) ([]fact, error) {
	url := fmt.Sprintf("%s/facts/%d", s.baseURL, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch facts page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("failed to fetch facts page %d: status %d", page, resp.StatusCode)
	}

	var facts []fact
	if err := json.NewDecoder(resp.Body).Decode(&facts); err != nil {
		return nil, fmt.Errorf("failed to decode facts page %d: %w", page, err)
	}
	return facts, nil
}
