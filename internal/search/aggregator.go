// Package search answers free-text queries against the writings and
// repositories indices.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
	"github.com/aldenluthfi/situs-backend/internal/domain"
	"github.com/aldenluthfi/situs-backend/internal/engine"
	"github.com/aldenluthfi/situs-backend/pkg/apis"
	"github.com/aldenluthfi/situs-backend/pkg/pagination"
)

const ErrQueryRequired = "Search query is required"

type CacheConfig struct {
	// Size 0 disables caching.
	Size int
	TTL  time.Duration
}

type Aggregator struct {
	engine  engine.Engine
	indices engine.Indices
	profile *apis.SearchProfile
	cache   *expirable.LRU[string, *Page]
}

func NewAggregator(e engine.Engine, indices engine.Indices, profile *apis.SearchProfile, cacheCfg CacheConfig) *Aggregator {
	if profile == nil {
		profile = DefaultProfile()
	}

	a := &Aggregator{
		engine:  e,
		indices: indices,
		profile: profile,
	}
	if cacheCfg.Size > 0 {
		a.cache = expirable.NewLRU[string, *Page](cacheCfg.Size, nil, cacheCfg.TTL)
	}
	return a
}

// Purge drops every cached result page.
func (a *Aggregator) Purge() {
	if a.cache != nil {
		a.cache.Purge()
	}
}

func (a *Aggregator) SearchWritings(ctx context.Context, query string, req pagination.OffsetRequest) (*Page, error) {
	return a.search(ctx, domain.KindWriting, query, req)
}

func (a *Aggregator) SearchRepositories(ctx context.Context, query string, req pagination.OffsetRequest) (*Page, error) {
	return a.search(ctx, domain.KindRepository, query, req)
}

// SearchUniversal queries both indices at once, tags every result with its
// kind and adds a per-kind breakdown.
func (a *Aggregator) SearchUniversal(ctx context.Context, query string, req pagination.OffsetRequest) (*Page, error) {
	return a.search(ctx, "", query, req)
}

func (a *Aggregator) search(ctx context.Context, kind domain.Kind, query string, req pagination.OffsetRequest) (*Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.NewValidation(ErrQueryRequired)
	}

	key := cacheKey(kind, query, req)
	if a.cache != nil {
		if page, ok := a.cache.Get(key); ok {
			return page, nil
		}
	}

	qp, indices := a.target(kind)
	start := time.Now()

	res, err := a.engine.Search(ctx, indices, toRequest(qp, query, req.From(), req.Size))
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", strings.Join(indices, ","), err)
	}

	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		hitKind := kind
		if kind == "" {
			hitKind = a.kindOf(hit.Index)
		}
		r, err := decodeHit(hitKind, hit, kind == "")
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	page := &Page{OffsetResult: *pagination.NewOffsetResult(results, res.Total, req.Page, req.Size)}
	if kind == "" {
		page.Breakdown = newBreakdown(results, res.Total)
	}

	slog.Debug("Search completed", "kind", kind, "query", query, "total", res.Total, "took", time.Since(start))

	if a.cache != nil {
		a.cache.Add(key, page)
	}
	return page, nil
}

func (a *Aggregator) target(kind domain.Kind) (apis.QueryProfile, []string) {
	switch kind {
	case domain.KindWriting:
		return a.profile.Writings, []string{a.indices.Writings}
	case domain.KindRepository:
		return a.profile.Repositories, []string{a.indices.Repositories}
	default:
		return a.profile.Universal, a.indices.All()
	}
}

// kindOf maps a physical index name back to its document kind. Engines may
// report concrete names behind aliases, so a prefix match is accepted.
func (a *Aggregator) kindOf(index string) domain.Kind {
	switch {
	case index == a.indices.Writings:
		return domain.KindWriting
	case index == a.indices.Repositories:
		return domain.KindRepository
	case strings.HasPrefix(index, a.indices.Writings):
		return domain.KindWriting
	case strings.HasPrefix(index, a.indices.Repositories):
		return domain.KindRepository
	default:
		return ""
	}
}

func cacheKey(kind domain.Kind, query string, req pagination.OffsetRequest) string {
	if kind == "" {
		kind = "universal"
	}
	return fmt.Sprintf("%s|%d|%d|%s", kind, req.Page, req.Size, query)
}
