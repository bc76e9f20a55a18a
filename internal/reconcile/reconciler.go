// Package reconcile mirrors the external sources into the relational store:
// every fetched record is upserted, then stored records the source no longer
// lists are deleted.
package reconcile

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aldenluthfi/situs-backend/internal/domain"
	"github.com/aldenluthfi/situs-backend/internal/source"
	"github.com/aldenluthfi/situs-backend/internal/storage"
)

// ArticleDiff classifies the fetched articles against the stored versions.
// Pending holds articles whose stored version is current but was never
// indexed at that version, e.g. after a failed content refresh.
type ArticleDiff struct {
	Created   []domain.Article
	Updated   []domain.Article
	Pending   []domain.Article
	Unchanged []domain.Article
	Deleted   []string
}

// Changed returns the articles the index is behind on.
func (d *ArticleDiff) Changed() []domain.Article {
	return slices.Concat(d.Created, d.Updated, d.Pending)
}

// All returns every article present in the source.
func (d *ArticleDiff) All() []domain.Article {
	return slices.Concat(d.Created, d.Updated, d.Pending, d.Unchanged)
}

type RepositoryDiff struct {
	Created   []domain.Repository
	Updated   []domain.Repository
	Pending   []domain.Repository
	Unchanged []domain.Repository
	Deleted   []int64
}

func (d *RepositoryDiff) Changed() []domain.Repository {
	return slices.Concat(d.Created, d.Updated, d.Pending)
}

func (d *RepositoryDiff) All() []domain.Repository {
	return slices.Concat(d.Created, d.Updated, d.Pending, d.Unchanged)
}

type change int

const (
	created change = iota
	updated
	pending
	unchanged
)

// classify compares the source version of a record with its stored version
// and the version it was last indexed at.
func classify[K comparable](id K, version time.Time, stored, indexed map[K]time.Time) change {
	current, ok := stored[id]
	switch {
	case !ok:
		return created
	case !current.Equal(version):
		return updated
	}
	if at, ok := indexed[id]; !ok || !at.Equal(version) {
		return pending
	}
	return unchanged
}

type Reconciler struct {
	store    storage.Store
	articles source.ContentSource
	repos    source.CodeHost
}

func NewReconciler(store storage.Store, articles source.ContentSource, repos source.CodeHost) *Reconciler {
	return &Reconciler{
		store:    store,
		articles: articles,
		repos:    repos,
	}
}

func (r *Reconciler) ReconcileArticles(ctx context.Context) (*ArticleDiff, error) {
	start := time.Now()

	listings, err := r.articles.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list published articles: %w", err)
	}

	stored, err := r.store.ListArticleVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored articles: %w", err)
	}
	indexed, err := r.store.ListIndexedArticleVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexed articles: %w", err)
	}

	diff := &ArticleDiff{}
	fetched := make(map[string]struct{}, len(listings))

	for _, l := range listings {
		article := domain.NewArticle(l.ID, l.Title, l.Tags, l.CreatedAt, l.LastUpdated)
		if err := r.store.UpsertArticle(ctx, article); err != nil {
			return nil, fmt.Errorf("failed to upsert article %s: %w", article.ID, err)
		}
		if _, dup := fetched[article.ID]; dup {
			continue
		}
		fetched[article.ID] = struct{}{}

		switch classify(article.ID, article.LastUpdated, stored, indexed) {
		case created:
			diff.Created = append(diff.Created, article)
		case updated:
			diff.Updated = append(diff.Updated, article)
		case pending:
			diff.Pending = append(diff.Pending, article)
		default:
			diff.Unchanged = append(diff.Unchanged, article)
		}
	}

	diff.Deleted = missing(stored, fetched)
	if err := r.store.DeleteArticles(ctx, diff.Deleted); err != nil {
		return nil, fmt.Errorf("failed to delete stale articles: %w", err)
	}

	slog.Info("Articles reconciled",
		"created", len(diff.Created),
		"updated", len(diff.Updated),
		"pending", len(diff.Pending),
		"unchanged", len(diff.Unchanged),
		"deleted", len(diff.Deleted),
		"duration", time.Since(start),
	)
	return diff, nil
}

func (r *Reconciler) ReconcileRepositories(ctx context.Context) (*RepositoryDiff, error) {
	start := time.Now()

	repos, err := r.repos.ListOwnedRepos(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned repositories: %w", err)
	}

	stored, err := r.store.ListRepositoryVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored repositories: %w", err)
	}
	indexed, err := r.store.ListIndexedRepositoryVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexed repositories: %w", err)
	}

	diff := &RepositoryDiff{}
	fetched := make(map[int64]struct{}, len(repos))

	for _, repo := range repos {
		if err := r.store.UpsertRepository(ctx, repo); err != nil {
			return nil, fmt.Errorf("failed to upsert repository %s: %w", repo.Name, err)
		}
		if _, dup := fetched[repo.ID]; dup {
			continue
		}
		fetched[repo.ID] = struct{}{}

		switch classify(repo.ID, repo.UpdatedAt, stored, indexed) {
		case created:
			diff.Created = append(diff.Created, repo)
		case updated:
			diff.Updated = append(diff.Updated, repo)
		case pending:
			diff.Pending = append(diff.Pending, repo)
		default:
			diff.Unchanged = append(diff.Unchanged, repo)
		}
	}

	diff.Deleted = missing(stored, fetched)
	if err := r.store.DeleteRepositories(ctx, diff.Deleted); err != nil {
		return nil, fmt.Errorf("failed to delete stale repositories: %w", err)
	}

	slog.Info("Repositories reconciled",
		"created", len(diff.Created),
		"updated", len(diff.Updated),
		"pending", len(diff.Pending),
		"unchanged", len(diff.Unchanged),
		"deleted", len(diff.Deleted),
		"duration", time.Since(start),
	)
	return diff, nil
}

// ReconcileArticleContent refreshes the body of one stored article from the
// source. idOrSlug that matches no stored article yields apperr.NotFoundError
// without contacting the source.
func (r *Reconciler) ReconcileArticleContent(ctx context.Context, idOrSlug string) (*domain.ArticleWithContent, error) {
	id, err := r.store.ResolveArticleID(ctx, idOrSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve article %s: %w", idOrSlug, err)
	}

	content, err := r.articles.GetBody(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content of article %s: %w", id, err)
	}
	content.ID = id

	if err := r.store.UpsertArticleContent(ctx, *content); err != nil {
		return nil, fmt.Errorf("failed to store content of article %s: %w", id, err)
	}

	article, err := r.store.GetArticleWithContent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load article %s: %w", id, err)
	}
	return article, nil
}

// MarkArticleIndexed records that the index holds article at its current
// version, so later incremental passes skip it.
func (r *Reconciler) MarkArticleIndexed(ctx context.Context, article *domain.ArticleWithContent) error {
	if err := r.store.MarkArticleIndexed(ctx, article.ID, article.LastUpdated); err != nil {
		return fmt.Errorf("failed to mark article %s indexed: %w", article.ID, err)
	}
	return nil
}

func (r *Reconciler) MarkRepositoriesIndexed(ctx context.Context, repos []domain.Repository) error {
	versions := make(map[int64]time.Time, len(repos))
	for _, repo := range repos {
		versions[repo.ID] = repo.UpdatedAt
	}
	if err := r.store.MarkRepositoriesIndexed(ctx, versions); err != nil {
		return fmt.Errorf("failed to mark repositories indexed: %w", err)
	}
	return nil
}

func missing[K cmp.Ordered](stored map[K]time.Time, fetched map[K]struct{}) []K {
	out := make([]K, 0)
	for id := range stored {
		if _, ok := fetched[id]; !ok {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}
