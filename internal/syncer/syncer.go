// Package syncer drives a sync run: reconcile the store against a source,
// then bring the search index in line with the resulting diff.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aldenluthfi/situs-backend/internal/domain"
	"github.com/aldenluthfi/situs-backend/internal/indexer"
	"github.com/aldenluthfi/situs-backend/internal/reconcile"
	"github.com/aldenluthfi/situs-backend/pkg/utils"
)

const defaultConcurrency = 8

type Options struct {
	// Full re-indexes unchanged records too.
	Full bool
}

// Stats summarises one sync run. Pending counts stored records that a
// previous run failed to index. Failed counts records whose content refresh
// or index update failed; those failures do not abort the run.
type Stats struct {
	Created   int     `json:"created"`
	Updated   int     `json:"updated"`
	Pending   int     `json:"pending"`
	Unchanged int     `json:"unchanged"`
	Deleted   int     `json:"deleted"`
	Indexed   int     `json:"indexed"`
	Failed    int     `json:"failed"`
	Seconds   float64 `json:"durationSeconds"`
}

func (s *Stats) finish(start time.Time) {
	s.Seconds = utils.RoundDecimal(time.Since(start).Seconds(), 3)
}

// Purger drops cached query results after the index changed.
type Purger interface {
	Purge()
}

type FactStats struct {
	Fetched    int     `json:"fetched"`
	Stored     int     `json:"stored"`
	Duplicates int     `json:"duplicates"`
	Seconds    float64 `json:"durationSeconds"`
}

// Report is the outcome of SyncAll. Facts is nil when no fact source is
// configured.
type Report struct {
	Writings     *Stats     `json:"writings"`
	Repositories *Stats     `json:"repositories"`
	Facts        *FactStats `json:"facts,omitempty"`
}

var ErrFactsDisabled = errors.New("facts sync is not configured")

type Service struct {
	reconciler  *reconcile.Reconciler
	facts       *reconcile.FactReconciler
	indexer     *indexer.Indexer
	concurrency int
	purgers     []Purger
}

func NewService(r *reconcile.Reconciler, idx *indexer.Indexer, concurrency int, purgers ...Purger) *Service {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Service{
		reconciler:  r,
		indexer:     idx,
		concurrency: concurrency,
		purgers:     purgers,
	}
}

// WithFacts enables SyncFacts and the facts step of SyncAll.
func (s *Service) WithFacts(r *reconcile.FactReconciler) *Service {
	s.facts = r
	return s
}

func (s *Service) purge() {
	for _, p := range s.purgers {
		p.Purge()
	}
}

// SyncWritings reconciles the article listing, refreshes and indexes the
// content of changed articles, then drops deleted ones from the index.
func (s *Service) SyncWritings(ctx context.Context, opts Options) (*Stats, error) {
	start := time.Now()

	diff, err := s.reconciler.ReconcileArticles(ctx)
	if err != nil {
		return nil, err
	}
	defer s.purge()

	stats := &Stats{
		Created:   len(diff.Created),
		Updated:   len(diff.Updated),
		Pending:   len(diff.Pending),
		Unchanged: len(diff.Unchanged),
		Deleted:   len(diff.Deleted),
	}

	targets := diff.Changed()
	if opts.Full {
		targets = diff.All()
	}

	var indexed, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, article := range targets {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if _, err := s.refresh(gctx, article.ID); err != nil {
				failed.Add(1)
				slog.Warn("Failed to sync article content", "id", article.ID, "slug", article.Slug, "error", err)
				return nil
			}
			indexed.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to sync articles content: %w", err)
	}

	for _, id := range diff.Deleted {
		if err := s.indexer.RemoveArticleContent(ctx, id); err != nil {
			failed.Add(1)
			slog.Error("Failed to remove article from index", "id", id, "error", err)
		}
	}

	stats.Indexed = int(indexed.Load())
	stats.Failed = int(failed.Load())
	stats.finish(start)

	slog.Info("Writings sync completed", "indexed", stats.Indexed, "failed", stats.Failed, "deleted", stats.Deleted, "seconds", stats.Seconds)
	return stats, nil
}

// refresh stores the latest body of one article, indexes it and records the
// indexed version. A failed mark is logged and leaves the article pending.
func (s *Service) refresh(ctx context.Context, idOrSlug string) (*domain.ArticleWithContent, error) {
	article, err := s.reconciler.ReconcileArticleContent(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if err := s.indexer.IndexArticleContent(ctx, article); err != nil {
		return nil, err
	}
	if err := s.reconciler.MarkArticleIndexed(ctx, article); err != nil {
		slog.Warn("Failed to record indexed article version", "id", article.ID, "error", err)
	}
	return article, nil
}

// SyncWritingContent refreshes one article by id or slug and re-indexes it.
func (s *Service) SyncWritingContent(ctx context.Context, idOrSlug string) (*domain.ArticleWithContent, error) {
	article, err := s.refresh(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	s.purge()

	slog.Info("Writing content synced", "id", article.ID, "slug", article.Slug)
	return article, nil
}

func (s *Service) SyncRepositories(ctx context.Context, opts Options) (*Stats, error) {
	start := time.Now()

	diff, err := s.reconciler.ReconcileRepositories(ctx)
	if err != nil {
		return nil, err
	}
	defer s.purge()

	stats := &Stats{
		Created:   len(diff.Created),
		Updated:   len(diff.Updated),
		Pending:   len(diff.Pending),
		Unchanged: len(diff.Unchanged),
		Deleted:   len(diff.Deleted),
	}

	targets := diff.Changed()
	if opts.Full {
		targets = diff.All()
	}

	if err := s.indexer.IndexRepositories(ctx, targets); err != nil {
		return nil, err
	}
	stats.Indexed = len(targets)
	if err := s.reconciler.MarkRepositoriesIndexed(ctx, targets); err != nil {
		slog.Warn("Failed to record indexed repository versions", "error", err)
	}

	for _, id := range diff.Deleted {
		if err := s.indexer.RemoveRepository(ctx, id); err != nil {
			stats.Failed++
			slog.Error("Failed to remove repository from index", "id", id, "error", err)
		}
	}

	stats.finish(start)
	slog.Info("Repositories sync completed", "indexed", stats.Indexed, "failed", stats.Failed, "deleted", stats.Deleted, "seconds", stats.Seconds)
	return stats, nil
}

func (s *Service) SyncFacts(ctx context.Context) (*FactStats, error) {
	if s.facts == nil {
		return nil, ErrFactsDisabled
	}
	start := time.Now()

	res, err := s.facts.ReconcileFacts(ctx)
	if err != nil {
		return nil, err
	}

	stats := &FactStats{
		Fetched:    res.Fetched,
		Stored:     res.Stored,
		Duplicates: res.Duplicates,
		Seconds:    utils.RoundDecimal(time.Since(start).Seconds(), 3),
	}
	slog.Info("Facts sync completed", "stored", stats.Stored, "seconds", stats.Seconds)
	return stats, nil
}

// SyncAll runs the writings, facts and repositories syncs one after the
// other. A failing step does not prevent the later ones.
func (s *Service) SyncAll(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{}
	var errs []error

	writings, err := s.SyncWritings(ctx, opts)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to sync writings: %w", err))
	}
	report.Writings = writings

	if s.facts != nil {
		facts, err := s.SyncFacts(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to sync facts: %w", err))
		}
		report.Facts = facts
	}

	repositories, err := s.SyncRepositories(ctx, opts)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to sync repositories: %w", err))
	}
	report.Repositories = repositories

	return report, errors.Join(errs...)
}
