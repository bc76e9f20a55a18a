package storage

import (
	"context"
	"time"

	"github.com/aldenluthfi/situs-backend/internal/domain"
)

// ArticleStore persists article listings and their bodies.
type ArticleStore interface {
	// UpsertArticle inserts or fully replaces the record with the same id.
	UpsertArticle(ctx context.Context, article domain.Article) error
	// ListArticleVersions returns the lastUpdated of every stored article.
	ListArticleVersions(ctx context.Context) (map[string]time.Time, error)
	// ListIndexedArticleVersions returns the lastUpdated each article was last
	// indexed at. Articles that were never indexed are absent.
	ListIndexedArticleVersions(ctx context.Context) (map[string]time.Time, error)
	// MarkArticleIndexed records that the article is indexed at version. It is
	// a no-op for unknown ids.
	MarkArticleIndexed(ctx context.Context, id string, version time.Time) error
	// DeleteArticles removes the articles and their content rows in one
	// transaction.
	DeleteArticles(ctx context.Context, ids []string) error
	// ResolveArticleID maps an article id or slug to the stored id. An exact
	// id match wins over a slug match. It returns an apperr.NotFoundError when
	// neither matches.
	ResolveArticleID(ctx context.Context, idOrSlug string) (string, error)
	UpsertArticleContent(ctx context.Context, content domain.ArticleContent) error
	GetArticleWithContent(ctx context.Context, id string) (*domain.ArticleWithContent, error)
	// ListArticles pages through articles newest first and reports the total.
	ListArticles(ctx context.Context, page, pageSize int) ([]domain.Article, int64, error)
}

// RepositoryStore persists enriched repositories keyed by their numeric id.
type RepositoryStore interface {
	UpsertRepository(ctx context.Context, repo domain.Repository) error
	ListRepositoryVersions(ctx context.Context) (map[int64]time.Time, error)
	ListIndexedRepositoryVersions(ctx context.Context) (map[int64]time.Time, error)
	MarkRepositoriesIndexed(ctx context.Context, versions map[int64]time.Time) error
	DeleteRepositories(ctx context.Context, ids []int64) error
	ListRepositories(ctx context.Context) ([]domain.Repository, error)
	GetRepositoryByName(ctx context.Context, name string) (*domain.Repository, error)
}

// FactStore keeps the trivia facts shown by the random fact endpoint.
type FactStore interface {
	// ReplaceFacts swaps the stored facts for facts in one transaction.
	ReplaceFacts(ctx context.Context, facts []domain.Fact) error
	// RandomFact returns an apperr.NotFoundError when no fact is stored.
	RandomFact(ctx context.Context) (*domain.Fact, error)
	CountFacts(ctx context.Context) (int64, error)
}

type Store interface {
	ArticleStore
	RepositoryStore
	FactStore
	Close()
}

type Type string

const (
	PG    Type = "pg"
	InMem Type = "in_mem"
)

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported store type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}
