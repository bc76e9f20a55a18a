package source

import (
	"context"
	"time"

	"github.com/aldenluthfi/situs-backend/internal/domain"
)

// ArticleListing is one published entry of the content source, without body.
type ArticleListing struct {
	ID          string
	Title       string
	Tags        []string
	CreatedAt   time.Time
	LastUpdated time.Time
}

// ContentSource lists published articles and fetches their bodies.
type ContentSource interface {
	// ListPublished returns every published, non-archived article. A failure
	// is fatal for the caller.
	ListPublished(ctx context.Context) ([]ArticleListing, error)
	// GetBody returns the article body rendered as markdown.
	GetBody(ctx context.Context, id string) (*domain.ArticleContent, error)
}

// CodeHost lists the owner's repositories, already enriched.
type CodeHost interface {
	// ListOwnedRepos returns non-archived, non-fork repositories. Enrichment
	// failures degrade single fields; only the listing itself can fail.
	ListOwnedRepos(ctx context.Context) ([]domain.Repository, error)
}

// FactSource lists trivia facts in source order, duplicates included.
type FactSource interface {
	ListFacts(ctx context.Context) ([]domain.Fact, error)
}
