// Package indexer projects stored records into search documents and keeps
// the search indices in step with the store.
package indexer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aldenluthfi/situs-backend/internal/domain"
	"github.com/aldenluthfi/situs-backend/internal/engine"
)

type Indexer struct {
	engine  engine.Engine
	indices engine.Indices
}

func New(e engine.Engine, indices engine.Indices) *Indexer {
	return &Indexer{engine: e, indices: indices}
}

// IndexArticleContent upserts the writing document keyed by the article id.
func (i *Indexer) IndexArticleContent(ctx context.Context, article *domain.ArticleWithContent) error {
	doc := NewWritingDocument(article)
	if err := i.engine.Upsert(ctx, i.indices.Writings, doc.ID, doc); err != nil {
		return fmt.Errorf("failed to index article %s: %w", doc.ID, err)
	}
	return nil
}

// RemoveArticleContent succeeds when the document is already absent.
func (i *Indexer) RemoveArticleContent(ctx context.Context, id string) error {
	if err := i.engine.Delete(ctx, i.indices.Writings, id); err != nil {
		return fmt.Errorf("failed to remove article %s: %w", id, err)
	}
	return nil
}

func (i *Indexer) IndexRepository(ctx context.Context, repo domain.Repository) error {
	doc := NewRepositoryDocument(repo)
	if err := i.engine.Upsert(ctx, i.indices.Repositories, doc.ID, doc); err != nil {
		return fmt.Errorf("failed to index repository %s: %w", repo.Name, err)
	}
	return nil
}

func (i *Indexer) RemoveRepository(ctx context.Context, id int64) error {
	docID := domain.RepositoryDocumentID(id)
	if err := i.engine.Delete(ctx, i.indices.Repositories, docID); err != nil {
		return fmt.Errorf("failed to remove repository %s: %w", docID, err)
	}
	return nil
}

// IndexRepositories uses one bulk request when the engine supports it and
// falls back to one upsert per repository otherwise.
func (i *Indexer) IndexRepositories(ctx context.Context, repos []domain.Repository) error {
	if len(repos) == 0 {
		return nil
	}

	bulk, ok := i.engine.(engine.BulkUpserter)
	if !ok {
		for _, repo := range repos {
			if err := i.IndexRepository(ctx, repo); err != nil {
				return err
			}
		}
		return nil
	}

	docs := make(map[string]any, len(repos))
	for _, repo := range repos {
		doc := NewRepositoryDocument(repo)
		docs[doc.ID] = doc
	}
	if err := bulk.BulkUpsert(ctx, i.indices.Repositories, docs); err != nil {
		return fmt.Errorf("failed to bulk index repositories: %w", err)
	}
	slog.Debug("Repositories indexed", "total", len(docs))
	return nil
}
