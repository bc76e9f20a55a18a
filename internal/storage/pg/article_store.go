package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
	"github.com/aldenluthfi/situs-backend/internal/domain"
)

func (s *Store) UpsertArticle(ctx context.Context, a domain.Article) error {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}

	cmd := `
		INSERT INTO writings (id, title, slug, tags, created_at, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			slug = EXCLUDED.slug,
			tags = EXCLUDED.tags,
			created_at = EXCLUDED.created_at,
			last_updated = EXCLUDED.last_updated
	`
	if _, err := s.db.Exec(ctx, cmd, a.ID, a.Title, a.Slug, tags, a.CreatedAt, a.LastUpdated); err != nil {
		return fmt.Errorf("failed to upsert article %s: %w", a.ID, err)
	}
	return nil
}

func (s *Store) ListArticleVersions(ctx context.Context) (map[string]time.Time, error) {
	versions, err := queryVersions[string](ctx, s.db, `SELECT id, last_updated FROM writings`)
	if err != nil {
		return nil, fmt.Errorf("failed to list article versions: %w", err)
	}
	return versions, nil
}

func (s *Store) ListIndexedArticleVersions(ctx context.Context) (map[string]time.Time, error) {
	versions, err := queryVersions[string](ctx, s.db,
		`SELECT id, indexed_version FROM writings WHERE indexed_version IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexed article versions: %w", err)
	}
	return versions, nil
}

func (s *Store) MarkArticleIndexed(ctx context.Context, id string, version time.Time) error {
	if _, err := s.db.Exec(ctx, `UPDATE writings SET indexed_version = $2 WHERE id = $1`, id, version); err != nil {
		return fmt.Errorf("failed to mark article %s indexed: %w", id, err)
	}
	return nil
}

func (s *Store) DeleteArticles(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM writing_content WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("failed to delete article content: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM writings WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("failed to delete articles: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit article deletion: %w", err)
	}
	return nil
}

func (s *Store) ResolveArticleID(ctx context.Context, idOrSlug string) (string, error) {
	query := `
		SELECT id FROM writings
		WHERE id = $1 OR id = $2 OR slug = $1
		ORDER BY (id = $1 OR id = $2) DESC, last_updated DESC
		LIMIT 1
	`

	var id string
	err := s.db.QueryRow(ctx, query, idOrSlug, domain.CanonicalArticleID(idOrSlug)).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.NewNotFound("article", idOrSlug)
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve article %s: %w", idOrSlug, err)
	}
	return id, nil
}

func (s *Store) UpsertArticleContent(ctx context.Context, c domain.ArticleContent) error {
	cmd := `
		INSERT INTO writing_content (id, content, last_synced)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			last_synced = EXCLUDED.last_synced
	`
	if _, err := s.db.Exec(ctx, cmd, c.ID, c.Content); err != nil {
		return fmt.Errorf("failed to upsert article content %s: %w", c.ID, err)
	}
	return nil
}

func (s *Store) GetArticleWithContent(ctx context.Context, id string) (*domain.ArticleWithContent, error) {
	query := `
		SELECT w.id, w.title, w.slug, w.tags, w.created_at, w.last_updated, c.content, c.last_synced
		FROM writings w
		LEFT JOIN writing_content c ON c.id = w.id
		WHERE w.id = $1
	`

	var out domain.ArticleWithContent
	var content *string
	var lastSynced *time.Time

	err := s.db.QueryRow(ctx, query, id).Scan(
		&out.ID,
		&out.Title,
		&out.Slug,
		&out.Tags,
		&out.CreatedAt,
		&out.LastUpdated,
		&content,
		&lastSynced,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("article", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article %s: %w", id, err)
	}

	if content != nil {
		out.Content = *content
	}
	if lastSynced != nil {
		out.LastSynced = *lastSynced
	}
	return &out, nil
}

func (s *Store) ListArticles(ctx context.Context, page, pageSize int) ([]domain.Article, int64, error) {
	offset := (page - 1) * pageSize

	rows, err := s.db.Query(ctx, `
		SELECT id, title, slug, tags, created_at, last_updated
		FROM writings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}

	articles, err := pgx.CollectRows(rows, scanArticle)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan articles: %w", err)
	}

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM writings`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	return articles, total, nil
}
