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

func (s *Store) UpsertRepository(ctx context.Context, r domain.Repository) error {
	args, err := repositoryArgs(r)
	if err != nil {
		return err
	}

	cmd := `
		INSERT INTO repositories (` + repositoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			languages = EXCLUDED.languages,
			stargazers_count = EXCLUDED.stargazers_count,
			forks_count = EXCLUDED.forks_count,
			topics = EXCLUDED.topics,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at,
			license = EXCLUDED.license,
			html_url = EXCLUDED.html_url,
			readme = EXCLUDED.readme,
			cover_light_url = EXCLUDED.cover_light_url,
			cover_dark_url = EXCLUDED.cover_dark_url
	`
	if _, err := s.db.Exec(ctx, cmd, args...); err != nil {
		return fmt.Errorf("failed to upsert repository %d: %w", r.ID, err)
	}
	return nil
}

func (s *Store) ListRepositoryVersions(ctx context.Context) (map[int64]time.Time, error) {
	versions, err := queryVersions[int64](ctx, s.db, `SELECT id, updated_at FROM repositories`)
	if err != nil {
		return nil, fmt.Errorf("failed to list repository versions: %w", err)
	}
	return versions, nil
}

func (s *Store) ListIndexedRepositoryVersions(ctx context.Context) (map[int64]time.Time, error) {
	versions, err := queryVersions[int64](ctx, s.db,
		`SELECT id, indexed_version FROM repositories WHERE indexed_version IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexed repository versions: %w", err)
	}
	return versions, nil
}

func (s *Store) MarkRepositoriesIndexed(ctx context.Context, versions map[int64]time.Time) error {
	if len(versions) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(versions))
	stamps := make([]time.Time, 0, len(versions))
	for id, version := range versions {
		ids = append(ids, id)
		stamps = append(stamps, version)
	}

	cmd := `
		UPDATE repositories r SET indexed_version = v.version
		FROM unnest($1::bigint[], $2::timestamptz[]) AS v(id, version)
		WHERE r.id = v.id
	`
	if _, err := s.db.Exec(ctx, cmd, ids, stamps); err != nil {
		return fmt.Errorf("failed to mark repositories indexed: %w", err)
	}
	return nil
}

func (s *Store) DeleteRepositories(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM repositories WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("failed to delete repositories: %w", err)
	}
	return nil
}

func (s *Store) ListRepositories(ctx context.Context) ([]domain.Repository, error) {
	rows, err := s.db.Query(ctx, `SELECT `+repositoryColumns+` FROM repositories ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	repos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Repository, error) {
		return scanRepository(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan repositories: %w", err)
	}
	return repos, nil
}

func (s *Store) GetRepositoryByName(ctx context.Context, name string) (*domain.Repository, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+repositoryColumns+` FROM repositories WHERE name = $1 ORDER BY updated_at DESC LIMIT 1`,
		name,
	)

	repo, err := scanRepository(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("repository", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get repository %s: %w", name, err)
	}
	return &repo, nil
}
