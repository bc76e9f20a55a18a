package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
	"github.com/aldenluthfi/situs-backend/internal/domain"
)

func (s *Store) ReplaceFacts(ctx context.Context, facts []domain.Fact) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM facts`); err != nil {
		return fmt.Errorf("failed to clear facts: %w", err)
	}

	rows := make([][]any, 0, len(facts))
	for _, f := range facts {
		rows = append(rows, []any{f.ID, f.Text, f.Source})
	}
	if _, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"facts"},
		[]string{"id", "text", "source"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("failed to bulk insert facts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit facts: %w", err)
	}
	return nil
}

func (s *Store) RandomFact(ctx context.Context) (*domain.Fact, error) {
	var f domain.Fact
	err := s.db.QueryRow(ctx, `SELECT id, text, source FROM facts ORDER BY random() LIMIT 1`).
		Scan(&f.ID, &f.Text, &f.Source)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("fact", "random")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get random fact: %w", err)
	}
	return &f, nil
}

func (s *Store) CountFacts(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM facts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count facts: %w", err)
	}
	return n, nil
}
