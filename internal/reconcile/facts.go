package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aldenluthfi/situs-backend/internal/domain"
	"github.com/aldenluthfi/situs-backend/internal/source"
	"github.com/aldenluthfi/situs-backend/internal/storage"
)

var ErrNoFacts = errors.New("facts source returned no facts")

type FactResult struct {
	Fetched    int
	Stored     int
	Duplicates int
}

// FactReconciler replaces the stored facts with the deduplicated source
// listing. Facts carry no stable upstream id, so the whole set is swapped.
type FactReconciler struct {
	store storage.FactStore
	facts source.FactSource
}

func NewFactReconciler(store storage.FactStore, facts source.FactSource) *FactReconciler {
	return &FactReconciler{store: store, facts: facts}
}

// ReconcileFacts keeps the first occurrence of every (text, source) pair and
// numbers the result from 1 in source order. An empty listing leaves the
// store untouched and returns ErrNoFacts.
func (r *FactReconciler) ReconcileFacts(ctx context.Context) (*FactResult, error) {
	start := time.Now()

	listing, err := r.facts.ListFacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list facts: %w", err)
	}
	if len(listing) == 0 {
		return nil, ErrNoFacts
	}

	seen := make(map[domain.FactKey]struct{}, len(listing))
	facts := make([]domain.Fact, 0, len(listing))
	for _, f := range listing {
		if _, dup := seen[f.Key()]; dup {
			continue
		}
		seen[f.Key()] = struct{}{}
		f.ID = int64(len(facts) + 1)
		facts = append(facts, f)
	}

	if err := r.store.ReplaceFacts(ctx, facts); err != nil {
		return nil, fmt.Errorf("failed to store facts: %w", err)
	}

	res := &FactResult{
		Fetched:    len(listing),
		Stored:     len(facts),
		Duplicates: len(listing) - len(facts),
	}
	slog.Info("Facts reconciled",
		"fetched", res.Fetched,
		"stored", res.Stored,
		"duplicates", res.Duplicates,
		"duration", time.Since(start),
	)
	return res, nil
}
