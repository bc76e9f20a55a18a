package search

import (
	"encoding/json"
	"fmt"

	"github.com/aldenluthfi/situs-backend/internal/domain"
	"github.com/aldenluthfi/situs-backend/internal/engine"
	"github.com/aldenluthfi/situs-backend/internal/indexer"
	"github.com/aldenluthfi/situs-backend/pkg/pagination"
)

// Result is either a *WritingHit or a *RepositoryHit.
type Result interface {
	Kind() domain.Kind
}

// WritingHit serialises as the indexed writing fields plus highlight and,
// in universal results, _type.
type WritingHit struct {
	indexer.WritingDocument
	Highlight map[string][]string `json:"highlight,omitempty"`
	Type      domain.Kind         `json:"_type,omitempty"`
}

func (*WritingHit) Kind() domain.Kind { return domain.KindWriting }

type RepositoryHit struct {
	indexer.RepositoryDocument
	Highlight map[string][]string `json:"highlight,omitempty"`
	Type      domain.Kind         `json:"_type,omitempty"`
}

func (*RepositoryHit) Kind() domain.Kind { return domain.KindRepository }

type TypeBreakdown struct {
	Count int   `json:"count"`
	Total int64 `json:"total"`
}

// Breakdown counts the returned results per kind. Total repeats the combined
// total under each kind.
type Breakdown struct {
	Writings     TypeBreakdown `json:"writings"`
	Repositories TypeBreakdown `json:"repositories"`
}

type Page struct {
	pagination.OffsetResult[Result]
	Breakdown *Breakdown `json:"breakdown,omitempty"`
}

func newBreakdown(results []Result, total int64) *Breakdown {
	b := &Breakdown{
		Writings:     TypeBreakdown{Total: total},
		Repositories: TypeBreakdown{Total: total},
	}
	for _, r := range results {
		switch r.Kind() {
		case domain.KindWriting:
			b.Writings.Count++
		case domain.KindRepository:
			b.Repositories.Count++
		}
	}
	return b
}

func decodeHit(kind domain.Kind, hit engine.Hit, tagged bool) (Result, error) {
	var typ domain.Kind
	if tagged {
		typ = kind
	}

	switch kind {
	case domain.KindWriting:
		r := &WritingHit{Highlight: hit.Highlight, Type: typ}
		if err := json.Unmarshal(hit.Source, &r.WritingDocument); err != nil {
			return nil, fmt.Errorf("failed to decode writing %s: %w", hit.ID, err)
		}
		return r, nil
	case domain.KindRepository:
		r := &RepositoryHit{Highlight: hit.Highlight, Type: typ}
		if err := json.Unmarshal(hit.Source, &r.RepositoryDocument); err != nil {
			return nil, fmt.Errorf("failed to decode repository %s: %w", hit.ID, err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown document kind %q", kind)
	}
}
