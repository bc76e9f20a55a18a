package embedded

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
	"github.com/aldenluthfi/situs-backend/internal/engine"
)

const (
	sourceField = "source_json"
	indexField  = "index_name"

	// bleve rejects edit distances above 2
	maxFuzziness = 2
)

// Config selects where indices live. An empty Path keeps them in memory.
type Config struct {
	Path string
}

// Engine is a bleve-backed engine.Engine holding one bleve index per
// logical index name.
type Engine struct {
	mu      sync.RWMutex
	indices map[string]bleve.Index
	closed  bool
}

var (
	_ engine.Engine       = (*Engine)(nil)
	_ engine.BulkUpserter = (*Engine)(nil)
)

func New(cfg Config, indices engine.Indices) (*Engine, error) {
	e := &Engine{indices: make(map[string]bleve.Index)}

	for _, name := range indices.All() {
		idx, err := openIndex(cfg.Path, name)
		if err != nil {
			_ = e.Close()
			return nil, fmt.Errorf("failed to open index %s: %w", name, err)
		}
		e.indices[name] = idx
	}

	return e, nil
}

func openIndex(dir, name string) (bleve.Index, error) {
	indexMapping := buildIndexMapping()

	if dir == "" {
		return bleve.NewMemOnly(indexMapping)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name+".bleve")
	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		slog.Info("Creating embedded index", "index", name, "path", path)
		return bleve.New(path, indexMapping)
	}
	return idx, err
}

// buildIndexMapping indexes every document field dynamically and keeps the
// original JSON in a stored, unindexed field.
func buildIndexMapping() mapping.IndexMapping {
	sourceMapping := bleve.NewTextFieldMapping()
	sourceMapping.Index = false
	sourceMapping.IncludeInAll = false
	sourceMapping.IncludeTermVectors = false

	indexNameMapping := bleve.NewKeywordFieldMapping()
	indexNameMapping.IncludeInAll = false

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt(sourceField, sourceMapping)
	docMapping.AddFieldMappingsAt(indexField, indexNameMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

func (e *Engine) index(name string) (bleve.Index, error) {
	if e.closed {
		return nil, errors.New("engine is closed")
	}
	idx, ok := e.indices[name]
	if !ok {
		return nil, fmt.Errorf("unknown index %q", name)
	}
	return idx, nil
}

func toBleveDocument(index string, doc any) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("document must be a JSON object: %w", err)
	}
	fields[sourceField] = string(raw)
	fields[indexField] = index
	return fields, nil
}

func (e *Engine) Upsert(ctx context.Context, index string, id string, doc any) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	idx, err := e.index(index)
	if err != nil {
		return err
	}

	fields, err := toBleveDocument(index, doc)
	if err != nil {
		return err
	}

	if err := idx.Index(id, fields); err != nil {
		return fmt.Errorf("failed to index document %s/%s: %w", index, id, err)
	}
	return nil
}

func (e *Engine) BulkUpsert(ctx context.Context, index string, docs map[string]any) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	idx, err := e.index(index)
	if err != nil {
		return err
	}

	batch := idx.NewBatch()
	for id, doc := range docs {
		fields, err := toBleveDocument(index, doc)
		if err != nil {
			return fmt.Errorf("failed to prepare document %s: %w", id, err)
		}
		if err := batch.Index(id, fields); err != nil {
			return fmt.Errorf("failed to batch document %s: %w", id, err)
		}
	}

	if err := idx.Batch(batch); err != nil {
		return fmt.Errorf("failed to execute batch: %w", err)
	}
	slog.Info("Bulk indexing completed", "index", index, "total", len(docs))
	return nil
}

func (e *Engine) Delete(ctx context.Context, index string, id string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	idx, err := e.index(index)
	if err != nil {
		return err
	}

	if err := idx.Delete(id); err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", index, id, err)
	}
	return nil
}

func (e *Engine) Search(ctx context.Context, indices []string, req engine.Request) (*engine.Response, error) {
	if req.From < 0 || req.Size < 0 {
		return nil, apperr.NewValidation("page and page size must be positive")
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	targets := make([]bleve.Index, 0, len(indices))
	for _, name := range indices {
		idx, err := e.index(name)
		if err != nil {
			return nil, err
		}
		targets = append(targets, idx)
	}

	alias := bleve.NewIndexAlias(targets...)

	sr := bleve.NewSearchRequestOptions(buildQuery(req), req.Size, req.From, false)
	sr.Fields = []string{sourceField, indexField}
	if req.Highlight != nil && len(req.Highlight.Fields) > 0 {
		sr.Highlight = bleve.NewHighlightWithStyle("html")
		for _, f := range req.Highlight.Fields {
			sr.Highlight.AddField(f.Field)
		}
	}

	res, err := alias.SearchInContext(ctx, sr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	out := &engine.Response{
		Hits:  make([]engine.Hit, 0, len(res.Hits)),
		Total: int64(res.Total),
	}
	for _, hit := range res.Hits {
		h := engine.Hit{
			ID:        hit.ID,
			Score:     hit.Score,
			Highlight: limitFragments(hit.Fragments, req.Highlight),
		}
		if src, ok := hit.Fields[sourceField].(string); ok {
			h.Source = json.RawMessage(src)
		}
		if name, ok := hit.Fields[indexField].(string); ok {
			h.Index = name
		}
		out.Hits = append(out.Hits, h)
	}

	return out, nil
}

// buildQuery matches every query term against every field, each clause
// boosted by its field weight.
func buildQuery(req engine.Request) query.Query {
	terms := strings.Fields(req.Query)
	clauses := make([]query.Query, 0, len(terms)*len(req.Fields))

	for _, f := range req.Fields {
		for _, term := range terms {
			mq := bleve.NewMatchQuery(term)
			mq.SetField(f.Field)
			if f.Boost > 0 {
				mq.SetBoost(f.Boost)
			}
			if req.Fuzzy {
				mq.SetFuzziness(autoFuzziness(term))
			}
			clauses = append(clauses, mq)
		}
	}

	if len(clauses) == 0 {
		return bleve.NewMatchNoneQuery()
	}
	return bleve.NewDisjunctionQuery(clauses...)
}

// autoFuzziness mirrors the AUTO edit distance of Elasticsearch: exact for
// terms up to 2 characters, one edit up to 5, two beyond.
func autoFuzziness(term string) int {
	switch n := utf8.RuneCountInString(term); {
	case n <= 2:
		return 0
	case n <= 5:
		return 1
	default:
		return maxFuzziness
	}
}

func limitFragments(fragments map[string][]string, h *engine.Highlight) map[string][]string {
	if len(fragments) == 0 || h == nil {
		return nil
	}

	out := make(map[string][]string, len(fragments))
	for _, f := range h.Fields {
		frags, ok := fragments[f.Field]
		if !ok || len(frags) == 0 {
			continue
		}
		limit := f.NumberOfFragments
		if limit <= 0 {
			limit = 1
		}
		if len(frags) > limit {
			frags = frags[:limit]
		}
		out[f.Field] = frags
	}
	return out
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	var errs []error
	for name, idx := range e.indices {
		if err := idx.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close index %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
