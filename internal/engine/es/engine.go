package es

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/refresh"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
	"github.com/aldenluthfi/situs-backend/internal/engine"
)

const upstreamName = "elasticsearch"

type Engine struct {
	client  *elasticsearch.TypedClient
	config  ClientConfig
	builder *IndexBuilder
}

var (
	_ engine.Engine       = (*Engine)(nil)
	_ engine.BulkUpserter = (*Engine)(nil)
)

// New connects to the cluster and creates any missing index.
func New(ctx context.Context, config ClientConfig, indices engine.Indices) (*Engine, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	e := &Engine{
		client:  client,
		config:  config,
		builder: NewIndexBuilder(indices),
	}

	if err := e.EnsureIndices(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure indices exist: %w", err)
	}

	return e, nil
}

func (e *Engine) EnsureIndices(ctx context.Context) error {
	settings := e.builder.buildSettings()
	for name, mapping := range e.builder.Mappings() {
		if err := e.ensureIndex(ctx, name, settings, mapping); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) ensureIndex(ctx context.Context, name string, settings types.IndexSettings, mappings types.TypeMapping) error {
	exists, err := e.client.Indices.Exists(name).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index %s exists: %w", name, err)
	}

	if exists {
		slog.Info("Index already exists", "index", name)
		return nil
	}

	createRes, err := e.client.Indices.Create(name).
		Settings(&settings).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", name, err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index %s creation was not acknowledged", name)
	}

	slog.Info("Index created successfully", "index", name)
	return nil
}

func (e *Engine) Upsert(ctx context.Context, index string, id string, doc any) error {
	req := e.client.Index(index).Id(id).Document(doc)
	if e.config.RefreshOnWrite {
		req = req.Refresh(refresh.Waitfor)
	}

	res, err := req.Do(ctx)
	if err != nil {
		return apperr.NewUpstream(upstreamName, fmt.Errorf("failed to index document %s/%s: %w", index, id, err))
	}

	slog.Debug("Document indexed", "index", index, "id", id, "result", res.Result)
	return nil
}

func (e *Engine) Delete(ctx context.Context, index string, id string) error {
	req := e.client.Delete(index, id)
	if e.config.RefreshOnWrite {
		req = req.Refresh(refresh.Waitfor)
	}

	res, err := req.Do(ctx)
	if err != nil {
		if isNotFound(err) {
			slog.Debug("Document already absent", "index", index, "id", id)
			return nil
		}
		return apperr.NewUpstream(upstreamName, fmt.Errorf("failed to delete document %s/%s: %w", index, id, err))
	}

	slog.Debug("Document deleted", "index", index, "id", id, "result", res.Result)
	return nil
}

func (e *Engine) BulkUpsert(ctx context.Context, index string, docs map[string]any) error {
	if len(docs) == 0 {
		return nil
	}

	cfg := esutil.BulkIndexerConfig{
		Index:         index,
		Client:        e.client,
		NumWorkers:    2,
		FlushBytes:    5e+6,
		FlushInterval: 30 * time.Second,
	}
	if e.config.RefreshOnWrite {
		cfg.Refresh = "wait_for"
	}

	bi, err := esutil.NewBulkIndexer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64

	for id, doc := range docs {
		docBytes, err := json.Marshal(doc)
		if err != nil {
			slog.Error("failed to marshal document", "error", err, "id", id)
			failed.Add(1)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: id,
			Body:       bytes.NewReader(docBytes),
			OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
				successful.Add(1)
			},
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add document to bulk indexer", "error", err, "id", id)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return apperr.NewUpstream(upstreamName, fmt.Errorf("failed to close bulk indexer: %w", err))
	}

	slog.Info("Bulk indexing completed",
		"successful", successful.Load(),
		"failed", failed.Load(),
		"total", len(docs),
		"index", index)

	if n := failed.Load(); n > 0 {
		return apperr.NewUpstream(upstreamName, fmt.Errorf("failed to index %d out of %d documents", n, len(docs)))
	}
	return nil
}

func (e *Engine) Search(ctx context.Context, indices []string, req engine.Request) (*engine.Response, error) {
	slog.Debug("Executing es multi_match search",
		"indices", indices,
		"query", req.Query,
		"from", req.From,
		"size", req.Size)

	res, err := e.client.Search().
		Index(strings.Join(indices, ",")).
		Request(buildSearchRequest(req)).
		Do(ctx)
	if err != nil {
		slog.Error("Elasticsearch query failed", "error", err, "query", req.Query)
		return nil, apperr.NewUpstream(upstreamName, fmt.Errorf("failed to execute search: %w", err))
	}

	out := &engine.Response{Hits: make([]engine.Hit, 0, len(res.Hits.Hits))}
	if res.Hits.Total != nil {
		out.Total = res.Hits.Total.Value
	}

	for _, hit := range res.Hits.Hits {
		out.Hits = append(out.Hits, mapHit(hit))
	}

	slog.Debug("Es search results fetched", "total_matches", out.Total, "returned_count", len(out.Hits))
	return out, nil
}

func mapHit(hit types.Hit) engine.Hit {
	h := engine.Hit{
		Index:     hit.Index_,
		Source:    json.RawMessage(hit.Source_),
		Highlight: hit.Highlight,
	}
	if hit.Id_ != nil {
		h.ID = *hit.Id_
	}
	if hit.Score_ != nil {
		h.Score = float64(*hit.Score_)
	}
	return h
}

func isNotFound(err error) bool {
	var esErr *types.ElasticsearchError
	return errors.As(err, &esErr) && esErr.Status == http.StatusNotFound
}
