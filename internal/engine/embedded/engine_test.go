package embedded

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
	"github.com/aldenluthfi/situs-backend/internal/engine"
)

var testIndices = engine.Indices{Writings: "writings", Repositories: "repositories"}

type writingDoc struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type repoDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func newMemEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(Config{}, testIndices)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func writingsRequest(q string) engine.Request {
	return engine.Request{
		Query:  q,
		Size:   10,
		Fields: []engine.FieldWeight{{Field: "title"}, {Field: "content"}, {Field: "tags"}},
		Fuzzy:  true,
		Highlight: &engine.Highlight{Fields: []engine.HighlightField{
			{Field: "content", FragmentSize: 50, NumberOfFragments: 2},
			{Field: "title"},
		}},
	}
}

func TestEngine_UpsertIsIdempotent(t *testing.T) {
	e := newMemEngine(t)
	ctx := context.Background()

	doc := writingDoc{ID: "w1", Title: "Concurrency patterns", Content: "goroutines and channels", Tags: []string{"go"}}
	require.NoError(t, e.Upsert(ctx, testIndices.Writings, doc.ID, doc))
	require.NoError(t, e.Upsert(ctx, testIndices.Writings, doc.ID, doc))

	res, err := e.Search(ctx, []string{testIndices.Writings}, writingsRequest("concurrency"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	require.Len(t, res.Hits, 1)

	hit := res.Hits[0]
	assert.Equal(t, "w1", hit.ID)
	assert.Equal(t, testIndices.Writings, hit.Index)

	var got writingDoc
	require.NoError(t, json.Unmarshal(hit.Source, &got))
	assert.Equal(t, doc, got)
	require.NotEmpty(t, hit.Highlight["title"])
	assert.Contains(t, hit.Highlight["title"][0], "<mark>")
}

func TestEngine_UpsertReplacesDocument(t *testing.T) {
	e := newMemEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Upsert(ctx, testIndices.Writings, "w1", writingDoc{ID: "w1", Title: "Old title"}))
	require.NoError(t, e.Upsert(ctx, testIndices.Writings, "w1", writingDoc{ID: "w1", Title: "Fresh title"}))

	res, err := e.Search(ctx, []string{testIndices.Writings}, writingsRequest("old"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total)

	res, err = e.Search(ctx, []string{testIndices.Writings}, writingsRequest("fresh"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
}

func TestEngine_DeleteIsIdempotent(t *testing.T) {
	e := newMemEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Upsert(ctx, testIndices.Writings, "w1", writingDoc{ID: "w1", Title: "Ephemeral"}))
	require.NoError(t, e.Delete(ctx, testIndices.Writings, "w1"))
	require.NoError(t, e.Delete(ctx, testIndices.Writings, "w1"))
	require.NoError(t, e.Delete(ctx, testIndices.Writings, "never-existed"))

	res, err := e.Search(ctx, []string{testIndices.Writings}, writingsRequest("ephemeral"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total)
}

func TestEngine_FuzzyMatch(t *testing.T) {
	e := newMemEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Upsert(ctx, testIndices.Writings, "w1", writingDoc{ID: "w1", Title: "Understanding concurrency"}))

	res, err := e.Search(ctx, []string{testIndices.Writings}, writingsRequest("concurency"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)

	strict := writingsRequest("concurency")
	strict.Fuzzy = false
	res, err = e.Search(ctx, []string{testIndices.Writings}, strict)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total)
}

func TestEngine_MultiIndexSearch(t *testing.T) {
	e := newMemEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Upsert(ctx, testIndices.Writings, "w1", writingDoc{ID: "w1", Title: "Search engines"}))
	require.NoError(t, e.Upsert(ctx, testIndices.Repositories, "7", repoDoc{ID: "7", Name: "search", Description: "a tiny search engine"}))

	res, err := e.Search(ctx, testIndices.All(), engine.Request{
		Query:  "search",
		Size:   10,
		Fields: []engine.FieldWeight{{Field: "title", Boost: 3}, {Field: "name", Boost: 3}, {Field: "description"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)

	seen := map[string]string{}
	for _, h := range res.Hits {
		seen[h.Index] = h.ID
	}
	assert.Equal(t, map[string]string{testIndices.Writings: "w1", testIndices.Repositories: "7"}, seen)
}

func TestEngine_Pagination(t *testing.T) {
	e := newMemEngine(t)
	ctx := context.Background()

	docs := map[string]any{}
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		docs[id] = writingDoc{ID: id, Title: "golang notes " + id}
	}
	require.NoError(t, e.BulkUpsert(ctx, testIndices.Writings, docs))

	req := writingsRequest("golang")
	req.Size = 2
	req.From = 4

	res, err := e.Search(ctx, []string{testIndices.Writings}, req)
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Total)
	assert.Len(t, res.Hits, 1)
}

func TestEngine_RejectsNegativeOffsets(t *testing.T) {
	e := newMemEngine(t)

	req := writingsRequest("x")
	req.From = -10

	_, err := e.Search(context.Background(), []string{testIndices.Writings}, req)
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestEngine_UnknownIndex(t *testing.T) {
	e := newMemEngine(t)

	err := e.Upsert(context.Background(), "nope", "1", writingDoc{ID: "1"})
	assert.Error(t, err)
}

func TestEngine_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	e, err := New(Config{Path: dir}, testIndices)
	require.NoError(t, err)
	require.NoError(t, e.Upsert(ctx, testIndices.Repositories, "1", repoDoc{ID: "1", Name: "persistent"}))
	require.NoError(t, e.Close())

	reopened, err := New(Config{Path: dir}, testIndices)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	res, err := reopened.Search(ctx, []string{testIndices.Repositories}, engine.Request{
		Query:  "persistent",
		Size:   10,
		Fields: []engine.FieldWeight{{Field: "name"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
}

func TestAutoFuzziness(t *testing.T) {
	assert.Equal(t, 0, autoFuzziness("go"))
	assert.Equal(t, 1, autoFuzziness("rust"))
	assert.Equal(t, 1, autoFuzziness("slice"))
	assert.Equal(t, 2, autoFuzziness("channel"))
}
