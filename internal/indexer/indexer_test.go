package indexer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldenluthfi/situs-backend/internal/domain"
	"github.com/aldenluthfi/situs-backend/internal/engine"
	"github.com/aldenluthfi/situs-backend/internal/engine/embedded"
)

var testIndices = engine.Indices{Writings: "writings", Repositories: "repositories"}

func newEngine(t *testing.T) *embedded.Engine {
	t.Helper()
	e, err := embedded.New(embedded.Config{}, testIndices)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

// plainEngine hides the bulk capability of the wrapped engine.
type plainEngine struct {
	engine.Engine
}

func search(t *testing.T, e engine.Engine, index, q string, fields ...string) *engine.Response {
	t.Helper()
	weights := make([]engine.FieldWeight, 0, len(fields))
	for _, f := range fields {
		weights = append(weights, engine.FieldWeight{Field: f})
	}
	res, err := e.Search(context.Background(), []string{index}, engine.Request{Query: q, Size: 10, Fields: weights})
	require.NoError(t, err)
	return res
}

func TestNewWritingDocument(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	article := &domain.ArticleWithContent{
		Article: domain.NewArticle("a", "Hello World!", nil, created, created),
		Content: "## Title\n\nSome **bold** text with a [link](https://x.y).",
	}

	doc := NewWritingDocument(article)
	assert.Equal(t, "a", doc.ID)
	assert.Equal(t, "hello-world", doc.Slug)
	assert.Equal(t, "Title Some bold text with a link.", doc.Content)
	assert.NotNil(t, doc.Tags)
}

func TestNewRepositoryDocument(t *testing.T) {
	readme := "<h1>situs</h1><p>portfolio backend</p>"
	doc := NewRepositoryDocument(domain.Repository{ID: 42, Name: "situs", Readme: &readme})

	assert.Equal(t, "42", doc.ID)
	assert.Equal(t, "", doc.Description)
	assert.Equal(t, "situs portfolio backend", doc.Readme)
	assert.Equal(t, []string{}, doc.Topics)
}

func TestIndexer_ArticleLifecycle(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	idx := New(e, testIndices)

	article := &domain.ArticleWithContent{
		Article: domain.NewArticle("a", "Goroutines", []string{"go"}, time.Now(), time.Now()),
		Content: "channels everywhere",
	}
	require.NoError(t, idx.IndexArticleContent(ctx, article))
	require.Equal(t, int64(1), search(t, e, testIndices.Writings, "channels", "content").Total)

	edited := *article
	edited.Title = "Goroutines revisited"
	edited.Content = "mutexes everywhere"
	require.NoError(t, idx.IndexArticleContent(ctx, &edited))

	assert.Equal(t, int64(0), search(t, e, testIndices.Writings, "channels", "content").Total)
	res := search(t, e, testIndices.Writings, "mutexes", "content")
	require.Equal(t, int64(1), res.Total)

	var doc WritingDocument
	require.NoError(t, json.Unmarshal(res.Hits[0].Source, &doc))
	assert.Equal(t, "a", doc.ID)
	assert.Equal(t, "Goroutines revisited", doc.Title)

	require.NoError(t, idx.RemoveArticleContent(ctx, "a"))
	require.NoError(t, idx.RemoveArticleContent(ctx, "a"))
	assert.Equal(t, int64(0), search(t, e, testIndices.Writings, "mutexes", "content").Total)
}

func TestIndexer_Repositories(t *testing.T) {
	repos := []domain.Repository{
		{ID: 1, Name: "alpha", Topics: []string{"search"}},
		{ID: 2, Name: "beta", Topics: []string{"search"}},
	}

	for name, wrap := range map[string]func(*embedded.Engine) engine.Engine{
		"bulk":     func(e *embedded.Engine) engine.Engine { return e },
		"fallback": func(e *embedded.Engine) engine.Engine { return plainEngine{e} },
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			e := newEngine(t)
			idx := New(wrap(e), testIndices)

			require.NoError(t, idx.IndexRepositories(ctx, repos))
			assert.Equal(t, int64(2), search(t, e, testIndices.Repositories, "search", "topics").Total)

			require.NoError(t, idx.RemoveRepository(ctx, 1))
			require.NoError(t, idx.RemoveRepository(ctx, 1))
			res := search(t, e, testIndices.Repositories, "search", "topics")
			require.Equal(t, int64(1), res.Total)
			assert.Equal(t, "2", res.Hits[0].ID)
		})
	}
}

func TestIndexer_IndexRepositories_Empty(t *testing.T) {
	assert.NoError(t, New(newEngine(t), testIndices).IndexRepositories(context.Background(), nil))
}
