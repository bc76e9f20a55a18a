package in_mem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
	"github.com/aldenluthfi/situs-backend/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC)
}

func TestInMemStore_Articles(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStore()

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.UpsertArticle(ctx, domain.NewArticle(id, "Title "+id, nil, day(i+1), day(i+1))))
	}
	require.NoError(t, s.UpsertArticleContent(ctx, domain.ArticleContent{ID: "c", Content: "body"}))

	page, total, err := s.ListArticles(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].ID)

	require.NoError(t, s.DeleteArticles(ctx, []string{"c"}))
	require.NoError(t, s.DeleteArticles(ctx, []string{"c"}))

	_, err = s.GetArticleWithContent(ctx, "c")
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.Empty(t, s.contents)

	versions, err := s.ListArticleVersions(ctx)
	require.NoError(t, err)
	assert.Len(t, versions, 2)
}

func TestInMemStore_ResolveArticleID(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStore()

	id := "1c2b3a4d-5e6f-4a1b-9c8d-7e6f5a4b3c2d"
	require.NoError(t, s.UpsertArticle(ctx, domain.NewArticle(id, "Hello World!", nil, day(1), day(1))))

	got, err := s.ResolveArticleID(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = s.ResolveArticleID(ctx, "1c2b3a4d5e6f4a1b9c8d7e6f5a4b3c2d")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = s.ResolveArticleID(ctx, "unknown")
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestInMemStore_ResolveArticleID_OpaqueID(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStore()

	require.NoError(t, s.UpsertArticle(ctx, domain.NewArticle("1", "Hello World!", nil, day(1), day(1))))
	// slug "1" on a newer article must not shadow the id match
	require.NoError(t, s.UpsertArticle(ctx, domain.NewArticle("2", "1", nil, day(2), day(2))))

	got, err := s.ResolveArticleID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	got, err = s.ResolveArticleID(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestInMemStore_IndexedVersions(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStore()

	require.NoError(t, s.UpsertArticle(ctx, domain.NewArticle("a", "A", nil, day(1), day(2))))
	require.NoError(t, s.UpsertRepository(ctx, domain.Repository{ID: 1, Name: "r", UpdatedAt: day(3)}))

	indexed, err := s.ListIndexedArticleVersions(ctx)
	require.NoError(t, err)
	assert.Empty(t, indexed)

	require.NoError(t, s.MarkArticleIndexed(ctx, "a", day(2)))
	require.NoError(t, s.MarkArticleIndexed(ctx, "unknown", day(2)))
	require.NoError(t, s.MarkRepositoriesIndexed(ctx, map[int64]time.Time{1: day(3), 99: day(3)}))

	indexed, err = s.ListIndexedArticleVersions(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]time.Time{"a": day(2)}, indexed)

	repos, err := s.ListIndexedRepositoryVersions(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]time.Time{1: day(3)}, repos)

	require.NoError(t, s.DeleteArticles(ctx, []string{"a"}))
	require.NoError(t, s.DeleteRepositories(ctx, []int64{1}))
	indexed, err = s.ListIndexedArticleVersions(ctx)
	require.NoError(t, err)
	assert.Empty(t, indexed)
	repos, err = s.ListIndexedRepositoryVersions(ctx)
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestInMemStore_ArticleContent(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStore()
	s.now = func() time.Time { return day(9) }

	err := s.UpsertArticleContent(ctx, domain.ArticleContent{ID: "orphan", Content: "x"})
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)

	require.NoError(t, s.UpsertArticle(ctx, domain.NewArticle("a", "A", nil, day(1), day(1))))
	require.NoError(t, s.UpsertArticleContent(ctx, domain.ArticleContent{ID: "a", Content: "body"}))

	got, err := s.GetArticleWithContent(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "body", got.Content)
	assert.Equal(t, day(9), got.LastSynced)
}

func TestInMemStore_ListArticles_OutOfRange(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStore()
	require.NoError(t, s.UpsertArticle(ctx, domain.NewArticle("a", "A", nil, day(1), day(1))))

	page, total, err := s.ListArticles(ctx, 5, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Empty(t, page)

	page, _, err = s.ListArticles(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestInMemStore_Repositories(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStore()

	require.NoError(t, s.UpsertRepository(ctx, domain.Repository{ID: 1, Name: "old", CreatedAt: day(1), UpdatedAt: day(1)}))
	require.NoError(t, s.UpsertRepository(ctx, domain.Repository{ID: 2, Name: "new", CreatedAt: day(2), UpdatedAt: day(2)}))
	require.NoError(t, s.UpsertRepository(ctx, domain.Repository{ID: 2, Name: "new", CreatedAt: day(2), UpdatedAt: day(3)}))

	all, err := s.ListRepositories(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(2), all[0].ID)

	got, err := s.GetRepositoryByName(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, day(3), got.UpdatedAt)

	require.NoError(t, s.DeleteRepositories(ctx, []int64{1}))
	_, err = s.GetRepositoryByName(ctx, "old")
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)

	versions, err := s.ListRepositoryVersions(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]time.Time{2: day(3)}, versions)
}

func TestInMemStore_Facts(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStore()

	_, err := s.RandomFact(ctx)
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)

	input := []domain.Fact{{ID: 1, Text: "a"}}
	require.NoError(t, s.ReplaceFacts(ctx, input))
	input[0].Text = "mutated"

	f, err := s.RandomFact(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", f.Text)

	n, err := s.CountFacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
