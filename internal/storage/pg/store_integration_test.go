//go:build integration

package pg

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
	"github.com/aldenluthfi/situs-backend/internal/domain"
	pkgtesting "github.com/aldenluthfi/situs-backend/pkg/testing"
)

var (
	testCtx   context.Context
	testPool  *ConnectionPool
	testStore *Store
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	container, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.PGConfig{
		Database: "situs_test_db",
		Username: "test",
		Password: "test",
	})
	if err != nil {
		panic(err)
	}

	if err := Migrate(pkgtesting.MigrationsSourceURL(), container.ConnString); err != nil {
		_ = testcontainers.TerminateContainer(container.Container)
		panic(err)
	}
	// second run must be a no-op
	if err := Migrate(pkgtesting.MigrationsSourceURL(), container.ConnString); err != nil {
		_ = testcontainers.TerminateContainer(container.Container)
		panic(err)
	}

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: container.ConnString})
	if err != nil {
		_ = testcontainers.TerminateContainer(container.Container)
		panic(err)
	}
	testStore = NewStore(testPool)

	code := m.Run()

	testPool.Close()
	_ = testcontainers.TerminateContainer(container.Container)
	os.Exit(code)
}

func truncateTables(t *testing.T) {
	t.Helper()
	_, err := testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE writing_content, writings, repositories, facts")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func ts(day int) time.Time {
	return time.Date(2024, 3, day, 10, 0, 0, 0, time.UTC)
}

func TestStore_UpsertArticle_IsIdempotent(t *testing.T) {
	truncateTables(t)

	a := domain.NewArticle("id-1", "Hello World!", []string{"go"}, ts(1), ts(2))
	require.NoError(t, testStore.UpsertArticle(testCtx, a))
	require.NoError(t, testStore.UpsertArticle(testCtx, a))

	articles, total, err := testStore.ListArticles(testCtx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, articles, 1)
	assert.Equal(t, "hello-world", articles[0].Slug)
	assert.Equal(t, []string{"go"}, articles[0].Tags)
	assert.True(t, ts(2).Equal(articles[0].LastUpdated))
}

func TestStore_UpsertArticle_RecomputesSlug(t *testing.T) {
	truncateTables(t)

	require.NoError(t, testStore.UpsertArticle(testCtx, domain.NewArticle("id-1", "Hello World!", nil, ts(1), ts(1))))
	require.NoError(t, testStore.UpsertArticle(testCtx, domain.NewArticle("id-1", "Hello Gophers", nil, ts(1), ts(2))))

	id, err := testStore.ResolveArticleID(testCtx, "hello-gophers")
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)

	_, err = testStore.ResolveArticleID(testCtx, "hello-world")
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestStore_ResolveArticleID_ByID(t *testing.T) {
	truncateTables(t)

	id := "1c2b3a4d-5e6f-4a1b-9c8d-7e6f5a4b3c2d"
	require.NoError(t, testStore.UpsertArticle(testCtx, domain.NewArticle(id, "Title", nil, ts(1), ts(1))))

	got, err := testStore.ResolveArticleID(testCtx, "1c2b3a4d5e6f4a1b9c8d7e6f5a4b3c2d")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestStore_ResolveArticleID_OpaqueID(t *testing.T) {
	truncateTables(t)

	require.NoError(t, testStore.UpsertArticle(testCtx, domain.NewArticle("1", "Hello World!", nil, ts(1), ts(1))))
	require.NoError(t, testStore.UpsertArticle(testCtx, domain.NewArticle("2", "1", nil, ts(2), ts(2))))

	got, err := testStore.ResolveArticleID(testCtx, "1")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	got, err = testStore.ResolveArticleID(testCtx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestStore_IndexedVersions(t *testing.T) {
	truncateTables(t)

	require.NoError(t, testStore.UpsertArticle(testCtx, domain.NewArticle("a", "A", nil, ts(1), ts(2))))
	require.NoError(t, testStore.UpsertRepository(testCtx, domain.Repository{ID: 5, Name: "r", CreatedAt: ts(1), UpdatedAt: ts(3)}))

	indexed, err := testStore.ListIndexedArticleVersions(testCtx)
	require.NoError(t, err)
	assert.Empty(t, indexed)

	require.NoError(t, testStore.MarkArticleIndexed(testCtx, "a", ts(2)))
	require.NoError(t, testStore.MarkRepositoriesIndexed(testCtx, map[int64]time.Time{5: ts(3)}))

	indexed, err = testStore.ListIndexedArticleVersions(testCtx)
	require.NoError(t, err)
	require.Contains(t, indexed, "a")
	assert.True(t, ts(2).Equal(indexed["a"]))

	repos, err := testStore.ListIndexedRepositoryVersions(testCtx)
	require.NoError(t, err)
	require.Contains(t, repos, int64(5))
	assert.True(t, ts(3).Equal(repos[5]))

	// a newer listing leaves the indexed version behind
	require.NoError(t, testStore.UpsertArticle(testCtx, domain.NewArticle("a", "A", nil, ts(1), ts(4))))
	indexed, err = testStore.ListIndexedArticleVersions(testCtx)
	require.NoError(t, err)
	assert.True(t, ts(2).Equal(indexed["a"]))
}

func TestStore_DeleteArticles_RemovesContent(t *testing.T) {
	truncateTables(t)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, testStore.UpsertArticle(testCtx, domain.NewArticle(id, "Title "+id, nil, ts(1), ts(1))))
		require.NoError(t, testStore.UpsertArticleContent(testCtx, domain.ArticleContent{ID: id, Content: "body " + id}))
	}

	require.NoError(t, testStore.DeleteArticles(testCtx, []string{"c"}))
	require.NoError(t, testStore.DeleteArticles(testCtx, []string{"c"}))
	require.NoError(t, testStore.DeleteArticles(testCtx, nil))

	versions, err := testStore.ListArticleVersions(testCtx)
	require.NoError(t, err)
	assert.Len(t, versions, 2)
	assert.NotContains(t, versions, "c")

	var contentRows int
	require.NoError(t, testPool.GetConn().QueryRow(testCtx, "SELECT COUNT(*) FROM writing_content WHERE id = 'c'").Scan(&contentRows))
	assert.Zero(t, contentRows)
}

func TestStore_ArticleContent(t *testing.T) {
	truncateTables(t)

	require.NoError(t, testStore.UpsertArticle(testCtx, domain.NewArticle("a", "Title", nil, ts(1), ts(1))))

	got, err := testStore.GetArticleWithContent(testCtx, "a")
	require.NoError(t, err)
	assert.Empty(t, got.Content)

	require.NoError(t, testStore.UpsertArticleContent(testCtx, domain.ArticleContent{ID: "a", Content: "first"}))
	require.NoError(t, testStore.UpsertArticleContent(testCtx, domain.ArticleContent{ID: "a", Content: "second"}))

	got, err = testStore.GetArticleWithContent(testCtx, "a")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Content)
	assert.False(t, got.LastSynced.IsZero())

	_, err = testStore.GetArticleWithContent(testCtx, "missing")
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestStore_ListArticles_Pagination(t *testing.T) {
	truncateTables(t)

	for i := 1; i <= 25; i++ {
		a := domain.NewArticle(string(rune('a'+i)), "Title", nil, ts(i), ts(i))
		require.NoError(t, testStore.UpsertArticle(testCtx, a))
	}

	page, total, err := testStore.ListArticles(testCtx, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, page, 5)

	first, _, err := testStore.ListArticles(testCtx, 1, 10)
	require.NoError(t, err)
	assert.True(t, first[0].CreatedAt.After(first[1].CreatedAt))
}

func TestStore_Repositories(t *testing.T) {
	truncateTables(t)

	desc := "a search engine"
	readme := "# readme"
	repo := domain.Repository{
		ID:              42,
		Name:            "situs",
		Description:     &desc,
		Languages:       map[string]int{"Go": 1200, "SQL": 30},
		StargazersCount: 3,
		ForksCount:      1,
		Topics:          []string{"search", "go"},
		CreatedAt:       ts(1),
		UpdatedAt:       ts(2),
		License:         &domain.License{Key: "mit", Name: "MIT License", SpdxID: "MIT"},
		HTMLURL:         "https://github.com/example/situs",
		Readme:          &readme,
	}

	require.NoError(t, testStore.UpsertRepository(testCtx, repo))
	require.NoError(t, testStore.UpsertRepository(testCtx, repo))
	require.NoError(t, testStore.UpsertRepository(testCtx, domain.Repository{ID: 7, Name: "bare", CreatedAt: ts(3), UpdatedAt: ts(3)}))

	got, err := testStore.GetRepositoryByName(testCtx, "situs")
	require.NoError(t, err)
	assert.Equal(t, repo.Languages, got.Languages)
	assert.Equal(t, repo.Topics, got.Topics)
	require.NotNil(t, got.License)
	assert.Equal(t, "MIT", got.License.SpdxID)
	assert.Nil(t, got.CoverDarkURL)

	bare, err := testStore.GetRepositoryByName(testCtx, "bare")
	require.NoError(t, err)
	assert.Nil(t, bare.License)
	assert.Nil(t, bare.Description)
	assert.Empty(t, bare.Languages)

	all, err := testStore.ListRepositories(testCtx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(7), all[0].ID)

	require.NoError(t, testStore.DeleteRepositories(testCtx, []int64{7}))
	versions, err := testStore.ListRepositoryVersions(testCtx)
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, keys(versions))

	_, err = testStore.GetRepositoryByName(testCtx, "bare")
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestStore_Facts(t *testing.T) {
	truncateTables(t)

	_, err := testStore.RandomFact(testCtx)
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)

	require.NoError(t, testStore.ReplaceFacts(testCtx, []domain.Fact{{ID: 1, Text: "old", Source: "x"}}))
	require.NoError(t, testStore.ReplaceFacts(testCtx, []domain.Fact{
		{ID: 1, Text: "a", Source: "s"},
		{ID: 2, Text: "b"},
	}))

	n, err := testStore.CountFacts(testCtx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	f, err := testStore.RandomFact(testCtx)
	require.NoError(t, err)
	assert.Contains(t, []string{"a", "b"}, f.Text)
}

func keys(m map[int64]time.Time) []int64 {
	out := make([]int64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestHealthChecker(t *testing.T) {
	assert.True(t, NewHealthChecker(testPool).Healthy(testCtx))
	assert.False(t, NewHealthChecker(nil).Healthy(testCtx))
}
