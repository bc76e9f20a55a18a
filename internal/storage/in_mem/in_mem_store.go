package in_mem

import (
	"cmp"
	"context"
	"maps"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
	"github.com/aldenluthfi/situs-backend/internal/domain"
	"github.com/aldenluthfi/situs-backend/internal/storage"
)

type contentRecord struct {
	content    string
	lastSynced time.Time
}

// InMemStore keeps everything in process memory. It is meant for local runs
// and tests.
type InMemStore struct {
	storageLock  sync.RWMutex
	articles     map[string]domain.Article
	contents     map[string]contentRecord
	repositories map[int64]domain.Repository
	facts        []domain.Fact

	indexedArticles     map[string]time.Time
	indexedRepositories map[int64]time.Time

	now func() time.Time
}

var _ storage.Store = (*InMemStore)(nil)

func NewInMemStore() *InMemStore {
	return &InMemStore{
		articles:     make(map[string]domain.Article),
		contents:     make(map[string]contentRecord),
		repositories: make(map[int64]domain.Repository),

		indexedArticles:     make(map[string]time.Time),
		indexedRepositories: make(map[int64]time.Time),

		now: time.Now,
	}
}

func (s *InMemStore) Close() {}

func (s *InMemStore) UpsertArticle(ctx context.Context, article domain.Article) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	article.Tags = slices.Clone(article.Tags)
	if article.Tags == nil {
		article.Tags = []string{}
	}
	s.articles[article.ID] = article
	return nil
}

func (s *InMemStore) ListArticleVersions(ctx context.Context) (map[string]time.Time, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	versions := make(map[string]time.Time, len(s.articles))
	for id, a := range s.articles {
		versions[id] = a.LastUpdated
	}
	return versions, nil
}

func (s *InMemStore) ListIndexedArticleVersions(ctx context.Context) (map[string]time.Time, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	return maps.Clone(s.indexedArticles), nil
}

func (s *InMemStore) MarkArticleIndexed(ctx context.Context, id string, version time.Time) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	if _, ok := s.articles[id]; ok {
		s.indexedArticles[id] = version
	}
	return nil
}

func (s *InMemStore) DeleteArticles(ctx context.Context, ids []string) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	for _, id := range ids {
		delete(s.contents, id)
		delete(s.articles, id)
		delete(s.indexedArticles, id)
	}
	return nil
}

func (s *InMemStore) ResolveArticleID(ctx context.Context, idOrSlug string) (string, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	if a, ok := s.articles[idOrSlug]; ok {
		return a.ID, nil
	}
	if a, ok := s.articles[domain.CanonicalArticleID(idOrSlug)]; ok {
		return a.ID, nil
	}

	var match *domain.Article
	for _, a := range s.articles {
		if a.Slug != idOrSlug {
			continue
		}
		if match == nil || a.LastUpdated.After(match.LastUpdated) {
			match = &a
		}
	}
	if match == nil {
		return "", apperr.NewNotFound("article", idOrSlug)
	}
	return match.ID, nil
}

func (s *InMemStore) UpsertArticleContent(ctx context.Context, content domain.ArticleContent) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	if _, ok := s.articles[content.ID]; !ok {
		return apperr.NewNotFound("article", content.ID)
	}
	s.contents[content.ID] = contentRecord{content: content.Content, lastSynced: s.now()}
	return nil
}

func (s *InMemStore) GetArticleWithContent(ctx context.Context, id string) (*domain.ArticleWithContent, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, apperr.NewNotFound("article", id)
	}

	out := &domain.ArticleWithContent{Article: a}
	if c, ok := s.contents[id]; ok {
		out.Content = c.content
		out.LastSynced = c.lastSynced
	}
	return out, nil
}

func (s *InMemStore) ListArticles(ctx context.Context, page, pageSize int) ([]domain.Article, int64, error) {
	s.storageLock.RLock()
	all := make([]domain.Article, 0, len(s.articles))
	for _, a := range s.articles {
		all = append(all, a)
	}
	s.storageLock.RUnlock()

	slices.SortFunc(all, func(a, b domain.Article) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return pageOf(all, page, pageSize), int64(len(all)), nil
}

func pageOf[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return []T{}
	}
	from := (page - 1) * pageSize
	if from >= len(items) {
		return []T{}
	}
	to := min(from+pageSize, len(items))
	return items[from:to]
}

func (s *InMemStore) UpsertRepository(ctx context.Context, repo domain.Repository) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	s.repositories[repo.ID] = repo
	return nil
}

func (s *InMemStore) ListRepositoryVersions(ctx context.Context) (map[int64]time.Time, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	versions := make(map[int64]time.Time, len(s.repositories))
	for id, r := range s.repositories {
		versions[id] = r.UpdatedAt
	}
	return versions, nil
}

func (s *InMemStore) ListIndexedRepositoryVersions(ctx context.Context) (map[int64]time.Time, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	return maps.Clone(s.indexedRepositories), nil
}

func (s *InMemStore) MarkRepositoriesIndexed(ctx context.Context, versions map[int64]time.Time) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	for id, version := range versions {
		if _, ok := s.repositories[id]; ok {
			s.indexedRepositories[id] = version
		}
	}
	return nil
}

func (s *InMemStore) DeleteRepositories(ctx context.Context, ids []int64) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	for _, id := range ids {
		delete(s.repositories, id)
		delete(s.indexedRepositories, id)
	}
	return nil
}

func (s *InMemStore) ListRepositories(ctx context.Context) ([]domain.Repository, error) {
	s.storageLock.RLock()
	all := make([]domain.Repository, 0, len(s.repositories))
	for _, r := range s.repositories {
		all = append(all, r)
	}
	s.storageLock.RUnlock()

	slices.SortFunc(all, func(a, b domain.Repository) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return all, nil
}

func (s *InMemStore) GetRepositoryByName(ctx context.Context, name string) (*domain.Repository, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	var match *domain.Repository
	for _, r := range s.repositories {
		if r.Name != name {
			continue
		}
		if match == nil || r.UpdatedAt.After(match.UpdatedAt) {
			match = &r
		}
	}
	if match == nil {
		return nil, apperr.NewNotFound("repository", name)
	}
	return match, nil
}

func (s *InMemStore) ReplaceFacts(ctx context.Context, facts []domain.Fact) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	s.facts = slices.Clone(facts)
	return nil
}

func (s *InMemStore) RandomFact(ctx context.Context) (*domain.Fact, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	if len(s.facts) == 0 {
		return nil, apperr.NewNotFound("fact", "random")
	}
	f := s.facts[rand.IntN(len(s.facts))]
	return &f, nil
}

func (s *InMemStore) CountFacts(ctx context.Context) (int64, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	return int64(len(s.facts)), nil
}
