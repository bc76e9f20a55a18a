// Package sourcemock provides testify mocks of the source interfaces.
package sourcemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/aldenluthfi/situs-backend/internal/domain"
	"github.com/aldenluthfi/situs-backend/internal/source"
)

type ContentSource struct {
	mock.Mock
}

var _ source.ContentSource = (*ContentSource)(nil)

func (m *ContentSource) ListPublished(ctx context.Context) ([]source.ArticleListing, error) {
	args := m.Called(ctx)
	listings, _ := args.Get(0).([]source.ArticleListing)
	return listings, args.Error(1)
}

func (m *ContentSource) GetBody(ctx context.Context, id string) (*domain.ArticleContent, error) {
	args := m.Called(ctx, id)
	content, _ := args.Get(0).(*domain.ArticleContent)
	return content, args.Error(1)
}

type CodeHost struct {
	mock.Mock
}

var _ source.CodeHost = (*CodeHost)(nil)

func (m *CodeHost) ListOwnedRepos(ctx context.Context) ([]domain.Repository, error) {
	args := m.Called(ctx)
	repos, _ := args.Get(0).([]domain.Repository)
	return repos, args.Error(1)
}

type FactSource struct {
	mock.Mock
}

var _ source.FactSource = (*FactSource)(nil)

func (m *FactSource) ListFacts(ctx context.Context) ([]domain.Fact, error) {
	args := m.Called(ctx)
	facts, _ := args.Get(0).([]domain.Fact)
	return facts, args.Error(1)
}
