package indexer

import (
	"time"

	"github.com/aldenluthfi/situs-backend/internal/domain"
	"github.com/aldenluthfi/situs-backend/pkg/textutil"
)

// WritingDocument is the search projection of an article and its body.
type WritingDocument struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func NewWritingDocument(article *domain.ArticleWithContent) WritingDocument {
	tags := article.Tags
	if tags == nil {
		tags = []string{}
	}
	return WritingDocument{
		ID:          article.ID,
		Title:       article.Title,
		Slug:        article.Slug,
		Content:     textutil.PlainText(article.Content),
		Tags:        tags,
		CreatedAt:   article.CreatedAt,
		LastUpdated: article.LastUpdated,
	}
}

// RepositoryDocument is the search projection of a repository. ID is the
// decimal repository id.
type RepositoryDocument struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Topics          []string  `json:"topics"`
	Readme          string    `json:"readme"`
	HTMLURL         string    `json:"html_url"`
	StargazersCount int       `json:"stargazers_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewRepositoryDocument(repo domain.Repository) RepositoryDocument {
	topics := repo.Topics
	if topics == nil {
		topics = []string{}
	}
	return RepositoryDocument{
		ID:              repo.DocumentID(),
		Name:            repo.Name,
		Description:     repo.DescriptionOrEmpty(),
		Topics:          topics,
		Readme:          textutil.PlainText(repo.ReadmeOrEmpty()),
		HTMLURL:         repo.HTMLURL,
		StargazersCount: repo.StargazersCount,
		UpdatedAt:       repo.UpdatedAt,
	}
}
