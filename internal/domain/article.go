package domain

import (
	"time"

	"github.com/google/uuid"
)

// Article is the store record of a published writing. ID is assigned by the
// content source; Slug is derived from Title on every sync.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// ArticleContent holds the full markdown body of an article.
type ArticleContent struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type ArticleWithContent struct {
	Article
	Content    string    `json:"content"`
	LastSynced time.Time `json:"lastSynced,omitempty"`
}

// NewArticle builds the store record for a listing entry, recomputing the slug.
func NewArticle(id, title string, tags []string, createdAt, lastUpdated time.Time) Article {
	if tags == nil {
		tags = []string{}
	}
	return Article{
		ID:          id,
		Title:       title,
		Slug:        Slugify(title),
		Tags:        tags,
		CreatedAt:   createdAt,
		LastUpdated: lastUpdated,
	}
}

// CanonicalArticleID normalises a source page id to its hyphenated lowercase
// form. Values that are not UUIDs are returned unchanged.
func CanonicalArticleID(id string) string {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return parsed.String()
}
