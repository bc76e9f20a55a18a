package notion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
	"github.com/aldenluthfi/situs-backend/internal/domain"
	"github.com/aldenluthfi/situs-backend/internal/source"
)

const maxBlockDepth = 8

// Properties names the database columns an article is read from.
type Properties struct {
	Title      string
	Tags       string
	Created    string
	LastEdited string
}

func DefaultProperties() Properties {
	return Properties{
		Title:      "Judul",
		Tags:       "Tema",
		Created:    "Dibuat Pada",
		LastEdited: "Suntingan Terakhir",
	}
}

type Config struct {
	APIKey     string
	DatabaseID string
	BaseURL    string
	// ExcludeTag hides pages carrying it from the published listing.
	ExcludeTag string
	Properties Properties
	Timeout    time.Duration
}

type Source struct {
	client *Client
	cfg    Config
}

var _ source.ContentSource = (*Source)(nil)

func NewSource(cfg Config) *Source {
	if cfg.Properties == (Properties{}) {
		cfg.Properties = DefaultProperties()
	}
	if cfg.ExcludeTag == "" {
		cfg.ExcludeTag = "Unpublished"
	}
	return &Source{
		client: NewClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout),
		cfg:    cfg,
	}
}

func (s *Source) ListPublished(ctx context.Context) ([]source.ArticleListing, error) {
	props := s.cfg.Properties

	pages, err := s.client.QueryDatabase(ctx, s.cfg.DatabaseID, databaseQuery{
		Filter: &filter{
			Property:    props.Tags,
			MultiSelect: &multiSelectFilter{DoesNotContain: s.cfg.ExcludeTag},
		},
		Sorts: []sort{{Property: props.Created, Direction: "descending"}},
	})
	if err != nil {
		return nil, upstream(err)
	}

	listings := make([]source.ArticleListing, 0, len(pages))
	for _, p := range pages {
		if p.Archived || p.InTrash {
			continue
		}
		listing, err := s.toListing(p)
		if err != nil {
			return nil, upstream(err)
		}
		listings = append(listings, listing)
	}

	slog.Info("Fetched published articles", "pages", len(pages), "published", len(listings))
	return listings, nil
}

func (s *Source) toListing(p page) (source.ArticleListing, error) {
	props := s.cfg.Properties

	createdAt, err := timeProperty(p.Properties[props.Created], p.CreatedTime)
	if err != nil {
		return source.ArticleListing{}, fmt.Errorf("page %s: invalid %s: %w", p.ID, props.Created, err)
	}
	lastUpdated, err := timeProperty(p.Properties[props.LastEdited], p.LastEditedTime)
	if err != nil {
		return source.ArticleListing{}, fmt.Errorf("page %s: invalid %s: %w", p.ID, props.LastEdited, err)
	}

	tagProp := p.Properties[props.Tags]
	tags := make([]string, 0, len(tagProp.MultiSelect))
	for _, opt := range tagProp.MultiSelect {
		tags = append(tags, opt.Name)
	}

	titleProp := p.Properties[props.Title]
	title := plainText(titleProp.Title)
	if title == "" {
		title = plainText(titleProp.RichText)
	}

	return source.ArticleListing{
		ID:          domain.CanonicalArticleID(p.ID),
		Title:       title,
		Tags:        tags,
		CreatedAt:   createdAt,
		LastUpdated: lastUpdated,
	}, nil
}

// timeProperty reads created_time, last_edited_time or date properties and
// falls back to the page metadata when the property is absent.
func timeProperty(p property, fallback string) (time.Time, error) {
	raw := fallback
	switch {
	case p.CreatedTime != "":
		raw = p.CreatedTime
	case p.LastEditedTime != "":
		raw = p.LastEditedTime
	case p.Date != nil && p.Date.Start != "":
		raw = p.Date.Start
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func (s *Source) GetBody(ctx context.Context, id string) (*domain.ArticleContent, error) {
	id = domain.CanonicalArticleID(id)

	nodes, err := s.fetchTree(ctx, id, 0)
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NewNotFound("article", id)
		}
		return nil, upstream(err)
	}

	return &domain.ArticleContent{
		ID:      id,
		Content: renderMarkdown(nodes),
	}, nil
}

func (s *Source) fetchTree(ctx context.Context, blockID string, depth int) ([]node, error) {
	blocks, err := s.client.BlockChildren(ctx, blockID)
	if err != nil {
		return nil, err
	}

	nodes := make([]node, 0, len(blocks))
	for _, b := range blocks {
		n := node{block: b}
		// child pages are separate articles
		if b.HasChildren && b.Type != "child_page" && b.Type != "child_database" {
			if depth+1 >= maxBlockDepth {
				slog.Warn("Block nesting too deep, skipping children", "block", b.ID, "depth", depth)
			} else {
				n.children, err = s.fetchTree(ctx, b.ID, depth+1)
				if err != nil {
					return nil, err
				}
			}
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}
