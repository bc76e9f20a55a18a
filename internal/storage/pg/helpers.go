package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aldenluthfi/situs-backend/internal/domain"
)

func scanArticle(row pgx.CollectableRow) (domain.Article, error) {
	var a domain.Article
	if err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Tags, &a.CreatedAt, &a.LastUpdated); err != nil {
		return domain.Article{}, fmt.Errorf("failed to scan article: %w", err)
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return a, nil
}

const repositoryColumns = `id, name, description, languages, stargazers_count, forks_count, topics,
	created_at, updated_at, license, html_url, readme, cover_light_url, cover_dark_url`

func scanRepository(row pgx.Row) (domain.Repository, error) {
	var r domain.Repository
	var languagesJSON, licenseJSON []byte

	if err := row.Scan(
		&r.ID,
		&r.Name,
		&r.Description,
		&languagesJSON,
		&r.StargazersCount,
		&r.ForksCount,
		&r.Topics,
		&r.CreatedAt,
		&r.UpdatedAt,
		&licenseJSON,
		&r.HTMLURL,
		&r.Readme,
		&r.CoverLightURL,
		&r.CoverDarkURL,
	); err != nil {
		return domain.Repository{}, err
	}

	r.Languages = map[string]int{}
	if len(languagesJSON) > 0 {
		if err := json.Unmarshal(languagesJSON, &r.Languages); err != nil {
			return domain.Repository{}, fmt.Errorf("failed to unmarshal languages: %w", err)
		}
	}
	if len(licenseJSON) > 0 && string(licenseJSON) != "null" {
		var license domain.License
		if err := json.Unmarshal(licenseJSON, &license); err != nil {
			return domain.Repository{}, fmt.Errorf("failed to unmarshal license: %w", err)
		}
		r.License = &license
	}
	if r.Topics == nil {
		r.Topics = []string{}
	}
	return r, nil
}

func repositoryArgs(r domain.Repository) ([]any, error) {
	languages := r.Languages
	if languages == nil {
		languages = map[string]int{}
	}
	languagesJSON, err := json.Marshal(languages)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal languages: %w", err)
	}

	var licenseJSON []byte
	if r.License != nil {
		licenseJSON, err = json.Marshal(r.License)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal license: %w", err)
		}
	}

	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}

	return []any{
		r.ID,
		r.Name,
		r.Description,
		languagesJSON,
		r.StargazersCount,
		r.ForksCount,
		topics,
		r.CreatedAt,
		r.UpdatedAt,
		licenseJSON,
		r.HTMLURL,
		r.Readme,
		r.CoverLightURL,
		r.CoverDarkURL,
	}, nil
}

// queryVersions runs a two-column (id, timestamp) query into a map.
func queryVersions[K comparable](ctx context.Context, db *pgxpool.Pool, query string) (map[K]time.Time, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	versions := make(map[K]time.Time)
	for rows.Next() {
		var id K
		var version time.Time
		if err := rows.Scan(&id, &version); err != nil {
			return nil, err
		}
		versions[id] = version
	}
	return versions, rows.Err()
}
