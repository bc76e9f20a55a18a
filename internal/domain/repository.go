package domain

import (
	"strconv"
	"time"
)

type License struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	SpdxID string `json:"spdx_id"`
	URL    string `json:"url"`
}

// Repository is an owner repository as mirrored from the code host, already
// enriched with its language breakdown, README and cover images.
type Repository struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	Description     *string        `json:"description"`
	Languages       map[string]int `json:"languages"`
	StargazersCount int            `json:"stargazers_count"`
	ForksCount      int            `json:"forks_count"`
	Topics          []string       `json:"topics"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	License         *License       `json:"license"`
	HTMLURL         string         `json:"html_url"`
	Readme          *string        `json:"readme,omitempty"`
	CoverLightURL   *string        `json:"cover_light_url,omitempty"`
	CoverDarkURL    *string        `json:"cover_dark_url,omitempty"`
}

// DocumentID is the search document id of the repository.
func (r Repository) DocumentID() string {
	return RepositoryDocumentID(r.ID)
}

func RepositoryDocumentID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (r Repository) DescriptionOrEmpty() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

func (r Repository) ReadmeOrEmpty() string {
	if r.Readme == nil {
		return ""
	}
	return *r.Readme
}
