package search

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aldenluthfi/situs-backend/internal/engine"
	"github.com/aldenluthfi/situs-backend/pkg/apis"
)

func fuzzy(v bool) *bool {
	return &v
}

// DefaultProfile returns the built-in field weights and highlight settings.
func DefaultProfile() *apis.SearchProfile {
	return &apis.SearchProfile{
		Kind:     "SearchProfile",
		Version:  "v1",
		Metadata: apis.Metadata{Name: "default"},
		Writings: apis.QueryProfile{
			Fields: []apis.FieldBoost{{Field: "content"}, {Field: "title"}, {Field: "tags"}},
			Fuzzy:  fuzzy(true),
			Highlight: &apis.HighlightProfile{Fields: []apis.HighlightFieldProfile{
				{Field: "content", FragmentSize: 50, Fragments: 2},
				{Field: "title"},
			}},
		},
		Repositories: apis.QueryProfile{
			Fields: []apis.FieldBoost{
				{Field: "name", Boost: 3},
				{Field: "description"},
				{Field: "topics"},
				{Field: "readme"},
			},
			Fuzzy: fuzzy(true),
			Highlight: &apis.HighlightProfile{Fields: []apis.HighlightFieldProfile{
				{Field: "name"},
				{Field: "description", FragmentSize: 100, Fragments: 1},
				{Field: "readme", FragmentSize: 100, Fragments: 2},
			}},
		},
		Universal: apis.QueryProfile{
			Fields: []apis.FieldBoost{
				{Field: "title", Boost: 3},
				{Field: "name", Boost: 3},
				{Field: "tags"},
				{Field: "description"},
				{Field: "topics"},
				{Field: "content"},
				{Field: "readme"},
			},
			Fuzzy: fuzzy(true),
			Highlight: &apis.HighlightProfile{Fields: []apis.HighlightFieldProfile{
				{Field: "title"},
				{Field: "name"},
				{Field: "content", FragmentSize: 50, Fragments: 2},
				{Field: "description", FragmentSize: 100, Fragments: 1},
				{Field: "readme", FragmentSize: 100, Fragments: 2},
			}},
		},
	}
}

type YAMLProfileLoader struct {
	reader io.Reader
}

func NewYAMLProfileLoader(reader io.Reader) *YAMLProfileLoader {
	return &YAMLProfileLoader{
		reader: reader,
	}
}

// Load decodes the profile over the defaults, so a file only needs the
// sections it changes.
func (l *YAMLProfileLoader) Load() (*apis.SearchProfile, error) {
	profile := DefaultProfile()

	decoder := yaml.NewDecoder(l.reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(profile); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode search profile: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search profile: %w", err)
	}
	return profile, nil
}

// LoadProfileFile reads a profile from path. An empty path yields the
// defaults.
func LoadProfileFile(path string) (*apis.SearchProfile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open search profile %s: %w", path, err)
	}
	defer f.Close()

	return NewYAMLProfileLoader(f).Load()
}

func toRequest(qp apis.QueryProfile, query string, from, size int) engine.Request {
	req := engine.Request{
		Query:  query,
		From:   from,
		Size:   size,
		Fields: make([]engine.FieldWeight, 0, len(qp.Fields)),
		Fuzzy:  qp.Fuzzy == nil || *qp.Fuzzy,
	}
	for _, f := range qp.Fields {
		req.Fields = append(req.Fields, engine.FieldWeight{Field: f.Field, Boost: f.Boost})
	}

	if qp.Highlight == nil || len(qp.Highlight.Fields) == 0 {
		return req
	}
	h := &engine.Highlight{
		PreTag:  qp.Highlight.PreTag,
		PostTag: qp.Highlight.PostTag,
		Fields:  make([]engine.HighlightField, 0, len(qp.Highlight.Fields)),
	}
	if h.PreTag == "" {
		h.PreTag = engine.DefaultPreTag
	}
	if h.PostTag == "" {
		h.PostTag = engine.DefaultPostTag
	}
	for _, f := range qp.Highlight.Fields {
		h.Fields = append(h.Fields, engine.HighlightField{
			Field:             f.Field,
			FragmentSize:      f.FragmentSize,
			NumberOfFragments: f.Fragments,
		})
	}
	req.Highlight = h
	return req
}
