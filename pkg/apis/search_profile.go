package apis

import "fmt"

// SearchProfile tunes how each kind of search weighs and highlights fields.
// Sections left out of a profile file keep their defaults.
type SearchProfile struct {
	Kind         string       `json:"kind" example:"SearchProfile" yaml:"kind" schema:"enum=SearchProfile"`
	Version      string       `json:"version" example:"v1" yaml:"version" schema:"enum=v1"`
	Metadata     Metadata     `json:"metadata" yaml:"metadata"`
	Writings     QueryProfile `json:"writings" yaml:"writings"`
	Repositories QueryProfile `json:"repositories" yaml:"repositories"`
	Universal    QueryProfile `json:"universal" yaml:"universal"`
}

type Metadata struct {
	Name        string `json:"name" example:"default" yaml:"name"`
	Description string `json:"description" example:"Default field weights" yaml:"description"`
}

type QueryProfile struct {
	Fields    []FieldBoost      `json:"fields" yaml:"fields"`
	Fuzzy     *bool             `json:"fuzzy,omitempty" yaml:"fuzzy,omitempty"`
	Highlight *HighlightProfile `json:"highlight,omitempty" yaml:"highlight,omitempty"`
}

type FieldBoost struct {
	Field string  `json:"field" example:"title" yaml:"field" schema:"required"`
	Boost float64 `json:"boost,omitempty" example:"3" yaml:"boost,omitempty" schema:"min=0"`
}

type HighlightProfile struct {
	PreTag  string                  `json:"preTag,omitempty" example:"<mark>" yaml:"preTag,omitempty"`
	PostTag string                  `json:"postTag,omitempty" example:"</mark>" yaml:"postTag,omitempty"`
	Fields  []HighlightFieldProfile `json:"fields" yaml:"fields"`
}

// HighlightFieldProfile with zero fragments highlights the whole field.
type HighlightFieldProfile struct {
	Field        string `json:"field" example:"content" yaml:"field" schema:"required"`
	FragmentSize int    `json:"fragmentSize,omitempty" example:"50" yaml:"fragmentSize,omitempty" schema:"min=0"`
	Fragments    int    `json:"fragments,omitempty" example:"2" yaml:"fragments,omitempty" schema:"min=0"`
}

func (p *SearchProfile) Validate() error {
	if p.Kind != "" && p.Kind != "SearchProfile" {
		return fmt.Errorf("unsupported kind: %s", p.Kind)
	}
	sections := map[string]QueryProfile{
		"writings":     p.Writings,
		"repositories": p.Repositories,
		"universal":    p.Universal,
	}
	for name, qp := range sections {
		if len(qp.Fields) == 0 {
			return fmt.Errorf("%s: at least one field is required", name)
		}
		for i, f := range qp.Fields {
			if f.Field == "" {
				return fmt.Errorf("%s.fields[%d] must have field defined", name, i)
			}
			if f.Boost < 0 {
				return fmt.Errorf("%s.fields[%d]: boost must not be negative", name, i)
			}
		}
		if qp.Highlight == nil {
			continue
		}
		for i, h := range qp.Highlight.Fields {
			if h.Field == "" {
				return fmt.Errorf("%s.highlight.fields[%d] must have field defined", name, i)
			}
			if h.FragmentSize < 0 || h.Fragments < 0 {
				return fmt.Errorf("%s.highlight.fields[%d]: fragment settings must not be negative", name, i)
			}
		}
	}
	return nil
}
