package engine

import (
	"context"
	"encoding/json"
	"strconv"
)

// Engine is the full-text search backend. Implementations are safe for
// concurrent use and are constructed once at startup.
type Engine interface {
	// Upsert indexes doc under id, replacing any previous document.
	Upsert(ctx context.Context, index string, id string, doc any) error
	// Delete removes the document. A missing document is not an error.
	Delete(ctx context.Context, index string, id string) error
	// Search runs req against every index in indices in a single call.
	Search(ctx context.Context, indices []string, req Request) (*Response, error)
}

// BulkUpserter is implemented by engines that can index many documents in one
// round trip.
type BulkUpserter interface {
	BulkUpsert(ctx context.Context, index string, docs map[string]any) error
}

// FieldWeight is a searchable field and its relative boost.
type FieldWeight struct {
	Field string  `yaml:"field" json:"field"`
	Boost float64 `yaml:"boost" json:"boost"`
}

// String renders the field in field^boost notation. A boost of 0 or 1 is
// omitted.
func (f FieldWeight) String() string {
	if f.Boost == 0 || f.Boost == 1 {
		return f.Field
	}
	return f.Field + "^" + strconv.FormatFloat(f.Boost, 'f', -1, 64)
}

// HighlightField configures highlighting of one field. NumberOfFragments 0
// highlights the whole field value.
type HighlightField struct {
	Field             string `yaml:"field" json:"field"`
	FragmentSize      int    `yaml:"fragmentSize" json:"fragmentSize"`
	NumberOfFragments int    `yaml:"numberOfFragments" json:"numberOfFragments"`
}

type Highlight struct {
	PreTag  string           `yaml:"preTag" json:"preTag"`
	PostTag string           `yaml:"postTag" json:"postTag"`
	Fields  []HighlightField `yaml:"fields" json:"fields"`
}

const (
	DefaultPreTag  = "<mark>"
	DefaultPostTag = "</mark>"
)

type Request struct {
	Query     string
	From      int
	Size      int
	Fields    []FieldWeight
	Fuzzy     bool
	Highlight *Highlight
}

// Hit is one matching document. Source is the indexed document as JSON.
type Hit struct {
	Index     string
	ID        string
	Score     float64
	Source    json.RawMessage
	Highlight map[string][]string
}

type Response struct {
	Hits  []Hit
	Total int64
}

type Backend string

const (
	Elasticsearch Backend = "elasticsearch"
	Bleve         Backend = "bleve"
)

// Indices names the physical index of each document kind.
type Indices struct {
	Writings     string
	Repositories string
}

func (i Indices) All() []string {
	return []string{i.Writings, i.Repositories}
}
