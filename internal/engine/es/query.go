package es

import (
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"

	"github.com/aldenluthfi/situs-backend/internal/engine"
)

const autoFuzziness = "AUTO"

func buildSearchRequest(req engine.Request) *search.Request {
	fields := make([]string, 0, len(req.Fields))
	for _, f := range req.Fields {
		fields = append(fields, f.String())
	}

	multiMatch := &types.MultiMatchQuery{
		Query:  req.Query,
		Fields: fields,
	}
	if req.Fuzzy {
		multiMatch.Fuzziness = autoFuzziness
	}

	from, size := req.From, req.Size
	return &search.Request{
		From:      &from,
		Size:      &size,
		Query:     &types.Query{MultiMatch: multiMatch},
		Highlight: buildHighlight(req.Highlight),
	}
}

// buildHighlight always sends number_of_fragments; zero asks for the whole
// field as one fragment.
func buildHighlight(h *engine.Highlight) *types.Highlight {
	if h == nil || len(h.Fields) == 0 {
		return nil
	}

	pre, post := h.PreTag, h.PostTag
	if pre == "" {
		pre = engine.DefaultPreTag
	}
	if post == "" {
		post = engine.DefaultPostTag
	}

	fields := make(map[string]types.HighlightField, len(h.Fields))
	for _, f := range h.Fields {
		fragments := f.NumberOfFragments
		field := types.HighlightField{NumberOfFragments: &fragments}
		if f.FragmentSize > 0 {
			size := f.FragmentSize
			field.FragmentSize = &size
		}
		fields[f.Field] = field
	}

	return &types.Highlight{
		PreTags:  []string{pre},
		PostTags: []string{post},
		Fields:   fields,
	}
}
