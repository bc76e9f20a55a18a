package es

import (
	"encoding/json"
	"testing"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldenluthfi/situs-backend/internal/engine"
)

func TestBuildSearchRequest(t *testing.T) {
	req := buildSearchRequest(engine.Request{
		Query: "golang",
		From:  20,
		Size:  10,
		Fields: []engine.FieldWeight{
			{Field: "title", Boost: 3},
			{Field: "content"},
		},
		Fuzzy: true,
		Highlight: &engine.Highlight{
			Fields: []engine.HighlightField{
				{Field: "content", FragmentSize: 50, NumberOfFragments: 2},
				{Field: "title"},
			},
		},
	})

	raw, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.EqualValues(t, 20, decoded["from"])
	assert.EqualValues(t, 10, decoded["size"])

	mm := decoded["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "golang", mm["query"])
	assert.Equal(t, "AUTO", mm["fuzziness"])
	assert.Equal(t, []any{"title^3", "content"}, mm["fields"])

	hl := decoded["highlight"].(map[string]any)
	assert.Equal(t, []any{"<mark>"}, hl["pre_tags"])
	assert.Equal(t, []any{"</mark>"}, hl["post_tags"])
	fields := hl["fields"].(map[string]any)
	assert.EqualValues(t, 50, fields["content"].(map[string]any)["fragment_size"])
	assert.EqualValues(t, 2, fields["content"].(map[string]any)["number_of_fragments"])
	assert.EqualValues(t, 0, fields["title"].(map[string]any)["number_of_fragments"])
	assert.NotContains(t, fields["title"].(map[string]any), "fragment_size")
}

func TestBuildSearchRequest_NoFuzzNoHighlight(t *testing.T) {
	req := buildSearchRequest(engine.Request{Query: "x", Size: 5, Fields: []engine.FieldWeight{{Field: "name"}}})

	assert.Nil(t, req.Highlight)
	assert.Nil(t, req.Query.MultiMatch.Fuzziness)
	require.NotNil(t, req.From)
	assert.Zero(t, *req.From)
	require.NotNil(t, req.Size)
	assert.Equal(t, 5, *req.Size)
}

func TestMapHit(t *testing.T) {
	id := "writing-1"
	score := types.Float64(1.5)

	h := mapHit(types.Hit{
		Id_:       &id,
		Index_:    "writings",
		Score_:    &score,
		Source_:   json.RawMessage(`{"id":"stale","title":"Hello"}`),
		Highlight: map[string][]string{"title": {"<mark>Hello</mark>"}},
	})

	assert.Equal(t, "writing-1", h.ID)
	assert.Equal(t, "writings", h.Index)
	assert.Equal(t, 1.5, h.Score)
	assert.JSONEq(t, `{"id":"stale","title":"Hello"}`, string(h.Source))
	assert.Equal(t, []string{"<mark>Hello</mark>"}, h.Highlight["title"])

	assert.Empty(t, mapHit(types.Hit{Index_: "writings"}).ID)
}
