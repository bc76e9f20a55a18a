package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldenluthfi/situs-backend/pkg/apis"
)

func TestGenerator_SearchProfile(t *testing.T) {
	s, err := NewGenerator("https://schemas.situs.dev/").Generate(apis.SearchProfile{})
	require.NoError(t, err)

	assert.Equal(t, schemaRef, s.Schema)
	assert.Equal(t, "SearchProfile", s.Title)
	assert.Equal(t, "https://schemas.situs.dev/searchprofile", s.ID)
	assert.Equal(t, []any{"SearchProfile"}, s.Properties["kind"].Enum)

	writings := s.Properties["writings"]
	require.NotNil(t, writings)
	fields := writings.Properties["fields"]
	require.NotNil(t, fields)
	assert.Equal(t, "array", fields.Type)
	assert.Equal(t, []string{"field"}, fields.Items.Required)

	boost := fields.Items.Properties["boost"]
	assert.Equal(t, "number", boost.Type)
	require.NotNil(t, boost.Minimum)
	assert.Zero(t, *boost.Minimum)
	assert.Equal(t, []any{float64(3)}, boost.Examples)

	assert.Equal(t, "boolean", writings.Properties["fuzzy"].Type)
	assert.Equal(t, "object", writings.Properties["highlight"].Type)
	assert.False(t, *writings.AdditionalProperties)
}

func TestGenerator_FieldNames(t *testing.T) {
	type sample struct {
		YAMLName  string `yaml:"yaml_name" json:"jsonName"`
		JSONOnly  int    `json:"json_only,omitempty"`
		Untagged  bool
		Skipped   string `yaml:"-"`
		Labels    map[string]string
		unexposed string
	}

	s, err := NewGenerator("").Generate(&sample{})
	require.NoError(t, err)

	assert.Empty(t, s.ID)
	assert.Contains(t, s.Properties, "yaml_name")
	assert.Contains(t, s.Properties, "json_only")
	assert.Contains(t, s.Properties, "untagged")
	assert.Contains(t, s.Properties, "labels")
	assert.NotContains(t, s.Properties, "skipped")
	assert.NotContains(t, s.Properties, "unexposed")
	assert.Len(t, s.Properties, 4)
}

func TestGenerator_Unsupported(t *testing.T) {
	type bad struct {
		C chan int
	}
	_, err := NewGenerator("").Generate(bad{})
	assert.Error(t, err)

	_, err = NewGenerator("").Generate(nil)
	assert.Error(t, err)
}

func TestGenerator_GenerateJSON(t *testing.T) {
	out, err := NewGenerator("").GenerateJSON(apis.HighlightFieldProfile{})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "object", decoded["type"])
	assert.Equal(t, []any{"field"}, decoded["required"])
}
