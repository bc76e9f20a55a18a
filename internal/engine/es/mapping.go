package es

import (
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"

	"github.com/aldenluthfi/situs-backend/internal/engine"
)

const contentAnalyzer = "content_analyzer"

// IndexBuilder produces settings and mappings for the writings and
// repositories indices.
type IndexBuilder struct {
	indices engine.Indices
}

func NewIndexBuilder(indices engine.Indices) *IndexBuilder {
	return &IndexBuilder{indices: indices}
}

// Mappings returns the mapping of every managed index keyed by index name.
func (b *IndexBuilder) Mappings() map[string]types.TypeMapping {
	return map[string]types.TypeMapping{
		b.indices.Writings:     b.writingsMapping(),
		b.indices.Repositories: b.repositoriesMapping(),
	}
}

func (b *IndexBuilder) buildSettings() types.IndexSettings {
	return types.IndexSettings{
		Analysis: &types.IndexSettingsAnalysis{
			Analyzer: map[string]types.Analyzer{
				contentAnalyzer: types.StandardAnalyzer{
					Stopwords: []string{"_none_"},
				},
			},
		},
	}
}

func (b *IndexBuilder) writingsMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":          types.NewKeywordProperty(),
			"title":       b.createTextPropertyWithKeyword(contentAnalyzer),
			"slug":        types.NewKeywordProperty(),
			"content":     b.createTextProperty(contentAnalyzer),
			"tags":        b.createTextPropertyWithKeyword(""),
			"createdAt":   types.NewDateProperty(),
			"lastUpdated": types.NewDateProperty(),
		},
	}
}

func (b *IndexBuilder) repositoriesMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":               types.NewKeywordProperty(),
			"name":             b.createTextPropertyWithKeyword(contentAnalyzer),
			"description":      b.createTextProperty(contentAnalyzer),
			"topics":           b.createTextPropertyWithKeyword(""),
			"readme":           b.createTextProperty(contentAnalyzer),
			"html_url":         types.NewKeywordProperty(),
			"stargazers_count": types.NewIntegerNumberProperty(),
			"updated_at":       types.NewDateProperty(),
		},
	}
}

func (b *IndexBuilder) createTextProperty(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	return textProp
}

func (b *IndexBuilder) createTextPropertyWithKeyword(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	textProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return textProp
}
