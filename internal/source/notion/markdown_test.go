package notion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rt(s string) []richText {
	return []richText{{PlainText: s}}
}

func leaf(typ string, c blockContent) node {
	return node{block: block{Type: typ, Content: c}}
}

func TestRenderMarkdown(t *testing.T) {
	nodes := []node{
		leaf("heading_2", blockContent{RichText: rt("Setup")}),
		leaf("paragraph", blockContent{RichText: []richText{
			{PlainText: "Use "},
			{PlainText: "go mod", Annotations: annotations{Code: true}},
			{PlainText: " and read "},
			{PlainText: "the docs ", Href: "https://go.dev", Annotations: annotations{Bold: true}},
		}}),
		leaf("numbered_list_item", blockContent{RichText: rt("one")}),
		leaf("numbered_list_item", blockContent{RichText: rt("two")}),
		leaf("to_do", blockContent{RichText: rt("done"), Checked: true}),
		leaf("paragraph", blockContent{}),
		leaf("callout", blockContent{RichText: rt("careful"), Icon: &icon{Emoji: "⚠️"}}),
		leaf("divider", blockContent{}),
		leaf("image", blockContent{Caption: rt("diagram"), External: &fileRef{URL: "https://img/x.png"}}),
		leaf("bookmark", blockContent{URL: "https://example.com"}),
		leaf("unsupported", blockContent{RichText: rt("ignored")}),
	}

	want := "## Setup\n\n" +
		"Use `go mod` and read [**the docs**](https://go.dev) \n\n" +
		"1. one\n2. two\n- [x] done\n\n" +
		"> ⚠️ careful\n\n" +
		"---\n\n" +
		"![diagram](https://img/x.png)\n\n" +
		"[https://example.com](https://example.com)"

	assert.Equal(t, want, renderMarkdown(nodes))
}

func TestRenderMarkdown_Containers(t *testing.T) {
	nodes := []node{{
		block: block{Type: "column_list"},
		children: []node{
			{block: block{Type: "column"}, children: []node{leaf("paragraph", blockContent{RichText: rt("left")})}},
			{block: block{Type: "column"}, children: []node{leaf("paragraph", blockContent{RichText: rt("right")})}},
		},
	}}

	assert.Equal(t, "left\n\nright", renderMarkdown(nodes))
}

func TestAnnotate(t *testing.T) {
	assert.Equal(t, "  ", annotate(richText{PlainText: "  ", Annotations: annotations{Bold: true}}))
	assert.Equal(t, " ~~_x_~~", annotate(richText{PlainText: " x", Annotations: annotations{Italic: true, Strikethrough: true}}))
}
