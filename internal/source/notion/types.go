package notion

import (
	"encoding/json"
	"strings"
)

type page struct {
	ID             string              `json:"id"`
	CreatedTime    string              `json:"created_time"`
	LastEditedTime string              `json:"last_edited_time"`
	Archived       bool                `json:"archived"`
	InTrash        bool                `json:"in_trash"`
	Properties     map[string]property `json:"properties"`
}

// property holds the value of any database property type this adapter reads.
type property struct {
	Type           string         `json:"type"`
	Title          []richText     `json:"title"`
	RichText       []richText     `json:"rich_text"`
	MultiSelect    []selectOption `json:"multi_select"`
	CreatedTime    string         `json:"created_time"`
	LastEditedTime string         `json:"last_edited_time"`
	Date           *dateValue     `json:"date"`
}

type selectOption struct {
	Name string `json:"name"`
}

type dateValue struct {
	Start string `json:"start"`
}

type annotations struct {
	Bold          bool `json:"bold"`
	Italic        bool `json:"italic"`
	Strikethrough bool `json:"strikethrough"`
	Code          bool `json:"code"`
}

type richText struct {
	PlainText   string      `json:"plain_text"`
	Href        string      `json:"href"`
	Annotations annotations `json:"annotations"`
}

func plainText(rts []richText) string {
	var b strings.Builder
	for _, rt := range rts {
		b.WriteString(rt.PlainText)
	}
	return b.String()
}

type fileRef struct {
	URL string `json:"url"`
}

type icon struct {
	Emoji string `json:"emoji"`
}

// blockContent is the type-specific payload; every block type this adapter
// renders fits in it.
type blockContent struct {
	RichText []richText `json:"rich_text"`
	Checked  bool       `json:"checked"`
	Language string     `json:"language"`
	Caption  []richText `json:"caption"`
	URL      string     `json:"url"`
	Type     string     `json:"type"`
	External *fileRef   `json:"external"`
	File     *fileRef   `json:"file"`
	Icon     *icon      `json:"icon"`
}

func (c blockContent) fileURL() string {
	switch {
	case c.External != nil:
		return c.External.URL
	case c.File != nil:
		return c.File.URL
	default:
		return c.URL
	}
}

type block struct {
	ID          string
	Type        string
	HasChildren bool
	Content     blockContent
}

func (b *block) UnmarshalJSON(data []byte) error {
	var head struct {
		ID          string `json:"id"`
		Type        string `json:"type"`
		HasChildren bool   `json:"has_children"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	b.ID, b.Type, b.HasChildren = head.ID, head.Type, head.HasChildren
	b.Content = blockContent{}
	if payload, ok := raw[head.Type]; ok && len(payload) > 0 && payload[0] == '{' {
		if err := json.Unmarshal(payload, &b.Content); err != nil {
			return err
		}
	}
	return nil
}
