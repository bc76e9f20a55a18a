package notion

import (
	"strconv"
	"strings"
)

// node is a block with its already fetched children.
type node struct {
	block    block
	children []node
}

// containers only group their children and render nothing themselves.
var containers = map[string]bool{
	"column_list":  true,
	"column":       true,
	"synced_block": true,
}

func isListItem(t string) bool {
	return t == "bulleted_list_item" || t == "numbered_list_item" || t == "to_do"
}

// renderMarkdown turns a block tree into markdown. Consecutive list items
// are separated by a single newline, every other block by a blank line.
func renderMarkdown(nodes []node) string {
	var b strings.Builder
	writeNodes(&b, nodes, 0)
	return strings.TrimSpace(b.String())
}

func writeNodes(b *strings.Builder, nodes []node, depth int) {
	number := 0
	prevList := false

	for _, n := range nodes {
		if containers[n.block.Type] {
			writeNodes(b, n.children, depth)
			prevList = false
			continue
		}

		if n.block.Type == "numbered_list_item" {
			number++
		} else {
			number = 0
		}

		text := renderBlock(n.block, number)
		list := isListItem(n.block.Type)

		if text != "" {
			if b.Len() > 0 {
				if list && prevList {
					b.WriteString("\n")
				} else {
					b.WriteString("\n\n")
				}
			}
			b.WriteString(indent(text, depth))
		}
		prevList = list

		if len(n.children) > 0 {
			var child strings.Builder
			writeNodes(&child, n.children, depth+1)
			if child.Len() > 0 {
				if list {
					b.WriteString("\n")
				} else if b.Len() > 0 {
					b.WriteString("\n\n")
				}
				b.WriteString(child.String())
			}
		}
	}
}

func renderBlock(bl block, number int) string {
	c := bl.Content
	text := richTextMarkdown(c.RichText)

	switch bl.Type {
	case "paragraph", "toggle":
		return text
	case "heading_1":
		return "# " + text
	case "heading_2":
		return "## " + text
	case "heading_3":
		return "### " + text
	case "bulleted_list_item":
		return "- " + text
	case "numbered_list_item":
		return strconv.Itoa(number) + ". " + text
	case "to_do":
		if c.Checked {
			return "- [x] " + text
		}
		return "- [ ] " + text
	case "quote":
		return quote(text)
	case "callout":
		if c.Icon != nil && c.Icon.Emoji != "" {
			text = c.Icon.Emoji + " " + text
		}
		return quote(text)
	case "code":
		return "```" + c.Language + "\n" + plainText(c.RichText) + "\n```"
	case "divider":
		return "---"
	case "image":
		return "![" + plainText(c.Caption) + "](" + c.fileURL() + ")"
	case "bookmark", "embed", "link_preview", "video", "pdf", "file":
		url := c.fileURL()
		if url == "" {
			return ""
		}
		label := plainText(c.Caption)
		if label == "" {
			label = url
		}
		return "[" + label + "](" + url + ")"
	default:
		return ""
	}
}

func quote(text string) string {
	return "> " + strings.ReplaceAll(text, "\n", "\n> ")
}

func indent(text string, depth int) string {
	if depth == 0 {
		return text
	}
	pad := strings.Repeat("  ", depth)
	return pad + strings.ReplaceAll(text, "\n", "\n"+pad)
}

func richTextMarkdown(rts []richText) string {
	var b strings.Builder
	for _, rt := range rts {
		b.WriteString(annotate(rt))
	}
	return b.String()
}

// annotate wraps the trimmed text in markers and keeps surrounding spaces
// outside them, otherwise markdown ignores the emphasis.
func annotate(rt richText) string {
	s := rt.PlainText
	core := strings.TrimSpace(s)
	if core == "" {
		return s
	}
	lead := s[:strings.Index(s, core)]
	trail := s[len(lead)+len(core):]

	a := rt.Annotations
	if a.Code {
		core = "`" + core + "`"
	}
	if a.Bold {
		core = "**" + core + "**"
	}
	if a.Italic {
		core = "_" + core + "_"
	}
	if a.Strikethrough {
		core = "~~" + core + "~~"
	}
	if rt.Href != "" {
		core = "[" + core + "](" + rt.Href + ")"
	}
	return lead + core + trail
}
