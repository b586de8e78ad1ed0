package jira

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ADFNode is one node of an Atlassian Document Format tree. The v3 API uses
// ADF for rich-text fields such as the issue description.
type ADFNode struct {
	Type    string         `json:"type"`
	Version int            `json:"version,omitempty"`
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Marks   []ADFMark      `json:"marks,omitempty"`
	Content []ADFNode      `json:"content,omitempty"`
}

// ADFMark decorates a text node (strong, em, code, link, ...).
type ADFMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// NewADFDocument returns an empty ADF document.
func NewADFDocument() *ADFNode {
	return &ADFNode{Type: "doc", Version: 1}
}

// ParseDescription decodes a description field. v2 payloads carry a plain
// string which is lifted into a document of paragraphs; v3 payloads carry
// an ADF document. A missing description yields nil.
func ParseDescription(raw json.RawMessage) (*ADFNode, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("parse plain description: %w", err)
		}
		return PlainTextToADF(s), nil
	}

	var doc ADFNode
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse ADF description: %w", err)
	}
	if doc.Type != "doc" {
		return nil, fmt.Errorf("parse ADF description: unexpected root node %q", doc.Type)
	}
	return &doc, nil
}

// PlainTextToADF converts plain text to an ADF document, one paragraph per line.
func PlainTextToADF(text string) *ADFNode {
	doc := NewADFDocument()
	if text == "" {
		return doc
	}

	for _, line := range strings.Split(text, "\n") {
		para := ADFNode{Type: "paragraph"}
		if line != "" {
			para.Content = []ADFNode{{Type: "text", Text: line}}
		}
		doc.Content = append(doc.Content, para)
	}
	return doc
}

// PlainText extracts the text of an ADF tree, one line per block.
func (n *ADFNode) PlainText() string {
	if n == nil {
		return ""
	}

	var lines []string
	var walk func(node ADFNode, line *strings.Builder)
	walk = func(node ADFNode, line *strings.Builder) {
		switch node.Type {
		case "text":
			line.WriteString(node.Text)
		case "hardBreak":
			line.WriteString("\n")
		default:
			for _, child := range node.Content {
				walk(child, line)
			}
		}
	}

	var blocks func(nodes []ADFNode)
	blocks = func(nodes []ADFNode) {
		for _, node := range nodes {
			switch node.Type {
			case "paragraph", "heading", "codeBlock":
				var line strings.Builder
				walk(node, &line)
				lines = append(lines, line.String())
			default:
				blocks(node.Content)
			}
		}
	}
	blocks(n.Content)

	return strings.Join(lines, "\n")
}

// Marshal encodes the tree for use in a request body.
func (n *ADFNode) Marshal() (json.RawMessage, error) {
	if n == nil {
		return nil, nil
	}
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("marshal ADF document: %w", err)
	}
	return data, nil
}
