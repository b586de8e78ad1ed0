package transcode

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	xhtml "golang.org/x/net/html"

	"github.com/danielolaszy/specif-jira/internal/jira"
)

var markTags = map[string]string{
	"strong":    "strong",
	"em":        "em",
	"code":      "code",
	"underline": "u",
	"strike":    "del",
}

var tagMarks = map[string]string{
	"strong": "strong",
	"b":      "strong",
	"em":     "em",
	"i":      "em",
	"code":   "code",
	"u":      "underline",
	"del":    "strike",
	"s":      "strike",
	"strike": "strike",
}

// ADFToXHTML renders an ADF document as an XHTML fragment. Unknown block
// nodes are flattened into their children.
func ADFToXHTML(doc *jira.ADFNode) string {
	if doc == nil {
		return ""
	}

	var b strings.Builder
	writeBlocks(&b, doc.Content)
	return b.String()
}

func writeBlocks(b *strings.Builder, nodes []jira.ADFNode) {
	for _, node := range nodes {
		switch node.Type {
		case "paragraph":
			b.WriteString("<p>")
			writeInline(b, node.Content)
			b.WriteString("</p>")
		case "heading":
			tag := "h" + strconv.Itoa(headingLevel(node))
			b.WriteString("<" + tag + ">")
			writeInline(b, node.Content)
			b.WriteString("</" + tag + ">")
		case "bulletList":
			b.WriteString("<ul>")
			writeBlocks(b, node.Content)
			b.WriteString("</ul>")
		case "orderedList":
			b.WriteString("<ol>")
			writeBlocks(b, node.Content)
			b.WriteString("</ol>")
		case "listItem":
			b.WriteString("<li>")
			writeBlocks(b, node.Content)
			b.WriteString("</li>")
		case "blockquote":
			b.WriteString("<blockquote>")
			writeBlocks(b, node.Content)
			b.WriteString("</blockquote>")
		case "codeBlock":
			b.WriteString("<pre>")
			for _, child := range node.Content {
				b.WriteString(html.EscapeString(child.Text))
			}
			b.WriteString("</pre>")
		case "rule":
			b.WriteString("<hr/>")
		case "text", "hardBreak":
			writeInline(b, []jira.ADFNode{node})
		default:
			writeBlocks(b, node.Content)
		}
	}
}

func writeInline(b *strings.Builder, nodes []jira.ADFNode) {
	for _, node := range nodes {
		switch node.Type {
		case "text":
			var closing []string
			for _, mark := range node.Marks {
				if mark.Type == "link" {
					href, _ := mark.Attrs["href"].(string)
					b.WriteString(`<a href="` + html.EscapeString(href) + `">`)
					closing = append(closing, "</a>")
					continue
				}
				tag, ok := markTags[mark.Type]
				if !ok {
					continue
				}
				b.WriteString("<" + tag + ">")
				closing = append(closing, "</"+tag+">")
			}
			b.WriteString(html.EscapeString(node.Text))
			for i := len(closing) - 1; i >= 0; i-- {
				b.WriteString(closing[i])
			}
		case "hardBreak":
			b.WriteString("<br/>")
		default:
			writeInline(b, node.Content)
		}
	}
}

func headingLevel(node jira.ADFNode) int {
	switch level := node.Attrs["level"].(type) {
	case float64:
		if level >= 1 && level <= 6 {
			return int(level)
		}
	case int:
		if level >= 1 && level <= 6 {
			return level
		}
	}
	return 1
}

// XHTMLToADF parses an XHTML fragment into an ADF document. Text without
// any markup is treated as plain text, one paragraph per line. An empty
// input yields nil.
func XHTMLToADF(s string) (*jira.ADFNode, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	if !strings.Contains(s, "<") {
		return jira.PlainTextToADF(s), nil
	}

	p := newADFBuilder()
	z := xhtml.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		switch tt {
		case xhtml.ErrorToken:
			if z.Err() == io.EOF {
				return p.finish(), nil
			}
			return nil, fmt.Errorf("parse xhtml description: %w", z.Err())
		case xhtml.TextToken:
			p.text(string(z.Text()))
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			tok := z.Token()
			p.start(tok, tt == xhtml.SelfClosingTagToken)
		case xhtml.EndTagToken:
			tok := z.Token()
			p.end(tok.Data)
		}
	}
}

// adfBuilder assembles an ADF tree from a token stream. stack holds the
// open block nodes; the document is always at the bottom. implicit runs
// parallel to stack and flags nodes opened without a matching tag.
type adfBuilder struct {
	doc      *jira.ADFNode
	stack    []*jira.ADFNode
	implicit []bool
	marks    []jira.ADFMark
}

func newADFBuilder() *adfBuilder {
	doc := jira.NewADFDocument()
	return &adfBuilder{doc: doc, stack: []*jira.ADFNode{doc}, implicit: []bool{false}}
}

func (p *adfBuilder) top() *jira.ADFNode {
	return p.stack[len(p.stack)-1]
}

func (p *adfBuilder) topImplicit() bool {
	return p.implicit[len(p.implicit)-1]
}

func (p *adfBuilder) push(node jira.ADFNode) *jira.ADFNode {
	return p.open(node, false)
}

func (p *adfBuilder) open(node jira.ADFNode, implicit bool) *jira.ADFNode {
	parent := p.top()
	parent.Content = append(parent.Content, node)
	child := &parent.Content[len(parent.Content)-1]
	p.stack = append(p.stack, child)
	p.implicit = append(p.implicit, implicit)
	return child
}

// pop closes open blocks up to and including the innermost node of type
// nodeType. Nothing is closed when no such node is open.
func (p *adfBuilder) pop(nodeType string) {
	for i := len(p.stack) - 1; i > 0; i-- {
		if p.stack[i].Type == nodeType {
			p.truncate(i)
			return
		}
	}
}

func (p *adfBuilder) truncate(n int) {
	p.stack = p.stack[:n]
	p.implicit = p.implicit[:n]
}

func (p *adfBuilder) drop() {
	if len(p.stack) > 1 {
		p.truncate(len(p.stack) - 1)
	}
}

func isList(nodeType string) bool {
	return nodeType == "bulletList" || nodeType == "orderedList"
}

// closeImplicitList ends a list that was opened for a stray li.
func (p *adfBuilder) closeImplicitList() {
	if isList(p.top().Type) && p.topImplicit() {
		p.drop()
	}
}

// beginBlock prepares the stack for a block other than li. Lists only
// hold list items, so content directly inside one gets its own item.
func (p *adfBuilder) beginBlock() {
	p.closeInlineBlocks()
	p.closeImplicitList()
	if isList(p.top().Type) {
		p.open(jira.ADFNode{Type: "listItem"}, true)
	}
}

func (p *adfBuilder) closeInlineBlocks() {
	switch p.top().Type {
	case "paragraph", "heading", "codeBlock":
		p.pop(p.top().Type)
	}
}

func acceptsInline(nodeType string) bool {
	return nodeType == "paragraph" || nodeType == "heading" || nodeType == "codeBlock"
}

func (p *adfBuilder) start(tok xhtml.Token, selfClosing bool) {
	switch tok.Data {
	case "p":
		p.beginBlock()
		p.push(jira.ADFNode{Type: "paragraph"})
	case "h1", "h2", "h3", "h4", "h5", "h6":
		p.beginBlock()
		level := int(tok.Data[1] - '0')
		p.push(jira.ADFNode{Type: "heading", Attrs: map[string]any{"level": level}})
	case "ul":
		p.beginBlock()
		p.push(jira.ADFNode{Type: "bulletList"})
	case "ol":
		p.beginBlock()
		p.push(jira.ADFNode{Type: "orderedList"})
	case "li":
		p.closeInlineBlocks()
		if p.top().Type == "listItem" {
			p.drop()
		}
		if !isList(p.top().Type) {
			p.open(jira.ADFNode{Type: "bulletList"}, true)
		}
		p.push(jira.ADFNode{Type: "listItem"})
	case "blockquote":
		p.beginBlock()
		p.push(jira.ADFNode{Type: "blockquote"})
	case "pre":
		p.beginBlock()
		p.push(jira.ADFNode{Type: "codeBlock"})
	case "hr":
		p.beginBlock()
		p.push(jira.ADFNode{Type: "rule"})
		p.pop("rule")
	case "br":
		p.inline(jira.ADFNode{Type: "hardBreak"})
	case "a":
		var href string
		for _, attr := range tok.Attr {
			if attr.Key == "href" {
				href = attr.Val
			}
		}
		if !selfClosing {
			p.marks = append(p.marks, jira.ADFMark{Type: "link", Attrs: map[string]any{"href": href}})
		}
	default:
		if mark, ok := tagMarks[tok.Data]; ok && !selfClosing && p.top().Type != "codeBlock" {
			p.marks = append(p.marks, jira.ADFMark{Type: mark})
		}
	}
}

func (p *adfBuilder) end(tag string) {
	switch tag {
	case "p":
		p.pop("paragraph")
	case "h1", "h2", "h3", "h4", "h5", "h6":
		p.pop("heading")
	case "ul":
		p.pop("bulletList")
	case "ol":
		p.pop("orderedList")
	case "li":
		p.pop("listItem")
	case "blockquote":
		p.pop("blockquote")
	case "pre":
		p.pop("codeBlock")
	case "a":
		p.popMark("link")
	default:
		if mark, ok := tagMarks[tag]; ok {
			p.popMark(mark)
		}
	}
}

func (p *adfBuilder) popMark(markType string) {
	for i := len(p.marks) - 1; i >= 0; i-- {
		if p.marks[i].Type == markType {
			p.marks = append(p.marks[:i], p.marks[i+1:]...)
			return
		}
	}
}

func (p *adfBuilder) text(s string) {
	if s == "" {
		return
	}
	if !acceptsInline(p.top().Type) && strings.TrimSpace(s) == "" {
		return
	}

	node := jira.ADFNode{Type: "text", Text: s}
	if p.top().Type != "codeBlock" && len(p.marks) > 0 {
		node.Marks = append([]jira.ADFMark(nil), p.marks...)
	}
	p.inline(node)
}

// inline appends an inline node, opening an implicit paragraph (and list
// item) when the current block cannot hold inline content.
func (p *adfBuilder) inline(node jira.ADFNode) {
	if !acceptsInline(p.top().Type) {
		p.closeImplicitList()
		if isList(p.top().Type) {
			p.open(jira.ADFNode{Type: "listItem"}, true)
		}
		p.push(jira.ADFNode{Type: "paragraph"})
	}
	parent := p.top()
	parent.Content = append(parent.Content, node)
}

func (p *adfBuilder) finish() *jira.ADFNode {
	return p.doc
}
