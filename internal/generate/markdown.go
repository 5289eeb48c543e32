package generate

import (
	"path"
	"strings"

	"github.com/docindex/docindex-mcp/internal/searchindex"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// markdown is safe for concurrent use; the generator parses pages in parallel
var markdown = goldmark.New()

// MarkdownParser reads Markdown source pages.
//
// Every heading becomes a section record with an empty text. Every other
// block becomes a page record located at the page itself ("intro.html#"),
// titled with the page name. Paragraph lines are joined with spaces and list
// items with newlines. A ```math fence touching a paragraph, with no blank
// line between them, is rendered inline as "math <tex>" within that
// paragraph's record; other code blocks become their own record holding the
// code verbatim.
type MarkdownParser struct{}

// ParsePage implements PageParser
func (MarkdownParser) ParsePage(file string, content []byte, title string) ([]searchindex.Record, error) {
	p := &mdPage{
		source:   content,
		location: searchindex.PageLocation(file),
		pagePath: searchindex.PagePath(file),
		anchors:  searchindex.NewAnchorSet(),
	}
	doc := markdown.Parser().Parse(text.NewReader(content))

	p.name = title
	if p.name == "" {
		p.name = p.firstH1(doc)
	}
	if p.name == "" {
		p.name = strings.TrimSuffix(path.Base(file), path.Ext(file))
	}

	p.blocks(doc)
	p.flush()
	return p.records, nil
}

// RenderInline converts inline Markdown to the plain text stored in a record.
// ``x`` spans are TeX and are flattened with StripTeX.
func RenderInline(s string) string {
	p := &mdPage{source: []byte(s)}
	doc := markdown.Parser().Parse(text.NewReader(p.source))

	var parts []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if part := CollapseSpace(p.inline(n)); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

type mdPage struct {
	source   []byte
	name     string
	location string
	pagePath string
	anchors  *searchindex.AnchorSet
	records  []searchindex.Record

	// pending holds the pieces of the page record being assembled. open
	// means a paragraph or math fence without a blank line before it joins it.
	pending []string
	open    bool
}

func (p *mdPage) firstH1(doc ast.Node) string {
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			return CollapseSpace(p.inline(h))
		}
	}
	return ""
}

func (p *mdPage) blocks(parent ast.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Heading:
			p.flush()
			p.section(CollapseSpace(p.inline(n)))
		case *ast.Paragraph:
			if text := p.paragraph(n); text != "" {
				p.join(text, !n.HasBlankPreviousLines())
			}
		case *ast.FencedCodeBlock:
			if string(n.Language(p.source)) == "math" {
				p.join("math "+StripTeX(p.lines(n)), !n.HasBlankPreviousLines())
				continue
			}
			p.flush()
			p.emit(strings.TrimRight(p.lines(n), "\n"))
		case *ast.CodeBlock:
			p.flush()
			p.emit(strings.TrimRight(p.lines(n), "\n"))
		case *ast.List:
			p.flush()
			p.emit(strings.Join(p.listLines(n), "\n"))
		case *ast.Blockquote:
			p.flush()
			p.blocks(n)
			p.flush()
		default:
			// Thematic breaks and raw HTML end the current block
			p.flush()
		}
	}
}

// paragraph renders a paragraph on one line. Documenter admonitions
// ("!!! note") keep their body and drop the marker line.
func (p *mdPage) paragraph(n *ast.Paragraph) string {
	raw := p.inline(n)
	if strings.HasPrefix(raw, "!!!") {
		_, raw, _ = strings.Cut(raw, "\n")
	}
	return CollapseSpace(raw)
}

func (p *mdPage) listLines(list ast.Node) []string {
	var lines []string
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch c.(type) {
			case *ast.List:
				lines = append(lines, p.listLines(c)...)
			case *ast.FencedCodeBlock, *ast.CodeBlock:
				if code := strings.TrimRight(p.lines(c), "\n"); code != "" {
					lines = append(lines, code)
				}
			default:
				if line := CollapseSpace(p.inline(c)); line != "" {
					lines = append(lines, line)
				}
			}
		}
	}
	return lines
}

// lines returns the raw source lines of a code block
func (p *mdPage) lines(n ast.Node) string {
	var b strings.Builder
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(p.source))
	}
	return b.String()
}

// inline renders the inline content of n as plain text. Line breaks are kept
// as newlines for the caller to fold.
func (p *mdPage) inline(n ast.Node) string {
	var b strings.Builder
	p.writeInline(&b, n)
	return b.String()
}

func (p *mdPage) writeInline(b *strings.Builder, parent ast.Node) {
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(p.source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.CodeSpan:
			code := p.inline(c)
			if p.isInlineMath(c) {
				code = StripTeX(code)
			}
			b.WriteString(code)
		case *ast.AutoLink:
			b.Write(c.Label(p.source))
		case *ast.RawHTML:
		default:
			// Emphasis, links and image alt text keep their children
			p.writeInline(b, c)
		}
	}
}

// isInlineMath reports whether a code span was opened with exactly two
// backticks, Documenter's inline math syntax
func (p *mdPage) isInlineMath(span *ast.CodeSpan) bool {
	first, ok := span.FirstChild().(*ast.Text)
	if !ok {
		return false
	}
	start := first.Segment.Start
	if start < 2 || p.source[start-1] != '`' || p.source[start-2] != '`' {
		return false
	}
	return start < 3 || p.source[start-3] != '`'
}

func (p *mdPage) section(heading string) {
	if heading == "" {
		return
	}
	p.records = append(p.records, searchindex.Record{
		Location: p.pagePath + "#" + p.anchors.Next(heading),
		Page:     p.name,
		Title:    heading,
		Category: searchindex.CategorySection,
	})
}

// join adds piece to the pending record, starting a new one unless piece
// directly follows an open block
func (p *mdPage) join(piece string, adjacent bool) {
	if !adjacent || !p.open {
		p.flush()
	}
	p.pending = append(p.pending, piece)
	p.open = true
}

func (p *mdPage) flush() {
	p.emit(strings.Join(p.pending, " "))
	p.pending = nil
	p.open = false
}

func (p *mdPage) emit(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	p.records = append(p.records, searchindex.Record{
		Location: p.location,
		Page:     p.name,
		Title:    p.name,
		Text:     text,
		Category: searchindex.CategoryPage,
	})
}
