package section

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// Parser splits raw Markdown into Sections at ATX heading markers (#..######).
// It walks the goldmark AST to locate headings, so hash lines inside fenced
// code blocks are never treated as section boundaries.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a Parser with a default goldmark instance.
func NewParser() *Parser {
	return &Parser{md: goldmark.New()}
}

// boundary marks where a heading line begins in the source.
type boundary struct {
	offset  int
	level   int
	heading string
}

// Parse splits a document into sections. Content before the first heading
// becomes a level-0 preamble section; a document without headings yields a
// single level-0 section covering the whole text. The returned sections'
// spans partition the document exactly.
func (p *Parser) Parse(doc *Document) []*Section {
	src := []byte(doc.Raw)
	root := p.md.Parser().Parse(gmtext.NewReader(src))

	var bounds []boundary
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		off, ok := headingLineStart(src, h)
		if !ok {
			continue
		}
		bounds = append(bounds, boundary{
			offset:  off,
			level:   h.Level,
			heading: strings.TrimSpace(string(h.Text(src))),
		})
	}

	if len(bounds) == 0 {
		return []*Section{{
			ID:      ID(doc.Path, 0),
			DocPath: doc.Path,
			Level:   0,
			Body:    doc.Raw,
			Span:    doc.Raw,
			Ordinal: 0,
		}}
	}

	var sections []*Section
	ordinal := 0

	if bounds[0].offset > 0 {
		span := doc.Raw[:bounds[0].offset]
		sections = append(sections, &Section{
			ID:      ID(doc.Path, ordinal),
			DocPath: doc.Path,
			Level:   0,
			Body:    span,
			Span:    span,
			Ordinal: ordinal,
		})
		ordinal++
	}

	for i, b := range bounds {
		end := len(doc.Raw)
		if i+1 < len(bounds) {
			end = bounds[i+1].offset
		}
		span := doc.Raw[b.offset:end]

		// Body starts after the heading line.
		body := ""
		if nl := strings.IndexByte(span, '\n'); nl >= 0 {
			body = span[nl+1:]
		}

		sections = append(sections, &Section{
			ID:      ID(doc.Path, ordinal),
			DocPath: doc.Path,
			Heading: b.heading,
			Level:   b.level,
			Body:    body,
			Span:    span,
			Ordinal: ordinal,
		})
		ordinal++
	}

	return sections
}

// headingLineStart returns the byte offset of the start of the line holding
// the heading markers. Returns false for headings that cannot anchor a
// section boundary: setext headings (underlined style) and empty ATX
// headings with no text segment.
func headingLineStart(src []byte, h *ast.Heading) (int, bool) {
	if h.Lines().Len() == 0 {
		return 0, false
	}

	off := h.Lines().At(0).Start
	for off > 0 && src[off-1] != '\n' {
		off--
	}

	// ATX headings allow up to three leading spaces before the first '#'.
	i := off
	for i < len(src) && i-off < 3 && src[i] == ' ' {
		i++
	}
	if i >= len(src) || src[i] != '#' {
		return 0, false
	}

	return off, true
}
