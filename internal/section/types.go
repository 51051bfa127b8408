// Package section splits Markdown documents into heading-delimited sections.
// Sections are the unit of indexing and retrieval: each one covers an exact
// byte span of its document, so concatenating all spans in order reproduces
// the original text.
package section

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Document is a source Markdown file, immutable once loaded.
type Document struct {
	Path string // Relative to the indexed root
	Raw  string // Full file content
}

// Section is a contiguous span of a Document under one heading.
// Level 0 marks preamble content before the first heading, or a whole
// document that has no headings at all.
type Section struct {
	ID      string // Stable identifier, derived from path and ordinal
	DocPath string // Owning document path
	Heading string // Heading text without markers, empty for level 0
	Level   int    // 0-6
	Body    string // Span content excluding the heading line
	Span    string // Exact raw span including the heading line
	Ordinal int    // Position within the document, 0-based
}

// ID returns the stable section identifier for a document path and ordinal.
// Rebuilding an index over unchanged files yields the same IDs.
func ID(docPath string, ordinal int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s#%d", docPath, ordinal)))
	return hex.EncodeToString(sum[:])[:16]
}
