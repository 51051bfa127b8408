package section

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SplitsAtHeadings(t *testing.T) {
	// Given: a document with two top-level headings
	doc := &Document{
		Path: "guide.md",
		Raw:  "# AWS\ntext about S3\n# Databases\ntext about SQL\n",
	}

	// When: parsing
	sections := NewParser().Parse(doc)

	// Then: one section per heading
	require.Len(t, sections, 2)
	assert.Equal(t, "AWS", sections[0].Heading)
	assert.Equal(t, 1, sections[0].Level)
	assert.Equal(t, "text about S3\n", sections[0].Body)
	assert.Equal(t, "Databases", sections[1].Heading)
	assert.Equal(t, "text about SQL\n", sections[1].Body)
	assert.Equal(t, 0, sections[0].Ordinal)
	assert.Equal(t, 1, sections[1].Ordinal)
}

func TestParse_HeadingLevels(t *testing.T) {
	doc := &Document{
		Path: "levels.md",
		Raw:  "# one\n## two\n### three\n#### four\n##### five\n###### six\n",
	}

	sections := NewParser().Parse(doc)

	require.Len(t, sections, 6)
	for i, s := range sections {
		assert.Equal(t, i+1, s.Level)
	}
}

func TestParse_PreambleBeforeFirstHeading(t *testing.T) {
	doc := &Document{
		Path: "pre.md",
		Raw:  "intro text\nmore intro\n# First\nbody\n",
	}

	sections := NewParser().Parse(doc)

	require.Len(t, sections, 2)
	assert.Equal(t, 0, sections[0].Level)
	assert.Empty(t, sections[0].Heading)
	assert.Equal(t, "intro text\nmore intro\n", sections[0].Span)
	assert.Equal(t, "First", sections[1].Heading)
}

func TestParse_NoHeadings(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "plain text", raw: "just some prose\nwith two lines\n"},
		{name: "empty document", raw: ""},
		{name: "whitespace only", raw: "\n\n  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := NewParser().Parse(&Document{Path: "d.md", Raw: tt.raw})

			// Whole document becomes a single level-0 section
			require.Len(t, sections, 1)
			assert.Equal(t, 0, sections[0].Level)
			assert.Equal(t, tt.raw, sections[0].Span)
		})
	}
}

func TestParse_HashInsideCodeFenceIsNotHeading(t *testing.T) {
	// Given: a fenced shell snippet containing a comment line
	doc := &Document{
		Path: "code.md",
		Raw:  "# Setup\n```sh\n# not a heading\necho hi\n```\n# Next\nbody\n",
	}

	sections := NewParser().Parse(doc)

	// Then: the fence content stays in the first section
	require.Len(t, sections, 2)
	assert.Contains(t, sections[0].Body, "# not a heading")
	assert.Equal(t, "Next", sections[1].Heading)
}

func TestParse_SetextHeadingIsNotBoundary(t *testing.T) {
	doc := &Document{
		Path: "setext.md",
		Raw:  "Title\n=====\nbody\n# Real\nmore\n",
	}

	sections := NewParser().Parse(doc)

	// Setext-style underlined titles stay inside the preamble span.
	require.Len(t, sections, 2)
	assert.Equal(t, 0, sections[0].Level)
	assert.Contains(t, sections[0].Span, "Title\n=====")
	assert.Equal(t, "Real", sections[1].Heading)
}

func TestParse_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "headings with bodies",
			raw:  "# A\nalpha\n## B\nbeta\n### C\ngamma\n",
		},
		{
			name: "preamble and trailing heading without body",
			raw:  "pre\n# A\nbody\n# B",
		},
		{
			name: "no trailing newline",
			raw:  "# A\nalpha",
		},
		{
			name: "no headings",
			raw:  "plain\ntext",
		},
		{
			name: "code fences and blank lines",
			raw:  "# Q\n\n```py\nimport boto3\n# comment\n```\n\n## Sub\ntail\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := NewParser().Parse(&Document{Path: "rt.md", Raw: tt.raw})

			var b strings.Builder
			for _, s := range sections {
				b.WriteString(s.Span)
			}
			assert.Equal(t, tt.raw, b.String(), "concatenated spans must reproduce the document")
		})
	}
}

func TestParse_StableIDs(t *testing.T) {
	doc := &Document{Path: "x.md", Raw: "# A\none\n# B\ntwo\n"}
	p := NewParser()

	first := p.Parse(doc)
	second := p.Parse(doc)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	assert.NotEqual(t, first[0].ID, first[1].ID)
}

func TestID_DependsOnPathAndOrdinal(t *testing.T) {
	assert.NotEqual(t, ID("a.md", 0), ID("b.md", 0))
	assert.NotEqual(t, ID("a.md", 0), ID("a.md", 1))
	assert.Len(t, ID("a.md", 0), 16)
}
