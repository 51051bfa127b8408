// Package search ranks indexed sections against user queries.
//
// The engine holds an immutable snapshot of the index plus section
// metadata. Re-indexing builds a fresh snapshot and swaps it in
// atomically, so searches never observe a half-built index.
package search

import (
	"time"

	"github.com/mhollis/docdex/internal/section"
	"github.com/mhollis/docdex/internal/store"
)

// DefaultMaxResults caps result counts when callers pass no limit.
const DefaultMaxResults = 10

// DefaultExcerptLines is the number of body lines shown per result.
const DefaultExcerptLines = 3

// Result is a ranked section returned from a search.
type Result struct {
	SectionID string  `json:"section_id"`
	DocPath   string  `json:"doc_path"`
	Heading   string  `json:"heading,omitempty"`
	Level     int     `json:"level"`
	Ordinal   int     `json:"ordinal"`
	Score     float64 `json:"score"`
	Excerpt   string  `json:"excerpt,omitempty"`
}

// Options control a single search call.
type Options struct {
	// MaxResults limits how many results are returned. Zero or
	// negative means DefaultMaxResults.
	MaxResults int

	// ExcerptLines is how many non-blank body lines to include in
	// each excerpt. Zero means DefaultExcerptLines; negative
	// disables excerpts.
	ExcerptLines int
}

// Snapshot is one immutable generation of the index.
type Snapshot struct {
	Index    store.Index
	Sections map[string]*section.Section

	// Documents is the number of source files in this generation.
	Documents int
	// BuiltAt records when the snapshot was installed.
	BuiltAt time.Time
}

// Stats describes the currently installed snapshot.
type Stats struct {
	Documents int          `json:"documents"`
	Sections  int          `json:"sections"`
	Terms     int          `json:"terms"`
	BuiltAt   time.Time    `json:"built_at"`
	Index     *store.Stats `json:"index"`
}
