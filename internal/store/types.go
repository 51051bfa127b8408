// Package store provides the inverted index over document sections.
// Two backends are available behind a common interface: a hand-rolled
// in-memory index (default) and Bleve. Indexes are process-scoped and
// rebuilt wholesale; there is no persistence.
package store

import (
	"context"

	"github.com/mhollis/docdex/internal/section"
)

// Backend names accepted by New.
const (
	// BackendMemory is the default in-memory inverted index.
	BackendMemory = "memory"
	// BackendBleve uses a memory-only Bleve index with BM25 scoring.
	BackendBleve = "bleve"
)

// Ranking modes for the memory backend.
const (
	// RankingTF scores a section by the total occurrence count of the
	// matched query terms.
	RankingTF = "tf"
	// RankingBM25 applies BM25 with the configured K1 and B parameters.
	RankingBM25 = "bm25"
)

// Posting records one section's occurrence count for a term.
type Posting struct {
	SectionID string
	Count     int
}

// Result is a scored section reference returned from a search.
// Results carry no ordering guarantee; callers apply deterministic
// tie-breaking using section metadata.
type Result struct {
	SectionID string
	Score     float64
}

// Stats describes the contents of a built index.
type Stats struct {
	SectionCount     int
	TermCount        int
	AvgSectionLength float64
}

// Index is the keyword index over sections.
type Index interface {
	// Add indexes the given sections. Sections are assumed fresh; a
	// rebuild constructs a new Index rather than mutating an old one.
	Add(ctx context.Context, sections []*section.Section) error

	// Search matches a raw query against the index. An empty or
	// unmatchable query yields an empty result, never an error.
	Search(ctx context.Context, query string) ([]*Result, error)

	// Stats returns index statistics.
	Stats() *Stats

	Close() error
}

// Config configures index construction.
type Config struct {
	// Backend selects the index implementation: "memory" or "bleve".
	Backend string

	// Ranking selects the scoring mode for the memory backend.
	Ranking string

	// K1 is the BM25 term frequency saturation parameter.
	K1 float64

	// B is the BM25 length normalization parameter.
	B float64

	// StopWords are filtered out during tokenization. Empty by default
	// so that every term in a section is searchable.
	StopWords []string
}

// DefaultConfig returns the default index configuration.
func DefaultConfig() Config {
	return Config{
		Backend: BackendMemory,
		Ranking: RankingTF,
		K1:      1.2,
		B:       0.75,
	}
}

// indexText is the searchable text of a section: heading plus body, so
// queries match heading words as well as content.
func indexText(s *section.Section) string {
	if s.Heading == "" {
		return s.Body
	}
	return s.Heading + "\n" + s.Body
}
