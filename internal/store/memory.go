package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/mhollis/docdex/internal/section"
)

// MemoryIndex is the default in-memory inverted index. Postings for each
// term are appended in section insertion order, so building twice from the
// same ordered section set yields an identical index.
type MemoryIndex struct {
	mu     sync.RWMutex
	cfg    Config
	stop   map[string]struct{}
	closed bool

	inverted    map[string][]Posting
	lengths     map[string]int
	totalLength int64
	count       int
}

// NewMemoryIndex creates an empty memory index.
func NewMemoryIndex(cfg Config) *MemoryIndex {
	if cfg.Ranking == "" {
		cfg.Ranking = RankingTF
	}
	if cfg.K1 == 0 {
		cfg.K1 = 1.2
	}
	if cfg.B == 0 {
		cfg.B = 0.75
	}
	return &MemoryIndex{
		cfg:      cfg,
		stop:     BuildStopTermSet(cfg.StopWords),
		inverted: make(map[string][]Posting),
		lengths:  make(map[string]int),
	}
}

var _ Index = (*MemoryIndex)(nil)

func (m *MemoryIndex) terms(text string) []string {
	return FilterStopTerms(Tokenize(text), m.stop)
}

// Add indexes sections in the given order.
func (m *MemoryIndex) Add(ctx context.Context, sections []*section.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("index is closed")
	}

	for _, s := range sections {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		terms := m.terms(indexText(s))

		m.lengths[s.ID] = len(terms)
		m.totalLength += int64(len(terms))
		m.count++

		tf := make(map[string]int, len(terms))
		for _, t := range terms {
			tf[t]++
		}
		// Iterate the section's terms in first-occurrence order so the
		// posting lists come out identical on every rebuild.
		for _, t := range uniqueTerms(terms) {
			m.inverted[t] = append(m.inverted[t], Posting{SectionID: s.ID, Count: tf[t]})
		}
	}

	return nil
}

// Search scores all sections containing any query term (OR semantics).
func (m *MemoryIndex) Search(ctx context.Context, query string) ([]*Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("index is closed")
	}

	terms := uniqueTerms(m.terms(query))
	if len(terms) == 0 || m.count == 0 {
		return []*Result{}, nil
	}

	scores := make(map[string]float64)
	for _, t := range terms {
		postings, ok := m.inverted[t]
		if !ok {
			continue
		}

		switch m.cfg.Ranking {
		case RankingBM25:
			idf := m.idf(len(postings))
			avg := float64(m.totalLength) / float64(m.count)
			for _, p := range postings {
				tf := float64(p.Count)
				norm := tf + m.cfg.K1*(1-m.cfg.B+m.cfg.B*(float64(m.lengths[p.SectionID])/avg))
				scores[p.SectionID] += idf * (tf * (m.cfg.K1 + 1) / norm)
			}
		default:
			for _, p := range postings {
				scores[p.SectionID] += float64(p.Count)
			}
		}
	}

	results := make([]*Result, 0, len(scores))
	for id, score := range scores {
		results = append(results, &Result{SectionID: id, Score: score})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].SectionID < results[j].SectionID
	})

	return results, nil
}

// idf computes log(1 + (N - n + 0.5) / (n + 0.5)).
func (m *MemoryIndex) idf(df int) float64 {
	n := float64(df)
	return math.Log(1 + (float64(m.count)-n+0.5)/(n+0.5))
}

// Postings returns the posting list for a term. Exposed for consistency
// checks and tests; the returned slice must not be mutated.
func (m *MemoryIndex) Postings(term string) []Posting {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inverted[term]
}

// Stats returns index statistics.
func (m *MemoryIndex) Stats() *Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := &Stats{
		SectionCount: m.count,
		TermCount:    len(m.inverted),
	}
	if m.count > 0 {
		s.AvgSectionLength = float64(m.totalLength) / float64(m.count)
	}
	return s
}

// Close marks the index closed. The memory backend holds no resources.
func (m *MemoryIndex) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
