package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mhollis/docdex/internal/section"
	"github.com/mhollis/docdex/internal/store"
)

// Engine answers queries against the current snapshot.
type Engine struct {
	current atomic.Pointer[Snapshot]
	logger  *slog.Logger
}

// NewEngine returns an engine with no snapshot installed. Searches
// return empty results until Install is called.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Install swaps in a new snapshot and closes the previous one.
// Searches in flight keep using the snapshot they loaded.
func (e *Engine) Install(snap *Snapshot) {
	if snap != nil && snap.BuiltAt.IsZero() {
		snap.BuiltAt = time.Now()
	}
	old := e.current.Swap(snap)
	if old != nil && old.Index != nil {
		if err := old.Index.Close(); err != nil {
			e.logger.Warn("failed to close replaced index", "error", err)
		}
	}
}

// Snapshot returns the currently installed snapshot, or nil.
func (e *Engine) Snapshot() *Snapshot {
	return e.current.Load()
}

// Search runs a query against the current snapshot. The result order
// is deterministic: score descending, then document path ascending,
// then ordinal ascending. An empty or whitespace query returns no
// results.
func (e *Engine) Search(ctx context.Context, query string, opts Options) ([]*Result, error) {
	snap := e.current.Load()
	if snap == nil || snap.Index == nil {
		return []*Result{}, nil
	}
	if strings.TrimSpace(query) == "" {
		return []*Result{}, nil
	}

	start := time.Now()
	matches, err := snap.Index.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(matches))
	for _, m := range matches {
		sec, ok := snap.Sections[m.SectionID]
		if !ok {
			// Index and section map are built together; a miss
			// means a corrupted snapshot, skip rather than panic.
			e.logger.Warn("search hit unknown section", "section_id", m.SectionID)
			continue
		}
		results = append(results, &Result{
			SectionID: sec.ID,
			DocPath:   sec.DocPath,
			Heading:   sec.Heading,
			Level:     sec.Level,
			Ordinal:   sec.Ordinal,
			Score:     m.Score,
			Excerpt:   excerpt(sec, opts.ExcerptLines),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].DocPath != results[j].DocPath {
			return results[i].DocPath < results[j].DocPath
		}
		return results[i].Ordinal < results[j].Ordinal
	})

	max := opts.MaxResults
	if max <= 0 {
		max = DefaultMaxResults
	}
	if len(results) > max {
		results = results[:max]
	}

	e.logger.Debug("search completed",
		"query", query,
		"results", len(results),
		"duration_ms", time.Since(start).Milliseconds())

	return results, nil
}

// Stats reports on the installed snapshot. Returns zero stats when
// nothing is installed.
func (e *Engine) Stats() *Stats {
	snap := e.current.Load()
	if snap == nil || snap.Index == nil {
		return &Stats{Index: &store.Stats{}}
	}
	idx := snap.Index.Stats()
	return &Stats{
		Documents: snap.Documents,
		Sections:  len(snap.Sections),
		Terms:     idx.TermCount,
		BuiltAt:   snap.BuiltAt,
		Index:     idx,
	}
}

// Close releases the current snapshot's index.
func (e *Engine) Close() error {
	snap := e.current.Swap(nil)
	if snap != nil && snap.Index != nil {
		return snap.Index.Close()
	}
	return nil
}

// excerpt returns the first n non-blank lines of the section body.
func excerpt(sec *section.Section, n int) string {
	if n < 0 {
		return ""
	}
	if n == 0 {
		n = DefaultExcerptLines
	}
	var lines []string
	for _, line := range strings.Split(sec.Body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == n {
			break
		}
	}
	return strings.Join(lines, "\n")
}
