package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"

	"github.com/mhollis/docdex/internal/section"
)

const (
	// markdownTokenizerName is the registered name of the tokenizer that
	// routes Bleve analysis through Tokenize, keeping index-time and
	// query-time terms identical across backends.
	markdownTokenizerName = "docdex_markdown"

	// markdownAnalyzerName is the registered name of the analyzer built
	// on the markdown tokenizer.
	markdownAnalyzerName = "docdex_markdown_analyzer"
)

func init() {
	_ = registry.RegisterTokenizer(markdownTokenizerName, markdownTokenizerConstructor)
}

// BleveIndex is a memory-only Bleve index with BM25 scoring. Stop words are
// a memory-backend feature; this backend indexes every term.
type BleveIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	closed bool
}

// bleveSection is the document shape handed to Bleve.
type bleveSection struct {
	Text string `json:"text"`
}

// NewBleveIndex creates an in-memory Bleve index.
func NewBleveIndex(cfg Config) (*BleveIndex, error) {
	indexMapping, err := createIndexMapping()
	if err != nil {
		return nil, fmt.Errorf("failed to create index mapping: %w", err)
	}

	idx, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &BleveIndex{index: idx}, nil
}

var _ Index = (*BleveIndex)(nil)

// createIndexMapping builds the mapping with the markdown analyzer as default.
func createIndexMapping() (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(markdownAnalyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     markdownTokenizerName,
		"token_filters": []string{},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add custom analyzer: %w", err)
	}

	indexMapping.DefaultAnalyzer = markdownAnalyzerName
	return indexMapping, nil
}

// Add indexes sections in a single batch.
func (b *BleveIndex) Add(ctx context.Context, sections []*section.Section) error {
	if len(sections) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("index is closed")
	}

	batch := b.index.NewBatch()
	for _, s := range sections {
		if err := batch.Index(s.ID, bleveSection{Text: indexText(s)}); err != nil {
			return fmt.Errorf("failed to index section %s: %w", s.ID, err)
		}
	}

	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to execute batch: %w", err)
	}

	return nil
}

// Search returns all sections matching the query, scored by Bleve's BM25.
func (b *BleveIndex) Search(ctx context.Context, query string) ([]*Result, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("index is closed")
	}

	if strings.TrimSpace(query) == "" {
		return []*Result{}, nil
	}

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetField("text")

	docCount, _ := b.index.DocCount()
	req := bleve.NewSearchRequest(matchQuery)
	req.Size = int(docCount)

	result, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]*Result, 0, len(result.Hits))
	for _, hit := range result.Hits {
		results = append(results, &Result{SectionID: hit.ID, Score: hit.Score})
	}

	return results, nil
}

// Stats returns index statistics. Bleve does not expose term counts or
// average lengths directly, so only the section count is populated.
func (b *BleveIndex) Stats() *Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return &Stats{}
	}

	docCount, _ := b.index.DocCount()
	return &Stats{SectionCount: int(docCount)}
}

// Close closes the underlying Bleve index.
func (b *BleveIndex) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	return b.index.Close()
}

// markdownTokenizerConstructor creates the registered Bleve tokenizer.
func markdownTokenizerConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.Tokenizer, error) {
	return &markdownTokenizer{}, nil
}

// markdownTokenizer adapts Tokenize to Bleve's analysis interface.
type markdownTokenizer struct{}

// Tokenize implements analysis.Tokenizer.
func (t *markdownTokenizer) Tokenize(input []byte) analysis.TokenStream {
	text := string(input)
	tokens := Tokenize(text)

	stream := make(analysis.TokenStream, 0, len(tokens))
	pos := 1
	offset := 0

	for _, tok := range tokens {
		start := strings.Index(strings.ToLower(text[offset:]), tok)
		if start == -1 {
			start = offset
		} else {
			start += offset
		}
		end := start + len(tok)

		stream = append(stream, &analysis.Token{
			Term:     []byte(tok),
			Start:    start,
			End:      end,
			Position: pos,
			Type:     analysis.AlphaNumeric,
		})
		pos++
		if end <= len(text) {
			offset = end
		}
	}

	return stream
}
