// Package docdex is the embeddable API for indexing and searching
// Markdown documentation trees.
//
// # Usage
//
// Open a client over a directory, search it, and close it:
//
//	client, err := docdex.Open(ctx, "./docs")
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	results, err := client.Search(ctx, "S3 buckets", 10)
//
// # Thread Safety
//
// A Client is safe for concurrent use. Search runs against an
// immutable snapshot; Reindex builds a new snapshot and swaps it in
// atomically, so searches never observe a half-built index.
package docdex

import (
	"context"
	"log/slog"

	"github.com/mhollis/docdex/internal/index"
	"github.com/mhollis/docdex/internal/scanner"
	"github.com/mhollis/docdex/internal/search"
	"github.com/mhollis/docdex/internal/store"
)

// Result is one ranked section returned from Search.
type Result = search.Result

// Stats describes the current index.
type Stats = search.Stats

// Report summarizes an indexing run.
type Report = index.Report

// Option configures a Client.
type Option func(*options)

type options struct {
	store   store.Config
	scan    *scanner.Options
	excerpt int
	logger  *slog.Logger
}

// WithBM25 ranks results with BM25 instead of raw occurrence counts.
func WithBM25() Option {
	return func(o *options) { o.store.Ranking = store.RankingBM25 }
}

// WithBleveBackend stores the index in bleve instead of the built-in
// in-memory inverted index.
func WithBleveBackend() Option {
	return func(o *options) { o.store.Backend = store.BackendBleve }
}

// WithStopWords drops the given terms at index and query time.
func WithStopWords(words []string) Option {
	return func(o *options) { o.store.StopWords = words }
}

// WithExcludes skips paths matching the given gitignore-style
// patterns.
func WithExcludes(patterns []string) Option {
	return func(o *options) {
		if o.scan == nil {
			o.scan = &scanner.Options{}
		}
		o.scan.Exclude = patterns
	}
}

// WithExcerptLines sets how many body lines each result excerpt
// carries. Negative disables excerpts.
func WithExcerptLines(n int) Option {
	return func(o *options) { o.excerpt = n }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Client indexes one documentation tree and answers queries over it.
type Client struct {
	root   string
	coord  *index.Coordinator
	engine *search.Engine
	opts   options
}

// Open builds the index for root and returns a ready Client.
func Open(ctx context.Context, root string, opts ...Option) (*Client, error) {
	o := options{store: store.DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}

	coord, err := index.NewCoordinator(o.logger)
	if err != nil {
		return nil, err
	}

	c := &Client{
		root:   root,
		coord:  coord,
		engine: search.NewEngine(o.logger),
		opts:   o,
	}
	if _, err := c.Reindex(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Search returns up to limit sections matching query, ranked best
// first. An empty query returns no results.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]*Result, error) {
	return c.engine.Search(ctx, query, search.Options{
		MaxResults:   limit,
		ExcerptLines: c.opts.excerpt,
	})
}

// Reindex rebuilds the index from the filesystem and installs the
// fresh snapshot. Concurrent searches keep using the previous
// snapshot until the swap.
func (c *Client) Reindex(ctx context.Context) (*Report, error) {
	snap, report, err := c.coord.Build(ctx, index.Options{
		Root:  c.root,
		Scan:  c.opts.scan,
		Store: c.opts.store,
	})
	if err != nil {
		return nil, err
	}
	c.engine.Install(snap)
	return report, nil
}

// Stats reports on the current snapshot.
func (c *Client) Stats() *Stats {
	return c.engine.Stats()
}

// Close releases the index.
func (c *Client) Close() error {
	return c.engine.Close()
}
