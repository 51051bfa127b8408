// Package index builds search snapshots from Markdown trees. It
// coordinates the scanner, the section parser, and the index store.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	derrors "github.com/mhollis/docdex/internal/errors"
	"github.com/mhollis/docdex/internal/scanner"
	"github.com/mhollis/docdex/internal/search"
	"github.com/mhollis/docdex/internal/section"
	"github.com/mhollis/docdex/internal/store"
)

// SkippedFile records a document that could not be indexed.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report summarizes one build.
type Report struct {
	Documents int           `json:"documents"`
	Sections  int           `json:"sections"`
	Skipped   []SkippedFile `json:"skipped,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Options configure a build.
type Options struct {
	Root    string
	Scan    *scanner.Options
	Store   store.Config
	Workers int // parse workers, 0 means NumCPU
}

// Coordinator builds snapshots. Safe for repeated use; each Build
// produces an independent snapshot.
type Coordinator struct {
	scanner *scanner.Scanner
	parser  *section.Parser
	logger  *slog.Logger
}

// NewCoordinator wires a coordinator from its parts.
func NewCoordinator(logger *slog.Logger) (*Coordinator, error) {
	sc, err := scanner.New()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		scanner: sc,
		parser:  section.NewParser(),
		logger:  logger,
	}, nil
}

// Scanner exposes the underlying scanner, used by the watcher to
// invalidate gitignore caches.
func (c *Coordinator) Scanner() *scanner.Scanner {
	return c.scanner
}

type parsedDoc struct {
	path     string
	sections []*section.Section
}

// Build scans the root, parses every document into sections, and
// indexes them. Unreadable files are reported in the Report, not
// treated as fatal.
func (c *Coordinator) Build(ctx context.Context, opts Options) (*search.Snapshot, *Report, error) {
	start := time.Now()

	scanOpts := opts.Scan
	if scanOpts == nil {
		scanOpts = &scanner.Options{}
	}
	if scanOpts.Root == "" {
		scanOpts.Root = opts.Root
	}

	files, err := c.scanner.Scan(ctx, scanOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", opts.Root, err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu      sync.Mutex
		docs    []parsedDoc
		skipped []SkippedFile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for res := range files {
		if res.Error != nil {
			return nil, nil, fmt.Errorf("scan %s: %w", opts.Root, res.Error)
		}
		file := res.File
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			raw, err := os.ReadFile(file.AbsPath)
			if err != nil {
				rerr := derrors.Wrap(derrors.ErrCodeDocumentRead, err)
				mu.Lock()
				skipped = append(skipped, SkippedFile{Path: file.Path, Reason: rerr.Error()})
				mu.Unlock()
				c.logger.Warn("skipping unreadable document", "path", file.Path, "error", rerr)
				return nil
			}

			secs := c.parser.Parse(&section.Document{Path: file.Path, Raw: string(raw)})
			mu.Lock()
			docs = append(docs, parsedDoc{path: file.Path, sections: secs})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Deterministic index order regardless of worker scheduling.
	sort.Slice(docs, func(i, j int) bool { return docs[i].path < docs[j].path })
	sort.Slice(skipped, func(i, j int) bool { return skipped[i].Path < skipped[j].Path })

	idx, err := store.New(opts.Store)
	if err != nil {
		return nil, nil, err
	}

	sections := make(map[string]*section.Section)
	var all []*section.Section
	for _, doc := range docs {
		for _, sec := range doc.sections {
			sections[sec.ID] = sec
			all = append(all, sec)
		}
	}
	if err := idx.Add(ctx, all); err != nil {
		_ = idx.Close()
		return nil, nil, derrors.New(derrors.ErrCodeIndexFailed, fmt.Sprintf("index sections: %v", err), err)
	}

	report := &Report{
		Documents: len(docs),
		Sections:  len(all),
		Skipped:   skipped,
		Duration:  time.Since(start),
	}
	snap := &search.Snapshot{
		Index:     idx,
		Sections:  sections,
		Documents: len(docs),
		BuiltAt:   time.Now(),
	}

	c.logger.Info("index built",
		"documents", report.Documents,
		"sections", report.Sections,
		"skipped", len(report.Skipped),
		"duration_ms", report.Duration.Milliseconds())

	return snap, report, nil
}
