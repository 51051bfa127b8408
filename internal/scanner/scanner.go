package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mhollis/docdex/internal/gitignore"
)

// gitignoreCacheSize bounds the per-directory matcher cache so long
// running watch sessions do not grow without limit.
const gitignoreCacheSize = 256

// Scanner walks a directory tree and streams Markdown files.
type Scanner struct {
	gitignores *lru.Cache[string, *gitignore.Matcher]
}

// New returns a ready Scanner.
func New() (*Scanner, error) {
	cache, err := lru.New[string, *gitignore.Matcher](gitignoreCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create gitignore cache: %w", err)
	}
	return &Scanner{gitignores: cache}, nil
}

// Scan walks opts.Root and streams discovered Markdown files on the
// returned channel. The channel closes when the walk finishes or ctx
// is cancelled.
func (s *Scanner) Scan(ctx context.Context, opts *Options) (<-chan Result, error) {
	if opts == nil {
		opts = &Options{}
	}

	root := opts.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", absRoot)
	}

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	exclude := gitignore.New()
	for _, p := range defaultExcludeDirs {
		exclude.Add(p)
	}
	for _, p := range opts.Exclude {
		exclude.Add(p)
	}

	var include *gitignore.Matcher
	if len(opts.Include) > 0 {
		include = gitignore.New()
		for _, p := range opts.Include {
			include.Add(p)
		}
	}

	results := make(chan Result, 64)
	go func() {
		defer close(results)
		s.walk(ctx, absRoot, opts, exclude, include, maxSize, results)
	}()
	return results, nil
}

func (s *Scanner) walk(ctx context.Context, absRoot string, opts *Options, exclude, include *gitignore.Matcher, maxSize int64, results chan<- Result) {
	err := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if exclude.Match(rel, true) {
				return filepath.SkipDir
			}
			if opts.RespectGitignore && s.gitignored(absRoot, rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 && !opts.FollowSymlinks {
			return nil
		}
		if !markdownExtensions[strings.ToLower(filepath.Ext(rel))] {
			return nil
		}
		if exclude.Match(rel, false) {
			return nil
		}
		if include != nil && !include.Match(rel, false) {
			return nil
		}
		if opts.RespectGitignore && s.gitignored(absRoot, rel, false) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxSize {
			return nil
		}

		select {
		case results <- Result{File: &FileInfo{
			Path:    rel,
			AbsPath: path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}}:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})

	if err != nil && err != context.Canceled {
		select {
		case results <- Result{Error: err}:
		default:
		}
	}
}

// gitignored checks rel against the root .gitignore and every nested
// .gitignore above it.
func (s *Scanner) gitignored(absRoot, rel string, isDir bool) bool {
	if m := s.matcherFor(absRoot, ""); m != nil && m.Match(rel, isDir) {
		return true
	}

	dir := filepath.Dir(rel)
	if dir == "." {
		return false
	}
	base := ""
	for _, part := range strings.Split(dir, "/") {
		if base == "" {
			base = part
		} else {
			base = base + "/" + part
		}
		m := s.matcherFor(filepath.Join(absRoot, filepath.FromSlash(base)), base)
		if m != nil && m.Match(rel, isDir) {
			return true
		}
	}
	return false
}

// matcherFor loads and caches the .gitignore in dir, or nil if absent.
// Directories without one are cached as nil so repeat lookups skip the
// stat.
func (s *Scanner) matcherFor(dir, base string) *gitignore.Matcher {
	if m, ok := s.gitignores.Get(dir); ok {
		return m
	}

	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		s.gitignores.Add(dir, nil)
		return nil
	}
	m := gitignore.New()
	if err := m.AddFile(path, base); err != nil {
		s.gitignores.Add(dir, nil)
		return nil
	}
	s.gitignores.Add(dir, m)
	return m
}

// InvalidateGitignoreCache drops cached matchers. Called when a
// .gitignore file changes under watch.
func (s *Scanner) InvalidateGitignoreCache() {
	s.gitignores.Purge()
}
