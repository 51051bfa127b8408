package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
}

func collect(t *testing.T, s *Scanner, opts *Options) []string {
	t.Helper()
	ch, err := s.Scan(context.Background(), opts)
	require.NoError(t, err)

	var paths []string
	for res := range ch {
		require.NoError(t, res.Error)
		paths = append(paths, res.File.Path)
	}
	sort.Strings(paths)
	return paths
}

func TestScanner_FindsMarkdownOnly(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"readme.md":        "# Readme\n",
		"docs/guide.md":    "# Guide\n",
		"docs/notes.mdx":   "# Notes\n",
		"docs/other.MD":    "# Upper\n",
		"main.go":          "package main\n",
		"docs/img.png":     "not markdown",
		"docs/legacy.markdown": "# Old\n",
	})

	s, err := New()
	require.NoError(t, err)

	paths := collect(t, s, &Options{Root: root})

	assert.Equal(t, []string{
		"docs/guide.md",
		"docs/legacy.markdown",
		"docs/notes.mdx",
		"docs/other.MD",
		"readme.md",
	}, paths)
}

func TestScanner_DefaultExcludes(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"keep.md":                    "# Keep\n",
		"node_modules/pkg/readme.md": "# Dep\n",
		"vendor/lib/doc.md":          "# Vendor\n",
		".git/description.md":        "# Git\n",
	})

	s, err := New()
	require.NoError(t, err)

	assert.Equal(t, []string{"keep.md"}, collect(t, s, &Options{Root: root}))
}

func TestScanner_CustomExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"keep.md":          "# Keep\n",
		"drafts/wip.md":    "# WIP\n",
		"notes/secret.md":  "# Secret\n",
		"notes/public.md":  "# Public\n",
	})

	s, err := New()
	require.NoError(t, err)

	paths := collect(t, s, &Options{
		Root:    root,
		Exclude: []string{"drafts/", "secret.md"},
	})

	assert.Equal(t, []string{"keep.md", "notes/public.md"}, paths)
}

func TestScanner_IncludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"readme.md":     "# Readme\n",
		"docs/api.md":   "# API\n",
		"docs/guide.md": "# Guide\n",
	})

	s, err := New()
	require.NoError(t, err)

	paths := collect(t, s, &Options{
		Root:    root,
		Include: []string{"docs/**"},
	})

	assert.Equal(t, []string{"docs/api.md", "docs/guide.md"}, paths)
}

func TestScanner_RespectsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		".gitignore":          "generated/\n*.draft.md\n",
		"keep.md":             "# Keep\n",
		"post.draft.md":       "# Draft\n",
		"generated/out.md":    "# Generated\n",
		"sub/.gitignore":      "local.md\n",
		"sub/local.md":        "# Local\n",
		"sub/visible.md":      "# Visible\n",
	})

	s, err := New()
	require.NoError(t, err)

	paths := collect(t, s, &Options{Root: root, RespectGitignore: true})

	assert.Equal(t, []string{"keep.md", "sub/visible.md"}, paths)
}

func TestScanner_CachesMissingGitignore(t *testing.T) {
	dir := t.TempDir()
	s, err := New()
	require.NoError(t, err)

	// First lookup stats the directory and caches the absence.
	require.Nil(t, s.matcherFor(dir, ""))
	assert.True(t, s.gitignores.Contains(dir), "absence of a .gitignore should be cached")

	// A .gitignore written afterwards stays invisible until the cache
	// is invalidated.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("drafts/\n"), 0o644))
	assert.Nil(t, s.matcherFor(dir, ""))

	s.InvalidateGitignoreCache()
	m := s.matcherFor(dir, "")
	require.NotNil(t, m)
	assert.True(t, m.Match("drafts", true))
}

func TestScanner_SkipsOversizeFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"small.md": "# Small\n",
		"big.md":   "# Big\n" + string(make([]byte, 200)),
	})

	s, err := New()
	require.NoError(t, err)

	paths := collect(t, s, &Options{Root: root, MaxFileSize: 100})

	assert.Equal(t, []string{"small.md"}, paths)
}

func TestScanner_RootValidation(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	_, err = s.Scan(context.Background(), &Options{Root: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.md")
	require.NoError(t, os.WriteFile(file, []byte("# F\n"), 0o644))
	_, err = s.Scan(context.Background(), &Options{Root: file})
	require.Error(t, err)
}

func TestScanner_ContextCancellation(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.md": "# A\n"})

	s, err := New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch, err := s.Scan(ctx, &Options{Root: root})
	require.NoError(t, err)

	// Channel must close even though the walk was cancelled.
	for range ch {
	}
}
