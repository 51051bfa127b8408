// Package scanner discovers Markdown documents under a root
// directory, honoring exclude patterns and .gitignore rules.
package scanner

import "time"

// DefaultMaxFileSize caps document size at 10MB.
const DefaultMaxFileSize = 10 * 1024 * 1024

// markdownExtensions lists file extensions treated as Markdown.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdx":      true,
}

// FileInfo describes one discovered document.
type FileInfo struct {
	Path    string // relative to the scan root, slash-separated
	AbsPath string
	Size    int64
	ModTime time.Time
}

// Options configure a scan.
type Options struct {
	// Root is the directory to scan. Empty means the current
	// directory.
	Root string

	// Include restricts results to paths matching these
	// gitignore-style patterns. Empty means all Markdown files.
	Include []string

	// Exclude drops paths matching these gitignore-style patterns,
	// in addition to the built-in defaults.
	Exclude []string

	// RespectGitignore enables .gitignore parsing.
	RespectGitignore bool

	// MaxFileSize in bytes. Zero means DefaultMaxFileSize.
	MaxFileSize int64

	// FollowSymlinks enables following symbolic links.
	FollowSymlinks bool
}

// Result is one item streamed from Scan.
type Result struct {
	File  *FileInfo
	Error error
}

// defaultExcludeDirs are skipped in every scan.
var defaultExcludeDirs = []string{
	"node_modules/",
	".git/",
	"vendor/",
	"dist/",
	"build/",
	"__pycache__/",
}
