// Package watcher detects changes to Markdown trees and emits
// debounced event batches so the serve command can rebuild its index.
package watcher

import "time"

// Operation is a file system operation type.
type Operation int

const (
	// OpCreate indicates a new file was created.
	OpCreate Operation = iota
	// OpModify indicates an existing file was modified.
	OpModify
	// OpDelete indicates a file was deleted.
	OpDelete
	// OpRename indicates a file was renamed.
	OpRename
	// OpGitignoreChange indicates a .gitignore file changed, which
	// invalidates scanner caches before the rebuild.
	OpGitignoreChange
	// OpConfigChange indicates the project config file changed.
	OpConfigChange
)

// String returns a readable name for the operation.
func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpModify:
		return "MODIFY"
	case OpDelete:
		return "DELETE"
	case OpRename:
		return "RENAME"
	case OpGitignoreChange:
		return "GITIGNORE_CHANGE"
	case OpConfigChange:
		return "CONFIG_CHANGE"
	default:
		return "UNKNOWN"
	}
}

// FileEvent is one file system event.
type FileEvent struct {
	Path      string
	Operation Operation
	IsDir     bool
	Timestamp time.Time
}

// Options configure the watcher.
type Options struct {
	// DebounceWindow is how long to coalesce events before emitting
	// a batch. Default 500ms.
	DebounceWindow time.Duration

	// EventBufferSize is the output channel buffer. Default 100.
	EventBufferSize int

	// IgnorePatterns are gitignore-style patterns skipped in
	// addition to the built-in defaults.
	IgnorePatterns []string
}

// WithDefaults fills zero values.
func (o Options) WithDefaults() Options {
	if o.DebounceWindow == 0 {
		o.DebounceWindow = 500 * time.Millisecond
	}
	if o.EventBufferSize == 0 {
		o.EventBufferSize = 100
	}
	return o
}
