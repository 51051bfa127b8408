package store

import (
	"fmt"

	derrors "github.com/mhollis/docdex/internal/errors"
)

// New creates an Index using the backend named in cfg.
//
// backend options:
//   - "memory" (default): hand-rolled inverted index, tf or bm25 ranking
//   - "bleve": memory-only Bleve index, BM25 scoring
func New(cfg Config) (Index, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryIndex(cfg), nil

	case BackendBleve:
		return NewBleveIndex(cfg)

	default:
		return nil, derrors.New(derrors.ErrCodeInvalidBackend,
			fmt.Sprintf("unknown index backend: %s (valid options: memory, bleve)", cfg.Backend), nil)
	}
}
