package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mhollis/docdex/internal/search"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

type searchResponse struct {
	Query   string           `json:"query"`
	Results []*search.Result `json:"results"`
	Total   int              `json:"total"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := s.opts.MaxResults
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		if n < limit {
			limit = n
		}
	}

	results, err := s.engine.Search(r.Context(), query, search.Options{
		MaxResults:   limit,
		ExcerptLines: s.opts.ExcerptLines,
	})
	if err != nil {
		s.log.Error("search failed", "query", query, "error", err)
		jsonError(w, "search failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, searchResponse{Query: query, Results: results, Total: len(results)})
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if s.rebuild == nil {
		jsonError(w, "reindex unavailable", http.StatusServiceUnavailable)
		return
	}

	s.reindexMu.Lock()
	report, err := s.rebuild(r.Context())
	s.reindexMu.Unlock()
	if err != nil {
		s.log.Error("reindex failed", "error", err)
		jsonError(w, "reindex failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, report)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.Stats())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
