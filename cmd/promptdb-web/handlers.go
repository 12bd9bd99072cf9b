package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	promptdb "github.com/korbirayen/promptdb"
)

// handlers holds dependencies for all HTTP handler methods. Every endpoint is
// read-only; a failing query degrades to a JSON error response, never a crash.
type handlers struct {
	engine *promptdb.Engine
}

const (
	defaultLimit = 50
	maxLimit     = 200
	maxOffset    = 1_000_000
)

// --- Response types ---

type healthResponse struct {
	OK   bool   `json:"ok"`
	Time string `json:"time"`
}

type statsResponse struct {
	Total    int                    `json:"total"`
	BySource []promptdb.SourceFacet `json:"by_source"`
}

type sourcesResponse struct {
	Items []promptdb.SourceFacet `json:"items"`
}

type promptRow struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Source     string `json:"source"`
	SourceRepo string `json:"source_repo"`
}

type promptListResponse struct {
	Items  []promptRow `json:"items"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
	Q      string      `json:"q"`
}

type promptResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Source     string `json:"source"`
	SourceRepo string `json:"source_repo"`
	SourcePath string `json:"source_path"`
}

type errorResponse struct {
	Error string `json:"error"`
	ID    int64  `json:"id,omitempty"`
}

// --- Helper methods ---

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("promptdb-web: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// clampIntParam parses a query parameter as an int clamped to [min, max],
// falling back to the default on absence or garbage.
func clampIntParam(r *http.Request, name string, defaultVal, min, max int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// --- Handlers ---

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		OK:   true,
		Time: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handlers) handleStats(w http.ResponseWriter, r *http.Request) {
	total, facets, err := h.engine.Stats()
	if err != nil {
		log.Printf("promptdb-web: stats: %v", err)
		writeError(w, http.StatusInternalServerError, "stats unavailable")
		return
	}
	if facets == nil {
		facets = []promptdb.SourceFacet{}
	}
	writeJSON(w, http.StatusOK, statsResponse{Total: total, BySource: facets})
}

func (h *handlers) handleSources(w http.ResponseWriter, r *http.Request) {
	_, facets, err := h.engine.Stats()
	if err != nil {
		log.Printf("promptdb-web: sources: %v", err)
		writeError(w, http.StatusInternalServerError, "sources unavailable")
		return
	}
	if facets == nil {
		facets = []promptdb.SourceFacet{}
	}
	writeJSON(w, http.StatusOK, sourcesResponse{Items: facets})
}

func (h *handlers) handlePromptList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	source := q.Get("source")
	repo := q.Get("repo")
	limit := clampIntParam(r, "limit", defaultLimit, 1, maxLimit)
	offset := clampIntParam(r, "offset", 0, 0, maxOffset)

	page, err := h.engine.ListPrompts(query, source, repo, limit, offset)
	if err != nil {
		log.Printf("promptdb-web: list prompts: %v", err)
		writeError(w, http.StatusInternalServerError, "listing unavailable")
		return
	}

	items := make([]promptRow, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, promptRow{
			ID:         p.ID,
			Title:      p.Title,
			Source:     p.Source,
			SourceRepo: p.SourceRepo,
		})
	}

	writeJSON(w, http.StatusOK, promptListResponse{
		Items:  items,
		Total:  page.Total,
		Limit:  limit,
		Offset: offset,
		Q:      query,
	})
}

func (h *handlers) handlePromptGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("promptID"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	p, err := h.engine.GetPrompt(id)
	if err != nil {
		log.Printf("promptdb-web: get prompt %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "prompt unavailable")
		return
	}
	if p == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found", ID: id})
		return
	}

	writeJSON(w, http.StatusOK, promptResponse{
		ID:         p.ID,
		Title:      p.Title,
		Body:       p.Body,
		Source:     p.Source,
		SourceRepo: p.SourceRepo,
		SourcePath: p.SourcePath,
	})
}
