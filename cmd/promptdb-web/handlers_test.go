package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	promptdb "github.com/korbirayen/promptdb"
)

type testFixtures struct {
	router http.Handler
	engine *promptdb.Engine
}

// newTestFixtures imports a small fixture tree (two patterns, one external
// repo file) into a temp database and wires the router over it.
func newTestFixtures(t *testing.T) *testFixtures {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"patterns/summarize/system.md":  "You are a summarizer.",
		"patterns/translate/system.md":  "You are a translator.",
		"repos/prompt-pack/reviewer.md": "# Code Reviewer\n\nReview the diff carefully and with full attention.",
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	engine, err := promptdb.NewEngine(promptdb.EngineConfig{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(func() { engine.Close() })

	if _, err := engine.RunImport(promptdb.ImportConfig{
		PatternRoots: []promptdb.PatternRoot{{Dir: filepath.Join(root, "patterns"), Origin: "patterns"}},
		ReposDir:     filepath.Join(root, "repos"),
	}); err != nil {
		t.Fatalf("RunImport: %v", err)
	}

	return &testFixtures{
		router: newRouter(engine, ""),
		engine: engine,
	}
}

func (f *testFixtures) get(t *testing.T, path string, wantStatus int, into any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != wantStatus {
		t.Fatalf("GET %s: status %d, want %d (body: %s)", path, rec.Code, wantStatus, rec.Body.String())
	}
	if into != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
			t.Fatalf("GET %s: decode response: %v", path, err)
		}
	}
}

func TestHandleHealth(t *testing.T) {
	f := newTestFixtures(t)

	var resp healthResponse
	f.get(t, "/api/health", http.StatusOK, &resp)
	if !resp.OK {
		t.Error("health must report ok")
	}
	if resp.Time == "" {
		t.Error("health must carry a timestamp")
	}
}

func TestHandleStats(t *testing.T) {
	f := newTestFixtures(t)

	var resp statsResponse
	f.get(t, "/api/stats", http.StatusOK, &resp)
	if resp.Total != 3 {
		t.Errorf("total: got %d, want 3", resp.Total)
	}

	sum := 0
	for _, facet := range resp.BySource {
		sum += facet.Count
	}
	if sum != resp.Total {
		t.Errorf("facet counts sum to %d, total is %d", sum, resp.Total)
	}
}

func TestHandleSources(t *testing.T) {
	f := newTestFixtures(t)

	var resp sourcesResponse
	f.get(t, "/api/sources", http.StatusOK, &resp)
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 facets, got %d", len(resp.Items))
	}
	// Largest facet first.
	if resp.Items[0].Source != "patterns" || resp.Items[0].Count != 2 {
		t.Errorf("first facet: got %+v", resp.Items[0])
	}
}

func TestHandlePromptList(t *testing.T) {
	f := newTestFixtures(t)

	var resp promptListResponse
	f.get(t, "/api/prompts", http.StatusOK, &resp)
	if resp.Total != 3 || len(resp.Items) != 3 {
		t.Errorf("unfiltered list: total %d, items %d", resp.Total, len(resp.Items))
	}
	if resp.Limit != 50 || resp.Offset != 0 {
		t.Errorf("default envelope: limit %d offset %d", resp.Limit, resp.Offset)
	}
}

func TestHandlePromptListFilters(t *testing.T) {
	f := newTestFixtures(t)

	var resp promptListResponse
	f.get(t, "/api/prompts?q=translator", http.StatusOK, &resp)
	if resp.Total != 1 || resp.Items[0].Title != "translate" {
		t.Errorf("query filter: got %+v", resp)
	}
	if resp.Q != "translator" {
		t.Errorf("envelope must echo the query, got %q", resp.Q)
	}

	f.get(t, "/api/prompts?source=repo_file&repo=prompt-pack", http.StatusOK, &resp)
	if resp.Total != 1 || resp.Items[0].SourceRepo != "prompt-pack" {
		t.Errorf("source/repo filter: got %+v", resp)
	}

	f.get(t, "/api/prompts?q=nomatchanywhere", http.StatusOK, &resp)
	if resp.Total != 0 || len(resp.Items) != 0 {
		t.Errorf("no-match query: got %+v", resp)
	}
}

func TestHandlePromptListClampsParams(t *testing.T) {
	f := newTestFixtures(t)

	var resp promptListResponse
	f.get(t, "/api/prompts?limit=9999&offset=-5", http.StatusOK, &resp)
	if resp.Limit != 200 {
		t.Errorf("limit must clamp to 200, got %d", resp.Limit)
	}
	if resp.Offset != 0 {
		t.Errorf("offset must clamp to 0, got %d", resp.Offset)
	}

	f.get(t, "/api/prompts?limit=garbage", http.StatusOK, &resp)
	if resp.Limit != 50 {
		t.Errorf("unparseable limit must fall back to the default, got %d", resp.Limit)
	}
}

func TestHandlePromptGet(t *testing.T) {
	f := newTestFixtures(t)

	var list promptListResponse
	f.get(t, "/api/prompts?q=summarizer", http.StatusOK, &list)
	if len(list.Items) != 1 {
		t.Fatalf("fixture lookup: got %d items", len(list.Items))
	}

	var resp promptResponse
	f.get(t, "/api/prompts/"+strconv.FormatInt(list.Items[0].ID, 10), http.StatusOK, &resp)
	if resp.Title != "summarize" {
		t.Errorf("title: got %q", resp.Title)
	}
	if resp.Body == "" {
		t.Error("single fetch must include the body")
	}
	if resp.SourcePath != "patterns/summarize" {
		t.Errorf("source path: got %q", resp.SourcePath)
	}
}

func TestHandlePromptGetNotFound(t *testing.T) {
	f := newTestFixtures(t)

	var resp errorResponse
	f.get(t, "/api/prompts/99999", http.StatusNotFound, &resp)
	if resp.Error != "Not found" {
		t.Errorf("error message: got %q", resp.Error)
	}
	if resp.ID != 99999 {
		t.Errorf("error must echo the id, got %d", resp.ID)
	}
}
