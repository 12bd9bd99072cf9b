package main

import (
	"net/http"

	promptdb "github.com/korbirayen/promptdb"
)

// newRouter sets up all routes using Go 1.22+ enhanced routing. When webDir is
// non-empty, the UI files in it are served under /.
func newRouter(engine *promptdb.Engine, webDir string) http.Handler {
	mux := http.NewServeMux()

	h := &handlers{engine: engine}

	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/stats", h.handleStats)
	mux.HandleFunc("GET /api/sources", h.handleSources)
	mux.HandleFunc("GET /api/prompts", h.handlePromptList)
	mux.HandleFunc("GET /api/prompts/{promptID}", h.handlePromptGet)

	if webDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(webDir)))
	}

	return mux
}
