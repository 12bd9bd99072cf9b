// Package bundle serializes the full prompt table into a single data.js
// artifact the browser UI can load with no server behind it.
package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/korbirayen/promptdb/internal/storage"
)

// Item is one prompt as the offline consumer sees it. The fingerprint is
// import-side metadata and is deliberately left out.
type Item struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Source     string `json:"source"`
	SourceRepo string `json:"source_repo"`
	SourcePath string `json:"source_path"`
}

// Bundle is the complete offline snapshot: every record, the total, and the
// precomputed source facets so the consumer never recomputes aggregates.
type Bundle struct {
	GeneratedAt string                `json:"generated_at"`
	Total       int                   `json:"total"`
	Sources     []storage.SourceFacet `json:"sources"`
	Items       []Item                `json:"items"`
}

// Build assembles a bundle from the full table. An empty table produces a
// well-formed bundle with zero total and empty (not null) lists.
func Build(prompts []storage.Prompt, facets []storage.SourceFacet, generatedAt time.Time) *Bundle {
	items := make([]Item, 0, len(prompts))
	for _, p := range prompts {
		items = append(items, Item{
			ID:         p.ID,
			Title:      p.Title,
			Body:       p.Body,
			Source:     p.Source,
			SourceRepo: p.SourceRepo,
			SourcePath: p.SourcePath,
		})
	}
	if facets == nil {
		facets = []storage.SourceFacet{}
	}
	return &Bundle{
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		Total:       len(items),
		Sources:     facets,
		Items:       items,
	}
}

// Write serializes the bundle as a window.PROMPTDB assignment under webDir
// and returns the written path.
func Write(b *Bundle, webDir string) (string, error) {
	if err := os.MkdirAll(webDir, 0755); err != nil {
		return "", fmt.Errorf("create web dir: %w", err)
	}

	payload, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("marshal bundle: %w", err)
	}

	outPath := filepath.Join(webDir, "data.js")
	content := "// Generated by promptdb. Do not hand-edit.\nwindow.PROMPTDB=" + string(payload) + ";\n"
	if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write bundle: %w", err)
	}
	return outPath, nil
}
