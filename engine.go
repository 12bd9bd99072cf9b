// Package promptdb implements a batch importer that collects prompt artifacts
// from several directory conventions into one SQLite table, plus the read and
// export surfaces over that table.
package promptdb

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/korbirayen/promptdb/internal/bundle"
	"github.com/korbirayen/promptdb/internal/sources"
	"github.com/korbirayen/promptdb/internal/storage"
)

// Engine is the public API over the prompt store: one import pass, read
// queries, and the offline bundle export.
type Engine struct {
	store *storage.Store
}

// NewEngine opens (optionally recreating) the SQLite database and applies the
// schema. A store that cannot be opened is fatal; nothing else is touched.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Reset {
		if err := os.Remove(cfg.DBPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reset database: %w", err)
		}
	}

	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &Engine{store: store}, nil
}

// RunImport performs one full import pass: walk every configured source root,
// normalize and identify candidates, and upsert the survivors in a single
// transaction. Per-candidate problems are logged and skipped; only store
// failures abort the run.
func (e *Engine) RunImport(cfg ImportConfig) (*ImportResult, error) {
	scanCfg := sources.ScanConfig{
		StrategiesDir:    cfg.StrategiesDir,
		StrategiesOrigin: cfg.StrategiesOrigin,
		ReposDir:         cfg.ReposDir,
		MaxFileBytes:     cfg.MaxFileBytes,
	}
	for _, root := range cfg.PatternRoots {
		scanCfg.PatternRoots = append(scanCfg.PatternRoots, sources.PatternRoot{
			Dir:    root.Dir,
			Origin: root.Origin,
		})
	}

	scan := sources.Scan(scanCfg)

	result := &ImportResult{
		Scanned:  len(scan.Candidates),
		Skipped:  scan.Skipped,
		BySource: make(map[string]int),
	}

	ident := sources.NewIdentifier()
	var records []storage.Prompt
	for _, c := range scan.Candidates {
		rec, err := ident.Identify(c)
		if err != nil {
			log.Printf("promptdb: dropping candidate %s/%s: %v", c.Source, c.SourcePath, err)
			result.Skipped++
			continue
		}
		records = append(records, storage.Prompt{
			Title:      rec.Title,
			Body:       rec.Body,
			Source:     rec.Source,
			SourceRepo: rec.SourceRepo,
			SourcePath: rec.SourcePath,
			BodySHA256: rec.BodySHA256,
		})
		key := rec.Source
		if rec.SourceRepo != "" {
			key += ":" + rec.SourceRepo
		}
		result.BySource[key]++
	}

	applied, err := e.store.ApplyBatch(records, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("apply import batch: %w", err)
	}
	result.Inserted = applied.Inserted
	result.Updated = applied.Updated
	result.Unchanged = applied.Unchanged

	return result, nil
}

// ExportBundle reads the complete table and writes the offline data.js bundle
// under webDir, returning the written path.
func (e *Engine) ExportBundle(webDir string) (string, error) {
	prompts, err := e.store.AllPrompts()
	if err != nil {
		return "", fmt.Errorf("read prompts for export: %w", err)
	}
	facets, err := e.store.SourceFacets()
	if err != nil {
		return "", fmt.Errorf("read facets for export: %w", err)
	}
	b := bundle.Build(prompts, facets, time.Now().UTC())
	return bundle.Write(b, webDir)
}

// Stats returns the total row count and the per-(source, repo) facets.
func (e *Engine) Stats() (int, []SourceFacet, error) {
	total, err := e.store.CountPrompts()
	if err != nil {
		return 0, nil, err
	}
	facets, err := e.store.SourceFacets()
	if err != nil {
		return 0, nil, err
	}
	return total, facetsFromInternal(facets), nil
}

// ListPrompts returns a page of prompts matching a free-text query over
// title/body plus optional exact source and repo filters.
func (e *Engine) ListPrompts(query, source, repo string, limit, offset int) (*PromptPage, error) {
	prompts, total, err := e.store.ListPrompts(query, source, repo, limit, offset)
	if err != nil {
		return nil, err
	}
	page := &PromptPage{
		Items:  make([]Prompt, 0, len(prompts)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
		Query:  query,
	}
	for _, p := range prompts {
		page.Items = append(page.Items, promptFromInternal(p))
	}
	return page, nil
}

// GetPrompt returns a single prompt by id, or nil when no such row exists.
func (e *Engine) GetPrompt(id int64) (*Prompt, error) {
	p, err := e.store.GetPrompt(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	result := promptFromInternal(*p)
	return &result, nil
}

// Close releases the underlying store.
func (e *Engine) Close() error {
	return e.store.Close()
}

// --- internal type conversion helpers ---

func promptFromInternal(p storage.Prompt) Prompt {
	return Prompt{
		ID:         p.ID,
		Title:      p.Title,
		Body:       p.Body,
		Source:     p.Source,
		SourceRepo: p.SourceRepo,
		SourcePath: p.SourcePath,
		BodySHA256: p.BodySHA256,
		ImportedAt: p.ImportedAt,
	}
}

func facetsFromInternal(facets []storage.SourceFacet) []SourceFacet {
	out := make([]SourceFacet, len(facets))
	for i, f := range facets {
		out[i] = SourceFacet{Source: f.Source, Repo: f.Repo, Count: f.Count}
	}
	return out
}
