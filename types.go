package promptdb

import "time"

// EngineConfig configures the promptdb engine.
type EngineConfig struct {
	DBPath string
	Reset  bool // delete any existing database before opening
}

// Prompt is one imported prompt record.
type Prompt struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body,omitempty"`
	Source     string    `json:"source"`
	SourceRepo string    `json:"source_repo"`
	SourcePath string    `json:"source_path"`
	BodySHA256 string    `json:"body_sha256,omitempty"`
	ImportedAt time.Time `json:"imported_at,omitzero"`
}

// SourceFacet is a per-(source, repo) record count.
type SourceFacet struct {
	Source string `json:"source"`
	Repo   string `json:"repo"`
	Count  int    `json:"count"`
}

// PromptPage is one page of a filtered listing. Items omit the body.
type PromptPage struct {
	Items  []Prompt `json:"items"`
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
	Query  string   `json:"q"`
}

// PatternRoot is one configured directory of pattern subdirectories, with the
// origin label used to keep same-named patterns from different roots distinct.
type PatternRoot struct {
	Dir    string
	Origin string
}

// ImportConfig names the source roots for one import run. Roots that do not
// exist contribute zero candidates.
type ImportConfig struct {
	PatternRoots     []PatternRoot
	StrategiesDir    string
	StrategiesOrigin string
	ReposDir         string
	MaxFileBytes     int64 // 0 means the 512 KiB default
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Scanned   int            `json:"scanned"`
	Inserted  int            `json:"inserted"`
	Updated   int            `json:"updated"`
	Unchanged int            `json:"unchanged"`
	Skipped   int            `json:"skipped"`
	BySource  map[string]int `json:"by_source,omitempty"`
}
