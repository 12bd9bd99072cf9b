package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Prompt is the persisted record. SourceRepo and SourcePath use the empty
// string as their absent sentinel so the uniqueness constraint covers every
// source kind.
type Prompt struct {
	ID         int64
	Title      string
	Body       string
	Source     string
	SourceRepo string
	SourcePath string
	BodySHA256 string
	ImportedAt time.Time
}

// SourceFacet is one (source, repo) aggregate.
type SourceFacet struct {
	Source string `json:"source"`
	Repo   string `json:"repo"`
	Count  int    `json:"count"`
}

// ApplyResult counts what one import batch did to the table.
type ApplyResult struct {
	Inserted  int
	Updated   int
	Unchanged int
}

// NewStore opens (creating if needed) the database and applies the schema.
// Schema application is idempotent; an existing table is left as is.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// ApplyBatch upserts a batch of records inside one transaction. The identity
// key is looked up explicitly: a new key inserts, a known key with a changed
// fingerprint refreshes title/body/fingerprint/imported_at in place keeping
// its id, and an unchanged key is left alone (imported_at is not bumped).
// Nothing is persisted if the transaction fails.
func (s *Store) ApplyBatch(records []Prompt, importedAt time.Time) (*ApplyResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin import transaction: %w", err)
	}
	defer tx.Rollback()

	result := &ApplyResult{}
	for _, r := range records {
		var id int64
		var existingHash string
		err := tx.QueryRow(
			"SELECT id, body_sha256 FROM prompts WHERE source = ? AND source_repo = ? AND source_path = ?",
			r.Source, r.SourceRepo, r.SourcePath,
		).Scan(&id, &existingHash)

		switch {
		case err == sql.ErrNoRows:
			_, err := tx.Exec(
				`INSERT INTO prompts (title, body, source, source_repo, source_path, body_sha256, imported_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				r.Title, r.Body, r.Source, r.SourceRepo, r.SourcePath, r.BodySHA256, importedAt,
			)
			if err != nil {
				return nil, fmt.Errorf("insert prompt %s: %w", r.SourcePath, err)
			}
			result.Inserted++

		case err != nil:
			return nil, fmt.Errorf("look up prompt %s: %w", r.SourcePath, err)

		case existingHash == r.BodySHA256:
			result.Unchanged++

		default:
			_, err := tx.Exec(
				`UPDATE prompts SET title = ?, body = ?, body_sha256 = ?, imported_at = ? WHERE id = ?`,
				r.Title, r.Body, r.BodySHA256, importedAt, id,
			)
			if err != nil {
				return nil, fmt.Errorf("update prompt %s: %w", r.SourcePath, err)
			}
			result.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import transaction: %w", err)
	}
	return result, nil
}

// CountPrompts returns the total number of persisted prompts.
func (s *Store) CountPrompts() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM prompts").Scan(&n); err != nil {
		return 0, fmt.Errorf("count prompts: %w", err)
	}
	return n, nil
}

// SourceFacets returns per-(source, repo) counts, largest first. Ties are
// broken by source then repo so the output is deterministic.
func (s *Store) SourceFacets() ([]SourceFacet, error) {
	rows, err := s.db.Query(
		`SELECT source, source_repo, COUNT(*) AS n
		 FROM prompts
		 GROUP BY source, source_repo
		 ORDER BY n DESC, source ASC, source_repo ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("get source facets: %w", err)
	}
	defer rows.Close()

	var facets []SourceFacet
	for rows.Next() {
		var f SourceFacet
		if err := rows.Scan(&f.Source, &f.Repo, &f.Count); err != nil {
			return nil, fmt.Errorf("scan facet: %w", err)
		}
		facets = append(facets, f)
	}
	return facets, rows.Err()
}

// AllPrompts returns every persisted prompt ordered by title, case-insensitive.
func (s *Store) AllPrompts() ([]Prompt, error) {
	rows, err := s.db.Query(
		`SELECT id, title, body, source, source_repo, source_path, body_sha256, imported_at
		 FROM prompts
		 ORDER BY title COLLATE NOCASE ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("get all prompts: %w", err)
	}
	defer rows.Close()

	var prompts []Prompt
	for rows.Next() {
		var p Prompt
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.Source, &p.SourceRepo,
			&p.SourcePath, &p.BodySHA256, &p.ImportedAt); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}

// ListPrompts returns a page of prompts matching the filters, plus the total
// match count. The free-text query matches title or body; source and repo are
// exact filters. Returned rows omit the body to keep listings light.
func (s *Store) ListPrompts(query, source, repo string, limit, offset int) ([]Prompt, int, error) {
	var clauses []string
	var params []any
	if query != "" {
		clauses = append(clauses, "(title LIKE ? OR body LIKE ?)")
		like := "%" + query + "%"
		params = append(params, like, like)
	}
	if source != "" {
		clauses = append(clauses, "source = ?")
		params = append(params, source)
	}
	if repo != "" {
		clauses = append(clauses, "source_repo = ?")
		params = append(params, repo)
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM prompts "+where, params...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count matching prompts: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT id, title, source, source_repo, source_path FROM prompts `+where+
			` ORDER BY title COLLATE NOCASE ASC, id ASC LIMIT ? OFFSET ?`,
		append(params, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []Prompt
	for rows.Next() {
		var p Prompt
		if err := rows.Scan(&p.ID, &p.Title, &p.Source, &p.SourceRepo, &p.SourcePath); err != nil {
			return nil, 0, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, p)
	}
	return prompts, total, rows.Err()
}

// GetPrompt returns a single prompt by id, or nil when no such row exists.
func (s *Store) GetPrompt(id int64) (*Prompt, error) {
	var p Prompt
	err := s.db.QueryRow(
		`SELECT id, title, body, source, source_repo, source_path, body_sha256, imported_at
		 FROM prompts WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Title, &p.Body, &p.Source, &p.SourceRepo,
		&p.SourcePath, &p.BodySHA256, &p.ImportedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get prompt %d: %w", id, err)
	}
	return &p, nil
}
