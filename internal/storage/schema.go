package storage

const Schema = `
CREATE TABLE IF NOT EXISTS prompts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    source TEXT NOT NULL,
    source_repo TEXT NOT NULL DEFAULT '',
    source_path TEXT NOT NULL DEFAULT '',
    body_sha256 TEXT NOT NULL,
    imported_at DATETIME NOT NULL,
    UNIQUE(source, source_repo, source_path)
);

CREATE INDEX IF NOT EXISTS idx_prompts_title ON prompts(title);
CREATE INDEX IF NOT EXISTS idx_prompts_sha256 ON prompts(body_sha256);
`
