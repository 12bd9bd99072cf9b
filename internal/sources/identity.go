package sources

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// Record is a candidate that passed identity checks and carries its content
// fingerprint. The fingerprint is change-detection metadata, not the identity
// key; two records with identical bodies under different identities are two
// rows.
type Record struct {
	Title      string
	Body       string
	Source     string
	SourceRepo string
	SourcePath string
	BodySHA256 string
}

var (
	ErrEmptyTitle   = errors.New("empty title")
	ErrEmptyBody    = errors.New("empty body")
	ErrDuplicateKey = errors.New("duplicate identity key in this run")
)

// Identifier validates candidates and drops repeats of the same identity key
// within one import run. It holds no process-wide state; create one per run.
type Identifier struct {
	seen map[string]bool
}

func NewIdentifier() *Identifier {
	return &Identifier{seen: make(map[string]bool)}
}

// Identify assigns the content fingerprint and identity key to a candidate.
// Candidates with an empty title or body, or whose identity key was already
// seen this run, are rejected and never reach the store.
func (id *Identifier) Identify(c Candidate) (*Record, error) {
	title := strings.TrimSpace(c.Title)
	body := strings.TrimSpace(c.Body)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if body == "" {
		return nil, ErrEmptyBody
	}

	key := IdentityKey(c.Source, c.SourceRepo, c.SourcePath)
	if id.seen[key] {
		return nil, ErrDuplicateKey
	}
	id.seen[key] = true

	return &Record{
		Title:      title,
		Body:       body,
		Source:     c.Source,
		SourceRepo: c.SourceRepo,
		SourcePath: c.SourcePath,
		BodySHA256: Fingerprint(body),
	}, nil
}

// Fingerprint returns the hex sha256 of the body. It is a pure function of
// the body, so identical bodies fingerprint identically regardless of source.
func Fingerprint(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// IdentityKey normalizes the uniqueness triple, with absent repo/path reduced
// to the empty-string sentinel so the key is well-defined for every source.
func IdentityKey(source, repo, path string) string {
	return source + "\x00" + repo + "\x00" + path
}
