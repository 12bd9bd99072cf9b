package sources

import (
	"errors"
	"testing"
)

func TestIdentifyAssignsFingerprint(t *testing.T) {
	ident := NewIdentifier()
	rec, err := ident.Identify(Candidate{
		Title:      "Reviewer",
		Body:       "Review the diff.",
		Source:     "patterns",
		SourcePath: "patterns/reviewer",
	})
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if rec.BodySHA256 != Fingerprint("Review the diff.") {
		t.Errorf("fingerprint mismatch: got %s", rec.BodySHA256)
	}
	if len(rec.BodySHA256) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(rec.BodySHA256))
	}
}

func TestFingerprintPureFunctionOfBody(t *testing.T) {
	a := Fingerprint("same body")
	b := Fingerprint("same body")
	if a != b {
		t.Error("identical bodies must fingerprint identically")
	}
	if Fingerprint("other body") == a {
		t.Error("different bodies must not collide in practice")
	}
}

func TestIdentifyRejectsEmpty(t *testing.T) {
	ident := NewIdentifier()

	_, err := ident.Identify(Candidate{Title: "", Body: "has body", Source: "patterns", SourcePath: "p/x"})
	if !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}

	_, err = ident.Identify(Candidate{Title: "has title", Body: "  \n ", Source: "patterns", SourcePath: "p/y"})
	if !errors.Is(err, ErrEmptyBody) {
		t.Errorf("expected ErrEmptyBody, got %v", err)
	}
}

func TestIdentifyRejectsDuplicateKeyWithinRun(t *testing.T) {
	ident := NewIdentifier()
	c := Candidate{Title: "One", Body: "first body", Source: "repo_file", SourceRepo: "pack", SourcePath: "a.md"}

	if _, err := ident.Identify(c); err != nil {
		t.Fatalf("first Identify: %v", err)
	}

	c.Body = "different body, same identity"
	if _, err := ident.Identify(c); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	// A fresh identifier has no memory of the previous run.
	if _, err := NewIdentifier().Identify(c); err != nil {
		t.Errorf("new run must accept the key again: %v", err)
	}
}

func TestIdentifyAllowsSameBodyUnderDifferentKeys(t *testing.T) {
	ident := NewIdentifier()
	body := "the same prompt text imported twice"

	a, err := ident.Identify(Candidate{Title: "A", Body: body, Source: "repo_file", SourceRepo: "one", SourcePath: "p.md"})
	if err != nil {
		t.Fatalf("Identify a: %v", err)
	}
	b, err := ident.Identify(Candidate{Title: "B", Body: body, Source: "repo_file", SourceRepo: "two", SourcePath: "p.md"})
	if err != nil {
		t.Fatalf("Identify b: %v", err)
	}
	if a.BodySHA256 != b.BodySHA256 {
		t.Error("same body must share a fingerprint across identities")
	}
}
