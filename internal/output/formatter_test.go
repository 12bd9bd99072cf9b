package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	promptdb "github.com/korbirayen/promptdb"
)

func TestOutputImportResult_JSON(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatJSON, &out, &errBuf)

	result := &ImportResult{
		Scanned:   10,
		Inserted:  6,
		Updated:   1,
		Unchanged: 2,
		Skipped:   1,
		BySource:  map[string]int{"patterns": 6, "strategies": 3},
	}

	if err := f.OutputImportResult(result); err != nil {
		t.Fatalf("OutputImportResult failed: %v", err)
	}

	var decoded ImportResult
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if decoded.Scanned != 10 {
		t.Errorf("Scanned = %d, want 10", decoded.Scanned)
	}
	if decoded.Inserted != 6 {
		t.Errorf("Inserted = %d, want 6", decoded.Inserted)
	}
	if decoded.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", decoded.Skipped)
	}
	if decoded.BySource["patterns"] != 6 {
		t.Errorf("BySource = %v", decoded.BySource)
	}
}

func TestOutputImportResult_Text(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatText, &out, &errBuf)

	result := &ImportResult{Scanned: 4, Inserted: 3, Unchanged: 1}
	if err := f.OutputImportResult(result); err != nil {
		t.Fatalf("OutputImportResult failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "scanned=4") {
		t.Errorf("missing scanned=4 in output: %s", got)
	}
	if !strings.Contains(got, "inserted=3") {
		t.Errorf("missing inserted=3 in output: %s", got)
	}
	if !strings.Contains(got, "unchanged=1") {
		t.Errorf("missing unchanged=1 in output: %s", got)
	}
}

func TestOutputImportResult_Human(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatHuman, &out, &errBuf)

	result := &ImportResult{
		Scanned:    8,
		Inserted:   5,
		Updated:    2,
		Unchanged:  1,
		BySource:   map[string]int{"patterns": 8},
		BundlePath: "web/data.js",
	}
	if err := f.OutputImportResult(result); err != nil {
		t.Fatalf("OutputImportResult failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Scanned 8 candidates") {
		t.Errorf("missing scanned count in output: %s", got)
	}
	if !strings.Contains(got, "5 inserted") {
		t.Errorf("missing inserted count in output: %s", got)
	}
	if !strings.Contains(got, "patterns: 8") {
		t.Errorf("missing per-source breakdown in output: %s", got)
	}
	if !strings.Contains(got, "web/data.js") {
		t.Errorf("missing bundle path in output: %s", got)
	}
	if strings.Contains(got, "skipped") {
		t.Errorf("zero skips must not be reported: %s", got)
	}
}

func TestOutputPromptList_JSON(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatJSON, &out, &errBuf)

	prompts := []promptdb.Prompt{
		{ID: 1, Title: "First", Source: "patterns"},
		{ID: 2, Title: "Second", Source: "repo_file", SourceRepo: "pack"},
	}

	if err := f.OutputPromptList(prompts, 7); err != nil {
		t.Fatalf("OutputPromptList failed: %v", err)
	}

	var decoded struct {
		Items []promptRow `json:"items"`
		Total int         `json:"total"`
	}
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if len(decoded.Items) != 2 {
		t.Fatalf("Items = %d, want 2", len(decoded.Items))
	}
	if decoded.Total != 7 {
		t.Errorf("Total = %d, want 7", decoded.Total)
	}
	if decoded.Items[1].SourceRepo != "pack" {
		t.Errorf("Items[1] = %+v", decoded.Items[1])
	}
}

func TestOutputPromptList_HumanEmpty(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatHuman, &out, &errBuf)

	if err := f.OutputPromptList(nil, 0); err != nil {
		t.Fatalf("OutputPromptList failed: %v", err)
	}
	if !strings.Contains(out.String(), "No prompts found") {
		t.Errorf("empty list output: %s", out.String())
	}
}

func TestOutputPrompt_Text(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatText, &out, &errBuf)

	p := &promptdb.Prompt{
		ID:         3,
		Title:      "Reviewer",
		Body:       "Review the diff.",
		Source:     "repo_file",
		SourceRepo: "pack",
		SourcePath: "reviewer.md",
	}
	if err := f.OutputPrompt(p); err != nil {
		t.Fatalf("OutputPrompt failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "title=Reviewer") {
		t.Errorf("missing title in output: %s", got)
	}
	if !strings.Contains(got, "Review the diff.") {
		t.Errorf("missing body in output: %s", got)
	}
}

func TestOutputStats_JSON(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatJSON, &out, &errBuf)

	facets := []promptdb.SourceFacet{
		{Source: "patterns", Count: 4},
		{Source: "repo_file", Repo: "pack", Count: 2},
	}
	if err := f.OutputStats(6, facets); err != nil {
		t.Fatalf("OutputStats failed: %v", err)
	}

	var decoded struct {
		Total    int                    `json:"total"`
		BySource []promptdb.SourceFacet `json:"by_source"`
	}
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if decoded.Total != 6 || len(decoded.BySource) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestOutputStats_JSONEmptyFacets(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatJSON, &out, &errBuf)

	if err := f.OutputStats(0, nil); err != nil {
		t.Fatalf("OutputStats failed: %v", err)
	}
	if strings.Contains(out.String(), "null") {
		t.Errorf("empty facets must render as [], got: %s", out.String())
	}
}

func TestErrorAndWarningGoToStderr(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(FormatHuman, &out, &errBuf)

	f.Error("import failed: %s", "disk full")
	f.Warning("skipping %d oversized files", 3)

	if out.Len() != 0 {
		t.Errorf("stdout must stay clean: %s", out.String())
	}
	got := errBuf.String()
	if !strings.Contains(got, "import failed: disk full") {
		t.Errorf("missing error in stderr: %s", got)
	}
	if !strings.Contains(got, "Warning: skipping 3 oversized files") {
		t.Errorf("missing warning in stderr: %s", got)
	}
}

func TestUnknownFormat(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := NewFormatterWithWriters(Format("yaml"), &out, &errBuf)

	if err := f.OutputImportResult(&ImportResult{}); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
