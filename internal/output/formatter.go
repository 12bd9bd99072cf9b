package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"

	promptdb "github.com/korbirayen/promptdb"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatText  Format = "text"
	FormatHuman Format = "human"
)

type Formatter struct {
	format Format
	out    io.Writer
	err    io.Writer
}

// NewFormatter creates a new output formatter
func NewFormatter(format Format) *Formatter {
	return &Formatter{
		format: format,
		out:    os.Stdout,
		err:    os.Stderr,
	}
}

// NewFormatterWithWriters creates a formatter with custom output writers for testability
func NewFormatterWithWriters(format Format, out, errW io.Writer) *Formatter {
	return &Formatter{
		format: format,
		out:    out,
		err:    errW,
	}
}

// ImportResult represents the outcome of one import run.
type ImportResult struct {
	Scanned    int            `json:"scanned"`
	Inserted   int            `json:"inserted"`
	Updated    int            `json:"updated"`
	Unchanged  int            `json:"unchanged"`
	Skipped    int            `json:"skipped"`
	BySource   map[string]int `json:"by_source,omitempty"`
	BundlePath string         `json:"bundle_path,omitempty"`
}

// OutputImportResult outputs the import result in the configured format
func (f *Formatter) OutputImportResult(result *ImportResult) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(f.out).Encode(result)
	case FormatText:
		fmt.Fprintf(f.out, "scanned=%d\n", result.Scanned)
		fmt.Fprintf(f.out, "inserted=%d\n", result.Inserted)
		fmt.Fprintf(f.out, "updated=%d\n", result.Updated)
		fmt.Fprintf(f.out, "unchanged=%d\n", result.Unchanged)
		fmt.Fprintf(f.out, "skipped=%d\n", result.Skipped)
		return nil
	case FormatHuman:
		fmt.Fprintf(f.out, "Scanned %d candidates\n", result.Scanned)
		color.New(color.FgGreen).Fprintf(f.out, "  %d inserted\n", result.Inserted)
		color.New(color.FgYellow).Fprintf(f.out, "  %d updated\n", result.Updated)
		fmt.Fprintf(f.out, "  %d unchanged\n", result.Unchanged)
		if result.Skipped > 0 {
			color.New(color.FgRed).Fprintf(f.out, "  %d skipped\n", result.Skipped)
		}
		for _, line := range sortedCounts(result.BySource) {
			fmt.Fprintf(f.out, "    %s\n", line)
		}
		if result.BundlePath != "" {
			fmt.Fprintf(f.out, "Web bundle: %s\n", result.BundlePath)
		}
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// OutputPromptList outputs a page of prompts
func (f *Formatter) OutputPromptList(prompts []promptdb.Prompt, total int) error {
	switch f.format {
	case FormatJSON:
		type listing struct {
			Items []promptRow `json:"items"`
			Total int         `json:"total"`
		}
		items := make([]promptRow, 0, len(prompts))
		for _, p := range prompts {
			items = append(items, rowFromPrompt(p))
		}
		return json.NewEncoder(f.out).Encode(listing{Items: items, Total: total})
	case FormatText:
		for _, p := range prompts {
			fmt.Fprintf(f.out, "id=%d\ttitle=%s\tsource=%s\trepo=%s\n",
				p.ID, p.Title, p.Source, p.SourceRepo)
		}
		return nil
	case FormatHuman:
		if len(prompts) == 0 {
			fmt.Fprintln(f.out, "No prompts found")
			return nil
		}
		fmt.Fprintf(f.out, "Prompts (%d of %d):\n\n", len(prompts), total)
		for _, p := range prompts {
			color.New(color.Bold).Fprintf(f.out, "%d. %s\n", p.ID, p.Title)
			fmt.Fprintf(f.out, "   %s", p.Source)
			if p.SourceRepo != "" {
				fmt.Fprintf(f.out, " · %s", p.SourceRepo)
			}
			if p.SourcePath != "" {
				fmt.Fprintf(f.out, " · %s", p.SourcePath)
			}
			fmt.Fprintln(f.out)
		}
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// OutputPrompt outputs a single full prompt
func (f *Formatter) OutputPrompt(p *promptdb.Prompt) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(f.out).Encode(detailFromPrompt(p))
	case FormatText:
		fmt.Fprintf(f.out, "id=%d\ttitle=%s\tsource=%s\trepo=%s\tpath=%s\n",
			p.ID, p.Title, p.Source, p.SourceRepo, p.SourcePath)
		fmt.Fprintln(f.out, p.Body)
		return nil
	case FormatHuman:
		color.New(color.Bold).Fprintln(f.out, p.Title)
		fmt.Fprintf(f.out, "source: %s", p.Source)
		if p.SourceRepo != "" {
			fmt.Fprintf(f.out, " · %s", p.SourceRepo)
		}
		if p.SourcePath != "" {
			fmt.Fprintf(f.out, " · %s", p.SourcePath)
		}
		fmt.Fprintf(f.out, "\n\n%s\n", p.Body)
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// OutputStats outputs the total count and source facets
func (f *Formatter) OutputStats(total int, facets []promptdb.SourceFacet) error {
	switch f.format {
	case FormatJSON:
		type stats struct {
			Total    int                    `json:"total"`
			BySource []promptdb.SourceFacet `json:"by_source"`
		}
		if facets == nil {
			facets = []promptdb.SourceFacet{}
		}
		return json.NewEncoder(f.out).Encode(stats{Total: total, BySource: facets})
	case FormatText:
		fmt.Fprintf(f.out, "total=%d\n", total)
		for _, facet := range facets {
			fmt.Fprintf(f.out, "source=%s\trepo=%s\tcount=%d\n", facet.Source, facet.Repo, facet.Count)
		}
		return nil
	case FormatHuman:
		fmt.Fprintf(f.out, "Total prompts: %d\n", total)
		for _, facet := range facets {
			label := facet.Source
			if facet.Repo != "" {
				label += ":" + facet.Repo
			}
			fmt.Fprintf(f.out, "  %s: %d\n", label, facet.Count)
		}
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// Error outputs an error message to stderr
func (f *Formatter) Error(format string, args ...interface{}) {
	fmt.Fprintf(f.err, format+"\n", args...)
}

// Warning outputs a warning message to stderr
func (f *Formatter) Warning(format string, args ...interface{}) {
	fmt.Fprintf(f.err, "Warning: "+format+"\n", args...)
}

// sortedCounts renders a count map as stable "key: n" lines.
func sortedCounts(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %d", k, counts[k]))
	}
	return lines
}

type promptRow struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Source     string `json:"source"`
	SourceRepo string `json:"source_repo"`
}

type promptDetail struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Source     string `json:"source"`
	SourceRepo string `json:"source_repo"`
	SourcePath string `json:"source_path"`
}

func rowFromPrompt(p promptdb.Prompt) promptRow {
	return promptRow{ID: p.ID, Title: p.Title, Source: p.Source, SourceRepo: p.SourceRepo}
}

func detailFromPrompt(p *promptdb.Prompt) promptDetail {
	return promptDetail{
		ID:         p.ID,
		Title:      p.Title,
		Body:       p.Body,
		Source:     p.Source,
		SourceRepo: p.SourceRepo,
		SourcePath: p.SourcePath,
	}
}
