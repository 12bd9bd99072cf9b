// Package sources enumerates prompt artifacts from the configured directory
// conventions and normalizes them into candidate records. Walkers never touch
// the store; they only produce candidates for the identity engine.
package sources

import (
	"encoding/csv"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Candidate is a normalized record produced by a walker, before identity
// assignment.
type Candidate struct {
	Title      string
	Body       string
	Source     string // "patterns", "strategies", "repo_file", "repo_csv"
	SourceRepo string // empty for in-repo sources
	SourcePath string // relative path or row key within the source
}

// PatternRoot is one configured directory of pattern subdirectories. Origin is
// the label used as the source_path prefix, so the same pattern name under two
// roots stays two distinct records.
type PatternRoot struct {
	Dir    string
	Origin string
}

// ScanConfig is the declarative table of source roots for one import run.
type ScanConfig struct {
	PatternRoots     []PatternRoot
	StrategiesDir    string
	StrategiesOrigin string
	ReposDir         string
	MaxFileBytes     int64
}

// ScanResult holds the candidates from one full scan plus the number of
// files/rows that were seen but dropped (decode failure, empty content,
// oversized).
type ScanResult struct {
	Candidates []Candidate
	Skipped    int
}

const (
	patternSystemFile = "system.md"
	patternUserFile   = "user.md"

	// DefaultMaxFileBytes caps how large an external-repo file may be before
	// it is skipped outright. Oversized files are rejected, never truncated.
	DefaultMaxFileBytes = 512 * 1024

	csvRepoName = "awesome-chatgpt-prompts-main"
	csvFileName = "prompts.csv"
)

var textExts = map[string]bool{
	".md":     true,
	".txt":    true,
	".prompt": true,
	".yml":    true,
	".yaml":   true,
	".json":   true,
	".toml":   true,
}

var skipDirNames = map[string]bool{
	".git":         true,
	"node_modules": true,
	"dist":         true,
	"build":        true,
	".next":        true,
	".svelte-kit":  true,
	".turbo":       true,
	".vercel":      true,
	"coverage":     true,
}

var skipFileNames = map[string]bool{
	"package-lock.json": true,
	"pnpm-lock.yaml":    true,
	"yarn.lock":         true,
}

// Scan walks every configured source root in declared order and returns all
// candidates. A missing root contributes zero candidates; only per-file
// problems are counted as skips.
func Scan(cfg ScanConfig) *ScanResult {
	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = DefaultMaxFileBytes
	}

	res := &ScanResult{}
	for _, root := range cfg.PatternRoots {
		cands, skipped := LoadPatterns(root.Dir, root.Origin)
		res.Candidates = append(res.Candidates, cands...)
		res.Skipped += skipped
	}
	if cfg.StrategiesDir != "" {
		cands, skipped := LoadStrategies(cfg.StrategiesDir, cfg.StrategiesOrigin)
		res.Candidates = append(res.Candidates, cands...)
		res.Skipped += skipped
	}
	if cfg.ReposDir != "" {
		cands, skipped := LoadRepos(cfg.ReposDir, cfg.MaxFileBytes)
		res.Candidates = append(res.Candidates, cands...)
		res.Skipped += skipped
	}
	return res
}

// LoadPatterns treats each immediate subdirectory of root as one pattern
// composed of an optional system.md and an optional user.md. Both sections are
// labeled and joined with a blank line, system first. A directory with neither
// file yields nothing.
func LoadPatterns(root, origin string) ([]Candidate, int) {
	entries, err := os.ReadDir(root)
	if err != nil {
		// Absent root is not an error; it just has nothing to offer.
		return nil, 0
	}

	var cands []Candidate
	skipped := 0
	for _, entry := range sortedDirs(entries) {
		dir := filepath.Join(root, entry)

		var parts []string
		for _, section := range []struct{ file, label string }{
			{patternSystemFile, "# system"},
			{patternUserFile, "# user"},
		} {
			path := filepath.Join(dir, section.file)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			text, err := readTextFile(path)
			if err != nil {
				log.Printf("promptdb: skipping %s: %v", path, err)
				skipped++
				continue
			}
			if strings.TrimSpace(text) == "" {
				continue
			}
			parts = append(parts, section.label+"\n"+strings.TrimSpace(text))
		}

		body := strings.TrimSpace(strings.Join(parts, "\n\n"))
		if body == "" {
			continue
		}

		cands = append(cands, Candidate{
			Title:      entry,
			Body:       body,
			Source:     "patterns",
			SourcePath: origin + "/" + entry,
		})
	}
	return cands, skipped
}

// LoadStrategies enumerates structured files directly in dir (no nesting),
// one candidate per file. The raw text becomes the body so key order is
// preserved exactly as written; files that fail to decode are skipped.
func LoadStrategies(dir, origin string) ([]Candidate, int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0
	}

	var cands []Candidate
	skipped := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" && ext != ".toml" {
			continue
		}

		path := filepath.Join(dir, name)
		text, err := readTextFile(path)
		if err != nil {
			log.Printf("promptdb: skipping %s: %v", path, err)
			skipped++
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		title, err := decodeStrategy(text, ext)
		if err != nil {
			log.Printf("promptdb: skipping malformed strategy %s: %v", path, err)
			skipped++
			continue
		}
		if title == "" {
			title = fileStem(name)
		}

		cands = append(cands, Candidate{
			Title:      title,
			Body:       text,
			Source:     "strategies",
			SourcePath: origin + "/" + name,
		})
	}

	sort.Slice(cands, func(i, j int) bool { return cands[i].SourcePath < cands[j].SourcePath })
	return cands, skipped
}

// LoadRepos walks each immediate child directory of reposRoot as one external
// repo. The awesome-chatgpt-prompts CSV is special-cased into per-row
// candidates; everything else goes through the generic text-file walker.
func LoadRepos(reposRoot string, maxFileBytes int64) ([]Candidate, int) {
	entries, err := os.ReadDir(reposRoot)
	if err != nil {
		return nil, 0
	}

	var cands []Candidate
	skipped := 0
	for _, repoName := range sortedDirs(entries) {
		repoDir := filepath.Join(reposRoot, repoName)

		// Many of these archives unpack with a nested same-name folder;
		// prefer that when present.
		if nested := filepath.Join(repoDir, repoName); isDir(nested) {
			repoDir = nested
		}

		if repoName == csvRepoName {
			rows, csvSkipped := loadPromptsCSV(filepath.Join(repoDir, csvFileName))
			cands = append(cands, rows...)
			skipped += csvSkipped
		}

		files, fileSkipped := loadRepoFiles(repoName, repoDir, maxFileBytes)
		cands = append(cands, files...)
		skipped += fileSkipped
	}
	return cands, skipped
}

// loadRepoFiles walks one repo directory, yielding a candidate per allowed
// text file. Version-control metadata, dependency caches, build output, and
// lockfiles are skipped at any depth; oversized files are rejected by stat
// before any read.
func loadRepoFiles(repoName, repoDir string, maxFileBytes int64) ([]Candidate, int) {
	var cands []Candidate
	skipped := 0

	filepath.WalkDir(repoDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirNames[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if skipFileNames[d.Name()] {
			return nil
		}
		if !textExts[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() > maxFileBytes {
			log.Printf("promptdb: skipping oversized file %s (%d bytes)", path, info.Size())
			skipped++
			return nil
		}

		text, err := readTextFile(path)
		if err != nil {
			log.Printf("promptdb: skipping %s: %v", path, err)
			skipped++
			return nil
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}

		rel, err := filepath.Rel(repoDir, path)
		if err != nil {
			return nil
		}

		title := inferMarkdownTitle(text)
		if title == "" {
			title = fileStem(d.Name())
		}

		body := text
		if fenced := bestFencedBlock(text); len(fenced) >= 40 {
			body = fenced
		}

		cands = append(cands, Candidate{
			Title:      title,
			Body:       body,
			Source:     "repo_file",
			SourceRepo: repoName,
			SourcePath: filepath.ToSlash(rel),
		})
		return nil
	})

	return cands, skipped
}

// loadPromptsCSV parses the awesome-chatgpt-prompts CSV into one candidate per
// data row: act -> title, prompt -> body. The 1-based row ordinal becomes part
// of the identity so rows survive re-imports stably.
func loadPromptsCSV(csvPath string) ([]Candidate, int) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, 0
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0
	}
	actCol, promptCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "act":
			actCol = i
		case "prompt":
			promptCol = i
		}
	}
	if actCol < 0 || promptCol < 0 {
		log.Printf("promptdb: %s: missing act/prompt columns", csvPath)
		return nil, 0
	}

	var cands []Candidate
	skipped := 0
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("promptdb: skipping malformed CSV row %d in %s: %v", row, csvPath, err)
			skipped++
			continue
		}
		if actCol >= len(record) || promptCol >= len(record) {
			skipped++
			continue
		}
		title := strings.TrimSpace(record[actCol])
		body := strings.TrimSpace(record[promptCol])
		if title == "" || body == "" {
			skipped++
			continue
		}
		cands = append(cands, Candidate{
			Title:      title,
			Body:       body,
			Source:     "repo_csv",
			SourceRepo: csvRepoName,
			SourcePath: csvFileName + "#row=" + strconv.Itoa(row),
		})
	}
	return cands, skipped
}

func sortedDirs(entries []os.DirEntry) []string {
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
