package sources

import (
	"os"
	"regexp"
	"strings"
	"unicode/utf8"
)

// readTextFile reads a file as UTF-8 text. Bytes that do not form valid UTF-8
// are replaced with U+FFFD rather than failing the whole file.
func readTextFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	return strings.ToValidUTF8(string(raw), "�"), nil
}

var mdHeadingRe = regexp.MustCompile(`^\s{0,3}#{1,6}\s+(.+?)\s*$`)

// inferMarkdownTitle returns the text of a markdown heading when it is the
// first non-empty line of the document. Returns "" otherwise.
func inferMarkdownTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := mdHeadingRe.FindStringSubmatch(line); m != nil {
			return strings.Trim(strings.TrimSpace(m[1]), "`*")
		}
		break
	}
	return ""
}

var fenceRe = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*[ \t]*\n(.*?)\n```")

// bestFencedBlock returns the longest fenced code block in the text.
// The longest block is usually the actual prompt; prose around it is framing.
func bestFencedBlock(text string) string {
	var best string
	for _, m := range fenceRe.FindAllStringSubmatch(text, -1) {
		body := strings.Trim(m[1], "\n")
		if len(body) > len(best) {
			best = body
		}
	}
	return strings.TrimSpace(best)
}

// fileStem returns the base name of a path without its extension.
func fileStem(name string) string {
	base := name
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}
