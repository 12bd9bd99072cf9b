package sources

import (
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// decodeStrategy validates that a strategy file parses in its declared format
// and pulls a display title from a top-level name/title key when one exists.
// The decoded structure is otherwise discarded; the raw text is the body.
func decodeStrategy(text, ext string) (title string, err error) {
	var doc any
	switch ext {
	case ".json":
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			return "", err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
			return "", err
		}
	case ".toml":
		m := map[string]any{}
		if err := toml.Unmarshal([]byte(text), &m); err != nil {
			return "", err
		}
		doc = m
	default:
		return "", fmt.Errorf("unsupported strategy format %q", ext)
	}

	if m, ok := doc.(map[string]any); ok {
		for _, key := range []string{"name", "title"} {
			if s, ok := m[key].(string); ok && s != "" {
				return s, nil
			}
		}
	}
	return "", nil
}
