package storage

type Config struct {
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Sources struct {
		PatternRoots  []string `yaml:"pattern_roots"`
		StrategiesDir string   `yaml:"strategies_dir"`
		ReposDir      string   `yaml:"repos_dir"`
		MaxFileKB     int64    `yaml:"max_file_kb"`
	} `yaml:"sources"`

	Web struct {
		Dir string `yaml:"dir"`
	} `yaml:"web"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Database.Path = "./prompts.sqlite"
	cfg.Sources.PatternRoots = []string{"patterns", "data/patterns"}
	cfg.Sources.StrategiesDir = "strategies"
	cfg.Sources.ReposDir = "repos"
	cfg.Sources.MaxFileKB = 512
	cfg.Web.Dir = "web"
	return cfg
}
