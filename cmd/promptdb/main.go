package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	promptdb "github.com/korbirayen/promptdb"
	"github.com/korbirayen/promptdb/internal/output"
	"github.com/korbirayen/promptdb/internal/storage"
)

var (
	configPath   string
	cfg          *storage.Config
	outputFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "promptdb",
		Short: "Import scattered prompt artifacts into one queryable SQLite database",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "human", "output format: json, text, human")

	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(initConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() error {
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = storage.DefaultConfig()
		return nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	cfg = storage.DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}

// importConfigFromFile maps the YAML source roots onto one import pass. Each
// configured pattern root doubles as its own origin label so same-named
// patterns from different roots stay distinct records.
func importConfigFromFile(cfg *storage.Config) promptdb.ImportConfig {
	imp := promptdb.ImportConfig{
		StrategiesDir:    cfg.Sources.StrategiesDir,
		StrategiesOrigin: filepath.ToSlash(filepath.Clean(cfg.Sources.StrategiesDir)),
		ReposDir:         cfg.Sources.ReposDir,
		MaxFileBytes:     cfg.Sources.MaxFileKB * 1024,
	}
	for _, root := range cfg.Sources.PatternRoots {
		imp.PatternRoots = append(imp.PatternRoots, promptdb.PatternRoot{
			Dir:    root,
			Origin: filepath.ToSlash(filepath.Clean(root)),
		})
	}
	return imp
}

func importCmd() *cobra.Command {
	var reset bool
	var exportWeb bool
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Run one import pass over all configured source roots",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(output.Format(outputFormat))

			engine, err := promptdb.NewEngine(promptdb.EngineConfig{
				DBPath: cfg.Database.Path,
				Reset:  reset,
			})
			if err != nil {
				return err
			}
			defer engine.Close()

			result, err := engine.RunImport(importConfigFromFile(cfg))
			if err != nil {
				return err
			}

			out := &output.ImportResult{
				Scanned:   result.Scanned,
				Inserted:  result.Inserted,
				Updated:   result.Updated,
				Unchanged: result.Unchanged,
				Skipped:   result.Skipped,
				BySource:  result.BySource,
			}

			if exportWeb {
				bundlePath, err := engine.ExportBundle(cfg.Web.Dir)
				if err != nil {
					return fmt.Errorf("export web bundle: %w", err)
				}
				out.BundlePath = bundlePath
			}

			return formatter.OutputImportResult(out)
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "recreate the database from empty before importing")
	cmd.Flags().BoolVar(&exportWeb, "export-web", true, "also write the offline web bundle after importing")
	return cmd
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the offline web bundle from the current database",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := promptdb.NewEngine(promptdb.EngineConfig{DBPath: cfg.Database.Path})
			if err != nil {
				return err
			}
			defer engine.Close()

			bundlePath, err := engine.ExportBundle(cfg.Web.Dir)
			if err != nil {
				return err
			}

			fmt.Printf("Web bundle: %s\n", bundlePath)
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show total prompt count and per-source facets",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(output.Format(outputFormat))

			engine, err := promptdb.NewEngine(promptdb.EngineConfig{DBPath: cfg.Database.Path})
			if err != nil {
				return err
			}
			defer engine.Close()

			total, facets, err := engine.Stats()
			if err != nil {
				return err
			}

			return formatter.OutputStats(total, facets)
		},
	}
}

func listCmd() *cobra.Command {
	var query, source, repo string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List prompts, optionally filtered by text query, source, or repo",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(output.Format(outputFormat))

			engine, err := promptdb.NewEngine(promptdb.EngineConfig{DBPath: cfg.Database.Path})
			if err != nil {
				return err
			}
			defer engine.Close()

			page, err := engine.ListPrompts(query, source, repo, limit, offset)
			if err != nil {
				return err
			}

			return formatter.OutputPromptList(page.Items, page.Total)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "free-text filter over title and body")
	cmd.Flags().StringVar(&source, "source", "", "filter by source kind")
	cmd.Flags().StringVar(&repo, "repo", "", "filter by source repo")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum number of prompts to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of prompts to skip")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <prompt-id>",
		Short: "Show a single prompt in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid prompt ID: %w", err)
			}

			formatter := output.NewFormatter(output.Format(outputFormat))

			engine, err := promptdb.NewEngine(promptdb.EngineConfig{DBPath: cfg.Database.Path})
			if err != nil {
				return err
			}
			defer engine.Close()

			p, err := engine.GetPrompt(id)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("no prompt with id %d", id)
			}

			return formatter.OutputPrompt(p)
		},
	}
}

func initConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Create a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = "./config/config.yaml"
			}

			dir := filepath.Dir(configPath)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}

			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("config file already exists: %s", configPath)
			}

			cfg := storage.DefaultConfig()
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}

			if err := os.WriteFile(configPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Printf("Created default config at %s\n", configPath)
			return nil
		},
	}
}
