package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"texgraph/internal/engine/signature"
	"texgraph/internal/engine/store"
)

type Config struct {
	Version        int           `toml:"version"`
	Entry          string        `toml:"entry"`
	Extensions     []string      `toml:"extensions"`
	RootCandidates []string      `toml:"root_candidates"`
	LoadDefaults   *bool         `toml:"load_defaults"`
	Definitions    Definitions   `toml:"definitions"`
	Exclude        Exclude       `toml:"exclude"`
	Watch          Watch         `toml:"watch"`
	History        History       `toml:"history"`
	Observability  Observability `toml:"observability"`
	Output         Output        `toml:"output"`
}

// Definitions carries user-provided command and environment tables, inline or
// loaded from separate TOML files.
type Definitions struct {
	CommandFiles []string                   `toml:"files"`
	Commands     map[string]string          `toml:"commands"`
	Environments map[string]EnvironmentSpec `toml:"environments"`
}

type EnvironmentSpec struct {
	Signature string `toml:"signature"`
	Title     string `toml:"title"`
	Begin     string `toml:"begin"`
	End       string `toml:"end"`
	Package   string `toml:"package"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Enabled  bool          `toml:"enabled"`
	Debounce time.Duration `toml:"debounce"`
	Rate     float64       `toml:"rate"`  // re-resolves per second
	Burst    int           `toml:"burst"`
}

type History struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`
	ProjectKey string `toml:"project_key"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

type Output struct {
	Markdown string `toml:"markdown"`
	TSV      string `toml:"tsv"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	// Definition-table files resolve relative to the config file.
	baseDir := filepath.Dir(path)
	for i, f := range cfg.Definitions.CommandFiles {
		if !filepath.IsAbs(f) {
			cfg.Definitions.CommandFiles[i] = filepath.Join(baseDir, f)
		}
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if strings.TrimSpace(cfg.Entry) == "" {
		cfg.Entry = "."
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".tex"}
	}
	if len(cfg.RootCandidates) == 0 {
		cfg.RootCandidates = []string{"main.tex", "master.tex", "root.tex", "thesis.tex"}
	}
	if cfg.LoadDefaults == nil {
		v := true
		cfg.LoadDefaults = &v
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "build", "out", "node_modules"}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 400 * time.Millisecond
	}
	if cfg.Watch.Rate == 0 {
		cfg.Watch.Rate = 1
	}
	if cfg.Watch.Burst == 0 {
		cfg.Watch.Burst = 2
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = "data/texgraph-history.db"
	}
	if strings.TrimSpace(cfg.History.ProjectKey) == "" {
		cfg.History.ProjectKey = "default"
	}
}

func validate(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d", cfg.Version)
	}
	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must not be negative")
	}
	for name, sig := range cfg.Definitions.Commands {
		if _, err := signature.Parse(sig); err != nil {
			return fmt.Errorf("command %q: %w", name, err)
		}
	}
	for name, spec := range cfg.Definitions.Environments {
		if _, err := signature.Parse(spec.Signature); err != nil {
			return fmt.Errorf("environment %q: %w", name, err)
		}
	}
	return nil
}

// ShouldLoadDefaults reports whether built-in default tables are wanted.
func (c *Config) ShouldLoadDefaults() bool {
	return c.LoadDefaults == nil || *c.LoadDefaults
}

// definitionFile mirrors the [commands]/[environments] layout of an external
// definition table.
type definitionFile struct {
	Commands     map[string]string          `toml:"commands"`
	Environments map[string]EnvironmentSpec `toml:"environments"`
}

// UserCommands materializes the user-provided command table: inline entries
// plus every configured definition file.
func (c *Config) UserCommands() ([]store.Command, error) {
	var out []store.Command
	add := func(source string, table map[string]string) error {
		for name, sigText := range table {
			sig, err := signature.Parse(sigText)
			if err != nil {
				return fmt.Errorf("%s: command %q: %w", source, name, err)
			}
			out = append(out, store.Command{
				Name:      strings.TrimPrefix(name, "\\"),
				Signature: sig,
				Category:  store.CategoryUser,
			})
		}
		return nil
	}

	if err := add("config", c.Definitions.Commands); err != nil {
		return nil, err
	}
	for _, path := range c.Definitions.CommandFiles {
		df, err := readDefinitionFile(path)
		if err != nil {
			return nil, err
		}
		if err := add(path, df.Commands); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UserEnvironments materializes the user-provided environment table.
func (c *Config) UserEnvironments() ([]store.Environment, error) {
	var out []store.Environment
	add := func(source string, table map[string]EnvironmentSpec) error {
		for name, spec := range table {
			sig, err := signature.Parse(spec.Signature)
			if err != nil {
				return fmt.Errorf("%s: environment %q: %w", source, name, err)
			}
			out = append(out, store.Environment{
				Name:          name,
				Signature:     sig,
				Parameters:    sig.Params(),
				Title:         spec.Title,
				BeginBody:     spec.Begin,
				EndBody:       spec.End,
				PackageSource: spec.Package,
				Category:      store.EnvUser,
			})
		}
		return nil
	}

	if err := add("config", c.Definitions.Environments); err != nil {
		return nil, err
	}
	for _, path := range c.Definitions.CommandFiles {
		df, err := readDefinitionFile(path)
		if err != nil {
			return nil, err
		}
		if err := add(path, df.Environments); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readDefinitionFile(path string) (*definitionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition file: %w", err)
	}
	var df definitionFile
	if _, err := toml.Decode(string(data), &df); err != nil {
		return nil, fmt.Errorf("parse definition file %s: %w", path, err)
	}
	return &df, nil
}

// RecognizedExtension reports whether the path carries a recognized project
// file extension.
func (c *Config) RecognizedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
