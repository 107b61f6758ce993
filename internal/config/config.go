package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPath = ".todo2issues.yaml"

// Config holds the run settings. Precedence: defaults, then the YAML file,
// then environment variables, then command-line flags.
type Config struct {
	// Annotation report produced by grep -rn or similar.
	Input string `yaml:"input"`
	// Directory receiving the CSV, tickets and index.
	OutputDir string `yaml:"output_dir"`
	// Root that report paths are relative to, used for context lookup.
	ProjectRoot string `yaml:"project_root"`

	CSVName   string `yaml:"csv_name"`
	IndexName string `yaml:"index_name"`
	JSONName  string `yaml:"json_name"`
	DocExt    string `yaml:"doc_ext"`

	ExcelBOM   bool `yaml:"excel_bom"`
	JSONExport bool `yaml:"json_export"`
	Debug      bool `yaml:"debug"`
}

func DefaultConfig() *Config {
	return &Config{
		Input:       "todo_report.txt",
		OutputDir:   "issues",
		ProjectRoot: ".",
		CSVName:     "issues.csv",
		IndexName:   "README.md",
		JSONName:    "issues.json",
		DocExt:      ".md",
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills settings that may be left empty.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.ProjectRoot) == "" {
		c.ProjectRoot = "."
	}
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TODO2ISSUES_INPUT"); v != "" {
		c.Input = v
	}
	if v := os.Getenv("TODO2ISSUES_OUTPUT"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("TODO2ISSUES_ROOT"); v != "" {
		c.ProjectRoot = v
	}
	if v := os.Getenv("TODO2ISSUES_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return errors.New("input path is required")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("output directory is required")
	}
	for name, v := range map[string]string{"csv_name": c.CSVName, "index_name": c.IndexName, "json_name": c.JSONName} {
		if v == "" || strings.ContainsAny(v, `/\`) {
			return fmt.Errorf("%s must be a plain file name, got %q", name, v)
		}
	}
	if !strings.HasPrefix(c.DocExt, ".") || len(c.DocExt) < 2 || strings.ContainsAny(c.DocExt, `/\ `) {
		return fmt.Errorf("doc_ext must look like \".md\", got %q", c.DocExt)
	}
	return nil
}

// Output file locations under OutputDir.
func (c *Config) CSVPath() string   { return filepath.Join(c.OutputDir, c.CSVName) }
func (c *Config) IndexPath() string { return filepath.Join(c.OutputDir, c.IndexName) }
func (c *Config) JSONPath() string  { return filepath.Join(c.OutputDir, c.JSONName) }
