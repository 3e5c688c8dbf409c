// Package config loads pulse configuration from defaults, YAML files and
// PULSE_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	perrors "github.com/Aman-CERP/pulse/internal/errors"
)

// Default values.
const (
	DefaultPattern         = "analyses/partition=*/*.jsonl"
	DefaultBlocklistPath   = "top_1m_nsfw_sites.txt"
	DefaultIndexRoot       = "pulse_indexes"
	DefaultCommitThreshold = 1000
	DefaultPreviewLength   = 500
	DefaultLanguage        = "en"
	DefaultLogLevel        = "info"
	DefaultLogMaxSizeMB    = 10
	DefaultLogMaxFiles     = 5
)

// ProjectFileNames are the config files looked up in the working
// directory, in order of preference.
var ProjectFileNames = []string{".pulse.yaml", ".pulse.yml"}

// Config represents the complete pulse configuration.
type Config struct {
	Input     InputConfig     `yaml:"input" json:"input"`
	Blocklist BlocklistConfig `yaml:"blocklist" json:"blocklist"`
	Index     IndexConfig     `yaml:"index" json:"index"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics" json:"metrics"`
}

// InputConfig selects the crawl files to index.
type InputConfig struct {
	// Pattern is a filepath.Glob pattern resolved once at job start.
	Pattern string `yaml:"pattern" json:"pattern"`
}

// BlocklistConfig locates the NSFW domain list.
type BlocklistConfig struct {
	Path string `yaml:"path" json:"path"`
}

// IndexConfig configures index output and derived fields.
type IndexConfig struct {
	// Root holds one index_<unix seconds> directory per job.
	Root            string `yaml:"root" json:"root"`
	CommitThreshold int    `yaml:"commit_threshold" json:"commit_threshold"`
	PreviewLength   int    `yaml:"preview_length" json:"preview_length"`
	DefaultLanguage string `yaml:"default_language" json:"default_language"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	// File enables a rotating JSON log file in addition to stderr.
	File      string `yaml:"file" json:"file"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

// MetricsConfig configures the Prometheus textfile written after each job.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" json:"textfile"`
}

// NewConfig returns a configuration with all defaults applied.
func NewConfig() *Config {
	return &Config{
		Input:     InputConfig{Pattern: DefaultPattern},
		Blocklist: BlocklistConfig{Path: DefaultBlocklistPath},
		Index: IndexConfig{
			Root:            DefaultIndexRoot,
			CommitThreshold: DefaultCommitThreshold,
			PreviewLength:   DefaultPreviewLength,
			DefaultLanguage: DefaultLanguage,
		},
		Logging: LoggingConfig{
			Level:     DefaultLogLevel,
			MaxSizeMB: DefaultLogMaxSizeMB,
			MaxFiles:  DefaultLogMaxFiles,
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file:
//   - $XDG_CONFIG_HOME/pulse/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/pulse/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pulse", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "pulse", "config.yaml")
	}
	return filepath.Join(home, ".config", "pulse", "config.yaml")
}

// Load loads configuration for a job run from dir.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (~/.config/pulse/config.yaml)
//  3. Project config (.pulse.yaml in dir)
//  4. Environment variables (PULSE_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if path := GetUserConfigPath(); fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if path := FindProjectFile(dir); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	return cfg.finish()
}

// LoadFile loads defaults, then the given file, then environment overrides.
// The file must exist.
func LoadFile(path string) (*Config, error) {
	if !fileExists(path) {
		return nil, perrors.New(perrors.ErrCodeConfigNotFound,
			fmt.Sprintf("config file not found: %s", path), nil).
			WithSuggestion("Run 'pulse config init' to create one")
	}

	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}
	return cfg.finish()
}

func (c *Config) finish() (*Config, error) {
	if err := c.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// FindProjectFile returns the project config file in dir, or "".
func FindProjectFile(dir string) string {
	for _, name := range ProjectFileNames {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// loadYAML merges the non-zero values of a YAML file into c.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return perrors.New(perrors.ErrCodeConfigInvalid,
			fmt.Sprintf("failed to read config file %s", path), err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return perrors.New(perrors.ErrCodeConfigInvalid,
			fmt.Sprintf("failed to parse config file %s", path), err).
			WithDetail("file", path)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	mergeString(&c.Input.Pattern, other.Input.Pattern)
	mergeString(&c.Blocklist.Path, other.Blocklist.Path)

	mergeString(&c.Index.Root, other.Index.Root)
	mergeInt(&c.Index.CommitThreshold, other.Index.CommitThreshold)
	mergeInt(&c.Index.PreviewLength, other.Index.PreviewLength)
	mergeString(&c.Index.DefaultLanguage, other.Index.DefaultLanguage)

	mergeString(&c.Logging.Level, other.Logging.Level)
	mergeString(&c.Logging.File, other.Logging.File)
	mergeInt(&c.Logging.MaxSizeMB, other.Logging.MaxSizeMB)
	mergeInt(&c.Logging.MaxFiles, other.Logging.MaxFiles)

	mergeString(&c.Metrics.Textfile, other.Metrics.Textfile)
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// applyEnvOverrides applies PULSE_* environment variables.
func (c *Config) applyEnvOverrides() error {
	strs := map[string]*string{
		"PULSE_INPUT_PATTERN":    &c.Input.Pattern,
		"PULSE_BLOCKLIST_PATH":   &c.Blocklist.Path,
		"PULSE_INDEX_ROOT":       &c.Index.Root,
		"PULSE_DEFAULT_LANGUAGE": &c.Index.DefaultLanguage,
		"PULSE_LOG_LEVEL":        &c.Logging.Level,
		"PULSE_LOG_FILE":         &c.Logging.File,
		"PULSE_METRICS_TEXTFILE": &c.Metrics.Textfile,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"PULSE_COMMIT_THRESHOLD": &c.Index.CommitThreshold,
		"PULSE_PREVIEW_LENGTH":   &c.Index.PreviewLength,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return perrors.New(perrors.ErrCodeConfigInvalid,
				fmt.Sprintf("%s must be an integer, got %q", key, v), err)
		}
		*dst = n
	}
	return nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return perrors.New(perrors.ErrCodeConfigInvalid, fmt.Sprintf(format, args...), nil)
	}

	if strings.TrimSpace(c.Input.Pattern) == "" {
		return invalid("input.pattern must not be empty")
	}
	if _, err := filepath.Match(c.Input.Pattern, ""); err != nil {
		return invalid("input.pattern is not a valid glob: %q", c.Input.Pattern)
	}
	if c.Index.Root == "" {
		return invalid("index.root must not be empty")
	}
	if c.Index.CommitThreshold <= 0 {
		return invalid("index.commit_threshold must be positive, got %d", c.Index.CommitThreshold)
	}
	if c.Index.PreviewLength <= 0 {
		return invalid("index.preview_length must be positive, got %d", c.Index.PreviewLength)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return invalid("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxFiles < 0 {
		return invalid("logging.max_size_mb and logging.max_files must be non-negative")
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
