// Package config loads docdex configuration. Settings are applied in
// order of increasing precedence: built-in defaults, the user config
// (~/.config/docdex/config.yaml), the project config (.docdex.yaml),
// then DOCDEX_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	derrors "github.com/mhollis/docdex/internal/errors"
	"github.com/mhollis/docdex/internal/store"
)

// Config is the complete docdex configuration.
type Config struct {
	Version int          `yaml:"version" json:"version"`
	Paths   PathsConfig  `yaml:"paths" json:"paths"`
	Index   IndexConfig  `yaml:"index" json:"index"`
	Search  SearchConfig `yaml:"search" json:"search"`
	Server  ServerConfig `yaml:"server" json:"server"`
	Watch   WatchConfig  `yaml:"watch" json:"watch"`
}

// PathsConfig selects which documents to index.
type PathsConfig struct {
	Include []string `yaml:"include" json:"include"`
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// IndexConfig selects the index backend and ranking parameters.
type IndexConfig struct {
	// Backend is "memory" (default) or "bleve".
	Backend string `yaml:"backend" json:"backend"`

	// Ranking is "tf" (default, rank by occurrence count) or "bm25".
	Ranking string `yaml:"ranking" json:"ranking"`

	// K1 and B are BM25 parameters, only used when Ranking is bm25.
	K1 float64 `yaml:"k1" json:"k1"`
	B  float64 `yaml:"b" json:"b"`

	// StopWords are terms dropped at index and query time.
	StopWords []string `yaml:"stop_words" json:"stop_words"`
}

// SearchConfig shapes query results.
type SearchConfig struct {
	MaxResults   int `yaml:"max_results" json:"max_results"`
	ExcerptLines int `yaml:"excerpt_lines" json:"excerpt_lines"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// WatchConfig configures filesystem watching for the serve command.
// Enabled is a pointer so a merge can tell an explicit false apart
// from an unset field.
type WatchConfig struct {
	Enabled  *bool  `yaml:"enabled" json:"enabled"`
	Debounce string `yaml:"debounce" json:"debounce"`
}

// New returns a Config with defaults applied.
func New() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Index: IndexConfig{
			Backend: store.BackendMemory,
			Ranking: store.RankingTF,
			K1:      1.2,
			B:       0.75,
		},
		Search: SearchConfig{
			MaxResults:   10,
			ExcerptLines: 3,
		},
		Server: ServerConfig{
			Host:     "127.0.0.1",
			Port:     8377,
			LogLevel: "info",
		},
		Watch: WatchConfig{
			Enabled:  boolPtr(true),
			Debounce: "500ms",
		},
	}
}

// UserConfigPath returns the user config location, honoring
// XDG_CONFIG_HOME.
func UserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "docdex", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "docdex", "config.yaml")
	}
	return filepath.Join(home, ".config", "docdex", "config.yaml")
}

// Load builds the effective configuration for a project directory.
func Load(dir string) (*Config, error) {
	cfg := New()

	if path := UserConfigPath(); fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadProject(dir); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeConfigInvalid, err)
	}
	return cfg, nil
}

// LoadFile builds the effective configuration from one explicit config
// file, skipping the user and project config chain. Environment
// overrides still apply.
func LoadFile(path string) (*Config, error) {
	cfg := New()

	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeConfigInvalid, err)
	}
	return cfg, nil
}

// loadProject merges .docdex.yaml or .docdex.yml from dir, if present.
func (c *Config) loadProject(dir string) error {
	for _, name := range []string{".docdex.yaml", ".docdex.yml"} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return c.loadYAML(path)
		}
	}
	return nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return derrors.New(derrors.ErrCodeConfigNotFound, fmt.Sprintf("read config %s: %v", path, err), err)
	}
	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return derrors.New(derrors.ErrCodeConfigInvalid, fmt.Sprintf("parse config %s: %v", path, err), err)
	}
	c.mergeWith(&parsed)
	return nil
}

// mergeWith overlays non-zero values from other.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if len(other.Paths.Include) > 0 {
		c.Paths.Include = other.Paths.Include
	}
	if len(other.Paths.Exclude) > 0 {
		c.Paths.Exclude = append(c.Paths.Exclude, other.Paths.Exclude...)
	}

	if other.Index.Backend != "" {
		c.Index.Backend = other.Index.Backend
	}
	if other.Index.Ranking != "" {
		c.Index.Ranking = other.Index.Ranking
	}
	if other.Index.K1 != 0 {
		c.Index.K1 = other.Index.K1
	}
	if other.Index.B != 0 {
		c.Index.B = other.Index.B
	}
	if len(other.Index.StopWords) > 0 {
		c.Index.StopWords = other.Index.StopWords
	}

	if other.Search.MaxResults != 0 {
		c.Search.MaxResults = other.Search.MaxResults
	}
	if other.Search.ExcerptLines != 0 {
		c.Search.ExcerptLines = other.Search.ExcerptLines
	}

	if other.Server.Host != "" {
		c.Server.Host = other.Server.Host
	}
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
	if other.Server.LogLevel != "" {
		c.Server.LogLevel = other.Server.LogLevel
	}

	if other.Watch.Enabled != nil {
		c.Watch.Enabled = other.Watch.Enabled
	}
	if other.Watch.Debounce != "" {
		c.Watch.Debounce = other.Watch.Debounce
	}
}

// applyEnv applies DOCDEX_* overrides, the highest precedence layer.
func (c *Config) applyEnv() {
	if v := os.Getenv("DOCDEX_BACKEND"); v != "" {
		c.Index.Backend = v
	}
	if v := os.Getenv("DOCDEX_RANKING"); v != "" {
		c.Index.Ranking = v
	}
	if v := os.Getenv("DOCDEX_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Search.MaxResults = n
		}
	}
	if v := os.Getenv("DOCDEX_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("DOCDEX_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("DOCDEX_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("DOCDEX_WATCH"); v != "" {
		c.Watch.Enabled = boolPtr(strings.EqualFold(v, "true") || v == "1")
	}
	if v := os.Getenv("DOCDEX_WATCH_DEBOUNCE"); v != "" {
		c.Watch.Debounce = v
	}
}

// Validate checks the final configuration for consistency.
func (c *Config) Validate() error {
	switch c.Index.Backend {
	case store.BackendMemory, store.BackendBleve:
	default:
		return fmt.Errorf("index.backend must be memory or bleve, got %q", c.Index.Backend)
	}

	switch c.Index.Ranking {
	case store.RankingTF, store.RankingBM25:
	default:
		return fmt.Errorf("index.ranking must be tf or bm25, got %q", c.Index.Ranking)
	}

	if c.Index.K1 < 0 {
		return fmt.Errorf("index.k1 must be non-negative, got %v", c.Index.K1)
	}
	if c.Index.B < 0 || c.Index.B > 1 {
		return fmt.Errorf("index.b must be in [0,1], got %v", c.Index.B)
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive, got %d", c.Search.MaxResults)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}

	switch strings.ToLower(c.Server.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("server.log_level must be debug, info, warn, or error, got %q", c.Server.LogLevel)
	}

	if _, err := c.DebounceDuration(); err != nil {
		return err
	}
	return nil
}

// WatchEnabled reports whether filesystem watching is on. An unset
// field means enabled.
func (c *Config) WatchEnabled() bool {
	if c.Watch.Enabled == nil {
		return true
	}
	return *c.Watch.Enabled
}

// DebounceDuration parses Watch.Debounce.
func (c *Config) DebounceDuration() (time.Duration, error) {
	if c.Watch.Debounce == "" {
		return 500 * time.Millisecond, nil
	}
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, fmt.Errorf("watch.debounce is not a duration: %q", c.Watch.Debounce)
	}
	if d < 0 {
		return 0, fmt.Errorf("watch.debounce must be non-negative, got %s", d)
	}
	return d, nil
}

// StoreConfig converts the index settings for the store factory.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Backend:   c.Index.Backend,
		Ranking:   c.Index.Ranking,
		K1:        c.Index.K1,
		B:         c.Index.B,
		StopWords: c.Index.StopWords,
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
