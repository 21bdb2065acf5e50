// Package config provides configuration loading and structs for the emosuggest server and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperjump/emosuggest/internal/ranking"
	"gopkg.in/yaml.v3"
)

// Backends accepted in source.backend.
const (
	BackendXLSX   = "xlsx"
	BackendSheets = "sheets"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Extraction strategies accepted in recommend.extraction_strategy.
const (
	StrategySubstring = "substring"
	StrategyTokenizer = "tokenizer"
)

// Tokenizers accepted in recommend.tokenizer.
const (
	TokenizerKagome = "kagome"
	TokenizerBleve  = "bleve"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Source    SourceConfig    `yaml:"source"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Recommend RecommendConfig `yaml:"recommend"`
	Session   SessionConfig   `yaml:"session"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SourceConfig selects where the association table is read from and the log is written to.
type SourceConfig struct {
	Backend         string `yaml:"backend"`
	WorkbookPath    string `yaml:"workbook_path"`
	DatabasePath    string `yaml:"database_path"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file"`
	// CredentialsEnv names an environment variable holding the service-account JSON.
	CredentialsEnv string `yaml:"credentials_env"`
	LogSheet       string `yaml:"log_sheet"`
}

// IngestConfig holds table ingestion pacing and retry settings.
type IngestConfig struct {
	MaxAttempts   int           `yaml:"max_attempts"`
	BaseDelay     time.Duration `yaml:"base_delay"`
	CategoryDelay *time.Duration `yaml:"category_delay"`
}

// CategoryDelayOrDefault returns the delay between categories; 1.5s when unset.
func (c *IngestConfig) CategoryDelayOrDefault() time.Duration {
	if c.CategoryDelay != nil {
		return *c.CategoryDelay
	}
	return 1500 * time.Millisecond
}

// RecommendConfig holds extraction and ranking settings.
type RecommendConfig struct {
	// Categories is the ordered category list; order breaks score ties.
	Categories         []string `yaml:"categories"`
	TopK               int      `yaml:"top_k"`
	TieExtension       bool     `yaml:"tie_extension"`
	Weighted           *bool    `yaml:"weighted"`
	ExtractionStrategy string   `yaml:"extraction_strategy"`
	Tokenizer          string   `yaml:"tokenizer"`
	// BleveAnalyzer names the bleve analyzer used when tokenizer is "bleve".
	BleveAnalyzer  string `yaml:"bleve_analyzer"`
	NormalizeInput bool   `yaml:"normalize_input"`
	// TokenCacheSize bounds the tokenization cache; negative disables it.
	TokenCacheSize int `yaml:"token_cache_size"`
}

// WeightedOrDefault returns whether weighted ranking is used; defaults to true when unset.
func (r *RecommendConfig) WeightedOrDefault() bool {
	if r.Weighted != nil {
		return *r.Weighted
	}
	return true
}

// Ranking returns the ranking policy described by r.
func (r *RecommendConfig) Ranking() *ranking.Config {
	return &ranking.Config{
		Weighted:     r.WeightedOrDefault(),
		TopK:         r.TopK,
		TieExtension: r.TieExtension,
	}
}

// SessionConfig holds interaction settings.
type SessionConfig struct {
	// ClearOnAccept drops the held candidates after a successful accept.
	ClearOnAccept *bool         `yaml:"clear_on_accept"`
	// IdleTimeout expires server sessions unused for this long; negative keeps them.
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
}

// ClearOnAcceptOrDefault returns whether accept clears results; defaults to true when unset.
func (s *SessionConfig) ClearOnAcceptOrDefault() bool {
	if s.ClearOnAccept != nil {
		return *s.ClearOnAccept
	}
	return true
}

// Load reads and parses the config file at path, applies defaults, expands paths and validates.
// Returns an error if the file cannot be read, parsed or is invalid.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Source.WorkbookPath = expandPath(cfg.Source.WorkbookPath, configDir)
	cfg.Source.DatabasePath = expandPath(cfg.Source.DatabasePath, configDir)
	if cfg.Source.CredentialsFile != "" {
		cfg.Source.CredentialsFile = expandPath(cfg.Source.CredentialsFile, configDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Source.Backend {
	case BackendXLSX, BackendSQLite, BackendMemory:
	case BackendSheets:
		if c.Source.SpreadsheetID == "" {
			return fmt.Errorf("invalid config: source.spreadsheet_id is required for the sheets backend")
		}
	default:
		return fmt.Errorf("invalid config: unknown source.backend %q", c.Source.Backend)
	}
	switch c.Recommend.ExtractionStrategy {
	case StrategySubstring, StrategyTokenizer:
	default:
		return fmt.Errorf("invalid config: unknown recommend.extraction_strategy %q", c.Recommend.ExtractionStrategy)
	}
	switch c.Recommend.Tokenizer {
	case TokenizerKagome, TokenizerBleve:
	default:
		return fmt.Errorf("invalid config: unknown recommend.tokenizer %q", c.Recommend.Tokenizer)
	}
	if len(c.Recommend.Categories) == 0 {
		return fmt.Errorf("invalid config: recommend.categories is empty")
	}
	seen := make(map[string]struct{}, len(c.Recommend.Categories))
	for _, id := range c.Recommend.Categories {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("invalid config: recommend.categories contains an empty id")
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("invalid config: duplicate category %q", id)
		}
		if id == c.Source.LogSheet {
			return fmt.Errorf("invalid config: category %q is also the log sheet", id)
		}
		seen[id] = struct{}{}
	}
	if c.Ingest.MaxAttempts < 1 || c.Ingest.MaxAttempts > MaxIngestAttempts {
		return fmt.Errorf("invalid config: ingest.max_attempts must be between 1 and %d", MaxIngestAttempts)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port %d out of range", c.Server.Port)
	}
	return nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
