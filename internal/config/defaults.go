package config

import (
	"time"

	"github.com/hyperjump/emosuggest/internal/ranking"
)

// DefaultLogSheet is the sheet accepted suggestions are logged to.
const DefaultLogSheet = "収集データ"

// MaxIngestAttempts bounds ingest.max_attempts so a rate-limited sheet cannot stall startup.
const MaxIngestAttempts = 5

// DefaultCategories returns the 69 emoji from U+1F600 to U+1F644, in code point order.
func DefaultCategories() []string {
	out := make([]string, 0, 0x1F644-0x1F600+1)
	for r := rune(0x1F600); r <= 0x1F644; r++ {
		out = append(out, string(r))
	}
	return out
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Source.Backend == "" {
		cfg.Source.Backend = BackendXLSX
	}
	if cfg.Source.WorkbookPath == "" {
		cfg.Source.WorkbookPath = "/usr/local/var/emosuggest/data/emoji.xlsx"
	}
	if cfg.Source.DatabasePath == "" {
		cfg.Source.DatabasePath = "/usr/local/var/emosuggest/data/emoji.db"
	}
	if cfg.Source.CredentialsEnv == "" {
		cfg.Source.CredentialsEnv = "EMOSUGGEST_GOOGLE_CREDENTIALS"
	}
	if cfg.Source.LogSheet == "" {
		cfg.Source.LogSheet = DefaultLogSheet
	}
	if cfg.Ingest.MaxAttempts == 0 {
		cfg.Ingest.MaxAttempts = 3
	}
	if cfg.Ingest.BaseDelay == 0 {
		cfg.Ingest.BaseDelay = 2 * time.Second
	}
	if cfg.Ingest.CategoryDelay == nil {
		d := 1500 * time.Millisecond
		cfg.Ingest.CategoryDelay = &d
	}
	if len(cfg.Recommend.Categories) == 0 {
		cfg.Recommend.Categories = DefaultCategories()
	}
	if cfg.Recommend.TopK == 0 {
		cfg.Recommend.TopK = ranking.DefaultTopK
	}
	if cfg.Recommend.Weighted == nil {
		t := true
		cfg.Recommend.Weighted = &t
	}
	if cfg.Recommend.ExtractionStrategy == "" {
		cfg.Recommend.ExtractionStrategy = StrategySubstring
	}
	if cfg.Recommend.Tokenizer == "" {
		cfg.Recommend.Tokenizer = TokenizerKagome
	}
	if cfg.Recommend.BleveAnalyzer == "" {
		cfg.Recommend.BleveAnalyzer = "cjk"
	}
	if cfg.Recommend.TokenCacheSize == 0 {
		cfg.Recommend.TokenCacheSize = 1024
	}
	if cfg.Session.IdleTimeout == 0 {
		cfg.Session.IdleTimeout = 30 * time.Minute
	}
	// ClearOnAccept defaults to true when unset (nil).
	if cfg.Session.ClearOnAccept == nil {
		t := true
		cfg.Session.ClearOnAccept = &t
	}
}
