// Package search ties keyword extraction and ranking into the recommendation engine.
package search

import (
	"fmt"

	"github.com/hyperjump/emosuggest/internal/config"
	"github.com/hyperjump/emosuggest/internal/keyword"
	"github.com/hyperjump/emosuggest/internal/models"
	"github.com/hyperjump/emosuggest/internal/ranking"
	"github.com/hyperjump/emosuggest/internal/table"
)

// Engine recommends emoji for text. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	table     *table.Table
	extractor keyword.Extractor
	ranker    ranking.Ranker
	normalize bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithNormalization applies NFKC normalization to input text before extraction. The table
// keywords are normalized the same way when the engine is built.
func WithNormalization(on bool) EngineOption {
	return func(e *Engine) { e.normalize = on }
}

// NewEngine creates an engine over t. A nil extractor defaults to substring matching and a nil
// ranker to ranking.DefaultConfig.
func NewEngine(t *table.Table, extractor keyword.Extractor, ranker ranking.Ranker, opts ...EngineOption) *Engine {
	e := &Engine{table: t, extractor: extractor, ranker: ranker}
	for _, opt := range opts {
		opt(e)
	}
	if e.normalize {
		e.table = t.MapKeywords(keyword.Normalize)
	}
	if e.extractor == nil {
		e.extractor = keyword.NewSubstringExtractor(e.table)
	}
	if e.ranker == nil {
		e.ranker = ranking.New(nil)
	}
	return e
}

// NewEngineFromConfig selects the extractor and ranker described by cfg. It fails only when the
// configured tokenizer cannot be loaded.
func NewEngineFromConfig(t *table.Table, cfg *config.RecommendConfig) (*Engine, error) {
	if cfg.NormalizeInput {
		t = t.MapKeywords(keyword.Normalize)
	}
	var extractor keyword.Extractor
	switch cfg.ExtractionStrategy {
	case config.StrategyTokenizer:
		tok, err := NewTokenizer(cfg)
		if err != nil {
			return nil, err
		}
		extractor = keyword.NewTokenizerExtractor(tok, t)
	default:
		extractor = keyword.NewSubstringExtractor(t)
	}
	return NewEngine(t, extractor, ranking.New(cfg.Ranking()), WithNormalization(cfg.NormalizeInput)), nil
}

// NewTokenizer loads the tokenizer named by cfg.Tokenizer, behind a cache of
// cfg.TokenCacheSize texts.
func NewTokenizer(cfg *config.RecommendConfig) (keyword.Tokenizer, error) {
	var tok keyword.Tokenizer
	switch cfg.Tokenizer {
	case config.TokenizerBleve:
		b, err := keyword.NewBleveTokenizer(cfg.BleveAnalyzer)
		if err != nil {
			return nil, err
		}
		tok = b
	case config.TokenizerKagome, "":
		k, err := keyword.NewKagomeTokenizer()
		if err != nil {
			return nil, err
		}
		tok = k
	default:
		return nil, fmt.Errorf("unknown tokenizer %q", cfg.Tokenizer)
	}
	return keyword.NewCachedTokenizer(tok, cfg.TokenCacheSize), nil
}

// Recommend extracts keywords from text and ranks the categories they belong to. Empty text,
// an empty table or text without keywords give an empty candidate list and the None trace.
func (e *Engine) Recommend(text string) *models.Recommendation {
	input := text
	if e.normalize {
		input = keyword.Normalize(input)
	}
	match := e.extractor.Extract(input)
	candidates := e.ranker.Rank(e.table, match.Keywords)
	if candidates == nil {
		candidates = []models.Candidate{}
	}
	keywords := match.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return &models.Recommendation{
		Text:       text,
		Candidates: candidates,
		Keywords:   keywords,
		Trace:      match.Trace(),
	}
}

// Table returns the association table the engine ranks against.
func (e *Engine) Table() *table.Table {
	return e.table
}

// Status reports the size of the engine's table. Source-related fields are left to the caller.
func (e *Engine) Status() models.Status {
	return models.Status{
		Categories:           e.table.Len(),
		ConfiguredCategories: len(e.table.Order()),
		VocabularySize:       e.table.VocabularySize(),
	}
}
