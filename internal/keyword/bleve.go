package keyword

import (
	"fmt"

	"github.com/blevesearch/bleve/v2/analysis"
	_ "github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/cjk"
	"github.com/blevesearch/bleve/v2/registry"
)

// DefaultBleveAnalyzer is the bleve analyzer used when none is configured.
const DefaultBleveAnalyzer = "cjk"

// BleveTokenizer runs a registered bleve analyzer over the text. Base is the analyzed term
// (lower-cased and width-folded; bigrams for CJK runs with the cjk analyzer).
type BleveTokenizer struct {
	name     string
	analyzer analyzer
}

type analyzer interface {
	Analyze(input []byte) analysis.TokenStream
}

// NewBleveTokenizer looks up analyzer name in the bleve registry, e.g. "cjk" or "standard".
func NewBleveTokenizer(name string) (*BleveTokenizer, error) {
	if name == "" {
		name = DefaultBleveAnalyzer
	}
	a, err := registry.NewCache().AnalyzerNamed(name)
	if err != nil {
		return nil, fmt.Errorf("bleve analyzer %q: %w", name, err)
	}
	return &BleveTokenizer{name: name, analyzer: a}, nil
}

// Tokenize implements Tokenizer.
func (b *BleveTokenizer) Tokenize(text string) []Token {
	if text == "" {
		return nil
	}
	stream := b.analyzer.Analyze([]byte(text))
	out := make([]Token, 0, len(stream))
	for _, tok := range stream {
		surface := string(tok.Term)
		if tok.Start >= 0 && tok.End <= len(text) && tok.Start < tok.End {
			surface = text[tok.Start:tok.End]
		}
		out = append(out, Token{Surface: surface, Base: string(tok.Term)})
	}
	return out
}

// Name returns the analyzer name.
func (b *BleveTokenizer) Name() string { return b.name }
