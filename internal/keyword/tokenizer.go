package keyword

import (
	"strings"
)

// Token is one morpheme or analyzed term of a text.
type Token struct {
	Surface string `json:"surface"`
	Base    string `json:"base"`
}

// Tokenizer splits text into tokens in reading order.
type Tokenizer interface {
	Tokenize(text string) []Token
}

// TokenizerExtractor keeps the base form of every token that is in the vocabulary, in reading
// order. A keyword that recurs in the text is reported each time.
type TokenizerExtractor struct {
	tokenizer Tokenizer
	vocab     Vocabulary
}

// NewTokenizerExtractor combines a tokenizer with a vocabulary filter.
func NewTokenizerExtractor(t Tokenizer, v Vocabulary) *TokenizerExtractor {
	return &TokenizerExtractor{tokenizer: t, vocab: v}
}

// Extract implements Extractor.
func (e *TokenizerExtractor) Extract(text string) Match {
	if strings.TrimSpace(text) == "" || e.tokenizer == nil || e.vocab == nil {
		return Match{}
	}
	var out []string
	for _, tok := range e.tokenizer.Tokenize(text) {
		if tok.Base != "" && e.vocab.Contains(tok.Base) {
			out = append(out, tok.Base)
		}
	}
	return Match{Keywords: out}
}
