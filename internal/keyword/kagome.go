package keyword

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// KagomeTokenizer is a Japanese morphological analyzer backed by kagome and the IPA dictionary.
// It is safe for concurrent use.
type KagomeTokenizer struct {
	t *tokenizer.Tokenizer
}

// NewKagomeTokenizer loads the IPA dictionary.
func NewKagomeTokenizer() (*KagomeTokenizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("kagome tokenizer: %w", err)
	}
	return &KagomeTokenizer{t: t}, nil
}

// Tokenize implements Tokenizer. Base is the dictionary lemma, or the surface form for unknown
// words.
func (k *KagomeTokenizer) Tokenize(text string) []Token {
	if text == "" {
		return nil
	}
	ktoks := k.t.Tokenize(text)
	out := make([]Token, 0, len(ktoks))
	for _, kt := range ktoks {
		if strings.TrimSpace(kt.Surface) == "" {
			continue
		}
		base := kt.Surface
		if lemma, ok := kt.BaseForm(); ok && lemma != "" && lemma != "*" {
			base = lemma
		}
		out = append(out, Token{Surface: kt.Surface, Base: base})
	}
	return out
}
