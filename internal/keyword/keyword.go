// Package keyword extracts association-table keywords from input text.
package keyword

import (
	"github.com/hyperjump/emosuggest/internal/models"
	"golang.org/x/text/unicode/norm"
)

// Match is the ordered list of keywords found in a text.
type Match struct {
	Keywords []string `json:"keywords"`
}

// Trace returns the keywords joined for display and logging, or models.None if empty.
func (m Match) Trace() string {
	return models.Trace(m.Keywords)
}

// Extractor finds vocabulary keywords in text.
type Extractor interface {
	Extract(text string) Match
}

// Vocabulary answers keyword membership. *table.Table implements it.
type Vocabulary interface {
	Contains(keyword string) bool
	Vocabulary() []string
}

// Normalize applies NFKC so full-width ASCII and half-width katakana match their canonical forms.
func Normalize(text string) string {
	return norm.NFKC.String(text)
}
