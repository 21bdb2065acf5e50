// Package models defines the data exchanged between the recommendation engine, sessions and the
// HTTP and CLI layers.
package models

import "strings"

// None is the "none of the above" pseudo-candidate, and the trace of a text with no matched
// keywords. It is never a scored category.
const None = "なし"

// Candidate is one ranked emoji.
type Candidate struct {
	Emoji string  `json:"emoji"`
	Score float64 `json:"score"`
}

// Recommendation is the result of one scoring pass over Text.
type Recommendation struct {
	Text       string      `json:"text"`
	Candidates []Candidate `json:"candidates"`
	Keywords   []string    `json:"keywords"`
	Trace      string      `json:"trace"`
}

// CandidateIDs returns the ranked emoji, without the None pseudo-candidate.
func (r *Recommendation) CandidateIDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, len(r.Candidates))
	for i, c := range r.Candidates {
		ids[i] = c.Emoji
	}
	return ids
}

// Choices returns the ranked emoji followed by None, as presented to a user.
func (r *Recommendation) Choices() []string {
	return append(r.CandidateIDs(), None)
}

// Has reports whether emoji is one of the ranked candidates.
func (r *Recommendation) Has(emoji string) bool {
	if r == nil {
		return false
	}
	for _, c := range r.Candidates {
		if c.Emoji == emoji {
			return true
		}
	}
	return false
}

// Trace joins keywords with ", " or returns None when there are none.
func Trace(keywords []string) string {
	if len(keywords) == 0 {
		return None
	}
	return strings.Join(keywords, ", ")
}
