package keyword

import (
	"sort"
	"strings"
)

// SubstringExtractor reports every vocabulary keyword that occurs in the text, ordered by the
// byte offset of its first occurrence. Each keyword is reported once.
type SubstringExtractor struct {
	keywords []string
}

// NewSubstringExtractor snapshots the vocabulary of v.
func NewSubstringExtractor(v Vocabulary) *SubstringExtractor {
	var kws []string
	if v != nil {
		kws = v.Vocabulary()
	}
	return &SubstringExtractor{keywords: kws}
}

type hit struct {
	index   int
	keyword string
}

// Extract implements Extractor. Keywords starting at the same offset are ordered longest first,
// then bytewise.
func (e *SubstringExtractor) Extract(text string) Match {
	if text == "" {
		return Match{}
	}
	var hits []hit
	for _, kw := range e.keywords {
		if kw == "" {
			continue
		}
		if i := strings.Index(text, kw); i >= 0 {
			hits = append(hits, hit{index: i, keyword: kw})
		}
	}
	sort.Slice(hits, func(a, b int) bool {
		ha, hb := hits[a], hits[b]
		if ha.index != hb.index {
			return ha.index < hb.index
		}
		if len(ha.keyword) != len(hb.keyword) {
			return len(ha.keyword) > len(hb.keyword)
		}
		return ha.keyword < hb.keyword
	})
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.keyword
	}
	return Match{Keywords: out}
}
