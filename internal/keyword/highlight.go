package keyword

import (
	"strings"
	"unicode/utf8"
)

// Highlight wraps every occurrence of the given keywords in brackets. Where keywords overlap,
// the longest match at the leftmost position wins.
func Highlight(text string, keywords []string) string {
	if len(keywords) == 0 || text == "" {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); {
		best := ""
		for _, kw := range keywords {
			if len(kw) > len(best) && strings.HasPrefix(text[i:], kw) {
				best = kw
			}
		}
		if best != "" {
			b.WriteByte('[')
			b.WriteString(best)
			b.WriteByte(']')
			i += len(best)
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		b.WriteString(text[i : i+size])
		i += size
	}
	return b.String()
}
