// Package utils provides shared logging and text helpers.
package utils

// Truncate returns s cut to maxRunes characters, with "..." appended if it was cut.
// Counting is by rune so Japanese text and emoji are never split. If maxRunes is 0 or
// negative, s is returned unchanged.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
