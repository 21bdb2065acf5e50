// Package cli provides CLI utilities for emosuggest.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/emosuggest/internal/keyword"
	"github.com/hyperjump/emosuggest/internal/models"
)

// OutputFormat is the format for recommendation output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one line: the choices separated by spaces.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat maps a flag value to a format, defaulting to text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", OutputText:
		return OutputText, nil
	case OutputCompact, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, compact or json)", s)
	}
}

// WriteRecommendation writes rec to w in the given format.
func WriteRecommendation(w io.Writer, rec *models.Recommendation, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			*models.Recommendation
			Choices []string `json:"choices"`
		}{rec, rec.Choices()})
	case OutputCompact:
		_, err := fmt.Fprintln(w, strings.Join(rec.Choices(), " "))
		return err
	default:
		writeRecommendationText(w, rec)
		return nil
	}
}

func writeRecommendationText(w io.Writer, rec *models.Recommendation) {
	fmt.Fprintf(w, "\n%s\n", keyword.Highlight(highlightBase(rec), rec.Keywords))
	fmt.Fprintf(w, "Matched: %s\n", rec.Trace)
	fmt.Fprintln(w, "─────────────────────────────────────────────────────────")
	if len(rec.Candidates) == 0 {
		fmt.Fprintln(w, "No emoji found for the matched words.")
	}
	for i, c := range rec.Candidates {
		fmt.Fprintf(w, "%2d. %s  %.2f\n", i+1, c.Emoji, c.Score)
	}
	fmt.Fprintf(w, " 0. %s\n", models.None)
}

// highlightBase returns the text keywords are marked in. Keywords matched on the NFKC form of
// the input are not found in the raw text, so the normalized text is used instead.
func highlightBase(rec *models.Recommendation) string {
	for _, kw := range rec.Keywords {
		if !strings.Contains(rec.Text, kw) {
			return keyword.Normalize(rec.Text)
		}
	}
	return rec.Text
}

// WriteChoices prints the numbered choices of a recommendation for the interactive chat.
func WriteChoices(w io.Writer, rec *models.Recommendation) {
	if rec == nil {
		return
	}
	fmt.Fprintf(w, "Matched: %s\n", rec.Trace)
	for i, id := range rec.CandidateIDs() {
		fmt.Fprintf(w, "  [%d] %s", i+1, id)
	}
	fmt.Fprintf(w, "  [0] %s\n", models.None)
}

// ChoiceAt maps a chat selection to a candidate: "0" is None, "1".."n" index the ranked
// candidates. ok is false for anything else.
func ChoiceAt(rec *models.Recommendation, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" || rec == nil {
		return "", false
	}
	n := 0
	for _, r := range input {
		if r < '0' || r > '9' {
			return "", false
		}
		n = n*10 + int(r-'0')
		if n > len(rec.Candidates) {
			return "", false
		}
	}
	if n == 0 {
		return models.None, true
	}
	return rec.Candidates[n-1].Emoji, true
}

// WriteStatus writes a status summary.
func WriteStatus(w io.Writer, st models.Status) {
	fmt.Fprintf(w, "Backend:     %s\n", st.Backend)
	fmt.Fprintf(w, "Categories:  %d of %d loaded\n", st.Categories, st.ConfiguredCategories)
	fmt.Fprintf(w, "Vocabulary:  %d keywords\n", st.VocabularySize)
	if len(st.Missing) > 0 {
		fmt.Fprintf(w, "Missing:     %s\n", strings.Join(st.Missing, " "))
	}
	if len(st.Failed) > 0 {
		fmt.Fprintf(w, "Failed:      %s\n", strings.Join(st.Failed, " "))
	}
	if st.Retries > 0 {
		fmt.Fprintf(w, "Retries:     %d\n", st.Retries)
	}
	if st.DiskUsageBytes > 0 {
		fmt.Fprintf(w, "Disk usage:  %s\n", FormatBytes(st.DiskUsageBytes))
	}
}

// FormatBytes renders n with a binary unit suffix.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
