// Package ranking scores the categories of an association table against matched keywords and
// orders them deterministically.
package ranking

import (
	"math"
	"sort"

	"github.com/hyperjump/emosuggest/internal/models"
	"github.com/hyperjump/emosuggest/internal/table"
)

// None is the "none of the above" pseudo-candidate. Rankers never return it.
const None = models.None

// Ranker turns matched keywords into an ordered candidate list without duplicates.
type Ranker interface {
	Rank(t *table.Table, keywords []string) []models.Candidate
}

// WeightedRanker sums keyword weights per category. Candidates are ordered by score descending,
// then by position in the category list, so the order is total.
type WeightedRanker struct {
	TopK         int
	TieExtension bool
}

// Rank implements Ranker. Categories scoring <= 0 are dropped. A keyword that occurs more than
// once in keywords contributes each time.
func (r WeightedRanker) Rank(t *table.Table, keywords []string) []models.Candidate {
	if t == nil || len(keywords) == 0 {
		return nil
	}
	type scored struct {
		models.Candidate
		pos int
	}
	var survivors []scored
	for _, cat := range t.Categories() {
		score := 0.0
		for _, kw := range keywords {
			score += cat.Weights[kw]
		}
		score = roundScore(score)
		if score > 0 {
			survivors = append(survivors, scored{
				Candidate: models.Candidate{Emoji: cat.ID, Score: score},
				pos:       t.Position(cat.ID),
			})
		}
	}
	sort.SliceStable(survivors, func(i, j int) bool {
		if survivors[i].Score != survivors[j].Score {
			return survivors[i].Score > survivors[j].Score
		}
		return survivors[i].pos < survivors[j].pos
	})

	ranked := make([]models.Candidate, len(survivors))
	for i, s := range survivors {
		ranked[i] = s.Candidate
	}
	if r.TieExtension {
		return CutoffWithTies(ranked, r.TopK)
	}
	return Cutoff(ranked, r.TopK)
}

// scorePrecision is the number of decimal places kept in a weighted score. Sheet weights are
// percentages, so sums like 10%+20% and 30% must compare equal.
const scorePrecision = 1e9

func roundScore(s float64) float64 {
	return math.Round(s*scorePrecision) / scorePrecision
}

// OrderRanker ranks without weights: for each keyword in order, the categories containing it
// are taken in category-list order, and a category is listed at its first match only. Score is
// the number of matched keywords the category contains and is informational.
type OrderRanker struct{}

// Rank implements Ranker. No cap is applied.
func (OrderRanker) Rank(t *table.Table, keywords []string) []models.Candidate {
	if t == nil || len(keywords) == 0 {
		return nil
	}
	var out []models.Candidate
	index := make(map[string]int)
	for _, kw := range keywords {
		for _, cat := range t.Categories() {
			if !cat.Has(kw) {
				continue
			}
			if i, seen := index[cat.ID]; seen {
				out[i].Score++
				continue
			}
			index[cat.ID] = len(out)
			out = append(out, models.Candidate{Emoji: cat.ID, Score: 1})
		}
	}
	return out
}
