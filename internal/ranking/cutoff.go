package ranking

import "github.com/hyperjump/emosuggest/internal/models"

// Cutoff keeps the first k ranked candidates. k <= 0 keeps all.
func Cutoff(ranked []models.Candidate, k int) []models.Candidate {
	if k <= 0 || len(ranked) <= k {
		return ranked
	}
	return ranked[:k]
}

// CutoffWithTies keeps the first k ranked candidates plus every following candidate whose
// score equals the k-th, so the result may be longer than k. k <= 0 keeps all.
func CutoffWithTies(ranked []models.Candidate, k int) []models.Candidate {
	if k <= 0 || len(ranked) <= k {
		return ranked
	}
	threshold := ranked[k-1].Score
	n := k
	for n < len(ranked) && ranked[n].Score >= threshold {
		n++
	}
	return ranked[:n]
}
