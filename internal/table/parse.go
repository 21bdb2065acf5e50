package table

import (
	"math"
	"strconv"
	"strings"
)

// weightReplacer strips percent signs, thousands separators and embedded spaces.
var weightReplacer = strings.NewReplacer("%", "", "％", "", ",", "", " ", "")

// ParseWeight converts a percentage cell such as "85%" into a fraction (0.85).
// Empty, unparsable, non-finite or non-positive input yields 0.
func ParseWeight(s string) float64 {
	s = weightReplacer.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v / 100
}

// ParseKeyword trims surrounding whitespace (including full-width spaces) from a keyword cell.
func ParseKeyword(s string) string {
	return strings.TrimSpace(s)
}

// HasPercentHeader reports whether rows[0] is a header row: its second cell contains a percent sign.
func HasPercentHeader(rows [][]string) bool {
	if len(rows) == 0 || len(rows[0]) < 2 {
		return false
	}
	return strings.ContainsAny(rows[0][1], "%％")
}

// Builder accumulates keyword rows for one category.
type Builder struct {
	id       string
	weighted bool
	weights  map[string]float64
}

// KeywordColumns are the keyword column indexes of the three part-of-speech slots;
// each slot's weight is in the following column.
var KeywordColumns = []int{0, 2, 4}

// NewBuilder returns a builder for category id. When weighted is false every non-empty
// keyword is stored with weight 1 regardless of its weight column.
func NewBuilder(id string, weighted bool) *Builder {
	return &Builder{id: id, weighted: weighted, weights: make(map[string]float64)}
}

// AddRows adds all rows, skipping row 0 when it is a percent header.
func (b *Builder) AddRows(rows [][]string) {
	start := 0
	if HasPercentHeader(rows) {
		start = 1
	}
	for _, row := range rows[start:] {
		b.AddRow(row)
	}
}

// AddRow adds every keyword/weight pair present in row.
func (b *Builder) AddRow(row []string) {
	for _, col := range KeywordColumns {
		if col >= len(row) {
			continue
		}
		kw := ParseKeyword(row[col])
		if kw == "" {
			continue
		}
		if !b.weighted {
			b.weights[kw] = 1
			continue
		}
		var w float64
		if col+1 < len(row) {
			w = ParseWeight(row[col+1])
		}
		if w <= 0 {
			continue
		}
		if w > b.weights[kw] {
			b.weights[kw] = w
		}
	}
}

// Len returns the number of keywords collected so far.
func (b *Builder) Len() int {
	return len(b.weights)
}

// Category returns the accumulated category.
func (b *Builder) Category() Category {
	return NewCategory(b.id, b.weights)
}
