// Package table holds the keyword-to-emoji association table learned from the training sheets.
package table

import (
	"math"
	"sort"
)

// Weights maps a keyword to its association weight. Every stored value is in (0, 1].
type Weights map[string]float64

// Category is one emoji and the keywords associated with it.
type Category struct {
	ID      string
	Weights Weights
}

// NewCategory returns a category whose weights satisfy the (0, 1] range.
// Zero, negative and NaN weights are dropped; values above 1 are clamped to 1.
func NewCategory(id string, weights map[string]float64) Category {
	clean := make(Weights, len(weights))
	for kw, w := range weights {
		if kw == "" || math.IsNaN(w) || w <= 0 {
			continue
		}
		if w > 1 {
			w = 1
		}
		clean[kw] = w
	}
	return Category{ID: id, Weights: clean}
}

// Has reports whether keyword is associated with the category.
func (c Category) Has(keyword string) bool {
	_, ok := c.Weights[keyword]
	return ok
}

// Keywords returns the category keywords in sorted order.
func (c Category) Keywords() []string {
	out := make([]string, 0, len(c.Weights))
	for kw := range c.Weights {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

// Table is the association table. It is read-only after New and safe for concurrent readers.
type Table struct {
	order      []string
	position   map[string]int
	categories []Category
	byID       map[string]int
	vocabulary map[string]struct{}
}

// New builds a table. order is the configured category list and is authoritative for
// tie-breaks; cats may cover any subset of it (categories that failed to load are absent).
// Categories not present in order are ignored. Categories are kept in order-list order.
func New(order []string, cats []Category) *Table {
	t := &Table{
		order:      append([]string(nil), order...),
		position:   make(map[string]int, len(order)),
		byID:       make(map[string]int, len(cats)),
		vocabulary: make(map[string]struct{}),
	}
	for i, id := range order {
		if _, dup := t.position[id]; !dup {
			t.position[id] = i
		}
	}

	loaded := make(map[string]Category, len(cats))
	for _, c := range cats {
		if _, ok := t.position[c.ID]; ok {
			loaded[c.ID] = NewCategory(c.ID, c.Weights)
		}
	}
	for _, id := range order {
		c, ok := loaded[id]
		if !ok {
			continue
		}
		if _, seen := t.byID[id]; seen {
			continue
		}
		t.byID[id] = len(t.categories)
		t.categories = append(t.categories, c)
		for kw := range c.Weights {
			t.vocabulary[kw] = struct{}{}
		}
	}
	return t
}

// MapKeywords returns a table whose keywords are rewritten by fn. Keywords that map to the same
// form keep the larger weight. t itself is returned when fn changes nothing.
func (t *Table) MapKeywords(fn func(string) string) *Table {
	if t == nil {
		return nil
	}
	changed := false
	for kw := range t.vocabulary {
		if fn(kw) != kw {
			changed = true
			break
		}
	}
	if !changed {
		return t
	}
	cats := make([]Category, len(t.categories))
	for i, c := range t.categories {
		w := make(map[string]float64, len(c.Weights))
		for kw, v := range c.Weights {
			mapped := fn(kw)
			if v > w[mapped] {
				w[mapped] = v
			}
		}
		cats[i] = Category{ID: c.ID, Weights: w}
	}
	return New(t.order, cats)
}

// Categories returns the loaded categories in category-list order.
// The returned slice must not be modified.
func (t *Table) Categories() []Category {
	if t == nil {
		return nil
	}
	return t.categories
}

// Category returns the category with the given id.
func (t *Table) Category(id string) (Category, bool) {
	if t == nil {
		return Category{}, false
	}
	i, ok := t.byID[id]
	if !ok {
		return Category{}, false
	}
	return t.categories[i], true
}

// Position returns the index of id in the configured category list, or -1.
func (t *Table) Position(id string) int {
	if t == nil {
		return -1
	}
	if p, ok := t.position[id]; ok {
		return p
	}
	return -1
}

// Weight returns the weight of keyword in category id, 0 when absent.
func (t *Table) Weight(id, keyword string) float64 {
	c, ok := t.Category(id)
	if !ok {
		return 0
	}
	return c.Weights[keyword]
}

// Contains reports whether keyword is in the vocabulary.
func (t *Table) Contains(keyword string) bool {
	if t == nil {
		return false
	}
	_, ok := t.vocabulary[keyword]
	return ok
}

// Vocabulary returns all keywords across all categories, in no particular order.
func (t *Table) Vocabulary() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.vocabulary))
	for kw := range t.vocabulary {
		out = append(out, kw)
	}
	return out
}

// Order returns the configured category list.
func (t *Table) Order() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

// Len returns the number of loaded categories.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.categories)
}

// VocabularySize returns the number of distinct keywords.
func (t *Table) VocabularySize() int {
	if t == nil {
		return 0
	}
	return len(t.vocabulary)
}
