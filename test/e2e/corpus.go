// Package e2e provides end-to-end tests over a generated training workbook and a set of
// texts with known expected emoji.
package e2e

import (
	"strings"
)

// SheetHeader is the percent header row written at the top of every category sheet.
var SheetHeader = []string{"名詞", "%", "動詞", "%", "形容詞", "%"}

// SharedKeyword is associated with every category at a low weight, so a text containing only
// it ties all categories and the category order decides.
const SharedKeyword = "気分"

// CategoryRows is one category sheet: the emoji id and its rows without the header.
type CategoryRows struct {
	Emoji string
	Rows  [][]string
}

// QueryTestCase is a text and the emoji that must be ranked first for it.
type QueryTestCase struct {
	Text        string
	ExpectedTop string
	Description string
}

// Corpus holds the category sheets and the query cases.
type Corpus struct {
	Categories []CategoryRows
	TestCases  []QueryTestCase
}

type topic struct {
	emoji, noun, verb, adjective string
	text                         string
}

// Signature words are chosen so none is a substring of another.
var topics = []topic{
	{"😀", "誕生日", "祝う", "嬉しい", "明日は誕生日です"},
	{"😂", "漫才", "笑う", "面白い", "漫才を見た"},
	{"😍", "恋人", "惚れる", "愛しい", "恋人に会いたい"},
	{"😭", "涙", "泣く", "悲しい", "涙が止まらない"},
	{"😡", "喧嘩", "怒る", "腹立たしい", "また喧嘩した"},
	{"😱", "幽霊", "驚く", "怖い", "幽霊を見た"},
	{"😴", "布団", "眠る", "眠い", "布団から出られない"},
	{"😋", "ラーメン", "食べる", "美味しい", "ラーメン屋に行った"},
	{"🤒", "風邪", "寝込む", "辛い", "風邪をひいた"},
	{"😎", "夏休み", "泳ぐ", "眩しい", "夏休みの宿題"},
	{"🥶", "雪", "凍える", "寒い", "雪が積もった"},
	{"🤔", "問題", "考える", "難しい", "この問題は解けない"},
}

// BuildCorpus returns one category per topic plus one query case per topic and a few
// multi-keyword cases.
func BuildCorpus() *Corpus {
	c := &Corpus{}
	for _, tp := range topics {
		c.Categories = append(c.Categories, CategoryRows{
			Emoji: tp.emoji,
			Rows: [][]string{
				{tp.noun, "90", tp.verb, "70", tp.adjective, "80"},
				{SharedKeyword, "10", "", "", "", ""},
			},
		})
		c.TestCases = append(c.TestCases, QueryTestCase{
			Text:        tp.text,
			ExpectedTop: tp.emoji,
			Description: "signature noun of " + tp.emoji,
		})
	}
	c.TestCases = append(c.TestCases,
		QueryTestCase{Text: "悲しい涙", ExpectedTop: "😭", Description: "two keywords of one category"},
		QueryTestCase{Text: "寒いし眠い気分", ExpectedTop: "😴", Description: "equal scores fall back to category order"},
	)
	return c
}

// Order returns the category ids in corpus order.
func (c *Corpus) Order() []string {
	out := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		out[i] = cat.Emoji
	}
	return out
}

// Sheets returns every category sheet including its header row, keyed by emoji.
func (c *Corpus) Sheets() map[string][][]string {
	out := make(map[string][][]string, len(c.Categories))
	for _, cat := range c.Categories {
		rows := append([][]string{SheetHeader}, cat.Rows...)
		out[cat.Emoji] = rows
	}
	return out
}

func containsKeyword(cat CategoryRows, text string) bool {
	for _, row := range cat.Rows {
		for _, col := range []int{0, 2, 4} {
			if col < len(row) && row[col] != "" && strings.Contains(text, row[col]) {
				return true
			}
		}
	}
	return false
}
