package table

import (
	"math"
	"sort"
	"testing"
)

func TestParseWeight(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"85%", 0.85},
		{"100%", 1},
		{" 12.5% ", 0.125},
		{"1,000%", 10},
		{"42", 0.42},
		{"0%", 0},
		{"", 0},
		{"abc", 0},
		{"-5%", 0},
		{"NaN", 0},
		{"%", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseWeight(tt.in)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("ParseWeight(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHasPercentHeader(t *testing.T) {
	if !HasPercentHeader([][]string{{"名詞", "割合%"}}) {
		t.Error("second cell with % should be a header")
	}
	if HasPercentHeader([][]string{{"猫", "85"}}) {
		t.Error("no percent sign: row 0 is data")
	}
	if HasPercentHeader([][]string{{"猫"}}) {
		t.Error("single cell row is data")
	}
	if HasPercentHeader(nil) {
		t.Error("empty rows have no header")
	}
}

func TestBuilder_weighted(t *testing.T) {
	b := NewBuilder("😊", true)
	b.AddRows([][]string{
		{"名詞", "%", "動詞", "%", "形容詞", "%"},
		{" 猫 ", "85%", "笑う", "40%", "楽しい", "0%"},
		{"犬", "abc", "", "10%", "嬉しい", "30%"},
		{"猫", "20%"},
	})
	c := b.Category()
	want := map[string]float64{"猫": 0.85, "笑う": 0.4, "嬉しい": 0.3}
	if len(c.Weights) != len(want) {
		t.Fatalf("weights = %v, want %v", c.Weights, want)
	}
	for kw, w := range want {
		if math.Abs(c.Weights[kw]-w) > 1e-12 {
			t.Errorf("weight[%s] = %v, want %v", kw, c.Weights[kw], w)
		}
	}
	if c.Has("楽しい") || c.Has("犬") {
		t.Error("zero and unparsable weights must not be stored")
	}
}

func TestBuilder_rowZeroIsDataWithoutPercentHeader(t *testing.T) {
	b := NewBuilder("😊", true)
	b.AddRows([][]string{{"猫", "50"}, {"犬", "25"}})
	if !b.Category().Has("猫") {
		t.Error("row 0 should be treated as data")
	}
}

func TestBuilder_unweighted(t *testing.T) {
	b := NewBuilder("😂", false)
	b.AddRows([][]string{
		{"word", "rate%"},
		{"草", "", "笑う", "0%", "", ""},
		{"  "},
	})
	c := b.Category()
	if len(c.Weights) != 2 || c.Weights["草"] != 1 || c.Weights["笑う"] != 1 {
		t.Errorf("unweighted keywords = %v", c.Weights)
	}
}

func TestNewCategory_validatesRange(t *testing.T) {
	c := NewCategory("x", map[string]float64{"a": 0, "b": -1, "c": math.NaN(), "d": 2, "e": 0.5, "": 1})
	if len(c.Weights) != 2 {
		t.Fatalf("weights = %v", c.Weights)
	}
	if c.Weights["d"] != 1 {
		t.Errorf("clamped weight = %v, want 1", c.Weights["d"])
	}
}

func TestTable(t *testing.T) {
	order := []string{"😀", "😁", "😂"}
	tbl := New(order, []Category{
		NewCategory("😂", map[string]float64{"草": 0.9, "笑": 0.5}),
		NewCategory("😀", map[string]float64{"笑": 0.3}),
		NewCategory("🙃", map[string]float64{"逆": 1}),
	})

	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	cats := tbl.Categories()
	if cats[0].ID != "😀" || cats[1].ID != "😂" {
		t.Errorf("categories not in list order: %v, %v", cats[0].ID, cats[1].ID)
	}
	if tbl.Position("😂") != 2 || tbl.Position("🙃") != -1 {
		t.Errorf("positions: %d %d", tbl.Position("😂"), tbl.Position("🙃"))
	}
	if tbl.Weight("😂", "草") != 0.9 || tbl.Weight("😁", "草") != 0 {
		t.Error("unexpected weights")
	}

	vocab := tbl.Vocabulary()
	sort.Strings(vocab)
	if len(vocab) != 2 || vocab[0] != "笑" || vocab[1] != "草" {
		t.Errorf("vocabulary = %v", vocab)
	}
	if !tbl.Contains("草") || tbl.Contains("逆") {
		t.Error("vocabulary must be the union of loaded category keywords")
	}
}

func TestTable_nilAndEmpty(t *testing.T) {
	var tbl *Table
	if tbl.Len() != 0 || tbl.Contains("x") || tbl.Position("x") != -1 || tbl.VocabularySize() != 0 {
		t.Error("nil table should behave as empty")
	}
	empty := New(nil, nil)
	if empty.Len() != 0 || len(empty.Vocabulary()) != 0 {
		t.Error("empty table should have no categories")
	}
}

func TestTable_MapKeywords(t *testing.T) {
	order := []string{"😊", "😂"}
	tbl := New(order, []Category{
		NewCategory("😊", map[string]float64{"ＯＫ": 0.4, "OK": 0.7, "猫": 0.2}),
		NewCategory("😂", map[string]float64{"笑う": 0.9}),
	})
	mapped := tbl.MapKeywords(func(s string) string {
		if s == "ＯＫ" {
			return "OK"
		}
		return s
	})
	if got := mapped.Weight("😊", "OK"); got != 0.7 {
		t.Errorf("merged weight = %v, want larger 0.7", got)
	}
	if mapped.Contains("ＯＫ") || mapped.VocabularySize() != 3 {
		t.Errorf("vocabulary = %v", mapped.Vocabulary())
	}
	if mapped.Position("😂") != 1 || mapped.Weight("😂", "笑う") != 0.9 {
		t.Error("order and untouched categories must be kept")
	}
	if tbl.Weight("😊", "ＯＫ") != 0.4 {
		t.Error("source table must not be modified")
	}
	if same := mapped.MapKeywords(func(s string) string { return s }); same != mapped {
		t.Error("identity mapping should return the same table")
	}
}
