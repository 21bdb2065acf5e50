package keyword

import (
	"reflect"
	"testing"

	"github.com/hyperjump/emosuggest/internal/models"
	"github.com/hyperjump/emosuggest/internal/table"
)

func vocabTable(keywords ...string) *table.Table {
	w := make(map[string]float64, len(keywords))
	for _, k := range keywords {
		w[k] = 1
	}
	return table.New([]string{"😊"}, []table.Category{table.NewCategory("😊", w)})
}

func TestSubstringExtractor(t *testing.T) {
	tests := []struct {
		name  string
		vocab []string
		text  string
		want  []string
		trace string
	}{
		{"ordered by first index", []string{"幸せ", "猫"}, "猫が可愛くて最高に幸せ", []string{"猫", "幸せ"}, "猫, 幸せ"},
		{"reported once", []string{"猫"}, "猫と猫", []string{"猫"}, "猫"},
		{"no match", []string{"猫"}, "犬が好き", nil, models.None},
		{"empty text", []string{"猫"}, "", nil, models.None},
		{"shared start longest first", []string{"猫", "猫が"}, "猫が好き", []string{"猫が", "猫"}, "猫が, 猫"},
		{"later keyword", []string{"好き", "犬"}, "犬が好き", []string{"犬", "好き"}, "犬, 好き"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewSubstringExtractor(vocabTable(tt.vocab...)).Extract(tt.text)
			if len(m.Keywords) != len(tt.want) || (len(tt.want) > 0 && !reflect.DeepEqual(m.Keywords, tt.want)) {
				t.Errorf("Keywords = %v, want %v", m.Keywords, tt.want)
			}
			if m.Trace() != tt.trace {
				t.Errorf("Trace = %q, want %q", m.Trace(), tt.trace)
			}
		})
	}
}

func TestSubstringExtractor_deterministic(t *testing.T) {
	ex := NewSubstringExtractor(vocabTable("a", "b", "c", "d", "e", "f", "g", "h"))
	first := ex.Extract("hgfedcba")
	for i := 0; i < 20; i++ {
		if got := ex.Extract("hgfedcba"); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: %v != %v", i, got, first)
		}
	}
	if first.Trace() != "h, g, f, e, d, c, b, a" {
		t.Errorf("Trace = %q", first.Trace())
	}
}

func TestSubstringExtractor_nilVocabulary(t *testing.T) {
	var tbl *table.Table
	if m := NewSubstringExtractor(tbl).Extract("猫"); len(m.Keywords) != 0 {
		t.Errorf("got %v", m.Keywords)
	}
}

// fakeTokenizer splits on spaces and maps surfaces to base forms.
type fakeTokenizer map[string]string

func (f fakeTokenizer) Tokenize(text string) []Token {
	var out []Token
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == ' ' {
			if i > start {
				s := text[start:i]
				base := s
				if b, ok := f[s]; ok {
					base = b
				}
				out = append(out, Token{Surface: s, Base: base})
			}
			start = i + 1
		}
	}
	return out
}

func TestTokenizerExtractor(t *testing.T) {
	tok := fakeTokenizer{"笑った": "笑う", "可愛く": "可愛い"}
	ex := NewTokenizerExtractor(tok, vocabTable("笑う", "可愛い", "猫"))

	m := ex.Extract("猫 が 可愛く て 笑った 猫")
	want := []string{"猫", "可愛い", "笑う", "猫"}
	if !reflect.DeepEqual(m.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", m.Keywords, want)
	}
	if m.Trace() != "猫, 可愛い, 笑う, 猫" {
		t.Errorf("Trace = %q", m.Trace())
	}

	if m := ex.Extract("   "); len(m.Keywords) != 0 || m.Trace() != models.None {
		t.Errorf("blank input: %+v", m)
	}
	if m := NewTokenizerExtractor(nil, nil).Extract("猫"); len(m.Keywords) != 0 {
		t.Errorf("nil tokenizer: %+v", m)
	}
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		text string
		kws  []string
		want string
	}{
		{"猫が可愛くて最高に幸せ", []string{"猫", "幸せ"}, "[猫]が可愛くて最高に[幸せ]"},
		{"猫が好き", []string{"猫", "猫が"}, "[猫が]好き"},
		{"猫と猫", []string{"猫"}, "[猫]と[猫]"},
		{"no match", nil, "no match"},
	}
	for _, tt := range tests {
		if got := Highlight(tt.text, tt.kws); got != tt.want {
			t.Errorf("Highlight(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ＡＢＣ１２３", "ABC123"},
		{"ｶﾀｶﾅ", "カタカナ"},
		{"猫", "猫"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
