package search

import (
	"reflect"
	"testing"

	"github.com/hyperjump/emosuggest/internal/config"
	"github.com/hyperjump/emosuggest/internal/keyword"
	"github.com/hyperjump/emosuggest/internal/models"
	"github.com/hyperjump/emosuggest/internal/ranking"
	"github.com/hyperjump/emosuggest/internal/table"
)

func fixtureTable() *table.Table {
	order := []string{"😊", "😂", "😭", "😸"}
	return table.New(order, []table.Category{
		table.NewCategory("😊", map[string]float64{"楽しい": 0.9, "幸せ": 0.7}),
		table.NewCategory("😂", map[string]float64{"楽しい": 0.4, "笑う": 0.9}),
		table.NewCategory("😭", map[string]float64{"涙": 0.8}),
		table.NewCategory("😸", map[string]float64{"猫": 0.9, "幸せ": 0.2}),
	})
}

func TestEngine_Recommend(t *testing.T) {
	e := NewEngine(fixtureTable(), nil, nil)

	rec := e.Recommend("今日は楽しい")
	if got := rec.CandidateIDs(); !reflect.DeepEqual(got, []string{"😊", "😂"}) {
		t.Errorf("candidates = %v", got)
	}
	if rec.Trace != "楽しい" || rec.Text != "今日は楽しい" {
		t.Errorf("rec = %+v", rec)
	}
	if ch := rec.Choices(); ch[len(ch)-1] != models.None {
		t.Errorf("choices = %v", ch)
	}

	rec = e.Recommend("猫が可愛くて最高に幸せ")
	if rec.Trace != "猫, 幸せ" {
		t.Errorf("trace = %q", rec.Trace)
	}
	// 😸 = 0.9 + 0.2, 😊 = 0.7
	if got := rec.CandidateIDs(); !reflect.DeepEqual(got, []string{"😸", "😊"}) {
		t.Errorf("candidates = %v", got)
	}
}

func TestEngine_RecommendNoMatch(t *testing.T) {
	tests := []struct {
		name string
		e    *Engine
		text string
	}{
		{"no keywords", NewEngine(fixtureTable(), nil, nil), "晴れ"},
		{"empty text", NewEngine(fixtureTable(), nil, nil), ""},
		{"empty table", NewEngine(table.New(nil, nil), nil, nil), "楽しい"},
		{"nil table", NewEngine(nil, nil, nil), "楽しい"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.e.Recommend(tt.text)
			if len(rec.Candidates) != 0 || rec.Candidates == nil {
				t.Errorf("candidates = %#v", rec.Candidates)
			}
			if rec.Trace != models.None {
				t.Errorf("trace = %q", rec.Trace)
			}
			if ch := rec.Choices(); len(ch) != 1 || ch[0] != models.None {
				t.Errorf("choices = %v", ch)
			}
		})
	}
}

func TestEngine_Deterministic(t *testing.T) {
	e := NewEngine(fixtureTable(), nil, ranking.WeightedRanker{TopK: 2, TieExtension: true})
	first := e.Recommend("楽しい幸せな猫が笑う")
	for i := 0; i < 20; i++ {
		if got := e.Recommend("楽しい幸せな猫が笑う"); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestEngine_Normalization(t *testing.T) {
	tbl := table.New([]string{"🆗"}, []table.Category{table.NewCategory("🆗", map[string]float64{"OK": 1})})
	if rec := NewEngine(tbl, nil, nil).Recommend("ＯＫです"); len(rec.Candidates) != 0 {
		t.Errorf("without normalization full-width must not match: %v", rec.CandidateIDs())
	}
	rec := NewEngine(tbl, nil, nil, WithNormalization(true)).Recommend("ＯＫです")
	if got := rec.CandidateIDs(); !reflect.DeepEqual(got, []string{"🆗"}) {
		t.Errorf("candidates = %v", got)
	}
	if rec.Text != "ＯＫです" {
		t.Errorf("Text must be the original input, got %q", rec.Text)
	}
}

func TestEngine_NormalizationAppliesToKeywords(t *testing.T) {
	tbl := table.New([]string{"🆗", "😊"}, []table.Category{
		table.NewCategory("🆗", map[string]float64{"ＯＫ": 0.8}),
		table.NewCategory("😊", map[string]float64{"ｽﾏｲﾙ": 0.5}),
	})
	e := NewEngine(tbl, nil, nil, WithNormalization(true))
	for text, want := range map[string]string{"OKです": "🆗", "ＯＫです": "🆗", "スマイル": "😊"} {
		if got := e.Recommend(text).CandidateIDs(); !reflect.DeepEqual(got, []string{want}) {
			t.Errorf("Recommend(%q) = %v, want [%s]", text, got, want)
		}
	}
	if !e.Table().Contains("OK") || e.Table().Contains("ＯＫ") {
		t.Errorf("vocabulary not normalized: %v", e.Table().Vocabulary())
	}

	cfg := &config.RecommendConfig{ExtractionStrategy: config.StrategySubstring, NormalizeInput: true, TopK: 5}
	fromCfg, err := NewEngineFromConfig(tbl, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := fromCfg.Recommend("OKです").CandidateIDs(); !reflect.DeepEqual(got, []string{"🆗"}) {
		t.Errorf("config engine candidates = %v", got)
	}
}

func TestNewEngineFromConfig(t *testing.T) {
	f := false
	cfg := &config.RecommendConfig{
		ExtractionStrategy: config.StrategySubstring,
		Weighted:           &f,
	}
	e, err := NewEngineFromConfig(fixtureTable(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := e.ranker.(ranking.OrderRanker); !ok {
		t.Errorf("ranker = %T", e.ranker)
	}
	if _, ok := e.extractor.(*keyword.SubstringExtractor); !ok {
		t.Errorf("extractor = %T", e.extractor)
	}
	rec := e.Recommend("楽しいと笑う")
	if got := rec.CandidateIDs(); !reflect.DeepEqual(got, []string{"😊", "😂"}) {
		t.Errorf("candidates = %v", got)
	}

	cfg = &config.RecommendConfig{
		ExtractionStrategy: config.StrategyTokenizer,
		Tokenizer:          config.TokenizerBleve,
		BleveAnalyzer:      "standard",
		TopK:               5,
	}
	e, err = NewEngineFromConfig(fixtureTable(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := e.extractor.(*keyword.TokenizerExtractor); !ok {
		t.Errorf("extractor = %T", e.extractor)
	}

	cfg.Tokenizer = "unknown"
	if _, err := NewEngineFromConfig(fixtureTable(), cfg); err == nil {
		t.Error("expected error for unknown tokenizer")
	}
}

func TestNewTokenizer_cache(t *testing.T) {
	cfg := &config.RecommendConfig{Tokenizer: config.TokenizerBleve, BleveAnalyzer: "standard", TokenCacheSize: 16}
	tok, err := NewTokenizer(cfg)
	if err != nil {
		t.Fatal(err)
	}
	cached, ok := tok.(*keyword.CachedTokenizer)
	if !ok {
		t.Fatalf("tokenizer = %T, want *keyword.CachedTokenizer", tok)
	}
	tok.Tokenize("happy cats")
	tok.Tokenize("happy cats")
	if hits, _ := cached.Stats(); hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}

	cfg.TokenCacheSize = -1
	tok, err = NewTokenizer(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tok.(*keyword.BleveTokenizer); !ok {
		t.Errorf("tokenizer = %T, want uncached *keyword.BleveTokenizer", tok)
	}
}
