package models

import (
	"errors"
	"testing"
	"time"
)

func TestRecommendRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		req      *RecommendRequest
		wantErr  bool
		wantText string
	}{
		{"empty", &RecommendRequest{Text: ""}, true, ""},
		{"whitespace only", &RecommendRequest{Text: " \t　"}, true, ""},
		{"trims", &RecommendRequest{Text: "  今日は楽しい "}, false, "今日は楽しい"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrEmptyText) {
				t.Errorf("error = %v, want ErrEmptyText", err)
			}
			if !tt.wantErr && tt.req.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", tt.req.Text, tt.wantText)
			}
		})
	}
}

func TestAcceptRequest_Validate(t *testing.T) {
	if err := (&AcceptRequest{Candidate: " "}).Validate(); err == nil {
		t.Error("expected error for blank candidate")
	}
	if err := (&AcceptRequest{Candidate: None}).Validate(); err != nil {
		t.Errorf("None must be accepted: %v", err)
	}
}

func TestRecommendation(t *testing.T) {
	var empty *Recommendation
	if ids := empty.CandidateIDs(); len(ids) != 0 {
		t.Errorf("nil CandidateIDs = %v", ids)
	}
	if ch := empty.Choices(); len(ch) != 1 || ch[0] != None {
		t.Errorf("nil Choices = %v", ch)
	}

	rec := &Recommendation{Candidates: []Candidate{{"😊", 1.2}, {"😂", 0.5}}}
	ch := rec.Choices()
	if len(ch) != 3 || ch[0] != "😊" || ch[2] != None {
		t.Errorf("Choices = %v", ch)
	}
	if !rec.Has("😂") || rec.Has(None) {
		t.Error("Has must report ranked candidates only")
	}
}

func TestTrace(t *testing.T) {
	if got := Trace(nil); got != None {
		t.Errorf("Trace(nil) = %q", got)
	}
	if got := Trace([]string{"猫", "幸せ"}); got != "猫, 幸せ" {
		t.Errorf("Trace = %q", got)
	}
}

func TestLogRecord_Row(t *testing.T) {
	ts := time.Date(2024, 3, 9, 7, 5, 3, 999, time.Local)
	row := LogRecord{
		Timestamp:  ts,
		InputText:  "今日は楽しい",
		Candidates: []string{"😊", "😂"},
		Trace:      "楽しい",
		Accepted:   "😊",
	}.Row()
	want := []string{"2024-03-09T07:05:03", "今日は楽しい", "😊, 😂", "楽しい", "😊"}
	if len(row) != len(LogHeader) {
		t.Fatalf("row has %d cells, header %d", len(row), len(LogHeader))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("cell %d = %q, want %q", i, row[i], want[i])
		}
	}
}
