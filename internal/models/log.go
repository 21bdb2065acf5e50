package models

import (
	"strings"
	"time"
)

// TimestampLayout is the local-time, seconds-precision format of logged timestamps.
const TimestampLayout = "2006-01-02T15:04:05"

// LogHeader is the header row of the training log sheet.
var LogHeader = []string{"timestamp", "input_text", "candidate_list", "matched_keywords", "accepted_candidate"}

// LogRecord is one accepted (or rejected) suggestion, kept as a training signal.
type LogRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	InputText  string    `json:"input_text"`
	Candidates []string  `json:"candidate_list"`
	Trace      string    `json:"matched_keywords"`
	Accepted   string    `json:"accepted_candidate"`
}

// Row returns the record as a log sheet row, in LogHeader order.
func (r LogRecord) Row() []string {
	return []string{
		r.Timestamp.Local().Format(TimestampLayout),
		r.InputText,
		strings.Join(r.Candidates, ", "),
		r.Trace,
		r.Accepted,
	}
}
