package models

import (
	"errors"
	"strings"
)

// ErrEmptyText is returned when a request carries no text to match.
var ErrEmptyText = errors.New("text cannot be empty")

// RecommendRequest is a stateless recommendation request.
type RecommendRequest struct {
	Text string `json:"text"`
}

// Validate trims the text and rejects blank input.
func (q *RecommendRequest) Validate() error {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return ErrEmptyText
	}
	return nil
}

// AcceptRequest selects a candidate (or None) of a session's current recommendation.
type AcceptRequest struct {
	Candidate string `json:"candidate"`
}

// Validate rejects an empty candidate.
func (q *AcceptRequest) Validate() error {
	q.Candidate = strings.TrimSpace(q.Candidate)
	if q.Candidate == "" {
		return errors.New("candidate cannot be empty")
	}
	return nil
}

// TextRequest replaces a session's text buffer.
type TextRequest struct {
	Text string `json:"text"`
}
