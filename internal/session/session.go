// Package session implements the interaction state machine: search, accept and the text buffer
// that accepted emoji are appended to.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hyperjump/emosuggest/internal/feedback"
	"github.com/hyperjump/emosuggest/internal/models"
	"github.com/hyperjump/emosuggest/pkg/utils"
	"go.uber.org/zap"
)

// State is the interaction state.
type State string

const (
	// StateIdle holds no candidates.
	StateIdle State = "idle"
	// StateResults holds the candidates of the last search.
	StateResults State = "results"
)

// Level classifies an Outcome.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// User-visible messages.
const (
	MsgEmptyText     = "文章を入力してください。"
	MsgNoCandidates  = "※ 単語から推測できる絵文字が見つかりませんでした。"
	MsgNoResults     = "先に絵文字を検索してください。"
	msgAccepted      = "✅ 「%s」を選択・記録しました！"
	msgSaveError     = "保存エラー: %v"
	msgUnknownChoice = "「%s」は現在の候補にありません。"
)

// Outcome is the message shown to the user after a turn.
type Outcome struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Recommender produces recommendations. *search.Engine implements it.
type Recommender interface {
	Recommend(text string) *models.Recommendation
}

// Snapshot is a copy of a session's visible state.
type Snapshot struct {
	ID             string                 `json:"id"`
	State          State                  `json:"state"`
	Text           string                 `json:"text"`
	Recommendation *models.Recommendation `json:"recommendation,omitempty"`
	Choices        []string               `json:"choices,omitempty"`
	Outcome        *Outcome               `json:"outcome,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// Session is one user's interaction. Turns are serialized by a mutex.
type Session struct {
	mu sync.Mutex

	id            string
	recommender   Recommender
	sink          feedback.Sink
	clearOnAccept bool
	now           func() time.Time
	logger        *zap.Logger

	state   State
	text    string
	rec     *models.Recommendation
	outcome *Outcome
	created time.Time
	updated time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the time source used for log timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithClearOnAccept controls whether a successful accept drops the held candidates.
func WithClearOnAccept(on bool) Option {
	return func(s *Session) { s.clearOnAccept = on }
}

// WithLogger sets a logger for turns.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithID sets the session id.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// New returns an idle session.
func New(recommender Recommender, sink feedback.Sink, opts ...Option) *Session {
	s := &Session{
		recommender:   recommender,
		sink:          sink,
		clearOnAccept: true,
		now:           time.Now,
		state:         StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.created = s.now()
	s.updated = s.created
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Search recommends emoji for text and holds the result. Blank text leaves the session
// unchanged apart from a warning.
func (s *Session) Search(text string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		s.outcome = &Outcome{Level: LevelWarning, Message: MsgEmptyText}
		return s.snapshotLocked()
	}
	s.text = text
	s.rec = s.recommender.Recommend(text)
	s.state = StateResults
	s.outcome = nil
	if len(s.rec.Candidates) == 0 {
		s.outcome = &Outcome{Level: LevelInfo, Message: MsgNoCandidates}
	}
	s.updated = s.now()
	s.logger.Debug("session search",
		zap.String("session", s.id),
		zap.String("text", utils.Truncate(text, 40)),
		zap.String("trace", s.rec.Trace),
		zap.Int("candidates", len(s.rec.Candidates)))
	return s.snapshotLocked()
}

// Accept records candidate (a held candidate or models.None) in the log. On success a real
// candidate is appended to the text; on failure the session is left as it was.
func (s *Session) Accept(ctx context.Context, candidate string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateResults || s.rec == nil {
		s.outcome = &Outcome{Level: LevelWarning, Message: MsgNoResults}
		return s.snapshotLocked()
	}
	if candidate != models.None && !s.rec.Has(candidate) {
		s.outcome = &Outcome{Level: LevelWarning, Message: fmt.Sprintf(msgUnknownChoice, candidate)}
		return s.snapshotLocked()
	}

	rec := models.LogRecord{
		Timestamp:  s.now(),
		InputText:  s.text,
		Candidates: s.rec.CandidateIDs(),
		Trace:      s.rec.Trace,
		Accepted:   candidate,
	}
	if err := s.sink.Append(ctx, rec); err != nil {
		s.logger.Warn("log write failed", zap.String("session", s.id), zap.Error(err))
		s.outcome = &Outcome{Level: LevelError, Message: fmt.Sprintf(msgSaveError, err)}
		return s.snapshotLocked()
	}

	if candidate != models.None {
		s.text += candidate
	}
	if s.clearOnAccept {
		s.rec = nil
		s.state = StateIdle
	}
	s.outcome = &Outcome{Level: LevelSuccess, Message: fmt.Sprintf(msgAccepted, candidate)}
	s.updated = s.now()
	s.logger.Debug("session accept", zap.String("session", s.id), zap.String("candidate", candidate))
	return s.snapshotLocked()
}

// SetText replaces the text buffer, as when the user edits it. Held candidates are kept.
func (s *Session) SetText(text string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.updated = s.now()
	return s.snapshotLocked()
}

// Text returns the text buffer.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a copy of the session's visible state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:        s.id,
		State:     s.state,
		Text:      s.text,
		CreatedAt: s.created,
		UpdatedAt: s.updated,
	}
	if s.rec != nil {
		rec := *s.rec
		rec.Candidates = append([]models.Candidate(nil), s.rec.Candidates...)
		rec.Keywords = append([]string(nil), s.rec.Keywords...)
		snap.Recommendation = &rec
		snap.Choices = rec.Choices()
	}
	if s.outcome != nil {
		o := *s.outcome
		snap.Outcome = &o
	}
	return snap
}
