package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/emosuggest/internal/config"
	"github.com/hyperjump/emosuggest/internal/models"
	"github.com/hyperjump/emosuggest/internal/session"
	"github.com/hyperjump/emosuggest/internal/storage"
	"github.com/hyperjump/emosuggest/pkg/utils"
	"go.uber.org/zap"
)

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec := s.engine.Recommend(req.Text)
	s.logger.Debug("recommend request",
		zap.String("text", utils.Truncate(req.Text, 40)),
		zap.String("trace", rec.Trace), zap.Int("candidates", len(rec.Candidates)))
	s.respondJSON(w, http.StatusOK, recommendResponse{Recommendation: rec, Choices: rec.Choices()})
}

type recommendResponse struct {
	*models.Recommendation
	Choices []string `json:"choices"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	s.logger.Debug("session created", zap.String("id", sess.ID()))
	s.respondJSON(w, http.StatusCreated, sess.Snapshot())
}

// session resolves the {id} URL parameter, writing 404 when unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.Delete(id) {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	s.logger.Debug("session deleted", zap.String("id", id))
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSessionSearch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req models.TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondJSON(w, http.StatusOK, sess.Search(req.Text))
}

func (s *Server) handleSessionAccept(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req models.AcceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap := sess.Accept(r.Context(), req.Candidate)
	if snap.Outcome != nil && snap.Outcome.Level == session.LevelError {
		s.logger.Warn("accept failed", zap.String("id", sess.ID()), zap.String("message", snap.Outcome.Message))
	}
	s.respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSessionText(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req models.TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondJSON(w, http.StatusOK, sess.SetText(req.Text))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.status())
}

func (s *Server) status() models.Status {
	st := s.engine.Status()
	st.Sessions = s.sessions.Len()
	if s.source != nil {
		st.Backend = s.source.Describe()
	}
	if s.report != nil {
		st.Missing = s.report.Missing
		st.Failed = s.report.Failed
		st.Retries = s.report.Retries
	}
	if s.config != nil {
		st.Config = ConfigInfo(s.config)
		if paths := SourcePaths(&s.config.Source); len(paths) > 0 {
			if n, err := storage.Footprint(paths...); err == nil {
				st.DiskUsageBytes = n
			} else {
				s.logger.Debug("status: disk usage failed", zap.Error(err))
			}
		}
	}
	return st
}

// ConfigInfo summarizes the recommendation settings for status output.
func ConfigInfo(cfg *config.Config) map[string]interface{} {
	return map[string]interface{}{
		"backend":              cfg.Source.Backend,
		"extraction_strategy":  cfg.Recommend.ExtractionStrategy,
		"tokenizer":            cfg.Recommend.Tokenizer,
		"token_cache_size":     cfg.Recommend.TokenCacheSize,
		"weighted":             cfg.Recommend.WeightedOrDefault(),
		"top_k":                cfg.Recommend.TopK,
		"tie_extension":        cfg.Recommend.TieExtension,
		"normalize_input":      cfg.Recommend.NormalizeInput,
		"clear_on_accept":      cfg.Session.ClearOnAcceptOrDefault(),
		"session_idle_timeout": cfg.Session.IdleTimeout.String(),
		"log_sheet":            cfg.Source.LogSheet,
	}
}

// SourcePaths returns the local files backing the configured source.
func SourcePaths(src *config.SourceConfig) []string {
	switch src.Backend {
	case config.BackendXLSX:
		return []string{src.WorkbookPath}
	case config.BackendSQLite:
		return []string{src.DatabasePath}
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
