package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"newsdesk/internal/dashboard"
	"newsdesk/internal/filter"
	"newsdesk/internal/ingest"
	"newsdesk/internal/model"
	"newsdesk/internal/workflow"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.dash.View())
}

// respondView answers state-only operations with the fresh view.
func (s *Server) respondView(w http.ResponseWriter, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.dash.View())
}

func (s *Server) handleSetQuery(w http.ResponseWriter, r *http.Request) {
	var q filter.Query
	if err := decode(r, &q); err != nil {
		s.writeError(w, err)
		return
	}
	s.respondView(w, s.dash.SetQuery(r.Context(), q))
}

func (s *Server) handleSetTab(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Tab dashboard.Tab `json:"tab"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	s.respondView(w, s.dash.SetTab(r.Context(), body.Tab))
}

func (s *Server) handleSetSubtab(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Subtab string `json:"subtab"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	s.respondView(w, s.dash.SetSubtab(r.Context(), body.Subtab))
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, s.dash.Focus(r.Context(), mux.Vars(r)["id"]))
}

func (s *Server) handleEditArticle(w http.ResponseWriter, r *http.Request) {
	v, err := version(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var patch model.ArticlePatch
	if err := decode(r, &patch); err != nil {
		s.writeError(w, err)
		return
	}
	a, err := s.dash.EditArticle(r.Context(), mux.Vars(r)["id"], v, patch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleSafety(w http.ResponseWriter, r *http.Request) {
	v, err := version(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var body struct {
		Score int `json:"score"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	a, err := s.dash.OverrideSafety(r.Context(), mux.Vars(r)["id"], v, body.Score)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleArticleAction(w http.ResponseWriter, r *http.Request) {
	v, err := version(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	vars := mux.Vars(r)
	a, err := s.dash.ArticleAction(r.Context(), vars["id"], v, workflow.ArticleAction(vars["action"]))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleToggleSelect(w http.ResponseWriter, r *http.Request) {
	_, err := s.dash.ToggleSelect(r.Context(), mux.Vars(r)["id"])
	s.respondView(w, err)
}

func (s *Server) handleBulkMode(w http.ResponseWriter, r *http.Request) {
	_, err := s.dash.ToggleBulkMode(r.Context())
	s.respondView(w, err)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	_, err := s.dash.SuggestBulk(r.Context())
	s.respondView(w, err)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, s.dash.ClearSelection(r.Context()))
}

func (s *Server) handleApplyBulk(w http.ResponseWriter, r *http.Request) {
	res, err := s.dash.ApplyBulk(r.Context(), workflow.ArticleAction(mux.Vars(r)["action"]))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func kindOf(r *http.Request) model.Kind {
	return model.Kind(mux.Vars(r)["kind"])
}

func (s *Server) handleBegin(w http.ResponseWriter, r *http.Request) {
	var d model.Draft
	if err := decode(r, &d); err != nil {
		s.writeError(w, err)
		return
	}
	s.respondView(w, s.dash.BeginCuration(r.Context(), kindOf(r), d))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var d model.Draft
	if err := decode(r, &d); err != nil {
		s.writeError(w, err)
		return
	}
	s.respondView(w, s.dash.SubmitDraft(r.Context(), kindOf(r), d))
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	var q filter.CandidateQuery
	if err := decode(r, &q); err != nil {
		s.writeError(w, err)
		return
	}
	s.respondView(w, s.dash.SetCandidateQuery(r.Context(), q))
}

func (s *Server) handleCurationToggle(w http.ResponseWriter, r *http.Request) {
	_, err := s.dash.CurationToggle(r.Context(), kindOf(r), mux.Vars(r)["id"])
	s.respondView(w, err)
}

func (s *Server) handleCurationDrop(w http.ResponseWriter, r *http.Request) {
	_, err := s.dash.CurationDrop(r.Context(), kindOf(r), mux.Vars(r)["id"])
	s.respondView(w, err)
}

func (s *Server) handleCurationRemove(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, s.dash.CurationRemove(r.Context(), kindOf(r), mux.Vars(r)["id"]))
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, s.dash.CancelCuration(r.Context(), kindOf(r)))
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	_, err := s.dash.ContinueCuration(r.Context(), kindOf(r))
	s.respondView(w, err)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, s.dash.EditCuration(r.Context(), kindOf(r)))
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	s.respondView(w, s.dash.ArchiveDraft(r.Context(), kindOf(r), body.Reason))
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	settings := model.DefaultPublishSettings()
	if err := decode(r, &settings); err != nil {
		s.writeError(w, err)
		return
	}
	col, err := s.dash.PublishCuration(r.Context(), kindOf(r), settings)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, col)
}

func collectionKind(r *http.Request) model.Kind {
	if mux.Vars(r)["collection"] == "stories" {
		return model.KindStory
	}
	return model.KindRoundup
}

func (s *Server) handleFocusCollection(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, s.dash.FocusCollection(r.Context(), collectionKind(r), mux.Vars(r)["id"]))
}

func (s *Server) handleCollectionAction(w http.ResponseWriter, r *http.Request) {
	v, err := version(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	vars := mux.Vars(r)
	c, err := s.dash.CollectionAction(r.Context(), collectionKind(r), vars["id"], v, workflow.CollectionAction(vars["action"]))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleNotices(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, fmt.Errorf("%w: limit must be a non-negative integer", errBadRequest))
			return
		}
		limit = n
	}
	notices, err := s.feed.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, notices)
}

func (s *Server) handleDismissOnboarding(w http.ResponseWriter, r *http.Request) {
	if err := s.dash.DismissOnboarding(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if s.queue == nil {
		s.writeError(w, model.Reject(model.ErrInvalidTransition, "Ingestion disabled", "No ingestion queue is configured."))
		return
	}
	var body struct {
		URL  string `json:"url"`
		Feed bool   `json:"feed"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	body.URL = strings.TrimSpace(body.URL)
	if body.URL == "" {
		s.writeError(w, model.Reject(model.ErrValidation, "URL is required", ""))
		return
	}
	job := ingest.Job{Kind: ingest.JobPage, URL: body.URL, EnqueuedAt: time.Now()}
	if body.Feed {
		job.Kind = ingest.JobFeed
	}
	if err := s.queue.Push(r.Context(), job); err != nil {
		s.writeError(w, fmt.Errorf("queue ingestion job: %w", err))
		return
	}
	s.logger.Info("Ingestion queued", zap.String("url", job.URL), zap.String("kind", string(job.Kind)))
	s.writeJSON(w, http.StatusAccepted, job)
}
