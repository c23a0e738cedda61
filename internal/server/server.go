// Package server exposes the dashboard as a JSON API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"newsdesk/internal/dashboard"
	"newsdesk/internal/ingest"
	"newsdesk/internal/notify"
)

type Server struct {
	dash   *dashboard.Dashboard
	feed   notify.Feed
	queue  ingest.Queue // nil disables POST /api/ingest
	logger *zap.Logger
	router *mux.Router
	server *http.Server
}

func NewServer(dash *dashboard.Dashboard, feed notify.Feed, queue ingest.Queue, logger *zap.Logger) *Server {
	s := &Server{
		dash:   dash,
		feed:   feed,
		queue:  queue,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.logRequests)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/view", s.handleView).Methods("GET")
	api.HandleFunc("/query", s.handleSetQuery).Methods("PUT")
	api.HandleFunc("/tab", s.handleSetTab).Methods("POST")
	api.HandleFunc("/subtab", s.handleSetSubtab).Methods("POST")

	api.HandleFunc("/articles/{id}/focus", s.handleFocus).Methods("POST")
	api.HandleFunc("/articles/{id}", s.handleEditArticle).Methods("PATCH")
	api.HandleFunc("/articles/{id}/safety", s.handleSafety).Methods("POST")
	api.HandleFunc("/articles/{id}/actions/{action}", s.handleArticleAction).Methods("POST")

	api.HandleFunc("/selection/toggle/{id}", s.handleToggleSelect).Methods("POST")
	api.HandleFunc("/selection/bulk-mode", s.handleBulkMode).Methods("POST")
	api.HandleFunc("/selection/suggest", s.handleSuggest).Methods("POST")
	api.HandleFunc("/selection/clear", s.handleClearSelection).Methods("POST")
	api.HandleFunc("/selection/apply/{action}", s.handleApplyBulk).Methods("POST")

	cur := api.PathPrefix("/curation/{kind:roundup|story}").Subrouter()
	cur.HandleFunc("/begin", s.handleBegin).Methods("POST")
	cur.HandleFunc("/submit", s.handleSubmit).Methods("POST")
	cur.HandleFunc("/candidates", s.handleCandidates).Methods("PUT")
	cur.HandleFunc("/toggle/{id}", s.handleCurationToggle).Methods("POST")
	cur.HandleFunc("/drop/{id}", s.handleCurationDrop).Methods("POST")
	cur.HandleFunc("/remove/{id}", s.handleCurationRemove).Methods("POST")
	cur.HandleFunc("/cancel", s.handleCancel).Methods("POST")
	cur.HandleFunc("/continue", s.handleContinue).Methods("POST")
	cur.HandleFunc("/edit", s.handleEdit).Methods("POST")
	cur.HandleFunc("/archive", s.handleArchive).Methods("POST")
	cur.HandleFunc("/publish", s.handlePublish).Methods("POST")

	api.HandleFunc("/{collection:roundups|stories}/{id}/focus", s.handleFocusCollection).Methods("POST")
	api.HandleFunc("/{collection:roundups|stories}/{id}/actions/{action}", s.handleCollectionAction).Methods("POST")

	api.HandleFunc("/notices", s.handleNotices).Methods("GET")
	api.HandleFunc("/onboarding/dismiss", s.handleDismissOnboarding).Methods("POST")
	api.HandleFunc("/ingest", s.handleIngest).Methods("POST")
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start launches the HTTP server
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	s.logger.Info("Web server listening", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("Request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
