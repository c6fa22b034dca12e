// Package server provides the HTTP server for ErgoGuard.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/ergoguard/internal/app"
	"github.com/ayusman/ergoguard/internal/server/api"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config holds the server configuration.
type Config struct {
	StaticDir string
	App       *app.App
	Log       logrus.FieldLogger

	// RateLimit is the sustained analyze requests per second per client.
	RateLimit float64
	RateBurst int
}

// Server represents the HTTP server for the ErgoGuard application.
type Server struct {
	config  Config
	log     logrus.FieldLogger
	router  *mux.Router
	handler http.Handler
	hub     *ResultsHub
	start   time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	log := config.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "server")

	s := &Server{
		config: config,
		log:    log,
		router: mux.NewRouter(),
		hub:    NewResultsHub(log),
		start:  time.Now(),
	}
	s.setupRoutes()

	var h http.Handler = s.router
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Content-Type", RequestIDHeader}),
	)(h)
	h = handlers.CustomLoggingHandler(io.Discard, h, accessLogFormatter(log))
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(log), handlers.PrintRecoveryStack(true))(h)
	s.handler = requestID(h)

	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	r := s.router.PathPrefix("/api").Subrouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	if s.config.App != nil {
		a := s.config.App
		limiter := newRateLimiter(s.config.RateLimit, s.config.RateBurst, s.log)

		analyze := api.NewAnalyzeHandler(a, s.log)
		r.Handle("/analyze", limiter.middleware(http.HandlerFunc(analyze.Analyze))).Methods(http.MethodPost)
		r.Handle("/analyze/pose", limiter.middleware(http.HandlerFunc(analyze.AnalyzePose))).Methods(http.MethodPost)

		sess := api.NewSessionHandler(a)
		r.HandleFunc("/session", sess.Get).Methods(http.MethodGet)
		r.HandleFunc("/session/mode", sess.SetMode).Methods(http.MethodPut)
		r.HandleFunc("/session/reset", sess.Reset).Methods(http.MethodPost)
		r.HandleFunc("/session/retake", sess.Retake).Methods(http.MethodPost)

		hist := api.NewHistoryHandler(a, s.log)
		r.HandleFunc("/history", hist.List).Methods(http.MethodGet)
		r.HandleFunc("/history", hist.Clear).Methods(http.MethodDelete)
		r.HandleFunc("/history/summary", hist.Summary).Methods(http.MethodGet)

		onboarding := api.NewOnboardingHandler(a, s.log)
		r.HandleFunc("/onboarding", onboarding.Get).Methods(http.MethodGet)
		r.HandleFunc("/onboarding/complete", onboarding.Complete).Methods(http.MethodPost)

		r.Handle("/results", s.hub).Methods(http.MethodGet)
		a.OnResult(s.hub.Broadcast)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Hub returns the WebSocket results hub.
func (s *Server) Hub() *ResultsHub {
	return s.hub
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.App != nil {
		response["detector"] = detectorName(s.config.App)
		response["viewMode"] = s.config.App.Session().ViewMode()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("HTTP server stopped")
	return nil
}
