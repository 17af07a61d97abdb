// Package api exposes the decision layer over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nightjarlabs/companion-core/internal/engine"
)

// #region server

type Server struct {
	router *chi.Mux
	engine *engine.Engine
	port   int
}

func NewServer(eng *engine.Engine, port int) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		engine: eng,
		port:   port,
	}

	router.Get("/health", s.health)
	router.Post("/api/v1/turn", s.turn)
	router.Post("/api/v1/postprocess", s.postprocess)
	router.Get("/api/v1/users/{userID}/profile", s.profile)

	return s
}

// Start blocks serving HTTP on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("[API] listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// #endregion server

// #region handlers

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type turnRequest struct {
	UserID string `json:"user_id"`
	Stage  string `json:"stage"`
	Text   string `json:"text"`
}

// turn runs one user message through the decision layer and returns the
// response directive.
func (s *Server) turn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
		return
	}
	if req.UserID == "" || req.Text == "" {
		writeError(w, http.StatusBadRequest, "user_id and text are required")
		return
	}

	d := s.engine.ProcessTurn(r.Context(), req.UserID, req.Stage, req.Text)
	writeJSON(w, http.StatusOK, d)
}

type postprocessRequest struct {
	UserID string `json:"user_id"`
	Stage  string `json:"stage"`
	Text   string `json:"text"`
}

type postprocessResponse struct {
	Text string `json:"text"`
}

// postprocess applies the stage's mastery voice to generated text.
func (s *Server) postprocess(w http.ResponseWriter, r *http.Request) {
	var req postprocessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	out := s.engine.PostProcess(r.Context(), req.UserID, req.Stage, req.Text)
	writeJSON(w, http.StatusOK, postprocessResponse{Text: out})
}

// profile returns the user's longitudinal profile, 404 when the user has
// no tracked turns yet.
func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	p, ok, err := s.engine.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("profile read: %v", err))
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no profile for user")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// #endregion handlers

// #region responses

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// #endregion responses
