package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kehila-io/kehila/internal/store"
	"github.com/kehila-io/kehila/pkg/recommend"
	"github.com/kehila-io/kehila/pkg/trust"
)

// Server provides the HTTP API.
type Server struct {
	store  store.Store
	trust  *trust.Service
	engine *recommend.Engine
	port   int
}

// New creates a new HTTP server.
func New(s store.Store, t *trust.Service, engine *recommend.Engine, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{
		store:  s,
		trust:  t,
		engine: engine,
		port:   port,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/users/{id}/score", s.handleUserScore)
	mux.HandleFunc("POST /api/v1/users/{id}/rank", s.handleUserRank)
	mux.HandleFunc("POST /api/v1/rank", s.handleRankAll)
	mux.HandleFunc("GET /api/v1/questions", s.handleQuestions)
	mux.HandleFunc("GET /api/v1/questions/{id}/related", s.handleRelated)
	mux.HandleFunc("GET /api/v1/categories", s.handleCategories)
	return mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("kehila server listening on %s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUserScore(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	score, err := s.trust.Score(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": id,
		"score":   score,
		"tier":    trust.TierFor(score),
	})
}

func (s *Server) handleUserRank(w http.ResponseWriter, r *http.Request) {
	rank, err := s.trust.UpdateRank(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rank)
}

func (s *Server) handleRankAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := s.store.ListUsers(ctx, 0)
	if err != nil {
		writeError(w, err)
		return
	}

	ranked := 0
	var errs []string
	for _, u := range users {
		if _, err := s.trust.UpdateRank(ctx, u.ID); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", u.ID, err))
			continue
		}
		ranked++
	}

	resp := map[string]any{"ranked": ranked, "total": len(users)}
	if len(errs) > 0 {
		resp["errors"] = errs
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	opts := store.QuestionListOpts{Limit: 100}
	if category := r.URL.Query().Get("category"); category != "" {
		opts.Category = category
	}
	if since := r.URL.Query().Get("since"); since != "" {
		if t, err := time.Parse(time.RFC3339, since); err == nil {
			opts.Since = t
		}
	}

	questions, err := s.store.ListQuestions(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  questions,
		"count": len(questions),
	})
}

func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	current, err := s.store.GetQuestion(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	// The engine scores a caller-supplied snapshot; the store bound here
	// caps the candidate pool.
	pool, err := s.store.ListQuestions(ctx, store.QuestionListOpts{Limit: 1000})
	if err != nil {
		writeError(w, err)
		return
	}

	matches := s.engine.Related(*current, pool)

	writeJSON(w, http.StatusOK, map[string]any{
		"question_id": current.ID,
		"matches":     matches,
		"tiles":       recommend.SplitTiles(matches),
		"count":       len(matches),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CountQuestionsByCategory(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  counts,
		"count": len(counts),
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, store.ErrNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
