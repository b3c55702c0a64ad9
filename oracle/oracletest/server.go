// Package oracletest provides a scripted stand-in for the remote oracle.
package oracletest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"boardbot/oracle"
)

// Server answers the oracle endpoints from queued replies.
// An empty move queue answers 500; an empty outcome queue answers "not over".
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	moves       map[string][]oracle.MoveResponse
	outcomes    map[string][]oracle.OutcomeResponse
	failures    int
	failStatus  int
	moveReqs    map[string][]oracle.MoveRequest
	outcomeReqs map[string][]oracle.OutcomeRequest
	requestIDs  []string
}

// NewServer starts a fake oracle. It is closed automatically by Close.
func NewServer() *Server {
	s := &Server{
		moves:       map[string][]oracle.MoveResponse{},
		outcomes:    map[string][]oracle.OutcomeResponse{},
		moveReqs:    map[string][]oracle.MoveRequest{},
		outcomeReqs: map[string][]oracle.OutcomeRequest{},
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.failInjector)
	r.Post("/{variant}", s.handleMove)
	r.Post("/{variant}/game_over", s.handleOutcome)

	s.Server = httptest.NewServer(r)
	return s
}

// QueueMove appends a reply for POST /<variant>.
func (s *Server) QueueMove(variant string, resp oracle.MoveResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moves[variant] = append(s.moves[variant], resp)
}

// QueueOutcome appends a reply for POST /<variant>/game_over.
func (s *Server) QueueOutcome(variant string, resp oracle.OutcomeResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[variant] = append(s.outcomes[variant], resp)
}

// FailNext makes the next n requests answer with status.
func (s *Server) FailNext(n, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = n
	s.failStatus = status
}

// MoveRequests returns the decoded move requests received for variant.
func (s *Server) MoveRequests(variant string) []oracle.MoveRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]oracle.MoveRequest(nil), s.moveReqs[variant]...)
}

// OutcomeRequests returns the decoded game-over requests received for variant.
func (s *Server) OutcomeRequests(variant string) []oracle.OutcomeRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]oracle.OutcomeRequest(nil), s.outcomeReqs[variant]...)
}

// RequestIDs returns the X-Request-ID of every request, failed ones included.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

func (s *Server) failInjector(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requestIDs = append(s.requestIDs, r.Header.Get("X-Request-ID"))
		fail := s.failures > 0
		status := s.failStatus
		if fail {
			s.failures--
		}
		s.mu.Unlock()

		if fail {
			http.Error(w, "injected failure", status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	variant := chi.URLParam(r, "variant")
	var req oracle.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.moveReqs[variant] = append(s.moveReqs[variant], req)
	queue := s.moves[variant]
	if len(queue) == 0 {
		s.mu.Unlock()
		http.Error(w, "no scripted move", http.StatusInternalServerError)
		return
	}
	resp := queue[0]
	s.moves[variant] = queue[1:]
	s.mu.Unlock()

	writeJSON(w, resp)
}

func (s *Server) handleOutcome(w http.ResponseWriter, r *http.Request) {
	variant := chi.URLParam(r, "variant")
	var req oracle.OutcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.outcomeReqs[variant] = append(s.outcomeReqs[variant], req)
	resp := oracle.OutcomeResponse{}
	if queue := s.outcomes[variant]; len(queue) > 0 {
		resp = queue[0]
		s.outcomes[variant] = queue[1:]
	}
	s.mu.Unlock()

	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
