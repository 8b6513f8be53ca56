// Package logzillatest provides an in-process fake of the LogZilla query API.
package logzillatest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
)

const (
	// Token is the credential the fake accepts unless another one is configured.
	Token = "test-token"
	// QueryID is the job identifier returned by default on submission.
	QueryID = "0f4c2f9d-query"

	InProgressBody = `{"status":"IN_PROGRESS"}`
)

// Server records every call it receives. Poll responses are replayed in
// order; the last one is repeated once the list is exhausted.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	token        string
	submitStatus int
	submitBody   string
	pollStatus   int
	pollBodies   []string

	submissions [][]byte
	polledIDs   []string
	headers     []http.Header
}

type Option func(s *Server)

func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

// WithSubmitResponse sets the status code and body returned by POST /api/query.
func WithSubmitResponse(status int, body string) Option {
	return func(s *Server) {
		s.submitStatus = status
		s.submitBody = body
	}
}

// WithPollResponses sets the bodies returned by successive GET /api/query/{id}.
func WithPollResponses(bodies ...string) Option {
	return func(s *Server) {
		s.pollBodies = bodies
	}
}

func WithPollStatus(status int) Option {
	return func(s *Server) {
		s.pollStatus = status
	}
}

func NewServer(opts ...Option) *Server {
	s := &Server{
		token:        Token,
		submitStatus: http.StatusAccepted,
		submitBody:   `{"query_id":"` + QueryID + `"}`,
		pollStatus:   http.StatusOK,
		pollBodies:   []string{`{"results":{"details":[]}}`},
	}
	for _, o := range opts {
		o(s)
	}

	router := chi.NewRouter()
	router.Use(s.recordHeaders, s.authenticate)
	router.Post("/api/query", s.createQuery)
	router.Get("/api/query/{queryID}", s.getQuery)

	s.Server = httptest.NewServer(router)
	return s
}

func (s *Server) recordHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.headers = append(s.headers, r.Header.Clone())
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token "+s.token {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Invalid token."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) createQuery(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, body)
	status, respBody := s.submitStatus, s.submitBody
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(respBody))
}

func (s *Server) getQuery(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.polledIDs = append(s.polledIDs, chi.URLParam(r, "queryID"))
	idx := len(s.polledIDs) - 1
	if idx >= len(s.pollBodies) {
		idx = len(s.pollBodies) - 1
	}
	body := ""
	if idx >= 0 {
		body = s.pollBodies[idx]
	}
	status := s.pollStatus
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Submissions returns the request bodies received by POST /api/query.
func (s *Server) Submissions() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.submissions...)
}

// PolledIDs returns the job identifiers requested, one per poll.
func (s *Server) PolledIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.polledIDs...)
}

// Headers returns the headers of every request, in arrival order.
func (s *Server) Headers() []http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]http.Header(nil), s.headers...)
}

// InProgress returns n copies of the IN_PROGRESS status body.
func InProgress(n int) []string {
	bodies := make([]string, n)
	for i := range bodies {
		bodies[i] = InProgressBody
	}
	return bodies
}
