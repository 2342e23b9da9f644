// Package server exposes the solver over HTTP.
package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/printqueue/pkg/buildinfo"
	"github.com/matzehuels/printqueue/pkg/dag"
	perrors "github.com/matzehuels/printqueue/pkg/errors"
	"github.com/matzehuels/printqueue/pkg/pipeline"
	"github.com/matzehuels/printqueue/pkg/queue"
)

// MaxBodyBytes bounds the size of a puzzle input accepted by the API.
const MaxBodyBytes = 4 << 20

// Server holds the HTTP handler dependencies.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	workers int
	router  chi.Router
}

// New creates a Server and registers all routes. workers is the default
// solve concurrency when a request does not set one.
func New(runner *pipeline.Runner, logger *log.Logger, workers int) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, workers: workers}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.solve)
		r.Post("/check", s.check)
		r.Post("/order/{index}", s.order)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type solveResponse struct {
	RunID   string `json:"run_id"`
	Part1   uint64 `json:"part1"`
	Part2   uint64 `json:"part2"`
	Updates int    `json:"updates"`
	Correct []int  `json:"correct"`
	Cached  bool   `json:"cached"`
}

// POST /v1/solve?strategy=&workers=&refresh=
// The body is the raw puzzle input.
func (s *Server) solve(w http.ResponseWriter, r *http.Request) {
	input, ok := s.readBody(w, r)
	if !ok {
		return
	}
	opts := pipeline.Options{
		Strategy: r.URL.Query().Get("strategy"),
		Workers:  s.workers,
		Refresh:  r.URL.Query().Get("refresh") == "true",
	}
	if v := r.URL.Query().Get("workers"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, perrors.New(perrors.ErrCodeInvalidInput, "workers must be a non-negative integer"))
			return
		}
		opts.Workers = n
	}

	res, err := s.runner.Run(r.Context(), input, opts)
	if err != nil {
		s.logger.Warn("solve failed", "request_id", middleware.GetReqID(r.Context()), "err", err)
		writeError(w, err)
		return
	}
	correct := res.Correct()
	if correct == nil {
		correct = []int{}
	}
	writeJSON(w, http.StatusOK, solveResponse{
		RunID:   res.RunID,
		Part1:   res.Part1,
		Part2:   res.Part2,
		Updates: res.Updates,
		Correct: correct,
		Cached:  res.Cached,
	})
}

type checkVerdict struct {
	Index      int          `json:"index"`
	Correct    bool         `json:"correct"`
	Middle     queue.Page   `json:"middle"`
	Violations []queue.Rule `json:"violations,omitempty"`
}

// POST /v1/check returns per-update verdicts without resolving anything.
func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	input, ok := s.readBody(w, r)
	if !ok {
		return
	}
	m, err := s.runner.Parse(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	verdicts := make([]checkVerdict, len(m.Updates))
	for i, u := range m.Updates {
		v := m.Violations(u)
		verdicts[i] = checkVerdict{Index: i, Correct: len(v) == 0, Middle: u.Middle(), Violations: v}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"updates": verdicts,
		"correct": len(m.CorrectIndices()),
		"part1":   m.Part1(),
	})
}

// POST /v1/order/{index}?strategy= returns the corrected order of one update.
func (s *Server) order(w http.ResponseWriter, r *http.Request) {
	input, ok := s.readBody(w, r)
	if !ok {
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, perrors.New(perrors.ErrCodeInvalidInput, "update index must be an integer"))
		return
	}
	strategy, err := dag.ParseStrategy(r.URL.Query().Get("strategy"))
	if err != nil {
		writeError(w, perrors.Wrap(perrors.ErrCodeInvalidStrategy, err, "strategy"))
		return
	}
	m, err := s.runner.Parse(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := perrors.ValidateUpdateIndex(idx, len(m.Updates)); err != nil {
		writeError(w, err)
		return
	}
	ordered, err := m.Reorder(idx, strategy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"index":   idx,
		"correct": m.IsCorrect(m.Updates[idx]),
		"order":   ordered,
		"middle":  ordered.Middle(),
	})
}

// GET /healthz is the liveness probe.
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Get()})
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error: fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit),
				Code:  string(perrors.ErrCodeInvalidInput),
			})
			return nil, false
		}
		writeError(w, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read body"))
		return nil, false
	}
	return data, true
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
