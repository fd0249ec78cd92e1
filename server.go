package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// runFunc executes one checkout run for a validated payload.
type runFunc func(Payload) (*CheckoutResult, error)

// Server is the HTTP gateway in front of the checkout bot. It owns request
// decoding, schema validation, and response shaping; the run itself is
// delegated so tests can substitute a stub.
type Server struct {
	config  *Config
	log     *RunLog
	metrics *Metrics
	run     runFunc
}

func NewServer(config *Config, log *RunLog, metrics *Metrics, run runFunc) *Server {
	return &Server{config: config, log: log, metrics: metrics, run: run}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/checkout", s.handleCheckout)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metricsHandler())
	return r
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var payload Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body: " + err.Error()})
		return
	}
	if err := payload.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	start := time.Now()
	result, err := s.run(payload)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		s.log.Error(LogFields{Step: "http", Message: "checkout run failed", Error: err.Error(), DurationMS: elapsed})
		s.observeRun("failure", elapsed)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: err.Error()})
		return
	}

	result.Status = "success"
	result.DurationMS = elapsed
	s.log.Info(LogFields{Step: "http", Message: "checkout run completed", DurationMS: elapsed})
	s.observeRun("success", elapsed)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) observeRun(status string, elapsed int64) {
	if s.metrics == nil {
		return
	}
	s.metrics.Runs.WithLabelValues(status).Inc()
	s.metrics.DurationMS.Observe(float64(elapsed))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
