package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	workflowx "github.com/sudeep-c/NEXTGENMARKETER/agent/agents/workflow"
	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
	statex "github.com/sudeep-c/NEXTGENMARKETER/agent/state"
)

const maxRequestBodyBytes = 1 << 20

type Config struct {
	Addr            string        `envconfig:"ADDR" split_words:"true" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" split_words:"true" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" split_words:"true" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"10s"`
}

// Runner is the slice of the workflow engine the HTTP layer needs.
type Runner interface {
	Run(ctx context.Context, userPrompt string, threadID string) (*contractx.WorkflowState, error)
	Thread(ctx context.Context, threadID string) (*contractx.WorkflowState, error)
}

type Server struct {
	cfg    Config
	engine Runner
	http   *http.Server

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

type strategyRequest struct {
	UserPrompt string `json:"user_prompt"`
	ThreadID   string `json:"thread_id,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(cfg Config, engine Runner) (*Server, error) {
	if engine == nil {
		return nil, errors.New("workflow engine is required")
	}

	s := &Server{
		cfg:    cfg,
		engine: engine,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketer_http_requests_total",
			Help: "HTTP requests processed, by handler and status code.",
		}, []string{"handler", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketer_http_request_duration_seconds",
			Help:    "HTTP request latency, by handler.",
			Buckets: prometheus.DefBuckets,
		}, []string{"handler"}),
	}

	registry := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{s.requestsTotal, s.requestDuration} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/strategy", s.instrument("strategy", s.handleStrategy))
	mux.Handle("GET /api/threads/{id}", s.instrument("thread", s.handleThread))
	mux.Handle("GET /health", s.instrument("health", s.handleHealth))
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the routed mux, used by tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(name string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.requestsTotal.WithLabelValues(name, strconv.Itoa(rec.status)).Inc()
		s.requestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	})
}

func (s *Server) handleStrategy(w http.ResponseWriter, r *http.Request) {
	var req strategyRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "request body is not valid json")
		return
	}

	state, err := s.engine.Run(r.Context(), req.UserPrompt, req.ThreadID)
	if err != nil {
		if errors.Is(err, workflowx.ErrInvalidPrompt) || errors.Is(err, contractx.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("workflow run failed")
		writeError(w, http.StatusInternalServerError, "workflow run failed")
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleThread(w http.ResponseWriter, r *http.Request) {
	threadID := strings.TrimSpace(r.PathValue("id"))
	if threadID == "" {
		writeError(w, http.StatusBadRequest, "thread id is required")
		return
	}

	state, err := s.engine.Thread(r.Context(), threadID)
	if err != nil {
		if errors.Is(err, statex.ErrThreadNotFound) {
			writeError(w, http.StatusNotFound, "thread not found")
			return
		}
		log.Error().Err(err).Str("thread_id", threadID).Msg("thread lookup failed")
		writeError(w, http.StatusInternalServerError, "thread lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
