package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"time"

	apperrors "github.com/agbru/primepipe/internal/errors"
	"github.com/agbru/primepipe/internal/logging"
	"github.com/agbru/primepipe/internal/sieve"
	"github.com/agbru/primepipe/internal/strategy"
	"github.com/agbru/primepipe/internal/sysmon"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second

	defaultHostSampleInterval = 5 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr string
	// RequestTimeout bounds a single /primes computation.
	RequestTimeout time.Duration
	// DefaultWorkers is used when a request does not set workers.
	DefaultWorkers int
	// HostSampleInterval is the period of the host CPU/memory gauges.
	HostSampleInterval time.Duration
	Security           SecurityConfig
}

// Server serves prime computations over HTTP.
type Server struct {
	cfg      Config
	factory  strategy.Factory
	metrics  *Metrics
	logger   logging.Logger
	security SecurityConfig
	mux      *http.ServeMux
}

// PrimesResponse is the JSON body returned by /primes.
type PrimesResponse struct {
	Lo         uint64   `json:"lo"`
	Hi         uint64   `json:"hi"`
	Strategy   string   `json:"strategy"`
	Workers    int      `json:"workers"`
	Count      int      `json:"count"`
	Primes     []uint64 `json:"primes"`
	DurationMS float64  `json:"duration_ms"`
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// New creates a Server. A nil logger discards log output.
func New(cfg Config, factory strategy.Factory, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = time.Minute
	}
	if cfg.HostSampleInterval <= 0 {
		cfg.HostSampleInterval = defaultHostSampleInterval
	}
	if cfg.DefaultWorkers <= 0 {
		cfg.DefaultWorkers = runtime.NumCPU()
	}
	// The default must itself be an acceptable request.
	if limit := cfg.Security.MaxWorkers; limit > 0 {
		cfg.DefaultWorkers = min(cfg.DefaultWorkers, limit)
	}
	s := &Server{
		cfg:      cfg,
		factory:  factory,
		metrics:  NewMetrics(),
		logger:   logger,
		security: cfg.Security,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return SecurityMiddleware(s.security, s.metricsMiddleware(h))
	}
	s.mux.HandleFunc("/primes", wrap(s.handlePrimes))
	s.mux.HandleFunc("/strategies", wrap(s.handleStrategies))
	s.mux.HandleFunc("/healthz", wrap(s.handleHealth))
	s.mux.HandleFunc("/metrics", wrap(s.handleMetrics))
}

// Handler returns the root handler, for use with httptest.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return apperrors.WrapError(err, "listen on %s", s.cfg.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	go sysmon.Watch(ctx, s.cfg.HostSampleInterval, s.metrics.ObserveHost)
	s.logger.Info("server listening", logging.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return apperrors.WrapError(err, "shutdown")
	}
	return nil
}

func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		s.metrics.requestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(sw.status)).Inc()
		s.metrics.requestDuration.WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}
	s.metrics.WritePrometheus(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"strategies": s.factory.List()})
}

func (s *Server) handlePrimes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}

	req, err := s.parsePrimesRequest(r)
	if err != nil {
		var ve apperrors.ValidationError
		if errors.As(err, &ve) {
			s.writeError(w, http.StatusBadRequest, ErrorResponse{Error: ve.Message, Field: ve.Field})
			return
		}
		s.writeError(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	strat, err := s.factory.Get(req.strategy)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: "strategy"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	primes, err := strat.FindPrimes(ctx, nil, 0, req.rng, strategy.Options{
		Workers:  req.workers,
		Sorted:   req.sorted,
		Logger:   s.logger,
		Recorder: s.metrics.Pipeline(),
	})
	elapsed := time.Since(start)
	if err != nil {
		if apperrors.IsContextError(err) {
			s.logger.Debug("primes request stopped", logging.String("range", req.rng.String()), logging.Err(err))
		} else {
			s.logger.Error("primes request failed", err, logging.String("range", req.rng.String()))
		}
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			te := apperrors.TimeoutError{Operation: strat.Name(), Limit: s.cfg.RequestTimeout}
			s.writeError(w, http.StatusGatewayTimeout, ErrorResponse{Error: te.Error()})
		case errors.Is(err, context.Canceled):
			// Client went away; nothing to write.
		default:
			s.writeError(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	if primes == nil {
		primes = []uint64{}
	}
	s.writeJSON(w, http.StatusOK, PrimesResponse{
		Lo:         req.rng.Lo,
		Hi:         req.rng.Hi,
		Strategy:   strat.Name(),
		Workers:    req.workers,
		Count:      len(primes),
		Primes:     primes,
		DurationMS: float64(elapsed.Microseconds()) / 1000,
	})
}

type primesRequest struct {
	rng      sieve.Range
	workers  int
	strategy string
	sorted   bool
}

func (s *Server) parsePrimesRequest(r *http.Request) (primesRequest, error) {
	q := r.URL.Query()
	req := primesRequest{workers: s.cfg.DefaultWorkers, strategy: "queue"}

	var err error
	if req.rng.Lo, err = parseUintParam(q.Get("lo"), "lo"); err != nil {
		return req, err
	}
	if req.rng.Hi, err = parseUintParam(q.Get("hi"), "hi"); err != nil {
		return req, err
	}
	if err := req.rng.Validate(); err != nil {
		return req, err
	}
	if limit := s.security.MaxRangeLen; limit > 0 && req.rng.Len() > limit {
		return req, apperrors.ValidationError{Field: "range", Message: fmt.Sprintf("at most %d candidates per request", limit)}
	}

	if v := q.Get("workers"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return req, apperrors.ValidationError{Field: "workers", Message: "must be a positive integer"}
		}
		req.workers = n
	}
	if limit := s.security.MaxWorkers; limit > 0 && req.workers > limit {
		return req, apperrors.ValidationError{Field: "workers", Message: fmt.Sprintf("at most %d", limit)}
	}
	if v := q.Get("strategy"); v != "" {
		req.strategy = v
	}
	if v := q.Get("sorted"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, apperrors.ValidationError{Field: "sorted", Message: "must be a boolean"}
		}
		req.sorted = b
	}
	return req, nil
}

func parseUintParam(v, field string) (uint64, error) {
	if v == "" {
		return 0, apperrors.ValidationError{Field: field, Message: "is required"}
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, apperrors.ValidationError{Field: field, Message: "must be a non-negative integer"}
	}
	return n, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encode response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, body ErrorResponse) {
	s.writeJSON(w, status, body)
}
