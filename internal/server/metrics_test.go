package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agbru/primepipe/internal/logging"
	"github.com/agbru/primepipe/internal/sysmon"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}
	if m.handler == nil {
		t.Error("Metrics.handler should be initialized")
	}
	if m.Pipeline() == nil {
		t.Error("pipeline recorder should be initialized")
	}
	// Each instance owns its registry, so a second one must not panic.
	_ = NewMetrics()
}

func TestMetrics_WritePrometheus(t *testing.T) {
	m := NewMetrics()
	m.IncrementActiveRequests()
	defer m.DecrementActiveRequests()
	m.requestsTotal.WithLabelValues("/primes", "200").Inc()

	req := httptest.NewRequest("GET", "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	m.WritePrometheus(rec, req)
	body := rec.Body.String()

	for _, want := range []string{
		"primepipe_active_requests 1",
		"primepipe_requests_total",
		"primepipe_candidates_checked_total",
		"primepipe_active_workers",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output should contain %q", want)
		}
	}
}

func TestMetrics_ObserveHost(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	m.ObserveHost(sysmon.Stats{CPUPercent: 42.5, MemPercent: 12})

	rec := httptest.NewRecorder()
	m.WritePrometheus(rec, httptest.NewRequest("GET", "/metrics", http.NoBody))
	body := rec.Body.String()
	for _, want := range []string{
		"primepipe_host_cpu_percent 42.5",
		"primepipe_host_memory_percent 12",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output should contain %q", want)
		}
	}
}

func TestServer_metricsMiddleware(t *testing.T) {
	t.Run("Next handler is called", func(t *testing.T) {
		s := &Server{metrics: NewMetrics()}
		nextCalled := false
		handler := s.metricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
			w.WriteHeader(http.StatusOK)
		})
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest("GET", "/test", http.NoBody))
		if !nextCalled {
			t.Error("next handler was not called")
		}
	})

	t.Run("Status code is recorded", func(t *testing.T) {
		s := &Server{metrics: NewMetrics()}
		handler := s.metricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest("GET", "/brew", http.NoBody))
		if rec.Code != http.StatusTeapot {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
		}

		out := httptest.NewRecorder()
		s.metrics.WritePrometheus(out, httptest.NewRequest("GET", "/metrics", http.NoBody))
		if !strings.Contains(out.Body.String(), `primepipe_requests_total{code="418",path="/brew"} 1`) {
			t.Error("request counter should carry path and status labels")
		}
		if !strings.Contains(out.Body.String(), "primepipe_active_requests 0") {
			t.Error("active requests should be back to zero")
		}
	})
}

func TestServer_handleMetrics(t *testing.T) {
	t.Run("GET returns metrics", func(t *testing.T) {
		s := &Server{metrics: NewMetrics()}
		rec := httptest.NewRecorder()
		s.handleMetrics(rec, httptest.NewRequest("GET", "/metrics", http.NoBody))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), "primepipe_") {
			t.Error("response should contain primepipe metrics")
		}
	})

	for _, method := range []string{"POST", "PUT"} {
		t.Run(method+" returns method not allowed", func(t *testing.T) {
			s := &Server{metrics: NewMetrics(), logger: newTestLogger()}
			rec := httptest.NewRecorder()
			s.handleMetrics(rec, httptest.NewRequest(method, "/metrics", http.NoBody))
			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
			}
		})
	}
}

// testLogger is a minimal logger for testing that implements logging.Logger.
type testLogger struct{}

func newTestLogger() *testLogger                                  { return &testLogger{} }
func (l *testLogger) Info(_ string, _ ...logging.Field)           {}
func (l *testLogger) Error(_ string, _ error, _ ...logging.Field) {}
func (l *testLogger) Debug(_ string, _ ...logging.Field)          {}
func (l *testLogger) Printf(_ string, _ ...any)                   {}
func (l *testLogger) Println(_ ...any)                            {}
