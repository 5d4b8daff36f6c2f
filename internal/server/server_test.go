package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/agbru/primepipe/internal/strategy"
)

func newTestServer() *Server {
	return New(Config{DefaultWorkers: 2, Security: DefaultSecurityConfig()}, strategy.NewDefaultFactory(), newTestLogger())
}

func TestHandlePrimes(t *testing.T) {
	t.Parallel()
	s := newTestServer()

	tests := []struct {
		name   string
		query  string
		status int
		want   []uint64
		field  string
	}{
		{"queue default", "lo=10&hi=20&sorted=true", http.StatusOK, []uint64{11, 13, 17, 19}, ""},
		{"hundred million", "lo=100000000&hi=100000050&workers=4&sorted=1", http.StatusOK, []uint64{100000007, 100000037, 100000039, 100000049}, ""},
		{"pool strategy", "lo=1&hi=12&strategy=pool", http.StatusOK, []uint64{2, 3, 5, 7, 11}, ""},
		{"no primes", "lo=24&hi=28", http.StatusOK, []uint64{}, ""},
		{"missing lo", "hi=20", http.StatusBadRequest, nil, "lo"},
		{"zero lo", "lo=0&hi=20", http.StatusBadRequest, nil, "lo"},
		{"empty range", "lo=20&hi=20", http.StatusBadRequest, nil, "range"},
		{"range too large", "lo=1&hi=20000002", http.StatusBadRequest, nil, "range"},
		{"bad workers", "lo=1&hi=20&workers=0", http.StatusBadRequest, nil, "workers"},
		{"too many workers", "lo=1&hi=20&workers=1000", http.StatusBadRequest, nil, "workers"},
		{"bad sorted", "lo=1&hi=20&sorted=maybe", http.StatusBadRequest, nil, "sorted"},
		{"unknown strategy", "lo=1&hi=20&strategy=magic", http.StatusBadRequest, nil, "strategy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/primes?"+tt.query, http.NoBody))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				var resp ErrorResponse
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("decode error body: %v", err)
				}
				if resp.Field != tt.field {
					t.Errorf("field = %q, want %q", resp.Field, tt.field)
				}
				return
			}
			var resp PrimesResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			got := slices.Clone(resp.Primes)
			slices.Sort(got)
			if !slices.Equal(got, tt.want) {
				t.Errorf("primes = %v, want %v", got, tt.want)
			}
			if resp.Count != len(tt.want) {
				t.Errorf("count = %d, want %d", resp.Count, len(tt.want))
			}
		})
	}
}

func TestHandlePrimes_Timeout(t *testing.T) {
	t.Parallel()
	s := New(Config{DefaultWorkers: 2, RequestTimeout: time.Nanosecond, Security: DefaultSecurityConfig()},
		strategy.NewDefaultFactory(), newTestLogger())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/primes?lo=1&hi=10000000", http.NoBody))
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusGatewayTimeout)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if !strings.Contains(resp.Error, "timed out after 1ns") {
		t.Errorf("error = %q, want a timeout message", resp.Error)
	}
}

func TestNew_DefaultWorkersClampedToLimit(t *testing.T) {
	t.Parallel()
	sec := DefaultSecurityConfig()
	sec.MaxWorkers = 2
	tests := []struct {
		name string
		cfg  Config
		want int
	}{
		{"explicit above limit", Config{DefaultWorkers: 128, Security: sec}, 2},
		{"explicit within limit", Config{DefaultWorkers: 1, Security: sec}, 1},
		{"no limit", Config{DefaultWorkers: 128}, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := New(tt.cfg, strategy.NewDefaultFactory(), newTestLogger())
			if s.cfg.DefaultWorkers != tt.want {
				t.Errorf("DefaultWorkers = %d, want %d", s.cfg.DefaultWorkers, tt.want)
			}
		})
	}

	s := New(Config{DefaultWorkers: 128, Security: sec}, strategy.NewDefaultFactory(), newTestLogger())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/primes?lo=10&hi=20", http.NoBody))
	if rec.Code != http.StatusOK {
		t.Fatalf("request without workers = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var resp PrimesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Workers != 2 {
		t.Errorf("workers = %d, want 2", resp.Workers)
	}
}

func TestHandleHealthAndStrategies(t *testing.T) {
	t.Parallel()
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", http.NoBody))
	if rec.Code != http.StatusOK {
		t.Errorf("/healthz status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/strategies", http.NoBody))
	var body map[string][]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !slices.Equal(body["strategies"], []string{"pool", "queue", "sequential"}) {
		t.Errorf("strategies = %v", body["strategies"])
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("DELETE", "/healthz", http.NoBody))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE /healthz status = %d, want 405", rec.Code)
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()
	s := newTestServer()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}
}
