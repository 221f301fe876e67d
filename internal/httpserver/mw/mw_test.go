package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/fellowship/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestAllowOnlyCIDRS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		remoteAddr string
		want       int
	}{
		{name: "empty list passes through", allowed: nil, remoteAddr: "203.0.113.9:5000", want: http.StatusNoContent},
		{name: "inside cidr", allowed: []string{"10.0.0.0/8"}, remoteAddr: "10.1.2.3:5000", want: http.StatusNoContent},
		{name: "single ip", allowed: []string{"127.0.0.1"}, remoteAddr: "127.0.0.1:5000", want: http.StatusNoContent},
		{name: "outside cidr", allowed: []string{"10.0.0.0/8"}, remoteAddr: "192.168.1.1:5000", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := AllowOnlyCIDRS(tt.allowed, false, logger.Nop())(okHandler)
			req := httptest.NewRequest(http.MethodGet, "/content/cache/stats", nil)
			req.RemoteAddr = tt.remoteAddr
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestEnforceHost(t *testing.T) {
	tests := []struct {
		name  string
		hosts []string
		host  string
		want  int
	}{
		{name: "passthrough", hosts: nil, host: "anything", want: http.StatusNoContent},
		{name: "exact", hosts: []string{"api.example.com"}, host: "api.example.com", want: http.StatusNoContent},
		{name: "port is ignored", hosts: []string{"localhost"}, host: "localhost:3001", want: http.StatusNoContent},
		{name: "wildcard", hosts: []string{"*.example.com"}, host: "admin.example.com", want: http.StatusNoContent},
		{name: "wildcard excludes apex", hosts: []string{"*.example.com"}, host: "example.com", want: http.StatusForbidden},
		{name: "case insensitive", hosts: []string{"API.example.com"}, host: "api.EXAMPLE.com", want: http.StatusNoContent},
		{name: "rejected", hosts: []string{"api.example.com"}, host: "evil.test", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := EnforceHost(tt.hosts, logger.Nop())(okHandler)
			req := httptest.NewRequest(http.MethodPost, "/content/cache/clear", nil)
			req.Host = tt.host
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 1})(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/moods/verses/recommend", nil)
		req.RemoteAddr = "198.51.100.7:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests && rec.Header().Get("Retry-After") == "" {
			t.Error("429 without Retry-After header")
		}
	}

	want := []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("codes = %v, want %v", codes, want)
		}
	}

	// another client has its own bucket
	req := httptest.NewRequest(http.MethodPost, "/moods/verses/recommend", nil)
	req.RemoteAddr = "198.51.100.8:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("second client status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestRateLimitRefill(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	h := RateLimit(RateLimitConfig{
		Burst:             1,
		RefillPerIPPerMin: 2,
		Now:               func() time.Time { return now },
	})(okHandler)

	hit := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/moods/verses/recommend", nil)
		req.RemoteAddr = "198.51.100.9:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := hit(); rec.Code != http.StatusNoContent {
		t.Fatalf("first request status = %d", rec.Code)
	}
	rec := hit()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "30" {
		t.Errorf("Retry-After = %q, want 30", got)
	}

	now = now.Add(30 * time.Second)
	if rec := hit(); rec.Code != http.StatusNoContent {
		t.Errorf("after refill status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}
