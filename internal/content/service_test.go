package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/fellowship/internal/apperr"
	"github.com/MrSnakeDoc/fellowship/internal/cache"
	"github.com/MrSnakeDoc/fellowship/internal/logger"
)

type mapStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mapStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

type upstreamStub struct {
	hits   atomic.Int32
	status int
	paths  chan string
}

func newUpstream(t *testing.T, status int) (*upstreamStub, *Client) {
	t.Helper()
	stub := &upstreamStub{status: status, paths: make(chan string, 16)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.hits.Add(1)
		if r.Header.Get("api-key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		stub.paths <- r.URL.RequestURI()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(stub.status)
		_, _ = w.Write([]byte(`{"data":{"path":"` + r.URL.Path + `"}}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL+"/v1", "test-key", 2*time.Second, logger.Nop())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return stub, client
}

func newService(t *testing.T, status int) (*Service, *upstreamStub, *mapStore) {
	t.Helper()
	stub, client := newUpstream(t, status)
	store := &mapStore{data: map[string][]byte{}}
	gw := cache.NewGateway(store, cache.Options{}, logger.Nop())
	return NewService(gw, client), stub, store
}

func TestServiceRoutesAndKeys(t *testing.T) {
	tests := []struct {
		name    string
		call    func(s *Service) error
		wantURI string
		wantKey string
	}{
		{
			name:    "bibles",
			call:    func(s *Service) error { _, err := s.ListBibles(context.Background()); return err },
			wantURI: "/v1/bibles",
			wantKey: "bibles",
		},
		{
			name:    "books",
			call:    func(s *Service) error { _, err := s.ListBooks(context.Background(), "kjv"); return err },
			wantURI: "/v1/bibles/kjv/books",
			wantKey: "books:kjv",
		},
		{
			name:    "chapters",
			call:    func(s *Service) error { _, err := s.ListChapters(context.Background(), "kjv", "GEN"); return err },
			wantURI: "/v1/bibles/kjv/books/GEN/chapters",
			wantKey: "chapters:kjv:GEN",
		},
		{
			name:    "verses of a chapter",
			call:    func(s *Service) error { _, err := s.ListVerses(context.Background(), "kjv", "GEN.1"); return err },
			wantURI: "/v1/bibles/kjv/chapters/GEN.1/verses",
			wantKey: "verses:kjv:GEN.1",
		},
		{
			name:    "single verse",
			call:    func(s *Service) error { _, err := s.GetVerse(context.Background(), "kjv", "GEN.1.1"); return err },
			wantURI: "/v1/bibles/kjv/verses/GEN.1.1",
			wantKey: "verse:kjv:GEN.1.1",
		},
		{
			name:    "chapter text",
			call:    func(s *Service) error { _, err := s.GetChapter(context.Background(), "GEN.1"); return err },
			wantURI: "/v1/chapters/GEN.1?content-type=text",
			wantKey: "chapter:GEN.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, stub, store := newService(t, http.StatusOK)

			for i := 0; i < 2; i++ {
				if err := tt.call(svc); err != nil {
					t.Fatalf("call %d error = %v", i, err)
				}
			}

			if got := stub.hits.Load(); got != 1 {
				t.Errorf("upstream hits = %d, want 1", got)
			}
			if got := <-stub.paths; got != tt.wantURI {
				t.Errorf("upstream uri = %q, want %q", got, tt.wantURI)
			}
			if _, ok := store.data[tt.wantKey]; !ok {
				t.Errorf("cache key %q not written, have %v", tt.wantKey, store.data)
			}
		})
	}
}

func TestServiceUpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantStatus int
	}{
		{name: "not found passes through", status: http.StatusNotFound, wantStatus: http.StatusNotFound},
		{name: "bad request passes through", status: http.StatusBadRequest, wantStatus: http.StatusBadRequest},
		{name: "server error becomes bad gateway", status: http.StatusInternalServerError, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, stub, store := newService(t, tt.status)

			_, err := svc.GetVerse(context.Background(), "kjv", "NOPE.1.1")
			var appErr *apperr.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("error = %v, want *apperr.AppError", err)
			}
			if appErr.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", appErr.StatusCode, tt.wantStatus)
			}
			var ue *UpstreamError
			if !errors.As(err, &ue) || ue.Status != tt.status {
				t.Errorf("upstream error = %v", ue)
			}
			if len(store.data) != 0 {
				t.Errorf("failure was cached: %v", store.data)
			}

			_, _ = svc.GetVerse(context.Background(), "kjv", "NOPE.1.1")
			if got := stub.hits.Load(); got != 2 {
				t.Errorf("upstream hits = %d, want 2", got)
			}
		})
	}
}

func TestClientTransportFailure(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:1/v1/", "k", 200*time.Millisecond, logger.Nop())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	_, err = client.Get(context.Background(), "bibles", nil)

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UpstreamError", err)
	}
	if ue.Status != 0 || ue.HTTPStatus() != http.StatusBadGateway {
		t.Errorf("status = %d, http = %d", ue.Status, ue.HTTPStatus())
	}
}

func TestRefreshBibles(t *testing.T) {
	svc, stub, store := newService(t, http.StatusOK)
	store.data["bibles"] = []byte(`"stale"`)

	if err := svc.RefreshBibles(context.Background(), []string{"kjv", "web"}); err != nil {
		t.Fatalf("RefreshBibles() error = %v", err)
	}
	if got := stub.hits.Load(); got != 3 {
		t.Errorf("upstream hits = %d, want 3", got)
	}
	for _, k := range []string{"bibles", "books:kjv", "books:web"} {
		if v, ok := store.data[k]; !ok || string(v) == `"stale"` {
			t.Errorf("key %s = %s, want refreshed", k, v)
		}
	}
}
