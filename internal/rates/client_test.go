package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestLatestFetchesAndCaches(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","date":"2025-06-01","rates":{"EUR":0.92,"GBP":0.79}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Minute)

	got, err := c.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got.Base != "USD" || got.Rates["EUR"] != 0.92 {
		t.Fatalf("unexpected rates: %+v", got)
	}

	// Second call within the TTL must not hit the endpoint again.
	if _, err := c.Latest(context.Background()); err != nil {
		t.Fatalf("latest: %v", err)
	}
	if n := atomic.LoadInt64(&hits); n != 1 {
		t.Fatalf("expected 1 upstream hit, got %d", n)
	}
}

func TestLatestUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Minute)
	if _, err := c.Latest(context.Background()); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}

func TestLatestExpiredCacheRefetches(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"EUR":1}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 10*time.Millisecond)
	if _, err := c.Latest(context.Background()); err != nil {
		t.Fatalf("latest: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := c.Latest(context.Background()); err != nil {
		t.Fatalf("latest: %v", err)
	}
	if n := atomic.LoadInt64(&hits); n != 2 {
		t.Fatalf("expected refetch after TTL, got %d hits", n)
	}
}
