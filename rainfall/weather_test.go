package rainfall

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRecentRainfallParsesResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "test-key" {
			t.Errorf("missing appid in request: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"daily":[{"dt":1756600000,"rain":12.4},{"dt":1756686400,"rain":3.1}]}`))
	}))
	defer server.Close()

	client := NewOWMClient("test-key")
	client.baseURL = server.URL

	mm, err := client.RecentRainfall(context.Background(), 12.97, 77.59)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mm != 12.4 {
		t.Errorf("rainfall = %v, want today's 12.4", mm)
	}
}

func TestRecentRainfallMissingKeyFailsFast(t *testing.T) {
	t.Parallel()

	client := NewOWMClient("")
	if _, err := client.RecentRainfall(context.Background(), 0, 0); err == nil {
		t.Error("expected error without api key")
	}
}

func TestRecentRainfallUpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewOWMClient("test-key")
	client.baseURL = server.URL

	if _, err := client.RecentRainfall(context.Background(), 0, 0); err == nil {
		t.Error("expected error for non-2xx response")
	}
}

func TestRecentRainfallBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewOWMClient("test-key")
	client.baseURL = server.URL

	for i := 0; i < 5; i++ {
		if _, err := client.RecentRainfall(context.Background(), 0, 0); err == nil {
			t.Fatal("expected error from failing upstream")
		}
	}

	// The breaker trips after 3 consecutive failures; the remaining calls
	// must not reach the server.
	if hits != 3 {
		t.Errorf("upstream hit %d times, want 3 before the breaker opened", hits)
	}
}
