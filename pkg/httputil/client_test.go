package httputil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wonny/weekday-effect/pkg/config"
	"github.com/wonny/weekday-effect/pkg/logger"
	"github.com/wonny/weekday-effect/pkg/redis"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.LogLevel = "error" // Reduce log noise
	cfg.HTTP.RateLimit = 0
	return cfg
}

func TestNew(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.Timeout = 5 * time.Second

	client := New(cfg, logger.Nop())
	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.httpClient.Timeout != 5*time.Second {
		t.Errorf("Expected timeout=5s, got %v", client.httpClient.Timeout)
	}

	if client.retryConfig.MaxRetries != 3 || !client.retryConfig.Enabled {
		t.Errorf("Expected 3 enabled retries, got %+v", client.retryConfig)
	}

	if client.limiter != nil {
		t.Error("Expected no limiter when RateLimit is 0")
	}
}

func TestNewWithRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.RateLimit = 2

	client := New(cfg, nil)
	if client.limiter == nil {
		t.Fatal("Expected limiter to be set")
	}
	if client.logger == nil {
		t.Error("Expected nil logger to be replaced")
	}
}

func TestNewWithoutRetries(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.MaxRetries = 0

	if New(cfg, nil).retryConfig.Enabled {
		t.Error("Expected retry to be disabled when MaxRetries is 0")
	}
}

func TestWithRetry(t *testing.T) {
	client := New(testConfig(), nil).WithRetry(5, 2*time.Second)

	if client.retryConfig.MaxRetries != 5 {
		t.Errorf("Expected MaxRetries=5, got %d", client.retryConfig.MaxRetries)
	}

	if client.retryConfig.InitialDelay != 2*time.Second {
		t.Errorf("Expected InitialDelay=2s, got %v", client.retryConfig.InitialDelay)
	}
}

func TestDisableRetry(t *testing.T) {
	client := New(testConfig(), nil).DisableRetry()

	if client.retryConfig.Enabled {
		t.Error("Expected retry to be disabled")
	}
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`<table></table>`))
	}))
	defer server.Close()

	client := New(testConfig(), nil)

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GET request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("삼성전자|Tech"))
	}))
	defer server.Close()

	client := New(testConfig(), nil)

	body, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(body) != "삼성전자|Tech" {
		t.Errorf("Unexpected body %q", body)
	}

	if _, err := client.Fetch(context.Background(), server.URL+"/missing"); err == nil {
		t.Error("Expected error for 404")
	}
}

func TestFetchWithDisabledCache(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	rc, err := redis.New(context.Background(), testConfig().Redis)
	if err != nil {
		t.Fatalf("redis.New() error = %v", err)
	}
	client := New(testConfig(), nil).WithCache(redis.NewCache(rc, "weekday"), time.Hour)

	for i := 0; i < 2; i++ {
		if _, err := client.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
	}

	// disabled cache never short-circuits
	if hits != 2 {
		t.Errorf("Expected 2 requests, got %d", hits)
	}
}

func TestWithCacheDefaultTTL(t *testing.T) {
	client := New(testConfig(), nil).WithCache(nil, 0)
	if client.cacheTTL != redis.TTLDaily {
		t.Errorf("Expected TTL %v, got %v", redis.TTLDaily, client.cacheTTL)
	}
}

func TestRetryOn5xx(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			// Return 503 for first 2 attempts
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		// Success on 3rd attempt
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(testConfig(), nil).WithRetry(3, 10*time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Request failed after retries: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetryCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := New(testConfig(), nil).WithRetry(5, time.Second)
	if _, err := client.Get(ctx, server.URL); err == nil {
		t.Error("Expected error when context expires during backoff")
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		statusCode int
		want       bool
	}{
		{200, false},
		{201, false},
		{400, false},
		{404, false},
		{429, true}, // Too Many Requests - should retry
		{500, true}, // Internal Server Error
		{502, true}, // Bad Gateway
		{503, true}, // Service Unavailable
		{504, true}, // Gateway Timeout
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.statusCode), func(t *testing.T) {
			got := IsRetryableError(tt.statusCode)
			if got != tt.want {
				t.Errorf("IsRetryableError(%d) = %v, want %v", tt.statusCode, got, tt.want)
			}
		})
	}
}
