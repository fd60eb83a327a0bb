package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/wonny/weekday-effect/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	cfg := config.Default()

	client, err := New(context.Background(), cfg.Redis)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
	if client.Addr() != "localhost:6379" {
		t.Errorf("Addr() = %q, want localhost:6379", client.Addr())
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping() on disabled client error = %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNewClient_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test")
	}

	cfg := config.Default()
	cfg.Redis.Enabled = true
	cfg.Redis.Port = "1" // nothing listens here

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := New(ctx, cfg.Redis); err == nil {
		t.Error("Expected connection error")
	}
}

func TestCache_Disabled(t *testing.T) {
	client, _ := New(context.Background(), config.Default().Redis)
	cache := NewCache(client, "weekday")
	ctx := context.Background()

	if cache.Enabled() {
		t.Error("Expected cache to be disabled")
	}

	// When Redis is disabled, cache operations should be no-ops
	if err := cache.Set(ctx, "key", []byte("value"), TTLDaily); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var result []byte
	found, err := cache.Get(ctx, "key", &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}
}

func TestCache_Nil(t *testing.T) {
	var cache *Cache
	if cache.Enabled() {
		t.Error("Expected nil cache to be disabled")
	}
}

func TestPageKey(t *testing.T) {
	a := PageKey("https://example.com/sectors")
	b := PageKey("https://example.com/sectors?page=2")

	if !strings.HasPrefix(a, "page:") {
		t.Errorf("Expected page: prefix, got %s", a)
	}
	if a == b {
		t.Error("Expected different keys for different URLs")
	}
	if a != PageKey("https://example.com/sectors") {
		t.Error("Expected stable key")
	}
}
