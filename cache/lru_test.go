package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/deeplooplabs/responses-go/openresponses"
)

func completedResponse(id string) *openresponses.Response {
	resp := openresponses.NewResponse(id, "gpt-4.1")
	resp.Status = openresponses.ResponseStatusCompleted
	return resp
}

func TestLRUCache_SetGet(t *testing.T) {
	cache := NewLRUCache(DefaultConfig())

	resp := completedResponse("resp_1")
	if err := cache.Set(resp.ID, resp, 5*time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	retrieved, found := cache.Get("resp_1")
	if !found {
		t.Fatal("Expected to find response in cache")
	}
	if retrieved.ID != "resp_1" {
		t.Fatalf("Expected resp_1, got %s", retrieved.ID)
	}
}

func TestLRUCache_NonTerminalNotStored(t *testing.T) {
	cache := NewLRUCache(DefaultConfig())

	resp := openresponses.NewResponse("resp_live", "gpt-4.1")
	resp.Status = openresponses.ResponseStatusInProgress
	if err := cache.Set(resp.ID, resp, 5*time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, found := cache.Get("resp_live"); found {
		t.Fatal("Expected in-progress response to be skipped")
	}
}

func TestLRUCache_Expiration(t *testing.T) {
	cache := NewLRUCache(DefaultConfig())

	resp := completedResponse("resp_expire")
	if err := cache.Set(resp.ID, resp, 100*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, found := cache.Get("resp_expire"); !found {
		t.Fatal("Expected to find response in cache")
	}

	time.Sleep(200 * time.Millisecond)

	if _, found := cache.Get("resp_expire"); found {
		t.Fatal("Expected response to be expired")
	}
}

func TestLRUCache_LRUEviction(t *testing.T) {
	config := &Config{
		MaxItems:   2,
		DefaultTTL: 5 * time.Minute,
		Enabled:    true,
	}
	cache := NewLRUCache(config)

	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("resp_%d", i)
		cache.Set(id, completedResponse(id), 5*time.Minute)
	}

	// resp_1 should be evicted
	if _, found := cache.Get("resp_1"); found {
		t.Fatal("Expected resp_1 to be evicted")
	}
	if _, found := cache.Get("resp_2"); !found {
		t.Fatal("Expected resp_2 to exist")
	}
	if _, found := cache.Get("resp_3"); !found {
		t.Fatal("Expected resp_3 to exist")
	}
}

func TestLRUCache_Stats(t *testing.T) {
	cache := NewLRUCache(DefaultConfig())

	stats := cache.Stats()
	if stats.Hits != 0 || stats.Misses != 0 {
		t.Fatal("Expected zero stats initially")
	}

	cache.Set("resp_1", completedResponse("resp_1"), 5*time.Minute)
	cache.Get("resp_1") // hit
	cache.Get("resp_2") // miss

	stats = cache.Stats()
	if stats.Hits != 1 {
		t.Fatalf("Expected 1 hit, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Fatalf("Expected 1 miss, got %d", stats.Misses)
	}
}
