package discovery

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	cache := NewCache(DefaultCacheConfig())

	cache.Set("key", "value")

	val, ok := cache.Get("key")
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if val != "value" {
		t.Errorf("Get() = %v, want value", val)
	}

	if _, ok := cache.Get("missing"); ok {
		t.Error("Get() for missing key ok = true, want false")
	}
}

func TestCache_Expiry(t *testing.T) {
	cache := NewCache(DefaultCacheConfig())

	cache.SetWithTTL("key", "value", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, ok := cache.Get("key"); ok {
		t.Error("Get() ok = true for expired item, want false")
	}
}

func TestCache_DeleteAndClear(t *testing.T) {
	cache := NewCache(DefaultCacheConfig())

	cache.Set("a", 1)
	cache.Set("b", 2)

	cache.Delete("a")
	if _, ok := cache.Get("a"); ok {
		t.Error("deleted key still present")
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", cache.Len())
	}
}

func TestCache_TypedGetters(t *testing.T) {
	cache := NewCache(DefaultCacheConfig())

	cache.Set("results", []SearchResult{{ID: 1, Title: "A"}})
	cache.Set("genres", []GenreEntry{{ID: 28, Name: "Action"}})

	results, ok := cache.GetSearchResults("results")
	if !ok || len(results) != 1 {
		t.Errorf("GetSearchResults() = %v, %v", results, ok)
	}

	genres, ok := cache.GetGenres("genres")
	if !ok || genres[0].Name != "Action" {
		t.Errorf("GetGenres() = %v, %v", genres, ok)
	}

	// A type mismatch reads as a miss rather than a panic.
	if _, ok := cache.GetGenres("results"); ok {
		t.Error("GetGenres() on a result-set entry ok = true, want false")
	}
}
