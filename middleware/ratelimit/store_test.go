package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	t.Run("NewMemoryStore", func(t *testing.T) {
		store := NewMemoryStore()
		if store == nil {
			t.Fatal("expected store to be created")
		}
		if store.entries == nil {
			t.Error("expected entries map to be initialized")
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		store := NewMemoryStore()
		count, resetTime, exists := store.Get("non-existent")

		if exists {
			t.Error("expected key to not exist")
		}
		if count != 0 {
			t.Errorf("expected count 0, got %d", count)
		}
		if !resetTime.IsZero() {
			t.Error("expected zero time")
		}
	})

	t.Run("Set and Get", func(t *testing.T) {
		store := NewMemoryStore()
		key := "test-key"
		expectedCount := 5
		expectedResetTime := time.Now().Add(time.Minute)

		store.Set(key, expectedCount, expectedResetTime)

		count, resetTime, exists := store.Get(key)
		if !exists {
			t.Error("expected key to exist")
		}
		if count != expectedCount {
			t.Errorf("expected count %d, got %d", expectedCount, count)
		}
		if !resetTime.Equal(expectedResetTime) {
			t.Errorf("expected reset time %v, got %v", expectedResetTime, resetTime)
		}
	})

	t.Run("Get expired entry", func(t *testing.T) {
		store := NewMemoryStore()
		key := "expired-key"
		pastTime := time.Now().Add(-time.Minute)

		store.Set(key, 5, pastTime)

		count, _, exists := store.Get(key)
		if exists {
			t.Error("expected expired key to not exist")
		}
		if count != 0 {
			t.Errorf("expected count 0, got %d", count)
		}
	})

	t.Run("Increment new key", func(t *testing.T) {
		store := NewMemoryStore()
		resetTime := time.Now().Add(time.Minute)

		count := store.Increment("increment-key", resetTime)
		if count != 1 {
			t.Errorf("expected count 1, got %d", count)
		}
	})

	t.Run("Increment existing key", func(t *testing.T) {
		store := NewMemoryStore()
		key := "increment-key"
		resetTime := time.Now().Add(time.Minute)

		store.Increment(key, resetTime)
		count := store.Increment(key, resetTime)
		if count != 2 {
			t.Errorf("expected count 2, got %d", count)
		}
	})

	t.Run("Increment restarts expired window", func(t *testing.T) {
		store := NewMemoryStore()
		key := "expired-window"

		store.Set(key, 9, time.Now().Add(-time.Second))

		count := store.Increment(key, time.Now().Add(time.Minute))
		if count != 1 {
			t.Errorf("expected count 1 after expiry, got %d", count)
		}
	})

	t.Run("Reset", func(t *testing.T) {
		store := NewMemoryStore()
		key := "reset-key"

		store.Set(key, 5, time.Now().Add(time.Minute))
		store.Reset(key)

		_, _, exists := store.Get(key)
		if exists {
			t.Error("expected key to be removed")
		}
	})

	t.Run("concurrent increments", func(t *testing.T) {
		store := NewMemoryStore()
		key := "concurrent-key"
		resetTime := time.Now().Add(time.Minute)

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				store.Increment(key, resetTime)
			}()
		}
		wg.Wait()

		count, _, exists := store.Get(key)
		if !exists {
			t.Fatal("expected key to exist")
		}
		if count != 50 {
			t.Errorf("expected count 50, got %d", count)
		}
	})
}
