// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestMemoryCache(maxSize int) (*MemoryCache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute, MaxSize: maxSize})
	c.now = clock.Now
	return c, clock
}

func TestMemoryCacheGetSet(t *testing.T) {
	c, _ := newTestMemoryCache(0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get(missing) error = %v, want ErrCacheMiss", err)
	}

	value := []byte("değer")
	if err := c.Set(ctx, "key", value, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value[0] = 'X'

	got, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "değer" {
		t.Errorf("Get = %q, want %q (stored value must be a copy)", got, "değer")
	}

	got[0] = 'Y'
	again, _ := c.Get(ctx, "key")
	if string(again) != "değer" {
		t.Errorf("returned slice aliases the cache: %q", again)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c, clock := newTestMemoryCache(0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "short", []byte("1"), 10*time.Second)
	_ = c.Set(ctx, "default", []byte("2"), 0)

	clock.Advance(30 * time.Second)

	if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expired entry returned err = %v, want ErrCacheMiss", err)
	}
	if ok, _ := c.Has(ctx, "short"); ok {
		t.Error("Has reports an expired entry")
	}
	if ok, _ := c.Has(ctx, "default"); !ok {
		t.Error("entry with default TTL expired too early")
	}

	clock.Advance(time.Minute)
	c.removeExpired()
	if n := c.Len(); n != 0 {
		t.Errorf("Len after cleanup = %d, want 0", n)
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	c, clock := newTestMemoryCache(2)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("a"), time.Minute)
	clock.Advance(time.Second)
	_ = c.Set(ctx, "b", []byte("b"), time.Minute)
	clock.Advance(time.Second)
	_ = c.Set(ctx, "c", []byte("c"), time.Minute)

	if n := c.Len(); n != 2 {
		t.Fatalf("Len = %d, want 2", n)
	}
	if ok, _ := c.Has(ctx, "a"); ok {
		t.Error("entry closest to expiry should have been evicted")
	}

	// Overwriting an existing key never evicts.
	_ = c.Set(ctx, "c", []byte("c2"), time.Minute)
	if ok, _ := c.Has(ctx, "b"); !ok {
		t.Error("overwrite evicted another entry")
	}
}

func TestMemoryCacheDeleteClearClose(t *testing.T) {
	c, _ := newTestMemoryCache(0)
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	_ = c.Delete(ctx, "a")
	if ok, _ := c.Has(ctx, "a"); ok {
		t.Error("Delete left the entry")
	}

	_ = c.Clear(ctx)
	if n := c.Len(); n != 0 {
		t.Errorf("Len after Clear = %d, want 0", n)
	}

	_ = c.Close()
	_ = c.Close()
	if err := c.Set(ctx, "a", []byte("1"), 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close error = %v, want ErrCacheClosed", err)
	}
	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close error = %v, want ErrCacheClosed", err)
	}
}

func TestMemoryCacheStats(t *testing.T) {
	c, _ := newTestMemoryCache(0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), 0)
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "nope")

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 || s.Sets != 1 || s.Items != 1 {
		t.Errorf("Stats = %+v", s)
	}
	if s.HitRate < 66 || s.HitRate > 67 {
		t.Errorf("HitRate = %v, want ~66.7", s.HitRate)
	}

	c.ResetStats()
	if s := c.Stats(); s.Hits != 0 || s.Misses != 0 {
		t.Errorf("Stats after reset = %+v", s)
	}
}

func TestMemoryCacheConcurrent(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute, MaxSize: 50, CleanupInterval: time.Millisecond})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*200+i)%80)
				_ = c.Set(ctx, key, []byte(key), 0)
				_, _ = c.Get(ctx, key)
			}
		}(g)
	}
	wg.Wait()

	if n := c.Len(); n > 50 {
		t.Errorf("Len = %d, exceeds MaxSize 50", n)
	}
}
