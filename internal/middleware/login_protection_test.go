// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestLoginProtection(t *testing.T, maxAttempts int) (*LoginProtection, *testClock) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	lp := NewLoginProtection(ctx, LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	})
	clock := &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	lp.now = clock.Now
	return lp, clock
}

func TestNewLoginProtectionDefaults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lp := NewLoginProtection(ctx, LoginProtectionConfig{})
	assert.Equal(t, 5, lp.maxFailedAttempts)
	assert.Equal(t, 15*time.Minute, lp.lockoutDuration)
	assert.Equal(t, 15*time.Minute, lp.attemptWindow)
}

func TestLoginProtectionLockout(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 3)
	email := "Ayse@Example.com"

	for i := 0; i < 2; i++ {
		locked, _ := lp.RecordFailedAttempt(email)
		assert.False(t, locked, "attempt %d", i+1)
	}
	assert.Equal(t, 1, lp.GetRemainingAttempts("ayse@example.com"))

	locked, d := lp.RecordFailedAttempt(email)
	assert.True(t, locked)
	assert.Equal(t, 15*time.Minute, d)

	locked, remaining := lp.IsAccountLocked("ayse@example.com")
	assert.True(t, locked, "lookup must ignore case")
	assert.Equal(t, 15*time.Minute, remaining)

	clock.Advance(16 * time.Minute)
	locked, _ = lp.IsAccountLocked(email)
	assert.False(t, locked)
}

func TestLoginProtectionExponentialBackoff(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 1)
	email := "mehmet@example.com"

	want := []time.Duration{
		15 * time.Minute,
		30 * time.Minute,
		time.Hour,
	}
	for i, w := range want {
		locked, d := lp.RecordFailedAttempt(email)
		assert.True(t, locked)
		assert.Equal(t, w, d, "lockout %d", i+1)
		clock.Advance(d + time.Second)
	}

	for i := 0; i < 10; i++ {
		_, d := lp.RecordFailedAttempt(email)
		clock.Advance(d + time.Second)
		assert.LessOrEqual(t, d, maxLockoutDuration)
	}
	_, d := lp.RecordFailedAttempt(email)
	assert.Equal(t, maxLockoutDuration, d)
}

func TestLoginProtectionWindowReset(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 3)
	email := "zeynep@example.com"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	clock.Advance(20 * time.Minute)

	locked, _ := lp.RecordFailedAttempt(email)
	assert.False(t, locked, "attempts outside the window should not count")
	assert.Equal(t, 2, lp.GetRemainingAttempts(email))
}

func TestLoginProtectionSuccessClears(t *testing.T) {
	lp, _ := newTestLoginProtection(t, 3)
	email := "can@example.com"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	lp.RecordSuccessfulLogin(email)

	assert.Equal(t, 3, lp.GetRemainingAttempts(email))
}

func TestLoginProtectionCleanup(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 3)
	lp.RecordFailedAttempt("a@example.com")
	clock.Advance(time.Hour)

	lp.cleanupStaleEntries()

	lp.attemptsMu.RLock()
	defer lp.attemptsMu.RUnlock()
	assert.Empty(t, lp.failedAttempts)
}

func TestLoginProtectionMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lp := NewLoginProtection(ctx, LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(method, addr string) int {
		req := httptest.NewRequest(method, "/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do(http.MethodPost, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, do(http.MethodPost, "10.0.0.1:1235"))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "10.0.0.1:1236"))
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "10.0.0.1:1237"), "GET is never limited")
	assert.Equal(t, http.StatusOK, do(http.MethodPost, "10.0.0.2:1234"), "limits are per IP")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", clientIP(req))

	req.RemoteAddr = "192.0.2.8"
	assert.Equal(t, "192.0.2.8", clientIP(req))
}
