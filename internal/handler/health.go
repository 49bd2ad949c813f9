// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/timora/timora-blog/internal/cache"
	"github.com/timora/timora-blog/internal/version"
)

// Health status values.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db           *sql.DB
	cache        cache.Cacher
	cacheBackend string
	uploadsDir   string
	version      version.Info
	startTime    time.Time
}

// NewHealthHandler creates a new health handler. c may be nil.
func NewHealthHandler(db *sql.DB, c cache.Cacher, cacheBackend, uploadsDir string, info version.Info) *HealthHandler {
	return &HealthHandler{
		db:           db,
		cache:        c,
		cacheBackend: cacheBackend,
		uploadsDir:   uploadsDir,
		version:      info,
		startTime:    time.Now(),
	}
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health reports database, cache and uploads directory status.
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"database": h.checkDatabase(r.Context()),
		"uploads":  h.checkUploads(),
	}
	if h.cache != nil {
		checks["cache"] = h.checkCache(r.Context())
	}

	overall := statusHealthy
	for _, c := range checks {
		if c.Status != statusHealthy {
			overall = statusDegraded
			break
		}
	}

	code := http.StatusOK
	if overall != statusHealthy {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.Short(),
		Checks:    checks,
	})
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready - ready when the database answers.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())
	if dbCheck.Status != statusHealthy {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": dbCheck.Message,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.db.PingContext(ctx); err != nil {
		return Check{Status: statusUnhealthy, Message: "database ping failed"}
	}
	var one int
	if err := h.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return Check{Status: statusUnhealthy, Message: "database query failed"}
	}
	return Check{Status: statusHealthy, Latency: time.Since(start).String()}
}

func (h *HealthHandler) checkCache(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	start := time.Now()
	if _, err := h.cache.Has(ctx, "health:probe"); err != nil {
		return Check{Status: statusUnhealthy, Message: h.cacheBackend + " cache unavailable"}
	}
	return Check{Status: statusHealthy, Message: h.cacheBackend, Latency: time.Since(start).String()}
}

func (h *HealthHandler) checkUploads() Check {
	info, err := os.Stat(h.uploadsDir)
	if err != nil {
		return Check{Status: statusUnhealthy, Message: "uploads directory missing"}
	}
	if !info.IsDir() {
		return Check{Status: statusUnhealthy, Message: "uploads path is not a directory"}
	}
	return Check{Status: statusHealthy}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
