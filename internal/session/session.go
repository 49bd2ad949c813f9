// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the scs session manager and the values the
// blog keeps in a session.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys
const (
	KeyUserID    = "user_id"
	KeyFlash     = "flash"
	KeyFlashType = "flash_type"
)

// Flash types, used as CSS modifiers in the layout.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Lifetime is how long an idle-or-not session stays valid.
const Lifetime = 24 * time.Hour

// New creates a session manager backed by the sessions table in db.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = Lifetime
	sm.Cookie.Name = "timora_session"
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	// __Host- cookies require Secure and Path=/ and no Domain
	if !isDev {
		sm.Cookie.Name = "__Host-timora_session"
	}

	return sm
}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Message string
	Type    string
}

// PutFlash stores a flash message in the session.
func PutFlash(ctx context.Context, sm *scs.SessionManager, flashType, message string) {
	sm.Put(ctx, KeyFlash, message)
	sm.Put(ctx, KeyFlashType, flashType)
}

// PopFlash removes and returns the pending flash message, if any.
func PopFlash(ctx context.Context, sm *scs.SessionManager) (Flash, bool) {
	msg := sm.PopString(ctx, KeyFlash)
	flashType := sm.PopString(ctx, KeyFlashType)
	if msg == "" {
		return Flash{}, false
	}
	if flashType == "" {
		flashType = FlashInfo
	}
	return Flash{Message: msg, Type: flashType}, true
}
