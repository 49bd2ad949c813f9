// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication, language
// selection, CSRF protection, security headers and login throttling.
package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/alexedwards/scs/v2"

	"github.com/timora/timora-blog/internal/i18n"
	"github.com/timora/timora-blog/internal/service"
	"github.com/timora/timora-blog/internal/session"
	"github.com/timora/timora-blog/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for the signed-in account.
const (
	ContextKeyUser    ContextKey = "user"
	ContextKeyProfile ContextKey = "profile"
)

// LoginPath is where RequireAuth sends anonymous visitors.
const LoginPath = "/login"

// LoadUser puts the signed-in user and their profile into the request
// context. A session pointing at a deleted account is cleared and the request
// continues anonymously. Missing profiles are created on first use.
func LoadUser(sm *scs.SessionManager, db *sql.DB, profiles *service.ProfileService) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := sm.GetInt64(ctx, session.KeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(ctx, userID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					sm.Remove(ctx, session.KeyUserID)
				} else {
					slog.Error("failed to load session user", "user_id", userID, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx = context.WithValue(ctx, ContextKeyUser, user)

			profile, err := profiles.EnsureProfile(ctx, user)
			if err != nil {
				slog.Error("failed to load profile", "user_id", userID, "error", err)
			} else {
				ctx = context.WithValue(ctx, ContextKeyProfile, profile)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth redirects anonymous visitors to the login page, carrying the
// requested path as returnUrl. Use after LoadUser.
func RequireAuth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetUser(r) == nil || GetProfile(r) == nil {
				session.PutFlash(r.Context(), sm, session.FlashInfo, i18n.T(GetLanguage(r), "msg.login_required"))

				target := LoginPath
				if r.Method == http.MethodGet {
					target += "?returnUrl=" + url.QueryEscape(r.URL.RequestURI())
				}
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser returns the signed-in user, or nil.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the signed-in user's ID, or 0.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// GetProfile returns the signed-in user's profile, or nil.
func GetProfile(r *http.Request) *store.UserProfile {
	profile, ok := r.Context().Value(ContextKeyProfile).(store.UserProfile)
	if !ok {
		return nil
	}
	return &profile
}

// GetProfileID returns the signed-in user's profile ID, or 0.
func GetProfileID(r *http.Request) int64 {
	if profile := GetProfile(r); profile != nil {
		return profile.ID
	}
	return 0
}

// WithUser returns a copy of ctx carrying user and profile. Used by tests
// and by handlers that sign a user in mid-request.
func WithUser(ctx context.Context, user store.User, profile store.UserProfile) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUser, user)
	return context.WithValue(ctx, ContextKeyProfile, profile)
}
