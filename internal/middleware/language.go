// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"github.com/timora/timora-blog/internal/i18n"
)

// ContextKeyLanguage holds the resolved UI language code.
const ContextKeyLanguage ContextKey = "language"

// LanguageCookieName is the cookie name for language preference.
const LanguageCookieName = "timora_lang"

// languageCookieMaxAge is one year in seconds.
const languageCookieMaxAge = 365 * 24 * 60 * 60

// Language resolves the UI language once per request. Priority order:
//  1. the language cookie, when it names a supported language
//  2. the Accept-Language header
//  3. the default language
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if cookie, err := r.Cookie(LanguageCookieName); err == nil {
			if code, ok := i18n.ParseLanguage(cookie.Value); ok {
				lang = code
			}
		}
		if lang == "" {
			lang = i18n.MatchLanguage(r.Header.Get("Accept-Language"))
		}

		ctx := WithLanguage(r.Context(), lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithLanguage returns a copy of ctx carrying lang.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ContextKeyLanguage, lang)
}

// GetLanguage returns the request language, or the default language when
// the Language middleware did not run.
func GetLanguage(r *http.Request) string {
	if lang, ok := r.Context().Value(ContextKeyLanguage).(string); ok && lang != "" {
		return lang
	}
	return i18n.Default()
}

// SetLanguageCookie stores the language preference for one year.
func SetLanguageCookie(w http.ResponseWriter, lang string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   languageCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
