// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/timora/timora-blog/internal/i18n"
	"github.com/timora/timora-blog/internal/middleware"
	"github.com/timora/timora-blog/internal/render"
	"github.com/timora/timora-blog/internal/util"
)

// LanguageHandler switches the UI language.
type LanguageHandler struct {
	renderer *render.Renderer
}

// NewLanguageHandler creates a new LanguageHandler.
func NewLanguageHandler(renderer *render.Renderer) *LanguageHandler {
	return &LanguageHandler{renderer: renderer}
}

// Set stores the chosen culture in the language cookie and returns to the
// local returnUrl, or home. Region-qualified codes are reduced to their
// language; unsupported codes fall back to the default language.
// POST /language
func (h *LanguageHandler) Set(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, redirectHome, http.StatusSeeOther)
		return
	}

	lang := i18n.Normalize(r.PostFormValue("culture"))
	middleware.SetLanguageCookie(w, lang)
	slog.Debug("language changed", "language", lang)

	// The flash is shown on the next page, which renders in the new language.
	ctx := middleware.WithLanguage(r.Context(), lang)
	flashSuccess(w, r.WithContext(ctx), h.renderer,
		util.LocalURLOr(r.PostFormValue(QueryReturnURL), redirectHome),
		i18n.T(lang, "msg.language_changed"))
}
