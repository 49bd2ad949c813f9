// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the blog's html/template pages and executes them with
// the per-request data every page shares.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/timora/timora-blog/internal/cache"
	"github.com/timora/timora-blog/internal/content"
	"github.com/timora/timora-blog/internal/i18n"
	"github.com/timora/timora-blog/internal/middleware"
	"github.com/timora/timora-blog/internal/model"
	"github.com/timora/timora-blog/internal/session"
	"github.com/timora/timora-blog/internal/store"
	"github.com/timora/timora-blog/internal/uikit"
)

const (
	baseLayout  = "layouts/base.html"
	partialsDir = "partials"
	pagesDir    = "pages"
)

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	categories     *cache.CategoryCache
	logger         *slog.Logger
	now            func() time.Time
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	Categories     *cache.CategoryCache
	Logger         *slog.Logger
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		categories:     cfg.Categories,
		logger:         logger,
		now:            time.Now,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

// parseTemplates pairs every page with the base layout and all partials.
// A page named pages/post_form.html is registered as "post_form".
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, partialsDir)
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}
	pages, err := templateFiles(templatesFS, pagesDir)
	if err != nil {
		return fmt.Errorf("getting pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no templates found in %s", pagesDir)
	}

	for _, page := range pages {
		name := strings.TrimSuffix(path.Base(page), ".html")

		files := []string{baseLayout}
		files = append(files, partials...)
		files = append(files, page)

		tmpl, err := template.New("").Funcs(TemplateFuncs()).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return nil
}

// templateFiles returns all .html files in a directory. A missing directory
// yields no files.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Has reports whether a page template is registered.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// TemplateFuncs returns the uikit helpers plus the language-aware functions.
// Language-aware functions take the language as their first argument.
func TemplateFuncs() template.FuncMap {
	funcs := uikit.TemplateFuncs()
	funcs["T"] = i18n.T
	funcs["formatDate"] = i18n.FormatDate
	funcs["formatNumber"] = func(lang string, n any) string {
		switch v := n.(type) {
		case int:
			return i18n.FormatNumber(lang, int64(v))
		case int64:
			return i18n.FormatNumber(lang, v)
		default:
			return fmt.Sprint(n)
		}
	}
	funcs["langName"] = i18n.LanguageName
	funcs["markdown"] = content.RenderMarkdown
	funcs["plainText"] = content.PlainText
	funcs["fullName"] = model.FullName
	return funcs
}

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Code   string
	Name   string
	Active bool
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Lang        string
	Languages   []LanguageOption
	CurrentURL  string
	Year        int
	Flash       string
	FlashType   string
	User        *store.User
	Profile     *store.UserProfile
	Breadcrumbs []uikit.Breadcrumb

	// Categories is the sidebar list; ActiveCategory is the selected slug.
	Categories     []store.Category
	ActiveCategory string

	// Form and Errors carry a submitted form back to the page on failure.
	Form   any
	Errors map[string]string

	Data any
}

// Render renders page name with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders page name with the given status code. The page is
// executed into a buffer first so a template error never sends a partial page.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	r.fillDefaults(req, &data)

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

func (r *Renderer) fillDefaults(req *http.Request, data *TemplateData) {
	if data.Lang == "" {
		data.Lang = middleware.GetLanguage(req)
	}
	data.Year = r.now().Year()
	data.CurrentURL = req.URL.RequestURI()
	data.User = middleware.GetUser(req)
	data.Profile = middleware.GetProfile(req)
	data.Languages = languageOptions(data.Lang)

	if r.sessionManager != nil {
		if flash, ok := session.PopFlash(req.Context(), r.sessionManager); ok {
			data.Flash = flash.Message
			data.FlashType = flash.Type
		}
	}

	if data.Categories == nil && r.categories != nil {
		categories, err := r.categories.List(req.Context())
		if err != nil {
			r.logger.Warn("failed to load categories for sidebar", "error", err)
		} else {
			data.Categories = categories
		}
	}
}

func languageOptions(current string) []LanguageOption {
	opts := make([]LanguageOption, 0, len(i18n.SupportedLanguages))
	for _, code := range i18n.SupportedLanguages {
		opts = append(opts, LanguageOption{
			Code:   code,
			Name:   i18n.LanguageName(code),
			Active: code == current,
		})
	}
	return opts
}

// SetFlash stores a flash message shown on the next rendered page.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		session.PutFlash(req.Context(), r.sessionManager, flashType, message)
	}
}
