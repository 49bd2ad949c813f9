// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"github.com/timora/timora-blog/internal/cache"
	"github.com/timora/timora-blog/internal/seo"
	"github.com/timora/timora-blog/internal/store"
)

// Crawler-facing routes.
const (
	RouteSitemap = "/sitemap.xml"
	RouteRobots  = "/robots.txt"
)

// SEOHandler serves the sitemap and robots.txt.
type SEOHandler struct {
	queries     *store.Queries
	categories  *cache.CategoryCache
	siteURL     string
	disallowAll bool
}

// NewSEOHandler creates a new SEOHandler. An empty siteURL is derived from
// each request. disallowAll blocks every crawler.
func NewSEOHandler(db *sql.DB, categories *cache.CategoryCache, siteURL string, disallowAll bool) *SEOHandler {
	return &SEOHandler{
		queries:     store.New(db),
		categories:  categories,
		siteURL:     siteURL,
		disallowAll: disallowAll,
	}
}

// Sitemap lists the home page, the blog index, category listings, published
// posts and the profiles of authors with published posts.
// GET /sitemap.xml
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts, err := h.queries.ListSitemapPosts(ctx)
	if err != nil {
		logAndInternalError(w, "failed to list sitemap posts", "error", err)
		return
	}
	authors, err := h.queries.ListPublishingAuthors(ctx)
	if err != nil {
		logAndInternalError(w, "failed to list sitemap authors", "error", err)
		return
	}
	categories, err := h.categories.List(ctx)
	if err != nil {
		logAndInternalError(w, "failed to list sitemap categories", "error", err)
		return
	}

	b := seo.NewSitemapBuilder(h.baseURL(r))
	b.AddHomepage()
	for _, c := range categories {
		if c.Slug == AllPostsCategorySlug {
			continue
		}
		b.AddCategory(seo.SitemapCategory{Slug: c.Slug})
	}
	for _, p := range posts {
		b.AddPost(seo.SitemapPost{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}
	for _, a := range authors {
		b.AddAuthor(seo.SitemapAuthor{ID: a.ID, UpdatedAt: a.UpdatedAt})
	}

	body, err := b.Build()
	if err != nil {
		logAndInternalError(w, "failed to build sitemap", "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

// Robots serves robots.txt.
// GET /robots.txt
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.BuildRobots(seo.RobotsConfig{
		SiteURL:     h.baseURL(r),
		DisallowAll: h.disallowAll,
	})))
}

func (h *SEOHandler) baseURL(r *http.Request) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
