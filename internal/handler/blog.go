// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/timora/timora-blog/internal/cache"
	"github.com/timora/timora-blog/internal/i18n"
	"github.com/timora/timora-blog/internal/middleware"
	"github.com/timora/timora-blog/internal/model"
	"github.com/timora/timora-blog/internal/render"
	"github.com/timora/timora-blog/internal/service"
	"github.com/timora/timora-blog/internal/store"
	"github.com/timora/timora-blog/internal/uikit"
	"github.com/timora/timora-blog/internal/util"
)

// BlogHandler serves the public reading pages.
type BlogHandler struct {
	queries    *store.Queries
	renderer   *render.Renderer
	categories *cache.CategoryCache
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(db *sql.DB, renderer *render.Renderer, categories *cache.CategoryCache) *BlogHandler {
	return &BlogHandler{
		queries:    store.New(db),
		renderer:   renderer,
		categories: categories,
	}
}

// BlogIndexData is the view model of the blog index.
type BlogIndexData struct {
	Posts      []store.PostListRow
	Category   *store.Category
	Pagination uikit.Pagination
}

// PostData is the view model of a single post page.
type PostData struct {
	Post       store.PostListRow
	AuthorName string
	IsAuthor   bool
}

// Home lists the latest published posts.
// GET /
func (h *BlogHandler) Home(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)

	posts, err := h.queries.ListPublishedPosts(r.Context(), store.ListPublishedPostsParams{
		Limit:  HomePostLimit,
		Offset: 0,
	})
	if err != nil {
		logAndInternalError(w, "failed to list latest posts", "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, pageHome, render.TemplateData{
		Title: i18n.T(lang, "home.title"),
		Breadcrumbs: uikit.BuildBreadcrumbs(
			uikit.Breadcrumb{Label: i18n.T(lang, "breadcrumb.home"), URL: redirectHome},
		),
		Data: posts,
	})
}

// Index lists published posts newest first, optionally filtered by category.
// The "all posts" category and unknown slugs show every category.
// GET /blog?category=<slug>&page=<n>
func (h *BlogHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := middleware.GetLanguage(r)

	var category *store.Category
	if slug := r.URL.Query().Get(QueryCategory); util.IsValidSlug(slug) && slug != AllPostsCategorySlug {
		cat, ok, err := h.categories.BySlug(ctx, slug)
		if err != nil {
			logAndInternalError(w, "failed to load category", "slug", slug, "error", err)
			return
		}
		if ok {
			category = &cat
		}
	}

	var total int64
	var err error
	if category != nil {
		total, err = h.queries.CountPublishedPostsByCategory(ctx, category.ID)
	} else {
		total, err = h.queries.CountPublishedPosts(ctx)
	}
	if err != nil {
		logAndInternalError(w, "failed to count posts", "error", err)
		return
	}

	pagination := uikit.BuildPagination(uikit.ParsePageParam(r), total, BlogPerPage, RouteBlog, r.URL.Query())

	var posts []store.PostListRow
	if category != nil {
		posts, err = h.queries.ListPublishedPostsByCategory(ctx, store.ListPublishedPostsByCategoryParams{
			CategoryID: category.ID,
			Limit:      BlogPerPage,
			Offset:     pagination.Offset(),
		})
	} else {
		posts, err = h.queries.ListPublishedPosts(ctx, store.ListPublishedPostsParams{
			Limit:  BlogPerPage,
			Offset: pagination.Offset(),
		})
	}
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}

	title := i18n.T(lang, "blog.title")
	crumbs := []uikit.Breadcrumb{
		{Label: i18n.T(lang, "breadcrumb.home"), URL: redirectHome},
		{Label: i18n.T(lang, "breadcrumb.blog"), URL: redirectBlog},
	}
	activeSlug := AllPostsCategorySlug
	if category != nil {
		title = category.Name
		activeSlug = category.Slug
		crumbs = append(crumbs, uikit.Breadcrumb{Label: category.Name})
	}

	renderPage(w, r, h.renderer, http.StatusOK, pageBlog, render.TemplateData{
		Title:          title,
		Breadcrumbs:    uikit.BuildBreadcrumbs(crumbs...),
		ActiveCategory: activeSlug,
		Data: BlogIndexData{
			Posts:      posts,
			Category:   category,
			Pagination: pagination,
		},
	})
}

// Post shows a single post. Drafts are visible only to their author.
// GET /blog/{slug}
func (h *BlogHandler) Post(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	slug := chi.URLParam(r, "slug")
	if !util.IsValidSlug(slug) {
		renderError(w, r, h.renderer, http.StatusNotFound)
		return
	}

	post, err := h.queries.GetPostBySlug(r.Context(), slug)
	if err != nil {
		if isNotFound(err) {
			renderError(w, r, h.renderer, http.StatusNotFound)
			return
		}
		logAndInternalError(w, "failed to load post", "slug", slug, "error", err)
		return
	}

	isAuthor := service.IsPostAuthor(post.Post, middleware.GetProfileID(r))
	if !post.IsPublished && !isAuthor {
		renderError(w, r, h.renderer, http.StatusNotFound)
		return
	}

	authorName := model.FullName(post.AuthorFirstName.String, post.AuthorLastName.String)
	if authorName == "" {
		authorName = i18n.T(lang, "blog.unknown_author")
	}

	crumbs := []uikit.Breadcrumb{
		{Label: i18n.T(lang, "breadcrumb.home"), URL: redirectHome},
		{Label: i18n.T(lang, "breadcrumb.blog"), URL: redirectBlog},
	}
	if post.CategorySlug.Valid {
		crumbs = append(crumbs, uikit.Breadcrumb{
			Label: post.CategoryName.String,
			URL:   RouteBlog + "?" + QueryCategory + "=" + post.CategorySlug.String,
		})
	}
	crumbs = append(crumbs, uikit.Breadcrumb{Label: post.Title})

	renderPage(w, r, h.renderer, http.StatusOK, pagePost, render.TemplateData{
		Title:          post.Title,
		Breadcrumbs:    uikit.BuildBreadcrumbs(crumbs...),
		ActiveCategory: post.CategorySlug.String,
		Data: PostData{
			Post:       post,
			AuthorName: authorName,
			IsAuthor:   isAuthor,
		},
	})
}
