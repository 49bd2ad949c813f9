// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/timora/timora-blog/internal/i18n"
	"github.com/timora/timora-blog/internal/middleware"
	"github.com/timora/timora-blog/internal/model"
	"github.com/timora/timora-blog/internal/render"
	"github.com/timora/timora-blog/internal/service"
	"github.com/timora/timora-blog/internal/session"
	"github.com/timora/timora-blog/internal/store"
	"github.com/timora/timora-blog/internal/uikit"
	"github.com/timora/timora-blog/internal/util"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temp files.
const multipartMemory = 8 << 20

// PostHandler handles writing, editing and deleting posts. Every route
// requires a signed-in profile.
type PostHandler struct {
	renderer  *render.Renderer
	posts     *service.PostService
	maxUpload int64
}

// NewPostHandler creates a new PostHandler. maxUpload bounds the request body.
func NewPostHandler(renderer *render.Renderer, posts *service.PostService, maxUpload int64) *PostHandler {
	if maxUpload <= 0 {
		maxUpload = service.DefaultMaxUploadSize
	}
	return &PostHandler{
		renderer:  renderer,
		posts:     posts,
		maxUpload: maxUpload,
	}
}

// PostFormData is the view model of the post editor.
type PostFormData struct {
	IsEdit   bool
	PostID   int64
	Action   string
	CoverURL string
}

// New renders the empty post editor.
// GET /posts/new
func (h *PostHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, model.PostForm{IsPublished: true}, PostFormData{Action: RoutePosts}, nil)
}

// Create stores a new post and redirects to it.
// POST /posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	profileID := middleware.GetProfileID(r)
	view := PostFormData{Action: RoutePosts}

	form, cover, ok := h.parseForm(w, r, redirectPostsNew)
	if !ok {
		return
	}
	if cover != nil {
		defer func() { _ = cover.Close() }()
	}

	if err := form.Validate(); err != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, form, view, validationErrors(lang, err))
		return
	}

	post, err := h.posts.Create(r.Context(), profileID, form, readerOrNil(cover))
	if err != nil {
		if errs := h.postErrors(lang, err); errs != nil {
			h.renderForm(w, r, http.StatusUnprocessableEntity, form, view, errs)
			return
		}
		logAndInternalError(w, "failed to create post", "profile_id", profileID, "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectPostSlug, post.Slug), i18n.T(lang, "msg.post_created"))
}

// Edit renders the editor for an owned post.
// GET /posts/{id}/edit
func (h *PostHandler) Edit(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requireOwned(w, r)
	if !ok {
		return
	}

	form := model.PostForm{
		Title:       post.Title,
		Content:     post.Content,
		CategoryID:  post.CategoryID.Int64,
		IsPublished: post.IsPublished,
	}
	h.renderForm(w, r, http.StatusOK, form, editView(post), nil)
}

// Update saves changes to an owned post.
// POST /posts/{id}
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	profileID := middleware.GetProfileID(r)

	existing, ok := h.requireOwned(w, r)
	if !ok {
		return
	}
	view := editView(existing)

	form, cover, ok := h.parseForm(w, r, fmt.Sprintf(redirectPostsIDEdit, existing.ID))
	if !ok {
		return
	}
	if cover != nil {
		defer func() { _ = cover.Close() }()
	}

	if err := form.Validate(); err != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, form, view, validationErrors(lang, err))
		return
	}

	post, err := h.posts.Update(r.Context(), profileID, existing.ID, form, readerOrNil(cover))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotOwner):
			renderError(w, r, h.renderer, http.StatusForbidden)
			return
		case isNotFound(err):
			renderError(w, r, h.renderer, http.StatusNotFound)
			return
		}
		if errs := h.postErrors(lang, err); errs != nil {
			h.renderForm(w, r, http.StatusUnprocessableEntity, form, view, errs)
			return
		}
		logAndInternalError(w, "failed to update post", "post_id", existing.ID, "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectPostSlug, post.Slug), i18n.T(lang, "msg.post_updated"))
}

// Delete removes an owned post.
// POST /posts/{id}/delete
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	profileID := middleware.GetProfileID(r)

	id, ok := parseIDParam(r)
	if !ok {
		renderError(w, r, h.renderer, http.StatusNotFound)
		return
	}

	if err := h.posts.Delete(r.Context(), profileID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotOwner):
			renderError(w, r, h.renderer, http.StatusForbidden)
		case isNotFound(err):
			renderError(w, r, h.renderer, http.StatusNotFound)
		default:
			logAndInternalError(w, "failed to delete post", "post_id", id, "error", err)
		}
		return
	}

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectProfileID, profileID), i18n.T(lang, "msg.post_deleted"))
}

// requireOwned loads the {id} post and checks ownership, writing a 404 or 403
// page on failure.
func (h *PostHandler) requireOwned(w http.ResponseWriter, r *http.Request) (store.Post, bool) {
	id, ok := parseIDParam(r)
	if !ok {
		renderError(w, r, h.renderer, http.StatusNotFound)
		return store.Post{}, false
	}

	post, err := h.posts.GetOwned(r.Context(), middleware.GetProfileID(r), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotOwner):
			h.renderer.SetFlash(r, i18n.T(middleware.GetLanguage(r), "msg.not_owner"), session.FlashError)
			renderError(w, r, h.renderer, http.StatusForbidden)
		case isNotFound(err):
			renderError(w, r, h.renderer, http.StatusNotFound)
		default:
			logAndInternalError(w, "failed to load post", "post_id", id, "error", err)
		}
		return store.Post{}, false
	}
	return post, true
}

// parseForm reads the multipart post form. The returned file is nil when no
// cover was uploaded.
func (h *PostHandler) parseForm(w http.ResponseWriter, r *http.Request, failURL string) (model.PostForm, multipart.File, bool) {
	lang := middleware.GetLanguage(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			flashError(w, r, h.renderer, failURL, i18n.T(lang, "msg.invalid_image"))
			return model.PostForm{}, nil, false
		}
		flashError(w, r, h.renderer, failURL, i18n.T(lang, "msg.invalid_form"))
		return model.PostForm{}, nil, false
	}

	categoryID, _ := strconv.ParseInt(r.PostFormValue("category_id"), 10, 64)
	form := model.PostForm{
		Title:       r.PostFormValue("title"),
		Content:     r.PostFormValue("content"),
		CategoryID:  categoryID,
		IsPublished: r.PostFormValue("is_published") != "",
	}
	form.Normalize()

	file, _, err := r.FormFile("cover")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			flashError(w, r, h.renderer, failURL, i18n.T(lang, "msg.invalid_image"))
			return model.PostForm{}, nil, false
		}
		file = nil
	}
	return form, file, true
}

// postErrors maps service errors a user can fix to form field messages.
func (h *PostHandler) postErrors(lang string, err error) map[string]string {
	switch {
	case errors.Is(err, service.ErrInvalidCategory):
		return map[string]string{"category_id": i18n.T(lang, "validation.category")}
	case errors.Is(err, service.ErrInvalidImage), errors.Is(err, service.ErrImageTooLarge):
		return map[string]string{"cover": i18n.T(lang, "msg.invalid_image")}
	case errors.Is(err, service.ErrSlugTaken):
		return map[string]string{"title": i18n.T(lang, "msg.slug_taken")}
	case errors.Is(err, util.ErrSlugUnavailable):
		return map[string]string{"title": i18n.T(lang, "msg.slug_unavailable")}
	}
	return nil
}

func (h *PostHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, form model.PostForm, view PostFormData, errs map[string]string) {
	lang := middleware.GetLanguage(r)

	titleKey, crumbKey := "post.new_title", "breadcrumb.new_post"
	if view.IsEdit {
		titleKey, crumbKey = "post.edit_title", "breadcrumb.edit_post"
	}

	renderPage(w, r, h.renderer, status, pagePostForm, render.TemplateData{
		Title: i18n.T(lang, titleKey),
		Breadcrumbs: uikit.BuildBreadcrumbs(
			uikit.Breadcrumb{Label: i18n.T(lang, "breadcrumb.home"), URL: redirectHome},
			uikit.Breadcrumb{Label: i18n.T(lang, "breadcrumb.blog"), URL: redirectBlog},
			uikit.Breadcrumb{Label: i18n.T(lang, crumbKey)},
		),
		Form:   form,
		Errors: errs,
		Data:   view,
	})
}

func editView(post store.Post) PostFormData {
	return PostFormData{
		IsEdit:   true,
		PostID:   post.ID,
		Action:   RoutePosts + "/" + strconv.FormatInt(post.ID, 10),
		CoverURL: post.CoverImageUrl.String,
	}
}

// readerOrNil keeps a nil multipart.File from becoming a non-nil io.Reader.
func readerOrNil(f multipart.File) io.Reader {
	if f == nil {
		return nil
	}
	return f
}
