// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/timora/timora-blog/internal/i18n"
	"github.com/timora/timora-blog/internal/middleware"
	"github.com/timora/timora-blog/internal/model"
	"github.com/timora/timora-blog/internal/render"
	"github.com/timora/timora-blog/internal/service"
	"github.com/timora/timora-blog/internal/store"
	"github.com/timora/timora-blog/internal/uikit"
	"github.com/timora/timora-blog/internal/util"
)

// ProfileHandler serves author profiles and the owner's profile editor.
type ProfileHandler struct {
	queries   *store.Queries
	renderer  *render.Renderer
	profiles  *service.ProfileService
	maxUpload int64
	now       func() time.Time
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(db *sql.DB, renderer *render.Renderer, profiles *service.ProfileService, maxUpload int64) *ProfileHandler {
	if maxUpload <= 0 {
		maxUpload = service.DefaultMaxUploadSize
	}
	return &ProfileHandler{
		queries:   store.New(db),
		renderer:  renderer,
		profiles:  profiles,
		maxUpload: maxUpload,
		now:       time.Now,
	}
}

// ProfileData is the view model of a profile page.
type ProfileData struct {
	Profile  store.UserProfile
	FullName string
	Age      int // 0 when the birth date is unknown
	Posts    []store.PostListRow
	IsOwner  bool
}

// Show renders a public profile with the author's posts. Drafts are listed
// only for the owner.
// GET /profile/{id}
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)

	id, ok := parseIDParam(r)
	if !ok {
		renderError(w, r, h.renderer, http.StatusNotFound)
		return
	}

	profile, err := h.queries.GetProfileByID(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			renderError(w, r, h.renderer, http.StatusNotFound)
			return
		}
		logAndInternalError(w, "failed to load profile", "profile_id", id, "error", err)
		return
	}

	isOwner := middleware.GetProfileID(r) == profile.ID

	posts, err := h.queries.ListPostsByAuthor(r.Context(), profile.ID)
	if err != nil {
		logAndInternalError(w, "failed to list author posts", "profile_id", id, "error", err)
		return
	}
	if !isOwner {
		published := posts[:0]
		for _, p := range posts {
			if p.IsPublished {
				published = append(published, p)
			}
		}
		posts = published
	}

	fullName := model.FullName(profile.FirstName, profile.LastName)
	age := 0
	if a := model.Age(util.TimePtrFromNull(profile.BirthDate), h.now()); a != nil {
		age = *a
	}

	renderPage(w, r, h.renderer, http.StatusOK, pageProfile, render.TemplateData{
		Title: fullName,
		Breadcrumbs: uikit.BuildBreadcrumbs(
			uikit.Breadcrumb{Label: i18n.T(lang, "breadcrumb.home"), URL: redirectHome},
			uikit.Breadcrumb{Label: i18n.T(lang, "breadcrumb.authors"), URL: RouteBlog + "?" + QueryCategory + "=" + AllPostsCategorySlug},
			uikit.Breadcrumb{Label: fullName},
		),
		Data: ProfileData{
			Profile:  profile,
			FullName: fullName,
			Age:      age,
			Posts:    posts,
			IsOwner:  isOwner,
		},
	})
}

// EditForm renders the editor for the signed-in user's profile.
// GET /profile/edit
func (h *ProfileHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r)
	h.renderEdit(w, r, http.StatusOK, *profile, service.FormFromProfile(*profile), nil)
}

// Update saves the signed-in user's profile.
// POST /profile/edit
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	profile := *middleware.GetProfile(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		flashError(w, r, h.renderer, redirectProfileEdit, i18n.T(lang, "msg.invalid_form"))
		return
	}

	form := model.ProfileForm{
		FirstName:  r.PostFormValue("first_name"),
		LastName:   r.PostFormValue("last_name"),
		BirthDate:  r.PostFormValue("birth_date"),
		Profession: r.PostFormValue("profession"),
		Gender:     r.PostFormValue("gender"),
		Email:      r.PostFormValue("email"),
		Phone:      r.PostFormValue("phone"),
		Interests:  r.PostFormValue("interests"),
	}
	form.Normalize()

	if err := form.Validate(); err != nil {
		h.renderEdit(w, r, http.StatusUnprocessableEntity, profile, form, validationErrors(lang, err))
		return
	}

	var image multipart.File
	if f, _, err := r.FormFile("image"); err == nil {
		image = f
		defer func() { _ = f.Close() }()
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		h.renderEdit(w, r, http.StatusUnprocessableEntity, profile, form, map[string]string{
			"image": i18n.T(lang, "msg.invalid_image"),
		})
		return
	}

	updated, err := h.profiles.Update(r.Context(), profile, form, readerOrNil(image))
	if err != nil {
		if errors.Is(err, service.ErrInvalidImage) || errors.Is(err, service.ErrImageTooLarge) {
			h.renderEdit(w, r, http.StatusUnprocessableEntity, profile, form, map[string]string{
				"image": i18n.T(lang, "msg.invalid_image"),
			})
			return
		}
		logAndInternalError(w, "failed to update profile", "profile_id", profile.ID, "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, profileURL(updated.ID), i18n.T(lang, "msg.profile_updated"))
}

func (h *ProfileHandler) renderEdit(w http.ResponseWriter, r *http.Request, status int, profile store.UserProfile, form model.ProfileForm, errs map[string]string) {
	lang := middleware.GetLanguage(r)
	fullName := model.FullName(profile.FirstName, profile.LastName)

	renderPage(w, r, h.renderer, status, pageProfileEdit, render.TemplateData{
		Title: i18n.T(lang, "profile.edit"),
		Breadcrumbs: uikit.BuildBreadcrumbs(
			uikit.Breadcrumb{Label: i18n.T(lang, "breadcrumb.home"), URL: redirectHome},
			uikit.Breadcrumb{Label: fullName, URL: profileURL(profile.ID)},
			uikit.Breadcrumb{Label: i18n.T(lang, "breadcrumb.edit_profile")},
		),
		Form:   form,
		Errors: errs,
		Data:   profile,
	})
}
