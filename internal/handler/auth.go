// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/timora/timora-blog/internal/i18n"
	"github.com/timora/timora-blog/internal/middleware"
	"github.com/timora/timora-blog/internal/model"
	"github.com/timora/timora-blog/internal/render"
	"github.com/timora/timora-blog/internal/service"
	"github.com/timora/timora-blog/internal/session"
	"github.com/timora/timora-blog/internal/uikit"
	"github.com/timora/timora-blog/internal/util"
)

// AuthHandler handles login, registration and logout.
type AuthHandler struct {
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	accounts        *service.AccountService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler. lp may be nil to disable lockout.
func NewAuthHandler(renderer *render.Renderer, sm *scs.SessionManager, accounts *service.AccountService, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		renderer:        renderer,
		sessionManager:  sm,
		accounts:        accounts,
		loginProtection: lp,
	}
}

// LoginForm renders the login page.
// GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	returnURL := util.LocalURLOr(r.URL.Query().Get(QueryReturnURL), "")
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, util.LocalURLOr(returnURL, redirectHome), http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, model.LoginForm{ReturnURL: returnURL}, nil)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, form model.LoginForm, errs map[string]string) {
	lang := middleware.GetLanguage(r)
	form.Password = ""
	renderPage(w, r, h.renderer, status, pageLogin, render.TemplateData{
		Title: i18n.T(lang, "auth.login_title"),
		Breadcrumbs: uikit.BuildBreadcrumbs(
			uikit.Breadcrumb{Label: i18n.T(lang, "breadcrumb.home"), URL: redirectHome},
			uikit.Breadcrumb{Label: i18n.T(lang, "breadcrumb.login")},
		),
		Form:   form,
		Errors: errs,
	})
}

// Login verifies credentials and signs the user in.
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)

	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "msg.invalid_form"))
		return
	}

	form := model.LoginForm{
		Email:     r.PostFormValue("email"),
		Password:  r.PostFormValue("password"),
		ReturnURL: util.LocalURLOr(r.PostFormValue(QueryReturnURL), ""),
	}
	form.Normalize()

	if err := form.Validate(); err != nil {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, form, validationErrors(lang, err))
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(form.Email); locked {
			slog.Warn("login attempt on locked account", "email", form.Email)
			h.loginFailed(w, r, form, i18n.T(lang, "msg.account_locked", formatDuration(remaining)))
			return
		}
	}

	user, err := h.accounts.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			logAndInternalError(w, "failed to authenticate", "error", err)
			return
		}

		msg := i18n.T(lang, "msg.invalid_login")
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(form.Email); locked {
				msg = i18n.T(lang, "msg.account_locked", formatDuration(lockDuration))
			}
		}
		slog.Info("failed login", "email", form.Email)
		h.loginFailed(w, r, form, msg)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(form.Email)
	}

	if err := h.signIn(r, user.ID); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	flashSuccess(w, r, h.renderer, util.LocalURLOr(form.ReturnURL, redirectHome), i18n.T(lang, "msg.login_success"))
}

// loginFailed re-renders the login form with a generic error, keeping the
// email and return URL.
func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, form model.LoginForm, msg string) {
	h.renderer.SetFlash(r, msg, session.FlashError)
	h.renderLogin(w, r, http.StatusUnauthorized, form, nil)
}

// signIn renews the session token and stores the user ID.
func (h *AuthHandler) signIn(r *http.Request, userID int64) error {
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	h.sessionManager.Put(r.Context(), session.KeyUserID, userID)
	return nil
}

// RegisterForm renders the registration page.
// GET /register
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, redirectHome, http.StatusSeeOther)
		return
	}
	h.renderRegister(w, r, http.StatusOK, model.RegisterForm{}, nil)
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, status int, form model.RegisterForm, errs map[string]string) {
	lang := middleware.GetLanguage(r)
	form.Password = ""
	form.ConfirmPassword = ""
	renderPage(w, r, h.renderer, status, pageRegister, render.TemplateData{
		Title: i18n.T(lang, "auth.register_title"),
		Breadcrumbs: uikit.BuildBreadcrumbs(
			uikit.Breadcrumb{Label: i18n.T(lang, "breadcrumb.home"), URL: redirectHome},
			uikit.Breadcrumb{Label: i18n.T(lang, "breadcrumb.register")},
		),
		Form:   form,
		Errors: errs,
	})
}

// Register creates the account and its profile, then signs the user in.
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)

	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, redirectRegister, i18n.T(lang, "msg.invalid_form"))
		return
	}

	age, _ := strconv.Atoi(r.PostFormValue("age"))
	form := model.RegisterForm{
		FirstName:       r.PostFormValue("first_name"),
		LastName:        r.PostFormValue("last_name"),
		Age:             age,
		Email:           r.PostFormValue("email"),
		Phone:           r.PostFormValue("phone"),
		Gender:          r.PostFormValue("gender"),
		Profession:      r.PostFormValue("profession"),
		Interests:       r.PostFormValue("interests"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
	form.Normalize()

	if err := form.Validate(); err != nil {
		h.renderRegister(w, r, http.StatusUnprocessableEntity, form, validationErrors(lang, err))
		return
	}

	user, profile, err := h.accounts.Register(r.Context(), form)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			h.renderRegister(w, r, http.StatusConflict, form, map[string]string{
				"email": i18n.T(lang, "msg.email_taken"),
			})
			return
		}
		logAndInternalError(w, "failed to register user", "error", err)
		return
	}

	if err := h.signIn(r, user.ID); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	slog.Info("user registered", "user_id", user.ID, "profile_id", profile.ID)
	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectProfileID, profile.ID), i18n.T(lang, "msg.register_success"))
}

// Logout destroys the session.
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), session.KeyUserID)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user logged out", "user_id", userID)

	lang := middleware.GetLanguage(r)
	flashAndRedirect(w, r, h.renderer, redirectHome, i18n.T(lang, "msg.logout_success"), session.FlashInfo)
}

// formatDuration formats a lockout duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%d min", int(d.Round(time.Minute).Minutes()))
	}
	return fmt.Sprintf("%d h", int(d.Hours()))
}

// isNotFound reports whether err means the row does not exist.
func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
