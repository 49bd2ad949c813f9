// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/timora/timora-blog/internal/cache"
	"github.com/timora/timora-blog/internal/config"
	"github.com/timora/timora-blog/internal/handler"
	"github.com/timora/timora-blog/internal/middleware"
	"github.com/timora/timora-blog/internal/render"
	"github.com/timora/timora-blog/internal/service"
	"github.com/timora/timora-blog/internal/version"
	"github.com/timora/timora-blog/web"
)

// application holds the dependencies shared by every route.
type application struct {
	cfg             *config.Config
	info            version.Info
	db              *sql.DB
	sessionManager  *scs.SessionManager
	cache           cache.Cacher
	cacheBackend    string
	categories      *cache.CategoryCache
	renderer        *render.Renderer
	accounts        *service.AccountService
	posts           *service.PostService
	profiles        *service.ProfileService
	loginProtection *middleware.LoginProtection
}

// routes builds the router. Public pages, auth and the language switch are
// open; writing posts and editing the profile require a signed-in author.
func (app *application) routes() (http.Handler, error) {
	cfg := app.cfg

	blogHandler := handler.NewBlogHandler(app.db, app.renderer, app.categories)
	postHandler := handler.NewPostHandler(app.renderer, app.posts, cfg.MaxUploadBytes())
	profileHandler := handler.NewProfileHandler(app.db, app.renderer, app.profiles, cfg.MaxUploadBytes())
	authHandler := handler.NewAuthHandler(app.renderer, app.sessionManager, app.accounts, app.loginProtection)
	languageHandler := handler.NewLanguageHandler(app.renderer)
	healthHandler := handler.NewHealthHandler(app.db, app.cache, app.cacheBackend, cfg.UploadsDir, app.info)
	seoHandler := handler.NewSEOHandler(app.db, app.categories, cfg.SiteURL, cfg.IsDevelopment())

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)

	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))

	// Probes sit outside sessions and CSRF.
	r.Get(handler.RouteSitemap, seoHandler.Sitemap)
	r.Get(handler.RouteRobots, seoHandler.Robots)

	r.Route(handler.RouteHealth, func(r chi.Router) {
		r.Get("/", healthHandler.Health)
		r.Get("/live", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))

	csrfKey := []byte(cfg.SessionSecret)[:config.MinSessionSecretLength]
	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig(csrfKey, cfg.IsDevelopment(), cfg.ServerAddr()))
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	r.Group(func(r chi.Router) {
		r.Use(app.sessionManager.LoadAndSave)
		r.Use(csrfMiddleware)
		r.Use(middleware.Language)
		r.Use(middleware.LoadUser(app.sessionManager, app.db, app.profiles))

		r.Get(handler.RouteRoot, blogHandler.Home)
		r.Get(handler.RouteBlog, blogHandler.Index)
		r.Get(handler.RouteBlog+handler.RouteParamSlug, blogHandler.Post)
		r.Get(handler.RouteProfile+handler.RouteParamID, profileHandler.Show)

		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(app.loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Get(handler.RouteRegister, authHandler.RegisterForm)
		r.With(app.loginProtection.Middleware()).Post(handler.RouteRegister, authHandler.Register)
		r.Post(handler.RouteLogout, authHandler.Logout)

		r.Post(handler.RouteLanguage, languageHandler.Set)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(app.sessionManager))

			r.Get(handler.RoutePosts+handler.RouteSuffixNew, postHandler.New)
			r.Post(handler.RoutePosts, postHandler.Create)
			r.Get(handler.RoutePosts+handler.RouteParamID+handler.RouteSuffixEdit, postHandler.Edit)
			r.Post(handler.RoutePosts+handler.RouteParamID, postHandler.Update)
			r.Post(handler.RoutePosts+handler.RouteParamID+handler.RouteSuffixDelete, postHandler.Delete)

			r.Get(handler.RouteProfile+handler.RouteSuffixEdit, profileHandler.EditForm)
			r.Post(handler.RouteProfile+handler.RouteSuffixEdit, profileHandler.Update)
		})

		r.NotFound(handler.NotFound(app.renderer))
	})

	return r, nil
}
