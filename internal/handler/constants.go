// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the home page.
	RouteRoot = "/"
	// RouteBlog is the post index.
	RouteBlog = "/blog"
	// RoutePosts is the post write surface.
	RoutePosts = "/posts"
	// RouteProfile is the author profile prefix.
	RouteProfile = "/profile"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteRegister is the registration route.
	RouteRegister = "/register"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteLanguage switches the UI language.
	RouteLanguage = "/language"
	// RouteHealth is the health probe prefix.
	RouteHealth = "/health"

	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixEdit is the suffix for edit routes.
	RouteSuffixEdit = "/edit"
	// RouteSuffixDelete is the suffix for delete routes.
	RouteSuffixDelete = "/delete"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"
)

const (
	redirectHome        = RouteRoot
	redirectBlog        = RouteBlog
	redirectLogin       = RouteLogin
	redirectRegister    = RouteRegister
	redirectPostsNew    = RoutePosts + RouteSuffixNew
	redirectPostsIDEdit = RoutePosts + "/%d" + RouteSuffixEdit
	redirectPostSlug    = RouteBlog + "/%s"
	redirectProfileID   = RouteProfile + "/%d"
	redirectProfileEdit = RouteProfile + RouteSuffixEdit
)

const (
	// HomePostLimit is how many posts the home page shows.
	HomePostLimit = 9
	// BlogPerPage is the page size of the blog index.
	BlogPerPage = 9
	// AllPostsCategorySlug selects every category on the blog index.
	AllPostsCategorySlug = "tum-yazilar"
	// QueryCategory is the blog index category filter parameter.
	QueryCategory = "category"
	// QueryReturnURL carries the page to return to after login or a language switch.
	QueryReturnURL = "returnUrl"
)

// Page template names under web/templates/pages.
const (
	pageHome        = "home"
	pageBlog        = "blog"
	pagePost        = "post"
	pagePostForm    = "post_form"
	pageProfile     = "profile"
	pageProfileEdit = "profile_edit"
	pageLogin       = "login"
	pageRegister    = "register"
	pageError       = "error"
)
