// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64          `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"password_hash"`
	Phone        sql.NullString `json:"phone"`
	LastLoginAt  sql.NullTime   `json:"last_login_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type UserProfile struct {
	ID              int64          `json:"id"`
	IdentityUserID  int64          `json:"identity_user_id"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	BirthDate       sql.NullTime   `json:"birth_date"`
	Profession      sql.NullString `json:"profession"`
	Gender          sql.NullString `json:"gender"`
	Email           sql.NullString `json:"email"`
	Phone           sql.NullString `json:"phone"`
	ProfileImageUrl sql.NullString `json:"profile_image_url"`
	Interests       sql.NullString `json:"interests"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Post struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Content       string         `json:"content"`
	PublishedAt   time.Time      `json:"published_at"`
	IsPublished   bool           `json:"is_published"`
	CategoryID    sql.NullInt64  `json:"category_id"`
	AuthorID      sql.NullInt64  `json:"author_id"`
	CoverImageUrl sql.NullString `json:"cover_image_url"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// PostListRow is a post joined with its category and author names.
type PostListRow struct {
	Post
	CategoryName    sql.NullString `json:"category_name"`
	CategorySlug    sql.NullString `json:"category_slug"`
	AuthorFirstName sql.NullString `json:"author_first_name"`
	AuthorLastName  sql.NullString `json:"author_last_name"`
}
