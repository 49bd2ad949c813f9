// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the Timora blog.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/timora/timora-blog/internal/store"
	"github.com/timora/timora-blog/internal/util"

	_ "github.com/mattn/go-sqlite3"
)

// TestLogger creates a quiet test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary test database with migrations applied.
// Returns the database and a cleanup function that should be deferred.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "timora-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() {
		_ = db.Close()
	}
}

// TestMemoryDB creates an in-memory SQLite database on the cgo driver.
// A single connection keeps every query on the same in-memory database.
func TestMemoryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CreateAuthor inserts a user with a matching profile and returns both.
// The password hash is a placeholder; use auth.HashPassword when a test logs in.
func CreateAuthor(t *testing.T, db *sql.DB, email, firstName, lastName string) (store.User, store.UserProfile) {
	t.Helper()

	ctx := context.Background()
	queries := store.New(db)
	now := time.Now().UTC()

	user, err := queries.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}

	profile, err := queries.CreateProfile(ctx, store.CreateProfileParams{
		IdentityUserID: user.ID,
		FirstName:      firstName,
		LastName:       lastName,
		Email:          util.NullStringFromValue(email),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		t.Fatalf("CreateProfile(%s): %v", email, err)
	}
	return user, profile
}

// CreatePost inserts a post with a slug derived from its title.
func CreatePost(t *testing.T, db *sql.DB, authorID, categoryID int64, title string, published bool) store.Post {
	t.Helper()

	ctx := context.Background()
	queries := store.New(db)
	now := time.Now().UTC()

	slug, err := util.UniqueSlug(ctx, util.Slugify(title), queries.PostSlugExists)
	if err != nil {
		t.Fatalf("UniqueSlug(%q): %v", title, err)
	}

	post, err := queries.CreatePost(ctx, store.CreatePostParams{
		Title:       title,
		Slug:        slug,
		Content:     "Body of " + title,
		PublishedAt: now,
		IsPublished: published,
		CategoryID:  util.NullInt64FromValue(categoryID),
		AuthorID:    util.NullInt64FromValue(authorID),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreatePost(%q): %v", title, err)
	}
	return post
}
