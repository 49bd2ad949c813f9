// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the write-side business logic: posts, profiles,
// accounts and uploaded images.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/timora/timora-blog/internal/model"
	"github.com/timora/timora-blog/internal/store"
	"github.com/timora/timora-blog/internal/util"
)

// MaxSlugLength matches the title limit; slugs are never longer than titles.
const MaxSlugLength = model.MaxTitleLength

var (
	// ErrSlugTaken is returned when a concurrent writer claimed the resolved
	// slug between the existence check and the commit.
	ErrSlugTaken = errors.New("slug already taken")
	// ErrNotOwner is returned when a profile edits or deletes someone else's post.
	ErrNotOwner = errors.New("not the owner")
	// ErrInvalidCategory is returned when the selected category does not exist.
	ErrInvalidCategory = errors.New("invalid category")
)

// PostService creates, edits and deletes posts.
type PostService struct {
	db     *sql.DB
	media  *MediaService
	logger *slog.Logger
	now    func() time.Time
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB, media *MediaService, logger *slog.Logger) *PostService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostService{
		db:     db,
		media:  media,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new post written by the given profile. The form must
// already be validated. cover may be nil.
func (s *PostService) Create(ctx context.Context, authorID int64, form model.PostForm, cover io.Reader) (store.Post, error) {
	coverURL, err := s.saveCover(cover)
	if err != nil {
		return store.Post{}, err
	}

	post, err := s.createTx(ctx, authorID, form, coverURL)
	if err != nil {
		s.discardCover(coverURL)
		return store.Post{}, err
	}

	s.logger.Info("post created", "post_id", post.ID, "slug", post.Slug, "author_id", authorID)
	return post, nil
}

func (s *PostService) createTx(ctx context.Context, authorID int64, form model.PostForm, coverURL string) (store.Post, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Post{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := store.New(tx)

	if err := checkCategory(ctx, qtx, form.CategoryID); err != nil {
		return store.Post{}, err
	}

	slug, err := util.UniqueSlugWithin(ctx, util.Slugify(form.Title), MaxSlugLength, qtx.PostSlugExists)
	if err != nil {
		return store.Post{}, fmt.Errorf("resolving slug: %w", err)
	}

	now := s.now()
	post, err := qtx.CreatePost(ctx, store.CreatePostParams{
		Title:         form.Title,
		Slug:          slug,
		Content:       form.Content,
		PublishedAt:   now,
		IsPublished:   form.IsPublished,
		CategoryID:    util.NullInt64FromValue(form.CategoryID),
		AuthorID:      util.NullInt64FromValue(authorID),
		CoverImageUrl: util.NullStringFromValue(coverURL),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return store.Post{}, mapSlugConflict(err, "creating post")
	}

	if err := tx.Commit(); err != nil {
		return store.Post{}, mapSlugConflict(err, "committing post")
	}
	return post, nil
}

// GetOwned loads a post and verifies that profileID wrote it.
func (s *PostService) GetOwned(ctx context.Context, profileID, postID int64) (store.Post, error) {
	post, err := store.New(s.db).GetPostByID(ctx, postID)
	if err != nil {
		return store.Post{}, err
	}
	if !IsPostAuthor(post, profileID) {
		return store.Post{}, ErrNotOwner
	}
	return post, nil
}

// Update edits a post owned by profileID. The slug is re-resolved only when
// the title changes, excluding the post itself from the collision check.
// A new cover replaces and removes the old one; nil keeps it.
func (s *PostService) Update(ctx context.Context, profileID, postID int64, form model.PostForm, cover io.Reader) (store.Post, error) {
	coverURL, err := s.saveCover(cover)
	if err != nil {
		return store.Post{}, err
	}

	post, oldCover, err := s.updateTx(ctx, profileID, postID, form, coverURL)
	if err != nil {
		s.discardCover(coverURL)
		return store.Post{}, err
	}

	if coverURL != "" && oldCover != "" {
		s.discardCover(oldCover)
	}

	s.logger.Info("post updated", "post_id", post.ID, "slug", post.Slug)
	return post, nil
}

func (s *PostService) updateTx(ctx context.Context, profileID, postID int64, form model.PostForm, coverURL string) (store.Post, string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Post{}, "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := store.New(tx)

	existing, err := qtx.GetPostByID(ctx, postID)
	if err != nil {
		return store.Post{}, "", err
	}
	if !IsPostAuthor(existing, profileID) {
		return store.Post{}, "", ErrNotOwner
	}

	if err := checkCategory(ctx, qtx, form.CategoryID); err != nil {
		return store.Post{}, "", err
	}

	slug := existing.Slug
	if form.Title != existing.Title {
		slug, err = util.UniqueSlugWithin(ctx, util.Slugify(form.Title), MaxSlugLength, func(ctx context.Context, candidate string) (bool, error) {
			return qtx.PostSlugExistsExcluding(ctx, store.PostSlugExistsExcludingParams{Slug: candidate, ID: postID})
		})
		if err != nil {
			return store.Post{}, "", fmt.Errorf("resolving slug: %w", err)
		}
	}

	cover := existing.CoverImageUrl
	if coverURL != "" {
		cover = util.NullStringFromValue(coverURL)
	}

	post, err := qtx.UpdatePost(ctx, store.UpdatePostParams{
		Title:         form.Title,
		Slug:          slug,
		Content:       form.Content,
		IsPublished:   form.IsPublished,
		CategoryID:    util.NullInt64FromValue(form.CategoryID),
		CoverImageUrl: cover,
		UpdatedAt:     s.now(),
		ID:            postID,
	})
	if err != nil {
		return store.Post{}, "", mapSlugConflict(err, "updating post")
	}

	if err := tx.Commit(); err != nil {
		return store.Post{}, "", mapSlugConflict(err, "committing post")
	}
	return post, existing.CoverImageUrl.String, nil
}

// Delete removes a post owned by profileID together with its cover image.
func (s *PostService) Delete(ctx context.Context, profileID, postID int64) error {
	post, err := s.GetOwned(ctx, profileID, postID)
	if err != nil {
		return err
	}

	if err := store.New(s.db).DeletePost(ctx, post.ID); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	s.discardCover(post.CoverImageUrl.String)
	s.logger.Info("post deleted", "post_id", post.ID, "slug", post.Slug)
	return nil
}

// IsPostAuthor reports whether profileID wrote post.
func IsPostAuthor(post store.Post, profileID int64) bool {
	return profileID > 0 && post.AuthorID.Valid && post.AuthorID.Int64 == profileID
}

func (s *PostService) saveCover(cover io.Reader) (string, error) {
	if cover == nil || s.media == nil {
		return "", nil
	}
	return s.media.SaveImage(cover, model.ImageKindCover)
}

func (s *PostService) discardCover(url string) {
	if url == "" || s.media == nil {
		return
	}
	if err := s.media.DeleteImage(url); err != nil {
		s.logger.Warn("failed to delete cover image", "url", url, "error", err)
	}
}

func checkCategory(ctx context.Context, q *store.Queries, id int64) error {
	if _, err := q.GetCategoryByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidCategory
		}
		return fmt.Errorf("loading category: %w", err)
	}
	return nil
}

// mapSlugConflict turns a unique-index failure on posts.slug into ErrSlugTaken.
func mapSlugConflict(err error, action string) error {
	if store.IsUniqueViolation(err, "posts.slug") {
		return ErrSlugTaken
	}
	return fmt.Errorf("%s: %w", action, err)
}
