// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const postColumns = `p.id, p.title, p.slug, p.content, p.published_at, p.is_published,
    p.category_id, p.author_id, p.cover_image_url, p.created_at, p.updated_at`

const postListSelect = `SELECT ` + postColumns + `,
    c.name, c.slug, a.first_name, a.last_name
FROM posts p
LEFT JOIN categories c ON c.id = p.category_id
LEFT JOIN user_profiles a ON a.id = p.author_id`

func postScanTargets(i *Post) []any {
	return []any{
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Content,
		&i.PublishedAt,
		&i.IsPublished,
		&i.CategoryID,
		&i.AuthorID,
		&i.CoverImageUrl,
		&i.CreatedAt,
		&i.UpdatedAt,
	}
}

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var i Post
	err := row.Scan(postScanTargets(&i)...)
	return i, err
}

func scanPostListRow(row interface{ Scan(...any) error }) (PostListRow, error) {
	var i PostListRow
	targets := append(postScanTargets(&i.Post),
		&i.CategoryName,
		&i.CategorySlug,
		&i.AuthorFirstName,
		&i.AuthorLastName,
	)
	err := row.Scan(targets...)
	return i, err
}

func (q *Queries) queryPostList(ctx context.Context, query string, args ...any) ([]PostListRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []PostListRow{}
	for rows.Next() {
		i, err := scanPostListRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createPost = `-- name: CreatePost :one
INSERT INTO posts (
    title, slug, content, published_at, is_published,
    category_id, author_id, cover_image_url, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, title, slug, content, published_at, is_published,
    category_id, author_id, cover_image_url, created_at, updated_at`

type CreatePostParams struct {
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

func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, createPost,
		arg.Title,
		arg.Slug,
		arg.Content,
		arg.PublishedAt,
		arg.IsPublished,
		arg.CategoryID,
		arg.AuthorID,
		arg.CoverImageUrl,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPost(row)
}

const updatePost = `-- name: UpdatePost :one
UPDATE posts SET
    title = ?,
    slug = ?,
    content = ?,
    is_published = ?,
    category_id = ?,
    cover_image_url = ?,
    updated_at = ?
WHERE id = ?
RETURNING id, title, slug, content, published_at, is_published,
    category_id, author_id, cover_image_url, created_at, updated_at`

type UpdatePostParams struct {
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Content       string         `json:"content"`
	IsPublished   bool           `json:"is_published"`
	CategoryID    sql.NullInt64  `json:"category_id"`
	CoverImageUrl sql.NullString `json:"cover_image_url"`
	UpdatedAt     time.Time      `json:"updated_at"`
	ID            int64          `json:"id"`
}

func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, updatePost,
		arg.Title,
		arg.Slug,
		arg.Content,
		arg.IsPublished,
		arg.CategoryID,
		arg.CoverImageUrl,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanPost(row)
}

const deletePost = `-- name: DeletePost :exec
DELETE FROM posts WHERE id = ?`

func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePost, id)
	return err
}

const getPostByID = `-- name: GetPostByID :one
SELECT ` + postColumns + ` FROM posts p WHERE p.id = ?`

func (q *Queries) GetPostByID(ctx context.Context, id int64) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPostByID, id))
}

const getPostBySlug = `-- name: GetPostBySlug :one
` + postListSelect + `
WHERE p.slug = ?`

func (q *Queries) GetPostBySlug(ctx context.Context, slug string) (PostListRow, error) {
	return scanPostListRow(q.db.QueryRowContext(ctx, getPostBySlug, slug))
}

const listPublishedPosts = `-- name: ListPublishedPosts :many
` + postListSelect + `
WHERE p.is_published = 1
ORDER BY p.published_at DESC, p.id DESC
LIMIT ? OFFSET ?`

type ListPublishedPostsParams struct {
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

func (q *Queries) ListPublishedPosts(ctx context.Context, arg ListPublishedPostsParams) ([]PostListRow, error) {
	return q.queryPostList(ctx, listPublishedPosts, arg.Limit, arg.Offset)
}

const countPublishedPosts = `-- name: CountPublishedPosts :one
SELECT COUNT(*) FROM posts WHERE is_published = 1`

func (q *Queries) CountPublishedPosts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPublishedPosts).Scan(&count)
	return count, err
}

const listPublishedPostsByCategory = `-- name: ListPublishedPostsByCategory :many
` + postListSelect + `
WHERE p.is_published = 1 AND p.category_id = ?
ORDER BY p.published_at DESC, p.id DESC
LIMIT ? OFFSET ?`

type ListPublishedPostsByCategoryParams struct {
	CategoryID int64 `json:"category_id"`
	Limit      int64 `json:"limit"`
	Offset     int64 `json:"offset"`
}

func (q *Queries) ListPublishedPostsByCategory(ctx context.Context, arg ListPublishedPostsByCategoryParams) ([]PostListRow, error) {
	return q.queryPostList(ctx, listPublishedPostsByCategory, arg.CategoryID, arg.Limit, arg.Offset)
}

const countPublishedPostsByCategory = `-- name: CountPublishedPostsByCategory :one
SELECT COUNT(*) FROM posts WHERE is_published = 1 AND category_id = ?`

func (q *Queries) CountPublishedPostsByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPublishedPostsByCategory, categoryID).Scan(&count)
	return count, err
}

const listPostsByAuthor = `-- name: ListPostsByAuthor :many
` + postListSelect + `
WHERE p.author_id = ?
ORDER BY p.published_at DESC, p.id DESC`

func (q *Queries) ListPostsByAuthor(ctx context.Context, authorID int64) ([]PostListRow, error) {
	return q.queryPostList(ctx, listPostsByAuthor, authorID)
}

const postSlugExists = `-- name: PostSlugExists :one
SELECT EXISTS(SELECT 1 FROM posts WHERE slug = ?)`

func (q *Queries) PostSlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, postSlugExists, slug).Scan(&exists)
	return exists, err
}

const postSlugExistsExcluding = `-- name: PostSlugExistsExcluding :one
SELECT EXISTS(SELECT 1 FROM posts WHERE slug = ? AND id != ?)`

type PostSlugExistsExcludingParams struct {
	Slug string `json:"slug"`
	ID   int64  `json:"id"`
}

func (q *Queries) PostSlugExistsExcluding(ctx context.Context, arg PostSlugExistsExcludingParams) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, postSlugExistsExcluding, arg.Slug, arg.ID).Scan(&exists)
	return exists, err
}

const listSitemapPosts = `-- name: ListSitemapPosts :many
SELECT slug, updated_at FROM posts
WHERE is_published = 1
ORDER BY published_at DESC, id DESC`

type ListSitemapPostsRow struct {
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) ListSitemapPosts(ctx context.Context) ([]ListSitemapPostsRow, error) {
	rows, err := q.db.QueryContext(ctx, listSitemapPosts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []ListSitemapPostsRow{}
	for rows.Next() {
		var i ListSitemapPostsRow
		if err := rows.Scan(&i.Slug, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listPublishingAuthors = `-- name: ListPublishingAuthors :many
SELECT a.id, a.updated_at FROM user_profiles a
WHERE EXISTS (SELECT 1 FROM posts p WHERE p.author_id = a.id AND p.is_published = 1)
ORDER BY a.id`

type ListPublishingAuthorsRow struct {
	ID        int64     `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) ListPublishingAuthors(ctx context.Context) ([]ListPublishingAuthorsRow, error) {
	rows, err := q.db.QueryContext(ctx, listPublishingAuthors)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []ListPublishingAuthorsRow{}
	for rows.Next() {
		var i ListPublishingAuthorsRow
		if err := rows.Scan(&i.ID, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listImageURLs = `-- name: ListImageURLs :many
SELECT cover_image_url FROM posts WHERE cover_image_url IS NOT NULL AND cover_image_url != ''
UNION
SELECT profile_image_url FROM user_profiles WHERE profile_image_url IS NOT NULL AND profile_image_url != ''`

// ListImageURLs returns every image URL referenced by a post cover or a profile.
func (q *Queries) ListImageURLs(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listImageURLs)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []string{}
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		items = append(items, url)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
