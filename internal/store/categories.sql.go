// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

const listCategories = `-- name: ListCategories :many
SELECT id, name, slug FROM categories ORDER BY id`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Category{}
	for rows.Next() {
		var i Category
		if err := rows.Scan(&i.ID, &i.Name, &i.Slug); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getCategoryByID = `-- name: GetCategoryByID :one
SELECT id, name, slug FROM categories WHERE id = ?`

func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	var i Category
	err := q.db.QueryRowContext(ctx, getCategoryByID, id).Scan(&i.ID, &i.Name, &i.Slug)
	return i, err
}

const getCategoryBySlug = `-- name: GetCategoryBySlug :one
SELECT id, name, slug FROM categories WHERE slug = ?`

func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	var i Category
	err := q.db.QueryRowContext(ctx, getCategoryBySlug, slug).Scan(&i.ID, &i.Name, &i.Slug)
	return i, err
}

const categorySlugExists = `-- name: CategorySlugExists :one
SELECT EXISTS(SELECT 1 FROM categories WHERE slug = ?)`

func (q *Queries) CategorySlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, categorySlugExists, slug).Scan(&exists)
	return exists, err
}
