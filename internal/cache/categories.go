// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/timora/timora-blog/internal/store"
)

// CategoriesKey is the cache key of the full category list.
const CategoriesKey = "categories:all"

// CategoryLister loads the category list from storage.
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]store.Category, error)
}

// CategoryCache serves the category sidebar. Categories are a fixed seed set,
// so entries only expire by TTL or an explicit Invalidate.
type CategoryCache struct {
	typed  *Typed[[]store.Category]
	source CategoryLister
	logger *slog.Logger
}

// NewCategoryCache creates a category cache over backend.
func NewCategoryCache(backend Cacher, source CategoryLister, ttl time.Duration, logger *slog.Logger) *CategoryCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryCache{
		typed:  NewTyped[[]store.Category](backend, ttl),
		source: source,
		logger: logger,
	}
}

// List returns all categories ordered by id.
func (c *CategoryCache) List(ctx context.Context) ([]store.Category, error) {
	return c.typed.GetOrLoad(ctx, CategoriesKey, c.source.ListCategories, func(err error) {
		c.logger.Warn("failed to cache categories", "error", err)
	})
}

// BySlug finds a category in the cached list.
func (c *CategoryCache) BySlug(ctx context.Context, slug string) (store.Category, bool, error) {
	categories, err := c.List(ctx)
	if err != nil {
		return store.Category{}, false, err
	}
	for _, cat := range categories {
		if cat.Slug == slug {
			return cat, true, nil
		}
	}
	return store.Category{}, false, nil
}

// Invalidate drops the cached list.
func (c *CategoryCache) Invalidate(ctx context.Context) error {
	return c.typed.Delete(ctx, CategoriesKey)
}
