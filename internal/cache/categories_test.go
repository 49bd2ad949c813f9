// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timora/timora-blog/internal/store"
)

type countingLister struct {
	calls      int
	categories []store.Category
	err        error
}

func (l *countingLister) ListCategories(context.Context) ([]store.Category, error) {
	l.calls++
	return l.categories, l.err
}

func seedCategories() []store.Category {
	return []store.Category{
		{ID: 1, Name: "Yaşam Tarzı ve Kişisel Gelişim", Slug: "yasam-tarzi-ve-kisisel-gelisim"},
		{ID: 2, Name: "Yemek ve Beslenme", Slug: "yemek-ve-beslenme"},
		{ID: 11, Name: "Tüm Yazılar", Slug: "tum-yazilar"},
	}
}

func TestCategoryCacheList(t *testing.T) {
	backend := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = backend.Close() }()
	lister := &countingLister{categories: seedCategories()}
	cc := NewCategoryCache(backend, lister, time.Minute, nil)
	ctx := context.Background()

	first, err := cc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, seedCategories(), first)

	second, err := cc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, lister.calls, "second List should be served from cache")

	require.NoError(t, cc.Invalidate(ctx))
	_, err = cc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls)
}

func TestCategoryCacheBySlug(t *testing.T) {
	backend := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = backend.Close() }()
	cc := NewCategoryCache(backend, &countingLister{categories: seedCategories()}, time.Minute, nil)
	ctx := context.Background()

	cat, ok, err := cc.BySlug(ctx, "yemek-ve-beslenme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2), cat.ID)

	_, ok, err = cc.BySlug(ctx, "yok")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCategoryCacheLoadError(t *testing.T) {
	backend := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = backend.Close() }()
	loadErr := errors.New("database is locked")
	lister := &countingLister{err: loadErr}
	cc := NewCategoryCache(backend, lister, time.Minute, nil)

	_, err := cc.List(context.Background())
	assert.ErrorIs(t, err, loadErr)

	has, _ := backend.Has(context.Background(), CategoriesKey)
	assert.False(t, has, "failed loads must not be cached")
}

func TestCategoryCacheWithStore(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "timora-cache-*.db")
	require.NoError(t, err)
	_ = f.Close()

	db, err := store.NewDB(f.Name())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	require.NoError(t, store.Migrate(db))

	backend := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = backend.Close() }()
	cc := NewCategoryCache(backend, store.New(db), time.Minute, nil)

	categories, err := cc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 11)
	assert.Equal(t, "tum-yazilar", categories[10].Slug)
}

func TestTypedCacheDecodeFailureIsMiss(t *testing.T) {
	backend := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = backend.Close() }()
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, "k", []byte("{not json"), 0))
	typed := NewTyped[[]store.Category](backend, time.Minute)
	_, ok := typed.Get(ctx, "k")
	assert.False(t, ok)
}
