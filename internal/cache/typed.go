// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Typed stores values of one type as JSON in an underlying Cacher.
type Typed[T any] struct {
	cache Cacher
	ttl   time.Duration
}

// NewTyped wraps cache for values of type T.
func NewTyped[T any](cache Cacher, ttl time.Duration) *Typed[T] {
	return &Typed[T]{cache: cache, ttl: ttl}
}

// Get returns the cached value and true, or false on a miss or a value
// that no longer decodes.
func (c *Typed[T]) Get(ctx context.Context, key string) (T, bool) {
	var value T
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false
	}
	return value, true
}

// Set stores value under key.
func (c *Typed[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, key, data, c.ttl)
}

// Delete removes key.
func (c *Typed[T]) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

// GetOrLoad returns the cached value or calls load and caches its result.
// A failed cache write is reported through onSetErr and does not fail the call.
func (c *Typed[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error), onSetErr func(error)) (T, error) {
	if value, ok := c.Get(ctx, key); ok {
		return value, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if err := c.Set(ctx, key, value); err != nil && onSetErr != nil {
		onSetErr(err)
	}
	return value, nil
}
