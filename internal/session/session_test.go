// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timora/timora-blog/internal/testutil"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := testutil.TestMemoryDB(t)

	_, err := db.Exec(`
		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX idx_sessions_expiry ON sessions(expiry);
	`)
	require.NoError(t, err)
	return db
}

func TestNew_DevMode(t *testing.T) {
	sm := New(setupTestDB(t), true)

	assert.NotNil(t, sm.Store)
	assert.False(t, sm.Cookie.Secure)
	assert.Equal(t, "timora_session", sm.Cookie.Name)
	assert.Equal(t, Lifetime, sm.Lifetime)
	assert.True(t, sm.Cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, sm.Cookie.SameSite)
}

func TestNew_ProductionMode(t *testing.T) {
	sm := New(setupTestDB(t), false)

	assert.True(t, sm.Cookie.Secure)
	assert.Equal(t, "__Host-timora_session", sm.Cookie.Name)
	assert.Equal(t, "/", sm.Cookie.Path)
}

func TestFlashRoundTrip(t *testing.T) {
	sm := New(setupTestDB(t), true)

	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)

	_, ok := PopFlash(ctx, sm)
	assert.False(t, ok, "no flash before PutFlash")

	PutFlash(ctx, sm, FlashSuccess, "Yazı yayınlandı")

	flash, ok := PopFlash(ctx, sm)
	require.True(t, ok)
	assert.Equal(t, Flash{Message: "Yazı yayınlandı", Type: FlashSuccess}, flash)

	_, ok = PopFlash(ctx, sm)
	assert.False(t, ok, "flash is consumed by the first pop")
}

func TestPopFlash_DefaultType(t *testing.T) {
	sm := New(setupTestDB(t), true)

	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)

	sm.Put(ctx, KeyFlash, "bilgi")
	flash, ok := PopFlash(ctx, sm)
	require.True(t, ok)
	assert.Equal(t, FlashInfo, flash.Type)
}

func TestStoreCommit(t *testing.T) {
	db := setupTestDB(t)
	sm := New(db, true)

	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)
	sm.Put(ctx, KeyUserID, int64(42))

	token, _, err := sm.Commit(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	loaded, err := sm.Load(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), sm.GetInt64(loaded, KeyUserID))
}
