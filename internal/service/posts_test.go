// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timora/timora-blog/internal/model"
	"github.com/timora/timora-blog/internal/store"
	"github.com/timora/timora-blog/internal/testutil"
	"github.com/timora/timora-blog/internal/util"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// uploadedFile maps a public upload URL back to its path under dir.
func uploadedFile(dir, url string) string {
	return filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(url, UploadsURLPrefix)))
}

func newPostFixture(t *testing.T) (*PostService, *sql.DB, string) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	dir := t.TempDir()
	media := NewMediaService(dir, 0, testutil.TestLogger())
	return NewPostService(db, media, testutil.TestLogger()), db, dir
}

func postForm(title string) model.PostForm {
	return model.PostForm{
		Title:       title,
		Content:     "İçerik",
		CategoryID:  1,
		IsPublished: true,
	}
}

func TestPostServiceCreateResolvesSlug(t *testing.T) {
	svc, db, _ := newPostFixture(t)
	_, author := testutil.CreateAuthor(t, db, "a@example.com", "Ayşe", "Kaya")
	ctx := context.Background()

	first, err := svc.Create(ctx, author.ID, postForm("Merhaba Dünya!"), nil)
	require.NoError(t, err)
	assert.Equal(t, "merhaba-dunya", first.Slug)
	assert.Equal(t, author.ID, first.AuthorID.Int64)
	assert.False(t, first.CoverImageUrl.Valid)

	second, err := svc.Create(ctx, author.ID, postForm("Merhaba, Dünya"), nil)
	require.NoError(t, err)
	assert.Equal(t, "merhaba-dunya-1", second.Slug)

	third, err := svc.Create(ctx, author.ID, postForm("merhaba dünya"), nil)
	require.NoError(t, err)
	assert.Equal(t, "merhaba-dunya-2", third.Slug)
}

func TestPostServiceCreateFallbackSlug(t *testing.T) {
	svc, db, _ := newPostFixture(t)
	_, author := testutil.CreateAuthor(t, db, "a@example.com", "Ayşe", "Kaya")

	post, err := svc.Create(context.Background(), author.ID, postForm("!!!"), nil)
	require.NoError(t, err)
	assert.Equal(t, "post", post.Slug)
}

func TestPostServiceCreateLongTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
	}{
		{"ascii title at the limit", strings.Repeat("a", model.MaxTitleLength)},
		{"words cut at the limit", strings.Repeat("uzun baslik ", 20)[:model.MaxTitleLength]},
		{"transliteration grows the slug", strings.Repeat("ß", 150)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db, _ := newPostFixture(t)
			_, author := testutil.CreateAuthor(t, db, "a@example.com", "Ayşe", "Kaya")
			ctx := context.Background()

			first, err := svc.Create(ctx, author.ID, postForm(tt.title), nil)
			require.NoError(t, err)
			second, err := svc.Create(ctx, author.ID, postForm(tt.title), nil)
			require.NoError(t, err)

			for _, slug := range []string{first.Slug, second.Slug} {
				assert.LessOrEqual(t, len(slug), MaxSlugLength)
				assert.True(t, util.IsValidSlug(slug), "slug %q", slug)
			}
			assert.True(t, strings.HasSuffix(second.Slug, "-1"), "second slug %q", second.Slug)
			assert.NotEqual(t, first.Slug, second.Slug)
		})
	}
}

func TestPostServiceUpdateLongTitleCollision(t *testing.T) {
	svc, db, _ := newPostFixture(t)
	_, author := testutil.CreateAuthor(t, db, "a@example.com", "Ayşe", "Kaya")
	ctx := context.Background()

	title := strings.Repeat("b", model.MaxTitleLength)
	_, err := svc.Create(ctx, author.ID, postForm(title), nil)
	require.NoError(t, err)
	other, err := svc.Create(ctx, author.ID, postForm("Kısa"), nil)
	require.NoError(t, err)

	renamed, err := svc.Update(ctx, author.ID, other.ID, postForm(title), nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("b", MaxSlugLength-2)+"-1", renamed.Slug)
}

func TestPostServiceCreateInvalidCategory(t *testing.T) {
	svc, db, _ := newPostFixture(t)
	_, author := testutil.CreateAuthor(t, db, "a@example.com", "Ayşe", "Kaya")

	form := postForm("Kategorisiz")
	form.CategoryID = 999
	_, err := svc.Create(context.Background(), author.ID, form, nil)
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestPostServiceCreateWithCover(t *testing.T) {
	svc, db, dir := newPostFixture(t)
	_, author := testutil.CreateAuthor(t, db, "a@example.com", "Ayşe", "Kaya")

	post, err := svc.Create(context.Background(), author.ID, postForm("Kapak"), bytes.NewReader(pngBytes(t, 64, 32)))
	require.NoError(t, err)
	require.True(t, post.CoverImageUrl.Valid)
	assert.True(t, strings.HasPrefix(post.CoverImageUrl.String, "/uploads/covers/"))
	assert.FileExists(t, uploadedFile(dir, post.CoverImageUrl.String))
}

func TestPostServiceCreateRejectsInvalidCover(t *testing.T) {
	svc, db, _ := newPostFixture(t)
	_, author := testutil.CreateAuthor(t, db, "a@example.com", "Ayşe", "Kaya")

	_, err := svc.Create(context.Background(), author.ID, postForm("Kapak"), strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	count, err := store.New(db).CountPublishedPosts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPostServiceUpdateSlug(t *testing.T) {
	svc, db, _ := newPostFixture(t)
	_, author := testutil.CreateAuthor(t, db, "a@example.com", "Ayşe", "Kaya")
	ctx := context.Background()

	other, err := svc.Create(ctx, author.ID, postForm("Post"), nil)
	require.NoError(t, err)
	require.Equal(t, "post", other.Slug)

	mine, err := svc.Create(ctx, author.ID, postForm("Başka"), nil)
	require.NoError(t, err)
	require.Equal(t, "baska", mine.Slug)

	t.Run("same title keeps slug", func(t *testing.T) {
		form := postForm("Başka")
		form.Content = "Yeni içerik"
		updated, err := svc.Update(ctx, author.ID, mine.ID, form, nil)
		require.NoError(t, err)
		assert.Equal(t, "baska", updated.Slug)
		assert.Equal(t, "Yeni içerik", updated.Content)
	})

	t.Run("title colliding with another post gets suffix", func(t *testing.T) {
		updated, err := svc.Update(ctx, author.ID, mine.ID, postForm("POST"), nil)
		require.NoError(t, err)
		assert.Equal(t, "post-1", updated.Slug)
	})

	t.Run("record keeps its own slug", func(t *testing.T) {
		updated, err := svc.Update(ctx, author.ID, other.ID, postForm("post!"), nil)
		require.NoError(t, err)
		assert.Equal(t, "post", updated.Slug)
	})
}

func TestPostServiceUpdateNotOwner(t *testing.T) {
	svc, db, _ := newPostFixture(t)
	_, author := testutil.CreateAuthor(t, db, "a@example.com", "Ayşe", "Kaya")
	_, intruder := testutil.CreateAuthor(t, db, "b@example.com", "Mehmet", "Demir")
	ctx := context.Background()

	post, err := svc.Create(ctx, author.ID, postForm("Benim Yazım"), nil)
	require.NoError(t, err)

	_, err = svc.Update(ctx, intruder.ID, post.ID, postForm("Ele Geçirildi"), nil)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.GetOwned(ctx, intruder.ID, post.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.Update(ctx, author.ID, 9999, postForm("Yok"), nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPostServiceUpdateReplacesCover(t *testing.T) {
	svc, db, dir := newPostFixture(t)
	_, author := testutil.CreateAuthor(t, db, "a@example.com", "Ayşe", "Kaya")
	ctx := context.Background()

	post, err := svc.Create(ctx, author.ID, postForm("Kapak"), bytes.NewReader(pngBytes(t, 20, 20)))
	require.NoError(t, err)
	oldPath := uploadedFile(dir, post.CoverImageUrl.String)

	kept, err := svc.Update(ctx, author.ID, post.ID, postForm("Kapak"), nil)
	require.NoError(t, err)
	assert.Equal(t, post.CoverImageUrl, kept.CoverImageUrl)
	assert.FileExists(t, oldPath)

	replaced, err := svc.Update(ctx, author.ID, post.ID, postForm("Kapak"), bytes.NewReader(pngBytes(t, 30, 30)))
	require.NoError(t, err)
	assert.NotEqual(t, post.CoverImageUrl.String, replaced.CoverImageUrl.String)
	assert.FileExists(t, uploadedFile(dir, replaced.CoverImageUrl.String))
	assert.NoFileExists(t, oldPath)
}

func TestPostServiceDelete(t *testing.T) {
	svc, db, dir := newPostFixture(t)
	_, author := testutil.CreateAuthor(t, db, "a@example.com", "Ayşe", "Kaya")
	_, intruder := testutil.CreateAuthor(t, db, "b@example.com", "Mehmet", "Demir")
	ctx := context.Background()

	post, err := svc.Create(ctx, author.ID, postForm("Silinecek"), bytes.NewReader(pngBytes(t, 10, 10)))
	require.NoError(t, err)
	coverPath := uploadedFile(dir, post.CoverImageUrl.String)

	assert.ErrorIs(t, svc.Delete(ctx, intruder.ID, post.ID), ErrNotOwner)

	require.NoError(t, svc.Delete(ctx, author.ID, post.ID))
	_, err = store.New(db).GetPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, statErr := os.Stat(coverPath)
	assert.True(t, os.IsNotExist(statErr))

	assert.ErrorIs(t, svc.Delete(ctx, author.ID, post.ID), sql.ErrNoRows)
}

func TestIsPostAuthor(t *testing.T) {
	post := store.Post{AuthorID: sql.NullInt64{Int64: 7, Valid: true}}

	assert.True(t, IsPostAuthor(post, 7))
	assert.False(t, IsPostAuthor(post, 8))
	assert.False(t, IsPostAuthor(post, 0))
	assert.False(t, IsPostAuthor(store.Post{}, 0))
}

func TestMapSlugConflict(t *testing.T) {
	conflict := errors.New("constraint failed: UNIQUE constraint failed: posts.slug (2067)")
	assert.ErrorIs(t, mapSlugConflict(conflict, "creating post"), ErrSlugTaken)

	other := errors.New("disk I/O error")
	err := mapSlugConflict(other, "creating post")
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, ErrSlugTaken)
	assert.Contains(t, err.Error(), "creating post")
}
