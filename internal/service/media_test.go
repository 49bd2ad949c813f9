// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timora/timora-blog/internal/model"
	"github.com/timora/timora-blog/internal/testutil"
)

func TestMediaServiceDeleteImageIgnoresForeignURLs(t *testing.T) {
	dir := t.TempDir()
	media := NewMediaService(dir, 0, testutil.TestLogger())

	for _, url := range []string{"", "https://cdn.example.com/a.jpg", "/static/img/logo.png"} {
		assert.NoError(t, media.DeleteImage(url), url)
	}
	assert.NoError(t, media.DeleteImage(UploadsURLPrefix+model.ImageKindCover+"/missing.jpg"))
	assert.Error(t, media.DeleteImage(UploadsURLPrefix+"../../etc/passwd"))
}

func TestMediaServicePruneOrphans(t *testing.T) {
	dir := t.TempDir()
	media := NewMediaService(dir, 0, testutil.TestLogger())

	kept, err := media.SaveImage(bytes.NewReader(pngBytes(t, 16, 16)), model.ImageKindCover)
	require.NoError(t, err)
	orphan, err := media.SaveImage(bytes.NewReader(pngBytes(t, 16, 16)), model.ImageKindProfile)
	require.NoError(t, err)
	fresh, err := media.SaveImage(bytes.NewReader(pngBytes(t, 16, 16)), model.ImageKindCover)
	require.NoError(t, err)

	old := time.Now().Add(-2 * time.Hour)
	for _, url := range []string{kept, orphan} {
		require.NoError(t, os.Chtimes(uploadedFile(dir, url), old, old))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, model.ImageKindCover, "nested"), 0755))

	removed, err := media.PruneOrphans([]string{kept}, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.FileExists(t, uploadedFile(dir, kept))
	assert.NoFileExists(t, uploadedFile(dir, orphan))
	assert.FileExists(t, uploadedFile(dir, fresh), "recent uploads survive")
	assert.DirExists(t, filepath.Join(dir, model.ImageKindCover, "nested"))
}

func TestMediaServicePruneOrphansEmptyDir(t *testing.T) {
	media := NewMediaService(t.TempDir(), 0, testutil.TestLogger())
	removed, err := media.PruneOrphans(nil, time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
