// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timora/timora-blog/internal/testutil"
)

func TestSitemap(t *testing.T) {
	app := newTestApp(t)
	_, author := testutil.CreateAuthor(t, app.db, "deniz@example.com", "Deniz", "Kaya")
	_, reader := testutil.CreateAuthor(t, app.db, "okur@example.com", "Ece", "Yılmaz")
	testutil.CreatePost(t, app.db, author.ID, 2, "Mercimek Çorbası", true)
	testutil.CreatePost(t, app.db, author.ID, 2, "Gizli Taslak", false)

	h := NewSEOHandler(app.db, app.categories, "https://timora.example", false)
	rec := httptest.NewRecorder()
	h.Sitemap(rec, httptest.NewRequest(http.MethodGet, RouteSitemap, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<loc>https://timora.example/blog/mercimek-corbasi</loc>")
	assert.NotContains(t, body, "gizli-taslak")
	assert.Contains(t, body, "<loc>https://timora.example/blog?category=yemek-ve-beslenme</loc>")
	assert.NotContains(t, body, "category=tum-yazilar")
	assert.Contains(t, body, "<loc>https://timora.example"+profileURL(author.ID)+"</loc>")
	assert.NotContains(t, body, "<loc>https://timora.example"+profileURL(reader.ID)+"</loc>")
}

func TestRobots(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name        string
		siteURL     string
		disallowAll bool
		forwarded   string
		want        []string
		notWant     []string
	}{
		{
			name:    "configured site URL",
			siteURL: "https://timora.example",
			want:    []string{"Disallow: /login\n", "Allow: /\n", "Sitemap: https://timora.example/sitemap.xml"},
		},
		{
			name:      "derived from request",
			forwarded: "https",
			want:      []string{"Sitemap: https://example.com/sitemap.xml"},
		},
		{
			name:        "blocked",
			disallowAll: true,
			want:        []string{"Disallow: /\n"},
			notWant:     []string{"Allow: /", "Sitemap:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSEOHandler(app.db, app.categories, tt.siteURL, tt.disallowAll)
			req := httptest.NewRequest(http.MethodGet, RouteRobots, nil)
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-Proto", tt.forwarded)
			}
			rec := httptest.NewRecorder()
			h.Robots(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			for _, s := range tt.want {
				assert.Contains(t, rec.Body.String(), s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, rec.Body.String(), s)
			}
		})
	}
}
