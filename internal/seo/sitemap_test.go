// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

func TestSitemapBuilderURLs(t *testing.T) {
	updated := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("TRT", 3*60*60))

	b := NewSitemapBuilder("https://timora.example/")
	b.AddHomepage()
	b.AddPosts([]SitemapPost{
		{Slug: "mercimek-corbasi", UpdatedAt: updated},
		{Slug: "bos-tarih"},
	})
	b.AddCategories([]SitemapCategory{{Slug: "yemek-ve-beslenme"}})
	b.AddAuthor(SitemapAuthor{ID: 7, UpdatedAt: updated})

	tests := []struct {
		name     string
		index    int
		loc      string
		lastMod  string
		priority string
	}{
		{"home", 0, "https://timora.example/", "", "1.0"},
		{"blog index", 1, "https://timora.example/blog", "", "0.9"},
		{"post", 2, "https://timora.example/blog/mercimek-corbasi", "2025-03-01T09:00:00Z", "0.8"},
		{"post without date", 3, "https://timora.example/blog/bos-tarih", "", "0.8"},
		{"category", 4, "https://timora.example/blog?category=yemek-ve-beslenme", "", "0.6"},
		{"author", 5, "https://timora.example/profile/7", "2025-03-01T09:00:00Z", "0.5"},
	}

	if b.Len() != len(tests) {
		t.Fatalf("Len() = %d, want %d", b.Len(), len(tests))
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.urls[tt.index]
			if got.Loc != tt.loc {
				t.Errorf("Loc = %q, want %q", got.Loc, tt.loc)
			}
			if got.LastMod != tt.lastMod {
				t.Errorf("LastMod = %q, want %q", got.LastMod, tt.lastMod)
			}
			if got.Priority != tt.priority {
				t.Errorf("Priority = %q, want %q", got.Priority, tt.priority)
			}
		})
	}
}

func TestSitemapBuild(t *testing.T) {
	b := NewSitemapBuilder("https://timora.example")
	b.AddHomepage()
	b.AddPost(SitemapPost{Slug: "a&b"})

	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	s := string(out)
	if !strings.HasPrefix(s, xml.Header) {
		t.Error("Build() should start with the XML header")
	}
	if !strings.Contains(s, `xmlns="`+XMLNamespace+`"`) {
		t.Error("Build() should declare the sitemap namespace")
	}
	if !strings.Contains(s, "/blog/a&amp;b") {
		t.Errorf("Build() should escape locations, got:\n%s", s)
	}

	var parsed Sitemap
	if err := xml.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}
	if len(parsed.URLs) != 3 {
		t.Errorf("parsed %d URLs, want 3", len(parsed.URLs))
	}
}
