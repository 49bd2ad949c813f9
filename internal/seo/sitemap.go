// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds the sitemap and robots.txt documents for the public blog.
package seo

import (
	"encoding/xml"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequencies used by the blog.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapPost is a published post.
type SitemapPost struct {
	Slug      string
	UpdatedAt time.Time
}

// SitemapCategory is a category filter of the blog index.
type SitemapCategory struct {
	Slug string
}

// SitemapAuthor is a public author profile.
type SitemapAuthor struct {
	ID        int64
	UpdatedAt time.Time
}

// SitemapBuilder collects blog URLs and renders them as sitemap XML.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a builder for absolute URLs under siteURL.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the home page and the blog index.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls,
		SitemapURL{Loc: b.siteURL + "/", ChangeFreq: ChangeFreqDaily, Priority: "1.0"},
		SitemapURL{Loc: b.siteURL + "/blog", ChangeFreq: ChangeFreqDaily, Priority: "0.9"},
	)
}

// AddPost adds a post page.
func (b *SitemapBuilder) AddPost(post SitemapPost) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/blog/" + url.PathEscape(post.Slug),
		LastMod:    lastMod(post.UpdatedAt),
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.8",
	})
}

// AddPosts adds multiple post pages.
func (b *SitemapBuilder) AddPosts(posts []SitemapPost) {
	for _, p := range posts {
		b.AddPost(p)
	}
}

// AddCategory adds the blog index filtered by a category.
func (b *SitemapBuilder) AddCategory(cat SitemapCategory) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/blog?category=" + url.QueryEscape(cat.Slug),
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.6",
	})
}

// AddCategories adds multiple category listings.
func (b *SitemapBuilder) AddCategories(categories []SitemapCategory) {
	for _, c := range categories {
		b.AddCategory(c)
	}
}

// AddAuthor adds an author profile page.
func (b *SitemapBuilder) AddAuthor(author SitemapAuthor) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/profile/" + strconv.FormatInt(author.ID, 10),
		LastMod:    lastMod(author.UpdatedAt),
		ChangeFreq: ChangeFreqMonthly,
		Priority:   "0.5",
	})
}

// Len returns the number of collected URLs.
func (b *SitemapBuilder) Len() int {
	return len(b.urls)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}

func lastMod(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
