// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content renders post bodies written in Markdown.
package content

import (
	"bytes"
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)

	// ugcPolicy allows the formatting tags Markdown produces.
	ugcPolicy = func() *bluemonday.Policy {
		p := bluemonday.UGCPolicy()
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		return p
	}()

	strictPolicy = bluemonday.StrictPolicy()
)

// RenderMarkdown converts Markdown to sanitized HTML safe for direct output.
// Raw HTML in the source is dropped.
func RenderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(ugcPolicy.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized by ugcPolicy
}

// PlainText renders Markdown and strips every tag, collapsing whitespace.
// Used for excerpts and meta descriptions.
func PlainText(src string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return strings.Join(strings.Fields(src), " ")
	}
	text := html.UnescapeString(strictPolicy.Sanitize(buf.String()))
	return strings.Join(strings.Fields(text), " ")
}
