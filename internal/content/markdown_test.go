// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "emphasis",
			input:    "Güne **yavaş** başlamak",
			contains: []string{"<strong>yavaş</strong>"},
		},
		{
			name:     "list",
			input:    "- Bir\n- İki",
			contains: []string{"<ul>", "<li>Bir</li>", "<li>İki</li>"},
		},
		{
			name:     "hard wraps",
			input:    "satır bir\nsatır iki",
			contains: []string{"<br"},
		},
		{
			name:     "raw script is dropped",
			input:    "Merhaba <script>alert(1)</script>",
			excludes: []string{"<script", "alert(1)</script>"},
		},
		{
			name:     "javascript link is neutralized",
			input:    "[tıkla](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
		{
			name:     "external link gets nofollow",
			input:    "[site](https://example.com)",
			contains: []string{`href="https://example.com"`, "nofollow"},
		},
		{
			name:     "strikethrough extension",
			input:    "~~eski~~",
			contains: []string{"<del>eski</del>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(RenderMarkdown(tt.input))
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("RenderMarkdown(%q) = %q, want it to contain %q", tt.input, got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("RenderMarkdown(%q) = %q, must not contain %q", tt.input, got, bad)
				}
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"# Başlık\n\nGüne **yavaş** başlamak.", "Başlık Güne yavaş başlamak."},
		{"Tom & Jerry's", "Tom & Jerry's"},
		{"<b>kalın</b> metin", "kalın metin"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := PlainText(tt.input); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
