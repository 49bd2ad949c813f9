// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions including
// URL slug generation, slug uniqueness resolution and validation.
package util

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FallbackSlug is returned by Slugify when nothing URL-safe is left of the input.
const FallbackSlug = "post"

// MaxSlugAttempts bounds the numeric suffixes UniqueSlug will try.
const MaxSlugAttempts = 1000

// ErrSlugUnavailable is returned when no free slug could be found within MaxSlugAttempts.
var ErrSlugUnavailable = errors.New("could not allocate a unique slug")

var (
	// nonSlugRun matches every maximal run of characters outside [a-z0-9]
	nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

	// letterTable maps letters that survive canonical decomposition.
	letterTable = strings.NewReplacer(
		"ı", "i",
		"ş", "s",
		"ç", "c",
		"ğ", "g",
		"ö", "o",
		"ü", "u",
	)
)

// Slugify converts a title to a lowercase, ASCII, hyphen-delimited slug.
// Case folding is locale-invariant. Accents are stripped after decomposition,
// Turkish letters are mapped through a fixed table, other Latin letters are
// transliterated, and everything else becomes a separator. Returns
// FallbackSlug when the result would be empty.
func Slugify(s string) string {
	result := strings.ToLower(s)

	// Decompose and drop combining marks
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, result); err == nil {
		result = stripped
	}

	result = letterTable.Replace(result)
	result = transliterateLatin(result)

	result = nonSlugRun.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if result == "" {
		return FallbackSlug
	}
	return result
}

// transliterateLatin replaces non-ASCII Latin-script letters (ß, æ, ø, ł ...)
// with their ASCII spelling. Other scripts are left for the separator pass.
func transliterateLatin(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r > unicode.MaxASCII && unicode.Is(unicode.Latin, r) {
			b.WriteString(strings.ToLower(unidecode.Unidecode(string(r))))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TruncateSlug shortens a slug to at most maxLen bytes without leaving a
// trailing hyphen. Slugs are ASCII, so bytes and characters coincide.
func TruncateSlug(slug string, maxLen int) string {
	if maxLen <= 0 || len(slug) <= maxLen {
		return slug
	}
	truncated := strings.Trim(slug[:maxLen], "-")
	if truncated == "" {
		return FallbackSlug
	}
	return truncated
}

// slugPattern is the shape every generated slug has.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// IsValidSlug reports whether s could have been produced by Slugify or
// UniqueSlug. Request paths that fail it cannot name a stored record.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// SlugExistsFunc reports whether a slug is already taken.
// Callers editing an existing record must exclude that record's own ID.
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// UniqueSlug returns base if it is free, otherwise the first of base-1,
// base-2, ... that exists reports as free. The result is advisory: the
// storage layer's unique constraint remains the final guard.
func UniqueSlug(ctx context.Context, base string, exists SlugExistsFunc) (string, error) {
	return UniqueSlugWithin(ctx, base, 0, exists)
}

// UniqueSlugWithin is UniqueSlug for slugs capped at maxLen bytes. The base
// is shortened before each suffix so suffixed candidates fit too. A maxLen of
// zero or less means no cap.
func UniqueSlugWithin(ctx context.Context, base string, maxLen int, exists SlugExistsFunc) (string, error) {
	base = TruncateSlug(base, maxLen)
	for i := 0; i <= MaxSlugAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := base
		if i > 0 {
			suffix := "-" + strconv.Itoa(i)
			stem := base
			if maxLen > len(suffix) {
				stem = TruncateSlug(base, maxLen-len(suffix))
			}
			candidate = stem + suffix
		}

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("checking slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w for %q after %d attempts", ErrSlugUnavailable, base, MaxSlugAttempts)
}
