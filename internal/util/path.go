// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrPathTraversal is returned when a joined path escapes its base directory.
var ErrPathTraversal = errors.New("path escapes base directory")

// SafeJoinPath joins path components under basePath and verifies the result
// stays inside it. Used when turning stored upload URLs back into file paths.
func SafeJoinPath(basePath string, components ...string) (string, error) {
	fullPath := filepath.Join(append([]string{basePath}, components...)...)

	absBase, err := filepath.Abs(filepath.Clean(basePath))
	if err != nil {
		return "", err
	}
	absTarget, err := filepath.Abs(fullPath)
	if err != nil {
		return "", err
	}

	// Trailing separator keeps /uploads-other from matching /uploads
	if absTarget != absBase && !strings.HasPrefix(absTarget, absBase+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}
	return fullPath, nil
}

// IsLocalURL reports whether target is a same-site path that is safe to
// redirect to: it must start with a single slash and carry no scheme or host.
func IsLocalURL(target string) bool {
	if target == "" || target[0] != '/' {
		return false
	}
	// Protocol-relative (//host) and backslash tricks (/\host)
	if len(target) > 1 && (target[1] == '/' || target[1] == '\\') {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// LocalURLOr returns target when it is local, otherwise fallback.
func LocalURLOr(target, fallback string) string {
	if IsLocalURL(target) {
		return target
	}
	return fallback
}
