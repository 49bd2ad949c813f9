// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

// Breadcrumb represents a single breadcrumb item.
type Breadcrumb struct {
	Label  string
	URL    string
	Active bool
}

// BuildBreadcrumbs returns the trail with only the last item active.
// The active item is the current page, so its URL is cleared.
func BuildBreadcrumbs(items ...Breadcrumb) []Breadcrumb {
	trail := make([]Breadcrumb, len(items))
	for i, item := range items {
		item.Active = i == len(items)-1
		if item.Active {
			item.URL = ""
		}
		trail[i] = item
	}
	return trail
}
