// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"net/http"
	"net/url"
	"strconv"
)

// Pagination holds pagination data for frontend templates.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int64
	PerPage     int
	HasPrev     bool
	HasNext     bool
	PrevURL     string
	NextURL     string
	Pages       []PaginationPage
}

// PaginationPage represents a single page link in pagination.
type PaginationPage struct {
	Number     int
	URL        string
	IsCurrent  bool
	IsEllipsis bool
}

// Offset returns the SQL OFFSET for the current page.
func (p Pagination) Offset() int64 {
	return int64((p.CurrentPage - 1) * p.PerPage)
}

// ShouldShow returns true if pagination should be displayed (more than 1 page).
func (p Pagination) ShouldShow() bool {
	return p.TotalPages > 1
}

// BuildPagination clamps page into range and builds page links that keep
// the other query parameters of baseURL's query.
func BuildPagination(page int, totalItems int64, perPage int, basePath string, query url.Values) Pagination {
	totalPages := CalculateTotalPages(int(totalItems), perPage)
	page = ClampPage(page, totalPages)

	params := make(url.Values)
	for k, v := range query {
		if k != "page" && len(v) > 0 && v[0] != "" {
			params[k] = v
		}
	}
	buildURL := func(n int) string {
		q := make(url.Values, len(params)+1)
		for k, v := range params {
			q[k] = v
		}
		if n > 1 {
			q.Set("page", strconv.Itoa(n))
		}
		if len(q) == 0 {
			return basePath
		}
		return basePath + "?" + q.Encode()
	}

	p := Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PerPage:     perPage,
		HasPrev:     page > 1,
		HasNext:     page < totalPages,
	}
	if p.HasPrev {
		p.PrevURL = buildURL(page - 1)
	}
	if p.HasNext {
		p.NextURL = buildURL(page + 1)
	}
	p.Pages = buildPages(page, totalPages, buildURL)
	return p
}

// buildPages shows up to 5 page numbers centered on the current page, with
// ellipses for gaps, always including the first and last pages.
func buildPages(currentPage, totalPages int, buildURL func(int) string) []PaginationPage {
	var pages []PaginationPage

	start, end := currentPage-2, currentPage+2
	if start < 1 {
		start, end = 1, 5
	}
	if end > totalPages {
		end = totalPages
		start = max(end-4, 1)
	}

	if start > 1 {
		pages = append(pages, PaginationPage{Number: 1, URL: buildURL(1)})
		if start > 2 {
			pages = append(pages, PaginationPage{IsEllipsis: true})
		}
	}
	for i := start; i <= end; i++ {
		pages = append(pages, PaginationPage{Number: i, URL: buildURL(i), IsCurrent: i == currentPage})
	}
	if end < totalPages {
		if end < totalPages-1 {
			pages = append(pages, PaginationPage{IsEllipsis: true})
		}
		pages = append(pages, PaginationPage{Number: totalPages, URL: buildURL(totalPages)})
	}
	return pages
}

// CalculateTotalPages calculates the number of pages for the given total items and items per page.
func CalculateTotalPages(totalItems, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	return max((totalItems+perPage-1)/perPage, 1)
}

// ClampPage ensures the page number is within the valid range [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// ParsePageParam parses the "page" query parameter, returning 1 when it is
// missing or not a positive integer.
func ParsePageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
