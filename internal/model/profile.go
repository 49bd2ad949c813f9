// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the blog's domain rules: derived profile fields,
// form input types with their validation, and image constraints.
package model

import (
	"strings"
	"time"
)

// daysPerYear averages leap years into age calculations.
const daysPerYear = 365.25

// FullName joins the non-blank name parts with a single space.
func FullName(first, last string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{first, last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Age returns whole years between birth and now, computed as
// floor(days / 365.25). Returns nil without a birth date.
func Age(birth *time.Time, now time.Time) *int {
	if birth == nil || birth.IsZero() {
		return nil
	}
	// Seconds instead of Duration, which saturates after ~292 years.
	days := float64(now.Unix()-birth.Unix()) / 86400
	years := int(days / daysPerYear)
	if days < 0 {
		years = 0
	}
	return &years
}

// BirthDateFromAge approximates a birth date as now minus age years.
func BirthDateFromAge(age int, now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y-age, m, d, 0, 0, 0, 0, time.UTC)
}
