// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/timora/timora-blog/internal/i18n"
)

// fieldCategoryID gets the category message instead of the generic one.
const fieldCategoryID = "category_id"

// validationErrors translates ozzo-validation field errors into per-field
// messages in lang. An error code such as "validation_length_too_long" maps
// to the catalog key "validation.length_too_long" and its params fill the
// message. It returns nil when err is not a validation error.
func validationErrors(lang string, err error) map[string]string {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return nil
	}

	out := make(map[string]string, len(fieldErrs))
	for field, fieldErr := range fieldErrs {
		if field == fieldCategoryID {
			out[field] = i18n.T(lang, "validation.category")
			continue
		}
		out[field] = translateFieldError(lang, fieldErr)
	}
	return out
}

func translateFieldError(lang string, err error) string {
	var vErr validation.Error
	if !errors.As(err, &vErr) {
		return err.Error()
	}

	key := strings.Replace(vErr.Code(), "validation_", "validation.", 1)
	params := vErr.Params()

	var args []any
	switch vErr.Code() {
	case validation.ErrLengthOutOfRange.Code():
		args = []any{params["min"], params["max"]}
	case validation.ErrLengthTooLong.Code():
		args = []any{params["max"]}
	case validation.ErrLengthTooShort.Code():
		args = []any{params["min"]}
	case validation.ErrMinGreaterEqualThanRequired.Code(), validation.ErrMaxLessEqualThanRequired.Code():
		args = []any{params["threshold"]}
	}

	msg := i18n.T(lang, key, args...)
	if msg == key {
		// No catalog entry; ozzo's own message beats a raw key.
		return vErr.Error()
	}
	return msg
}
