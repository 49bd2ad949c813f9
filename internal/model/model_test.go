// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullName(t *testing.T) {
	tests := []struct {
		first, last, want string
	}{
		{"Ayşe", "Demir", "Ayşe Demir"},
		{"Ayşe", "", "Ayşe"},
		{"", "Demir", "Demir"},
		{"  ", "Demir ", "Demir"},
		{"", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FullName(tt.first, tt.last), "FullName(%q, %q)", tt.first, tt.last)
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	assert.Nil(t, Age(nil, now))
	assert.Nil(t, Age(&time.Time{}, now))

	tests := []struct {
		name  string
		birth time.Time
		want  int
	}{
		{"birthday passed", time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC), 35},
		{"birthday ahead", time.Date(1990, time.December, 31, 0, 0, 0, 0, time.UTC), 34},
		{"born this year", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), 0},
		{"future date", time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC), 0},
		{"centuries ago", time.Date(1700, time.January, 1, 0, 0, 0, 0, time.UTC), 325},
		{"far future", time.Date(2999, time.January, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Age(&tt.birth, now)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestBirthDateFromAge(t *testing.T) {
	now := time.Date(2025, time.June, 15, 18, 30, 0, 0, time.UTC)
	birth := BirthDateFromAge(30, now)

	assert.Equal(t, time.Date(1995, time.June, 15, 0, 0, 0, 0, time.UTC), birth)
	age := Age(&birth, now)
	require.NotNil(t, age)
	assert.Equal(t, 30, *age)
}

// fieldCode returns the ozzo error code reported for field, or "".
func fieldCode(t *testing.T, err error, field string) string {
	t.Helper()
	if err == nil {
		return ""
	}
	var errs validation.Errors
	require.True(t, errors.As(err, &errs), "expected validation.Errors, got %T", err)
	fe, ok := errs[field]
	if !ok {
		return ""
	}
	var ve validation.Error
	require.True(t, errors.As(fe, &ve), "expected validation.Error for %s, got %T", field, fe)
	return ve.Code()
}

func validRegisterForm() RegisterForm {
	return RegisterForm{
		FirstName:       "Ayşe",
		LastName:        "Demir",
		Age:             30,
		Email:           "ayse@example.com",
		Password:        "gizli1",
		ConfirmPassword: "gizli1",
	}
}

func TestRegisterFormValidate(t *testing.T) {
	require.NoError(t, validRegisterForm().Validate())

	tests := []struct {
		name   string
		mutate func(*RegisterForm)
		field  string
		code   string
	}{
		{"missing first name", func(f *RegisterForm) { f.FirstName = "" }, "first_name", "validation_required"},
		{"long last name", func(f *RegisterForm) { f.LastName = strings.Repeat("ş", 101) }, "last_name", "validation_length_out_of_range"},
		{"too young", func(f *RegisterForm) { f.Age = 9 }, "age", "validation_min_greater_equal_than_required"},
		{"too old", func(f *RegisterForm) { f.Age = 121 }, "age", "validation_max_less_equal_than_required"},
		{"bad email", func(f *RegisterForm) { f.Email = "not-an-email" }, "email", "validation_is_email"},
		{"bad phone", func(f *RegisterForm) { f.Phone = "call me" }, "phone", "validation_phone"},
		{"short password", func(f *RegisterForm) { f.Password, f.ConfirmPassword = "abc", "abc" }, "password", "validation_length_out_of_range"},
		{"mismatch", func(f *RegisterForm) { f.ConfirmPassword = "different" }, "confirm_password", "validation_password_mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validRegisterForm()
			tt.mutate(&f)
			assert.Equal(t, tt.code, fieldCode(t, f.Validate(), tt.field))
		})
	}
}

func TestRegisterFormBoundaries(t *testing.T) {
	f := validRegisterForm()
	f.Age = MinAge
	assert.NoError(t, f.Validate())
	f.Age = MaxAge
	assert.NoError(t, f.Validate())

	f = validRegisterForm()
	f.Phone = "+90 (555) 123-45-67"
	assert.NoError(t, f.Validate())
}

func TestRegisterFormNormalize(t *testing.T) {
	f := RegisterForm{FirstName: " Ayşe ", Email: " AYSE@Example.com "}
	f.Normalize()
	assert.Equal(t, "Ayşe", f.FirstName)
	assert.Equal(t, "ayse@example.com", f.Email)
}

func TestPostFormValidate(t *testing.T) {
	valid := PostForm{Title: "Merhaba Dünya", Content: "içerik", CategoryID: 3}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		form  PostForm
		field string
		code  string
	}{
		{"missing title", PostForm{Content: "x", CategoryID: 1}, "title", "validation_required"},
		{"long title", PostForm{Title: strings.Repeat("a", 201), Content: "x", CategoryID: 1}, "title", "validation_length_out_of_range"},
		{"blank content", PostForm{Title: "t", Content: "   ", CategoryID: 1}, "content", "validation_required"},
		{"no category", PostForm{Title: "t", Content: "x"}, "category_id", "validation_required"},
		{"negative category", PostForm{Title: "t", Content: "x", CategoryID: -1}, "category_id", "validation_min_greater_equal_than_required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, fieldCode(t, tt.form.Validate(), tt.field))
		})
	}

	title200 := PostForm{Title: strings.Repeat("ğ", 200), Content: "x", CategoryID: 1}
	assert.NoError(t, title200.Validate(), "limit counts characters, not bytes")
}

func TestProfileFormValidate(t *testing.T) {
	valid := ProfileForm{FirstName: "Ayşe", LastName: "Demir", BirthDate: "1990-05-19", Email: "ayse@example.com"}
	require.NoError(t, valid.Validate())

	birth := valid.ParsedBirthDate()
	require.NotNil(t, birth)
	assert.Equal(t, 1990, birth.Year())

	tests := []struct {
		name   string
		mutate func(*ProfileForm)
		field  string
		code   string
	}{
		{"bad date", func(f *ProfileForm) { f.BirthDate = "19.05.1990" }, "birth_date", "validation_date"},
		{"long profession", func(f *ProfileForm) { f.Profession = strings.Repeat("a", 101) }, "profession", "validation_length_too_long"},
		{"long gender", func(f *ProfileForm) { f.Gender = strings.Repeat("a", 51) }, "gender", "validation_length_too_long"},
		{"long phone", func(f *ProfileForm) { f.Phone = strings.Repeat("1", 21) }, "phone", "validation_length_too_long"},
		{"long interests", func(f *ProfileForm) { f.Interests = strings.Repeat("a", 301) }, "interests", "validation_length_too_long"},
		{"bad email", func(f *ProfileForm) { f.Email = "ayse@" }, "email", "validation_is_email"},
		{"birth date centuries ago", func(f *ProfileForm) { f.BirthDate = "1700-01-01" }, "birth_date", "validation_date_range"},
		{"birth date in the future", func(f *ProfileForm) { f.BirthDate = "2999-01-01" }, "birth_date", "validation_date_range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			assert.Equal(t, tt.code, fieldCode(t, f.Validate(), tt.field))
		})
	}

	empty := ProfileForm{FirstName: "A", LastName: "B"}
	assert.NoError(t, empty.Validate(), "optional fields may be empty")
	assert.Nil(t, empty.ParsedBirthDate())
}

func TestBirthDateRule(t *testing.T) {
	now := time.Date(2025, time.June, 15, 18, 0, 0, 0, time.UTC)
	rule := birthDateRule(now)

	tests := []struct {
		value string
		code  string
	}{
		{"2025-06-15", ""},
		{"1905-06-15", ""},
		{"1905-06-14", "validation_date_range"},
		{"2025-06-16", "validation_date_range"},
		{"15/06/2025", "validation_date"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := rule.Validate(tt.value)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			var vErr validation.Error
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.code, vErr.Code())
		})
	}
}

func TestIsAllowedImageType(t *testing.T) {
	assert.True(t, IsAllowedImageType(MimeTypeJPEG))
	assert.True(t, IsAllowedImageType(MimeTypeWebP))
	assert.False(t, IsAllowedImageType("application/pdf"))
	assert.False(t, IsAllowedImageType(""))
}
