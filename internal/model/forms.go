// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Field limits
const (
	MaxTitleLength      = 200
	MaxNameLength       = 100
	MaxProfessionLength = 100
	MaxGenderLength     = 50
	MaxEmailLength      = 200
	MaxPhoneLength      = 20
	MaxInterestsLength  = 300
	MinPasswordLength   = 6
	MaxPasswordLength   = 100
	MinAge              = 10
	MaxAge              = 120
)

// DateLayout is the HTML date input format.
const DateLayout = "2006-01-02"

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)

var (
	errPhone            = validation.NewError("validation_phone", "must be a valid phone number")
	errPasswordMismatch = validation.NewError("validation_password_mismatch", "passwords do not match")
	errDate             = validation.NewError("validation_date", "must be a date (YYYY-MM-DD)")
	errDateRange        = validation.NewError("validation_date_range", "must be a date within the last 120 years, not in the future")
)

func phoneRules(maxLen int) []validation.Rule {
	return []validation.Rule{
		validation.RuneLength(0, maxLen),
		validation.Match(phonePattern).ErrorObject(errPhone),
	}
}

// LoginForm is the submitted login form.
type LoginForm struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	ReturnURL string `json:"return_url"`
}

// Normalize trims and lowercases the email.
func (f *LoginForm) Normalize() {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
}

// Validate implements validation.Validatable.
func (f LoginForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required, is.EmailFormat),
		validation.Field(&f.Password, validation.Required),
	)
}

// RegisterForm creates an account and its profile in one step.
type RegisterForm struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Age             int    `json:"age"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Gender          string `json:"gender"`
	Profession      string `json:"profession"`
	Interests       string `json:"interests"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Normalize trims free-text fields and lowercases the email.
func (f *RegisterForm) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	f.Gender = strings.TrimSpace(f.Gender)
	f.Profession = strings.TrimSpace(f.Profession)
	f.Interests = strings.TrimSpace(f.Interests)
}

// Validate implements validation.Validatable.
func (f RegisterForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.FirstName, validation.Required, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&f.LastName, validation.Required, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&f.Age, validation.Required, validation.Min(MinAge), validation.Max(MaxAge)),
		validation.Field(&f.Email, validation.Required, is.EmailFormat, validation.RuneLength(0, MaxEmailLength)),
		validation.Field(&f.Phone, phoneRules(MaxPhoneLength)...),
		validation.Field(&f.Gender, validation.RuneLength(0, MaxGenderLength)),
		validation.Field(&f.Profession, validation.RuneLength(0, MaxProfessionLength)),
		validation.Field(&f.Interests, validation.RuneLength(0, MaxInterestsLength)),
		validation.Field(&f.Password, validation.Required, validation.RuneLength(MinPasswordLength, MaxPasswordLength)),
		validation.Field(&f.ConfirmPassword,
			validation.By(func(any) error {
				if f.ConfirmPassword != f.Password {
					return errPasswordMismatch
				}
				return nil
			}),
		),
	)
}

// PostForm is the create/edit post form. The cover image travels
// separately as a multipart file.
type PostForm struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	CategoryID  int64  `json:"category_id"`
	IsPublished bool   `json:"is_published"`
}

// Normalize trims the title and normalizes line endings.
func (f *PostForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.ReplaceAll(f.Content, "\r\n", "\n")
}

// Validate implements validation.Validatable. Whether the category exists
// is checked by the post service.
func (f PostForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required, validation.RuneLength(1, MaxTitleLength)),
		validation.Field(&f.Content, validation.Required.Error("content is required"), validation.By(notBlank)),
		validation.Field(&f.CategoryID, validation.Required, validation.Min(int64(1))),
	)
}

// ProfileForm edits the owner's profile.
type ProfileForm struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	BirthDate  string `json:"birth_date"`
	Profession string `json:"profession"`
	Gender     string `json:"gender"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Interests  string `json:"interests"`
}

// Normalize trims every field.
func (f *ProfileForm) Normalize() {
	for _, p := range []*string{&f.FirstName, &f.LastName, &f.BirthDate, &f.Profession, &f.Gender, &f.Email, &f.Phone, &f.Interests} {
		*p = strings.TrimSpace(*p)
	}
	f.Email = strings.ToLower(f.Email)
}

// Validate implements validation.Validatable.
func (f ProfileForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.FirstName, validation.Required, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&f.LastName, validation.Required, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&f.BirthDate, birthDateRule(time.Now())),
		validation.Field(&f.Profession, validation.RuneLength(0, MaxProfessionLength)),
		validation.Field(&f.Gender, validation.RuneLength(0, MaxGenderLength)),
		validation.Field(&f.Email, is.EmailFormat, validation.RuneLength(0, MaxEmailLength)),
		validation.Field(&f.Phone, phoneRules(MaxPhoneLength)...),
		validation.Field(&f.Interests, validation.RuneLength(0, MaxInterestsLength)),
	)
}

// birthDateRule accepts dates from MaxAge years before now up to today.
func birthDateRule(now time.Time) validation.DateRule {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return validation.Date(DateLayout).
		ErrorObject(errDate).
		Min(today.AddDate(-MaxAge, 0, 0)).
		Max(today).
		RangeErrorObject(errDateRange)
}

// ParsedBirthDate returns the birth date, or nil when the field is empty.
// Call after Validate.
func (f ProfileForm) ParsedBirthDate() *time.Time {
	if f.BirthDate == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, f.BirthDate)
	if err != nil {
		return nil
	}
	return &t
}

func notBlank(value any) error {
	if s, _ := value.(string); strings.TrimSpace(s) == "" {
		return validation.ErrRequired
	}
	return nil
}
