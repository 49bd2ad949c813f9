// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/timora/timora-blog/internal/model"
	"github.com/timora/timora-blog/internal/store"
	"github.com/timora/timora-blog/internal/util"
)

// ProfileService reads and edits author profiles.
type ProfileService struct {
	db     *sql.DB
	media  *MediaService
	logger *slog.Logger
	now    func() time.Time
}

// NewProfileService creates a new ProfileService.
func NewProfileService(db *sql.DB, media *MediaService, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{
		db:     db,
		media:  media,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// EnsureProfile returns the profile of the given account, creating an empty
// one on first use. Accounts created before registration collected profile
// data have none.
func (s *ProfileService) EnsureProfile(ctx context.Context, user store.User) (store.UserProfile, error) {
	queries := store.New(s.db)

	profile, err := queries.GetProfileByIdentityUserID(ctx, user.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return store.UserProfile{}, fmt.Errorf("loading profile: %w", err)
	}

	now := s.now()
	profile, err = queries.CreateProfile(ctx, store.CreateProfileParams{
		IdentityUserID: user.ID,
		Email:          util.NullStringFromValue(user.Email),
		Phone:          user.Phone,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return store.UserProfile{}, fmt.Errorf("creating profile: %w", err)
	}

	s.logger.Info("profile created", "profile_id", profile.ID, "user_id", user.ID)
	return profile, nil
}

// Update saves the owner's profile. The form must already be validated.
// A new image replaces and removes the old one; nil keeps it.
func (s *ProfileService) Update(ctx context.Context, profile store.UserProfile, form model.ProfileForm, image io.Reader) (store.UserProfile, error) {
	imageURL := profile.ProfileImageUrl
	var newURL string
	if image != nil && s.media != nil {
		url, err := s.media.SaveImage(image, model.ImageKindProfile)
		if err != nil {
			return store.UserProfile{}, err
		}
		newURL = url
		imageURL = util.NullStringFromValue(url)
	}

	updated, err := store.New(s.db).UpdateProfile(ctx, store.UpdateProfileParams{
		FirstName:       form.FirstName,
		LastName:        form.LastName,
		BirthDate:       util.NullTimeFromPtr(form.ParsedBirthDate()),
		Profession:      util.NullStringFromValue(form.Profession),
		Gender:          util.NullStringFromValue(form.Gender),
		Email:           util.NullStringFromValue(form.Email),
		Phone:           util.NullStringFromValue(form.Phone),
		ProfileImageUrl: imageURL,
		Interests:       util.NullStringFromValue(form.Interests),
		UpdatedAt:       s.now(),
		ID:              profile.ID,
	})
	if err != nil {
		if newURL != "" {
			_ = s.media.DeleteImage(newURL)
		}
		return store.UserProfile{}, fmt.Errorf("updating profile: %w", err)
	}

	if newURL != "" && profile.ProfileImageUrl.String != "" {
		if err := s.media.DeleteImage(profile.ProfileImageUrl.String); err != nil {
			s.logger.Warn("failed to delete old profile image", "url", profile.ProfileImageUrl.String, "error", err)
		}
	}

	s.logger.Info("profile updated", "profile_id", updated.ID)
	return updated, nil
}

// FormFromProfile pre-fills the edit form with stored values.
func FormFromProfile(p store.UserProfile) model.ProfileForm {
	form := model.ProfileForm{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Profession: p.Profession.String,
		Gender:     p.Gender.String,
		Email:      p.Email.String,
		Phone:      p.Phone.String,
		Interests:  p.Interests.String,
	}
	if p.BirthDate.Valid {
		form.BirthDate = p.BirthDate.Time.Format(model.DateLayout)
	}
	return form
}
