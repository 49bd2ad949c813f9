// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/timora/timora-blog/internal/auth"
	"github.com/timora/timora-blog/internal/model"
	"github.com/timora/timora-blog/internal/store"
	"github.com/timora/timora-blog/internal/util"
)

var (
	// ErrEmailTaken is returned when registering an email that already has an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AccountService registers and authenticates users.
type AccountService struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewAccountService creates a new AccountService.
func NewAccountService(db *sql.DB, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register creates the login identity and its profile in one transaction.
// The form must already be validated.
func (s *AccountService) Register(ctx context.Context, form model.RegisterForm) (store.User, store.UserProfile, error) {
	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		return store.User{}, store.UserProfile{}, fmt.Errorf("hashing password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.User{}, store.UserProfile{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := store.New(tx)
	now := s.now()
	email := strings.ToLower(strings.TrimSpace(form.Email))

	if _, err := qtx.GetUserByEmail(ctx, email); err == nil {
		return store.User{}, store.UserProfile{}, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return store.User{}, store.UserProfile{}, fmt.Errorf("checking email: %w", err)
	}

	user, err := qtx.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Phone:        util.NullStringFromValue(form.Phone),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if store.IsUniqueViolation(err, "users.email") {
			return store.User{}, store.UserProfile{}, ErrEmailTaken
		}
		return store.User{}, store.UserProfile{}, fmt.Errorf("creating user: %w", err)
	}

	birth := model.BirthDateFromAge(form.Age, now)
	profile, err := qtx.CreateProfile(ctx, store.CreateProfileParams{
		IdentityUserID: user.ID,
		FirstName:      form.FirstName,
		LastName:       form.LastName,
		BirthDate:      util.NullTimeFromPtr(&birth),
		Profession:     util.NullStringFromValue(form.Profession),
		Gender:         util.NullStringFromValue(form.Gender),
		Email:          util.NullStringFromValue(email),
		Phone:          util.NullStringFromValue(form.Phone),
		Interests:      util.NullStringFromValue(form.Interests),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return store.User{}, store.UserProfile{}, fmt.Errorf("creating profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return store.User{}, store.UserProfile{}, fmt.Errorf("committing registration: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "profile_id", profile.ID)
	return user, profile, nil
}

// Authenticate checks an email/password pair. Unknown emails and wrong
// passwords both return ErrInvalidCredentials after comparable work.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (store.User, error) {
	queries := store.New(s.db)

	user, err := queries.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			auth.BurnPasswordCheck(password)
			return store.User{}, ErrInvalidCredentials
		}
		return store.User{}, fmt.Errorf("loading user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash is unreadable", "user_id", user.ID, "error", err)
		return store.User{}, ErrInvalidCredentials
	}
	if !ok {
		return store.User{}, ErrInvalidCredentials
	}

	now := s.now()
	if auth.NeedsRehash(user.PasswordHash) {
		if hash, err := auth.HashPassword(password); err == nil {
			if err := queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: hash,
				UpdatedAt:    now,
				ID:           user.ID,
			}); err != nil {
				s.logger.Warn("failed to upgrade password hash", "user_id", user.ID, "error", err)
			}
		}
	}

	if err := queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: now, Valid: true},
		ID:          user.ID,
	}); err != nil {
		s.logger.Warn("failed to update last login", "user_id", user.ID, "error", err)
	}

	return user, nil
}
