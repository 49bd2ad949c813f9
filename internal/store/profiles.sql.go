// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const profileColumns = `id, identity_user_id, first_name, last_name, birth_date, profession,
    gender, email, phone, profile_image_url, interests, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (UserProfile, error) {
	var i UserProfile
	err := row.Scan(
		&i.ID,
		&i.IdentityUserID,
		&i.FirstName,
		&i.LastName,
		&i.BirthDate,
		&i.Profession,
		&i.Gender,
		&i.Email,
		&i.Phone,
		&i.ProfileImageUrl,
		&i.Interests,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createProfile = `-- name: CreateProfile :one
INSERT INTO user_profiles (
    identity_user_id, first_name, last_name, birth_date, profession,
    gender, email, phone, profile_image_url, interests, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + profileColumns

type CreateProfileParams struct {
	IdentityUserID  int64          `json:"identity_user_id"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	BirthDate       sql.NullTime   `json:"birth_date"`
	Profession      sql.NullString `json:"profession"`
	Gender          sql.NullString `json:"gender"`
	Email           sql.NullString `json:"email"`
	Phone           sql.NullString `json:"phone"`
	ProfileImageUrl sql.NullString `json:"profile_image_url"`
	Interests       sql.NullString `json:"interests"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (q *Queries) CreateProfile(ctx context.Context, arg CreateProfileParams) (UserProfile, error) {
	row := q.db.QueryRowContext(ctx, createProfile,
		arg.IdentityUserID,
		arg.FirstName,
		arg.LastName,
		arg.BirthDate,
		arg.Profession,
		arg.Gender,
		arg.Email,
		arg.Phone,
		arg.ProfileImageUrl,
		arg.Interests,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanProfile(row)
}

const getProfileByID = `-- name: GetProfileByID :one
SELECT ` + profileColumns + ` FROM user_profiles WHERE id = ?`

func (q *Queries) GetProfileByID(ctx context.Context, id int64) (UserProfile, error) {
	return scanProfile(q.db.QueryRowContext(ctx, getProfileByID, id))
}

const getProfileByIdentityUserID = `-- name: GetProfileByIdentityUserID :one
SELECT ` + profileColumns + ` FROM user_profiles WHERE identity_user_id = ?
ORDER BY id LIMIT 1`

func (q *Queries) GetProfileByIdentityUserID(ctx context.Context, identityUserID int64) (UserProfile, error) {
	return scanProfile(q.db.QueryRowContext(ctx, getProfileByIdentityUserID, identityUserID))
}

const updateProfile = `-- name: UpdateProfile :one
UPDATE user_profiles SET
    first_name = ?,
    last_name = ?,
    birth_date = ?,
    profession = ?,
    gender = ?,
    email = ?,
    phone = ?,
    profile_image_url = ?,
    interests = ?,
    updated_at = ?
WHERE id = ?
RETURNING ` + profileColumns

type UpdateProfileParams struct {
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	BirthDate       sql.NullTime   `json:"birth_date"`
	Profession      sql.NullString `json:"profession"`
	Gender          sql.NullString `json:"gender"`
	Email           sql.NullString `json:"email"`
	Phone           sql.NullString `json:"phone"`
	ProfileImageUrl sql.NullString `json:"profile_image_url"`
	Interests       sql.NullString `json:"interests"`
	UpdatedAt       time.Time      `json:"updated_at"`
	ID              int64          `json:"id"`
}

func (q *Queries) UpdateProfile(ctx context.Context, arg UpdateProfileParams) (UserProfile, error) {
	row := q.db.QueryRowContext(ctx, updateProfile,
		arg.FirstName,
		arg.LastName,
		arg.BirthDate,
		arg.Profession,
		arg.Gender,
		arg.Email,
		arg.Phone,
		arg.ProfileImageUrl,
		arg.Interests,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanProfile(row)
}
