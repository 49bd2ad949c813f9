// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/timora/timora-blog/internal/auth"
	"github.com/timora/timora-blog/internal/util"
)

// Demo author credentials
const (
	DemoAuthorEmail     = "yazar@timora.local"
	DemoAuthorPassword  = "timora-demo-123"
	DemoAuthorFirstName = "Deniz"
	DemoAuthorLastName  = "Yılmaz"
)

type demoPost struct {
	title      string
	categoryID int64
	content    string
}

var demoPosts = []demoPost{
	{
		title:      "Sabah Rutininizi Yeniden Düşünün",
		categoryID: 1,
		content:    "Güne **yavaş** başlamak, verimli bir günün ilk adımıdır.\n\n- Bir bardak su\n- On dakika yürüyüş\n- Telefonsuz kahvaltı",
	},
	{
		title:      "Ev Yapımı Ekşi Maya Ekmeği",
		categoryID: 2,
		content:    "Ekşi maya sabır ister. Un, su ve tuzdan oluşan bu tarif için iki gün ayırın.",
	},
	{
		title:      "Kapadokya'da Üç Gün",
		categoryID: 3,
		content:    "Balon turu için sabah dörtte kalkmaya değer mi? Kısa cevap: *kesinlikle*.",
	},
}

// SeedDemo creates a demo author with a profile and a few published posts.
// It does nothing when the demo author already exists.
func SeedDemo(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, DemoAuthorEmail)
	if err == nil {
		slog.Info("demo author already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for demo author: %w", err)
	}

	passwordHash, err := auth.HashPassword(DemoAuthorPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := queries.WithTx(tx)
	now := time.Now()

	user, err := qtx.CreateUser(ctx, CreateUserParams{
		Email:        DemoAuthorEmail,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating demo author: %w", err)
	}

	profile, err := qtx.CreateProfile(ctx, CreateProfileParams{
		IdentityUserID: user.ID,
		FirstName:      DemoAuthorFirstName,
		LastName:       DemoAuthorLastName,
		Email:          util.NullStringFromValue(DemoAuthorEmail),
		Profession:     util.NullStringFromValue("Gezgin yazar"),
		Interests:      util.NullStringFromValue("Seyahat, yemek, kitaplar"),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return fmt.Errorf("creating demo profile: %w", err)
	}

	for i, p := range demoPosts {
		slug, err := util.UniqueSlug(ctx, util.Slugify(p.title), qtx.PostSlugExists)
		if err != nil {
			return fmt.Errorf("allocating slug for %q: %w", p.title, err)
		}
		publishedAt := now.Add(-time.Duration(len(demoPosts)-i) * time.Hour)
		if _, err := qtx.CreatePost(ctx, CreatePostParams{
			Title:       p.title,
			Slug:        slug,
			Content:     p.content,
			PublishedAt: publishedAt,
			IsPublished: true,
			CategoryID:  util.NullInt64FromValue(p.categoryID),
			AuthorID:    util.NullInt64FromValue(profile.ID),
			CreatedAt:   publishedAt,
			UpdatedAt:   publishedAt,
		}); err != nil {
			return fmt.Errorf("creating demo post %q: %w", p.title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing demo seed: %w", err)
	}

	slog.Info("seeded demo content",
		"email", DemoAuthorEmail,
		"profile_id", profile.ID,
		"posts", len(demoPosts),
	)
	return nil
}
