// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/timora/timora-blog/internal/imaging"
	"github.com/timora/timora-blog/internal/model"
	"github.com/timora/timora-blog/internal/util"
)

// Upload defaults
const (
	DefaultMaxUploadSize = 10 * 1024 * 1024 // 10MB
	DefaultUploadDir     = "./uploads"

	// UploadsURLPrefix is the URL path under which the upload directory is served.
	UploadsURLPrefix = "/uploads/"
)

var (
	// ErrInvalidImage is returned for uploads that are not an accepted image.
	ErrInvalidImage = errors.New("invalid image")
	// ErrImageTooLarge is returned when an upload exceeds the size limit.
	ErrImageTooLarge = errors.New("image too large")
)

// MediaService stores uploaded cover and profile images on disk.
type MediaService struct {
	uploadDir string
	maxSize   int64
	logger    *slog.Logger
}

// NewMediaService creates a new media service.
func NewMediaService(uploadDir string, maxSize int64, logger *slog.Logger) *MediaService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaService{
		uploadDir: uploadDir,
		maxSize:   maxSize,
		logger:    logger,
	}
}

// SaveImage processes an uploaded image of the given kind (model.ImageKindCover
// or model.ImageKindProfile) and writes it to <uploadDir>/<kind>/<uuid><ext>.
// It returns the public URL of the stored file.
func (s *MediaService) SaveImage(r io.Reader, kind string) (string, error) {
	cfg, ok := model.ImageVariants[kind]
	if !ok {
		return "", fmt.Errorf("unknown image kind %q", kind)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", ErrImageTooLarge
	}
	if !model.IsAllowedImageType(imaging.DetectMimeType(data)) {
		return "", ErrInvalidImage
	}

	res, err := imaging.Process(bytes.NewReader(data), cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	dir, err := util.SafeJoinPath(s.uploadDir, kind)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	name := uuid.New().String() + res.Extension
	filePath, err := util.SafeJoinPath(s.uploadDir, kind, name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filePath, res.Data, 0644); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}

	s.logger.Debug("image saved", "kind", kind, "file", name, "width", res.Width, "height", res.Height)
	return UploadsURLPrefix + kind + "/" + name, nil
}

// DeleteImage removes a previously stored image given its public URL.
// Empty URLs, URLs outside the uploads prefix and missing files are ignored.
func (s *MediaService) DeleteImage(url string) error {
	if !strings.HasPrefix(url, UploadsURLPrefix) {
		return nil
	}
	rel := path.Clean(strings.TrimPrefix(url, UploadsURLPrefix))
	filePath, err := util.SafeJoinPath(s.uploadDir, strings.Split(rel, "/")...)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting image: %w", err)
	}
	return nil
}

// PruneOrphans removes stored images that no URL in referenced points at.
// Files modified after cutoff are kept so uploads still being saved by a
// request are not raced. It returns the number of removed files.
func (s *MediaService) PruneOrphans(referenced []string, cutoff time.Time) (int, error) {
	keep := make(map[string]struct{}, len(referenced))
	for _, url := range referenced {
		keep[url] = struct{}{}
	}

	removed := 0
	for kind := range model.ImageVariants {
		dir, err := util.SafeJoinPath(s.uploadDir, kind)
		if err != nil {
			return removed, err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("reading %s: %w", kind, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			url := UploadsURLPrefix + kind + "/" + entry.Name()
			if _, ok := keep[url]; ok {
				continue
			}
			info, err := entry.Info()
			if err != nil || info.ModTime().After(cutoff) {
				continue
			}
			if err := s.DeleteImage(url); err != nil {
				s.logger.Warn("failed to prune orphaned image", "url", url, "error", err)
				continue
			}
			removed++
		}
	}
	return removed, nil
}
