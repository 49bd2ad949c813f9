// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Accepted upload MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// Image kinds stored under the uploads directory.
const (
	ImageKindCover   = "covers"
	ImageKindProfile = "profiles"
)

// ImageVariantConfig defines how an uploaded image is resized before saving.
type ImageVariantConfig struct {
	Width   int
	Height  int
	Quality int
	Crop    bool // true = crop to exact size, false = fit within bounds
}

// ImageVariants maps an image kind to its stored size.
var ImageVariants = map[string]ImageVariantConfig{
	ImageKindCover:   {Width: 1600, Height: 900, Quality: 85, Crop: false},
	ImageKindProfile: {Width: 400, Height: 400, Quality: 85, Crop: true},
}

// AllowedImageTypes is the set of MIME types accepted for uploads.
var AllowedImageTypes = map[string]bool{
	MimeTypeJPEG: true,
	MimeTypePNG:  true,
	MimeTypeGIF:  true,
	MimeTypeWebP: true,
}

// IsAllowedImageType reports whether mimeType may be uploaded.
func IsAllowedImageType(mimeType string) bool {
	return AllowedImageTypes[mimeType]
}
