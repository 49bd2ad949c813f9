// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded cover and profile images.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/timora/timora-blog/internal/model"
)

// ErrUnsupportedFormat is returned for data that is not a JPEG, PNG, GIF or WebP image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Result is an encoded image ready to be written to disk.
type Result struct {
	Data      []byte
	Width     int
	Height    int
	MimeType  string
	Extension string
}

// Process decodes an uploaded image, applies its EXIF orientation and
// resizes it according to cfg. The output drops all metadata.
func Process(r io.Reader, cfg model.ImageVariantConfig) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	format := DetectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))
	img = resize(img, cfg)

	// WebP has no pure Go encoder
	outFormat := format
	if outFormat == "webp" {
		outFormat = "jpeg"
	}

	encoded, err := encodeImage(img, outFormat, cfg.Quality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	bounds := img.Bounds()
	return &Result{
		Data:      encoded,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		MimeType:  formatToMimeType(outFormat),
		Extension: formatToExtension(outFormat),
	}, nil
}

func resize(img image.Image, cfg model.ImageVariantConfig) image.Image {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return img
	}
	if cfg.Crop {
		return imaging.Fill(img, cfg.Width, cfg.Height, imaging.Center, imaging.Lanczos)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= cfg.Width && bounds.Dy() <= cfg.Height {
		return img
	}
	return imaging.Fit(img, cfg.Width, cfg.Height, imaging.Lanczos)
}

// DetectMimeType sniffs the MIME type of data without parameters.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// DetectFormat returns the imaging format name for data, or "" when the
// content is not an accepted image type.
func DetectFormat(data []byte) string {
	switch DetectMimeType(data) {
	case model.MimeTypeJPEG:
		return "jpeg"
	case model.MimeTypePNG:
		return "png"
	case model.MimeTypeGIF:
		return "gif"
	case model.MimeTypeWebP:
		return "webp"
	default:
		// TIFF is rejected here too (CVE-2023-36308 in disintegration/imaging)
		return ""
	}
}

// readExifOrientation returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation maps EXIF orientation values 2-8 onto flips and rotations.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if quality <= 0 || quality > 100 {
		quality = 85
	}

	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatToMimeType(format string) string {
	switch format {
	case "png":
		return model.MimeTypePNG
	case "gif":
		return model.MimeTypeGIF
	default:
		return model.MimeTypeJPEG
	}
}

func formatToExtension(format string) string {
	switch format {
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
