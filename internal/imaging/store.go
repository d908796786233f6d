// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging stores uploaded images on local disk. JPEG and PNG uploads
// are auto-oriented from EXIF, stripped of metadata and bounded in size; every
// upload gets a thumbnail next to it.
package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/util"
)

// Defaults for Options.
const (
	DefaultMaxDimension   = 2000
	DefaultThumbDimension = 400
	DefaultQuality        = 85
)

// ThumbPrefix is prepended to the base name of a stored image to name its thumbnail.
const ThumbPrefix = "thumb_"

// Options tune how images are processed.
type Options struct {
	MaxDimension   int
	ThumbDimension int
	Quality        int
}

// Store writes images under a root directory.
type Store struct {
	root string
	opts Options
}

// NewStore creates a Store rooted at dir. Zero options take the defaults.
func NewStore(dir string, opts Options) *Store {
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = DefaultMaxDimension
	}
	if opts.ThumbDimension <= 0 {
		opts.ThumbDimension = DefaultThumbDimension
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = DefaultQuality
	}
	return &Store{root: dir, opts: opts}
}

// Root returns the directory images are written under.
func (s *Store) Root() string {
	return s.root
}

// Put validates and processes data, writes it to key relative to the root and
// returns a new public id. Data that is not a decodable image yields an error
// wrapping model.ErrInvalidImage.
func (s *Store) Put(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	format := DetectFormat(data)
	if format == "" {
		return "", fmt.Errorf("%w: unsupported content type %q", model.ErrInvalidImage, http.DetectContentType(data))
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInvalidImage, err)
	}

	path, err := util.SafeJoinPath(s.root, key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	// GIF and WebP are kept byte for byte: re-encoding would drop GIF
	// animation, and there is no pure Go WebP encoder.
	out := data
	if format == "jpeg" || format == "png" {
		img = applyOrientation(img, readOrientation(data))
		img = bound(img, s.opts.MaxDimension)
		if out, err = encode(img, format, s.opts.Quality); err != nil {
			return "", fmt.Errorf("encoding image: %w", err)
		}
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}

	thumb := imaging.Fit(img, s.opts.ThumbDimension, s.opts.ThumbDimension, imaging.Lanczos)
	thumbFormat := format
	if thumbFormat == "webp" || thumbFormat == "gif" {
		thumbFormat = "png"
	}
	thumbData, err := encode(thumb, thumbFormat, s.opts.Quality)
	if err == nil {
		err = os.WriteFile(thumbPath(path), thumbData, 0o644)
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("writing thumbnail: %w", err)
	}

	return uuid.NewString(), nil
}

// Remove deletes the image at key and its thumbnail. Missing files are not an error.
func (s *Store) Remove(_ context.Context, key string) error {
	path, err := util.SafeJoinPath(s.root, key)
	if err != nil {
		return err
	}
	var errs []error
	for _, p := range []string{path, thumbPath(path)} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ThumbKey returns the key of the thumbnail stored for key.
func ThumbKey(key string) string {
	dir, base := filepath.Split(key)
	return dir + ThumbPrefix + base
}

func thumbPath(path string) string {
	return filepath.Join(filepath.Dir(path), ThumbPrefix+filepath.Base(path))
}

func bound(img image.Image, limit int) image.Image {
	b := img.Bounds()
	if b.Dx() <= limit && b.Dy() <= limit {
		return img
	}
	return imaging.Fit(img, limit, limit, imaging.Lanczos)
}

// DetectFormat sniffs data and returns jpeg, png, gif or webp, or "" for
// anything else. TIFF is refused outright.
func DetectFormat(data []byte) string {
	ct := http.DetectContentType(data)
	switch {
	case strings.Contains(ct, "tiff"):
		return ""
	case ct == "image/jpeg":
		return "jpeg"
	case ct == "image/png":
		return "png"
	case ct == "image/gif":
		return "gif"
	case ct == "image/webp":
		return "webp"
	default:
		return ""
	}
}

func encode(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
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

// readOrientation returns the EXIF orientation tag, or 1 when absent.
func readOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return o
}

// applyOrientation undoes the camera rotation recorded in EXIF orientation o (1-8).
func applyOrientation(img image.Image, o int) image.Image {
	switch o {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
