// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/olegiv/folio/internal/model"
)

// createTestImage creates a simple gradient image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestStorePutAndRemove(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, Options{MaxDimension: 100, ThumbDimension: 20})
	ctx := context.Background()

	id, err := s.Put(ctx, "projects/1700000000000-shot.png", pngBytes(t, createTestImage(300, 150)))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("public id %q is not a UUID: %v", id, err)
	}

	f, err := os.Open(filepath.Join(dir, "projects", "1700000000000-shot.png"))
	if err != nil {
		t.Fatalf("stored image missing: %v", err)
	}
	cfg, err := png.DecodeConfig(f)
	_ = f.Close()
	if err != nil {
		t.Fatalf("stored image is not a PNG: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("stored size = %dx%d, want 100x50", cfg.Width, cfg.Height)
	}

	thumb := filepath.Join(dir, ThumbKey("projects/1700000000000-shot.png"))
	if _, err := os.Stat(thumb); err != nil {
		t.Errorf("thumbnail missing: %v", err)
	}

	if err := s.Remove(ctx, "projects/1700000000000-shot.png"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(thumb); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("thumbnail still present after Remove: %v", err)
	}
	if err := s.Remove(ctx, "projects/1700000000000-shot.png"); err != nil {
		t.Errorf("second Remove should be a no-op: %v", err)
	}
}

func TestStorePutRejectsNonImages(t *testing.T) {
	s := NewStore(t.TempDir(), Options{})

	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("hello world")},
		{"truncated png", pngBytes(t, createTestImage(10, 10))[:20]},
		{"pdf", []byte("%PDF-1.4\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Put(context.Background(), "blog/x.png", tt.data)
			if !errors.Is(err, model.ErrInvalidImage) {
				t.Errorf("Put error = %v, want ErrInvalidImage", err)
			}
		})
	}
}

func TestStorePutRejectsEscapingKeys(t *testing.T) {
	s := NewStore(t.TempDir(), Options{})

	if _, err := s.Put(context.Background(), "../outside.png", pngBytes(t, createTestImage(4, 4))); err == nil {
		t.Error("Put should refuse keys outside the root")
	}
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(40, 20)

	tests := []struct {
		orientation int
		w, h        int
	}{
		{1, 40, 20},
		{3, 40, 20},
		{6, 20, 40},
		{8, 20, 40},
		{5, 20, 40},
	}
	for _, tt := range tests {
		b := applyOrientation(img, tt.orientation).Bounds()
		if b.Dx() != tt.w || b.Dy() != tt.h {
			t.Errorf("orientation %d: got %dx%d, want %dx%d", tt.orientation, b.Dx(), b.Dy(), tt.w, tt.h)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		data []byte
		want string
	}{
		{[]byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"), "jpeg"},
		{[]byte("GIF89a"), "gif"},
		{[]byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "webp"},
		{[]byte("II*\x00"), ""},
		{[]byte("plain"), ""},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.data); got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.data, got, tt.want)
		}
	}
}
