package export

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"
)

func TestThumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))

	tests := []struct {
		name     string
		maxWidth int
		expected image.Point
	}{
		{"downscaled", 50, image.Pt(50, 25)},
		{"already small", 400, image.Pt(200, 100)},
		{"disabled", 0, image.Pt(200, 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thumb := Thumbnail(src, tt.maxWidth)
			if thumb.Bounds().Size() != tt.expected {
				t.Errorf("Expected size %v, got %v", tt.expected, thumb.Bounds().Size())
			}
		})
	}
}

func TestEncodePNGBase64(t *testing.T) {
	encoded, err := EncodePNGBase64(testImage())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("Invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Invalid PNG: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("Unexpected bounds %v", img.Bounds())
	}
}
