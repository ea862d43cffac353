package filestore

import (
	"testing"
)

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		filename    string
		expected    string
		description string
	}{
		{"photo.jpg", "image/jpeg", "JPEG image"},
		{"photo.jpeg", "image/jpeg", "JPEG image (alternate extension)"},
		{"image.png", "image/png", "PNG image"},
		{"animation.gif", "image/gif", "GIF image"},
		{"icon.svg", "image/svg+xml", "SVG image"},
		{"photo.webp", "image/webp", "WebP image"},
		{"photo.heic", "image/heic", "HEIC image"},
		{"scan.tiff", "image/tiff", "TIFF image"},
		{"clip.mp4", "video/mp4", "MP4 video"},

		{"FILE.PNG", "image/png", "upper-case extension"},
		{"1697040000000.JPG", "image/jpeg", "generated name, upper-case extension"},

		{"file.unknown", "application/octet-stream", "unknown extension"},
		{"noextension", "application/octet-stream", "no extension"},
		{"", "application/octet-stream", "empty filename"},
		{"archive.tar.png", "image/png", "compound extension"},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			result := DetectContentType(tc.filename)
			if result != tc.expected {
				t.Errorf("DetectContentType(%q) = %q, expected %q",
					tc.filename, result, tc.expected)
			}
		})
	}
}
