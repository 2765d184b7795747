package storage

import (
	"testing"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		filePath string
		wantType string
	}{
		{"video.mp4", "video/mp4"},
		{"video.mov", "video/quicktime"},
		{"video.mkv", "video/x-matroska"},
		{"video.webm", "video/webm"},
		{"thumb.jpg", "image/jpeg"},
		{"thumb.JPEG", "image/jpeg"},
		{"avatar.png", "image/png"},
		{"cover.webp", "image/webp"},
		{"unknown.xyz", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filePath, func(t *testing.T) {
			contentType := getContentType(tt.filePath)
			if contentType != tt.wantType {
				t.Errorf("getContentType(%q) = %q, want %q", tt.filePath, contentType, tt.wantType)
			}
		})
	}
}

func TestObjectURL(t *testing.T) {
	s := &Storage{bucketName: "streamtube", publicBaseURL: "https://cdn.example.com"}

	got := s.objectURL("videos/abc.mp4")
	want := "https://cdn.example.com/videos/abc.mp4"
	if got != want {
		t.Errorf("objectURL() = %q, want %q", got, want)
	}
}
