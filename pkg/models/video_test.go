package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVideoUpdateIsZero(t *testing.T) {
	title := "New title"
	description := "New description"
	thumbnailURL := "http://storage.local/thumbnails/new.png"
	thumbnailStorageID := "thumbnails/new"

	tests := []struct {
		name   string
		update VideoUpdate
		want   bool
	}{
		{"empty", VideoUpdate{}, true},
		{"title only", VideoUpdate{Title: &title}, false},
		{"description only", VideoUpdate{Description: &description}, false},
		{"thumbnail url only", VideoUpdate{ThumbnailURL: &thumbnailURL}, false},
		{"thumbnail storage id only", VideoUpdate{ThumbnailStorageID: &thumbnailStorageID}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.update.IsZero())
		})
	}
}
