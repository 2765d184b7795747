package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	p, err := Parse("", "")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		page  string
		limit string
	}{
		{"non-integer page", "abc", "10"},
		{"non-integer limit", "1", "ten"},
		{"zero page", "0", "10"},
		{"negative page", "-1", "10"},
		{"zero limit", "1", "0"},
		{"fractional page", "1.5", "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.page, tt.limit)
			assert.Error(t, err)
		})
	}
}

func TestOffset(t *testing.T) {
	p, err := Parse("3", "25")
	require.NoError(t, err)
	assert.Equal(t, 50, p.Offset())
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"first of two pages", 1, 10, 15, 2, true, false},
		{"fifteen videos page two", 2, 10, 15, 2, false, true},
		{"exact fit", 2, 10, 20, 2, false, true},
		{"single page", 1, 10, 7, 1, false, false},
		{"empty set", 1, 10, 0, 0, false, false},
		{"page past the end", 5, 10, 15, 2, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMeta(Params{Page: tt.page, Limit: tt.limit}, tt.total)
			assert.Equal(t, tt.totalPages, m.TotalPages)
			assert.Equal(t, tt.hasNext, m.HasNext)
			assert.Equal(t, tt.hasPrev, m.HasPrev)
			assert.Equal(t, tt.total, m.Total)
		})
	}
}

func TestMetaProperties(t *testing.T) {
	// hasNext and hasPrev must agree with totalPages for any valid input.
	for page := 1; page <= 6; page++ {
		for _, total := range []int{0, 1, 9, 10, 11, 25, 100} {
			m := NewMeta(Params{Page: page, Limit: 10}, total)
			assert.Equal(t, page < m.TotalPages, m.HasNext, "page=%d total=%d", page, total)
			assert.Equal(t, page > 1, m.HasPrev, "page=%d total=%d", page, total)
		}
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name     string
		sortBy   string
		sortType string
		want     string
	}{
		{"default descending", "createdAt", "", "created_at DESC"},
		{"views ascending", "views", "asc", "views ASC"},
		{"direction is case-insensitive", "views", "ASC", "views ASC"},
		{"title descending", "title", "desc", "title DESC"},
		{"duration", "duration", "asc", "duration ASC"},
		{"unknown field falls back", "password_hash", "asc", "created_at DESC"},
		{"empty field falls back", "", "asc", "created_at DESC"},
		{"injection attempt falls back", "views; DROP TABLE videos", "desc", "created_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSort(tt.sortBy, tt.sortType).OrderClause())
		})
	}
}
