package pagination

import (
	"strconv"

	"github.com/streamtube/backend/internal/apperror"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Params is a validated page request. Page and Limit are both 1-based and
// positive.
type Params struct {
	Page  int
	Limit int
}

// Parse validates raw page/limit query values. Empty strings take the
// defaults; anything non-integer or below 1 is an InvalidParameter failure.
func Parse(pageStr, limitStr string) (Params, error) {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}

	if pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return Params{}, apperror.InvalidParameter("Invalid pagination parameters")
		}
		p.Page = page
	}

	if limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			return Params{}, apperror.InvalidParameter("Invalid pagination parameters")
		}
		p.Limit = limit
	}

	return p, nil
}

// Offset is the number of rows to skip for this page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination metadata returned alongside every page. Total is
// counted over the same predicate as the page itself, in a separate count
// pass; a skew of one record under concurrent writes is tolerated.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next_page"`
	HasPrev    bool `json:"has_prev_page"`
}

// NewMeta derives page metadata from the request and the total match count.
// A page past the end is not an error; it pairs with an empty item list.
func NewMeta(p Params, total int) Meta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}

	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}
