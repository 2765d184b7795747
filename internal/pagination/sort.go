package pagination

import "strings"

// Sort is a validated sort clause for video listings. Column is always one
// of the allow-listed database columns, so it can be interpolated into SQL.
type Sort struct {
	Column     string
	Descending bool
}

// sortColumns maps the public sort field names to their columns. Anything
// outside this map falls back to created_at descending: sorting fails open,
// everything else in the request path fails closed.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"views":     "views",
	"title":     "title",
	"duration":  "duration",
}

// ParseSort resolves sortBy/sortType query values against the allow-list.
func ParseSort(sortBy, sortType string) Sort {
	column, ok := sortColumns[sortBy]
	if !ok {
		return Sort{Column: "created_at", Descending: true}
	}

	return Sort{Column: column, Descending: !strings.EqualFold(sortType, "asc")}
}

// OrderClause renders the sort as a SQL ORDER BY expression. Safe because
// Column only ever comes from sortColumns.
func (s Sort) OrderClause() string {
	if s.Descending {
		return s.Column + " DESC"
	}
	return s.Column + " ASC"
}
