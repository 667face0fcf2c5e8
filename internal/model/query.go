package model

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultSort     = "createdAt_desc"
	DefaultPageSize = 9
)

// KnownSorts are the sort keys the TUI cycles through. The backend owns the real set;
// any other string is forwarded unchanged.
var KnownSorts = []string{"createdAt_desc", "createdAt_asc", "title_asc", "title_desc"}

type Field int

const (
	FieldSearch Field = iota
	FieldCategory
	FieldTeacher
)

func (f Field) String() string {
	switch f {
	case FieldSearch:
		return "search"
	case FieldCategory:
		return "category"
	case FieldTeacher:
		return "teacherId"
	default:
		return "unknown"
	}
}

// QueryState is the filter/sort/page snapshot for one list request.
// It is a value type; two states are the same query iff they compare equal.
type QueryState struct {
	Search    string `json:"search,omitempty"`
	Category  string `json:"category,omitempty"`
	TeacherID string `json:"teacherId,omitempty"`
	Sort      string `json:"sort,omitempty"`
	Page      int    `json:"page"`
}

func (q QueryState) Normalize() QueryState {
	q.Search = strings.TrimSpace(q.Search)
	q.Category = strings.TrimSpace(q.Category)
	q.TeacherID = strings.TrimSpace(q.TeacherID)
	q.Sort = strings.TrimSpace(q.Sort)
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

func (q QueryState) With(f Field, v string) QueryState {
	switch f {
	case FieldSearch:
		q.Search = v
	case FieldCategory:
		q.Category = v
	case FieldTeacher:
		q.TeacherID = v
	}
	return q
}

func (q QueryState) Get(f Field) string {
	switch f {
	case FieldSearch:
		return q.Search
	case FieldCategory:
		return q.Category
	case FieldTeacher:
		return q.TeacherID
	default:
		return ""
	}
}

func (q QueryState) WithPage(page int) QueryState {
	q.Page = page
	return q
}

// Params serializes q into list request parameters. Empty filters are omitted;
// page and limit are always present.
func (q QueryState) Params(limit int) url.Values {
	q = q.Normalize()
	if limit <= 0 {
		limit = DefaultPageSize
	}
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(limit))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.TeacherID != "" {
		v.Set("teacherId", q.TeacherID)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}

// NextSort returns the sort key after cur in KnownSorts, wrapping around.
func NextSort(cur string) string {
	for i, s := range KnownSorts {
		if s == cur {
			return KnownSorts[(i+1)%len(KnownSorts)]
		}
	}
	return KnownSorts[0]
}
