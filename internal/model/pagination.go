package model

type Pagination struct {
	Page     int  `json:"page"`
	LastPage int  `json:"lastPage"`
	Limit    int  `json:"limit"`
	Total    int  `json:"total"`
	HasPrev  bool `json:"hasPrev"`
	HasNext  bool `json:"hasNext"`
}

// LastPage is ceil(total/limit), never less than 1.
func LastPage(total, limit int) int {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

// NewPagination builds navigation metadata and clamps page into [1, lastPage].
// clamped reports whether the given page was out of range.
func NewPagination(page, limit, total int) (p Pagination, clamped bool) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	last := LastPage(total, limit)
	switch {
	case page < 1:
		page = 1
		clamped = true
	case page > last:
		page = last
		clamped = true
	}
	return Pagination{
		Page:     page,
		LastPage: last,
		Limit:    limit,
		Total:    total,
		HasPrev:  page > 1,
		HasNext:  page < last,
	}, clamped
}
