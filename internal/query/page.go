package query

import "github.com/chrisdamba/foodadmin/internal/models"

// PageRequest is a 1-based page request. Zero values take the call site default.
type PageRequest struct {
	Page  int
	Limit int
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Page is the list response envelope.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Normalize fills zero fields with defaults and rejects negative values.
func (r PageRequest) Normalize(defaultLimit int) (PageRequest, error) {
	if r.Page < 0 {
		return r, models.Invalid("page must be >= 1, got %d", r.Page)
	}
	if r.Limit < 0 {
		return r, models.Invalid("limit must be >= 1, got %d", r.Limit)
	}
	if r.Page == 0 {
		r.Page = 1
	}
	if r.Limit == 0 {
		r.Limit = defaultLimit
	}
	if r.Limit < 1 {
		r.Limit = 1
	}
	return r, nil
}

// Paginate slices items to the requested page. Pages beyond the data yield no
// items but full metadata.
func Paginate[T any](items []T, req PageRequest, defaultLimit int) (Page[T], error) {
	req, err := req.Normalize(defaultLimit)
	if err != nil {
		return Page[T]{}, err
	}

	total := len(items)
	// Offsets are bounded by total before multiplying so huge page or limit
	// values cannot overflow.
	start, end := total, total
	if req.Page-1 <= total/req.Limit {
		start = min((req.Page-1)*req.Limit, total)
		if req.Limit < total-start {
			end = start + req.Limit
		}
	}

	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])

	totalPages := total / req.Limit
	if total%req.Limit != 0 {
		totalPages++
	}

	return Page[T]{
		Items: pageItems,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}
