package export

import (
	"context"

	"github.com/chrisdamba/foodadmin/internal/query"
)

// collectLimit is the page size used when draining a list operation.
const collectLimit = 100

// Collect walks every page of a list operation and returns all items in
// order.
func Collect[T any](ctx context.Context, fetch func(ctx context.Context, page query.PageRequest) (query.Page[T], error)) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		p, err := fetch(ctx, query.PageRequest{Page: page, Limit: collectLimit})
		if err != nil {
			return nil, err
		}
		all = append(all, p.Items...)
		if page >= p.Pagination.TotalPages {
			break
		}
	}
	if all == nil {
		all = []T{}
	}
	return all, nil
}

// Rows converts records to export rows.
func Rows[T any, R Row](items []T, convert func(T) R) []Row {
	rows := make([]Row, len(items))
	for i, item := range items {
		rows[i] = convert(item)
	}
	return rows
}
