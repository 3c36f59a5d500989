package query

// List describes one list request: filter, then sort, then paginate.
type List[T any] struct {
	Predicates   []Predicate[T]
	Sort         SortSpec
	SortKeys     map[string]Compare[T]
	Page         PageRequest
	DefaultLimit int
}

// Run executes the list pipeline over items.
func (l List[T]) Run(items []T) (Page[T], error) {
	filtered := Filter(items, l.Predicates...)
	sorted, err := Sort(filtered, l.Sort, l.SortKeys)
	if err != nil {
		return Page[T]{}, err
	}
	return Paginate(sorted, l.Page, l.DefaultLimit)
}
