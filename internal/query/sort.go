package query

import (
	"cmp"
	"slices"
	"time"

	"github.com/chrisdamba/foodadmin/internal/models"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec names one sort field and a direction. An empty Field keeps the
// store order.
type SortSpec struct {
	Field     string
	Direction SortDirection
}

// Compare orders two items by one key, cmp-style.
type Compare[T any] func(a, b T) int

// Sort returns a stably sorted copy of items. Equal keys keep their input order.
func Sort[T any](items []T, spec SortSpec, keys map[string]Compare[T]) ([]T, error) {
	out := slices.Clone(items)
	if out == nil {
		out = []T{}
	}
	if spec.Field == "" {
		return out, nil
	}

	compare, ok := keys[spec.Field]
	if !ok {
		return nil, models.Invalid("unknown sort field %q", spec.Field)
	}
	switch spec.Direction {
	case "", SortAsc:
	case SortDesc:
		asc := compare
		compare = func(a, b T) int { return asc(b, a) }
	default:
		return nil, models.Invalid("unknown sort direction %q", spec.Direction)
	}

	slices.SortStableFunc(out, compare)
	return out, nil
}

// ByTime builds a comparator over a timestamp field.
func ByTime[T any](get func(T) time.Time) Compare[T] {
	return func(a, b T) int { return get(a).Compare(get(b)) }
}

// ByOrdered builds a comparator over any ordered field.
func ByOrdered[T any, K cmp.Ordered](get func(T) K) Compare[T] {
	return func(a, b T) int { return cmp.Compare(get(a), get(b)) }
}
