// Package query holds the collection engine shared by every admin resource:
// predicate filtering, stable sorting, pagination and aggregation.
package query

import (
	"strings"
	"time"

	"github.com/chrisdamba/foodadmin/internal/models"
)

// Predicate reports whether an item satisfies one criterion.
type Predicate[T any] func(T) bool

// All is the match-everything sentinel accepted by enumerated criteria.
const All = "all"

// Filter returns the items satisfying every non-nil predicate, in input order.
// The result is never nil.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	active := make([]Predicate[T], 0, len(preds))
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if matches(item, active) {
			out = append(out, item)
		}
	}
	return out
}

func matches[T any](item T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if !p(item) {
			return false
		}
	}
	return true
}

// Equal matches items whose field equals want. An empty want or "all" is no
// constraint and yields a nil predicate.
func Equal[T any, V ~string](get func(T) V, want V) Predicate[T] {
	if want == "" || string(want) == All {
		return nil
	}
	return func(item T) bool { return get(item) == want }
}

// Flag matches a boolean field when want is set.
func Flag[T any](get func(T) bool, want *bool) Predicate[T] {
	if want == nil {
		return nil
	}
	w := *want
	return func(item T) bool { return get(item) == w }
}

// Range matches numeric fields within [min, max]; a nil bound is open.
func Range[T any](get func(T) float64, min, max *float64) Predicate[T] {
	if min == nil && max == nil {
		return nil
	}
	return func(item T) bool {
		v := get(item)
		if min != nil && v < *min {
			return false
		}
		if max != nil && v > *max {
			return false
		}
		return true
	}
}

// ContainsFold matches when term is a case-insensitive substring of any field.
func ContainsFold[T any](fields func(T) []string, term string) Predicate[T] {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	needle := strings.ToLower(term)
	return func(item T) bool {
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), needle) {
				return true
			}
		}
		return false
	}
}

// DateRange carries optional from/to bounds as entered by a caller: either a
// calendar date (2006-01-02) or an RFC3339 timestamp.
type DateRange struct {
	From string
	To   string
}

const dateOnly = "2006-01-02"

// Bounds resolves the range to inclusive instants. A date-only To is moved to
// 23:59:59.999 of that day so records on the boundary day are kept.
func (r DateRange) Bounds(loc *time.Location) (from, to *time.Time, err error) {
	if loc == nil {
		loc = time.UTC
	}
	if r.From != "" {
		t, _, perr := parseBound(r.From, loc)
		if perr != nil {
			return nil, nil, models.Invalid("bad date_from %q", r.From)
		}
		from = &t
	}
	if r.To != "" {
		t, isDate, perr := parseBound(r.To, loc)
		if perr != nil {
			return nil, nil, models.Invalid("bad date_to %q", r.To)
		}
		if isDate {
			t = EndOfDay(t)
		}
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, models.Invalid("date_to is before date_from")
	}
	return from, to, nil
}

func parseBound(s string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(dateOnly, s, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	return t, false, err
}

// EndOfDay returns the last millisecond of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// TimeRange matches timestamps within the resolved bounds of r.
func TimeRange[T any](get func(T) time.Time, r DateRange, loc *time.Location) (Predicate[T], error) {
	from, to, err := r.Bounds(loc)
	if err != nil {
		return nil, err
	}
	if from == nil && to == nil {
		return nil, nil
	}
	return func(item T) bool {
		ts := get(item)
		if from != nil && ts.Before(*from) {
			return false
		}
		if to != nil && ts.After(*to) {
			return false
		}
		return true
	}, nil
}
