package query

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMinSamples is the observation floor for bottom rankings.
const DefaultMinSamples = 5

// Average is the arithmetic mean of values, 0 for an empty input.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Round1 rounds half-up to one decimal place. Only apply it to output.
func Round1(v float64) float64 {
	return RoundTo(v, 1)
}

// RoundTo rounds half away from zero to places decimals, using the shortest
// decimal form of v so 4.45 becomes 4.5 rather than 4.4.
func RoundTo(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// Ratio returns part/whole, or 0 when whole is 0.
func Ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}

// RatingBuckets are the distribution keys, highest first.
var RatingBuckets = []string{"5", "4", "3", "2", "1"}

// RatingBucket maps a rating to its half-open bucket:
// [4.5,5]=5, [3.5,4.5)=4, [2.5,3.5)=3, [1.5,2.5)=2, [1,1.5)=1.
// Values outside [1,5] are clamped into the end buckets.
func RatingBucket(r float64) string {
	switch {
	case r >= 4.5:
		return "5"
	case r >= 3.5:
		return "4"
	case r >= 2.5:
		return "3"
	case r >= 1.5:
		return "2"
	default:
		return "1"
	}
}

// Distribution counts values per rating bucket. Every bucket is present.
func Distribution(values []float64) map[string]int {
	dist := make(map[string]int, len(RatingBuckets))
	for _, b := range RatingBuckets {
		dist[b] = 0
	}
	for _, v := range values {
		dist[RatingBucket(v)]++
	}
	return dist
}

// GroupStat is one owner's rollup. Average is full precision.
type GroupStat struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// Rollup groups items by key and averages value per group. Groups appear in
// order of first occurrence; Label is taken from the first item of a group.
func Rollup[T any](items []T, key func(T) (id, label string), value func(T) float64) []GroupStat {
	index := make(map[string]int)
	sums := make([]float64, 0)
	groups := make([]GroupStat, 0)

	for _, item := range items {
		id, label := key(item)
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, GroupStat{Key: id, Label: label})
			sums = append(sums, 0)
		}
		groups[i].Count++
		sums[i] += value(item)
	}
	for i := range groups {
		groups[i].Average = sums[i] / float64(groups[i].Count)
	}
	return groups
}

// TopN returns up to n groups by descending average. Ties keep rollup order.
func TopN(groups []GroupStat, n int) []GroupStat {
	ranked := slices.Clone(groups)
	slices.SortStableFunc(ranked, func(a, b GroupStat) int { return cmp.Compare(b.Average, a.Average) })
	return head(ranked, n)
}

// BottomN returns up to n groups by ascending average, considering only
// groups with at least minSamples observations.
func BottomN(groups []GroupStat, n, minSamples int) []GroupStat {
	eligible := make([]GroupStat, 0, len(groups))
	for _, g := range groups {
		if g.Count >= minSamples {
			eligible = append(eligible, g)
		}
	}
	slices.SortStableFunc(eligible, func(a, b GroupStat) int { return cmp.Compare(a.Average, b.Average) })
	return head(eligible, n)
}

// Recent returns the k most recent items by timestamp, newest first.
func Recent[T any](items []T, k int, at func(T) time.Time) []T {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int { return at(b).Compare(at(a)) })
	return head(sorted, k)
}

// CountBy tallies items per string key.
func CountBy[T any, K ~string](items []T, key func(T) K) map[K]int {
	counts := make(map[K]int)
	for _, item := range items {
		counts[key(item)]++
	}
	return counts
}

func head[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(items) > n {
		items = items[:n]
	}
	if items == nil {
		return []T{}
	}
	return items
}
