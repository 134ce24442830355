package page

import "time"

// Unknown is the group key for items with no value in the grouped field.
// Those items are counted rather than dropped so every group sums to Total.
const Unknown = "unknown"

// Stats are display-only summary figures, rebuilt from scratch on every Load.
type Stats struct {
	Total  int                       `json:"total"`
	Groups map[string]map[string]int `json:"groups,omitempty"`
	Counts map[string]int            `json:"counts,omitempty"`
	Sums   map[string]float64        `json:"sums,omitempty"`
}

func NewStats(total int) Stats {
	return Stats{
		Total:  total,
		Groups: map[string]map[string]int{},
		Counts: map[string]int{},
		Sums:   map[string]float64{},
	}
}

// GroupBy counts items per value of key. Empty values land in Unknown.
func GroupBy[T any](items []T, key func(T) string) map[string]int {
	out := map[string]int{}
	for _, item := range items {
		k := key(item)
		if k == "" {
			k = Unknown
		}
		out[k]++
	}
	return out
}

// Count counts the items matching pred.
func Count[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}

// Sum adds up value over the items matching pred; a nil pred matches all.
func Sum[T any](items []T, value func(T) float64, pred func(T) bool) float64 {
	var total float64
	for _, item := range items {
		if pred == nil || pred(item) {
			total += value(item)
		}
	}
	return total
}

// Distinct counts the distinct non-empty values of key.
func Distinct[T any](items []T, key func(T) string) int {
	seen := map[string]struct{}{}
	for _, item := range items {
		if k := key(item); k != "" {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}

// CountBuckets fills today/week/month counts for a timestamp accessor.
func CountBuckets[T any](s Stats, items []T, field func(T) time.Time, at time.Time) {
	for _, bucket := range []string{BucketToday, BucketWeek, BucketMonth} {
		s.Counts[bucket] = Count(items, func(item T) bool {
			return InBucket(field(item), bucket, at)
		})
	}
}
