package page

import (
	"slices"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// Query is the operator's current search: a free-text term, zero or more
// discrete filter selections and an optional sort key.
type Query struct {
	Term    string            `json:"term,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
	Sort    string            `json:"sort,omitempty"`
}

// With returns a copy of q with one more filter selection.
func (q Query) With(name, value string) Query {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	filters[name] = value
	q.Filters = filters
	return q
}

// Filter matches an item against one selected value.
type Filter[T any] func(item T, value string, at time.Time) bool

// Spec describes one page: what is searchable, filterable, sortable and
// which statistics are shown.
type Spec[T any] struct {
	Name    string
	ID      func(T) string
	Search  func(T) []string
	Filters map[string]Filter[T]
	Sorts   map[string]func(a, b T) int
	Stats   func(items []T, at time.Time) Stats
	// Draft returns the defaults a new document starts from.
	Draft func() T
}

// Unset reports whether a filter selection means "no constraint".
func Unset(value string) bool {
	return value == "" || value == "all"
}

// Check rejects filter and sort names the page does not offer.
func (s Spec[T]) Check(q Query) error {
	for name, value := range q.Filters {
		if Unset(value) {
			continue
		}
		if _, ok := s.Filters[name]; !ok {
			return Invalid("unknown filter %q for %s", name, s.Name)
		}
	}
	if q.Sort != "" {
		if _, ok := s.Sorts[q.Sort]; !ok {
			return Invalid("unknown sort %q for %s", q.Sort, s.Name)
		}
	}
	return nil
}

// DeriveView applies q to items. The result is always a new slice holding a
// subset of items in their original order, unless q selects a sort.
func DeriveView[T any](items []T, q Query, spec Spec[T], at time.Time) []T {
	term := strings.ToLower(strings.TrimSpace(q.Term))

	out := make([]T, 0, len(items))
	for _, item := range items {
		if term != "" && !matchesTerm(spec.Search, item, term) {
			continue
		}
		if !matchesFilters(spec.Filters, q.Filters, item, at) {
			continue
		}
		out = append(out, item)
	}

	if cmp, ok := spec.Sorts[q.Sort]; ok && q.Sort != "" {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

func matchesTerm[T any](search func(T) []string, item T, term string) bool {
	if search == nil {
		return false
	}
	for _, field := range search(item) {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchesFilters[T any](filters map[string]Filter[T], selected map[string]string, item T, at time.Time) bool {
	for name, value := range selected {
		if Unset(value) {
			continue
		}
		f, ok := filters[name]
		if !ok {
			continue
		}
		if !f(item, value, at) {
			return false
		}
	}
	return true
}

// Time buckets used by date filters and statistics.
const (
	BucketToday = "today"
	BucketWeek  = "week"
	BucketMonth = "month"
)

// BucketStart returns the start of a bucket relative to at: local midnight,
// the local Sunday that opens the week, or the first of the month.
func BucketStart(bucket string, at time.Time) (time.Time, bool) {
	n := now.With(at)
	switch bucket {
	case BucketToday:
		return n.BeginningOfDay(), true
	case BucketWeek:
		return n.BeginningOfWeek(), true
	case BucketMonth:
		return n.BeginningOfMonth(), true
	}
	return time.Time{}, false
}

// InBucket reports whether t falls on or after the start of bucket.
func InBucket(t time.Time, bucket string, at time.Time) bool {
	start, ok := BucketStart(bucket, at)
	if !ok || t.IsZero() {
		return false
	}
	return !t.Before(start)
}

// DateFilter builds a filter over a timestamp accessor.
func DateFilter[T any](field func(T) time.Time) Filter[T] {
	return func(item T, value string, at time.Time) bool {
		return InBucket(field(item), value, at)
	}
}

// EqualFilter builds a filter comparing a string accessor to the selection.
func EqualFilter[T any](field func(T) string) Filter[T] {
	return func(item T, value string, _ time.Time) bool {
		return field(item) == value
	}
}

// TimeOrder compares two timestamps; newest == true puts later times first.
func TimeOrder(a, b time.Time, newest bool) int {
	c := a.Compare(b)
	if newest {
		return -c
	}
	return c
}
