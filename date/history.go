package date

import (
	"slices"
	"sort"
)

// History stores a chronological series of values, each associated with a
// specific date. It ensures that dates are unique and the series is always
// sorted, so that as-of lookups can walk backward deterministically.
type History[T float32 | float64] struct {
	days   []Date
	values []T
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero values.
func (h *History[T]) Latest() (day Date, value T) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, *new(T)
	}
	return h.days[last], h.values[last]
}

// chronological is a private implementation to make this history chronologically sorted.
type chronological[T float32 | float64] struct{ *History[T] }

func (s chronological[T]) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }

func (s chronological[T]) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}

func (h *History[T]) sort() { sort.Sort(chronological[T]{h}) }

// Append adds a point to the history.
//
// An existing value at that date is overwritten, which gives higher
// priority to the last data appended.
func (h *History[T]) Append(on Date, q T) *History[T] {
	if i := slices.Index(h.days, on); i >= 0 {
		h.values[i] = q
		return h
	}
	h.days, h.values = append(h.days, on), append(h.values, q)
	h.sort()
	return h
}

// Get returns the value at 'day' and true, or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	var value T
	i := slices.Index(h.days, day)
	if i >= 0 {
		return h.values[i], true
	}
	return value, false
}

// AsOf returns the value on a given day, or the most recent value before
// it, along with the date that value was actually published on.
// It returns false when no value exists on or before the given day.
func (h *History[T]) AsOf(day Date) (on Date, value T, ok bool) {
	// The days slice is sorted, so we can use binary search.
	i, found := slices.BinarySearchFunc(h.days, day, func(d, t Date) int {
		if d.After(t) {
			return 1
		}
		if d.Before(t) {
			return -1
		}
		return 0
	})

	if found {
		return h.days[i], h.values[i], true
	}

	// Not found. `i` is the index where `day` would be inserted.
	// The entry we want is at `i-1`, the last one before the target date.
	if i == 0 {
		var zero T
		return Date{}, zero, false
	}
	return h.days[i-1], h.values[i-1], true
}
