package tasklist

import (
	"sort"
	"strings"

	"daftar/internal/model"
)

// Counts summarizes the filtered result, not the whole collection.
type Counts struct {
	Total      int
	NotStarted int
	InProgress int
	Done       int
}

// Derive computes the visible, ordered task subset and its counts from a
// collection and a filter state. It is pure: the input slice is not touched
// and identical inputs always yield identical output.
func Derive(tasks []model.Task, f Filters) ([]model.Task, Counts) {
	visible := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !matches(t, f) {
			continue
		}
		visible = append(visible, t)
	}

	// Stable sort so tasks with equal CreatedAt keep their relative order.
	// An unknown sort option leaves the filtered order untouched.
	switch f.Sort {
	case SortLatest:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].CreatedAt.After(visible[j].CreatedAt)
		})
	case SortOldest:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].CreatedAt.Before(visible[j].CreatedAt)
		})
	}

	counts := Counts{Total: len(visible)}
	for _, t := range visible {
		switch t.Status {
		case model.StatusNotStarted:
			counts.NotStarted++
		case model.StatusInProgress:
			counts.InProgress++
		case model.StatusDone:
			counts.Done++
		}
	}
	return visible, counts
}

func matches(t model.Task, f Filters) bool {
	if f.Category != FilterAll && t.Category != f.Category {
		return false
	}
	if f.Priority != FilterAll && string(t.Priority) != f.Priority {
		return false
	}
	if f.Status != FilterAll && string(t.Status) != f.Status {
		return false
	}
	// Case-sensitive on purpose: matches the upstream behavior.
	return strings.Contains(t.Title, f.SearchText) ||
		strings.Contains(t.Description, f.SearchText)
}
