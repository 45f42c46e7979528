package task

import (
	"strings"

	"taskd/internal/model"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter maps a caller-supplied string onto a Filter. Unknown values
// fall back to FilterAll.
func ParseFilter(s string) Filter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "pending":
		return FilterActive
	case "completed", "done":
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Derive projects the collection for display: the filter and the query
// are independent predicates that must both pass, and relative order is
// preserved. Pure — the input slice is never mutated.
func Derive(tasks []model.Task, filter Filter, query string) []model.Task {
	q := strings.ToLower(query)
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		switch filter {
		case FilterActive:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Title), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}
