package task

import "strings"

type FilterMode uint8

const (
	FilterAll FilterMode = iota
	FilterToday
	FilterOverdue
	FilterNotStarted
	FilterInProgress
	FilterDone
)

var FilterModes = []FilterMode{
	FilterAll,
	FilterToday,
	FilterOverdue,
	FilterNotStarted,
	FilterInProgress,
	FilterDone,
}

func (m FilterMode) String() string {
	switch m {
	case FilterToday:
		return "today"
	case FilterOverdue:
		return "overdue"
	case FilterNotStarted:
		return "not-started"
	case FilterInProgress:
		return "in-progress"
	case FilterDone:
		return "done"
	default:
		return "all"
	}
}

func ParseFilterMode(v string) (FilterMode, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, m := range FilterModes {
		if m.String() == v {
			return m, true
		}
	}
	return FilterAll, false
}

// Next cycles through FilterModes in order.
func (m FilterMode) Next() FilterMode {
	for i, fm := range FilterModes {
		if fm == m {
			return FilterModes[(i+1)%len(FilterModes)]
		}
	}
	return FilterAll
}

func (m FilterMode) match(t Task, today Date) bool {
	switch m {
	case FilterToday:
		return t.Date == today || t.EndDate == today
	case FilterOverdue:
		return t.IsOverdue(today)
	case FilterNotStarted:
		return t.Status == StatusNotStarted
	case FilterInProgress:
		return t.Status == StatusInProgress
	case FilterDone:
		return t.Status == StatusDone
	default:
		return true
	}
}

func matchQuery(t Task, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), query) ||
		strings.Contains(strings.ToLower(t.Note), query) ||
		strings.Contains(t.Category.String(), query)
}

// Visible applies the text query and then the filter mode, keeping input order.
func Visible(tasks []Task, mode FilterMode, query string, today Date) []Task {
	query = strings.ToLower(query)
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if matchQuery(t, query) && mode.match(t, today) {
			out = append(out, t)
		}
	}
	return out
}
