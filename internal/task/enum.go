package task

import "strings"

// Enum text decoding is permissive: unknown values fall back to the
// default so imported tasks with odd shapes still load.

type Priority uint8

const (
	PriorityMedium Priority = iota
	PriorityHigh
	PriorityLow
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityLow:
		return "low"
	default:
		return "medium"
	}
}

// Rank orders priorities high < medium < low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

func ParsePriority(v string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "high", "h":
		return PriorityHigh, true
	case "medium", "m", "":
		return PriorityMedium, true
	case "low", "l":
		return PriorityLow, true
	}
	return PriorityMedium, false
}

func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	*p, _ = ParsePriority(string(b))
	return nil
}

type Category uint8

const (
	CategoryNone Category = iota
	CategoryWork
	CategoryPersonal
	CategoryHealth
	CategoryLearning
	CategoryFinance
	CategoryOther
)

var Categories = []Category{
	CategoryNone,
	CategoryWork,
	CategoryPersonal,
	CategoryHealth,
	CategoryLearning,
	CategoryFinance,
	CategoryOther,
}

func (c Category) String() string {
	switch c {
	case CategoryWork:
		return "work"
	case CategoryPersonal:
		return "personal"
	case CategoryHealth:
		return "health"
	case CategoryLearning:
		return "learning"
	case CategoryFinance:
		return "finance"
	case CategoryOther:
		return "other"
	default:
		return ""
	}
}

func ParseCategory(v string) (Category, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, c := range Categories {
		if c.String() == v {
			return c, true
		}
	}
	return CategoryNone, false
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	*c, _ = ParseCategory(string(b))
	return nil
}

type Status uint8

const (
	StatusNotStarted Status = iota
	StatusInProgress
	StatusDone
)

var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusDone}

func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return "in-progress"
	case StatusDone:
		return "done"
	default:
		return "not-started"
	}
}

// Label is the human form shown in the status control.
func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return "Not Started"
	}
}

// Next cycles not-started -> in-progress -> done -> not-started.
func (s Status) Next() Status {
	switch s {
	case StatusNotStarted:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusNotStarted
	}
}

func ParseStatus(v string) (Status, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	v = strings.NewReplacer(" ", "-", "_", "-").Replace(v)
	switch v {
	case "not-started", "todo", "":
		return StatusNotStarted, true
	case "in-progress", "doing":
		return StatusInProgress, true
	case "done":
		return StatusDone, true
	}
	return StatusNotStarted, false
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	*s, _ = ParseStatus(string(b))
	return nil
}
