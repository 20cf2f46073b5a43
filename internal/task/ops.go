package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrValidation   = errors.New("invalid task")
	ErrImportFormat = errors.New("invalid import file")
)

const copySuffix = " (Copy)"

// The functions below never modify the slice they are given; each returns
// a fresh slice so earlier snapshots stay valid.

func validate(f Fields) (Fields, Date, Date, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Note = strings.TrimSpace(f.Note)
	if strings.TrimSpace(f.Date) == "" || f.Title == "" {
		return f, "", "", fmt.Errorf("%w: please enter both date and task title", ErrValidation)
	}
	date, err := ParseDate(f.Date)
	if err != nil {
		return f, "", "", fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrValidation, f.Date)
	}
	end, err := ParseDate(f.EndDate)
	if err != nil {
		return f, "", "", fmt.Errorf("%w: end date %q is not YYYY-MM-DD", ErrValidation, f.EndDate)
	}
	if !end.IsZero() && end < date {
		return f, "", "", fmt.Errorf("%w: end date cannot be before start date", ErrValidation)
	}
	return f, date, end, nil
}

// NewID derives an id from now, stepping forward past any id already taken.
func NewID(tasks []Task, now time.Time) int64 {
	taken := make(map[int64]struct{}, len(tasks))
	for _, t := range tasks {
		taken[t.ID] = struct{}{}
	}
	id := now.UnixMilli()
	for {
		if _, ok := taken[id]; !ok {
			return id
		}
		id++
	}
}

func Find(tasks []Task, id int64) (Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

func Add(tasks []Task, f Fields, now time.Time) ([]Task, Task, error) {
	f, date, end, err := validate(f)
	if err != nil {
		return tasks, Task{}, err
	}
	t := Task{
		ID:        NewID(tasks, now),
		Date:      date,
		EndDate:   end,
		Title:     f.Title,
		Note:      f.Note,
		Priority:  f.Priority,
		Category:  f.Category,
		Status:    StatusNotStarted,
		CreatedAt: now,
	}
	return appendCopy(tasks, t), t, nil
}

// UpdateStatus sets the status of every task carrying id. completedAt
// follows the status.
func UpdateStatus(tasks []Task, id int64, s Status, now time.Time) ([]Task, bool) {
	return mapID(tasks, id, func(t Task) Task {
		t.Status = s
		t.CompletedAt = nil
		if s == StatusDone {
			done := now
			t.CompletedAt = &done
		}
		return t
	})
}

func Edit(tasks []Task, id int64, f Fields) ([]Task, bool, error) {
	f, date, end, err := validate(f)
	if err != nil {
		return tasks, false, err
	}
	out, found := mapID(tasks, id, func(t Task) Task {
		t.Title = f.Title
		t.Date = date
		t.EndDate = end
		t.Priority = f.Priority
		t.Category = f.Category
		t.Note = f.Note
		return t
	})
	return out, found, nil
}

func Duplicate(tasks []Task, id int64, now time.Time) ([]Task, Task, bool) {
	src, ok := Find(tasks, id)
	if !ok {
		return tasks, Task{}, false
	}
	dup := src
	dup.ID = NewID(tasks, now)
	dup.Title = src.Title + copySuffix
	dup.Status = StatusNotStarted
	dup.CreatedAt = now
	dup.CompletedAt = nil
	return appendCopy(tasks, dup), dup, true
}

func Delete(tasks []Task, id int64) ([]Task, bool) {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out, len(out) != len(tasks)
}

// Merge appends imported tasks as-is. Ids are not de-duplicated.
func Merge(tasks, imported []Task) []Task {
	out := make([]Task, 0, len(tasks)+len(imported))
	out = append(out, tasks...)
	return append(out, imported...)
}

func mapID(tasks []Task, id int64, fn func(Task) Task) ([]Task, bool) {
	out := make([]Task, len(tasks))
	found := false
	for i, t := range tasks {
		if t.ID == id {
			t = fn(t)
			found = true
		}
		out[i] = t
	}
	if !found {
		return tasks, false
	}
	return out, true
}

func appendCopy(tasks []Task, t Task) []Task {
	out := make([]Task, 0, len(tasks)+1)
	out = append(out, tasks...)
	return append(out, t)
}
