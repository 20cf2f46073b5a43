package view

import (
	"math"
	"sort"

	"mytasks/internal/task"
)

// Bucket holds the tasks scheduled on one date.
type Bucket struct {
	Date  task.Date
	Tasks []task.Task
}

// Group buckets tasks by date, dates ascending. Inside a bucket tasks are
// ordered by priority (high first) then status, keeping insertion order on ties.
func Group(tasks []task.Task) []Bucket {
	index := map[task.Date]int{}
	var buckets []Bucket
	for _, t := range tasks {
		i, ok := index[t.Date]
		if !ok {
			i = len(buckets)
			index[t.Date] = i
			buckets = append(buckets, Bucket{Date: t.Date})
		}
		buckets[i].Tasks = append(buckets[i].Tasks, t)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })
	for _, b := range buckets {
		sort.SliceStable(b.Tasks, func(i, j int) bool {
			pi, pj := b.Tasks[i].Priority.Rank(), b.Tasks[j].Priority.Rank()
			if pi != pj {
				return pi < pj
			}
			return b.Tasks[i].Status < b.Tasks[j].Status
		})
	}
	return buckets
}

// Flatten lists tasks in display order.
func Flatten(buckets []Bucket) []task.Task {
	var out []task.Task
	for _, b := range buckets {
		out = append(out, b.Tasks...)
	}
	return out
}

// DateLabel names today, yesterday and tomorrow; other dates read like
// "Monday, January 2". Unparseable dates are returned as-is.
func DateLabel(d, today task.Date) string {
	if d.IsZero() {
		return "No date"
	}
	switch d {
	case today:
		return "Today"
	case today.AddDays(-1):
		return "Yesterday"
	case today.AddDays(1):
		return "Tomorrow"
	}
	t, err := d.Time()
	if err != nil {
		return d.String()
	}
	return t.Format("Monday, January 2")
}

type Stats struct {
	Total      int
	NotStarted int
	InProgress int
	Done       int
	Overdue    int
	Completion int
}

// ComputeStats always runs over the full collection, not the filtered view.
func ComputeStats(tasks []task.Task, today task.Date) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		switch t.Status {
		case task.StatusNotStarted:
			s.NotStarted++
		case task.StatusInProgress:
			s.InProgress++
		case task.StatusDone:
			s.Done++
		}
		if t.IsOverdue(today) {
			s.Overdue++
		}
	}
	if s.Total > 0 {
		s.Completion = int(math.Round(float64(s.Done) / float64(s.Total) * 100))
	}
	return s
}
