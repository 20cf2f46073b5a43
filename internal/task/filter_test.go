package task

import "testing"

const today Date = "2026-10-18"

func ids(tasks []Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func fixture() []Task {
	return []Task{
		{ID: 1, Date: "2026-10-10", EndDate: "2026-10-15", Title: "Pay rent", Category: CategoryFinance},
		{ID: 2, Date: "2026-10-10", EndDate: "2026-10-12", Title: "Old but done", Status: StatusDone},
		{ID: 3, Date: "2026-10-18", Title: "Standup", Note: "Bring NOTES", Status: StatusInProgress},
		{ID: 4, Date: "2026-10-16", EndDate: "2026-10-18", Title: "Due today"},
		{ID: 5, Date: "2026-10-20", EndDate: "2026-10-25", Title: "Gym", Category: CategoryHealth},
		{ID: 6, Date: "2026-10-01", EndDate: "2026-10-17", Title: "Slipping", Status: StatusInProgress},
	}
}

func TestVisibleModes(t *testing.T) {
	cases := []struct {
		mode FilterMode
		want []int64
	}{
		{FilterAll, []int64{1, 2, 3, 4, 5, 6}},
		{FilterToday, []int64{3, 4}},
		{FilterOverdue, []int64{1, 6}},
		{FilterNotStarted, []int64{1, 4, 5}},
		{FilterInProgress, []int64{3, 6}},
		{FilterDone, []int64{2}},
	}
	for _, tc := range cases {
		t.Run(tc.mode.String(), func(t *testing.T) {
			got := ids(Visible(fixture(), tc.mode, "", today))
			if !sameIDs(got, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestOverdueExcludesDone(t *testing.T) {
	tasks := []Task{
		{ID: 1, Date: "2026-10-01", EndDate: "2026-10-02"},
		{ID: 2, Date: "2026-10-01", EndDate: "2026-10-02", Status: StatusDone},
		{ID: 3, Date: "2026-10-01"},
	}
	got := ids(Visible(tasks, FilterOverdue, "", today))
	if !sameIDs(got, []int64{1}) {
		t.Errorf("Expected [1], got %v", got)
	}
}

func TestVisibleQuery(t *testing.T) {
	cases := []struct {
		query string
		want  []int64
	}{
		{"notes", []int64{3}},
		{"GYM", []int64{5}},
		{"finance", []int64{1}},
		{"health", []int64{5}},
		{"", []int64{1, 2, 3, 4, 5, 6}},
		{"nothing matches", []int64{}},
	}
	for _, tc := range cases {
		got := ids(Visible(fixture(), FilterAll, tc.query, today))
		if !sameIDs(got, tc.want) {
			t.Errorf("query %q: expected %v, got %v", tc.query, tc.want, got)
		}
	}
}

func TestVisibleQueryThenMode(t *testing.T) {
	got := ids(Visible(fixture(), FilterOverdue, "rent", today))
	if !sameIDs(got, []int64{1}) {
		t.Errorf("Expected [1], got %v", got)
	}
}

func TestParseFilterMode(t *testing.T) {
	for _, m := range FilterModes {
		got, ok := ParseFilterMode(m.String())
		if !ok || got != m {
			t.Errorf("ParseFilterMode(%q) = %v, %v", m.String(), got, ok)
		}
	}
	if _, ok := ParseFilterMode("someday"); ok {
		t.Error("Expected unknown mode to be rejected")
	}
	if FilterDone.Next() != FilterAll {
		t.Error("Expected Next to wrap around")
	}
}
