package task

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form. String order equals
// chronological order.
type Date string

func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

func ParseDate(v string) (Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return "", err
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool {
	return d == ""
}

func (d Date) Time() (time.Time, error) {
	return time.ParseInLocation(dateLayout, string(d), time.Local)
}

// AddDays returns the zero Date when d does not parse.
func (d Date) AddDays(n int) Date {
	t, err := d.Time()
	if err != nil {
		return ""
	}
	return DateOf(t.AddDate(0, 0, n))
}

func (d Date) String() string {
	return string(d)
}

type Task struct {
	ID          int64      `json:"id"`
	Date        Date       `json:"date"`
	EndDate     Date       `json:"endDate,omitempty"`
	Title       string     `json:"title"`
	Note        string     `json:"note"`
	Priority    Priority   `json:"priority"`
	Category    Category   `json:"category"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// Fields are the user-editable parts of a task.
type Fields struct {
	Date     string
	EndDate  string
	Title    string
	Note     string
	Priority Priority
	Category Category
}

func (t Task) Fields() Fields {
	return Fields{
		Date:     t.Date.String(),
		EndDate:  t.EndDate.String(),
		Title:    t.Title,
		Note:     t.Note,
		Priority: t.Priority,
		Category: t.Category,
	}
}

// IsOverdue reports whether the task has a due date before today and is not done.
func (t Task) IsOverdue(today Date) bool {
	return !t.EndDate.IsZero() && t.Status != StatusDone && t.EndDate < today
}
