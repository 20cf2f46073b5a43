package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mytasks/internal/task"
)

const EmptyState = "No tasks found."

type Theme struct {
	Dark     bool
	Header   lipgloss.Style
	Title    lipgloss.Style
	Note     lipgloss.Style
	Badge    lipgloss.Style
	Overdue  lipgloss.Style
	Done     lipgloss.Style
	Progress lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
}

func NewTheme(dark bool) Theme {
	fg, muted, accent, warn, ok, sel := lipgloss.Color("#1F2937"), lipgloss.Color("#6B7280"), lipgloss.Color("#2563EB"), lipgloss.Color("#DC2626"), lipgloss.Color("#15803D"), lipgloss.Color("#E5E7EB")
	if dark {
		fg, muted, accent, warn, ok, sel = lipgloss.Color("#E5E7EB"), lipgloss.Color("#9CA3AF"), lipgloss.Color("#60A5FA"), lipgloss.Color("#F87171"), lipgloss.Color("#4ADE80"), lipgloss.Color("#374151")
	}
	return Theme{
		Dark:     dark,
		Header:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		Title:    lipgloss.NewStyle().Foreground(fg),
		Note:     lipgloss.NewStyle().Foreground(muted).Italic(true),
		Badge:    lipgloss.NewStyle().Foreground(muted),
		Overdue:  lipgloss.NewStyle().Bold(true).Foreground(warn),
		Done:     lipgloss.NewStyle().Foreground(ok),
		Progress: lipgloss.NewStyle().Foreground(lipgloss.Color("#D97706")),
		Selected: lipgloss.NewStyle().Background(sel).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(muted),
	}
}

func PriorityIcon(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return "🔴"
	case task.PriorityLow:
		return "🟢"
	default:
		return "🟡"
	}
}

func CategoryIcon(c task.Category) string {
	switch c {
	case task.CategoryWork:
		return "💼"
	case task.CategoryPersonal:
		return "🏠"
	case task.CategoryHealth:
		return "💪"
	case task.CategoryLearning:
		return "📚"
	case task.CategoryFinance:
		return "💰"
	case task.CategoryOther:
		return "📌"
	default:
		return ""
	}
}

type Options struct {
	Today task.Date
	// Cursor is the index of the selected task in display order, -1 for none.
	Cursor int
	Theme  Theme
}

// Render draws the visible tasks grouped by date, or the empty state.
func Render(visible []task.Task, opts Options) string {
	th := opts.Theme
	if len(visible) == 0 {
		return th.Muted.Render(EmptyState)
	}
	var b strings.Builder
	i := 0
	for n, bucket := range Group(visible) {
		if n > 0 {
			b.WriteString("\n")
		}
		b.WriteString(th.Header.Render("📆 " + DateLabel(bucket.Date, opts.Today)))
		b.WriteString("\n")
		for _, t := range bucket.Tasks {
			b.WriteString(renderTask(t, i == opts.Cursor, opts.Today, th))
			i++
		}
	}
	return b.String()
}

func renderTask(t task.Task, selected bool, today task.Date, th Theme) string {
	cursor := " "
	if selected {
		cursor = ">"
	}

	icons := PriorityIcon(t.Priority)
	if c := CategoryIcon(t.Category); c != "" {
		icons += " " + c
	}

	title := th.Title.Render(t.Title)
	if t.Status == task.StatusDone {
		title = th.Done.Strikethrough(true).Render(t.Title)
	}
	if selected {
		title = th.Selected.Render(t.Title)
	}

	parts := []string{cursor, icons, title, statusControl(t.Status, th)}
	if badge := dueBadge(t, today, th); badge != "" {
		parts = append(parts, badge)
	}
	if t.Status == task.StatusDone && t.CompletedAt != nil {
		parts = append(parts, th.Done.Render("✓ "+t.CompletedAt.Local().Format("2006-01-02")))
	}

	var b strings.Builder
	b.WriteString(strings.Join(parts, " "))
	b.WriteString("\n")
	if note := strings.TrimSpace(t.Note); note != "" {
		for _, line := range strings.Split(note, "\n") {
			b.WriteString("      ")
			b.WriteString(th.Note.Render(strings.TrimRight(line, "\r")))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func statusControl(s task.Status, th Theme) string {
	label := "[" + s.Label() + "]"
	switch s {
	case task.StatusDone:
		return th.Done.Render(label)
	case task.StatusInProgress:
		return th.Progress.Render(label)
	default:
		return th.Muted.Render(label)
	}
}

func dueBadge(t task.Task, today task.Date, th Theme) string {
	if t.EndDate.IsZero() {
		return ""
	}
	if t.IsOverdue(today) {
		return th.Overdue.Render(fmt.Sprintf("⏰ due %s (overdue)", t.EndDate))
	}
	return th.Badge.Render(fmt.Sprintf("⏰ due %s", t.EndDate))
}

func RenderStats(s Stats, th Theme) string {
	line := fmt.Sprintf("Total %d • Not started %d • In progress %d • Done %d • Overdue %d • %d%% complete",
		s.Total, s.NotStarted, s.InProgress, s.Done, s.Overdue, s.Completion)
	if s.Overdue > 0 {
		return th.Muted.Render(line) + " " + th.Overdue.Render("!")
	}
	return th.Muted.Render(line)
}
