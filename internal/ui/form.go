package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"mytasks/internal/task"
)

const (
	fieldDate = iota
	fieldEndDate
	fieldTitle
	fieldNote
	fieldPriority
	fieldCategory
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"date (YYYY-MM-DD)",
	"end date (YYYY-MM-DD, optional)",
	"title",
	"note",
	"priority (high/medium/low)",
	"category (work/personal/health/learning/finance/other)",
}

// formState backs both the add form (editID 0) and the edit form.
type formState struct {
	editID int64
	values [fieldCount]string
	index  int
}

func (m Model) startForm(t *task.Task) (tea.Model, tea.Cmd) {
	fs := &formState{}
	if t == nil {
		fs.values[fieldDate] = m.ctrl.Today().String()
		fs.values[fieldPriority] = task.PriorityMedium.String()
		fs.index = fieldTitle
		m.status = "Add task: tab to move, enter for next field, " + m.cfg.Keys.Save + " to save, esc to cancel"
	} else {
		f := t.Fields()
		fs.editID = t.ID
		fs.values = [fieldCount]string{f.Date, f.EndDate, f.Title, f.Note, f.Priority.String(), f.Category.String()}
		m.status = fmt.Sprintf("Editing \"%s\": %s to save, esc to cancel", t.Title, m.cfg.Keys.Save)
	}
	m.form = fs
	m.mode = modeForm
	m.detail = false
	m.loadField()
	return m, nil
}

func (m *Model) loadField() {
	v := m.form.values[m.form.index]
	if m.form.index == fieldNote {
		m.input.Blur()
		m.note.SetValue(v)
		m.note.Focus()
		return
	}
	m.note.Blur()
	m.input.SetValue(v)
	m.input.Placeholder = fieldLabels[m.form.index]
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) storeField() {
	if m.form.index == fieldNote {
		m.form.values[fieldNote] = m.note.Value()
		return
	}
	m.form.values[m.form.index] = m.input.Value()
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key := msg.String(); key {
	case k.Cancel:
		m.form = nil
		m.mode = modeList
		m.input.Blur()
		m.note.Blur()
		m.status = "Cancelled"
		return m, nil
	case k.Save:
		m.storeField()
		return m.saveForm()
	case k.NextField, k.PrevField:
		step := 1
		if key == k.PrevField {
			step = -1
		}
		m.storeField()
		m.form.index = wrapIndex(m.form.index+step, fieldCount)
		m.loadField()
		return m, nil
	case "enter":
		if m.form.index == fieldNote {
			break
		}
		m.storeField()
		if m.form.index == fieldCount-1 {
			return m.saveForm()
		}
		m.form.index++
		m.loadField()
		return m, nil
	}

	var cmd tea.Cmd
	if m.form.index == fieldNote {
		m.note, cmd = m.note.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	v := m.form.values
	priority, ok := task.ParsePriority(v[fieldPriority])
	if !ok {
		m.status = fmt.Sprintf("unknown priority %q", v[fieldPriority])
		return m, nil
	}
	category, ok := task.ParseCategory(v[fieldCategory])
	if !ok {
		m.status = fmt.Sprintf("unknown category %q", v[fieldCategory])
		return m, nil
	}
	f := task.Fields{
		Date:     strings.TrimSpace(v[fieldDate]),
		EndDate:  strings.TrimSpace(v[fieldEndDate]),
		Title:    v[fieldTitle],
		Note:     v[fieldNote],
		Priority: priority,
		Category: category,
	}

	var id int64
	if m.form.editID == 0 {
		added, err := m.ctrl.Add(f)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		id = added.ID
		m.status = "Task added"
	} else {
		found, err := m.ctrl.Edit(m.form.editID, f)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		if !found {
			m.status = "Task no longer exists"
		} else {
			m.status = "Task updated"
		}
		id = m.form.editID
	}

	m.form = nil
	m.mode = modeList
	m.input.Blur()
	m.note.Blur()
	m.refresh()
	m.moveTo(id)
	return m, nil
}

func (m Model) renderForm() string {
	var b strings.Builder
	if m.form.editID == 0 {
		b.WriteString("New task\n\n")
	} else {
		b.WriteString("Edit task\n\n")
	}
	for i, label := range fieldLabels {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		val := m.form.values[i]
		if i == fieldNote {
			val = strings.ReplaceAll(val, "\n", " ⏎ ")
		}
		b.WriteString(fmt.Sprintf("%s %-10s : %s\n", prefix, shortLabel(label), emptyPlaceholder(val)))
	}
	b.WriteString("\n")
	if m.form.index == fieldNote {
		b.WriteString(m.note.View())
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	return b.String()
}

func shortLabel(label string) string {
	if i := strings.Index(label, " ("); i >= 0 {
		return label[:i]
	}
	return label
}
