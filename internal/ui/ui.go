package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"mytasks/internal/app"
	"mytasks/internal/backup"
	"mytasks/internal/config"
	"mytasks/internal/logger"
	"mytasks/internal/task"
	"mytasks/internal/view"
)

const keepBackups = 10

type mode int

const (
	modeList mode = iota
	modeForm
	modeSearch
	modeImport
	modeConfirm
)

type confirmKind int

const (
	confirmDelete confirmKind = iota
	confirmClear
	confirmImport
)

type confirmation struct {
	kind     confirmKind
	prompt   string
	taskID   int64
	imported []task.Task
}

// Preferences persists UI settings that live outside the task list.
type Preferences interface {
	SetDarkMode(bool) error
}

// backupMsg is sent by the backup scheduler so the export runs inside Update.
type backupMsg time.Time

type Model struct {
	ctrl    *app.Controller
	prefs   Preferences
	cfg     config.Config
	filter  task.FilterMode
	query   string
	visible []task.Task
	stats   view.Stats
	cursor  int
	mode    mode
	input   textinput.Model
	note    textarea.Model
	form    *formState
	confirm *confirmation
	detail  bool
	theme   view.Theme
	status  string
}

func New(ctrl *app.Controller, prefs Preferences, cfg config.Config, dark bool) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	ta := textarea.New()
	ta.Placeholder = "Note"
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(4)

	m := Model{
		ctrl:   ctrl,
		prefs:  prefs,
		cfg:    cfg,
		filter: cfg.FilterMode(),
		input:  ti,
		note:   ta,
		theme:  view.NewTheme(dark),
		mode:   modeList,
		status: fmt.Sprintf("Press '%s' to add, '%s' to search, '%s' to change filter.", cfg.Keys.Add, cfg.Keys.Search, cfg.Keys.Filter),
	}
	m.refresh()
	return m
}

func Run(ctrl *app.Controller, prefs Preferences, cfg config.Config, dark bool) error {
	program := tea.NewProgram(New(ctrl, prefs, cfg, dark), tea.WithAltScreen())

	if cfg.Backup.Schedule != "" {
		sched := backup.NewScheduler(time.Local)
		if _, err := sched.Schedule(cfg.Backup.Schedule, func() {
			program.Send(backupMsg(time.Now()))
		}); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		logger.Info(context.Background(), "backups scheduled", "schedule", cfg.Backup.Schedule, "dir", cfg.Backup.Dir)
	}

	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeImport:
			return m.updateImportPrompt(msg)
		case modeConfirm:
			return m.updateConfirm(msg.String())
		}
		return m.updateList(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-10, 20)
		m.note.SetWidth(max(msg.Width-10, 20))
	case backupMsg:
		m.runBackup(time.Time(msg))
	}
	return m, nil
}

// refresh recomputes the visible list and stats after any change.
func (m *Model) refresh() {
	m.visible = view.Flatten(view.Group(m.ctrl.Visible(m.filter, m.query)))
	m.stats = view.ComputeStats(m.ctrl.Tasks(), m.ctrl.Today())
	m.cursor = clampCursor(m.cursor, len(m.visible))
}

func (m *Model) moveTo(id int64) {
	for i, t := range m.visible {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) selected() (task.Task, bool) {
	if len(m.visible) == 0 {
		return task.Task{}, false
	}
	return m.visible[clampCursor(m.cursor, len(m.visible))], true
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.visible))
	case k.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.visible))
	case k.Add:
		return m.startForm(nil)
	case k.Edit:
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.startForm(&t)
	case k.Detail:
		if _, ok := m.selected(); !ok {
			m.status = "No task selected"
			return m, nil
		}
		m.detail = !m.detail
	case k.Search:
		m.mode = modeSearch
		m.input.SetValue(m.query)
		m.input.Placeholder = "Search title, note or category"
		m.input.Focus()
		m.status = "Search: type to filter, Enter to keep, Esc to clear"
	case k.Filter:
		m.filter = m.filter.Next()
		m.cursor = 0
		m.refresh()
		m.status = "Filter: " + m.filter.String()
	case k.StatusNext:
		if t, ok := m.selected(); ok {
			m.setStatus(t, t.Status.Next())
		}
	case k.NotStarted:
		if t, ok := m.selected(); ok {
			m.setStatus(t, task.StatusNotStarted)
		}
	case k.InProgress:
		if t, ok := m.selected(); ok {
			m.setStatus(t, task.StatusInProgress)
		}
	case k.Done:
		if t, ok := m.selected(); ok {
			m.setStatus(t, task.StatusDone)
		}
	case k.Duplicate:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		dup, found, err := m.ctrl.Duplicate(t.ID)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		if !found {
			m.status = "Task no longer exists"
			return m, nil
		}
		m.refresh()
		m.moveTo(dup.ID)
		m.status = "Duplicated task"
	case k.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.ask(confirmation{kind: confirmDelete, taskID: t.ID, prompt: fmt.Sprintf("Delete \"%s\"? y/n", t.Title)})
	case k.ClearAll:
		if len(m.ctrl.Tasks()) == 0 {
			m.status = "Nothing to clear"
			return m, nil
		}
		m.ask(confirmation{kind: confirmClear, prompt: fmt.Sprintf("Delete all %d tasks? y/n", len(m.ctrl.Tasks()))})
	case k.Export:
		path, err := m.ctrl.ExportTo(m.cfg.ExportDir)
		if err != nil {
			m.status = fmt.Sprintf("export failed: %v", err)
			return m, nil
		}
		m.status = fmt.Sprintf("Exported %d tasks to %s", len(m.ctrl.Tasks()), path)
	case k.Import:
		m.mode = modeImport
		m.input.SetValue("")
		m.input.Placeholder = "Path to a mytasks JSON export"
		m.input.Focus()
		m.status = "Import: enter a file path, Esc to cancel"
	case k.DarkMode:
		dark := !m.theme.Dark
		if err := m.prefs.SetDarkMode(dark); err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m.theme = view.NewTheme(dark)
		if dark {
			m.status = "Dark mode on"
		} else {
			m.status = "Dark mode off"
		}
	}
	return m, nil
}

func (m *Model) setStatus(t task.Task, s task.Status) {
	found, err := m.ctrl.UpdateStatus(t.ID, s)
	if err != nil {
		m.status = err.Error()
		return
	}
	if !found {
		m.status = "Task no longer exists"
		return
	}
	m.refresh()
	m.moveTo(t.ID)
	m.status = fmt.Sprintf("\"%s\" is now %s", t.Title, s.Label())
}

func (m *Model) ask(c confirmation) {
	m.confirm = &c
	m.mode = modeConfirm
	m.status = c.prompt
}

func (m Model) updateConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.confirm = nil
		m.mode = modeList
		m.status = "Cancelled"
		return m, nil
	case "y", "Y", m.cfg.Keys.Confirm:
	default:
		return m, nil
	}

	c := m.confirm
	m.confirm = nil
	m.mode = modeList
	if c == nil {
		return m, nil
	}
	switch c.kind {
	case confirmDelete:
		found, err := m.ctrl.Delete(c.taskID)
		switch {
		case err != nil:
			m.status = err.Error()
		case !found:
			m.status = "Task no longer exists"
		default:
			m.status = "Deleted task"
		}
	case confirmClear:
		if err := m.ctrl.ClearAll(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "All tasks cleared"
		}
	case confirmImport:
		if err := m.ctrl.Import(c.imported); err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("Imported %d tasks", len(c.imported))
		}
	}
	m.refresh()
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.cfg.Keys.Cancel:
		m.query = ""
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		m.refresh()
		m.status = "Search cleared"
		return m, nil
	case "enter":
		m.input.Blur()
		m.mode = modeList
		m.status = fmt.Sprintf("%d tasks match", len(m.visible))
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.query = m.input.Value()
	m.cursor = 0
	m.refresh()
	return m, cmd
}

func (m Model) updateImportPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.cfg.Keys.Cancel:
		m.input.Blur()
		m.mode = modeList
		m.status = "Import cancelled"
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.input.Value())
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		if path == "" {
			m.status = "Import cancelled"
			return m, nil
		}
		imported, err := m.ctrl.ImportFile(path)
		if err != nil {
			if errors.Is(err, task.ErrImportFormat) {
				m.status = "Import failed: the file is not a mytasks JSON export"
			} else {
				m.status = fmt.Sprintf("Import failed: %v", err)
			}
			return m, nil
		}
		m.ask(confirmation{kind: confirmImport, imported: imported, prompt: fmt.Sprintf("Import %d tasks? y/n", len(imported))})
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) runBackup(at time.Time) {
	data, _, err := m.ctrl.Export()
	if err != nil {
		logger.Error(context.Background(), err, "backup failed")
		return
	}
	path, err := backup.Write(m.cfg.Backup.Dir, data, at)
	if err != nil {
		logger.Error(context.Background(), err, "backup failed", "dir", m.cfg.Backup.Dir)
		m.status = fmt.Sprintf("backup failed: %v", err)
		return
	}
	if err := backup.Prune(m.cfg.Backup.Dir, keepBackups); err != nil {
		logger.Error(context.Background(), err, "backup prune failed")
	}
	logger.Info(context.Background(), "backup written", "path", path)
}

func (m Model) View() string {
	var b strings.Builder

	header := "My Tasks • " + m.filter.String()
	if m.query != "" {
		header += fmt.Sprintf(" • search %q", m.query)
	}
	b.WriteString(m.theme.Header.Render(header))
	b.WriteString("\n")
	b.WriteString(view.RenderStats(m.stats, m.theme))
	b.WriteString("\n\n")

	cursor := m.cursor
	if m.mode != modeList && m.mode != modeConfirm {
		cursor = -1
	}
	b.WriteString(view.Render(m.visible, view.Options{Today: m.ctrl.Today(), Cursor: cursor, Theme: m.theme}))
	b.WriteString("\n---\n")

	switch m.mode {
	case modeForm:
		b.WriteString(m.renderForm())
	case modeSearch, modeImport:
		b.WriteString(m.input.View())
		b.WriteString("\n")
	default:
		if m.detail {
			b.WriteString(m.renderDetail())
		}
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render(renderHelp(m.cfg.Keys)))
	return b.String()
}

func (m Model) renderDetail() string {
	t, ok := m.selected()
	if !ok {
		return "No task selected\n"
	}
	var b strings.Builder
	b.WriteString("Details\n")
	b.WriteString(fmt.Sprintf("Title     : %s\n", t.Title))
	b.WriteString(fmt.Sprintf("Date      : %s (%s)\n", t.Date, view.DateLabel(t.Date, m.ctrl.Today())))
	b.WriteString(fmt.Sprintf("Due       : %s\n", emptyPlaceholder(t.EndDate.String())))
	b.WriteString(fmt.Sprintf("Status    : %s\n", t.Status.Label()))
	b.WriteString(fmt.Sprintf("Priority  : %s\n", t.Priority))
	b.WriteString(fmt.Sprintf("Category  : %s\n", emptyPlaceholder(t.Category.String())))
	b.WriteString(fmt.Sprintf("Created   : %s\n", humanize.Time(t.CreatedAt)))
	if t.CompletedAt != nil {
		b.WriteString(fmt.Sprintf("Completed : %s\n", humanize.Time(*t.CompletedAt)))
	}
	b.WriteString(fmt.Sprintf("Note      : %s\n", emptyPlaceholder(t.Note)))
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s detail • %s/%s/%s status • %s cycle • %s dup • %s delete • %s search • %s filter • %s export • %s import • %s clear • %s theme • %s quit",
		k.Up, k.Down, k.Add, k.Edit, k.Detail, k.NotStarted, k.InProgress, k.Done, keyName(k.StatusNext),
		k.Duplicate, k.Delete, k.Search, k.Filter, k.Export, k.Import, k.ClearAll, k.DarkMode, k.Quit)
}

func keyName(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
