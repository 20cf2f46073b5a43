package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mytasks/internal/app"
	"mytasks/internal/config"
	"mytasks/internal/task"
)

type fakeStore struct {
	saves int
	err   error
	dark  bool
}

func (f *fakeStore) SaveTasks([]task.Task) error {
	if f.err != nil {
		return f.err
	}
	f.saves++
	return nil
}

func (f *fakeStore) SetDarkMode(dark bool) error {
	f.dark = dark
	return nil
}

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.Local)

func newModel(t *testing.T, store *fakeStore, tasks []task.Task) (Model, *app.Controller) {
	t.Helper()
	ctrl := app.New(store, tasks, app.WithClock(func() time.Time { return fixedNow }))
	cfg := config.Default()
	cfg.ExportDir = t.TempDir()
	cfg.Backup.Dir = t.TempDir()
	return New(ctrl, store, cfg, false), ctrl
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func press(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func sampleTasks() []task.Task {
	return []task.Task{
		{ID: 1, Date: "2026-10-18", Title: "Buy milk", CreatedAt: fixedNow},
		{ID: 2, Date: "2026-10-20", Title: "Dentist", Note: "bring card", Category: task.CategoryHealth, Status: task.StatusInProgress, CreatedAt: fixedNow},
	}
}

func TestAddTaskThroughForm(t *testing.T) {
	store := &fakeStore{}
	m, ctrl := newModel(t, store, nil)

	m = press(m, runes("a"))
	if m.mode != modeForm || m.form.index != fieldTitle {
		t.Fatalf("Expected add form on title field, got mode=%v", m.mode)
	}
	m = press(m, runes("Water plants"), key(tea.KeyCtrlS))

	if m.mode != modeList {
		t.Errorf("Expected list mode after save, got %v", m.mode)
	}
	tasks := ctrl.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Title != "Water plants" || tasks[0].Date != "2026-10-18" || tasks[0].Priority != task.PriorityMedium {
		t.Errorf("Unexpected task %+v", tasks[0])
	}
	if m.status != "Task added" || len(m.visible) != 1 || store.saves != 1 {
		t.Errorf("Unexpected state status=%q visible=%d saves=%d", m.status, len(m.visible), store.saves)
	}
}

func TestAddRequiresTitle(t *testing.T) {
	m, ctrl := newModel(t, &fakeStore{}, nil)

	m = press(m, runes("a"), key(tea.KeyCtrlS))

	if !strings.Contains(m.status, "please enter both date and task title") {
		t.Errorf("Expected validation message, got %q", m.status)
	}
	if m.mode != modeForm {
		t.Errorf("Expected form to stay open")
	}
	if len(ctrl.Tasks()) != 0 {
		t.Errorf("Expected no task to be added")
	}
}

func TestEnterWalksFieldsAndSavesOnLast(t *testing.T) {
	m, ctrl := newModel(t, &fakeStore{}, nil)

	m = press(m,
		runes("a"),
		runes("Run"), key(tea.KeyEnter), // title -> note
		runes("5k"), key(tea.KeyTab), // note -> priority
		key(tea.KeyCtrlU), runes("high"), key(tea.KeyEnter),
		runes("health"), key(tea.KeyEnter),
	)

	tasks := ctrl.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d (status %q)", len(tasks), m.status)
	}
	got := tasks[0]
	if got.Title != "Run" || got.Note != "5k" || got.Priority != task.PriorityHigh || got.Category != task.CategoryHealth {
		t.Errorf("Unexpected task %+v", got)
	}
}

func TestUnknownPriorityIsRejected(t *testing.T) {
	m, ctrl := newModel(t, &fakeStore{}, nil)

	m = press(m, runes("a"), runes("Run"), key(tea.KeyTab), key(tea.KeyTab),
		key(tea.KeyCtrlU), runes("urgent"), key(tea.KeyCtrlS))

	if m.status != `unknown priority "urgent"` {
		t.Errorf("Unexpected status %q", m.status)
	}
	if len(ctrl.Tasks()) != 0 {
		t.Errorf("Expected nothing saved")
	}
}

func TestEditKeepsStatus(t *testing.T) {
	m, ctrl := newModel(t, &fakeStore{}, sampleTasks())

	m = press(m, runes("j"), runes("e"))
	if m.form == nil || m.form.editID != 2 {
		t.Fatalf("Expected edit form for task 2")
	}
	m = press(m, key(tea.KeyTab), key(tea.KeyTab), key(tea.KeyCtrlU), runes("Dentist at 3pm"), key(tea.KeyCtrlS))

	got, _ := ctrl.Find(2)
	if got.Title != "Dentist at 3pm" || got.Status != task.StatusInProgress || got.Note != "bring card" {
		t.Errorf("Unexpected edited task %+v", got)
	}
	if m.status != "Task updated" {
		t.Errorf("Unexpected status %q", m.status)
	}
}

func TestStatusKeys(t *testing.T) {
	m, ctrl := newModel(t, &fakeStore{}, sampleTasks())

	m = press(m, runes("3"))
	got, _ := ctrl.Find(1)
	if got.Status != task.StatusDone || got.CompletedAt == nil {
		t.Fatalf("Expected done with completion time, got %+v", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	got, _ = ctrl.Find(1)
	if got.Status != task.StatusNotStarted || got.CompletedAt != nil {
		t.Errorf("Expected space to cycle done back to not started, got %+v", got)
	}

	press(m, runes("2"))
	got, _ = ctrl.Find(1)
	if got.Status != task.StatusInProgress {
		t.Errorf("Expected in progress, got %v", got.Status)
	}
}

func TestDuplicateSelectsCopy(t *testing.T) {
	m, ctrl := newModel(t, &fakeStore{}, sampleTasks())

	m = press(m, runes("c"))

	if len(ctrl.Tasks()) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(ctrl.Tasks()))
	}
	sel, _ := m.selected()
	if sel.Title != "Buy milk (Copy)" {
		t.Errorf("Expected cursor on the copy, got %q", sel.Title)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, ctrl := newModel(t, &fakeStore{}, sampleTasks())

	m = press(m, runes("d"))
	if m.mode != modeConfirm || m.status != `Delete "Buy milk"? y/n` {
		t.Fatalf("Expected delete prompt, got mode=%v status=%q", m.mode, m.status)
	}
	m = press(m, runes("n"))
	if len(ctrl.Tasks()) != 2 {
		t.Fatalf("Expected delete to be cancelled")
	}

	m = press(m, runes("d"), runes("y"))
	if len(ctrl.Tasks()) != 1 || m.status != "Deleted task" {
		t.Errorf("Expected task deleted, got %d tasks status=%q", len(ctrl.Tasks()), m.status)
	}
	if _, ok := ctrl.Find(1); ok {
		t.Errorf("Expected task 1 to be gone")
	}
}

func TestConfirmKeyAcceptsPrompt(t *testing.T) {
	m, ctrl := newModel(t, &fakeStore{}, sampleTasks())

	m = press(m, runes("d"), key(tea.KeyEnter))
	if m.mode != modeList || len(ctrl.Tasks()) != 1 {
		t.Errorf("Expected enter to confirm delete, got mode=%v tasks=%d", m.mode, len(ctrl.Tasks()))
	}

	m.cfg.Keys.Confirm = "o"
	m = press(m, runes("C"), runes("o"))
	if len(ctrl.Tasks()) != 0 || m.status != "All tasks cleared" {
		t.Errorf("Expected configured confirm key to clear, got %d tasks status=%q", len(ctrl.Tasks()), m.status)
	}
}

func TestClearAll(t *testing.T) {
	m, ctrl := newModel(t, &fakeStore{}, sampleTasks())

	m = press(m, runes("C"))
	if m.status != "Delete all 2 tasks? y/n" {
		t.Fatalf("Unexpected prompt %q", m.status)
	}
	m = press(m, runes("y"))
	if len(ctrl.Tasks()) != 0 || len(m.visible) != 0 {
		t.Errorf("Expected everything cleared")
	}
	if !strings.Contains(m.View(), "No tasks found.") {
		t.Errorf("Expected empty state in view")
	}
}

func TestFilterCycle(t *testing.T) {
	m, _ := newModel(t, &fakeStore{}, sampleTasks())

	m = press(m, runes("f"))
	if m.filter != task.FilterToday || len(m.visible) != 1 {
		t.Errorf("Expected today filter with 1 task, got %s with %d", m.filter, len(m.visible))
	}
	m = press(m, runes("f"), runes("f"), runes("f"))
	if m.filter != task.FilterInProgress || len(m.visible) != 1 || m.visible[0].ID != 2 {
		t.Errorf("Expected in-progress filter showing task 2, got %s %v", m.filter, m.visible)
	}
}

func TestSearch(t *testing.T) {
	m, _ := newModel(t, &fakeStore{}, sampleTasks())

	m = press(m, runes("/"), runes("health"))
	if len(m.visible) != 1 || m.visible[0].ID != 2 {
		t.Fatalf("Expected category match, got %v", m.visible)
	}
	m = press(m, key(tea.KeyEnter))
	if m.mode != modeList || m.query != "health" {
		t.Errorf("Expected search kept, got mode=%v query=%q", m.mode, m.query)
	}
	m = press(m, runes("/"), key(tea.KeyEsc))
	if m.query != "" || len(m.visible) != 2 {
		t.Errorf("Expected search cleared, got %q with %d", m.query, len(m.visible))
	}
}

func TestImportFlow(t *testing.T) {
	m, ctrl := newModel(t, &fakeStore{}, sampleTasks())
	path := filepath.Join(t.TempDir(), "in.json")
	data := `[{"id": 10, "date": "2026-10-21", "title": "Imported"}, {"id": 1, "date": "2026-10-22", "title": "Same id"}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	m = press(m, runes("i"), runes(path), key(tea.KeyEnter))
	if m.mode != modeConfirm || m.status != "Import 2 tasks? y/n" {
		t.Fatalf("Expected import confirmation, got mode=%v status=%q", m.mode, m.status)
	}
	m = press(m, runes("y"))
	if len(ctrl.Tasks()) != 4 || m.status != "Imported 2 tasks" {
		t.Errorf("Expected 4 tasks after import, got %d (%q)", len(ctrl.Tasks()), m.status)
	}
}

func TestImportRejectsNonArray(t *testing.T) {
	m, ctrl := newModel(t, &fakeStore{}, sampleTasks())
	path := filepath.Join(t.TempDir(), "in.json")
	os.WriteFile(path, []byte(`{"tasks": []}`), 0o644)

	m = press(m, runes("i"), runes(path), key(tea.KeyEnter))
	if m.mode != modeList || !strings.HasPrefix(m.status, "Import failed") {
		t.Errorf("Expected import failure, got mode=%v status=%q", m.mode, m.status)
	}
	if len(ctrl.Tasks()) != 2 {
		t.Errorf("Expected collection untouched")
	}
}

func TestExport(t *testing.T) {
	m, _ := newModel(t, &fakeStore{}, sampleTasks())

	m = press(m, runes("x"))
	path := filepath.Join(m.cfg.ExportDir, "mytasks-2026-10-18.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected export file: %v (status %q)", err, m.status)
	}
	tasks, err := task.Decode(data)
	if err != nil || len(tasks) != 2 {
		t.Errorf("Expected 2 exported tasks, got %d (%v)", len(tasks), err)
	}
}

func TestDarkModeTogglePersists(t *testing.T) {
	store := &fakeStore{}
	m, _ := newModel(t, store, nil)

	m = press(m, runes("D"))
	if !store.dark || !m.theme.Dark {
		t.Errorf("Expected dark mode on and persisted")
	}
	m = press(m, runes("D"))
	if store.dark || m.theme.Dark {
		t.Errorf("Expected dark mode off")
	}
}

func TestSaveFailureLeavesStateAlone(t *testing.T) {
	store := &fakeStore{err: os.ErrPermission}
	m, ctrl := newModel(t, store, sampleTasks())

	m = press(m, runes("3"))
	if !strings.HasPrefix(m.status, "save failed") {
		t.Errorf("Expected save failure in status, got %q", m.status)
	}
	got, _ := ctrl.Find(1)
	if got.Status != task.StatusNotStarted {
		t.Errorf("Expected status unchanged, got %v", got.Status)
	}
}

func TestBackupMessageWritesFile(t *testing.T) {
	m, _ := newModel(t, &fakeStore{}, sampleTasks())

	m = press(m, backupMsg(time.Date(2026, 10, 18, 13, 0, 0, 0, time.Local)))
	if _, err := os.Stat(filepath.Join(m.cfg.Backup.Dir, "mytasks-backup-20261018-130000.json")); err != nil {
		t.Errorf("Expected backup file: %v", err)
	}
}

func TestDetailPanel(t *testing.T) {
	m, _ := newModel(t, &fakeStore{}, sampleTasks())

	m = press(m, runes("j"), key(tea.KeyEnter))
	out := m.View()
	if !strings.Contains(out, "Category  : health") || !strings.Contains(out, "Status    : In Progress") {
		t.Errorf("Expected detail panel for task 2, got:\n%s", out)
	}
}
