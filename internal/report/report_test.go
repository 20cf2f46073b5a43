package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mytasks/internal/task"
	"mytasks/internal/view"
)

func sampleData() Data {
	today := task.Date("2026-10-18")
	tasks := []task.Task{
		{ID: 1, Date: today, Title: "Standup", Note: "bring notes\nand coffee", Priority: task.PriorityHigh, Category: task.CategoryWork},
		{ID: 2, Date: "2026-10-10", EndDate: "2026-10-12", Title: "Pay rent €", Category: task.CategoryFinance},
	}
	return Data{
		Tasks:       tasks,
		Stats:       view.ComputeStats(tasks, today),
		Today:       today,
		Filter:      task.FilterAll,
		Query:       "",
		GeneratedAt: time.Date(2026, 10, 18, 9, 0, 0, 0, time.Local),
	}
}

func TestWriteProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := NewGenerator("").Write(&buf, sampleData()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("Expected PDF header, got %q", buf.Bytes()[:min(8, buf.Len())])
	}
}

func TestWriteEmptyList(t *testing.T) {
	data := sampleData()
	data.Tasks = nil
	data.Filter = task.FilterOverdue
	data.Query = "nothing"
	var buf bytes.Buffer
	if err := NewGenerator("").Write(&buf, data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Expected output for empty list")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "tasks.pdf")
	if err := NewGenerator("").WriteFile(path, sampleData()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected non-empty file")
	}
}
