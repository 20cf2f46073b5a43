package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Encode renders the collection as indented JSON, the export file format.
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	return json.MarshalIndent(tasks, "", "  ")
}

// Decode accepts any top-level JSON array. Elements are decoded
// field by field: a malformed field is left at its zero value and the
// rest of the task is kept.
func Decode(data []byte) ([]Task, error) {
	var raw []json.RawMessage
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: failed to parse JSON", ErrImportFormat)
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array of tasks", ErrImportFormat)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: expected a JSON array of tasks", ErrImportFormat)
	}
	tasks := make([]Task, 0, len(raw))
	for _, r := range raw {
		tasks = append(tasks, decodeTask(r))
	}
	return tasks, nil
}

func decodeTask(r json.RawMessage) Task {
	var t Task
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(r, &fields); err != nil {
		return t
	}
	var completed time.Time
	targets := map[string]any{
		"id":          &t.ID,
		"date":        &t.Date,
		"enddate":     &t.EndDate,
		"title":       &t.Title,
		"note":        &t.Note,
		"priority":    &t.Priority,
		"category":    &t.Category,
		"status":      &t.Status,
		"createdat":   &t.CreatedAt,
		"completedat": &completed,
	}
	for k, v := range fields {
		if dst, ok := targets[strings.ToLower(k)]; ok {
			_ = json.Unmarshal(v, dst)
		}
	}
	if !completed.IsZero() {
		t.CompletedAt = &completed
	}
	return t
}

func ExportFileName(now time.Time) string {
	return fmt.Sprintf("mytasks-%s.json", DateOf(now))
}
