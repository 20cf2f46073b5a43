package storage

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"mytasks/internal/logger"
	"mytasks/internal/task"
)

const (
	KeyTasks    = "tasks"
	KeyDarkMode = "darkMode"
)

// Store is a small local key-value store. Values are text; the task
// collection lives under KeyTasks as JSON.
type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// Get returns ok=false when the key has never been set.
func (s *Store) Get(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?;`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, key, value)
	return err
}

// LoadTasks treats a missing or unparseable value as an empty collection.
func (s *Store) LoadTasks() ([]task.Task, error) {
	raw, ok, err := s.Get(KeyTasks)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []task.Task{}, nil
	}
	tasks, err := task.Decode([]byte(raw))
	if err != nil {
		logger.Error(context.Background(), err, "stored tasks unreadable, starting empty")
		return []task.Task{}, nil
	}
	return tasks, nil
}

func (s *Store) SaveTasks(tasks []task.Task) error {
	data, err := task.Encode(tasks)
	if err != nil {
		return err
	}
	return s.Set(KeyTasks, string(data))
}

func (s *Store) DarkMode() bool {
	v, ok, err := s.Get(KeyDarkMode)
	if err != nil || !ok {
		return false
	}
	dark, _ := strconv.ParseBool(v)
	return dark
}

func (s *Store) SetDarkMode(dark bool) error {
	return s.Set(KeyDarkMode, strconv.FormatBool(dark))
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
