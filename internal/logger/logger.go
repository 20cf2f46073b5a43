package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

var level atomic.Int32

func init() {
	level.Store(int32(LevelInfo))
}

func SetLevel(l Level) {
	level.Store(int32(l))
}

func ParseLevel(v string) Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return LevelDebug
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// OpenFile points the standard logger at path (appending) and returns
// the file so the caller can close it on exit.
func OpenFile(path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return f, nil
}

func Debug(_ context.Context, msg string, kv ...any) {
	if Level(level.Load()) > LevelDebug {
		return
	}
	log.Printf("[DEBUG] %s%s", msg, fields(kv))
}

func Info(_ context.Context, msg string, kv ...any) {
	if Level(level.Load()) > LevelInfo {
		return
	}
	log.Printf("[INFO] %s%s", msg, fields(kv))
}

func Error(_ context.Context, err error, msg string, kv ...any) {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	log.Printf("[ERROR] %s%s", msg, fields(kv))
}

func fields(kv []any) string {
	if len(kv) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(kv); i += 2 {
		b.WriteString(" ")
		if i+1 < len(kv) {
			fmt.Fprintf(&b, "%v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(&b, "%v", kv[i])
		}
	}
	return b.String()
}
