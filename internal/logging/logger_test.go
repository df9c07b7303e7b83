package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger_WritesJSONLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	log, err := NewLogger(dir, "debug")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	log.Info("probe_ok")
	_ = log.Sync()

	f, err := os.Open(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		t.Fatalf("log file is empty")
	}
	var entry map[string]any
	if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if entry["msg"] != "probe_ok" {
		t.Fatalf("want msg=probe_ok, got %v", entry["msg"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("want ts key, got %v", entry)
	}
}

func TestNewLogger_EmptyDirIsNop(t *testing.T) {
	log, err := NewLogger("", "info")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.Info("dropped") // must not panic
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	dir := t.TempDir()
	log, err := NewLogger(dir, "shouting")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug should be disabled at the fallback level")
	}
}
