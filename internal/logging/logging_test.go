package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HendryAvila/emotionwell/internal/config"
)

func captureConsole(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := console
	console = &buf
	t.Cleanup(func() { console = orig })
	return &buf
}

func TestNew_WritesConsoleAndFile(t *testing.T) {
	buf := captureConsole(t)
	file := filepath.Join(t.TempDir(), "logs", "test.log")

	log, cleanup, err := New(config.LogConfig{Level: "info", File: file, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Infow("round completed", "journey", "abc", "score", 3.2)
	log.Debugw("hidden at info level")
	cleanup()

	if !strings.Contains(buf.String(), "round completed") {
		t.Errorf("console output missing entry: %q", buf.String())
	}
	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug entry should be filtered at info level")
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	var entry map[string]any
	line := strings.TrimSpace(strings.Split(string(data), "\n")[0])
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("file entry is not JSON: %v (%q)", err, line)
	}
	if entry["msg"] != "round completed" || entry["journey"] != "abc" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNew_NoFile(t *testing.T) {
	buf := captureConsole(t)
	log, cleanup, err := New(config.LogConfig{Level: "debug"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debugw("visible")
	cleanup()
	if !strings.Contains(buf.String(), "visible") {
		t.Error("debug entry should be written at debug level")
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, _, err := New(config.LogConfig{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
