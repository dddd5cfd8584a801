package logging

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "quizdeck.log")
	if err := Init(path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer func() {
		_ = Close()
		log.SetOutput(os.Stderr)
	}()

	LogEvent("board generated with %d categories", 5)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "board generated with 5 categories") {
		t.Fatalf("log file missing event, got: %s", data)
	}
}

func TestLogModelCallFormatting(t *testing.T) {
	msg := formatPayload(map[string]int{"attempt": 2})
	if msg != `{"attempt":2}` {
		t.Fatalf("unexpected payload formatting: %s", msg)
	}
	if formatPayload(nil) != "null" {
		t.Fatalf("nil payload should format as null")
	}
	if formatPayload("  ") != `""` {
		t.Fatalf("blank payload should format as empty string literal")
	}
}
