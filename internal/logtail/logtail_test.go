package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "atlas.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		msg := fmt.Sprintf("event %d", i)
		fmt.Fprintf(&content, `{"level":"info","ts":"2026-01-02T03:04:05Z","msg":%q,"seq":%d}`+"\n", msg, i)
		expectedAll = append(expectedAll, msg)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"read all (0)", 0, expectedAll},
		{"read all (negative)", -1, expectedAll},
		{"read partial (5)", 5, expectedAll[5:]},
		{"read exactly all (10)", 10, expectedAll},
		{"read more than exists (20)", 20, expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("Read() returned %d entries, want %d", len(got), len(tt.expected))
			}
			for i, entry := range got {
				if entry.Message != tt.expected[i] {
					t.Errorf("entry %d message = %q, want %q", i, entry.Message, tt.expected[i])
				}
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v, want nil", err)
	}
	if len(got) != 0 {
		t.Fatalf("Read() = %v, want empty", got)
	}
}

func TestParse(t *testing.T) {
	entry := Parse(`{"level":"warn","ts":"2026-01-02T03:04:05Z","msg":"search failed","query":"fra","seq":3,"session":"abc"}`)
	if entry.Level != "warn" {
		t.Fatalf("Level = %q, want warn", entry.Level)
	}
	if entry.Message != "search failed" {
		t.Fatalf("Message = %q, want search failed", entry.Message)
	}
	if !entry.Time.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("Time = %v, want 2026-01-02T03:04:05Z", entry.Time)
	}
	if got := entry.FieldString(); got != "query=fra seq=3" {
		t.Fatalf("FieldString = %q, want %q", got, "query=fra seq=3")
	}
}

func TestParse_PlainTextLine(t *testing.T) {
	entry := Parse("not json at all")
	if entry.Level != "info" || entry.Message != "not json at all" {
		t.Fatalf("Parse plain = %#v, want info entry with raw message", entry)
	}
	if entry.FieldString() != "" {
		t.Fatalf("FieldString = %q, want empty", entry.FieldString())
	}
}
