package logger

import "testing"

func TestNewTestLoggerRecords(t *testing.T) {
	log, recorded := NewTestLogger()
	log.Infow("cleaned", "rows", 100)
	log.Debugw("ignored below the observer level")

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("recorded %d entries, want 1", len(entries))
	}
	if entries[0].Message != "cleaned" {
		t.Fatalf("message = %q, want cleaned", entries[0].Message)
	}
	fields := entries[0].ContextMap()
	if fields["rows"] != int64(100) {
		t.Fatalf("rows field = %v", fields["rows"])
	}
}

func TestProvide(t *testing.T) {
	log := Provide()
	if log == nil {
		t.Fatal("nil logger")
	}
	log.Sync()
}
