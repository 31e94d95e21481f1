package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "first_steps"+Ext)

	w, err := Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	records := []Record{
		{Type: TypeHeader, LevelID: "first_steps", LevelName: "First Steps", StartedAt: "2026-01-02T03:04:05Z"},
		{Type: TypeTurn, Tick: 1, Turn: 0, Slot: 0, Command: "move:east", Hash: FormatHash(42)},
		{Type: TypeRestart, Tick: 2},
		{Type: TypeTurn, Tick: 3, Turn: 1, Slot: 1, Command: "wait", Hash: FormatHash(1<<63 + 7)},
		{Type: TypeOutcome, Tick: 3, Turn: 1, Outcome: "solved", Rollovers: 1, GhostsUsed: 1},
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("got %d records, want %d", len(got), len(records))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], records[i])
		}
	}
}

func TestWriteAfterClose(t *testing.T) {
	w, err := Create(filepath.Join(t.TempDir(), "x"+Ext))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
	if err := w.Write(Record{Type: TypeRestart}); err == nil {
		t.Error("Write after Close should fail")
	}
}

func TestReadRejectsPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain"+Ext)
	if err := os.WriteFile(path, []byte(`{"type":"header"}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Error("expected an error for an uncompressed file")
	}
}

func TestReadMissing(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "missing"+Ext)); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestFormatHash(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0000000000000000"},
		{255, "00000000000000ff"},
		{^uint64(0), "ffffffffffffffff"},
	}
	for _, tt := range tests {
		if got := FormatHash(tt.in); got != tt.want {
			t.Errorf("FormatHash(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileNameAndList(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	name := FileName("relay", at)
	if name != "relay-20260304-050607"+Ext {
		t.Errorf("FileName = %q", name)
	}

	for _, n := range []string{name, FileName("relay", at.Add(time.Minute)), "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"+Ext), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := List(dir)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("List returned %d files, want 2: %v", len(files), files)
	}
	for _, f := range files {
		if !strings.HasSuffix(f, Ext) {
			t.Errorf("unexpected file %q", f)
		}
	}
}
