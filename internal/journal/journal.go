// Package journal writes and reads run journals: zstd-compressed JSONL files
// with one record per live command, used to replay and verify a level run.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Ext is the file extension of journal files.
const Ext = ".jsonl.zst"

// RecordType tags each journal line.
type RecordType string

const (
	TypeHeader  RecordType = "header"
	TypeTurn    RecordType = "turn"
	TypeRestart RecordType = "restart"
	TypeOutcome RecordType = "outcome"
)

// Record is one journal line. Fields that do not apply to the type are
// left empty.
type Record struct {
	Type RecordType `json:"type"`

	// header
	LevelID   string `json:"level_id,omitempty"`
	LevelName string `json:"level_name,omitempty"`
	StartedAt string `json:"started_at,omitempty"`

	// turn
	Tick    uint64 `json:"tick,omitempty"`
	Turn    int    `json:"turn,omitempty"`
	Slot    int    `json:"slot,omitempty"`
	Command string `json:"command,omitempty"`
	Hash    string `json:"hash,omitempty"`

	// outcome
	Outcome    string `json:"outcome,omitempty"`
	Rollovers  int    `json:"rollovers,omitempty"`
	GhostsUsed int    `json:"ghosts_used,omitempty"`
}

// FormatHash renders a state hash the way journals store it.
func FormatHash(h uint64) string {
	return fmt.Sprintf("%016x", h)
}

// FileName returns the journal file name for a run started at t.
func FileName(levelID string, t time.Time) string {
	return fmt.Sprintf("%s-%s%s", levelID, t.UTC().Format("20060102-150405"), Ext)
}

// Writer appends records to a compressed journal file.
// It is safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Create creates path (and its directory) and returns a writer for it.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal: creating directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("journal: opening %s: %w", path, err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("journal: creating encoder: %w", err)
	}
	return &Writer{
		f:   f,
		enc: enc,
		w:   bufio.NewWriterSize(enc, 32*1024),
	}, nil
}

// Write appends one record and flushes it through the encoder.
func (w *Writer) Write(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return errors.New("journal: write on closed writer")
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("journal: encoding record: %w", err)
	}
	if _, err := w.w.Write(b); err != nil {
		return fmt.Errorf("journal: writing record: %w", err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("journal: writing record: %w", err)
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("journal: flushing record: %w", err)
	}
	return nil
}

// Close flushes and closes the file. Closing twice is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	if w.w != nil {
		err = w.w.Flush()
		w.w = nil
	}
	if w.enc != nil {
		if cerr := w.enc.Close(); err == nil {
			err = cerr
		}
		w.enc = nil
	}
	if w.f != nil {
		if cerr := w.f.Close(); err == nil {
			err = cerr
		}
		w.f = nil
	}
	if err != nil {
		return fmt.Errorf("journal: closing: %w", err)
	}
	return nil
}

// Read decodes every record in the journal at path.
func Read(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("journal: opening %s: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads zstd-compressed JSONL records from r.
func Decode(r io.Reader) ([]Record, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("journal: creating decoder: %w", err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	out := make([]Record, 0)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("journal: line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("journal: reading: %w", err)
	}
	return out, nil
}

// List returns the journal files in dir, oldest name first.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("journal: listing %s: %w", dir, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}
