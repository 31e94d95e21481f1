package timeloop

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop/levels"
	"github.com/vovakirdan/tui-timeloop/internal/journal"
	"github.com/vovakirdan/tui-timeloop/internal/storage"
)

// JournalRecorder writes one journal file per level attempt series.
// A file starts when a level starts and ends with its outcome.
type JournalRecorder struct {
	dir    string
	logger *log.Logger
	now    func() time.Time

	mu   sync.Mutex
	w    *journal.Writer
	path string
}

// NewJournalRecorder returns a recorder writing into dir.
func NewJournalRecorder(dir string, logger *log.Logger) *JournalRecorder {
	if logger == nil {
		logger = discardLogger()
	}
	return &JournalRecorder{dir: dir, logger: logger, now: time.Now}
}

// Path returns the file currently being written, or the last one closed.
func (r *JournalRecorder) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

func (r *JournalRecorder) LevelStarted(lvl *levels.Level) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closeLocked()

	started := r.now()
	path := filepath.Join(r.dir, journal.FileName(lvl.ID, started))
	w, err := journal.Create(path)
	if err != nil {
		r.logger.Warn("journal disabled for level", "level", lvl.ID, "error", err)
		return
	}
	r.w = w
	r.path = path
	r.writeLocked(journal.Record{
		Type:      journal.TypeHeader,
		LevelID:   lvl.ID,
		LevelName: lvl.Name,
		StartedAt: started.UTC().Format(time.RFC3339),
	})
	r.logger.Debug("journal started", "path", path)
}

func (r *JournalRecorder) CommandIssued(rec TurnRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.writeLocked(journal.Record{
		Type:    journal.TypeTurn,
		Tick:    rec.Tick,
		Turn:    rec.Turn,
		Slot:    rec.Slot,
		Command: rec.Command.String(),
		Hash:    journal.FormatHash(rec.Hash),
	})
}

func (r *JournalRecorder) LevelRestarted(tick uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.writeLocked(journal.Record{Type: journal.TypeRestart, Tick: tick})
}

func (r *JournalRecorder) LevelEnded(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.writeLocked(journal.Record{
		Type:       journal.TypeOutcome,
		Tick:       res.Snapshot.Tick,
		Turn:       res.Snapshot.Turn,
		Outcome:    res.Outcome.String(),
		Rollovers:  res.Rollovers,
		GhostsUsed: res.Ghosts,
	})
	r.closeLocked()
}

// Close finishes the current file.
func (r *JournalRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closeLocked()
}

func (r *JournalRecorder) writeLocked(rec journal.Record) {
	if r.w == nil {
		return
	}
	if err := r.w.Write(rec); err != nil {
		r.logger.Warn("journal write failed, closing", "path", r.path, "error", err)
		r.closeLocked()
	}
}

func (r *JournalRecorder) closeLocked() error {
	if r.w == nil {
		return nil
	}
	err := r.w.Close()
	r.w = nil
	if err != nil {
		r.logger.Warn("journal close failed", "path", r.path, "error", err)
	}
	return err
}

// ResultRecorder saves every finished attempt to the results store.
type ResultRecorder struct {
	store  *storage.Store
	logger *log.Logger
}

// NewResultRecorder returns a recorder backed by store.
func NewResultRecorder(store *storage.Store, logger *log.Logger) *ResultRecorder {
	if logger == nil {
		logger = discardLogger()
	}
	return &ResultRecorder{store: store, logger: logger}
}

func (r *ResultRecorder) LevelStarted(*levels.Level) {}
func (r *ResultRecorder) CommandIssued(TurnRecord)   {}
func (r *ResultRecorder) LevelRestarted(uint64)      {}

func (r *ResultRecorder) LevelEnded(res Result) {
	if r.store == nil {
		return
	}
	_, err := r.store.SaveResult(storage.Result{
		LevelID:    res.LevelID,
		LevelName:  res.LevelName,
		Outcome:    res.Outcome.String(),
		Turns:      res.Moves,
		GhostsUsed: res.Ghosts,
		Rollovers:  res.Rollovers,
	})
	if err != nil {
		r.logger.Warn("could not save result", "level", res.LevelID, "error", err)
	}
}
