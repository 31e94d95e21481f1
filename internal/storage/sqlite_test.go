package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreBestResultsOrdering(t *testing.T) {
	store := openTestStore(t)

	runs := []Result{
		{LevelID: "relay", LevelName: "Relay", Outcome: OutcomeSolved, Turns: 20, GhostsUsed: 2},
		{LevelID: "relay", LevelName: "Relay", Outcome: OutcomeSolved, Turns: 16, GhostsUsed: 1},
		{LevelID: "relay", LevelName: "Relay", Outcome: OutcomeSolved, Turns: 12, GhostsUsed: 1, Rollovers: 1},
		{LevelID: "relay", LevelName: "Relay", Outcome: OutcomeOutOfGhosts, Turns: 3, GhostsUsed: 0},
		{LevelID: "first_steps", LevelName: "First Steps", Outcome: OutcomeSolved, Turns: 7},
	}
	for _, r := range runs {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	best, err := store.BestResults("relay", 10)
	if err != nil {
		t.Fatalf("BestResults() failed: %v", err)
	}
	if len(best) != 3 {
		t.Fatalf("Expected 3 solved runs, got %d", len(best))
	}

	want := [][2]int{{1, 12}, {1, 16}, {2, 20}}
	for i, w := range want {
		if best[i].GhostsUsed != w[0] || best[i].Turns != w[1] {
			t.Errorf("best[%d] = ghosts %d turns %d, want %v", i, best[i].GhostsUsed, best[i].Turns, w)
		}
		if best[i].LevelName != "Relay" {
			t.Errorf("best[%d].LevelName = %q", i, best[i].LevelName)
		}
	}

	if best[0].Rollovers != 1 {
		t.Errorf("best[0].Rollovers = %d, want 1", best[0].Rollovers)
	}

	limited, err := store.BestResults("relay", 1)
	if err != nil {
		t.Fatalf("BestResults() failed: %v", err)
	}
	if len(limited) != 1 || limited[0].Turns != 12 {
		t.Errorf("Limit 1 returned %v", limited)
	}
}

func TestStoreSaveResultRejectsBadInput(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		name string
		r    Result
	}{
		{"no level", Result{Outcome: OutcomeSolved}},
		{"unknown outcome", Result{LevelID: "x", Outcome: "playing"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.SaveResult(tt.r); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestStoreLevelStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.LevelStats("relay")
	if err != nil {
		t.Fatalf("LevelStats() failed: %v", err)
	}
	if empty.Attempts != 0 || empty.BestGhosts != -1 || empty.BestTurns != -1 {
		t.Errorf("Unexpected stats for unplayed level: %+v", empty)
	}

	store.SaveResult(Result{LevelID: "relay", Outcome: OutcomeOutOfGhosts, Turns: 9, GhostsUsed: 1})
	store.SaveResult(Result{LevelID: "relay", Outcome: OutcomeSolved, Turns: 16, GhostsUsed: 1})
	store.SaveResult(Result{LevelID: "relay", Outcome: OutcomeSolved, Turns: 14, GhostsUsed: 1})

	stats, err := store.LevelStats("relay")
	if err != nil {
		t.Fatalf("LevelStats() failed: %v", err)
	}
	if stats.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", stats.Attempts)
	}
	if stats.Solved != 2 {
		t.Errorf("Solved = %d, want 2", stats.Solved)
	}
	if stats.BestGhosts != 1 || stats.BestTurns != 14 {
		t.Errorf("Best = %d/%d, want 1/14", stats.BestGhosts, stats.BestTurns)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}

func TestStoreAllLevelStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveResult(Result{LevelID: "relay", Outcome: OutcomeSolved, Turns: 16, GhostsUsed: 1})
	store.SaveResult(Result{LevelID: "two_keys", Outcome: OutcomeOutOfGhosts, Turns: 4})

	all, err := store.AllLevelStats()
	if err != nil {
		t.Fatalf("AllLevelStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 levels, got %d", len(all))
	}
	if all["two_keys"].Solved != 0 || all["two_keys"].BestGhosts != -1 {
		t.Errorf("two_keys stats = %+v", all["two_keys"])
	}
	if all["relay"].Solved != 1 {
		t.Errorf("relay stats = %+v", all["relay"])
	}
}

func TestStoreRecentResults(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveResult(Result{LevelID: "relay", Outcome: OutcomeSolved, Turns: 10 + i})
	}

	recent, err := store.RecentResults(3)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(recent))
	}
	if recent[0].Turns != 14 {
		t.Errorf("Newest result first: got turns %d", recent[0].Turns)
	}
}

func TestStoreClearResults(t *testing.T) {
	store := openTestStore(t)

	store.SaveResult(Result{LevelID: "relay", Outcome: OutcomeSolved, Turns: 16})
	store.SaveResult(Result{LevelID: "first_steps", Outcome: OutcomeSolved, Turns: 7})

	if err := store.ClearResults("relay"); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}

	relay, _ := store.BestResults("relay", 10)
	if len(relay) != 0 {
		t.Errorf("Expected 0 relay results after clear, got %d", len(relay))
	}

	first, _ := store.BestResults("first_steps", 10)
	if len(first) != 1 {
		t.Errorf("first_steps results should not be affected by clearing relay")
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
