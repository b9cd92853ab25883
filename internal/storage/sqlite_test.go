package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
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

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.samegame/scores.db")
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".samegame", "scores.db")); err != nil {
		t.Errorf("Database was not created under HOME: %v", err)
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func saveScore(t *testing.T, store *Store, stageID string, score int) int64 {
	t.Helper()
	id, err := store.SaveResult(StageResult{StageID: stageID, Score: score})
	if err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
	return id
}

func TestStoreTopScores(t *testing.T) {
	store := openTestStore(t)

	saveScore(t, store, "01-intro", 100)
	saveScore(t, store, "01-intro", 50)
	saveScore(t, store, "01-intro", 200)
	saveScore(t, store, "04-anchors", 500)

	scores, err := store.TopScores("01-intro", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	// Sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Unexpected order: %d, %d, %d", scores[0].Score, scores[1].Score, scores[2].Score)
	}
	for _, s := range scores {
		if s.StageID != "01-intro" {
			t.Errorf("Score from wrong stage: %+v", s)
		}
	}

	anchorScores, err := store.TopScores("04-anchors", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(anchorScores) != 1 || anchorScores[0].Score != 500 {
		t.Errorf("Unexpected anchor scores: %+v", anchorScores)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 10 {
		saveScore(t, store, "test", (i+1)*100)
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	if scores[0].Score != 1000 || scores[2].Score != 800 {
		t.Errorf("Unexpected top three: %+v", scores)
	}
}

func TestStoreTopScoresTiesKeepRecordingOrder(t *testing.T) {
	store := openTestStore(t)

	first := saveScore(t, store, "tie", 60)
	second := saveScore(t, store, "tie", 60)

	scores, err := store.TopScores("tie", 0)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 2 || scores[0].ID != first || scores[1].ID != second {
		t.Errorf("Expected ids %d, %d in order, got %+v", first, second, scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("01-intro")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected 0 for empty stage, got %d", high)
	}

	saveScore(t, store, "01-intro", 100)
	saveScore(t, store, "01-intro", 300)
	saveScore(t, store, "01-intro", 200)

	high, err = store.HighScore("01-intro")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected 300, got %d", high)
	}
}

func TestStoreClearResults(t *testing.T) {
	store := openTestStore(t)

	saveScore(t, store, "01-intro", 100)
	saveScore(t, store, "01-intro", 200)
	saveScore(t, store, "04-anchors", 300)

	n, err := store.ClearResults("01-intro")
	if err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 results removed, got %d", n)
	}

	introScores, _ := store.TopScores("01-intro", 10)
	if len(introScores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(introScores))
	}
	anchorScores, _ := store.TopScores("04-anchors", 10)
	if len(anchorScores) != 1 {
		t.Errorf("Other stage affected by clear: %d scores", len(anchorScores))
	}
}

func TestStoreUpdateResult(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveResult(StageResult{StageID: "01-intro", Score: 4, Taps: 1, Remaining: 2})
	if err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}

	err = store.UpdateResult(StageResult{ID: id, StageID: "01-intro", Score: 8, Taps: 2, ItemsUsed: 1, Cleared: true})
	if err != nil {
		t.Fatalf("UpdateResult() failed: %v", err)
	}

	results, err := store.StageResults("01-intro")
	if err != nil {
		t.Fatalf("StageResults() failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected the row to be updated in place, got %d rows", len(results))
	}
	got := results[0]
	if got.ID != id || got.Score != 8 || got.Taps != 2 || got.ItemsUsed != 1 || !got.Cleared || got.Remaining != 0 {
		t.Errorf("Unexpected updated result: %+v", got)
	}

	if err := store.UpdateResult(StageResult{ID: id + 100, Score: 1}); err == nil {
		t.Error("Expected an error updating a missing result")
	}
}

func TestStoreSaveResult(t *testing.T) {
	store := openTestStore(t)

	first := StageResult{StageID: "02-thaw", Score: 120, Taps: 9, ItemsUsed: 1, Cleared: false, Remaining: 7}
	second := StageResult{StageID: "02-thaw", Score: 340, Taps: 14, ItemsUsed: 0, Cleared: true, Remaining: 0}
	other := StageResult{StageID: "random", Score: 50, Taps: 3}

	for _, r := range []StageResult{first, second, other} {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	results, err := store.StageResults("02-thaw")
	if err != nil {
		t.Fatalf("StageResults() failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	// Newest first
	got := results[0]
	if got.Score != 340 || got.Taps != 14 || !got.Cleared || got.Remaining != 0 {
		t.Errorf("Unexpected newest result: %+v", got)
	}
	if results[1].Cleared || results[1].ItemsUsed != 1 || results[1].Remaining != 7 {
		t.Errorf("Unexpected older result: %+v", results[1])
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt was not parsed")
	}

	high, err := store.HighScore("02-thaw")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 340 {
		t.Errorf("Expected high score 340, got %d", high)
	}

	recent, err := store.RecentResults(2)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].StageID != "random" {
		t.Errorf("Unexpected recent results: %+v", recent)
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.Stats("03-counters")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if empty.Runs != 0 || empty.HighScore != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", empty)
	}

	store.SaveResult(StageResult{StageID: "03-counters", Score: 100, Cleared: true})
	store.SaveResult(StageResult{StageID: "03-counters", Score: 300})
	store.SaveResult(StageResult{StageID: "05-gauntlet", Score: 80})

	stats, err := store.Stats("03-counters")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 2 || stats.Clears != 1 || stats.HighScore != 300 || stats.AvgScore != 200 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	all, err := store.AllStats()
	if err != nil {
		t.Fatalf("AllStats() failed: %v", err)
	}
	if len(all) != 2 || all["05-gauntlet"].HighScore != 80 {
		t.Errorf("Unexpected all stats: %+v", all)
	}

	if _, err := store.ClearResults("03-counters"); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}
	results, _ := store.StageResults("03-counters")
	if len(results) != 0 {
		t.Errorf("Expected results cleared, got %d", len(results))
	}
}

func TestStoreReopenKeepsDataAndSchemaVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveResult(StageResult{StageID: "01-intro", Score: 64, Taps: 3}); err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	var version int
	if err := store.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("reading user_version: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("user_version = %d, want %d", version, len(migrations))
	}

	results, err := store.StageResults("01-intro")
	if err != nil {
		t.Fatalf("StageResults() failed: %v", err)
	}
	if len(results) != 1 || results[0].Score != 64 {
		t.Errorf("unexpected results after reopen: %+v", results)
	}
}
