package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/samegame/internal/games/samegame/core"
	"github.com/vovakirdan/samegame/internal/games/samegame/stages"
	"github.com/vovakirdan/samegame/internal/storage"
)

func updateMenu(t *testing.T, m MenuModel, msgs ...tea.Msg) MenuModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(MenuModel)
		if !ok {
			t.Fatalf("Update returned %T, want MenuModel", next)
		}
	}
	return m
}

func TestMenuSelectsStage(t *testing.T) {
	list := []stages.Stage{
		layoutStage("a", nil, "R R"),
		layoutStage("b", nil, "G G"),
	}
	random := stages.Random(4, 3, []core.Color{core.ColorRed, core.ColorBlue}, 0)

	m := NewMenuModel(list, random, nil)
	if len(m.items) != 3 {
		t.Fatalf("expected 3 menu items, got %d", len(m.items))
	}

	m = updateMenu(t, m, keyDown, keyDown, keyDown, keyEnter)
	sel := m.Selected()
	if sel == nil {
		t.Fatal("expected a selection")
	}
	if sel.Stage.ID != stages.RandomStageID {
		t.Errorf("cursor should stop at the last item, got %s", sel.Stage.ID)
	}
}

func TestMenuHidesRandomWithoutID(t *testing.T) {
	m := NewMenuModel([]stages.Stage{layoutStage("a", nil, "R R")}, stages.Stage{}, nil)
	if len(m.items) != 1 {
		t.Errorf("expected 1 menu item, got %d", len(m.items))
	}
}

func TestMenuActions(t *testing.T) {
	list := []stages.Stage{layoutStage("a", nil, "R R")}

	m := updateMenu(t, NewMenuModel(list, stages.Stage{}, nil), tea.KeyMsg{Type: tea.KeyTab})
	if !m.WantsScoreboard() {
		t.Error("tab should open the scoreboard")
	}

	m = updateMenu(t, NewMenuModel(list, stages.Stage{}, nil), keyRunes("q"))
	if !m.IsQuitting() {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("quitting menu should render nothing")
	}
}

func TestMenuShowsBestScores(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if _, err := store.SaveResult(storage.StageResult{StageID: "a", Score: 42, Cleared: true}); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	m := NewMenuModel([]stages.Stage{layoutStage("a", nil, "R R"), layoutStage("b", nil, "G G")}, stages.Stage{}, store)
	if m.items[0].HighScore != 42 || !m.items[0].Cleared {
		t.Errorf("unexpected first item: %+v", m.items[0])
	}
	if m.items[1].HighScore != 0 || m.items[1].Cleared {
		t.Errorf("unexpected second item: %+v", m.items[1])
	}

	m = updateMenu(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if !strings.Contains(m.View(), "42") {
		t.Error("menu should show the best score")
	}
}

func TestScoreboardEntries(t *testing.T) {
	entries := ScoreboardEntries([]stages.Stage{layoutStage("a", nil, "R R")})
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "a" || entries[1].ID != stages.RandomStageID {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestScoreboardOrdersResults(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	for _, score := range []int{10, 30, 20} {
		if _, err := store.SaveResult(storage.StageResult{StageID: "a", Score: score}); err != nil {
			t.Fatalf("SaveResult failed: %v", err)
		}
	}

	m := NewScoreboardModel(store, ScoreboardEntries(nil), 100, 30)
	if len(m.results) != 0 {
		t.Errorf("random entry should start empty, got %d results", len(m.results))
	}

	m = NewScoreboardModel(store, []ScoreboardEntry{{ID: "a", Name: "A"}}, 100, 30)
	if len(m.results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(m.results))
	}
	for i, want := range []int{30, 20, 10} {
		if m.results[i].Score != want {
			t.Errorf("result %d score = %d, want %d", i, m.results[i].Score, want)
		}
	}
}

func TestScoreboardSwitchesStage(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if _, err := store.SaveResult(storage.StageResult{StageID: "b", Score: 77, Cleared: true}); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	entries := []ScoreboardEntry{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	m := NewScoreboardModel(store, entries, 100, 30)
	if len(m.results) != 0 {
		t.Fatalf("stage a should have no results, got %d", len(m.results))
	}

	next, _ := m.Update(keyRight)
	m = next.(ScoreboardModel)
	if m.cursor != 1 || len(m.results) != 1 {
		t.Fatalf("cursor %d with %d results, want stage b with 1 result", m.cursor, len(m.results))
	}
	if m.stats == nil || m.stats.Runs != 1 || m.stats.Clears != 1 {
		t.Errorf("unexpected stats: %+v", m.stats)
	}
	if !strings.Contains(m.View(), "Best 77") {
		t.Error("view should show stage stats")
	}

	// Wraps around
	next, _ = m.Update(keyRight)
	m = next.(ScoreboardModel)
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 after wrapping", m.cursor)
	}
}

func TestSessionModelFlow(t *testing.T) {
	cfg := DefaultSSHServerConfig()
	cfg.Stages = []stages.Stage{layoutStage("a", nil, "R R", "G B")}
	cfg.RandomColors = nil

	m := NewSessionModel(cfg, nil, nil)

	step := func(msg tea.Msg) {
		t.Helper()
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(SessionModel)
		if !ok {
			t.Fatalf("Update returned %T, want SessionModel", next)
		}
	}

	step(keyEnter)
	if m.screen != screenGame {
		t.Fatalf("screen = %v, want game", m.screen)
	}
	if !strings.Contains(m.View(), "Stage a") {
		t.Error("game view should show the stage name")
	}

	step(keyEsc)
	if m.screen != screenMenu {
		t.Fatalf("screen = %v, want menu", m.screen)
	}

	step(tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenScores {
		t.Fatalf("screen = %v, want scores", m.screen)
	}

	step(keyEsc)
	if m.screen != screenMenu {
		t.Fatalf("screen = %v, want menu", m.screen)
	}

	step(keyRunes("q"))
	if !m.quitting || m.View() != "" {
		t.Error("q in the menu should quit the session")
	}
}
