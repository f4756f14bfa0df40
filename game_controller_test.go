package main

import "testing"

func TestControllerStartAndApplyHumanMove(t *testing.T) {
	withTestConfig(t, func(c *Config) { c.SaveDir = t.TempDir() })
	controller := NewGameController(humanSettings())
	controller.StartGame(humanSettings())
	if controller.Status() != StatusRunning {
		t.Fatalf("expected running game, got %v", controller.Status())
	}

	applied, reason := controller.ApplyHumanMove(Move{X: 3, Y: 2})
	if !applied {
		t.Fatalf("legal move rejected: %s", reason)
	}
	if entry, ok := controller.LatestHistoryEntry(); !ok || !entry.Move.Equals(Move{X: 3, Y: 2}) {
		t.Fatalf("history entry missing or wrong: %+v ok=%v", entry, ok)
	}
	state := controller.State()
	if state.ToMove != PlayerLight {
		t.Fatalf("expected light to move, got %v", state.ToMove)
	}
}

func TestControllerRejectsMoveOnAiTurn(t *testing.T) {
	withTestConfig(t, func(c *Config) {
		c.SaveDir = t.TempDir()
		c.AiGraceSleepMs = 0
	})
	settings := GameSettings{DarkType: PlayerAI, LightType: PlayerHuman, Difficulty: DifficultyEasy}
	controller := NewGameController(settings)
	controller.StartGame(settings)
	if applied, _ := controller.ApplyHumanMove(Move{X: 3, Y: 2}); applied {
		t.Fatalf("human move accepted on the AI's turn")
	}
}

func TestControllerLoadGame(t *testing.T) {
	withTestConfig(t, func(c *Config) { c.SaveDir = t.TempDir() })
	controller := NewGameController(humanSettings())
	moves := []Move{{X: 3, Y: 2}, {X: 2, Y: 2}}
	if err := controller.LoadGame(humanSettings(), moves); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if controller.History().Size() != len(moves) {
		t.Fatalf("loaded history size %d, want %d", controller.History().Size(), len(moves))
	}
	if controller.Status() != StatusRunning {
		t.Fatalf("loaded mid-game should keep running, got %v", controller.Status())
	}
	if controller.State().ToMove != PlayerDark {
		t.Fatalf("after two plies dark should move, got %v", controller.State().ToMove)
	}
}

func TestControllerReset(t *testing.T) {
	withTestConfig(t, func(c *Config) { c.SaveDir = t.TempDir() })
	controller := NewGameController(humanSettings())
	controller.StartGame(humanSettings())
	if applied, _ := controller.ApplyHumanMove(Move{X: 3, Y: 2}); !applied {
		t.Fatalf("legal move rejected")
	}
	previousID := controller.GameID()

	controller.Reset(humanSettings())
	if controller.Status() != StatusNotStarted {
		t.Fatalf("reset game should not be running")
	}
	if controller.History().Size() != 0 {
		t.Fatalf("reset did not clear history")
	}
	if controller.GameID() == previousID {
		t.Fatalf("reset should assign a fresh game id")
	}
}

func TestControllerAiTables(t *testing.T) {
	withTestConfig(t, func(c *Config) { c.SaveDir = t.TempDir() })
	settings := GameSettings{DarkType: PlayerAI, LightType: PlayerAI, Difficulty: DifficultyEasy}
	controller := NewGameController(settings)
	if tables := controller.AiTables(); len(tables) != 2 {
		t.Fatalf("ai-vs-ai game should expose two tables, got %d", len(tables))
	}
	human := NewGameController(humanSettings())
	if tables := human.AiTables(); len(tables) != 0 {
		t.Fatalf("human game should expose no tables, got %d", len(tables))
	}
}
