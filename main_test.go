package main

import (
	"context"
	"testing"
	"time"
)

func TestSettingsDTORoundTrip(t *testing.T) {
	cases := []GameSettings{
		{DarkType: PlayerHuman, LightType: PlayerAI, Difficulty: DifficultyMedium},
		{DarkType: PlayerAI, LightType: PlayerHuman, Difficulty: DifficultyHard},
		{DarkType: PlayerAI, LightType: PlayerAI, Difficulty: DifficultyEasy},
		{DarkType: PlayerHuman, LightType: PlayerHuman, Difficulty: DifficultyExpert},
	}
	for _, settings := range cases {
		got := settingsFromDTO(settingsToDTO(settings), DefaultGameSettings())
		if got.DarkType != settings.DarkType || got.LightType != settings.LightType {
			t.Fatalf("player types changed through DTO: got %+v want %+v", got, settings)
		}
		if got.Difficulty != settings.Difficulty {
			t.Fatalf("difficulty changed through DTO: got %v want %v", got.Difficulty, settings.Difficulty)
		}
	}
}

func TestLegalMovesDTOIsSortedAndComplete(t *testing.T) {
	state := NewGameState(nil)
	moves := legalMovesDTO(state)
	if len(moves) != len(state.LegalMoves(PlayerDark)) {
		t.Fatalf("DTO dropped moves: %d vs %d", len(moves), len(state.LegalMoves(PlayerDark)))
	}
	for i := 1; i < len(moves); i++ {
		prev, cur := moves[i-1], moves[i]
		if cur.Y < prev.Y || (cur.Y == prev.Y && cur.X <= prev.X) {
			t.Fatalf("moves not in row-major order: %s before %s", prev, cur)
		}
	}
}

func TestBoardToSliceValues(t *testing.T) {
	board := NewBoard()
	rows := boardToSlice(board)
	if len(rows) != BoardSize || len(rows[0]) != BoardSize {
		t.Fatalf("unexpected slice shape")
	}
	if rows[3][3] != 2 || rows[4][4] != 2 {
		t.Fatalf("light cells should encode as 2")
	}
	if rows[3][4] != 1 || rows[4][3] != 1 {
		t.Fatalf("dark cells should encode as 1")
	}
	if rows[0][0] != 0 {
		t.Fatalf("empty cells should encode as 0")
	}
}

func TestWinnerFromStatus(t *testing.T) {
	if winnerFromStatus(StatusDarkWon) != 1 || winnerFromStatus(StatusLightWon) != 2 {
		t.Fatalf("winner encoding broken")
	}
	if winnerFromStatus(StatusRunning) != 0 || winnerFromStatus(StatusDraw) != 0 {
		t.Fatalf("non-wins must encode as 0")
	}
}

func TestHistoryEntryToDTO(t *testing.T) {
	entry := HistoryEntry{Move: Move{X: 5, Y: 4}, Player: PlayerLight, ElapsedMs: 120, IsAi: true}
	dto := historyEntryToDTO(entry)
	if dto.X != 5 || dto.Y != 4 || dto.Player != 2 || dto.ElapsedMs != 120 || !dto.IsAi {
		t.Fatalf("unexpected DTO: %+v", dto)
	}
}

func TestTickLoopStopsWithFullBroadcastChannels(t *testing.T) {
	withTestConfig(t, func(c *Config) {
		c.SaveDir = t.TempDir()
		c.TickMs = 5
		c.AiGraceSleepMs = 0
	})
	settings := GameSettings{DarkType: PlayerAI, LightType: PlayerAI, Difficulty: DifficultyEasy}
	controller := NewGameController(settings)
	controller.StartGame(settings)

	hub := NewHub()
	for len(hub.broadcastStatus) < cap(hub.broadcastStatus) {
		hub.broadcastStatus <- StatusResponse{}
	}
	for len(hub.broadcastHistory) < cap(hub.broadcastHistory) {
		hub.broadcastHistory <- historyPayload{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		runTickLoop(ctx, controller, hub)
	}()

	deadline := time.Now().Add(20 * time.Second)
	for controller.History().Size() == 0 {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("no AI move was applied")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatalf("tick loop did not stop after cancel")
	}
}
