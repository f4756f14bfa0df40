package main

import "sync"

// GameController serializes access to the single live game: HTTP handlers,
// the websocket hub and the tick loop all go through it.
type GameController struct {
	mu      sync.Mutex
	game    *Game
	archive *GameArchive
}

func NewGameController(settings GameSettings) *GameController {
	return &GameController{game: NewGame(settings)}
}

func (gc *GameController) SetArchive(archive *GameArchive) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.archive = archive
	gc.game.SetArchive(archive)
}

func (gc *GameController) Archive() *GameArchive {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.archive
}

func (gc *GameController) ApplyHumanMove(move Move) (bool, string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if !gc.game.CurrentPlayerIsHuman() {
		return false, "not human turn"
	}
	return gc.game.TryApplyMove(move)
}

func (gc *GameController) SubmitHumanMove(move Move) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.SubmitHumanMove(move)
}

func (gc *GameController) Tick() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Tick()
}

func (gc *GameController) State() GameState {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.State()
}

func (gc *GameController) Status() GameStatus {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Status()
}

func (gc *GameController) GameID() string {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.ID()
}

func (gc *GameController) Settings() GameSettings {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Settings()
}

func (gc *GameController) History() MoveHistory {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History()
}

func (gc *GameController) LatestHistoryEntry() (HistoryEntry, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	history := gc.game.History()
	if history.Size() == 0 {
		return HistoryEntry{}, false
	}
	entries := history.All()
	return entries[len(entries)-1], true
}

func (gc *GameController) CurrentTurnStartedAtMs() int64 {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.TurnStartedAtMs()
}

func (gc *GameController) AiThinking() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.AiThinking()
}

func (gc *GameController) Reset(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
	gc.game.SetArchive(gc.archive)
}

func (gc *GameController) StartGame(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
	gc.game.SetArchive(gc.archive)
	gc.game.Start()
}

// LoadGame replays a saved move sequence into a fresh game and leaves it
// running from wherever the history ends.
func (gc *GameController) LoadGame(settings GameSettings, moves []Move) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
	gc.game.SetArchive(gc.archive)
	return gc.game.Replay(moves)
}

// AiTables returns the transposition tables of the game's AI players, for
// cache inspection and persistence.
func (gc *GameController) AiTables() []*TranspositionTable {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	var tables []*TranspositionTable
	if ai, ok := gc.game.darkPlayer.(*AIPlayer); ok {
		tables = append(tables, ai.Table())
	}
	if ai, ok := gc.game.lightPlayer.(*AIPlayer); ok {
		tables = append(tables, ai.Table())
	}
	return tables
}
