package main

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Game struct {
	id          string
	settings    GameSettings
	state       GameState
	status      GameStatus
	history     MoveHistory
	darkPlayer  IPlayer
	lightPlayer IPlayer
	saver       *SaveWriter
	archive     *GameArchive
	turnStart   time.Time
}

func NewGame(settings GameSettings) *Game {
	g := &Game{}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	config := GetConfig()
	g.id = uuid.NewString()
	g.settings = settings
	g.state = NewGameState(nil)
	g.status = StatusNotStarted
	g.history.Clear()
	g.saver = NewSaveWriter(config.SaveDir, config.MaxSavedGames)
	g.createPlayers()
	g.turnStart = time.Now()
	g.logMatchup()
}

func (g *Game) SetArchive(archive *GameArchive) {
	g.archive = archive
}

func (g *Game) Start() {
	if g.status == StatusNotStarted {
		g.status = StatusRunning
		g.turnStart = time.Now()
	}
}

func (g *Game) ID() string {
	return g.id
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) Status() GameStatus {
	return g.status
}

func (g *Game) Settings() GameSettings {
	return g.settings
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

// TryApplyMove plays one move for the side to move, records it, and advances
// the turn, folding in a forced pass when the opponent has no answer. The
// board is left untouched when the move is illegal.
func (g *Game) TryApplyMove(move Move) (bool, string) {
	if g.status != StatusRunning {
		return false, "game not running"
	}
	if err := g.applyMove(move, true); err != nil {
		return false, err.Error()
	}
	return true, ""
}

func (g *Game) applyMove(move Move, persist bool) error {
	color := g.state.ToMove
	player := g.playerForColor(color)
	isAiMove := player != nil && !player.IsHuman()
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())

	if _, err := g.state.Apply(move, color); err != nil {
		return err
	}
	g.history.Push(HistoryEntry{Move: move, Player: color, ElapsedMs: elapsedMs, IsAi: isAiMove})
	if persist {
		if err := g.saver.Append(move); err != nil {
			log.Warn().Err(err).Str("game", g.id).Msg("saving move failed")
		}
	}
	log.Debug().
		Str("game", g.id).
		Stringer("player", color).
		Stringer("move", move).
		Float64("elapsed_ms", elapsedMs).
		Bool("ai", isAiMove).
		Msg("move played")

	next, ok := g.state.NextToPlay(otherPlayer(color))
	if !ok || g.state.IsTerminal() {
		g.finish()
		return nil
	}
	if next == color {
		log.Debug().Str("game", g.id).Stringer("passes", otherPlayer(color)).Msg("forced pass")
	}
	g.state.ToMove = next
	g.turnStart = time.Now()
	return nil
}

// Replay rebuilds a game from a recorded move sequence. Colors are implicit:
// each move belongs to whichever side the turn order says is up, passes
// included. A move that is illegal at its turn, or one past the end of the
// game, fails with ErrMalformedHistory.
func (g *Game) Replay(moves []Move) error {
	g.Reset(g.settings)
	g.status = StatusRunning
	for i, move := range moves {
		if g.status != StatusRunning {
			return errors.Wrapf(ErrMalformedHistory, "move %d %s played after game end", i+1, move)
		}
		if err := g.applyMove(move, false); err != nil {
			return errors.Wrapf(ErrMalformedHistory, "move %d %s: %v", i+1, move, err)
		}
	}
	return nil
}

func (g *Game) finish() {
	dark, light, _ := g.state.Board.CountPieces()
	switch {
	case dark > light:
		g.status = StatusDarkWon
	case light > dark:
		g.status = StatusLightWon
	default:
		g.status = StatusDraw
	}
	log.Info().
		Str("game", g.id).
		Int("dark", dark).
		Int("light", light).
		Stringer("result", g.status).
		Msg("game over")
	if g.archive != nil {
		record := ArchivedGame{
			ID:         g.id,
			FinishedAt: time.Now(),
			DarkCount:  dark,
			LightCount: light,
			Result:     g.status.String(),
			Moves:      strings.Join(g.history.Lines(), "\n"),
		}
		if err := g.archive.SaveFinishedGame(record); err != nil {
			log.Warn().Err(err).Str("game", g.id).Msg("archiving game failed")
		}
	}
}

// Tick drives one step of the game loop: pick up a buffered human move, or
// collect/start the AI worker. Returns true when a move was applied.
func (g *Game) Tick() bool {
	if g.status != StatusRunning {
		return false
	}
	player := g.currentPlayer()
	if player == nil {
		return false
	}
	if player.IsHuman() {
		human, ok := player.(*HumanPlayer)
		if ok && human.HasPendingMove() {
			applied, _ := g.TryApplyMove(human.TakePendingMove())
			return applied
		}
		return false
	}
	ai, ok := player.(*AIPlayer)
	if ok {
		if ai.HasMoveReady() {
			applied, _ := g.TryApplyMove(ai.TakeMove())
			return applied
		}
		if !ai.IsThinking() {
			ai.StartThinking(g.state.Clone())
		}
		return false
	}
	applied, _ := g.TryApplyMove(player.ChooseMove(g.state.Clone()))
	return applied
}

func (g *Game) SubmitHumanMove(move Move) bool {
	player := g.currentPlayer()
	if player == nil || !player.IsHuman() {
		return false
	}
	human, ok := player.(*HumanPlayer)
	if !ok {
		return false
	}
	human.SetPendingMove(move)
	return true
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) AiThinking() bool {
	ai, ok := g.currentPlayer().(*AIPlayer)
	return ok && ai.IsThinking()
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerForColor(g.state.ToMove)
}

func (g *Game) playerForColor(color PlayerColor) IPlayer {
	if color == PlayerDark {
		return g.darkPlayer
	}
	return g.lightPlayer
}

func (g *Game) createPlayers() {
	config := GetConfig()
	if g.settings.DarkType == PlayerHuman {
		g.darkPlayer = NewHumanPlayer()
	} else {
		g.darkPlayer = NewAIPlayer(g.settings.Difficulty, config)
	}
	if g.settings.LightType == PlayerHuman {
		g.lightPlayer = NewHumanPlayer()
	} else {
		g.lightPlayer = NewAIPlayer(g.settings.Difficulty, config)
	}
}

func (g *Game) logMatchup() {
	label := func(t PlayerType) string {
		if t == PlayerAI {
			return "AI"
		}
		return "Human"
	}
	log.Info().
		Str("game", g.id).
		Str("dark", label(g.settings.DarkType)).
		Str("light", label(g.settings.LightType)).
		Str("difficulty", string(g.settings.Difficulty)).
		Msg("new game")
}
