package main

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

// naiveMinimax is a reference implementation with no memoization, ordering
// or pruning. Any full-window search must agree with it exactly.
func naiveMinimax(state GameState, maximizing bool, depth int) float64 {
	if state.IsTerminal() {
		return TerminalScore(state)
	}
	if depth <= 0 {
		return HeuristicScore(state)
	}
	mover := PlayerDark
	if maximizing {
		mover = PlayerLight
	}
	legal := state.LegalMoves(mover)
	if len(legal) == 0 {
		return HeuristicScore(state)
	}
	best := math.Inf(-1)
	if !maximizing {
		best = math.Inf(1)
	}
	for move := range legal {
		child := state.Clone()
		if _, err := child.Apply(move, mover); err != nil {
			continue
		}
		var childMaximizing bool
		if maximizing {
			childMaximizing = !child.HasMoves(PlayerDark)
		} else {
			childMaximizing = child.HasMoves(PlayerLight)
		}
		value := naiveMinimax(child, childMaximizing, depth-1)
		if maximizing && value > best {
			best = value
		}
		if !maximizing && value < best {
			best = value
		}
	}
	return best
}

// randomPlayout plays up to plies random moves. ok is false when the game
// ended before a live position could be returned.
func randomPlayout(r *rand.Rand, plies int) (GameState, bool) {
	state := NewGameState(nil)
	color := PlayerDark
	for i := 0; i < plies; i++ {
		mover, ok := state.NextToPlay(color)
		if !ok {
			return state, false
		}
		move, ok := randomLegalMove(r, state, mover)
		if !ok {
			return state, false
		}
		if _, err := state.Apply(move, mover); err != nil {
			return state, false
		}
		color = otherPlayer(mover)
	}
	mover, ok := state.NextToPlay(color)
	if !ok {
		return state, false
	}
	state.ToMove = mover
	return state, true
}

// midgameState retries random playouts until one yields a live position with
// the side to move set to whoever actually has moves.
func midgameState(t *testing.T, r *rand.Rand, plies int) GameState {
	t.Helper()
	for attempt := 0; attempt < 20; attempt++ {
		if state, ok := randomPlayout(r, plies); ok {
			return state
		}
	}
	t.Fatalf("could not generate a live position after %d plies", plies)
	return GameState{}
}

func newTestSearcher() *Searcher {
	searcher := NewSearcher(NewTranspositionTable())
	searcher.graceSleep = 0
	return searcher
}

func TestSearchDepthMatchesNaiveMinimax(t *testing.T) {
	r := rand.New(rand.NewSource(21))
	zobrist := NewZobristTable(5)
	for _, plies := range []int{0, 6, 14, 24} {
		state := midgameState(t, r, plies).WithZobrist(zobrist)
		want := naiveMinimax(state, state.ToMove == PlayerLight, 3)
		got, move := newTestSearcher().SearchDepth(state, 3)
		if got != want {
			t.Fatalf("plies=%d: search value %v, naive value %v", plies, got, want)
		}
		if !state.CanPlace(move, state.ToMove) {
			t.Fatalf("plies=%d: search returned illegal move %s", plies, move)
		}
	}
}

func TestMTDfMatchesFullWindow(t *testing.T) {
	r := rand.New(rand.NewSource(33))
	zobrist := NewZobristTable(8)
	for _, plies := range []int{0, 10, 20} {
		state := midgameState(t, r, plies).WithZobrist(zobrist)
		want, _ := newTestSearcher().SearchDepth(state, 4)
		got, move := newTestSearcher().mtdf(state, 0, 4)
		if got != want {
			t.Fatalf("plies=%d: mtdf value %v, full-window value %v", plies, got, want)
		}
		if !state.CanPlace(move, state.ToMove) {
			t.Fatalf("plies=%d: mtdf returned illegal move %s", plies, move)
		}
	}
}

func TestMTDfSeedGuessDoesNotChangeValue(t *testing.T) {
	r := rand.New(rand.NewSource(44))
	zobrist := NewZobristTable(12)
	state := midgameState(t, r, 12).WithZobrist(zobrist)
	want, _ := newTestSearcher().mtdf(state, 0, 3)
	for _, guess := range []float64{-40, -1, 17, 90} {
		got, _ := newTestSearcher().mtdf(state, guess, 3)
		if got != want {
			t.Fatalf("guess %v converged to %v, want %v", guess, got, want)
		}
	}
}

func TestIterativeDeepeningReturnsLegalMove(t *testing.T) {
	zobrist := NewZobristTable(1)
	state := NewGameState(zobrist)
	searcher := newTestSearcher()
	_, move := searcher.IterativeDeepening(state, 3, time.Second)
	if !state.CanPlace(move, PlayerDark) {
		t.Fatalf("deepening returned illegal move %s", move)
	}
	if got := searcher.Stats().CompletedDepths; got != 3 {
		t.Fatalf("expected all 3 depths completed, got %d", got)
	}
}

func TestIterativeDeepeningHonorsBudget(t *testing.T) {
	zobrist := NewZobristTable(2)
	state := NewGameState(zobrist)
	searcher := newTestSearcher()
	_, move := searcher.IterativeDeepening(state, 30, 0)
	if got := searcher.Stats().CompletedDepths; got != 1 {
		t.Fatalf("an expired budget should stop after depth 1, got %d", got)
	}
	if !state.CanPlace(move, PlayerDark) {
		t.Fatalf("budgeted search still must return a legal move, got %s", move)
	}
}

func TestFullSearchMatchesNaiveEndgame(t *testing.T) {
	r := rand.New(rand.NewSource(55))
	zobrist := NewZobristTable(3)
	found := false
	for attempt := 0; attempt < 200 && !found; attempt++ {
		state, ok := randomPlayout(r, 54)
		if !ok {
			continue
		}
		_, _, empty := state.Board.CountPieces()
		if empty == 0 || empty > 6 {
			continue
		}
		found = true
		session := state.WithZobrist(zobrist)
		want := naiveMinimax(session, session.ToMove == PlayerLight, empty)
		got, move := newTestSearcher().FullSearch(session)
		if got != want {
			t.Fatalf("full search value %v, naive value %v\n%s", got, want, session.Board)
		}
		if !session.CanPlace(move, session.ToMove) {
			t.Fatalf("full search returned illegal move %s", move)
		}
	}
	if !found {
		t.Fatalf("no suitable endgame position generated")
	}
}

func TestTTRememberedMoveSpeedsRepeatSearch(t *testing.T) {
	zobrist := NewZobristTable(6)
	state := NewGameState(zobrist)
	searcher := newTestSearcher()
	searcher.SearchDepth(state, 4)
	coldNodes := searcher.Stats().Nodes

	first, _ := searcher.SearchDepth(state, 4)
	warmNodes := searcher.Stats().Nodes - coldNodes
	if warmNodes >= coldNodes {
		t.Fatalf("warm table should revisit fewer nodes: cold=%d warm=%d", coldNodes, warmNodes)
	}
	want, _ := newTestSearcher().SearchDepth(state, 4)
	if first != want {
		t.Fatalf("warm search changed the value: %v vs %v", first, want)
	}
}
