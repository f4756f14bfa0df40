package main

import (
	"math"
	"sort"
	"time"
)

// rememberedMoveBonus dominates any static ordering score so the table's
// remembered best move is always searched first.
const rememberedMoveBonus = 50000

var noMove = Move{X: -1, Y: -1}

// boardWeights is the static positional table used for move ordering:
// corners and edges score high, the squares next to an unclaimed corner are
// traps and score low.
var boardWeights = [BoardSize][BoardSize]int{
	{4, -3, 2, 2, 2, 2, -3, 4},
	{-3, -4, -1, -1, -1, -1, -4, -3},
	{2, -1, 1, 0, 0, 1, -1, 2},
	{2, -1, 0, 1, 1, 0, -1, 2},
	{2, -1, 0, 1, 1, 0, -1, 2},
	{2, -1, 1, 0, 0, 1, -1, 2},
	{-3, -4, -1, -1, -1, -1, -4, -3},
	{4, -3, 2, 2, 2, 2, -3, 4},
}

type SearchStats struct {
	Start           time.Time
	Nodes           int
	TTProbes        int
	TTHits          int
	TTStores        int
	TTCutoffs       int
	ABCutoffs       int
	CompletedDepths int
	DepthDurations  []time.Duration
}

// Searcher runs the full search stack against one transposition table. It is
// single-threaded and owns the table exclusively for the duration of a call;
// the table carries over between calls within a game.
type Searcher struct {
	tt         *TranspositionTable
	graceSleep time.Duration
	stats      *SearchStats
}

func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{
		tt:         tt,
		graceSleep: 1500 * time.Millisecond,
		stats:      &SearchStats{},
	}
}

func (s *Searcher) Stats() SearchStats {
	return *s.stats
}

// IterativeDeepening runs MTD-f at depth 1, 2, ... up to maxDepth, stopping
// once the wall-clock budget has elapsed after a completed depth. Guesses are
// tracked separately for even and odd depths since minimax values at
// consecutive depths oscillate. A depth in flight always runs to completion;
// the budget is a best-effort time box, not preemption. The grace sleep keeps
// the very first depths from returning a trivially shallow answer when the
// clock has barely started.
func (s *Searcher) IterativeDeepening(state GameState, maxDepth int, budget time.Duration) (float64, Move) {
	s.stats.Start = time.Now()
	deadline := s.stats.Start.Add(budget)
	var evenGuess, oddGuess float64
	score, move := 0.0, noMove
	for depth := 1; depth <= maxDepth; depth++ {
		depthStart := time.Now()
		if depth%2 == 0 {
			score, move = s.mtdf(state, evenGuess, depth)
			evenGuess = score
		} else {
			score, move = s.mtdf(state, oddGuess, depth)
			oddGuess = score
		}
		s.stats.CompletedDepths = depth
		s.stats.DepthDurations = append(s.stats.DepthDurations, time.Since(depthStart))
		if !time.Now().Before(deadline) {
			break
		}
		if s.graceSleep > 0 && time.Since(s.stats.Start) < time.Second {
			time.Sleep(s.graceSleep)
		}
	}
	return score, move
}

// FullSearch runs a single full-window search deep enough to reach every
// terminal position, ignoring any time budget.
func (s *Searcher) FullSearch(state GameState) (float64, Move) {
	s.stats.Start = time.Now()
	_, _, empty := state.Board.CountPieces()
	maximizing := state.ToMove == PlayerLight
	score, move := s.minimax(state, math.Inf(-1), math.Inf(1), maximizing, empty)
	s.stats.CompletedDepths = empty
	return score, move
}

// SearchDepth runs one full-window search at a fixed depth.
func (s *Searcher) SearchDepth(state GameState, depth int) (float64, Move) {
	maximizing := state.ToMove == PlayerLight
	return s.minimax(state, math.Inf(-1), math.Inf(1), maximizing, depth)
}

// mtdf converges on the exact minimax value for the given depth by probing
// with zero-width windows around a shrinking bound interval. Seeding the
// first guess from the previous depth makes it converge in few passes.
func (s *Searcher) mtdf(state GameState, firstGuess float64, depth int) (float64, Move) {
	guess := firstGuess
	upperBound := math.Inf(1)
	lowerBound := math.Inf(-1)
	maximizing := state.ToMove == PlayerLight
	move := noMove
	for lowerBound < upperBound {
		beta := guess
		if guess == lowerBound {
			beta = guess + 1
		}
		guess, move = s.minimax(state, beta-1, beta, maximizing, depth)
		if guess < beta {
			upperBound = guess
		} else {
			lowerBound = guess
		}
	}
	return guess, move
}

// minimax is memoized alpha-beta. Light maximizes, Dark minimizes. The side
// to move below the root is derived from move availability so forced passes
// are folded into the tree, and every branch explores an independently owned
// snapshot. Entries are stored against the window as it stood after table
// tightening: clipped at beta they are lower bounds, under alpha upper
// bounds, strictly inside the window exact.
func (s *Searcher) minimax(state GameState, alpha, beta float64, maximizing bool, depth int) (float64, Move) {
	s.stats.Nodes++
	remembered := noMove

	s.stats.TTProbes++
	if entry, ok := s.tt.Probe(state.Hash, state.Board); ok && entry.Depth >= depth {
		s.stats.TTHits++
		switch entry.Flag {
		case TTExact:
			return entry.Score, entry.BestMove
		case TTLower:
			if entry.Score > alpha {
				alpha = entry.Score
			}
		case TTUpper:
			if entry.Score < beta {
				beta = entry.Score
			}
		}
		if alpha >= beta {
			s.stats.TTCutoffs++
			return entry.Score, entry.BestMove
		}
		remembered = entry.BestMove
	}

	if state.IsTerminal() {
		return TerminalScore(state), noMove
	}
	if depth <= 0 {
		return HeuristicScore(state), noMove
	}

	mover := PlayerDark
	if maximizing {
		mover = PlayerLight
	}
	children := s.orderedChildren(state, mover, remembered, maximizing)
	if len(children) == 0 {
		return HeuristicScore(state), noMove
	}

	var score float64
	best := children[0].move
	if maximizing {
		score = math.Inf(-1)
		a := alpha
		for _, child := range children {
			childMaximizing := !child.state.HasMoves(PlayerDark)
			evaluation, _ := s.minimax(child.state, a, beta, childMaximizing, depth-1)
			if evaluation > score {
				score = evaluation
				best = child.move
			}
			if score > a {
				a = score
			}
			if a >= beta {
				s.stats.ABCutoffs++
				break
			}
		}
	} else {
		score = math.Inf(1)
		b := beta
		for _, child := range children {
			childMaximizing := child.state.HasMoves(PlayerLight)
			evaluation, _ := s.minimax(child.state, alpha, b, childMaximizing, depth-1)
			if evaluation < score {
				score = evaluation
				best = child.move
			}
			if score < b {
				b = score
			}
			if b <= alpha {
				s.stats.ABCutoffs++
				break
			}
		}
	}

	s.stats.TTStores++
	switch {
	case score <= alpha:
		s.tt.Store(state.Hash, state.Board, depth, score, TTUpper, best)
	case score >= beta:
		s.tt.Store(state.Hash, state.Board, depth, score, TTLower, best)
	default:
		s.tt.Store(state.Hash, state.Board, depth, score, TTExact, best)
	}
	return score, best
}

type childNode struct {
	state GameState
	move  Move
	key   float64
}

// orderedChildren builds an independent snapshot per legal move and sorts
// them best-first: the remembered table move, then a cheap static score
// (terminal positions by their final score, everything else by positional
// weight). Ordering only affects pruning efficiency, never the value of a
// full-window search.
func (s *Searcher) orderedChildren(state GameState, mover PlayerColor, remembered Move, maximizing bool) []childNode {
	factor := -1.0
	if maximizing {
		factor = 1.0
	}
	legal := state.LegalMoves(mover)
	children := make([]childNode, 0, len(legal))
	for move := range legal {
		child := state.Clone()
		if _, err := child.Apply(move, mover); err != nil {
			continue
		}
		key := orderingScore(child, move, factor)
		if move.Equals(remembered) {
			key += rememberedMoveBonus
		}
		children = append(children, childNode{state: child, move: move, key: key})
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].key > children[j].key
	})
	return children
}

func orderingScore(child GameState, move Move, factor float64) float64 {
	if child.IsTerminal() {
		return TerminalScore(child) * 10 * factor
	}
	return float64(boardWeights[move.Y][move.X])
}
