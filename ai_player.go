package main

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyExpert  Difficulty = "expert"
	DifficultyPerfect Difficulty = "perfect"
)

// AILevel bounds one difficulty: maximum deepening depth and the wall-clock
// budget checked between completed depths.
type AILevel struct {
	MaxDepth int
	Budget   time.Duration
}

var aiLevels = map[Difficulty]AILevel{
	DifficultyEasy:   {MaxDepth: 2, Budget: 1 * time.Second},
	DifficultyMedium: {MaxDepth: 5, Budget: 2 * time.Second},
	DifficultyHard:   {MaxDepth: 8, Budget: 5 * time.Second},
	DifficultyExpert: {MaxDepth: 12, Budget: 10 * time.Second},
}

// AIPlayer owns one search session: a zobrist table fixed at construction,
// a transposition table carried across its moves, and a background worker so
// the game loop never blocks on a search.
type AIPlayer struct {
	difficulty Difficulty
	zobrist    *ZobristTable
	tt         *TranspositionTable
	graceSleep time.Duration

	moveMutex  sync.Mutex
	workerDone chan struct{}
	thinking   atomic.Bool
	moveReady  atomic.Bool
	readyMove  Move
	lastStats  SearchStats
}

func NewAIPlayer(difficulty Difficulty, config Config) *AIPlayer {
	seed := config.ZobristSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &AIPlayer{
		difficulty: difficulty,
		zobrist:    NewZobristTable(seed),
		tt:         NewTranspositionTable(),
		graceSleep: time.Duration(config.AiGraceSleepMs) * time.Millisecond,
	}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

// ChooseMove runs the search stack synchronously and returns the selected
// move. Known levels run iterative deepening over the shared table; the
// perfect level runs one unbounded full-window search over a throwaway table.
func (a *AIPlayer) ChooseMove(state GameState) Move {
	session := state.WithZobrist(a.zobrist)
	var score float64
	var move Move
	var searcher *Searcher
	if level, ok := aiLevels[a.difficulty]; ok {
		searcher = NewSearcher(a.tt)
		searcher.graceSleep = a.graceSleep
		score, move = searcher.IterativeDeepening(session, level.MaxDepth, level.Budget)
		a.tt.Age()
	} else {
		searcher = NewSearcher(NewTranspositionTable())
		score, move = searcher.FullSearch(session)
	}
	a.lastStats = searcher.Stats()
	if GetConfig().AiLogSearchStats {
		stats := a.lastStats
		log.Info().
			Str("difficulty", string(a.difficulty)).
			Int("depth", stats.CompletedDepths).
			Int("nodes", stats.Nodes).
			Int("tt_probes", stats.TTProbes).
			Int("tt_hits", stats.TTHits).
			Int("tt_stores", stats.TTStores).
			Int("tt_cutoffs", stats.TTCutoffs).
			Int("ab_cutoffs", stats.ABCutoffs).
			Int("tt_size", a.tt.Count()).
			Float64("score", score).
			Dur("elapsed", time.Since(stats.Start)).
			Msg("search finished")
	}
	return move
}

// StartThinking kicks off ChooseMove on a worker goroutine. The result is
// published through HasMoveReady/TakeMove; a second call while a search is in
// flight is ignored.
func (a *AIPlayer) StartThinking(state GameState) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)

	snapshot := state.Clone()
	done := make(chan struct{})
	a.workerDone = done
	go func() {
		defer close(done)
		move := a.ChooseMove(snapshot)
		a.moveMutex.Lock()
		a.readyMove = move
		a.moveMutex.Unlock()
		a.moveReady.Store(true)
		a.thinking.Store(false)
	}()
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) TakeMove() Move {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.readyMove
}

func (a *AIPlayer) LastStats() SearchStats {
	return a.lastStats
}

func (a *AIPlayer) CacheSize() int {
	return a.tt.Count()
}

func (a *AIPlayer) Table() *TranspositionTable {
	return a.tt
}
