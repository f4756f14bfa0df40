package main

import "sync"

type TTFlag uint8

const (
	TTExact TTFlag = iota
	TTLower
	TTUpper
)

// TTEntry memoizes one searched position. Cells is the full board the entry
// was stored for: the 64-bit key is not collision-proof, so a probe only hits
// when the boards also match.
type TTEntry struct {
	Cells    []Cell
	Score    float64
	Flag     TTFlag
	Depth    int
	BestMove Move
	Valid    bool
}

const (
	ttStripeCount  = 64
	ttStripeMask   = ttStripeCount - 1
	ttAgeFloor     = 3
	ttAgeDecrement = 2
)

type ttStripe struct {
	mu      sync.RWMutex
	entries map[uint64]TTEntry
}

// TranspositionTable persists across successive move selections within a game
// and is aged between them so depth guarantees never go stale. Entries are
// sharded across stripes, each behind its own RWMutex, because the cache
// endpoints and the shutdown snapshot read the table while a search worker is
// writing to it.
type TranspositionTable struct {
	stripes [ttStripeCount]ttStripe
}

func NewTranspositionTable() *TranspositionTable {
	tt := &TranspositionTable{}
	for i := range tt.stripes {
		tt.stripes[i].entries = make(map[uint64]TTEntry)
	}
	return tt
}

func (tt *TranspositionTable) stripeFor(key uint64) *ttStripe {
	return &tt.stripes[key&ttStripeMask]
}

func (tt *TranspositionTable) Probe(key uint64, board Board) (TTEntry, bool) {
	stripe := tt.stripeFor(key)
	stripe.mu.RLock()
	entry, ok := stripe.entries[key]
	stripe.mu.RUnlock()
	if !ok || !entry.Valid {
		return TTEntry{}, false
	}
	if !boardMatches(board, entry.Cells) {
		return TTEntry{}, false
	}
	return entry, true
}

func (tt *TranspositionTable) Store(key uint64, board Board, depth int, score float64, flag TTFlag, best Move) {
	stripe := tt.stripeFor(key)
	stripe.mu.Lock()
	stripe.entries[key] = TTEntry{
		Cells:    board.snapshotCells(),
		Score:    score,
		Flag:     flag,
		Depth:    depth,
		BestMove: best,
		Valid:    true,
	}
	stripe.mu.Unlock()
}

// Age prunes the table between searches: entries searched shallower than the
// floor are dropped and the rest have their recorded depth reduced, keeping
// the table usable across moves without growing unboundedly.
func (tt *TranspositionTable) Age() {
	for i := range tt.stripes {
		stripe := &tt.stripes[i]
		stripe.mu.Lock()
		for key, entry := range stripe.entries {
			if entry.Depth < ttAgeFloor {
				delete(stripe.entries, key)
				continue
			}
			entry.Depth -= ttAgeDecrement
			stripe.entries[key] = entry
		}
		stripe.mu.Unlock()
	}
}

func (tt *TranspositionTable) Count() int {
	total := 0
	for i := range tt.stripes {
		stripe := &tt.stripes[i]
		stripe.mu.RLock()
		total += len(stripe.entries)
		stripe.mu.RUnlock()
	}
	return total
}

func (tt *TranspositionTable) Clear() {
	for i := range tt.stripes {
		stripe := &tt.stripes[i]
		stripe.mu.Lock()
		stripe.entries = make(map[uint64]TTEntry)
		stripe.mu.Unlock()
	}
}

type ttSnapshotEntry struct {
	Key   uint64
	Entry TTEntry
}

func (tt *TranspositionTable) snapshotEntries() []ttSnapshotEntry {
	out := make([]ttSnapshotEntry, 0, tt.Count())
	for i := range tt.stripes {
		stripe := &tt.stripes[i]
		stripe.mu.RLock()
		for key, entry := range stripe.entries {
			out = append(out, ttSnapshotEntry{Key: key, Entry: entry})
		}
		stripe.mu.RUnlock()
	}
	return out
}

func (tt *TranspositionTable) loadEntries(entries []ttSnapshotEntry) {
	for _, snap := range entries {
		if !snap.Entry.Valid || len(snap.Entry.Cells) != BoardSize*BoardSize {
			continue
		}
		stripe := tt.stripeFor(snap.Key)
		stripe.mu.Lock()
		stripe.entries[snap.Key] = snap.Entry
		stripe.mu.Unlock()
	}
}

func boardMatches(board Board, cells []Cell) bool {
	if len(cells) != BoardSize*BoardSize {
		return false
	}
	for i, cell := range cells {
		if board.atIndex(i) != cell {
			return false
		}
	}
	return true
}
