package main

type PlayerColor int

type GameStatus int

const (
	PlayerDark PlayerColor = iota
	PlayerLight
)

const (
	StatusNotStarted GameStatus = iota
	StatusRunning
	StatusDarkWon
	StatusLightWon
	StatusDraw
)

// MoveIndex maps each legal destination of one color to the capture
// directions that validate it. Rebuilt wholesale after every board mutation.
type MoveIndex map[Move][]Direction

// GameState is a board plus its derived move index and (optionally) an
// incrementally maintained position hash. When zobrist is nil no hash is
// maintained; the same mutation code serves both cases.
type GameState struct {
	Board   Board
	Hash    uint64
	ToMove  PlayerColor
	moves   map[PlayerColor]MoveIndex
	zobrist *ZobristTable
}

func NewGameState(zobrist *ZobristTable) GameState {
	state := GameState{zobrist: zobrist}
	state.Reset()
	return state
}

func (s *GameState) Reset() {
	s.Board = NewBoard()
	s.ToMove = PlayerDark
	s.rebuildMoveIndex()
	s.recomputeHash()
}

// Clone produces an independent snapshot. The move index maps are shared:
// rebuildMoveIndex assigns fresh maps rather than mutating in place, so a
// clone never observes a sibling's index updates.
func (s GameState) Clone() GameState {
	clone := s
	clone.Board = s.Board.Clone()
	return clone
}

func (s GameState) LegalMoves(color PlayerColor) MoveIndex {
	return s.moves[color]
}

func (s GameState) HasMoves(color PlayerColor) bool {
	return len(s.moves[color]) > 0
}

// CanPlace reports whether move is a legal destination for color.
func (s GameState) CanPlace(move Move, color PlayerColor) bool {
	if !move.IsValid() {
		return false
	}
	_, ok := s.moves[color][move]
	return ok
}

func (s *GameState) recomputeHash() {
	if s.zobrist == nil {
		s.Hash = 0
		return
	}
	s.Hash = s.zobrist.ComputeHash(s.Board)
}

func (s *GameState) toggle(x, y int, oldCell, newCell Cell) {
	if s.zobrist == nil {
		return
	}
	s.Hash ^= s.zobrist.CellValue(x, y, oldCell)
	s.Hash ^= s.zobrist.CellValue(x, y, newCell)
}

// WithZobrist returns an independent snapshot that maintains its hash with
// the given table. Used to enter a search session from a live game state.
func (s GameState) WithZobrist(zobrist *ZobristTable) GameState {
	clone := s.Clone()
	clone.zobrist = zobrist
	clone.recomputeHash()
	return clone
}

func otherPlayer(player PlayerColor) PlayerColor {
	if player == PlayerDark {
		return PlayerLight
	}
	return PlayerDark
}

func (s GameStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusRunning:
		return "running"
	case StatusDarkWon:
		return "dark_won"
	case StatusLightWon:
		return "light_won"
	default:
		return "draw"
	}
}

func (p PlayerColor) String() string {
	if p == PlayerDark {
		return "Dark"
	}
	return "Light"
}
