package main

import "github.com/pkg/errors"

// Apply places a disc for color at move, flips every captured line and
// rebuilds the move index for both colors. The move must be a key of the
// color's move index; anything else fails with ErrIllegalMove and leaves the
// state untouched.
func (s *GameState) Apply(move Move, color PlayerColor) (Move, error) {
	if !move.IsValid() {
		return move, errors.Wrapf(ErrIllegalMove, "position %s out of range", move)
	}
	if s.Board.At(move.X, move.Y) != CellEmpty {
		return move, errors.Wrapf(ErrIllegalMove, "position %s already occupied", move)
	}
	directions, ok := s.moves[color][move]
	if !ok {
		return move, errors.Wrapf(ErrIllegalMove, "position %s captures nothing for %s", move, color)
	}
	s.toggle(move.X, move.Y, CellEmpty, CellFromPlayer(color))
	s.Board.Set(move.X, move.Y, CellFromPlayer(color))
	s.flipLines(move, color, directions)
	s.rebuildMoveIndex()
	return move, nil
}

// flipLines walks each recorded capture direction, flipping opposing discs
// until the friendly anchor is reached.
func (s *GameState) flipLines(move Move, color PlayerColor, directions []Direction) {
	own := CellFromPlayer(color)
	for _, dir := range directions {
		for i := 1; i < BoardSize; i++ {
			x, y := move.X+dir.Dx*i, move.Y+dir.Dy*i
			if !s.Board.InBounds(x, y) || s.Board.At(x, y) == own {
				break
			}
			s.flip(x, y)
		}
	}
}

func (s *GameState) flip(x, y int) {
	oldCell := s.Board.At(x, y)
	newCell := CellDark
	if oldCell == CellDark {
		newCell = CellLight
	}
	s.toggle(x, y, oldCell, newCell)
	s.Board.Set(x, y, newCell)
}

// rebuildMoveIndex recomputes the legal destinations for both colors from
// scratch. Fresh maps are assigned so that clones sharing the previous maps
// are unaffected.
func (s *GameState) rebuildMoveIndex() {
	moves := map[PlayerColor]MoveIndex{
		PlayerDark:  make(MoveIndex),
		PlayerLight: make(MoveIndex),
	}
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if s.Board.At(x, y) != CellEmpty {
				continue
			}
			pos := Move{X: x, Y: y}
			for _, dir := range allDirections {
				nx, ny := x+dir.Dx, y+dir.Dy
				if !s.Board.InBounds(nx, ny) {
					continue
				}
				switch s.Board.At(nx, ny) {
				case CellLight:
					if s.flipLineHolds(pos, PlayerDark, dir) {
						moves[PlayerDark][pos] = append(moves[PlayerDark][pos], dir)
					}
				case CellDark:
					if s.flipLineHolds(pos, PlayerLight, dir) {
						moves[PlayerLight][pos] = append(moves[PlayerLight][pos], dir)
					}
				}
			}
		}
	}
	s.moves = moves
}

// flipLineHolds checks whether placing color at pos captures at least one
// opposing disc along dir: one or more opposing discs followed by a friendly
// anchor before any empty cell or the board edge.
func (s GameState) flipLineHolds(pos Move, color PlayerColor, dir Direction) bool {
	own := CellFromPlayer(color)
	opposing := CellFromPlayer(otherPlayer(color))
	for i := 1; i < BoardSize; i++ {
		x, y := pos.X+dir.Dx*i, pos.Y+dir.Dy*i
		if !s.Board.InBounds(x, y) {
			return false
		}
		cell := s.Board.At(x, y)
		if i == 1 {
			if cell != opposing {
				return false
			}
			continue
		}
		if cell == own {
			return true
		}
		if cell == CellEmpty {
			return false
		}
	}
	return false
}

// NextToPlay resolves whose turn it is given the color that would move next:
// that color if it has a legal move, otherwise the opponent (a forced pass).
// If neither side can move the game is over and ok is false.
func (s GameState) NextToPlay(color PlayerColor) (PlayerColor, bool) {
	if s.HasMoves(color) {
		return color, true
	}
	if s.HasMoves(otherPlayer(color)) {
		return otherPlayer(color), true
	}
	return color, false
}

// TurnSequence yields the colors to move, in order, folding forced passes in
// silently. It is the sole authority on turn order and game termination.
type TurnSequence struct {
	state *GameState
	color PlayerColor
}

func (s *GameState) TurnSequence(start PlayerColor) *TurnSequence {
	return &TurnSequence{state: s, color: start}
}

// Next returns the next color with a legal move, or false once neither side
// can play. Callers must re-derive legal moves after applying each move.
func (t *TurnSequence) Next() (PlayerColor, bool) {
	color, ok := t.state.NextToPlay(t.color)
	if !ok {
		return color, false
	}
	t.color = otherPlayer(color)
	return color, true
}

// IsTerminal reports whether the game is over: neither color can move, or one
// color has been wiped off the board while the blocked side cannot answer.
func (s GameState) IsTerminal() bool {
	darkBlocked := !s.HasMoves(PlayerDark)
	lightBlocked := !s.HasMoves(PlayerLight)
	if darkBlocked && lightBlocked {
		return true
	}
	if darkBlocked || lightBlocked {
		dark, light, _ := s.Board.CountPieces()
		return dark == 0 || light == 0
	}
	return false
}
