package main

import "fmt"

const BoardSize = 8

type Cell int

const (
	CellEmpty Cell = iota
	CellDark
	CellLight
)

// Board is the fixed 8x8 Othello grid. Cells are stored row-major.
type Board struct {
	cells []Cell
}

func NewBoard() Board {
	b := Board{}
	b.Reset()
	return b
}

// Reset puts the board back to the standard four-disc opening pattern.
func (b *Board) Reset() {
	b.cells = make([]Cell, BoardSize*BoardSize)
	b.Set(3, 3, CellLight)
	b.Set(4, 4, CellLight)
	b.Set(4, 3, CellDark)
	b.Set(3, 4, CellDark)
}

func (b Board) At(x, y int) Cell {
	return b.cells[b.index(x, y)]
}

func (b *Board) Set(x, y int, value Cell) {
	b.cells[b.index(x, y)] = value
}

func (b Board) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < BoardSize && y < BoardSize
}

func (b Board) IsEmpty(x, y int) bool {
	return b.InBounds(x, y) && b.At(x, y) == CellEmpty
}

// CountPieces returns the number of dark, light and empty cells.
func (b Board) CountPieces() (dark, light, empty int) {
	for _, cell := range b.cells {
		switch cell {
		case CellDark:
			dark++
		case CellLight:
			light++
		default:
			empty++
		}
	}
	return dark, light, empty
}

func (b Board) Clone() Board {
	clone := Board{cells: make([]Cell, len(b.cells))}
	copy(clone.cells, b.cells)
	return clone
}

func (b Board) Equals(other Board) bool {
	if len(b.cells) != len(other.cells) {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

func (b Board) index(x, y int) int {
	return y*BoardSize + x
}

func (b Board) atIndex(i int) Cell {
	return b.cells[i]
}

func (b Board) snapshotCells() []Cell {
	return append([]Cell(nil), b.cells...)
}

func (b Board) String() string {
	out := make([]byte, 0, BoardSize*(BoardSize+1))
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			switch b.At(x, y) {
			case CellDark:
				out = append(out, 'D')
			case CellLight:
				out = append(out, 'L')
			default:
				out = append(out, '.')
			}
		}
		out = append(out, '\n')
	}
	return string(out)
}

func (c Cell) String() string {
	switch c {
	case CellDark:
		return "Dark"
	case CellLight:
		return "Light"
	default:
		return "Empty"
	}
}

func CellFromPlayer(player PlayerColor) Cell {
	if player == PlayerDark {
		return CellDark
	}
	return CellLight
}

func PlayerFromCell(cell Cell) (PlayerColor, error) {
	switch cell {
	case CellDark:
		return PlayerDark, nil
	case CellLight:
		return PlayerLight, nil
	default:
		return PlayerDark, fmt.Errorf("empty cell has no player")
	}
}
