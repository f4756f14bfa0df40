package main

// ZobristTable holds one random 64-bit value per (cell, cell state) pair.
// A table is generated once per search session from a seed and shared
// read-only by every state that maintains a hash; it is threaded explicitly
// rather than kept as process-global state.
type ZobristTable struct {
	cells [BoardSize * BoardSize][3]uint64
}

func NewZobristTable(seed uint64) *ZobristTable {
	rng := splitmix64{state: 0x9e3779b97f4a7c15 ^ seed}
	table := &ZobristTable{}
	for i := range table.cells {
		for j := range table.cells[i] {
			table.cells[i][j] = rng.next()
		}
	}
	return table
}

func (z *ZobristTable) CellValue(x, y int, cell Cell) uint64 {
	return z.cells[y*BoardSize+x][cell]
}

// ComputeHash folds the whole board from scratch. The incrementally
// maintained hash must always agree with this value.
func (z *ZobristTable) ComputeHash(board Board) uint64 {
	var hash uint64
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			hash ^= z.CellValue(x, y, board.At(x, y))
		}
	}
	return hash
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
