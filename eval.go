package main

// terminalBase exceeds the maximum heuristic magnitude (30+5+25+25), so a
// decided game always dominates any heuristic comparison in the search.
const terminalBase = 85

// TerminalScore converts final piece counts into a game-theoretic score.
// Positive favors Light. Only meaningful once the turn sequence is exhausted.
func TerminalScore(state GameState) float64 {
	dark, light, _ := state.Board.CountPieces()
	if dark == light {
		return 0
	}
	if light > dark {
		return float64(terminalBase + light - dark)
	}
	return float64(-terminalBase - dark + light)
}

// HeuristicScore statically evaluates a non-terminal position as a weighted
// sum of four normalized features. The weights follow the strategy paper the
// original tuning was based on and must stay fixed: changing them changes
// the engine's playing style.
func HeuristicScore(state GameState) float64 {
	dark, light, _ := state.Board.CountPieces()

	pieceDiff := 0.0
	if dark+light > 0 {
		pieceDiff = float64(light-dark) / float64(light+dark)
	}

	lightMoves := len(state.moves[PlayerLight])
	darkMoves := len(state.moves[PlayerDark])
	mobility := 0.0
	if lightMoves+darkMoves > 0 {
		mobility = float64(lightMoves-darkMoves) / float64(lightMoves+darkMoves)
	}

	cornerSum, cornersOccupied := 0, 0
	for _, corner := range corners {
		switch state.Board.At(corner.X, corner.Y) {
		case CellLight:
			cornerSum++
			cornersOccupied++
		case CellDark:
			cornerSum--
			cornersOccupied++
		}
	}
	cornerControl := 0.0
	if cornersOccupied > 0 {
		cornerControl = float64(cornerSum) / float64(cornersOccupied)
	}

	darkStable, lightStable := stableCounts(state.Board)
	stability := 0.0
	if darkStable+lightStable > 0 {
		stability = float64(lightStable-darkStable) / float64(lightStable+darkStable)
	}

	return 30*cornerControl + 5*mobility + 25*stability + 25*pieceDiff
}

var corners = [4]Move{{0, 0}, {BoardSize - 1, 0}, {0, BoardSize - 1}, {BoardSize - 1, BoardSize - 1}}

// stableCounts estimates, per color, how many discs cannot currently be
// flipped. It is a deliberately cheap approximation: every disc starts out
// tracked as stable and each scan line (rows, columns, both diagonal
// families) discards runs caught in an unstable bounding pattern. While all
// four corners are empty nothing is counted at all.
func stableCounts(board Board) (darkStable, lightStable int) {
	cornerTaken := false
	for _, corner := range corners {
		if board.At(corner.X, corner.Y) != CellEmpty {
			cornerTaken = true
			break
		}
	}
	if !cornerTaken {
		return 0, 0
	}

	trackedDark := make(map[int]struct{})
	trackedLight := make(map[int]struct{})
	for i := 0; i < BoardSize*BoardSize; i++ {
		switch board.atIndex(i) {
		case CellDark:
			trackedDark[i] = struct{}{}
		case CellLight:
			trackedLight[i] = struct{}{}
		}
	}

	for section, lines := range scanSections() {
		if section > 0 && len(trackedDark) == 0 && len(trackedLight) == 0 {
			break
		}
		for _, line := range lines {
			discardUnstableRuns(board, line, CellDark, trackedDark)
			discardUnstableRuns(board, line, CellLight, trackedLight)
		}
	}
	return len(trackedDark), len(trackedLight)
}

// discardUnstableRuns walks one scan line tracking runs of own discs seen
// after an empty or opposing anchor. A pending run is discarded when an empty
// cell follows it, or when an opposing disc follows it with an empty anchor
// behind it; runs touching the board edge or boxed between opposing discs
// survive. The empty-run clearing order is intentionally quirky and matches
// the original estimate rather than true stability.
func discardUnstableRuns(board Board, line []int, own Cell, tracked map[int]struct{}) {
	const (
		anchorNone = iota
		anchorEmpty
		anchorOpposing
	)
	opposing := CellLight
	if own == CellLight {
		opposing = CellDark
	}
	anchor := anchorNone
	var run []int
	for _, idx := range line {
		cell := board.atIndex(idx)
		if anchor != anchorNone {
			switch cell {
			case CellEmpty:
				if len(run) > 0 {
					for _, r := range run {
						delete(tracked, r)
					}
					run = run[:0]
				}
				anchor = anchorEmpty
			case opposing:
				if len(run) > 0 {
					if anchor == anchorEmpty {
						for _, r := range run {
							delete(tracked, r)
						}
						run = run[:0]
					}
				} else {
					anchor = anchorOpposing
				}
			default:
				run = append(run, idx)
			}
			continue
		}
		if cell == CellEmpty {
			anchor = anchorEmpty
			run = run[:0]
		} else if cell == opposing {
			anchor = anchorOpposing
			run = run[:0]
		}
	}
}

// scanSections enumerates the stability scan lines as cell indexes: rows,
// columns, then the two diagonal families.
func scanSections() [4][][]int {
	var rows, cols, diagsSE, diagsSW [][]int
	for y := 0; y < BoardSize; y++ {
		line := make([]int, 0, BoardSize)
		for x := 0; x < BoardSize; x++ {
			line = append(line, y*BoardSize+x)
		}
		rows = append(rows, line)
	}
	for x := 0; x < BoardSize; x++ {
		line := make([]int, 0, BoardSize)
		for y := 0; y < BoardSize; y++ {
			line = append(line, y*BoardSize+x)
		}
		cols = append(cols, line)
	}
	diagSE := func(y, x int) []int {
		var line []int
		for y < BoardSize && x < BoardSize {
			line = append(line, y*BoardSize+x)
			y++
			x++
		}
		return line
	}
	diagSW := func(y, x int) []int {
		var line []int
		for y < BoardSize && x >= 0 {
			line = append(line, y*BoardSize+x)
			y++
			x--
		}
		return line
	}
	for x := 0; x < BoardSize; x++ {
		diagsSE = append(diagsSE, diagSE(0, x))
	}
	for y := 1; y < BoardSize; y++ {
		diagsSE = append(diagsSE, diagSE(y, 0))
	}
	for x := 0; x < BoardSize; x++ {
		diagsSW = append(diagsSW, diagSW(0, x))
	}
	for y := 1; y < BoardSize; y++ {
		diagsSW = append(diagsSW, diagSW(y, BoardSize-1))
	}
	return [4][][]int{rows, cols, diagsSE, diagsSW}
}
