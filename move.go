package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Move struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func NewMove(x, y int) Move {
	return Move{X: x, Y: y}
}

func (m Move) IsValid() bool {
	return m.X >= 0 && m.Y >= 0 && m.X < BoardSize && m.Y < BoardSize
}

func (m Move) Equals(other Move) bool {
	return m.X == other.X && m.Y == other.Y
}

func (m Move) String() string {
	return fmt.Sprintf("%d,%d", m.X, m.Y)
}

// Direction is one of the eight line directions a placement can capture along.
type Direction struct {
	Dx int `json:"dx"`
	Dy int `json:"dy"`
}

var allDirections = [8]Direction{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {-1, -1}, {1, -1}, {-1, 1},
}

// ParseMove reads a "column,row" save-file line back into a Move.
func ParseMove(line string) (Move, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != 2 {
		return Move{}, errors.Errorf("malformed move line %q", line)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Move{}, errors.Wrapf(err, "malformed column in %q", line)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Move{}, errors.Wrapf(err, "malformed row in %q", line)
	}
	return Move{X: x, Y: y}, nil
}
