package main

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

type GameSettings struct {
	DarkType   PlayerType `json:"-"`
	LightType  PlayerType `json:"-"`
	Difficulty Difficulty `json:"difficulty"`
}

// DefaultGameSettings matches the classic setup: a human plays Dark and
// moves first, the AI answers as Light.
func DefaultGameSettings() GameSettings {
	return GameSettings{
		DarkType:   PlayerHuman,
		LightType:  PlayerAI,
		Difficulty: DifficultyMedium,
	}
}
