package main

type HistoryEntry struct {
	Move      Move
	Player    PlayerColor
	ElapsedMs float64
	IsAi      bool
}

type MoveHistory struct {
	entries []HistoryEntry
}

func (h *MoveHistory) Clear() {
	h.entries = nil
}

func (h *MoveHistory) Push(entry HistoryEntry) {
	h.entries = append(h.entries, entry)
}

func (h MoveHistory) Size() int {
	return len(h.entries)
}

func (h MoveHistory) All() []HistoryEntry {
	return append([]HistoryEntry(nil), h.entries...)
}

// Lines renders the history in the persisted format: one "column,row" pair
// per ply, in play order. Colors are implicit; forced passes leave no line.
func (h MoveHistory) Lines() []string {
	lines := make([]string, 0, len(h.entries))
	for _, entry := range h.entries {
		lines = append(lines, entry.Move.String())
	}
	return lines
}
