package main

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"
)

func TestTTPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tt.gob")
	config := DefaultConfig()
	config.AiEnableTtPersistence = true
	config.AiTtPersistencePath = path

	tt := NewTranspositionTable()
	board := NewBoard()
	tt.Store(42, board, 5, 2.5, TTExact, Move{X: 3, Y: 2})
	if err := persistTTPersistence(config, tt); err != nil {
		t.Fatalf("persist failed: %v", err)
	}

	restored := NewTranspositionTable()
	loadTTPersistence(config, restored)
	entry, ok := restored.Probe(42, board)
	if !ok {
		t.Fatalf("expected restored entry")
	}
	if entry.Score != 2.5 || entry.Depth != 5 || !entry.BestMove.Equals(Move{X: 3, Y: 2}) {
		t.Fatalf("restored entry mismatch: %+v", entry)
	}
}

func TestTTPersistenceDisabledIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tt.gob")
	config := DefaultConfig()
	config.AiEnableTtPersistence = false
	config.AiTtPersistencePath = path

	tt := NewTranspositionTable()
	tt.Store(1, NewBoard(), 5, 0, TTExact, noMove)
	if err := persistTTPersistence(config, tt); err != nil {
		t.Fatalf("disabled persist must not fail: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("disabled persist must not create a file")
	}
}

func TestTTPersistenceMissingFileIsNoop(t *testing.T) {
	config := DefaultConfig()
	config.AiEnableTtPersistence = true
	config.AiTtPersistencePath = filepath.Join(t.TempDir(), "absent.gob")

	tt := NewTranspositionTable()
	loadTTPersistence(config, tt)
	if tt.Count() != 0 {
		t.Fatalf("missing snapshot must leave the table empty")
	}
}

func TestTTPersistenceSkipsBoardSizeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tt.gob")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	snapshot := ttPersistenceSnapshot{
		BoardSize: BoardSize + 1,
		Entries:   []ttSnapshotEntry{{Key: 1, Entry: TTEntry{Valid: true}}},
	}
	if err := gob.NewEncoder(file).Encode(&snapshot); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	file.Close()

	config := DefaultConfig()
	config.AiEnableTtPersistence = true
	config.AiTtPersistencePath = path

	tt := NewTranspositionTable()
	loadTTPersistence(config, tt)
	if tt.Count() != 0 {
		t.Fatalf("mismatched snapshot must be skipped")
	}
}
