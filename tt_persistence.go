package main

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type ttPersistenceSnapshot struct {
	BoardSize int
	Entries   []ttSnapshotEntry
}

// loadTTPersistence seeds a transposition table from the snapshot written by
// a previous run. A missing file is not an error; a snapshot for a different
// board size is skipped.
func loadTTPersistence(cfg Config, tt *TranspositionTable) {
	if tt == nil || !cfg.AiEnableTtPersistence || cfg.AiTtPersistencePath == "" {
		return
	}
	path := cfg.AiTtPersistencePath
	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("opening tt snapshot failed")
		}
		return
	}
	defer file.Close()

	var snapshot ttPersistenceSnapshot
	if err := gob.NewDecoder(file).Decode(&snapshot); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("decoding tt snapshot failed")
		return
	}
	if snapshot.BoardSize != BoardSize {
		log.Warn().
			Int("snapshot_size", snapshot.BoardSize).
			Int("board_size", BoardSize).
			Msg("tt snapshot board size mismatch; skipping")
		return
	}
	tt.loadEntries(snapshot.Entries)
	log.Info().Str("path", path).Int("entries", tt.Count()).Msg("restored tt snapshot")
}

// persistTTPersistence writes the table to disk so the next run starts with
// a warm cache.
func persistTTPersistence(cfg Config, tt *TranspositionTable) error {
	if tt == nil || !cfg.AiEnableTtPersistence || cfg.AiTtPersistencePath == "" {
		return nil
	}
	path := cfg.AiTtPersistencePath
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create tt snapshot directory")
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create tt snapshot")
	}
	defer file.Close()
	snapshot := ttPersistenceSnapshot{
		BoardSize: BoardSize,
		Entries:   tt.snapshotEntries(),
	}
	if err := gob.NewEncoder(file).Encode(&snapshot); err != nil {
		return errors.Wrap(err, "encode tt snapshot")
	}
	log.Info().Str("path", path).Int("entries", len(snapshot.Entries)).Msg("stored tt snapshot")
	return nil
}
