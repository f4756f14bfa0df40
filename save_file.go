package main

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const saveSuffix = ".oth"

// SaveWriter appends each played move to a per-game save file, creating the
// file lazily on the first move so abandoned empty games leave nothing
// behind. Older saves beyond the configured cap are pruned when a new file
// is created.
type SaveWriter struct {
	dir      string
	maxFiles int
	path     string
}

func NewSaveWriter(dir string, maxFiles int) *SaveWriter {
	return &SaveWriter{dir: dir, maxFiles: maxFiles}
}

func (w *SaveWriter) Append(move Move) error {
	if w.path == "" {
		if err := os.MkdirAll(w.dir, 0o755); err != nil {
			return errors.Wrap(err, "create save directory")
		}
		if w.maxFiles > 0 {
			if err := pruneOldSaves(w.dir, w.maxFiles-1); err != nil {
				log.Warn().Err(err).Msg("pruning old saves failed")
			}
		}
		file, err := os.CreateTemp(w.dir, "game-*"+saveSuffix)
		if err != nil {
			return errors.Wrap(err, "create save file")
		}
		w.path = file.Name()
		file.Close()
	}
	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "open save file")
	}
	defer file.Close()
	if _, err := file.WriteString(move.String() + "\n"); err != nil {
		return errors.Wrap(err, "append move")
	}
	return nil
}

func (w *SaveWriter) Path() string {
	return w.path
}

// ListSavedGames returns save file names, newest first.
func ListSavedGames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read save directory")
	}
	type fileAge struct {
		name    string
		modTime int64
	}
	files := make([]fileAge, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), saveSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, fileAge{name: entry.Name(), modTime: info.ModTime().UnixNano()})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime > files[j].modTime
	})
	names := make([]string, 0, len(files))
	for _, file := range files {
		names = append(names, file.name)
	}
	return names, nil
}

// ReadSavedGame parses one save file back into its move sequence.
func ReadSavedGame(dir, name string) ([]Move, error) {
	if filepath.Base(name) != name {
		return nil, errors.Errorf("invalid save name %q", name)
	}
	file, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, errors.Wrap(err, "open save file")
	}
	defer file.Close()
	var moves []Move
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		move, err := ParseMove(line)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedHistory, "%s line %d: %v", name, len(moves)+1, err)
		}
		moves = append(moves, move)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read save file")
	}
	return moves, nil
}

func pruneOldSaves(dir string, keep int) error {
	names, err := ListSavedGames(dir)
	if err != nil {
		return err
	}
	if keep < 0 {
		keep = 0
	}
	if len(names) <= keep {
		return nil
	}
	for _, name := range names[keep:] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return errors.Wrapf(err, "remove old save %s", name)
		}
	}
	return nil
}
