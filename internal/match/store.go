package match

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pokerpit/pokerpit/internal/fileutil"
)

// Store persists completed hands.
type Store interface {
	Save(rec *HandRecord) error
}

// FileStore keeps one plain-text history per hand under a single directory,
// named <hand_id>.txt. Writes go through a rename so a reader tailing the
// directory never sees a half-written hand.
type FileStore struct {
	dir string
}

// NewFileStore opens (creating if needed) a hand history directory.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the hand's rendered history. Saving the same hand id again
// replaces the previous file.
func (fs *FileStore) Save(rec *HandRecord) error {
	path := filepath.Join(fs.dir, fmt.Sprintf("%d.txt", rec.HandID))
	if err := fileutil.WriteAtomic(path, []byte(rec.History), 0o644); err != nil {
		return fmt.Errorf("save hand %d: %w", rec.HandID, err)
	}
	return nil
}

// Load returns the stored history text for a hand id.
func (fs *FileStore) Load(handID int) (string, error) {
	data, err := os.ReadFile(filepath.Join(fs.dir, fmt.Sprintf("%d.txt", handID)))
	if err != nil {
		return "", fmt.Errorf("load hand %d: %w", handID, err)
	}
	return string(data), nil
}

// List returns the stored hand ids in ascending order. Files that are not
// <number>.txt are ignored.
func (fs *FileStore) List() ([]int, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, fmt.Errorf("list hands: %w", err)
	}
	var ids []int
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), ".txt")
		if !ok || entry.IsDir() {
			continue
		}
		id, err := strconv.Atoi(name)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// Clear removes every stored hand.
func (fs *FileStore) Clear() error {
	ids, err := fs.List()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := os.Remove(filepath.Join(fs.dir, fmt.Sprintf("%d.txt", id))); err != nil {
			return fmt.Errorf("clear hand %d: %w", id, err)
		}
	}
	return nil
}
