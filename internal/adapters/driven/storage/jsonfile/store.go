package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driven"
)

// FileName is the task document name within the data directory.
const FileName = "scheduled-tasks.json"

// Ensure Store implements the interface.
var _ driven.TaskStore = (*Store)(nil)

// Store persists tasks as a JSON document.
type Store struct {
	dir  string
	path string
}

// NewStore creates a store for dir/scheduled-tasks.json.
// If dir is empty, defaults to ~/.tidy. The directory is created on first save.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".tidy")
	}

	return &Store{
		dir:  dir,
		path: filepath.Join(dir, FileName),
	}, nil
}

// Path returns the document path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document. A missing file yields an empty collection.
func (s *Store) Load(_ context.Context) ([]domain.ScheduledTask, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.ScheduledTask{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading task document: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.ScheduledTask{}, nil
	}

	var tasks []domain.ScheduledTask
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parsing task document: %w", err)
	}
	if tasks == nil {
		tasks = []domain.ScheduledTask{}
	}
	return tasks, nil
}

// Save atomically replaces the document with tasks.
func (s *Store) Save(ctx context.Context, tasks []domain.ScheduledTask) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tasks == nil {
		tasks = []domain.ScheduledTask{}
	}

	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding task document: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	return writeAtomic(s.path, data)
}

// writeAtomic writes data to a temp file beside path, syncs it and renames
// it over path.
func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = tmp.Chmod(0600); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing task document: %w", err)
	}
	return nil
}
