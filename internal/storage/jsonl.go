package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"trapscan/internal/model"
)

// JsonlStorage records the bond checks of one run, one JSON object per line.
// The first non-empty batch replaces any earlier file, later batches of the
// same run are appended.
type JsonlStorage struct {
	path    string
	started bool
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutBondChecks writes a batch of checks in the order given.
func (s *JsonlStorage) PutBondChecks(_ context.Context, checks []model.BondCheck) error {
	if len(checks) == 0 {
		return nil
	}
	if err := ensureDir(s.path); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if !s.started {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	file, err := os.OpenFile(s.path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open results file: %w", err)
	}
	s.started = true

	writer := bufio.NewWriter(file)
	enc := json.NewEncoder(writer)
	enc.SetEscapeHTML(false)
	for _, check := range checks {
		if err := enc.Encode(check); err != nil {
			file.Close()
			return fmt.Errorf("write bond check %s/%s: %w", check.Source, check.BondID, err)
		}
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("flush results: %w", err)
	}
	return file.Close()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
