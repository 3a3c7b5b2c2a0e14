package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"trapscan/internal/model"
)

// WriteSnapshot writes a raw query response to path.
func WriteSnapshot(path string, raw []byte) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// SaveBondIDs writes the per-source extraction result, replacing any
// previous file atomically.
func SaveBondIDs(path string, bondIDs model.BondIDs) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("create bond ids dir: %w", err)
	}

	data, err := json.Marshal(bondIDs)
	if err != nil {
		return fmt.Errorf("marshal bond ids: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write bond ids tmp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename bond ids: %w", err)
	}
	return nil
}

// LoadBondIDs reads a file written by SaveBondIDs.
func LoadBondIDs(path string) (model.BondIDs, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat bond ids: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("bond ids path is a directory")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bond ids: %w", err)
	}

	var bondIDs model.BondIDs
	if err := json.Unmarshal(data, &bondIDs); err != nil {
		return nil, fmt.Errorf("parse bond ids: %w", err)
	}
	if bondIDs == nil {
		bondIDs = model.BondIDs{}
	}
	return bondIDs, nil
}
