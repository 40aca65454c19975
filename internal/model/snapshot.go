package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SnapshotIndent is the indentation used when writing snapshots.
// Snapshots are meant to be diffed by humans between runs.
const SnapshotIndent = "  "

// WriteSnapshot encodes records as an indented JSON array.
// A nil slice is written as an empty array.
func WriteSnapshot(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", SnapshotIndent)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a JSON array of records and validates each one.
func ReadSnapshot(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("snapshot record %d: %w", i, err)
		}
	}
	return records, nil
}

// LoadSnapshotFile reads the snapshot stored at path.
func LoadSnapshotFile(path string) ([]Record, error) {
	f, err := os.Open(path) //nolint:gosec // Snapshot path is provided by the user
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	return ReadSnapshot(f)
}

// SaveSnapshotFile writes the snapshot to path.
// The data goes to a temporary file in the same directory which is then
// renamed over path, so readers never observe a partially written snapshot.
func SaveSnapshotFile(path string, records []Record) (err error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := WriteSnapshot(tmp, records); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}
	return nil
}
