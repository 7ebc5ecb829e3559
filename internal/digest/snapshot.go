// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/laborwatch/pkg/types"
)

// latestFile names the pointer file recording which dated snapshot is
// current.
const latestFile = "latest.json"

// latestPointer is the pointer file contents.
type latestPointer struct {
	Week string `json:"week"`
}

// snapshotName returns the dated snapshot filename for a week identifier.
func snapshotName(week string) string {
	return "digest-" + week + ".json"
}

// WriteSnapshot persists one digest as an immutable dated file and updates
// the latest pointer. Both writes go to a temp file first and are renamed
// into place, so a crash mid-write never leaves a truncated snapshot behind.
// Returns the snapshot path.
func WriteSnapshot(dir string, d *types.WeeklyDigest) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating digest directory: %w", err)
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding digest: %w", err)
	}
	path := filepath.Join(dir, snapshotName(d.Week))
	if err := writeAtomic(path, data); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}

	ptr, err := json.Marshal(latestPointer{Week: d.Week})
	if err != nil {
		return "", fmt.Errorf("encoding latest pointer: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, latestFile), ptr); err != nil {
		return "", fmt.Errorf("writing latest pointer: %w", err)
	}
	return path, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".digest-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadLatest resolves the current digest by reading the pointer, then the
// snapshot it names. A missing or unparsable pointer or snapshot is the
// normal "no digest available" state: both return (nil, nil), never an
// error the caller must branch on.
func LoadLatest(dir string) (*types.WeeklyDigest, error) {
	ptrData, err := os.ReadFile(filepath.Join(dir, latestFile))
	if err != nil {
		return nil, nil
	}
	var ptr latestPointer
	if err := json.Unmarshal(ptrData, &ptr); err != nil || ptr.Week == "" {
		return nil, nil
	}
	return LoadWeek(dir, ptr.Week)
}

// LoadWeek reads one dated snapshot. Missing or unparsable files are "no
// digest available", returned as (nil, nil).
func LoadWeek(dir, week string) (*types.WeeklyDigest, error) {
	data, err := os.ReadFile(filepath.Join(dir, snapshotName(week)))
	if err != nil {
		return nil, nil
	}
	var d types.WeeklyDigest
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, nil
	}
	return &d, nil
}
