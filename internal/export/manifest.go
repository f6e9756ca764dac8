package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Manifest describes one export run. It is written next to the export file
// so a consumer can verify what it received without re-parsing the data.
type Manifest struct {
	ExportedAt time.Time `json:"exported_at"`
	Format     string    `json:"format"`   // "csv" or "jsonl"
	Records    int       `json:"records"`  // rows written
	Filtered   bool      `json:"filtered"` // true when a filter narrowed the result set
}

// NewManifest returns a manifest stamped with the current time.
func NewManifest(format string, records int, filtered bool) *Manifest {
	return &Manifest{
		ExportedAt: time.Now().UTC(),
		Format:     format,
		Records:    records,
		Filtered:   filtered,
	}
}

// ManifestPath derives the manifest location from the export path: the data
// file's extension is swapped for .manifest.json.
func ManifestPath(dataPath string) string {
	return strings.TrimSuffix(dataPath, filepath.Ext(dataPath)) + ".manifest.json"
}

// WriteManifest writes the manifest alongside the export file with the same
// temp-then-rename dance as the snapshot writer, mode 0600.
func WriteManifest(dataPath string, manifest *Manifest) error {
	manifestPath := ManifestPath(dataPath)

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	dir := filepath.Dir(manifestPath)
	tempFile, err := os.CreateTemp(dir, filepath.Base(manifestPath)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp manifest: %w", err)
	}
	tempPath := tempFile.Name()
	defer func() {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp manifest: %w", err)
	}

	if err := os.Rename(tempPath, manifestPath); err != nil {
		return fmt.Errorf("replace manifest: %w", err)
	}
	if err := os.Chmod(manifestPath, 0600); err != nil {
		return fmt.Errorf("chmod manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(dataPath string) (*Manifest, error) {
	data, err := os.ReadFile(ManifestPath(dataPath)) // #nosec G304 -- derived from an operator-supplied export path
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
