// Package shaftdb provides a minimal public API for embedding the shaft
// catalog in other Go programs.
//
// Most programs should use the shaftdb CLI or the REST server. This package
// exports only the essential types and the store opener needed to use the
// catalog programmatically.
package shaftdb

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shaftlab/shaftdb/internal/catalog"
	"github.com/shaftlab/shaftdb/internal/catalog/memory"
	"github.com/shaftlab/shaftdb/internal/catalog/sqlite"
	"github.com/shaftlab/shaftdb/internal/config"
	"github.com/shaftlab/shaftdb/internal/export"
	"github.com/shaftlab/shaftdb/internal/types"
)

// Core types for working with shaft records
type (
	ShaftSpec  = types.ShaftSpec
	Key        = types.Key
	Filter     = types.Filter
	Statistics = types.Statistics
	ClubType   = types.ClubType
	Flex       = types.Flex
	Config     = config.Config
)

// Store is the catalog contract both backends satisfy.
type Store = catalog.Store

// Sentinel errors re-exported for callers that match on store outcomes.
var (
	ErrNotFound     = catalog.ErrNotFound
	ErrDuplicateKey = catalog.ErrDuplicateKey
)

// defaultVocab carries the packaged vocabulary packs. They are written into
// a data directory by shaftdb init and embedded here so the binary can seed
// a fresh installation without a checkout.
//
//go:embed vocab/*.toml
var defaultVocab embed.FS

// Open opens the store the config selects. A memory catalog replays the
// JSONL snapshot from disk; a sqlite catalog opens (creating if absent) the
// database file and writes through.
func Open(ctx context.Context, cfg *config.Config) (catalog.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		store := memory.New()
		if _, err := export.RestoreJSONL(ctx, store, cfg.SnapshotPath()); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("restore snapshot: %w", err)
		}
		return store, nil
	case config.BackendSQLite:
		return sqlite.Open(cfg.DBPath())
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// SaveSnapshot persists a memory catalog back to its snapshot file. It is a
// no-op for write-through backends. Returns the number of records written.
func SaveSnapshot(ctx context.Context, store catalog.Store, cfg *config.Config) (int, error) {
	if cfg.Backend != config.BackendMemory {
		return 0, nil
	}
	return export.SnapshotJSONL(ctx, store, cfg.SnapshotPath())
}

// WriteDefaultVocab copies the packaged vocabulary packs into dir. Existing
// files are left alone so operator edits survive a re-init. Returns the
// number of packs written.
func WriteDefaultVocab(dir string) (int, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return 0, fmt.Errorf("create vocab dir: %w", err)
	}

	entries, err := fs.ReadDir(defaultVocab, "vocab")
	if err != nil {
		return 0, fmt.Errorf("read packaged vocab: %w", err)
	}

	written := 0
	for _, entry := range entries {
		target := filepath.Join(dir, entry.Name())
		if _, err := os.Stat(target); err == nil {
			continue
		}
		data, err := fs.ReadFile(defaultVocab, "vocab/"+entry.Name())
		if err != nil {
			return written, fmt.Errorf("read packaged pack %s: %w", entry.Name(), err)
		}
		if err := os.WriteFile(target, data, 0600); err != nil {
			return written, fmt.Errorf("write pack %s: %w", entry.Name(), err)
		}
		written++
	}
	return written, nil
}
