// Package memory implements the catalog store as an in-process map guarded
// by a read-write lock. It is the default backend: the CLI loads a JSONL
// snapshot into it on start and writes the snapshot back after mutations.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shaftlab/shaftdb/internal/catalog"
	"github.com/shaftlab/shaftdb/internal/types"
)

// Store holds records keyed by derived ID. The zero value is not usable;
// call New.
type Store struct {
	mu   sync.RWMutex
	byID map[string]*types.ShaftSpec
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{byID: make(map[string]*types.ShaftSpec)}
}

var _ catalog.Store = (*Store)(nil)

// Insert adds a record. An existing identity key is rejected with
// ErrDuplicateKey; nothing is ever silently overwritten.
func (s *Store) Insert(_ context.Context, spec *types.ShaftSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := spec.ID()
	if _, exists := s.byID[id]; exists {
		return fmt.Errorf("%s: %w", spec.Key(), catalog.ErrDuplicateKey)
	}
	s.byID[id] = spec.Clone()
	return nil
}

// Replace swaps the record stored under spec's identity key. The key must
// already exist; Replace is the explicit corrections path, not an upsert.
func (s *Store) Replace(_ context.Context, spec *types.ShaftSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := spec.ID()
	if _, exists := s.byID[id]; !exists {
		return fmt.Errorf("%s: %w", spec.Key(), catalog.ErrNotFound)
	}
	s.byID[id] = spec.Clone()
	return nil
}

// Remove deletes the record for a discontinued product.
func (s *Store) Remove(_ context.Context, key types.Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := key.ID()
	if _, exists := s.byID[id]; !exists {
		return fmt.Errorf("%s: %w", key, catalog.ErrNotFound)
	}
	delete(s.byID, id)
	return nil
}

// Get returns the record for an identity key.
func (s *Store) Get(ctx context.Context, key types.Key) (*types.ShaftSpec, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, key.ID())
}

// GetByID returns the record for a derived ID.
func (s *Store) GetByID(_ context.Context, id string) (*types.ShaftSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spec, exists := s.byID[id]
	if !exists {
		return nil, fmt.Errorf("%s: %w", id, catalog.ErrNotFound)
	}
	return spec.Clone(), nil
}

// Query returns the records matching the filter in canonical order, paged
// by the filter's limit and offset.
func (s *Store) Query(_ context.Context, filter types.Filter) ([]*types.ShaftSpec, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]*types.ShaftSpec, 0, len(s.byID))
	for _, spec := range s.byID {
		if filter.Matches(spec) {
			matched = append(matched, spec.Clone())
		}
	}
	s.mu.RUnlock()

	types.SortSpecs(matched)
	return filter.Page(matched), nil
}

// Manufacturers lists distinct manufacturers, sorted.
func (s *Store) Manufacturers(_ context.Context) ([]string, error) {
	s.mu.RLock()
	seen := make(map[string]string)
	for _, spec := range s.byID {
		seen[strings.ToLower(spec.Manufacturer)] = spec.Manufacturer
	}
	s.mu.RUnlock()

	out := make([]string, 0, len(seen))
	for _, name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// Stats computes aggregate metrics in a single pass.
func (s *Store) Stats(_ context.Context) (*types.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &types.Statistics{
		ByClubType: make(map[types.ClubType]int),
		ByFlex:     make(map[types.Flex]int),
	}
	manufacturers := make(map[string]bool)
	models := make(map[string]bool)
	var weightSum float64

	for _, spec := range s.byID {
		stats.TotalShafts++
		manufacturers[strings.ToLower(spec.Manufacturer)] = true
		models[strings.ToLower(spec.Manufacturer)+"\x00"+strings.ToLower(spec.Model)] = true
		stats.ByClubType[spec.ClubType]++
		stats.ByFlex[spec.Flex]++

		w := spec.WeightGrams
		weightSum += w
		if stats.WeightMin == 0 || w < stats.WeightMin {
			stats.WeightMin = w
		}
		if w > stats.WeightMax {
			stats.WeightMax = w
		}
	}
	stats.Manufacturers = len(manufacturers)
	stats.Models = len(models)
	if stats.TotalShafts > 0 {
		stats.WeightMean = weightSum / float64(stats.TotalShafts)
	}
	return stats, nil
}

// Len returns the record count.
func (s *Store) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

// Close is a no-op for the in-memory backend.
func (s *Store) Close() error {
	return nil
}
