// Package catalog provides shared types for shaft storage.
//
// The concrete store implementations live in the memory and sqlite
// sub-packages. This package holds the interface and sentinel errors that
// are referenced by both the implementations and their consumers
// (cmd/shaftdb, the REST server, the ingester).
package catalog

import (
	"context"
	"errors"

	"github.com/shaftlab/shaftdb/internal/types"
)

// ErrNotFound is returned when no record exists for a requested key or ID.
var ErrNotFound = errors.New("shaft not found")

// ErrDuplicateKey is returned when an insert collides with an existing
// identity key. Records are immutable; corrections go through Replace.
var ErrDuplicateKey = errors.New("duplicate shaft key")

// Store is the catalog contract both backends satisfy. Mutations serialize
// behind a single writer; reads see a consistent snapshot and return clones,
// so a caller can never mutate catalog state through a result.
//
// Every multi-record result is in canonical catalog order (manufacturer,
// model, generation, club type, flex rank), which makes query output
// deterministic regardless of insertion order.
type Store interface {
	// Mutations
	Insert(ctx context.Context, spec *types.ShaftSpec) error
	Replace(ctx context.Context, spec *types.ShaftSpec) error
	Remove(ctx context.Context, key types.Key) error

	// Lookups
	Get(ctx context.Context, key types.Key) (*types.ShaftSpec, error)
	GetByID(ctx context.Context, id string) (*types.ShaftSpec, error)
	Query(ctx context.Context, filter types.Filter) ([]*types.ShaftSpec, error)

	// Aggregates
	Manufacturers(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*types.Statistics, error)
	Len(ctx context.Context) (int, error)

	// Lifecycle
	Close() error
}
