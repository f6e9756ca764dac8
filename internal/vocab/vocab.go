// Package vocab loads and serves per-manufacturer vocabulary packs: the
// explicit raw-to-canonical mapping tables that the normalizer consults.
// Mapping is deliberately total; nothing here guesses. A raw value either
// appears in the manufacturer's pack or normalization fails.
package vocab

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/shaftlab/shaftdb/internal/types"
)

// Pack is the on-disk shape of one manufacturer's vocabulary file. Section
// keys are the maker's raw spellings; values are canonical enum spellings.
type Pack struct {
	Manufacturer string            `toml:"manufacturer"`
	Flex         map[string]string `toml:"flex"`
	ClubType     map[string]string `toml:"club_type"`
	Launch       map[string]string `toml:"launch"`
	Spin         map[string]string `toml:"spin"`
	Kickpoint    map[string]string `toml:"kickpoint"`
	TipStiffness map[string]string `toml:"tip_stiffness"`
}

// Table is a compiled pack: lookup keys canonicalized, targets parsed into
// enum values, ambiguities rejected. Lookups are read-only after Compile.
type Table struct {
	Manufacturer string
	Source       string // pack file path, "" for in-memory tables

	flex         map[string]types.Flex
	clubType     map[string]types.ClubType
	launch       map[string]types.Profile
	spin         map[string]types.Profile
	kickpoint    map[string]types.Profile
	tipStiffness map[string]types.TipStiffness
}

// CanonicalKey folds a raw vocabulary value for table lookup: trim,
// lowercase, collapse internal whitespace runs to a single space. "X - Stiff"
// and "x - stiff" hit the same table entry; "x-stiff" is a separate spelling
// the pack must list if the maker uses it.
func CanonicalKey(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

// Compile validates a pack and builds its lookup table. Every target must
// be a canonical enum spelling, and two raw keys that fold to the same
// lookup key must not map to different targets.
func Compile(p Pack, source string) (*Table, error) {
	if strings.TrimSpace(p.Manufacturer) == "" {
		return nil, fmt.Errorf("pack %s: manufacturer is required", source)
	}
	t := &Table{
		Manufacturer: strings.TrimSpace(p.Manufacturer),
		Source:       source,
		flex:         make(map[string]types.Flex),
		clubType:     make(map[string]types.ClubType),
		launch:       make(map[string]types.Profile),
		spin:         make(map[string]types.Profile),
		kickpoint:    make(map[string]types.Profile),
		tipStiffness: make(map[string]types.TipStiffness),
	}

	if err := compileSection(p.Flex, t.flex, types.ParseFlex); err != nil {
		return nil, fmt.Errorf("pack %s [flex]: %w", t.Manufacturer, err)
	}
	if err := compileSection(p.ClubType, t.clubType, types.ParseClubType); err != nil {
		return nil, fmt.Errorf("pack %s [club_type]: %w", t.Manufacturer, err)
	}
	if err := compileSection(p.Launch, t.launch, types.ParseProfile); err != nil {
		return nil, fmt.Errorf("pack %s [launch]: %w", t.Manufacturer, err)
	}
	if err := compileSection(p.Spin, t.spin, types.ParseProfile); err != nil {
		return nil, fmt.Errorf("pack %s [spin]: %w", t.Manufacturer, err)
	}
	if err := compileSection(p.Kickpoint, t.kickpoint, types.ParseProfile); err != nil {
		return nil, fmt.Errorf("pack %s [kickpoint]: %w", t.Manufacturer, err)
	}
	if err := compileSection(p.TipStiffness, t.tipStiffness, types.ParseTipStiffness); err != nil {
		return nil, fmt.Errorf("pack %s [tip_stiffness]: %w", t.Manufacturer, err)
	}
	return t, nil
}

func compileSection[T comparable](raw map[string]string, out map[string]T, parse func(string) (T, error)) error {
	for key, target := range raw {
		folded := CanonicalKey(key)
		if folded == "" {
			return fmt.Errorf("empty mapping key %q", key)
		}
		canonical, err := parse(target)
		if err != nil {
			return fmt.Errorf("mapping %q: %w", key, err)
		}
		if existing, ok := out[folded]; ok && existing != canonical {
			return fmt.Errorf("ambiguous mapping: %q folds onto an entry targeting %v", key, existing)
		}
		out[folded] = canonical
	}
	return nil
}

// Flex looks up a raw flex spelling.
func (t *Table) Flex(raw string) (types.Flex, bool) {
	v, ok := t.flex[CanonicalKey(raw)]
	return v, ok
}

// ClubType looks up a raw club type spelling.
func (t *Table) ClubType(raw string) (types.ClubType, bool) {
	v, ok := t.clubType[CanonicalKey(raw)]
	return v, ok
}

// Launch looks up a raw launch spelling.
func (t *Table) Launch(raw string) (types.Profile, bool) {
	v, ok := t.launch[CanonicalKey(raw)]
	return v, ok
}

// Spin looks up a raw spin spelling.
func (t *Table) Spin(raw string) (types.Profile, bool) {
	v, ok := t.spin[CanonicalKey(raw)]
	return v, ok
}

// Kickpoint looks up a raw kickpoint spelling.
func (t *Table) Kickpoint(raw string) (types.Profile, bool) {
	v, ok := t.kickpoint[CanonicalKey(raw)]
	return v, ok
}

// TipStiffness looks up a raw tip stiffness spelling.
func (t *Table) TipStiffness(raw string) (types.TipStiffness, bool) {
	v, ok := t.tipStiffness[CanonicalKey(raw)]
	return v, ok
}

// Entries flattens the table for display, section name to sorted raw keys
// with their targets.
func (t *Table) Entries() map[string][]string {
	out := make(map[string][]string)
	add := func(section string, pairs func() []string) {
		if entries := pairs(); len(entries) > 0 {
			sort.Strings(entries)
			out[section] = entries
		}
	}
	add("flex", func() []string { return renderEntries(t.flex) })
	add("club_type", func() []string { return renderEntries(t.clubType) })
	add("launch", func() []string { return renderEntries(t.launch) })
	add("spin", func() []string { return renderEntries(t.spin) })
	add("kickpoint", func() []string { return renderEntries(t.kickpoint) })
	add("tip_stiffness", func() []string { return renderEntries(t.tipStiffness) })
	return out
}

func renderEntries[T any](m map[string]T) []string {
	entries := make([]string, 0, len(m))
	for k, v := range m {
		entries = append(entries, fmt.Sprintf("%s = %v", k, v))
	}
	return entries
}

// ParseFile reads and compiles a single pack file.
func ParseFile(path string) (*Table, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the configured vocab directory
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var pack Pack
	if err := toml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return Compile(pack, path)
}

// Registry indexes compiled tables by manufacturer. It is immutable after
// load; the serve-mode watcher swaps whole registries rather than mutating
// one in place.
type Registry struct {
	tables map[string]*Table
}

// NewRegistry builds a registry from compiled tables, rejecting duplicate
// manufacturers.
func NewRegistry(tables ...*Table) (*Registry, error) {
	r := &Registry{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		key := CanonicalKey(t.Manufacturer)
		if existing, ok := r.tables[key]; ok {
			return nil, fmt.Errorf("duplicate vocabulary pack for %s (%s and %s)",
				t.Manufacturer, existing.Source, t.Source)
		}
		r.tables[key] = t
	}
	return r, nil
}

// LoadDir compiles every .toml file in dir into a registry. A missing
// directory yields an empty registry, not an error: a catalog consulted
// only through canonical inputs needs no packs.
func LoadDir(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return &Registry{tables: map[string]*Table{}}, nil
		}
		return nil, fmt.Errorf("read vocab dir: %w", err)
	}

	var tables []*Table
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		t, err := ParseFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return NewRegistry(tables...)
}

// Table returns the compiled table for a manufacturer, matching
// case-insensitively.
func (r *Registry) Table(manufacturer string) (*Table, bool) {
	t, ok := r.tables[CanonicalKey(manufacturer)]
	return t, ok
}

// Manufacturers lists the manufacturers with a loaded pack, sorted.
func (r *Registry) Manufacturers() []string {
	out := make([]string, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t.Manufacturer)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of loaded packs.
func (r *Registry) Len() int {
	return len(r.tables)
}

// Problem is one lint finding.
type Problem struct {
	File    string
	Message string
}

// Lint compiles every pack in dir and collects problems instead of failing
// on the first. Cross-file duplicate manufacturers are reported against the
// later file.
func Lint(dir string) ([]Problem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read vocab dir: %w", err)
	}

	var problems []Problem
	seen := make(map[string]string) // manufacturer key -> file
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		t, err := ParseFile(path)
		if err != nil {
			problems = append(problems, Problem{File: path, Message: err.Error()})
			continue
		}
		key := CanonicalKey(t.Manufacturer)
		if prior, ok := seen[key]; ok {
			problems = append(problems, Problem{
				File:    path,
				Message: fmt.Sprintf("duplicate pack for %s (already defined in %s)", t.Manufacturer, prior),
			})
			continue
		}
		seen[key] = path
	}
	return problems, nil
}
