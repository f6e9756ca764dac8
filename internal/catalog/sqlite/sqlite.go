// Package sqlite implements the catalog store on a local SQLite file.
// It write-throughs every mutation, so unlike the memory backend it needs
// no snapshot save step. Filter semantics are shared with the memory
// backend: SQL narrows the scan, types.Filter.Matches decides.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shaftlab/shaftdb/internal/catalog"
	"github.com/shaftlab/shaftdb/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS shafts (
	id TEXT PRIMARY KEY,
	manufacturer TEXT NOT NULL,
	model TEXT NOT NULL,
	generation TEXT NOT NULL DEFAULT '',
	club_type TEXT NOT NULL,
	club_order INTEGER NOT NULL,
	flex TEXT NOT NULL,
	flex_rank INTEGER NOT NULL,
	weight_grams REAL NOT NULL,
	torque_degrees REAL,
	length_inches REAL,
	kickpoint TEXT,
	launch TEXT,
	spin TEXT,
	tip_stiffness TEXT,
	butt_diameter_inches REAL,
	tip_diameter_inches REAL,
	material TEXT,
	msrp_usd REAL
);
CREATE INDEX IF NOT EXISTS idx_shafts_manufacturer ON shafts(manufacturer COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_shafts_club_type ON shafts(club_type);
`

const selectColumns = `id, manufacturer, model, generation, club_type, flex,
	weight_grams, torque_degrees, length_inches, kickpoint, launch, spin,
	tip_stiffness, butt_diameter_inches, tip_diameter_inches, material, msrp_usd`

// Store is a file-backed catalog. A single connection serializes writers;
// WAL mode keeps readers unblocked during a write.
type Store struct {
	db   *sql.DB
	path string
}

var _ catalog.Store = (*Store)(nil)

// Open creates or opens the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma journal_mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Insert adds a record, rejecting an existing identity key.
func (s *Store) Insert(ctx context.Context, spec *types.ShaftSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := spec.ID()
	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM shafts WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%s: %w", spec.Key(), catalog.ErrDuplicateKey)
	}
	if err := upsertRow(ctx, tx, id, spec); err != nil {
		return err
	}
	return tx.Commit()
}

// Replace swaps the record under an existing identity key.
func (s *Store) Replace(ctx context.Context, spec *types.ShaftSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := spec.ID()
	res, err := tx.ExecContext(ctx, `DELETE FROM shafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("replace delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace delete count: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", spec.Key(), catalog.ErrNotFound)
	}
	if err := upsertRow(ctx, tx, id, spec); err != nil {
		return err
	}
	return tx.Commit()
}

// Remove deletes the record for an identity key.
func (s *Store) Remove(ctx context.Context, key types.Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM shafts WHERE id = ?`, key.ID())
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove count: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", key, catalog.ErrNotFound)
	}
	return nil
}

func upsertRow(ctx context.Context, tx *sql.Tx, id string, spec *types.ShaftSpec) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO shafts (
			id, manufacturer, model, generation, club_type, club_order,
			flex, flex_rank, weight_grams, torque_degrees, length_inches,
			kickpoint, launch, spin, tip_stiffness, butt_diameter_inches,
			tip_diameter_inches, material, msrp_usd
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id, spec.Manufacturer, spec.Model, spec.Generation,
		string(spec.ClubType), clubOrder(spec.ClubType),
		string(spec.Flex), spec.Flex.Rank(), spec.WeightGrams,
		nullFloat(spec.TorqueDegrees), nullFloat(spec.LengthInches),
		nullString(string(spec.Kickpoint)), nullString(string(spec.Launch)),
		nullString(string(spec.Spin)), nullString(string(spec.TipStiffness)),
		nullFloat(spec.ButtDiameterInches), nullFloat(spec.TipDiameterInches),
		nullString(spec.Material), nullFloat(spec.MSRPUSD),
	)
	if err != nil {
		return fmt.Errorf("insert row: %w", err)
	}
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
func (s *Store) GetByID(ctx context.Context, id string) (*types.ShaftSpec, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM shafts WHERE id = ?`, id)
	spec, err := scanSpec(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", id, catalog.ErrNotFound)
		}
		return nil, fmt.Errorf("scan get: %w", err)
	}
	return spec, nil
}

// Query returns matching records in canonical order. The WHERE clause
// narrows the scan for the cheap constraints; the shared Filter.Matches
// then enforces the full semantics on every scanned row, so both backends
// agree on edge cases like ranges over absent optionals.
func (s *Store) Query(ctx context.Context, filter types.Filter) ([]*types.ShaftSpec, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	sqlStr, args := buildQuerySQL(&filter)
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var matched []*types.ShaftSpec
	for rows.Next() {
		spec, err := scanSpec(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("query scan: %w", err)
		}
		if filter.Matches(spec) {
			matched = append(matched, spec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	return filter.Page(matched), nil
}

func buildQuerySQL(filter *types.Filter) (string, []any) {
	var where []string
	var args []any

	if filter.Manufacturer != nil {
		where = append(where, "LOWER(manufacturer) = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(*filter.Manufacturer)))
	}
	if filter.Model != nil {
		where = append(where, "LOWER(model) = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(*filter.Model)))
	}
	if filter.Generation != nil {
		where = append(where, "LOWER(generation) = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(*filter.Generation)))
	}
	if len(filter.ClubTypes) > 0 {
		placeholders := make([]string, len(filter.ClubTypes))
		for i, ct := range filter.ClubTypes {
			placeholders[i] = "?"
			args = append(args, string(ct))
		}
		where = append(where, "club_type IN ("+strings.Join(placeholders, ", ")+")")
	}
	if len(filter.Flexes) > 0 {
		placeholders := make([]string, len(filter.Flexes))
		for i, fx := range filter.Flexes {
			placeholders[i] = "?"
			args = append(args, string(fx))
		}
		where = append(where, "flex IN ("+strings.Join(placeholders, ", ")+")")
	}
	if strings.TrimSpace(filter.SearchText) != "" {
		where = append(where, "(LOWER(manufacturer) LIKE ? OR LOWER(model) LIKE ? OR LOWER(material) LIKE ?)")
		kw := "%" + strings.ToLower(strings.TrimSpace(filter.SearchText)) + "%"
		args = append(args, kw, kw, kw)
	}

	sqlStr := `SELECT ` + selectColumns + ` FROM shafts`
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}
	sqlStr += ` ORDER BY LOWER(manufacturer), LOWER(model), LOWER(generation), club_order, flex_rank`
	return sqlStr, args
}

func scanSpec(scan func(dest ...any) error) (*types.ShaftSpec, error) {
	var (
		spec         types.ShaftSpec
		id           string
		torque       sql.NullFloat64
		length       sql.NullFloat64
		kickpoint    sql.NullString
		launch       sql.NullString
		spin         sql.NullString
		tipStiffness sql.NullString
		butt         sql.NullFloat64
		tip          sql.NullFloat64
		material     sql.NullString
		msrp         sql.NullFloat64
	)
	err := scan(
		&id, &spec.Manufacturer, &spec.Model, &spec.Generation,
		&spec.ClubType, &spec.Flex, &spec.WeightGrams,
		&torque, &length, &kickpoint, &launch, &spin, &tipStiffness,
		&butt, &tip, &material, &msrp,
	)
	if err != nil {
		return nil, err
	}

	spec.TorqueDegrees = floatPtr(torque)
	spec.LengthInches = floatPtr(length)
	spec.Kickpoint = types.Profile(kickpoint.String)
	spec.Launch = types.Profile(launch.String)
	spec.Spin = types.Profile(spin.String)
	spec.TipStiffness = types.TipStiffness(tipStiffness.String)
	spec.ButtDiameterInches = floatPtr(butt)
	spec.TipDiameterInches = floatPtr(tip)
	spec.Material = material.String
	spec.MSRPUSD = floatPtr(msrp)
	return &spec, nil
}

// Manufacturers lists distinct manufacturers, sorted.
func (s *Store) Manufacturers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT manufacturer FROM shafts
		GROUP BY LOWER(manufacturer)
		ORDER BY manufacturer
	`)
	if err != nil {
		return nil, fmt.Errorf("manufacturers: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("manufacturers scan: %w", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("manufacturers rows: %w", err)
	}
	return out, nil
}

// Stats computes aggregates in SQL.
func (s *Store) Stats(ctx context.Context) (*types.Statistics, error) {
	stats := &types.Statistics{
		ByClubType: make(map[types.ClubType]int),
		ByFlex:     make(map[types.Flex]int),
	}

	var weightMin, weightMax, weightMean sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(DISTINCT LOWER(manufacturer)),
			COUNT(DISTINCT LOWER(manufacturer) || char(0) || LOWER(model)),
			MIN(weight_grams), MAX(weight_grams), AVG(weight_grams)
		FROM shafts
	`).Scan(&stats.TotalShafts, &stats.Manufacturers, &stats.Models,
		&weightMin, &weightMax, &weightMean)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	stats.WeightMin = weightMin.Float64
	stats.WeightMax = weightMax.Float64
	stats.WeightMean = weightMean.Float64

	if err := s.countGroup(ctx, `SELECT club_type, COUNT(*) FROM shafts GROUP BY club_type`, func(k string, n int) {
		stats.ByClubType[types.ClubType(k)] = n
	}); err != nil {
		return nil, err
	}
	if err := s.countGroup(ctx, `SELECT flex, COUNT(*) FROM shafts GROUP BY flex`, func(k string, n int) {
		stats.ByFlex[types.Flex(k)] = n
	}); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) countGroup(ctx context.Context, query string, add func(string, int)) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("stats group: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("stats group scan: %w", err)
		}
		add(key, n)
	}
	return rows.Err()
}

// Len returns the record count.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shafts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("len: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func clubOrder(c types.ClubType) int {
	for i, ct := range types.ClubTypes() {
		if ct == c {
			return i
		}
	}
	return len(types.ClubTypes())
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
