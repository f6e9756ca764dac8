// Package export serializes the catalog to CSV and JSONL and reads both
// back. Serialized values are canonical only: no vendor vocabulary, no
// alternate units, no derived fields. IDs and display names are recomputed
// on load.
package export

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shaftlab/shaftdb/internal/catalog"
	"github.com/shaftlab/shaftdb/internal/types"
)

// WriteCSV writes records with the canonical header. Absent optionals are
// empty cells; floats use the shortest round-trip form.
func WriteCSV(w io.Writer, specs []*types.ShaftSpec) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(types.FieldNames()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, spec := range specs {
		if err := cw.Write(csvRow(spec)); err != nil {
			return fmt.Errorf("write csv row %s: %w", spec.Key(), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func csvRow(spec *types.ShaftSpec) []string {
	return []string{
		spec.Manufacturer,
		spec.Model,
		spec.Generation,
		string(spec.ClubType),
		string(spec.Flex),
		formatFloat(spec.WeightGrams),
		formatOptFloat(spec.TorqueDegrees),
		formatOptFloat(spec.LengthInches),
		string(spec.Kickpoint),
		string(spec.Launch),
		string(spec.Spin),
		string(spec.TipStiffness),
		formatOptFloat(spec.ButtDiameterInches),
		formatOptFloat(spec.TipDiameterInches),
		spec.Material,
		formatOptFloat(spec.MSRPUSD),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// ReadCSV reads a previously exported canonical CSV. The header must match
// the canonical field names exactly and is validated before any row is
// read. Row errors carry their line number.
func ReadCSV(r io.Reader) ([]*types.ShaftSpec, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	want := types.FieldNames()
	if len(header) != len(want) {
		return nil, fmt.Errorf("csv header has %d columns, want %d", len(header), len(want))
	}
	for i, name := range want {
		if header[i] != name {
			return nil, fmt.Errorf("csv header column %d is %q, want %q", i+1, header[i], name)
		}
	}

	var specs []*types.ShaftSpec
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		spec, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseRow(record []string) (*types.ShaftSpec, error) {
	spec := &types.ShaftSpec{
		Manufacturer: record[0],
		Model:        record[1],
		Generation:   record[2],
		Material:     record[14],
	}

	clubType, err := types.ParseClubType(record[3])
	if err != nil {
		return nil, err
	}
	spec.ClubType = clubType

	flex, err := types.ParseFlex(record[4])
	if err != nil {
		return nil, err
	}
	spec.Flex = flex

	weight, err := strconv.ParseFloat(record[5], 64)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", types.FieldWeight, err)
	}
	spec.WeightGrams = weight

	if spec.TorqueDegrees, err = parseOptFloat(types.FieldTorque, record[6]); err != nil {
		return nil, err
	}
	if spec.LengthInches, err = parseOptFloat(types.FieldLength, record[7]); err != nil {
		return nil, err
	}

	if record[8] != "" {
		profile, err := types.ParseProfile(record[8])
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", types.FieldKickpoint, err)
		}
		spec.Kickpoint = profile
	}
	if record[9] != "" {
		profile, err := types.ParseProfile(record[9])
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", types.FieldLaunch, err)
		}
		spec.Launch = profile
	}
	if record[10] != "" {
		profile, err := types.ParseProfile(record[10])
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", types.FieldSpin, err)
		}
		spec.Spin = profile
	}
	if record[11] != "" {
		ts, err := types.ParseTipStiffness(record[11])
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", types.FieldTipStiffness, err)
		}
		spec.TipStiffness = ts
	}

	if spec.ButtDiameterInches, err = parseOptFloat(types.FieldButtDiameter, record[12]); err != nil {
		return nil, err
	}
	if spec.TipDiameterInches, err = parseOptFloat(types.FieldTipDiameter, record[13]); err != nil {
		return nil, err
	}
	if spec.MSRPUSD, err = parseOptFloat(types.FieldMSRP, record[15]); err != nil {
		return nil, err
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func parseOptFloat(field, cell string) (*float64, error) {
	if cell == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", field, err)
	}
	return &v, nil
}

// WriteJSONL writes one canonical JSON object per line to a temp file in
// the target directory, then atomically renames it into place with mode
// 0600.
func WriteJSONL(path string, specs []*types.ShaftSpec) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure snapshot dir: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer func() {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
	}()

	encoder := json.NewEncoder(tempFile)
	for _, spec := range specs {
		if err := encoder.Encode(spec); err != nil {
			return fmt.Errorf("encode %s: %w", spec.Key(), err)
		}
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("chmod snapshot: %w", err)
	}
	return nil
}

// SnapshotJSONL writes the whole catalog, in canonical store order, to
// path. Returns the record count.
func SnapshotJSONL(ctx context.Context, store catalog.Store, path string) (int, error) {
	specs, err := store.Query(ctx, types.Filter{})
	if err != nil {
		return 0, fmt.Errorf("snapshot query: %w", err)
	}
	if err := WriteJSONL(path, specs); err != nil {
		return 0, err
	}
	return len(specs), nil
}

// RestoreJSONL replays a snapshot into the store. Every line goes through
// Validate and Insert, so a corrupted or duplicated line fails with its
// line number. A missing snapshot file is an empty catalog, not an error.
func RestoreJSONL(ctx context.Context, store catalog.Store, path string) (int, error) {
	file, err := os.Open(path) // #nosec G304 -- snapshot path comes from config
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("open snapshot: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	loaded := 0
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var spec types.ShaftSpec
		if err := json.Unmarshal(line, &spec); err != nil {
			return loaded, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if err := spec.Validate(); err != nil {
			return loaded, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if err := store.Insert(ctx, &spec); err != nil {
			return loaded, fmt.Errorf("line %d: %w", lineNum, err)
		}
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return loaded, fmt.Errorf("read snapshot: %w", err)
	}
	return loaded, nil
}
