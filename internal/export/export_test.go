package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shaftlab/shaftdb/internal/catalog"
	"github.com/shaftlab/shaftdb/internal/catalog/memory"
	"github.com/shaftlab/shaftdb/internal/types"
)

func fullSpec() *types.ShaftSpec {
	torque := 3.5
	length := 46.0
	butt := 0.6
	tip := 0.335
	msrp := 350.0
	return &types.ShaftSpec{
		Manufacturer:       "Fujikura",
		Model:              "Ventus Blue",
		Generation:         "TR",
		ClubType:           types.ClubWoods,
		Flex:               types.FlexStiff,
		WeightGrams:        65.5,
		TorqueDegrees:      &torque,
		LengthInches:       &length,
		Kickpoint:          types.ProfileMid,
		Launch:             types.ProfileLow,
		Spin:               types.ProfileLow,
		TipStiffness:       types.TipFirm,
		ButtDiameterInches: &butt,
		TipDiameterInches:  &tip,
		Material:           "graphite",
		MSRPUSD:            &msrp,
	}
}

func sparseSpec() *types.ShaftSpec {
	return &types.ShaftSpec{
		Manufacturer: "Project X",
		Model:        "HZRDUS Smoke",
		ClubType:     types.ClubWoods,
		Flex:         types.FlexXStiff,
		WeightGrams:  62,
	}
}

func TestCSVRoundTrip(t *testing.T) {
	specs := []*types.ShaftSpec{fullSpec(), sparseSpec()}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, specs); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if diff := cmp.Diff(specs, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	header := strings.TrimSpace(buf.String())
	want := strings.Join(types.FieldNames(), ",")
	if header != want {
		t.Errorf("header = %q, want %q", header, want)
	}
}

func TestReadCSVHeaderValidation(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			"missing column",
			"manufacturer,model\nFujikura,Ventus Blue\n",
		},
		{
			"renamed column",
			strings.Replace(strings.Join(types.FieldNames(), ","), "weight_grams", "weight", 1) + "\n",
		},
		{
			"empty input",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			if err == nil {
				t.Error("ReadCSV should reject a non-canonical header")
			}
		})
	}
}

func TestReadCSVRowErrors(t *testing.T) {
	header := strings.Join(types.FieldNames(), ",")

	tests := []struct {
		name     string
		row      string
		wantPart string
	}{
		{
			"unknown flex",
			"Fujikura,Ventus Blue,TR,woods,6.0,65,,,,,,,,,,",
			"invalid flex",
		},
		{
			"bad weight",
			"Fujikura,Ventus Blue,TR,woods,Stiff,sixty,,,,,,,,,,",
			"weight_grams",
		},
		{
			"unknown club type",
			"Fujikura,Ventus Blue,TR,driver,Stiff,65,,,,,,,,,,",
			"invalid club type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(header + "\n" + tt.row + "\n"))
			if err == nil {
				t.Fatal("ReadCSV should fail")
			}
			if !strings.Contains(err.Error(), "line 2") {
				t.Errorf("error %q should carry line 2", err)
			}
			if !strings.Contains(err.Error(), tt.wantPart) {
				t.Errorf("error %q should mention %q", err, tt.wantPart)
			}
		})
	}
}

func TestJSONLRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := memory.New()

	// Inserted out of canonical order on purpose.
	for _, spec := range []*types.ShaftSpec{sparseSpec(), fullSpec()} {
		if err := source.Insert(ctx, spec); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "snapshot.jsonl")
	n, err := SnapshotJSONL(ctx, source, path)
	if err != nil {
		t.Fatalf("SnapshotJSONL failed: %v", err)
	}
	if n != 2 {
		t.Errorf("snapshot wrote %d records, want 2", n)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat snapshot: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("snapshot mode = %v, want 0600", info.Mode().Perm())
	}

	// Fujikura sorts before Project X in the snapshot.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("snapshot has %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "Fujikura") {
		t.Errorf("first line = %q, want the Fujikura record", lines[0])
	}

	restored := memory.New()
	loaded, err := RestoreJSONL(ctx, restored, path)
	if err != nil {
		t.Fatalf("RestoreJSONL failed: %v", err)
	}
	if loaded != 2 {
		t.Errorf("restored %d records, want 2", loaded)
	}

	wantSpecs, _ := source.Query(ctx, types.Filter{})
	gotSpecs, _ := restored.Query(ctx, types.Filter{})
	if diff := cmp.Diff(wantSpecs, gotSpecs); diff != "" {
		t.Errorf("restored catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestRestoreJSONLMissingFile(t *testing.T) {
	n, err := RestoreJSONL(context.Background(), memory.New(), filepath.Join(t.TempDir(), "absent.jsonl"))
	if err != nil {
		t.Fatalf("RestoreJSONL on missing file = %v, want nil", err)
	}
	if n != 0 {
		t.Errorf("loaded = %d, want 0", n)
	}
}

func TestRestoreJSONLBadLines(t *testing.T) {
	ctx := context.Background()

	valid := `{"manufacturer":"Fujikura","model":"Ventus Blue","generation":"TR","club_type":"woods","flex":"Stiff","weight_grams":65}`

	t.Run("corrupt json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snapshot.jsonl")
		if err := os.WriteFile(path, []byte(valid+"\n{not json\n"), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		_, err := RestoreJSONL(ctx, memory.New(), path)
		if err == nil || !strings.Contains(err.Error(), "line 2") {
			t.Errorf("RestoreJSONL = %v, want line 2 error", err)
		}
	})

	t.Run("duplicate line", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snapshot.jsonl")
		if err := os.WriteFile(path, []byte(valid+"\n"+valid+"\n"), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		_, err := RestoreJSONL(ctx, memory.New(), path)
		if !errors.Is(err, catalog.ErrDuplicateKey) {
			t.Errorf("RestoreJSONL = %v, want ErrDuplicateKey", err)
		}
		if err == nil || !strings.Contains(err.Error(), "line 2") {
			t.Errorf("RestoreJSONL = %v, want line 2 error", err)
		}
	})

	t.Run("invalid record", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snapshot.jsonl")
		bad := `{"manufacturer":"Fujikura","model":"Ventus Blue","club_type":"woods","flex":"Stiff","weight_grams":-5}`
		if err := os.WriteFile(path, []byte(bad+"\n"), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		_, err := RestoreJSONL(ctx, memory.New(), path)
		if err == nil || !strings.Contains(err.Error(), "line 1") {
			t.Errorf("RestoreJSONL = %v, want line 1 error", err)
		}
	})

	t.Run("blank lines skipped", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snapshot.jsonl")
		if err := os.WriteFile(path, []byte("\n"+valid+"\n\n"), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		n, err := RestoreJSONL(ctx, memory.New(), path)
		if err != nil {
			t.Fatalf("RestoreJSONL failed: %v", err)
		}
		if n != 1 {
			t.Errorf("loaded = %d, want 1", n)
		}
	})
}

func TestWriteJSONLReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.jsonl")

	if err := WriteJSONL(path, []*types.ShaftSpec{fullSpec()}); err != nil {
		t.Fatalf("WriteJSONL failed: %v", err)
	}
	if err := WriteJSONL(path, []*types.ShaftSpec{sparseSpec()}); err != nil {
		t.Fatalf("WriteJSONL overwrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if strings.Contains(string(data), "Fujikura") {
		t.Error("overwrite left old records behind")
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries after write, want 1", len(entries))
	}
}
