package vocab

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shaftlab/shaftdb/internal/types"
)

func projectXPack() Pack {
	return Pack{
		Manufacturer: "Project X",
		Flex: map[string]string{
			"5.5": "Regular",
			"6.0": "Stiff",
			"6.5": "X-Stiff",
			"7.0": "TX",
		},
		ClubType: map[string]string{
			"driver": "woods",
			"fw":     "fairway",
		},
		Launch: map[string]string{
			"low/mid": "Low-Mid",
			"mid":     "Mid",
		},
		TipStiffness: map[string]string{
			"extra firm": "Very Firm",
		},
	}
}

func TestCompileAndLookup(t *testing.T) {
	table, err := Compile(projectXPack(), "test")
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	if flex, ok := table.Flex("6.0"); !ok || flex != types.FlexStiff {
		t.Errorf("Flex(6.0) = %v, %v; want Stiff, true", flex, ok)
	}
	if flex, ok := table.Flex("  6.0  "); !ok || flex != types.FlexStiff {
		t.Errorf("Flex with padding = %v, %v; want Stiff, true", flex, ok)
	}
	if _, ok := table.Flex("7.5"); ok {
		t.Error("Flex(7.5) should be unmapped")
	}
	if ct, ok := table.ClubType("DRIVER"); !ok || ct != types.ClubWoods {
		t.Errorf("ClubType(DRIVER) = %v, %v; want woods, true", ct, ok)
	}
	if l, ok := table.Launch("Low/Mid"); !ok || l != types.ProfileLowMid {
		t.Errorf("Launch(Low/Mid) = %v, %v; want Low-Mid, true", l, ok)
	}
	if ts, ok := table.TipStiffness("Extra  Firm"); !ok || ts != types.TipVeryFirm {
		t.Errorf("TipStiffness(Extra  Firm) = %v, %v; want Very Firm, true", ts, ok)
	}
}

func TestCompileRejectsBadPacks(t *testing.T) {
	tests := []struct {
		name   string
		pack   Pack
		errMsg string
	}{
		{
			name:   "missing manufacturer",
			pack:   Pack{Flex: map[string]string{"r": "Regular"}},
			errMsg: "manufacturer is required",
		},
		{
			name: "unknown canonical flex",
			pack: Pack{
				Manufacturer: "Acme",
				Flex:         map[string]string{"6.0": "Tour Stiff"},
			},
			errMsg: "invalid flex",
		},
		{
			name: "unknown canonical club type",
			pack: Pack{
				Manufacturer: "Acme",
				ClubType:     map[string]string{"driver": "drivers"},
			},
			errMsg: "invalid club type",
		},
		{
			name: "ambiguous folded keys",
			pack: Pack{
				Manufacturer: "Acme",
				Flex: map[string]string{
					"X Stiff":  "X-Stiff",
					"x  stiff": "TX",
				},
			},
			errMsg: "ambiguous mapping",
		},
		{
			name: "empty key",
			pack: Pack{
				Manufacturer: "Acme",
				Flex:         map[string]string{"   ": "Regular"},
			},
			errMsg: "empty mapping key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.pack, "test")
			if err == nil {
				t.Fatalf("Compile() expected error containing %q, got nil", tt.errMsg)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Compile() error = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestCompileAcceptsCaseInsensitiveTargets(t *testing.T) {
	table, err := Compile(Pack{
		Manufacturer: "Acme",
		Flex:         map[string]string{"s": "stiff"},
		Kickpoint:    map[string]string{"rear": "high"},
	}, "test")
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if flex, _ := table.Flex("s"); flex != types.FlexStiff {
		t.Errorf("target case folding failed: got %v", flex)
	}
	if kp, _ := table.Kickpoint("rear"); kp != types.ProfileHigh {
		t.Errorf("kickpoint target case folding failed: got %v", kp)
	}
}

func writePack(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const projectXTOML = `manufacturer = "Project X"

[flex]
"5.5" = "Regular"
"6.0" = "Stiff"
"6.5" = "X-Stiff"

[club_type]
"driver" = "woods"
`

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "projectx.toml", projectXTOML)
	writePack(t, dir, "fujikura.toml", `manufacturer = "Fujikura"

[flex]
"r" = "Regular"
"s" = "Stiff"
"x" = "X-Stiff"
`)
	writePack(t, dir, "notes.txt", "not a pack")

	reg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("LoadDir() loaded %d packs, want 2", reg.Len())
	}

	table, ok := reg.Table("project x")
	if !ok {
		t.Fatal("registry should find Project X case-insensitively")
	}
	if flex, _ := table.Flex("6.0"); flex != types.FlexStiff {
		t.Errorf("Flex(6.0) = %v, want Stiff", flex)
	}

	mfrs := reg.Manufacturers()
	if len(mfrs) != 2 || mfrs[0] != "Fujikura" || mfrs[1] != "Project X" {
		t.Errorf("Manufacturers() = %v", mfrs)
	}
}

func TestLoadDirMissingIsEmpty(t *testing.T) {
	reg, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("LoadDir() on missing dir: %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("missing dir should load empty registry, got %d packs", reg.Len())
	}
}

func TestLoadDirDuplicateManufacturer(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "a.toml", "manufacturer = \"Acme\"\n")
	writePack(t, dir, "b.toml", "manufacturer = \"ACME\"\n")

	_, err := LoadDir(dir)
	if err == nil || !strings.Contains(err.Error(), "duplicate vocabulary pack") {
		t.Errorf("LoadDir() error = %v, want duplicate pack error", err)
	}
}

func TestLint(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "good.toml", projectXTOML)
	writePack(t, dir, "bad.toml", `manufacturer = "Acme"

[flex]
"6.0" = "Tour Stiff"
`)
	writePack(t, dir, "dupe.toml", "manufacturer = \"project x\"\n")

	problems, err := Lint(dir)
	if err != nil {
		t.Fatalf("Lint() error: %v", err)
	}
	if len(problems) != 2 {
		t.Fatalf("Lint() found %d problems, want 2: %+v", len(problems), problems)
	}
	var sawBadTarget, sawDup bool
	for _, p := range problems {
		if strings.Contains(p.Message, "invalid flex") {
			sawBadTarget = true
		}
		if strings.Contains(p.Message, "duplicate pack") {
			sawDup = true
		}
	}
	if !sawBadTarget || !sawDup {
		t.Errorf("Lint() problems missing expected findings: %+v", problems)
	}
}

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"6.0", "6.0"},
		{"  Stiff  ", "stiff"},
		{"X  -  Stiff", "x - stiff"},
		{"Extra\tFirm", "extra firm"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CanonicalKey(tt.raw); got != tt.want {
			t.Errorf("CanonicalKey(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
