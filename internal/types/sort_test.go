package types

import "testing"

func TestSortSpecs(t *testing.T) {
	mk := func(mfr, model, gen string, ct ClubType, flex Flex) *ShaftSpec {
		return &ShaftSpec{
			Manufacturer: mfr,
			Model:        model,
			Generation:   gen,
			ClubType:     ct,
			Flex:         flex,
			WeightGrams:  65,
		}
	}

	specs := []*ShaftSpec{
		mk("Project X", "HZRDUS Black", "", ClubWoods, FlexStiff),
		mk("fujikura", "Ventus Blue", "TR", ClubWoods, FlexXStiff),
		mk("Fujikura", "Ventus Blue", "TR", ClubWoods, FlexRegular),
		mk("Fujikura", "Ventus Black", "", ClubWoods, FlexStiff),
		mk("Fujikura", "Ventus Blue", "", ClubWoods, FlexStiff),
		mk("Fujikura", "Ventus Blue", "TR", ClubHybrid, FlexStiff),
		mk("Fujikura", "Ventus Blue", "TR", ClubWoods, FlexStiff),
	}

	SortSpecs(specs)

	wantNames := []string{
		"Fujikura Ventus Black Stiff",
		"Fujikura Ventus Blue Stiff",
		"Fujikura Ventus Blue TR Regular",
		"Fujikura Ventus Blue TR Stiff",
		"fujikura Ventus Blue TR X-Stiff",
		"Fujikura Ventus Blue TR Stiff", // hybrid sorts after woods
		"Project X HZRDUS Black Stiff",
	}
	for i, want := range wantNames {
		if got := specs[i].DisplayName(); got != want {
			t.Errorf("specs[%d] = %q, want %q", i, got, want)
		}
	}

	// Woods family ordering: woods before hybrid for the same model row.
	if specs[5].ClubType != ClubHybrid {
		t.Errorf("expected hybrid record at index 5, got %s", specs[5].ClubType)
	}

	// Flex run within a model reads softest to stiffest.
	if specs[2].Flex != FlexRegular || specs[3].Flex != FlexStiff || specs[4].Flex != FlexXStiff {
		t.Errorf("flex run out of order: %s, %s, %s", specs[2].Flex, specs[3].Flex, specs[4].Flex)
	}
}

func TestSortSpecsDeterministic(t *testing.T) {
	build := func(order []int) []*ShaftSpec {
		base := []*ShaftSpec{
			{Manufacturer: "Accra", Model: "TZ5", ClubType: ClubWoods, Flex: FlexStiff, WeightGrams: 65},
			{Manufacturer: "Accra", Model: "TZ5", ClubType: ClubWoods, Flex: FlexRegular, WeightGrams: 60},
			{Manufacturer: "Accra", Model: "TZ6", ClubType: ClubWoods, Flex: FlexStiff, WeightGrams: 66},
			{Manufacturer: "KBS", Model: "Tour", ClubType: ClubIron, Flex: FlexStiff, WeightGrams: 120},
		}
		out := make([]*ShaftSpec, len(base))
		for i, j := range order {
			out[i] = base[j]
		}
		return out
	}

	a := build([]int{0, 1, 2, 3})
	b := build([]int{3, 2, 1, 0})
	SortSpecs(a)
	SortSpecs(b)

	for i := range a {
		if a[i].ID() != b[i].ID() {
			t.Errorf("insertion order leaked into sort order at index %d: %s vs %s",
				i, a[i].DisplayName(), b[i].DisplayName())
		}
	}
}
