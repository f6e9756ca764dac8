package types

import (
	"cmp"
	"slices"
	"strings"
)

// SortSpecs orders records by (manufacturer, model, generation, club_type,
// flex rank), the catalog's canonical order. String fields compare
// case-insensitively; club types follow their canonical listing order,
// woods first. Flex rank is the final tie-break, so a model's flex run
// reads softest to stiffest. Every multi-record result in the system goes
// through this, which is what makes query output deterministic.
func SortSpecs(specs []*ShaftSpec) {
	slices.SortStableFunc(specs, CompareSpecs)
}

// CompareSpecs is the comparison function behind SortSpecs.
func CompareSpecs(a, b *ShaftSpec) int {
	if c := cmp.Compare(strings.ToLower(a.Manufacturer), strings.ToLower(b.Manufacturer)); c != 0 {
		return c
	}
	if c := cmp.Compare(strings.ToLower(a.Model), strings.ToLower(b.Model)); c != 0 {
		return c
	}
	if c := cmp.Compare(strings.ToLower(a.Generation), strings.ToLower(b.Generation)); c != 0 {
		return c
	}
	if c := cmp.Compare(clubTypeOrder(a.ClubType), clubTypeOrder(b.ClubType)); c != 0 {
		return c
	}
	return cmp.Compare(a.Flex.Rank(), b.Flex.Rank())
}

func clubTypeOrder(c ClubType) int {
	order := ClubTypes()
	for i, ct := range order {
		if ct == c {
			return i
		}
	}
	return len(order) // unknown types sort last
}
