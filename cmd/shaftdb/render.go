package main

import (
	"strconv"

	"github.com/shaftlab/shaftdb/internal/types"
	"github.com/shaftlab/shaftdb/internal/ui"
)

// shaftItem is the JSON row shape for list and show output. It matches the
// REST payload: the record plus its derived ID and display name.
type shaftItem struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	*types.ShaftSpec
}

func newShaftItem(spec *types.ShaftSpec) shaftItem {
	return shaftItem{ID: spec.ID(), DisplayName: spec.DisplayName(), ShaftSpec: spec}
}

func shaftItems(specs []*types.ShaftSpec) []shaftItem {
	items := make([]shaftItem, len(specs))
	for i, spec := range specs {
		items[i] = newShaftItem(spec)
	}
	return items
}

// formatNumber prints a float without trailing zero noise (65 not 65.000000).
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptNumber(v *float64) string {
	if v == nil {
		return ui.AbsentCell
	}
	return formatNumber(*v)
}

func orAbsent(s string) string {
	if s == "" {
		return ui.AbsentCell
	}
	return s
}
