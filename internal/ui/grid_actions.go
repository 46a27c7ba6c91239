// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package ui

import (
	"strconv"

	"github.com/gridbind/gridbind/internal/grid"
)

func init() {
	RegisterActions(ScopeAny, []GridAction{
		{
			Key:         KeyS,
			Name:        "Sort",
			Description: "Sort on column, again to reverse",
			Handler: func(g *grid.DataGrid, col int) error {
				return g.Sort(col)
			},
		},
	})

	RegisterActions(ScopeEdit, []GridAction{
		{
			Key:         KeyA,
			Name:        "Add",
			Description: "Append a row",
			Handler: func(g *grid.DataGrid, _ int) error {
				return g.AddRow()
			},
		},
		{
			Key:         KeyU,
			Name:        "Undo",
			Description: "Cancel the pending edit",
			Handler: func(g *grid.DataGrid, _ int) error {
				return g.CancelEdit()
			},
		},
		{
			Key:         KeySpace,
			Name:        "Toggle",
			Description: "Flip a checkbox cell",
			Handler:     toggleCell,
		},
		{
			Key:         KeyShiftD,
			Name:        "Delete",
			Description: "Delete the current row",
			Dangerous:   true,
			Handler: func(g *grid.DataGrid, _ int) error {
				return g.DeleteCurrentRow()
			},
		},
	})
}

// toggleCell flips and commits a bool cell. Other kinds are left alone.
func toggleCell(g *grid.DataGrid, col int) error {
	c, err := g.Column(col)
	if err != nil || c.Kind() != grid.KindBool {
		return err
	}
	v, err := g.CellValue(g.CurrentRowIndex(), col)
	if err != nil {
		return err
	}
	b, _ := v.(bool)
	if err := g.BeginEdit(col, strconv.FormatBool(!b)); err != nil {
		return err
	}

	return g.EndEdit()
}
