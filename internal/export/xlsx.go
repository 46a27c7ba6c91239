// Package export writes a bound grid to a spreadsheet.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gridbind/gridbind/internal/grid"
	"github.com/gridbind/gridbind/internal/list"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet  = "Sheet1"
	maxSheetName  = 31
	minColWidth   = 8
	invalidSheets = `[]:*?/\`
)

// ErrEmptyGrid is returned when the grid has no visible columns.
var ErrEmptyGrid = errors.New("grid has no columns to export")

// Workbook renders the visible columns of g into a new workbook, header
// first, rows in current sort order.
func Workbook(g *grid.DataGrid) (*excelize.File, error) {
	cols := g.DisplayColumns()
	if len(cols) == 0 {
		return nil, ErrEmptyGrid
	}

	f := excelize.NewFile()
	sheet := SheetName(listName(g))
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeHeader(f, sheet, g, cols); err != nil {
		f.Close()
		return nil, err
	}
	for r := range g.RowCount() {
		for i, col := range cols {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			v, err := cellValue(g, r, col)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("row %d column %d: %w", r, col, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	return f, nil
}

// WriteFile exports g to an xlsx file at path.
func WriteFile(g *grid.DataGrid, path string) error {
	f, err := Workbook(g)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	return nil
}

// SheetName turns a list name into a valid worksheet name.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidSheets, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		return defaultSheet
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}

	return name
}

func listName(g *grid.DataGrid) string {
	if cm := g.CurrencyManager(); cm != nil {
		return cm.ListName()
	}
	return ""
}

func writeHeader(f *excelize.File, sheet string, g *grid.DataGrid, cols []int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for i, col := range cols {
		c, err := g.Column(col)
		if err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, c.HeaderText()); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(max(c.Width(), minColWidth))); err != nil {
			return err
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// cellValue keeps numbers and bools typed and falls back to the formatted
// text for everything else.
func cellValue(g *grid.DataGrid, row, col int) (any, error) {
	c, err := g.Column(col)
	if err != nil {
		return nil, err
	}
	if f := c.Field(); f != nil && (f.Type.IsNumeric() || f.Type == list.TypeBool) {
		v, err := g.CellValue(row, col)
		if err != nil {
			return nil, err
		}
		if v != nil {
			return v, nil
		}
	}

	return g.CellText(row, col)
}
