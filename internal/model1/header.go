package model1

import (
	"fmt"
	"reflect"
)

// Attrs represents column attributes
type Attrs struct {
	Align     int  // tview alignment
	Width     int  // preferred width in cells
	Time      bool // date column
	Number    bool // numeric column
	Bool      bool // checkbox column
	ReadOnly  bool // not editable
	Hide      bool // always hidden
	Decorator DecoratorFunc
}

// Merge fills unset attributes from b.
func (a Attrs) Merge(b Attrs) Attrs {
	if a.Align == 0 {
		a.Align = b.Align
	}
	if a.Width == 0 {
		a.Width = b.Width
	}
	if !a.Hide {
		a.Hide = b.Hide
	}
	if !a.Time {
		a.Time = b.Time
	}
	if !a.Number {
		a.Number = b.Number
	}
	if !a.Bool {
		a.Bool = b.Bool
	}
	if !a.ReadOnly {
		a.ReadOnly = b.ReadOnly
	}
	if a.Decorator == nil {
		a.Decorator = b.Decorator
	}
	return a
}

// HeaderColumn represents a table header column
type HeaderColumn struct {
	Name string
	// Col is the grid column index backing this header column.
	Col int
	Attrs
}

func (h HeaderColumn) String() string {
	return fmt.Sprintf("%s [%d::%d::%t]", h.Name, h.Col, h.Align, h.ReadOnly)
}

func (h HeaderColumn) Clone() HeaderColumn {
	return h
}

// Header represents a table header (slice of columns)
type Header []HeaderColumn

func (h Header) Clone() Header {
	he := make(Header, 0, len(h))
	for _, c := range h {
		he = append(he, c.Clone())
	}
	return he
}

// Diff returns true if the headers differ. Decorators are ignored.
func (h Header) Diff(header Header) bool {
	if len(h) != len(header) {
		return true
	}
	for i := range h {
		a, b := h[i], header[i]
		a.Decorator, b.Decorator = nil, nil
		if !reflect.DeepEqual(a, b) {
			return true
		}
	}
	return false
}

// IndexOf returns the position of a named column.
func (h Header) IndexOf(colName string, includeHidden bool) (int, bool) {
	for i, c := range h {
		if c.Hide && !includeHidden {
			continue
		}
		if c.Name == colName {
			return i, true
		}
	}
	return -1, false
}

// ColIndex returns the header position of a grid column.
func (h Header) ColIndex(col int) (int, bool) {
	for i, c := range h {
		if c.Col == col {
			return i, true
		}
	}
	return -1, false
}

func (h Header) IsTimeCol(col int) bool {
	if col < 0 || col >= len(h) {
		return false
	}
	return h[col].Time
}

func (h Header) IsNumberCol(col int) bool {
	if col < 0 || col >= len(h) {
		return false
	}
	return h[col].Number
}

func (h Header) ColumnNames(hidden bool) []string {
	if len(h) == 0 {
		return nil
	}
	cc := make([]string, 0, len(h))
	for _, c := range h {
		if !hidden && c.Hide {
			continue
		}
		cc = append(cc, c.Name)
	}
	return cc
}
