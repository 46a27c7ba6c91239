package model1

import "slices"

// DeltaRow holds the previous value of every cell that changed between
// two renditions of a row. Unchanged cells are blank.
type DeltaRow []string

func NewDeltaRow(o, n Row, h Header) DeltaRow {
	deltas := make(DeltaRow, len(o.Fields))
	for i, old := range o.Fields {
		if i >= len(n.Fields) {
			continue
		}
		if old != n.Fields[i] && !h.IsTimeCol(i) {
			deltas[i] = old
			if old == "" {
				deltas[i] = NAValue
			}
		}
	}
	return deltas
}

func (d DeltaRow) Diff(r DeltaRow) bool {
	return !slices.Equal(d, r)
}

// Changed reports whether cell i changed.
func (d DeltaRow) Changed(i int) bool {
	return i >= 0 && i < len(d) && d[i] != ""
}

func (d DeltaRow) Customize(cols []int, out DeltaRow) {
	if d.IsBlank() {
		return
	}
	for i, c := range cols {
		if c < 0 {
			continue
		}
		if c < len(d) && i < len(out) {
			out[i] = d[c]
		}
	}
}

func (d DeltaRow) IsBlank() bool {
	if len(d) == 0 {
		return true
	}
	for _, v := range d {
		if v != "" {
			return false
		}
	}
	return true
}

func (d DeltaRow) Clone() DeltaRow {
	res := make(DeltaRow, len(d))
	copy(res, d)
	return res
}
