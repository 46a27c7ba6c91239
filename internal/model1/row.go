package model1

import "slices"

// Fields represents the rendered cells of a row
type Fields []string

// Customize copies the selected columns into out.
func (f Fields) Customize(cols []int, out Fields) {
	for i, c := range cols {
		if c < 0 || c >= len(f) || i >= len(out) {
			continue
		}
		out[i] = f[c]
	}
}

// Diff returns true if the fields differ.
func (f Fields) Diff(o Fields) bool {
	return !slices.Equal(f, o)
}

func (f Fields) Clone() Fields {
	return slices.Clone(f)
}

// Row represents a collection of columns
type Row struct {
	ID     string
	Fields Fields
}

func NewRow(size int) Row {
	return Row{Fields: make([]string, size)}
}

func (r Row) Customize(cols []int) Row {
	out := NewRow(len(cols))
	r.Fields.Customize(cols, out.Fields)
	out.ID = r.ID
	return out
}

func (r Row) Diff(ro Row) bool {
	if r.ID != ro.ID {
		return true
	}
	return r.Fields.Diff(ro.Fields)
}

func (r Row) Clone() Row {
	return Row{
		ID:     r.ID,
		Fields: r.Fields.Clone(),
	}
}

func (r Row) Len() int {
	return len(r.Fields)
}

// Rows represents a collection of rows
type Rows []Row

func (r Rows) Clone() Rows {
	out := make(Rows, len(r))
	for i, row := range r {
		out[i] = row.Clone()
	}
	return out
}
