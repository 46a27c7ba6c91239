package grid_test

import (
	"time"

	"github.com/gridbind/gridbind/internal/grid"
	"github.com/gridbind/gridbind/internal/list"
)

type line struct {
	Item string
	Qty  int
}

type order struct {
	ID     int
	Sku    string
	Paid   bool
	Due    time.Time
	Note   string
	Secret string
	Lines  *list.Slice[*line]
}

func orderSchema() list.Schema {
	note := list.NewField("Note", func(o *order) string { return o.Note }, func(o *order, v string) { o.Note = v })
	get := note.Get
	note.Get = func(row any) (any, error) {
		v, err := get(row)
		if v == "" {
			return nil, err
		}
		return v, err
	}
	secret := list.NewField("Secret", func(o *order) string { return o.Secret }, nil)
	secret.Hidden = true

	return list.Schema{
		list.NewField("ID", func(o *order) int { return o.ID }, func(o *order, v int) { o.ID = v }),
		list.NewField("Sku", func(o *order) string { return o.Sku }, func(o *order, v string) { o.Sku = v }),
		list.NewField("Paid", func(o *order) bool { return o.Paid }, func(o *order, v bool) { o.Paid = v }),
		list.NewField("Due", func(o *order) time.Time { return o.Due }, func(o *order, v time.Time) { o.Due = v }),
		note,
		secret,
		list.NewField("Lines", func(o *order) *list.Slice[*line] { return o.Lines }, nil),
	}
}

func lineSchema() list.Schema {
	return list.Schema{
		list.NewField("Item", func(l *line) string { return l.Item }, func(l *line, v string) { l.Item = v }),
		list.NewField("Qty", func(l *line) int { return l.Qty }, func(l *line, v int) { l.Qty = v }),
	}
}

func newOrders(skus ...string) *list.Slice[*order] {
	oo := make([]*order, 0, len(skus))
	for i, s := range skus {
		lines := list.NewSlice("lines", []*line{{Item: s + "-a", Qty: 1}, {Item: s + "-b", Qty: 2}}, lineSchema())
		oo = append(oo, &order{
			ID:    i + 1,
			Sku:   s,
			Due:   time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC),
			Lines: lines,
		})
	}
	return list.NewSlice("orders", oo, orderSchema())
}

func columnNames(g *grid.DataGrid) []string {
	var nn []string
	for _, c := range g.Columns() {
		nn = append(nn, c.MappingName())
	}
	return nn
}

type gridEvents struct {
	changed int
	cells   [][2]int
	errs    []error
}

func (e *gridEvents) GridChanged(*grid.DataGrid) { e.changed++ }

func (e *gridEvents) CurrentCellChanged(row, col int) {
	e.cells = append(e.cells, [2]int{row, col})
}

func (e *gridEvents) GridError(err error) { e.errs = append(e.errs, err) }

type styleEvents struct {
	table   int
	columns []*grid.ColumnStyle
}

func (e *styleEvents) StyleChanged(_ *grid.TableStyle, c *grid.ColumnStyle) {
	if c == nil {
		e.table++
		return
	}
	e.columns = append(e.columns, c)
}
