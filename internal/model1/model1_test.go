package model1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeHeader() Header {
	return Header{
		{Name: "ID", Col: 0, Attrs: Attrs{Number: true}},
		{Name: "NAME", Col: 1},
		{Name: "CREATED", Col: 3, Attrs: Attrs{Time: true}},
		{Name: "SECRET", Col: 4, Attrs: Attrs{Hide: true}},
	}
}

func TestHeaderIndexOf(t *testing.T) {
	h := makeHeader()

	i, ok := h.IndexOf("NAME", false)
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = h.IndexOf("SECRET", false)
	assert.False(t, ok)

	i, ok = h.IndexOf("SECRET", true)
	assert.True(t, ok)
	assert.Equal(t, 3, i)

	i, ok = h.ColIndex(3)
	assert.True(t, ok)
	assert.Equal(t, 2, i)

	_, ok = h.ColIndex(2)
	assert.False(t, ok)
}

func TestHeaderColumnNames(t *testing.T) {
	h := makeHeader()

	assert.Equal(t, []string{"ID", "NAME", "CREATED"}, h.ColumnNames(false))
	assert.Equal(t, []string{"ID", "NAME", "CREATED", "SECRET"}, h.ColumnNames(true))
	assert.Nil(t, Header{}.ColumnNames(true))
}

func TestHeaderDiff(t *testing.T) {
	h := makeHeader()
	c := h.Clone()
	c[1].Decorator = func(s string) string { return s }
	assert.False(t, h.Diff(c))

	c[1].Width = 12
	assert.True(t, h.Diff(c))
	assert.True(t, h.Diff(h[:2]))
}

func TestAttrsMerge(t *testing.T) {
	a := Attrs{Width: 10}
	b := Attrs{Number: true, ReadOnly: true}

	m := a.Merge(b)
	assert.Equal(t, 10, m.Width)
	assert.True(t, m.Number)
	assert.True(t, m.ReadOnly)
}

func TestDeltaRow(t *testing.T) {
	h := makeHeader()
	o := Row{ID: "0", Fields: Fields{"1", "", "2024-01-01", "x"}}
	n := Row{ID: "0", Fields: Fields{"1", "bob", "2024-01-02", "y"}}

	d := NewDeltaRow(o, n, h)
	assert.False(t, d.Changed(0))
	assert.True(t, d.Changed(1))
	assert.Equal(t, NAValue, d[1])
	assert.False(t, d.Changed(2), "time columns are not tracked")
	assert.Equal(t, "x", d[3])
	assert.False(t, d.IsBlank())
	assert.True(t, DeltaRow{"", ""}.IsBlank())
	assert.False(t, d.Diff(d.Clone()))

	out := make(DeltaRow, 2)
	d.Customize([]int{3, 1}, out)
	assert.Equal(t, DeltaRow{"x", NAValue}, out)
}

func TestRowCustomize(t *testing.T) {
	r := Row{ID: "1", Fields: Fields{"a", "b", "c"}}

	c := r.Customize([]int{2, -1, 0})
	assert.Equal(t, Fields{"c", "", "a"}, c.Fields)
	assert.True(t, r.Diff(c))
	assert.False(t, r.Diff(r.Clone()))
}

func TestRowEvents(t *testing.T) {
	re := NewRowEvents(2)
	re.Add(NewRowEvent(EventAdd, Row{ID: "a", Fields: Fields{"1"}}))
	re.Add(NewRowEvent(EventUnchanged, Row{ID: "b", Fields: Fields{"2"}}))
	re.Upsert(NewRowEvent(EventUpdate, Row{ID: "a", Fields: Fields{"3"}}))

	assert.Equal(t, 2, re.Len())
	e, ok := re.Get("a")
	require.True(t, ok)
	assert.Equal(t, EventUpdate, e.Kind)
	assert.Equal(t, Fields{"3"}, e.Row.Fields)

	require.NoError(t, re.Delete("a"))
	assert.Error(t, re.Delete("a"))
	i, ok := re.FindIndex("b")
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	c := re.Clone()
	re.Clear()
	assert.True(t, re.Empty())
	assert.Equal(t, 1, c.Count())
}

func TestDefaultColorer(t *testing.T) {
	uu := map[string]struct {
		re   RowEvent
		want any
	}{
		"std":     {re: RowEvent{Kind: EventUnchanged}, want: StdColor},
		"add":     {re: RowEvent{Kind: EventAdd}, want: AddColor},
		"update":  {re: RowEvent{Kind: EventUpdate}, want: ModColor},
		"delete":  {re: RowEvent{Kind: EventDelete}, want: KillColor},
		"pending": {re: RowEvent{Kind: EventUpdate, Pending: true}, want: PendingColor},
		"failed":  {re: RowEvent{Kind: EventAdd, Pending: true, Failed: true}, want: ErrColor},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.want, DefaultColorer(nil, &u.re))
		})
	}
}

func TestTableData(t *testing.T) {
	td := NewTableData()
	assert.True(t, td.Empty())
	assert.Equal(t, -1, td.Current())
	col, _ := td.Sort()
	assert.Equal(t, -1, col)

	re := NewRowEvents(1)
	re.Add(NewRowEvent(EventAdd, Row{ID: "0", Fields: Fields{"x"}}))
	td.SetHeader(Header{{Name: "A"}})
	td.SetRowEvents(re)
	td.SetName("orders")
	td.SetCurrent(0)
	td.SetSort(0, true)
	td.SetError("boom")

	c := td.Clone()
	assert.Equal(t, 1, c.RowCount())
	assert.Equal(t, "orders", c.Name())
	assert.Equal(t, 0, c.Current())
	col, desc := c.Sort()
	assert.Equal(t, 0, col)
	assert.True(t, desc)
	assert.True(t, td.HasError())
	assert.Equal(t, "boom", td.Error())
}
