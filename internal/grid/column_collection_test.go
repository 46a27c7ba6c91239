package grid_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/gridbind/gridbind/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newView(t *testing.T, widths ...int) (*grid.ColumnCollection, []*grid.ViewColumn) {
	t.Helper()
	cc := grid.NewColumnCollection()
	vv := make([]*grid.ViewColumn, 0, len(widths))
	for i, w := range widths {
		v := grid.NewViewColumn(fmt.Sprintf("c%d", i), w)
		_, err := cc.Add(v)
		require.NoError(t, err)
		vv = append(vv, v)
	}
	return cc, vv
}

func walk(cc *grid.ColumnCollection, include, exclude grid.ColumnState) []string {
	var nn []string
	for v := cc.FirstColumn(include, exclude); v != nil; v = cc.NextColumn(v, include, exclude) {
		nn = append(nn, v.Name())
	}
	return nn
}

func walkBack(cc *grid.ColumnCollection, include, exclude grid.ColumnState) []string {
	var nn []string
	for v := cc.LastColumn(include, exclude); v != nil; v = cc.PreviousColumn(v, include, exclude) {
		nn = append([]string{v.Name()}, nn...)
	}
	return nn
}

func TestColumnCollectionAddInsert(t *testing.T) {
	cc, vv := newView(t, 1, 2, 3)
	assert.Equal(t, []string{"c0", "c1", "c2"}, walk(cc, grid.StateNone, grid.StateNone))

	x := grid.NewViewColumn("x", 4)
	require.NoError(t, cc.Insert(1, x))
	assert.Equal(t, 1, x.Index())
	assert.Equal(t, 1, x.DisplayIndex())
	assert.Equal(t, 2, vv[1].Index())
	assert.Equal(t, 2, vv[1].DisplayIndex())
	assert.Equal(t, []string{"c0", "x", "c1", "c2"}, walk(cc, grid.StateNone, grid.StateNone))

	_, err := cc.Add(x)
	assert.ErrorIs(t, err, grid.ErrColumnOwned)
	assert.ErrorIs(t, cc.Insert(9, grid.NewViewColumn("y", 1)), grid.ErrNoColumn)

	got, ok := cc.ByName("X")
	require.True(t, ok)
	assert.Same(t, x, got)
	assert.Same(t, cc, x.Owner())
}

func TestColumnCollectionDisplayIndex(t *testing.T) {
	cc, vv := newView(t, 1, 1, 1, 1)

	require.NoError(t, cc.SetDisplayIndex(vv[0], 2))
	assert.Equal(t, []string{"c1", "c2", "c0", "c3"}, walk(cc, grid.StateNone, grid.StateNone))
	require.NoError(t, cc.SetDisplayIndex(vv[3], 0))
	assert.Equal(t, []string{"c3", "c1", "c2", "c0"}, walk(cc, grid.StateNone, grid.StateNone))
	assert.Equal(t, walk(cc, grid.StateNone, grid.StateNone), walkBack(cc, grid.StateNone, grid.StateNone))

	assert.ErrorIs(t, cc.SetDisplayIndex(vv[0], 4), grid.ErrDisplayIndex)
	assert.ErrorIs(t, cc.SetDisplayIndex(vv[0], -1), grid.ErrDisplayIndex)
	assert.ErrorIs(t, cc.SetDisplayIndex(grid.NewViewColumn("z", 1), 0), grid.ErrNoColumn)

	require.NoError(t, cc.RemoveAt(1))
	assert.Equal(t, []string{"c3", "c2", "c0"}, walk(cc, grid.StateNone, grid.StateNone))
	for i, v := range cc.Sorted() {
		assert.Equal(t, i, v.DisplayIndex())
	}
}

func TestColumnCollectionFilters(t *testing.T) {
	cc, vv := newView(t, 1, 1, 1, 1)
	require.NoError(t, cc.SetVisible(vv[1], false))
	require.NoError(t, cc.SetFrozen(vv[2], true))
	require.NoError(t, cc.SetSelected(vv[3], true))

	assert.Equal(t, []string{"c0", "c2", "c3"}, walk(cc, grid.StateVisible, grid.StateNone))
	assert.Equal(t, []string{"c0", "c3"}, walk(cc, grid.StateVisible, grid.StateFrozen))
	assert.Equal(t, []string{"c2"}, walk(cc, grid.StateVisible|grid.StateFrozen, grid.StateNone))
	assert.Equal(t, []string{"c1"}, walkBack(cc, grid.StateNone, grid.StateVisible))
	assert.Nil(t, cc.FirstColumn(grid.StateReadOnly, grid.StateNone))
	assert.Nil(t, cc.NextColumn(nil, grid.StateNone, grid.StateNone))
}

func TestColumnCollectionScanFallback(t *testing.T) {
	cc, vv := newView(t, 1, 1, 1, 1)
	require.NoError(t, cc.Remove(vv[1]))

	assert.Nil(t, vv[1].Owner())
	assert.Equal(t, -1, vv[1].Index())
	assert.Equal(t, 1, vv[1].DisplayIndex())
	assert.Same(t, vv[2], cc.NextColumn(vv[1], grid.StateNone, grid.StateNone))
	assert.Same(t, vv[0], cc.PreviousColumn(vv[1], grid.StateNone, grid.StateNone))
	assert.ErrorIs(t, cc.Remove(vv[1]), grid.ErrNoColumn)

	require.NoError(t, cc.SetVisible(vv[2], false))
	assert.Same(t, vv[3], cc.NextColumn(vv[1], grid.StateVisible, grid.StateNone))
}

func TestColumnCollectionAggregates(t *testing.T) {
	cc, vv := newView(t, 10, 20, 30)

	assert.Equal(t, 3, cc.ColumnCount(grid.StateVisible, grid.StateNone))
	assert.Equal(t, 60, cc.ColumnsWidth(grid.StateVisible, grid.StateNone))
	assert.Equal(t, 0, cc.ColumnCount(grid.StateVisible|grid.StateSelected, grid.StateNone))
	assert.Equal(t, 0, cc.ColumnsWidth(grid.StateVisible|grid.StateFrozen, grid.StateNone))

	_, err := cc.Add(grid.NewViewColumn("c3", 5))
	require.NoError(t, err)
	assert.Equal(t, 4, cc.ColumnCount(grid.StateVisible, grid.StateNone))
	assert.Equal(t, 65, cc.ColumnsWidth(grid.StateVisible, grid.StateNone))

	require.NoError(t, cc.SetSelected(vv[0], true))
	require.NoError(t, cc.SetFrozen(vv[0], true))
	require.NoError(t, cc.SetFrozen(vv[1], true))
	assert.Equal(t, 1, cc.ColumnCount(grid.StateVisible|grid.StateSelected, grid.StateNone))
	assert.Equal(t, 30, cc.ColumnsWidth(grid.StateVisible|grid.StateFrozen, grid.StateNone))

	require.NoError(t, cc.SetWidth(vv[1], 25))
	assert.Equal(t, 35, cc.ColumnsWidth(grid.StateVisible|grid.StateFrozen, grid.StateNone))
	assert.Equal(t, 70, cc.ColumnsWidth(grid.StateVisible, grid.StateNone))

	require.NoError(t, cc.Remove(vv[0]))
	assert.Equal(t, 0, cc.ColumnCount(grid.StateVisible|grid.StateSelected, grid.StateNone))
	assert.Equal(t, 25, cc.ColumnsWidth(grid.StateVisible|grid.StateFrozen, grid.StateNone))
	assert.Equal(t, 60, cc.ColumnsWidth(grid.StateVisible, grid.StateNone))

	require.NoError(t, cc.SetVisible(vv[1], false))
	assert.Equal(t, 2, cc.ColumnCount(grid.StateVisible, grid.StateNone))
	assert.Equal(t, 0, cc.ColumnsWidth(grid.StateVisible|grid.StateFrozen, grid.StateNone))
	assert.Equal(t, 1, cc.ColumnCount(grid.StateNone, grid.StateVisible))

	cc.Clear()
	assert.Equal(t, 0, cc.Len())
	assert.Equal(t, 0, cc.ColumnCount(grid.StateVisible, grid.StateNone))
	assert.Nil(t, vv[2].Owner())
}

func TestColumnOrderStaysConsistent(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	cc := grid.NewColumnCollection()
	var next int

	check := func(step int) {
		seen := make(map[*grid.ViewColumn]bool)
		last := -1
		for v := cc.FirstColumn(grid.StateNone, grid.StateNone); v != nil; v = cc.NextColumn(v, grid.StateNone, grid.StateNone) {
			require.False(t, seen[v], "step %d revisits %s", step, v.Name())
			require.GreaterOrEqual(t, v.DisplayIndex(), last, "step %d", step)
			seen[v] = true
			last = v.DisplayIndex()
		}
		require.Len(t, seen, cc.Len(), "step %d", step)

		dd := make(map[int]bool)
		var width, count int
		for i, v := range cc.All() {
			require.Equal(t, i, v.Index())
			dd[v.DisplayIndex()] = true
			if v.Visible() {
				width += v.Width()
				count++
			}
		}
		for i := range cc.Len() {
			require.True(t, dd[i], "step %d misses display index %d", step, i)
		}
		require.Equal(t, count, cc.ColumnCount(grid.StateVisible, grid.StateNone), "step %d", step)
		require.Equal(t, width, cc.ColumnsWidth(grid.StateVisible, grid.StateNone), "step %d", step)
	}

	for step := range 500 {
		n := cc.Len()
		switch op := r.IntN(6); {
		case op == 0 || n == 0:
			_, err := cc.Add(grid.NewViewColumn(fmt.Sprintf("c%d", next), 1+r.IntN(9)))
			require.NoError(t, err)
			next++
		case op == 1:
			require.NoError(t, cc.Insert(r.IntN(n+1), grid.NewViewColumn(fmt.Sprintf("c%d", next), 1+r.IntN(9))))
			next++
		case op == 2 && n > 1:
			require.NoError(t, cc.RemoveAt(r.IntN(n)))
		case op == 3:
			v, _ := cc.At(r.IntN(n))
			require.NoError(t, cc.SetDisplayIndex(v, r.IntN(n)))
		case op == 4:
			v, _ := cc.At(r.IntN(n))
			require.NoError(t, cc.SetVisible(v, r.IntN(2) == 0))
		default:
			v, _ := cc.At(r.IntN(n))
			require.NoError(t, cc.SetWidth(v, r.IntN(20)))
		}
		check(step)
	}
}
