package grid_test

import (
	"testing"

	"github.com/gridbind/gridbind/internal/binding"
	"github.com/gridbind/gridbind/internal/grid"
	"github.com/gridbind/gridbind/internal/list"
	"github.com/gridbind/gridbind/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStyleSplitsColumnsAndRelations(t *testing.T) {
	g := grid.NewDataGrid()
	require.NoError(t, g.SetDataBinding(newOrders("a", "b")))

	ts := g.TableStyle()
	require.NotNil(t, ts)
	assert.True(t, ts.IsDefault())
	assert.Equal(t, "orders", ts.MappingName())
	assert.Equal(t, []string{"ID", "Sku", "Paid", "Due", "Note"}, columnNames(g))
	assert.Equal(t, []string{"Lines"}, g.Relations())

	browsable := g.CurrencyManager().ItemProperties().Browsable()
	seen := make(map[string]int)
	for _, c := range g.Columns() {
		require.NotNil(t, c.Field())
		assert.False(t, c.Field().IsRelation(), c.MappingName())
		assert.Equal(t, c.MappingName(), c.HeaderText())
		seen[c.Field().Name]++
	}
	for _, r := range g.Relations() {
		seen[r]++
	}
	assert.Len(t, seen, len(browsable))
	for _, f := range browsable {
		assert.Equal(t, 1, seen[f.Name], f.Name)
	}
}

func TestRegistryColumnKinds(t *testing.T) {
	g := grid.NewDataGrid()
	require.NoError(t, g.SetDataBinding(newOrders("a")))

	byName := func(n string) *grid.ColumnStyle {
		c, ok := g.TableStyle().GridColumnStyles().ByName(n)
		require.True(t, ok, n)
		return c
	}
	assert.Equal(t, grid.KindBool, byName("paid").Kind())
	assert.Equal(t, grid.AlignCenter, byName("Paid").Alignment())
	assert.Equal(t, grid.AlignRight, byName("ID").Alignment())
	assert.IsType(t, render.GeneralNumber{}, byName("ID").Formatter())
	assert.IsType(t, render.ShortDate{}, byName("Due").Formatter())
	assert.IsType(t, render.Text{}, byName("Sku").Formatter())

	txt, err := g.CellText(0, 3)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", txt)
}

func TestRegistryOverride(t *testing.T) {
	r := grid.NewRegistry()
	r.Register(list.TypeString, func(*list.Field, grid.Settings) *grid.ColumnStyle {
		c := grid.NewTextColumn(nil)
		c.SetWidth(30)
		return c
	})
	g := grid.NewDataGrid(grid.WithRegistry(r))
	require.NoError(t, g.SetDataBinding(newOrders("a")))

	c, ok := g.TableStyle().GridColumnStyles().ByName("Sku")
	require.True(t, ok)
	assert.Equal(t, 30, c.Width())
	id, _ := g.TableStyle().GridColumnStyles().ByName("ID")
	assert.Equal(t, 12, id.Width())
}

func TestUserStyleResolvesFields(t *testing.T) {
	sku := grid.NewTextColumn(nil)
	require.NoError(t, sku.SetMappingName("SKU"))
	paid := grid.NewBoolColumn()
	paid.SetHeaderText("Paid")
	lines := grid.NewTextColumn(nil)
	require.NoError(t, lines.SetMappingName("Lines"))

	ts := grid.NewTableStyle("Orders")
	require.NoError(t, ts.GridColumnStyles().AddRange(sku, paid, lines))

	g := grid.NewDataGrid()
	require.NoError(t, g.SetDataBinding(newOrders("a", "b"), ts))

	assert.Same(t, ts, g.TableStyle())
	assert.False(t, ts.IsDefault())
	require.NotNil(t, sku.Field())
	assert.Equal(t, "Sku", sku.Field().Name)
	require.NotNil(t, paid.Field())
	assert.Equal(t, "Paid", paid.Field().Name)
	assert.Nil(t, lines.Field())
	assert.Equal(t, []string{"Lines"}, g.Relations())

	assert.ErrorIs(t, lines.CheckValidDataSource(g.CurrencyManager()), grid.ErrUnboundColumn)
	_, err := g.CellText(0, 2)
	assert.ErrorIs(t, err, grid.ErrUnboundColumn)
	assert.ErrorIs(t, g.BeginEdit(2, "x"), grid.ErrUnboundColumn)

	txt, err := g.CellText(1, 0)
	require.NoError(t, err)
	assert.Equal(t, "b", txt)
}

func TestUserStyleWithoutColumnsDerives(t *testing.T) {
	ts := grid.NewTableStyle("orders")
	g := grid.NewDataGrid()
	require.NoError(t, g.SetDataBinding(newOrders("a"), ts))

	assert.Same(t, ts, g.TableStyle())
	assert.Equal(t, 5, ts.GridColumnStyles().Len())
	c := grid.NewTextColumn(nil)
	require.NoError(t, c.SetMappingName("Extra"))
	_, err := ts.GridColumnStyles().Add(c)
	require.NoError(t, err)
	assert.Equal(t, 6, g.View().Len())
}

func TestCheckValidDataSource(t *testing.T) {
	c := grid.NewTextColumn(nil)
	assert.ErrorIs(t, c.CheckValidDataSource(nil), grid.ErrNotBound)
	assert.ErrorIs(t, c.CheckValidDataSource(binding.NewCurrencyManager()), grid.ErrNotBound)

	cm, err := binding.Bind(newOrders("a"))
	require.NoError(t, err)
	assert.ErrorIs(t, c.CheckValidDataSource(cm), grid.ErrUnboundColumn)
}

func TestColumnStylesCollection(t *testing.T) {
	ts := grid.NewTableStyle("orders")
	cc := ts.GridColumnStyles()

	var actions []grid.CollectionAction
	unsub := cc.Subscribe(func(a grid.CollectionAction, _ *grid.ColumnStyle) {
		actions = append(actions, a)
	})

	a, b := grid.NewTextColumn(nil), grid.NewTextColumn(nil)
	require.NoError(t, a.SetMappingName("Sku"))
	require.NoError(t, b.SetMappingName("sku"))

	i, err := cc.Add(a)
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	assert.Same(t, ts, a.Table())

	_, err = cc.Add(b)
	assert.ErrorIs(t, err, grid.ErrDuplicateMappingName)
	_, err = cc.Add(a)
	assert.ErrorIs(t, err, grid.ErrColumnOwned)

	other := grid.NewTableStyle("other")
	_, err = other.GridColumnStyles().Add(a)
	assert.ErrorIs(t, err, grid.ErrColumnOwned)

	require.NoError(t, b.SetMappingName("ID"))
	_, err = cc.Add(b)
	require.NoError(t, err)
	assert.ErrorIs(t, b.SetMappingName("SKU"), grid.ErrDuplicateMappingName)

	assert.True(t, cc.Contains(b))
	assert.Equal(t, 1, cc.IndexOf(b))
	got, ok := cc.ByName("id")
	require.True(t, ok)
	assert.Same(t, b, got)

	require.NoError(t, cc.Remove(a))
	assert.Nil(t, a.Table())
	assert.ErrorIs(t, cc.Remove(a), grid.ErrNoColumn)
	assert.ErrorIs(t, cc.RemoveAt(5), grid.ErrNoColumn)
	require.NoError(t, cc.Clear())
	assert.Equal(t, 0, cc.Len())

	unsub()
	_, err = cc.Add(a)
	require.NoError(t, err)
	assert.Equal(t, []grid.CollectionAction{
		grid.CollectionAdd,
		grid.CollectionAdd,
		grid.CollectionRemove,
		grid.CollectionRefresh,
	}, actions)
}

func TestDefaultCollectionIsLocked(t *testing.T) {
	g := grid.NewDataGrid()
	require.NoError(t, g.SetDataBinding(newOrders("a")))

	cc := g.TableStyle().GridColumnStyles()
	_, err := cc.Add(grid.NewTextColumn(nil))
	assert.ErrorIs(t, err, grid.ErrDefaultCollection)
	assert.ErrorIs(t, cc.RemoveAt(0), grid.ErrDefaultCollection)
	assert.ErrorIs(t, cc.Clear(), grid.ErrDefaultCollection)
}

func TestColumnUpdateBatching(t *testing.T) {
	ts := grid.NewTableStyle("orders")
	c := grid.NewTextColumn(nil)
	_, err := ts.GridColumnStyles().Add(c)
	require.NoError(t, err)

	var ev styleEvents
	ts.AddListener(&ev)

	c.BeginUpdate()
	c.BeginUpdate()
	c.SetWidth(20)
	c.SetHeaderText("Stock unit")
	c.EndUpdate()
	c.SetAlignment(grid.AlignRight)
	assert.Empty(t, ev.columns)
	c.EndUpdate()
	assert.Len(t, ev.columns, 1)

	c.EndUpdate()
	c.SetWidth(20)
	assert.Len(t, ev.columns, 1)
	c.SetNullText("-")
	assert.Len(t, ev.columns, 2)

	ts.SetReadOnly(true)
	assert.Equal(t, 1, ev.table)
	assert.True(t, c.ReadOnly())
	ts.RemoveListener(&ev)
	ts.SetAllowSorting(false)
	assert.Equal(t, 1, ev.table)
}

func TestNullText(t *testing.T) {
	g := grid.NewDataGrid()
	require.NoError(t, g.SetDataBinding(newOrders("a")))
	col, ok := g.ColumnIndex("Note")
	require.True(t, ok)

	txt, err := g.CellText(0, col)
	require.NoError(t, err)
	assert.Equal(t, render.DefaultNullText, txt)

	g.TableStyle().SetNullText("-")
	txt, _ = g.CellText(0, col)
	assert.Equal(t, "-", txt)

	c, _ := g.Column(col)
	c.SetNullText("")
	txt, _ = g.CellText(0, col)
	assert.Equal(t, "", txt)
}

func TestDisposeReleasesDefaultColumns(t *testing.T) {
	g := grid.NewDataGrid()
	require.NoError(t, g.SetDataBinding(newOrders("a")))
	ts := g.TableStyle()
	cols := g.Columns()

	require.NoError(t, g.SetDataBinding([]string{"x", "y"}))
	assert.NotSame(t, ts, g.TableStyle())
	assert.Nil(t, ts.DataGrid())
	assert.Equal(t, 0, ts.GridColumnStyles().Len())
	for _, c := range cols {
		assert.Nil(t, c.Table())
	}
}
