package grid

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gridbind/gridbind/internal/binding"
	"github.com/gridbind/gridbind/internal/list"
	"github.com/rs/zerolog"
)

// GridListener observes a data grid.
type GridListener interface {
	// GridChanged fires when rows, columns or styles need a redraw.
	GridChanged(g *DataGrid)

	// CurrentCellChanged fires when the current cell moves.
	CurrentCellChanged(row, col int)

	// GridError reports data errors raised while binding.
	GridError(err error)
}

// Option configures a data grid.
type Option func(*DataGrid)

// WithLogger sets the grid logger.
func WithLogger(l zerolog.Logger) Option {
	return func(g *DataGrid) {
		g.log = l.With().Str("component", "grid").Logger()
	}
}

// WithSettings sets the defaults of derived table styles.
func WithSettings(s Settings) Option {
	return func(g *DataGrid) {
		g.settings = s
	}
}

// WithRegistry sets the column registry of derived table styles.
func WithRegistry(r *Registry) Option {
	return func(g *DataGrid) {
		g.registry = r
	}
}

// WithManagerListener registers l on every currency manager the grid binds.
func WithManagerListener(l binding.Listener) Option {
	return func(g *DataGrid) {
		g.observers = append(g.observers, l)
	}
}

// WithTableStyles installs user table styles.
func WithTableStyles(tt ...*TableStyle) Option {
	return func(g *DataGrid) {
		g.styles = tt
	}
}

// DataGrid is a headless grid model bound to a list through a currency
// manager.
type DataGrid struct {
	cm        *binding.CurrencyManager
	hooks     *binding.ListenerFuncs
	styles    []*TableStyle
	table     *TableStyle
	view      *ColumnCollection
	unsubCols func()
	deriving  bool
	settings  Settings
	registry  *Registry
	col       int
	editing   *ColumnStyle
	pullErr   error
	sortCol   int
	sortDesc  bool
	listeners []GridListener
	observers []binding.Listener
	log       zerolog.Logger
}

var (
	_ binding.Binding       = (*DataGrid)(nil)
	_ binding.BoundNotifier = (*DataGrid)(nil)
	_ StyleListener         = (*DataGrid)(nil)
)

// NewDataGrid returns an unbound grid.
func NewDataGrid(opts ...Option) *DataGrid {
	g := DataGrid{
		settings: DefaultSettings(),
		registry: NewRegistry(),
		view:     NewColumnCollection(),
		sortCol:  -1,
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(&g)
	}

	return &g
}

// CurrencyManager returns the manager of the bound list or nil.
func (g *DataGrid) CurrencyManager() *binding.CurrencyManager { return g.cm }

// TableStyle returns the active table style or nil.
func (g *DataGrid) TableStyle() *TableStyle { return g.table }

// TableStyles returns the user table styles.
func (g *DataGrid) TableStyles() []*TableStyle { return slices.Clone(g.styles) }

// View returns the display column collection.
func (g *DataGrid) View() *ColumnCollection { return g.view }

// Settings returns the grid defaults.
func (g *DataGrid) Settings() Settings { return g.settings }

// AddListener registers a grid listener.
func (g *DataGrid) AddListener(l GridListener) {
	g.listeners = append(g.listeners, l)
}

// RemoveListener unregisters a grid listener.
func (g *DataGrid) RemoveListener(l GridListener) {
	g.listeners = slices.DeleteFunc(g.listeners, func(x GridListener) bool {
		return x == l
	})
}

// SetDataBinding binds the grid to source. A user style whose mapping name
// matches the list name wins, otherwise a default style is derived from the
// list schema. A first row that fails validation triggers the good row
// search of the manager.
func (g *DataGrid) SetDataBinding(source any, styles ...*TableStyle) error {
	if len(styles) > 0 {
		g.styles = styles
	}
	opts := []binding.Option{binding.WithLogger(g.log)}
	for _, l := range g.observers {
		opts = append(opts, binding.WithListener(l))
	}
	cm := binding.NewCurrencyManager(opts...)
	if err := cm.SetDataSource(source); err != nil {
		return err
	}
	if g.cm != nil && !strings.EqualFold(g.cm.ListName(), cm.ListName()) {
		g.view.Clear()
	}
	g.unbind()
	g.cm = cm
	g.hooks = g.listenerFuncs()
	cm.AddListener(g.hooks)
	if err := g.attach(); err != nil {
		return err
	}
	g.log.Debug().Str("list", cm.ListName()).Int("rows", cm.Count()).Msg("bound")

	err := cm.AddBinding(g)
	if err != nil {
		g.log.Debug().Err(err).Msg("first row rejected")
		err = cm.Refresh()
	}
	g.fireChanged()

	return err
}

// Close unbinds the grid.
func (g *DataGrid) Close() {
	g.unbind()
	g.view.Clear()
}

func (g *DataGrid) unbind() {
	if g.cm != nil {
		g.cm.RemoveBinding(g)
		g.cm.RemoveListener(g.hooks)
		g.cm.Close()
		g.cm, g.hooks = nil, nil
	}
	g.detachTable()
	g.editing, g.pullErr = nil, nil
	g.col, g.sortCol, g.sortDesc = 0, -1, false
}

func (g *DataGrid) detachTable() {
	if g.table == nil {
		return
	}
	if g.unsubCols != nil {
		g.unsubCols()
		g.unsubCols = nil
	}
	g.table.RemoveListener(g)
	if g.table.isDefault {
		g.table.Dispose()
	} else {
		g.table.grid = nil
	}
	g.table = nil
}

func (g *DataGrid) userStyle(name string) *TableStyle {
	for _, t := range g.styles {
		if t != nil && strings.EqualFold(t.MappingName(), name) {
			return t
		}
	}
	return nil
}

func (g *DataGrid) attach() error {
	name := g.cm.ListName()
	t := g.userStyle(name)
	if t == nil {
		t = newDefaultTableStyle(name, g.settings, g.registry)
	}
	if t.isDefault || t.columns.Len() == 0 {
		if err := t.SetGridColumnStylesCollection(g.cm); err != nil {
			return err
		}
	}
	g.table = t
	t.SetDataGridInColumns(g)
	t.AddListener(g)
	g.unsubCols = t.columns.Subscribe(func(CollectionAction, *ColumnStyle) {
		if g.deriving {
			return
		}
		g.rebuildView()
		g.fireChanged()
	})
	g.rebuildView()

	return nil
}

// rebuildView recreates the view columns from the table style. Columns that
// survive keep their state, width override and relative display order. New
// columns are displayed last.
func (g *DataGrid) rebuildView() {
	prev := make(map[string]*ViewColumn, len(g.view.items))
	for _, v := range g.view.items {
		prev[strings.ToLower(v.name)] = v
	}
	g.view.Clear()
	if g.table == nil {
		return
	}
	for _, c := range g.table.columns.items {
		v := newStyledColumn(c)
		if p, ok := prev[strings.ToLower(v.name)]; ok {
			carryLayout(v, p)
		}
		_, _ = g.view.Add(v)
	}
	if len(prev) > 0 {
		restoreDisplayOrder(g.view, prev)
	}
	if n := g.table.columns.Len(); g.col >= n {
		g.col = max(0, n-1)
	}
}

func carryLayout(v, p *ViewColumn) {
	const kept = StateVisible | StateFrozen | StateSelected
	v.state = v.state&^kept | p.state&kept
	if p.style != nil && p.width != p.style.Width() {
		v.width = p.width
	}
}

func restoreDisplayOrder(cc *ColumnCollection, prev map[string]*ViewColumn) {
	rank := func(v *ViewColumn) int {
		if p, ok := prev[strings.ToLower(v.name)]; ok {
			return p.displayIndex
		}
		return len(prev) + v.index
	}
	vv := slices.Clone(cc.items)
	slices.SortStableFunc(vv, func(a, b *ViewColumn) int {
		return cmp.Compare(rank(a), rank(b))
	})
	for i, v := range vv {
		v.displayIndex = i
	}
	cc.invalidateAggregates()
	cc.InvalidateColumnsOrder()
}

func (g *DataGrid) listenerFuncs() *binding.ListenerFuncs {
	return &binding.ListenerFuncs{
		OnPositionChanged: func(int) { g.fireCurrentCell() },
		OnItemChanged:     func(int) { g.fireChanged() },
		OnListChanged:     func(list.ChangedEvent) { g.fireChanged() },
		OnMetaDataChanged: g.metaDataChanged,
		OnDataError:       g.fireError,
	}
}

func (g *DataGrid) metaDataChanged() {
	if g.table == nil || g.cm == nil {
		return
	}
	if g.table.isDefault {
		g.deriving = true
		err := g.table.SetGridColumnStylesCollection(g.cm)
		g.deriving = false
		if err != nil {
			g.fireError(err)
			return
		}
	}
	g.table.SetDataGridInColumns(g)
	g.rebuildView()
	g.fireChanged()
}

// Push validates row through the column validators.
func (g *DataGrid) Push(row any) error {
	if g.table == nil {
		return nil
	}
	for _, c := range g.table.columns.items {
		if err := c.Validate(row); err != nil {
			return err
		}
	}

	return nil
}

// Pull commits the pending cell edit when it belongs to the current row.
func (g *DataGrid) Pull(any) error {
	c := g.editing
	if c == nil || g.cm == nil {
		return nil
	}
	row, _, ok := c.Editing()
	if !ok {
		g.editing = nil
		return nil
	}
	if row != g.cm.Position() {
		return nil
	}
	if _, err := c.Commit(g.cm, row); err != nil {
		g.pullErr = err
		return err
	}
	g.editing = nil

	return nil
}

// BindingStateChanged redraws when the manager binds or suspends.
func (g *DataGrid) BindingStateChanged(bool) {
	g.fireChanged()
}

// StyleChanged redraws on style or column changes.
func (g *DataGrid) StyleChanged(_ *TableStyle, c *ColumnStyle) {
	for _, v := range g.view.items {
		if c == nil || v.style == c {
			syncViewColumn(v)
		}
	}
	g.view.visibleWidth, g.view.visibleFrozenWidth = unknown, unknown
	g.fireChanged()
}

func syncViewColumn(v *ViewColumn) {
	if v.style == nil {
		return
	}
	v.headerText, v.width = v.style.HeaderText(), v.style.Width()
	if v.style.ReadOnly() {
		v.state |= StateReadOnly
	} else {
		v.state &^= StateReadOnly
	}
}

// RowCount returns the number of rows.
func (g *DataGrid) RowCount() int {
	if g.cm == nil {
		return 0
	}
	return g.cm.Count()
}

// ColumnCount returns the number of columns of the active style.
func (g *DataGrid) ColumnCount() int {
	if g.table == nil {
		return 0
	}
	return g.table.columns.Len()
}

// Columns returns the columns of the active style.
func (g *DataGrid) Columns() []*ColumnStyle {
	if g.table == nil {
		return nil
	}
	return g.table.columns.All()
}

// Column returns the column at col.
func (g *DataGrid) Column(col int) (*ColumnStyle, error) {
	if g.table == nil {
		return nil, ErrNotBound
	}
	c, ok := g.table.columns.At(col)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoColumn, col)
	}

	return c, nil
}

// ColumnIndex returns the index of the column mapped to name.
func (g *DataGrid) ColumnIndex(name string) (int, bool) {
	if g.table == nil {
		return -1, false
	}
	c, ok := g.table.columns.ByName(name)
	if !ok {
		return -1, false
	}

	return g.table.columns.IndexOf(c), true
}

// DisplayColumns returns the visible column indices in display order.
func (g *DataGrid) DisplayColumns() []int {
	var ii []int
	for v := g.view.FirstColumn(StateVisible, StateNone); v != nil; v = g.view.NextColumn(v, StateVisible, StateNone) {
		ii = append(ii, v.Index())
	}
	return ii
}

// ReadOnly returns true if edits are refused grid wide.
func (g *DataGrid) ReadOnly() bool {
	return g.settings.ReadOnly || (g.table != nil && g.table.ReadOnly())
}

// CurrentRowIndex returns the current row or -1.
func (g *DataGrid) CurrentRowIndex() int {
	if g.cm == nil {
		return -1
	}
	return g.cm.Position()
}

// SetCurrentRowIndex moves to row, committing a pending edit first.
func (g *DataGrid) SetCurrentRowIndex(row int) error {
	if g.cm == nil {
		return ErrNotBound
	}
	if g.editing != nil {
		if err := g.EndEdit(); err != nil {
			return err
		}
	}

	return g.cm.SetPosition(row)
}

// CurrentCell returns the current row and column.
func (g *DataGrid) CurrentCell() (int, int) {
	return g.CurrentRowIndex(), g.col
}

// SetCurrentCell moves to row and col.
func (g *DataGrid) SetCurrentCell(row, col int) error {
	if _, err := g.Column(col); err != nil {
		return err
	}
	moved := g.col != col
	g.col = col
	before := g.CurrentRowIndex()
	if err := g.SetCurrentRowIndex(row); err != nil {
		return err
	}
	if moved && before == g.CurrentRowIndex() {
		g.fireCurrentCell()
	}

	return nil
}

// CellText returns the display text of a cell.
func (g *DataGrid) CellText(row, col int) (string, error) {
	c, err := g.Column(col)
	if err != nil {
		return "", err
	}
	return c.Text(g.cm, row)
}

// CellValue returns the field value of a cell.
func (g *DataGrid) CellValue(row, col int) (any, error) {
	c, err := g.Column(col)
	if err != nil {
		return nil, err
	}
	return c.ValueAt(g.cm, row)
}

// BeginEdit stages text in column col of the current row. A pending edit in
// another column is committed first.
func (g *DataGrid) BeginEdit(col int, text string) error {
	if g.cm == nil {
		return ErrNotBound
	}
	c, err := g.Column(col)
	if err != nil {
		return err
	}
	if g.ReadOnly() {
		return ErrReadOnly
	}
	if err := c.CheckValidDataSource(g.cm); err != nil {
		return err
	}
	pos := g.cm.Position()
	if pos < 0 {
		return binding.ErrNoCurrent
	}
	if g.editing != nil && g.editing != c {
		if _, err := g.editing.Commit(g.cm, pos); err != nil {
			return err
		}
	}
	if err := c.Edit(pos, text); err != nil {
		return err
	}
	g.editing, g.col = c, col

	return nil
}

// Editing returns the column holding a pending edit, if any.
func (g *DataGrid) Editing() (*ColumnStyle, bool) {
	return g.editing, g.editing != nil
}

// EndEdit commits the pending edit through the currency manager.
func (g *DataGrid) EndEdit() error {
	if g.editing == nil || g.cm == nil {
		return nil
	}
	g.pullErr = nil
	err := g.cm.EndCurrentEdit()
	err, g.pullErr = errors.Join(g.pullErr, err), nil

	return err
}

// CancelEdit drops the pending edit and cancels the row edit.
func (g *DataGrid) CancelEdit() error {
	if g.cm == nil {
		return ErrNotBound
	}
	if c := g.editing; c != nil {
		c.Abort(g.cm.Position())
		g.editing = nil
	}

	return g.cm.CancelCurrentEdit()
}

// AddRow appends a new row and makes it current.
func (g *DataGrid) AddRow() error {
	if g.cm == nil {
		return ErrNotBound
	}
	if g.ReadOnly() {
		return ErrReadOnly
	}
	if g.editing != nil {
		if err := g.EndEdit(); err != nil {
			return err
		}
	}

	return g.cm.AddNew()
}

// DeleteCurrentRow removes the current row, dropping its pending edit.
func (g *DataGrid) DeleteCurrentRow() error {
	if g.cm == nil {
		return ErrNotBound
	}
	if g.ReadOnly() {
		return ErrReadOnly
	}
	pos := g.cm.Position()
	if pos < 0 {
		return binding.ErrNoCurrent
	}
	if c := g.editing; c != nil {
		if err := c.CheckValidDataSource(g.cm); err != nil {
			return err
		}
		c.Abort(pos)
		g.editing = nil
	}

	return g.cm.RemoveAt(pos)
}

// Sort orders rows by column col, toggling direction on repeated calls.
func (g *DataGrid) Sort(col int) error {
	c, err := g.Column(col)
	if err != nil {
		return err
	}
	if !g.table.AllowSorting() {
		return ErrSortDisabled
	}
	if err := c.CheckValidDataSource(g.cm); err != nil {
		return err
	}
	desc := g.sortCol == col && !g.sortDesc
	if err := g.cm.SetSort(c.Field().Name, desc); err != nil {
		return err
	}
	g.sortCol, g.sortDesc = col, desc
	g.log.Debug().Str("field", c.Field().Name).Bool("desc", desc).Msg("sorted")

	return nil
}

// SortState returns the sorted column and direction. The column is -1 when
// unsorted.
func (g *DataGrid) SortState() (int, bool) {
	return g.sortCol, g.sortDesc
}

// Relations returns the child list names of the active style.
func (g *DataGrid) Relations() []string {
	if g.table == nil {
		return nil
	}
	return g.table.Relations()
}

// ChildList resolves relation on the current row.
func (g *DataGrid) ChildList(relation string) (list.List, error) {
	if g.cm == nil {
		return nil, ErrNotBound
	}
	if !slices.Contains(g.Relations(), relation) {
		return nil, fmt.Errorf("%w: %q", ErrNoRelation, relation)
	}
	row, err := g.cm.Current()
	if err != nil {
		return nil, err
	}
	f, ok := g.cm.ItemProperties().Find(relation)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoRelation, relation)
	}
	v, err := f.Value(row)
	if err != nil {
		return nil, fmt.Errorf("relation %q: %w", relation, err)
	}

	return list.Resolve(v)
}

func (g *DataGrid) fireChanged() {
	for _, l := range slices.Clone(g.listeners) {
		l.GridChanged(g)
	}
}

func (g *DataGrid) fireCurrentCell() {
	row, col := g.CurrentCell()
	for _, l := range slices.Clone(g.listeners) {
		l.CurrentCellChanged(row, col)
	}
}

func (g *DataGrid) fireError(err error) {
	g.log.Warn().Err(err).Msg("data error")
	for _, l := range slices.Clone(g.listeners) {
		l.GridError(err)
	}
}
