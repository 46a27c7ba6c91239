// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/gridbind/gridbind/internal/binding"
	"github.com/gridbind/gridbind/internal/config/data"
	"github.com/gridbind/gridbind/internal/grid"
	"github.com/gridbind/gridbind/internal/model"
	"github.com/gridbind/gridbind/internal/model1"
	"github.com/gridbind/gridbind/internal/ui"
)

// Browser shows the rows of a bound list and edits them through its grid.
type Browser struct {
	*Table

	model    *model.TableData
	source   *data.SourceContext
	confirm  *ui.Confirm
	alert    *ui.Alert
	applied  bool
	cancelFn context.CancelFunc
	mx       sync.RWMutex
}

// NewBrowser returns a browser over m. source carries the stored layout of
// a file backed list and is nil for child lists.
func NewBrowser(app *App, m *model.TableData, source *data.SourceContext) *Browser {
	return &Browser{
		Table:  NewTable(app, listName(m)),
		model:  m,
		source: source,
	}
}

func listName(m *model.TableData) string {
	if cm := m.Grid().CurrencyManager(); cm != nil {
		return cm.ListName()
	}
	return m.Source().Name()
}

// Init initializes the browser component.
func (b *Browser) Init(ctx context.Context) error {
	if err := b.Table.Init(ctx); err != nil {
		return err
	}
	b.confirm = ui.NewConfirm(b.app.Content)
	b.alert = ui.NewAlert(b.app.Content)
	b.SetSelectFn(b.selectCell)
	b.SetEnterFn(b.enterCmd)
	b.bindKeys(b.Actions())
	b.model.AddListener(b)

	return nil
}

// Model returns the table model.
func (b *Browser) Model() *model.TableData {
	return b.model
}

// Grid returns the bound grid.
func (b *Browser) Grid() *grid.DataGrid {
	return b.model.Grid()
}

// Start loads the list and watches its source.
func (b *Browser) Start() {
	b.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	b.mx.Lock()
	b.cancelFn = cancel
	b.mx.Unlock()

	watch := func() {
		if err := b.load(ctx); err != nil {
			b.app.Flash().Err(err)
			return
		}
		b.app.Sync(b.applyLayout)
	}
	if b.app.IsRunning() {
		go watch()
		return
	}
	watch()
}

// load binds the list once, watching the source file when the source
// allows it.
func (b *Browser) load(ctx context.Context) error {
	if b.source == nil || b.source.FeatureGates.AutoReload {
		return b.model.Watch(ctx)
	}
	if b.model.Loaded() {
		return nil
	}

	return b.model.Load(ctx)
}

// Stop terminates browser updates.
func (b *Browser) Stop() {
	b.mx.Lock()
	defer b.mx.Unlock()

	if b.cancelFn != nil {
		b.cancelFn()
		b.cancelFn = nil
	}
	b.model.Stop()
}

// Name returns the component name for breadcrumbs.
func (b *Browser) Name() string {
	return b.Table.Name()
}

// Hints returns menu hints for this browser.
func (b *Browser) Hints() ui.MenuHints {
	return b.Actions().Hints()
}

func (b *Browser) bindKeys(aa *ui.KeyActions) {
	aa.Bulk(ui.KeyMap{
		tcell.KeyCtrlS: ui.NewKeyAction("Save", b.saveCmd, true),
		tcell.KeyCtrlR: ui.NewKeyAction("Reload", b.reloadCmd, true),
		ui.KeyD:        ui.NewKeyAction("Describe", b.describeCmd, true),
		ui.KeyE:        ui.NewKeyAction("Edit Cell", b.editCellCmd, true),
		ui.KeyShiftE:   ui.NewKeyAction("Edit Row", b.editRowCmd, true),
		ui.KeyR:        ui.NewKeyAction("Relations", b.relationsCmd, true),
		ui.KeyShiftH:   ui.NewKeyAction("Hide Column", b.hideColumnCmd, true),
		ui.KeyLess:     ui.NewKeyAction("Move Left", b.moveColumnCmd(-1), true),
		ui.KeyMore:     ui.NewKeyAction("Move Right", b.moveColumnCmd(1), true),
	})
	b.bindGridActions(aa)
}

// bindGridActions adds the registered grid actions available on the grid.
func (b *Browser) bindGridActions(aa *ui.KeyActions) {
	for _, a := range ui.GetActions(b.Grid()) {
		aa.Add(a.Key, ui.NewKeyActionWithOpts(a.Name, b.gridActionCmd(a.Key), ui.ActionOpts{
			Visible:   true,
			Dangerous: a.Dangerous,
		}))
	}
}

func (b *Browser) gridActionCmd(key tcell.Key) ui.ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		g := b.Grid()
		action := ui.GetAction(g, key)
		if action == nil {
			return nil
		}
		if !action.Dangerous {
			b.runGridAction(action)
			return nil
		}
		b.confirm.
			SetMessage(fmt.Sprintf("%s row %d of %s?", action.Name, g.CurrentRowIndex()+1, b.Name())).
			SetDangerous(true).
			SetOnConfirm(func() {
				b.runGridAction(action)
				b.app.SetFocus(b)
			}).
			SetOnCancel(func() { b.app.SetFocus(b) })
		b.confirm.Show()
		b.app.SetFocus(b.confirm)

		return nil
	}
}

func (b *Browser) runGridAction(a *ui.GridAction) {
	g := b.Grid()
	_, col := g.CurrentCell()
	if err := a.Handler(g, col); err != nil {
		b.app.Flash().Errf("%s: %v", a.Name, err)
		return
	}
	b.app.Flash().Infof("%s done", a.Name)
}

func (b *Browser) selectCell(row, col int) {
	if err := b.Grid().SetCurrentCell(row, col); err != nil {
		b.app.Flash().Err(err)
	}
}

func (b *Browser) enterCmd(evt *tcell.EventKey) *tcell.EventKey {
	if len(b.Grid().Relations()) > 0 {
		return b.relationsCmd(evt)
	}
	return b.describeCmd(evt)
}

func (b *Browser) saveCmd(*tcell.EventKey) *tcell.EventKey {
	if err := b.Save(); err != nil {
		b.app.Flash().Err(err)
		return nil
	}
	b.app.Flash().Infof("Saved %s", b.model.Source())

	return nil
}

// Save writes the rows back to the source and stores the grid layout.
func (b *Browser) Save() error {
	if err := b.model.Save(context.Background()); err != nil {
		return err
	}
	if b.source == nil {
		return nil
	}
	b.storeLayout()

	return b.app.Config().GridBind.SaveSource()
}

func (b *Browser) reloadCmd(*tcell.EventKey) *tcell.EventKey {
	b.Reload()
	return nil
}

// Reload merges the current file content into the grid.
func (b *Browser) Reload() {
	reload := func() {
		err := b.model.Refresh(context.Background())
		switch {
		case errors.Is(err, model.ErrNoSource):
			b.app.Flash().Warn("Child lists reload with their parent")
		case err != nil:
			b.app.Flash().Err(err)
		default:
			b.app.Flash().Infof("Reloaded %s", b.model.Source())
		}
	}
	if b.app.IsRunning() {
		go reload()
		return
	}
	reload()
}

func (b *Browser) describeCmd(*tcell.EventKey) *tcell.EventKey {
	if err := b.app.Push(NewDescribe(b.app, b.Grid())); err != nil {
		b.app.Flash().Err(err)
	}
	return nil
}

func (b *Browser) editCellCmd(*tcell.EventKey) *tcell.EventKey {
	g := b.Grid()
	row, col := g.CurrentCell()
	c, err := g.Column(col)
	if err != nil {
		b.app.Flash().Err(err)
		return nil
	}
	if g.ReadOnly() || c.ReadOnly() {
		b.app.Flash().Warnf("%s is read-only", c.HeaderText())
		return nil
	}
	text, err := g.CellText(row, col)
	if err != nil {
		b.app.Flash().Err(err)
		return nil
	}
	if text == c.NullText() {
		text = ""
	}
	b.app.CmdBar().ActivateEdit(c.HeaderText(), text, func(s string) {
		if err := b.EditCell(col, s); err != nil {
			b.app.Flash().Err(err)
		}
	})

	return nil
}

// EditCell stages text in column col of the current row and commits it.
func (b *Browser) EditCell(col int, text string) error {
	g := b.Grid()
	if err := g.BeginEdit(col, text); err != nil {
		return err
	}
	b.model.Sync()

	return g.EndEdit()
}

func (b *Browser) editRowCmd(*tcell.EventKey) *tcell.EventKey {
	if b.Grid().ReadOnly() {
		b.app.Flash().Warn("Grid is read-only")
		return nil
	}
	err := EditRow(b.app.Application, b.Grid())
	switch {
	case errors.Is(err, ErrEditorCancelled):
		b.app.Flash().Info("Edit cancelled")
	case errors.Is(err, ErrNoChanges):
		b.app.Flash().Info("No changes detected")
	case err != nil:
		b.app.Flash().Errf("Edit failed: %v", err)
	default:
		b.app.Flash().Info("Row updated")
	}

	return nil
}

func (b *Browser) relationsCmd(*tcell.EventKey) *tcell.EventKey {
	rr := b.Grid().Relations()
	switch len(rr) {
	case 0:
		b.app.Flash().Warnf("%s has no relations", b.Name())
	case 1:
		if err := b.OpenRelation(rr[0]); err != nil {
			b.app.Flash().Err(err)
		}
	default:
		b.app.Flash().Infof("Relations: %s", strings.Join(rr, ", "))
		b.app.CmdBar().Activate(ui.ModeCommand)
		b.app.CmdBar().SetText("relations ")
	}

	return nil
}

// OpenRelation pushes a read-only browser over the relation's child list of
// the current row.
func (b *Browser) OpenRelation(relation string) error {
	if b.source != nil && !b.source.FeatureGates.RelationDrillDown {
		return fmt.Errorf("%w: %s", ErrDrillDownDisabled, b.source.File)
	}
	l, err := b.Grid().ChildList(relation)
	if err != nil {
		return err
	}
	g := grid.NewDataGrid(b.app.GridOptions(true)...)
	m := model.NewListTableData(l, g, b.app.ModelOptions()...)
	child := NewBrowser(b.app, m, nil)
	child.SetName(relation)

	return b.app.Push(child)
}

func (b *Browser) hideColumnCmd(*tcell.EventKey) *tcell.EventKey {
	g := b.Grid()
	_, col := g.CurrentCell()
	if err := b.SetColumnVisible(col, false); err != nil {
		b.app.Flash().Err(err)
	}
	return nil
}

// SetColumnVisible shows or hides column col.
func (b *Browser) SetColumnVisible(col int, visible bool) error {
	g := b.Grid()
	v, ok := g.View().At(col)
	if !ok {
		return fmt.Errorf("%w: %d", grid.ErrNoColumn, col)
	}
	if !visible && g.View().ColumnCount(grid.StateVisible, grid.StateNone) <= 1 {
		return errors.New("cannot hide the last visible column")
	}
	if err := g.View().SetVisible(v, visible); err != nil {
		return err
	}
	b.model.Sync()

	return nil
}

// ShowColumns makes every column visible again.
func (b *Browser) ShowColumns() {
	view := b.Grid().View()
	for _, v := range view.All() {
		_ = view.SetVisible(v, true)
	}
	b.model.Sync()
}

func (b *Browser) moveColumnCmd(delta int) ui.ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		_, col := b.Grid().CurrentCell()
		if err := b.MoveColumn(col, delta); err != nil {
			b.app.Flash().Warn(err.Error())
		}
		return nil
	}
}

// MoveColumn shifts column col by delta display positions.
func (b *Browser) MoveColumn(col, delta int) error {
	view := b.Grid().View()
	v, ok := view.At(col)
	if !ok {
		return fmt.Errorf("%w: %d", grid.ErrNoColumn, col)
	}
	if err := view.SetDisplayIndex(v, v.DisplayIndex()+delta); err != nil {
		return err
	}
	b.model.Sync()

	return nil
}

// applyLayout restores the stored sort and column layout once per bind.
func (b *Browser) applyLayout() {
	b.mx.Lock()
	if b.applied || b.source == nil {
		b.mx.Unlock()
		return
	}
	b.applied = true
	b.mx.Unlock()

	if err := ApplyLayout(b.Grid(), b.source); err != nil {
		b.app.Flash().Warn(err.Error())
	}
	b.model.Sync()
}

// ApplyLayout restores the stored column order, visibility, widths and
// sort of src onto a bound grid.
func ApplyLayout(g *grid.DataGrid, src *data.SourceContext) error {
	view := g.View()
	layout := src.GetView()
	for i, name := range layout.Columns {
		if v, ok := view.ByName(name); ok {
			_ = view.SetDisplayIndex(v, min(i, view.Len()-1))
		}
	}
	for _, v := range view.All() {
		if layout.IsHidden(v.Name()) {
			_ = view.SetVisible(v, false)
		}
		w, ok := layout.Widths[v.Name()]
		switch {
		case !ok:
		case v.Style() != nil:
			v.Style().SetWidth(w)
		default:
			_ = view.SetWidth(v, w)
		}
	}

	if field, desc := src.Sort(); field != "" {
		if err := SortBy(g, field, desc); err != nil {
			return fmt.Errorf("sort %s: %w", field, err)
		}
	}

	return nil
}

// storeLayout records the current sort and column layout in the source
// settings.
func (b *Browser) storeLayout() {
	g := b.Grid()
	if col, desc := g.SortState(); col >= 0 {
		if c, err := g.Column(col); err == nil {
			b.source.SetSort(c.MappingName(), desc)
		}
	}

	view := b.source.GetView()
	view.Columns = view.Columns[:0]
	for _, v := range g.View().Sorted() {
		view.Columns = append(view.Columns, v.Name())
		view.SetHidden(v.Name(), !v.Visible())
		if c := v.Style(); c != nil && c.Width() != g.TableStyle().PreferredColumnWidth() {
			view.SetWidth(v.Name(), c.Width())
		}
	}
	b.source.SetView(view)
}

// SortBy orders g by the column mapped to field.
func SortBy(g *grid.DataGrid, field string, desc bool) error {
	col, ok := g.ColumnIndex(field)
	if !ok {
		return fmt.Errorf("%w: %q", grid.ErrNoColumn, field)
	}
	for range 2 {
		if cur, curDesc := g.SortState(); cur == col && curDesc == desc {
			return nil
		}
		if err := g.Sort(col); err != nil {
			return err
		}
	}

	return nil
}

// TableNoData notifies view no data is available.
func (b *Browser) TableNoData(data *model1.TableData) {
	b.app.QueueUpdateDraw(func() { b.UpdateUI(data) })
}

// TableDataChanged notifies view new data is available.
func (b *Browser) TableDataChanged(data *model1.TableData) {
	b.app.QueueUpdateDraw(func() {
		b.SetPalette(b.Grid().TableStyle().Colors())
		b.UpdateUI(data)
		if b.source != nil {
			src := b.model.Source()
			b.app.SetSourceInfo(SourceInfoData{
				File:     src.File,
				Format:   string(src.Format),
				Rows:     b.model.RowCount(),
				ReadOnly: b.Grid().ReadOnly(),
			})
		}
	})
}

// TableLoadFailed notifies view something went wrong.
func (b *Browser) TableLoadFailed(err error) {
	b.app.QueueUpdateDraw(func() { b.Table.TableLoadFailed(err) })
	b.app.Flash().Err(err)
}

// TableEditFailed reports a rejected edit. A list whose bindings were
// suspended is reported in an alert.
func (b *Browser) TableEditFailed(err error) {
	if !errors.Is(err, binding.ErrNoGoodRow) || b.alert == nil {
		b.app.Flash().Err(err)
		return
	}
	b.app.QueueUpdateDraw(func() {
		b.alert.ShowError("Bindings suspended for "+b.Name(), err, func() { b.app.SetFocus(b) })
		b.app.SetFocus(b.alert)
	})
}
