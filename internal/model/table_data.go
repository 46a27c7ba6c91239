package model

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/derailed/tview"
	"github.com/fsnotify/fsnotify"
	"github.com/gridbind/gridbind/internal/dao"
	"github.com/gridbind/gridbind/internal/grid"
	"github.com/gridbind/gridbind/internal/list"
	"github.com/gridbind/gridbind/internal/model1"
	"github.com/rs/zerolog"
)

// DefaultRefreshRate is how often a watched source file is polled when no
// file event arrives.
const DefaultRefreshRate = 2 * time.Second

// Option configures a TableData.
type Option func(*TableData)

// WithRefreshRate sets the file polling interval.
func WithRefreshRate(d time.Duration) Option {
	return func(t *TableData) {
		t.refreshRate = d
	}
}

// WithUpdater sets the function grid mutations are marshaled through,
// typically the UI's QueueUpdateDraw.
func WithUpdater(fn func(func())) Option {
	return func(t *TableData) {
		t.updater = fn
	}
}

// WithLogger sets the model logger.
func WithLogger(l zerolog.Logger) Option {
	return func(t *TableData) {
		t.log = l.With().Str("component", "model").Logger()
	}
}

// TableData binds the rows of a source to a grid and keeps a rendered
// snapshot of it for the UI. Grid access happens on the updater goroutine.
type TableData struct {
	src         dao.Source
	store       *dao.Store
	grid        *grid.DataGrid
	docs        list.List
	data        *model1.TableData
	refreshRate time.Duration
	listeners   []TableListener
	updater     func(func())
	lastErr     error
	merging     bool
	modTime     time.Time
	cancelFn    context.CancelFunc
	log         zerolog.Logger
	mx          sync.RWMutex
}

var _ grid.GridListener = (*TableData)(nil)

// NewTableData creates a table model over a source file.
func NewTableData(src dao.Source, store *dao.Store, g *grid.DataGrid, opts ...Option) *TableData {
	t := TableData{
		src:         src,
		store:       store,
		grid:        g,
		data:        model1.NewTableData(),
		refreshRate: DefaultRefreshRate,
		listeners:   make([]TableListener, 0, 2),
		updater:     func(f func()) { f() },
		log:         zerolog.Nop(),
	}
	for _, o := range opts {
		o(&t)
	}
	g.AddListener(&t)

	return &t
}

// NewListTableData creates a table model over an in-memory list, such as
// the child list of a relation.
func NewListTableData(l list.List, g *grid.DataGrid, opts ...Option) *TableData {
	t := NewTableData(dao.Source{}, nil, g, opts...)
	t.docs = l

	return t
}

// Loaded returns true once the list is bound to the grid.
func (t *TableData) Loaded() bool {
	t.mx.RLock()
	docs := t.docs
	t.mx.RUnlock()

	cm := t.grid.CurrencyManager()
	return docs != nil && cm != nil && cm.DataSource() == docs
}

// Source returns the backing source.
func (t *TableData) Source() dao.Source {
	return t.src
}

// Grid returns the bound grid.
func (t *TableData) Grid() *grid.DataGrid {
	return t.grid
}

// Header returns the table header.
func (t *TableData) Header() model1.Header {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.data.Header()
}

// RowCount returns the number of rows.
func (t *TableData) RowCount() int {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.data.RowCount()
}

// RowEvents returns the current row events.
func (t *TableData) RowEvents() *model1.RowEvents {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.data.RowEvents()
}

// Empty returns true if no data is available.
func (t *TableData) Empty() bool {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.data.Empty()
}

// Peek returns a clone of the current table data.
func (t *TableData) Peek() *model1.TableData {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.data.Clone()
}

// AddListener registers a table listener.
func (t *TableData) AddListener(l TableListener) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.listeners = append(t.listeners, l)
}

// RemoveListener unregisters a table listener.
func (t *TableData) RemoveListener(l TableListener) {
	t.mx.Lock()
	defer t.mx.Unlock()

	t.listeners = slices.DeleteFunc(t.listeners, func(x TableListener) bool {
		return x == l
	})
}

// Load reads the source and binds its rows to the grid.
func (t *TableData) Load(ctx context.Context) error {
	if t.store == nil {
		if t.docs == nil {
			return ErrNoList
		}
		var err error
		t.updater(func() { err = t.bind(t.docs) })
		return err
	}

	docs, mt, err := t.read(ctx)
	if err != nil {
		t.notifyLoadFailed(err)
		return err
	}
	t.updater(func() {
		t.mx.Lock()
		t.modTime = mt
		t.mx.Unlock()
		err = t.bind(docs)
	})

	return err
}

func (t *TableData) read(ctx context.Context) (*list.Documents, time.Time, error) {
	mt, err := t.store.ModTime(t.src)
	if err != nil {
		return nil, mt, fmt.Errorf("stat %s: %w", t.src, err)
	}
	docs, err := t.store.Load(ctx, t.src)
	if err != nil {
		return nil, mt, err
	}

	return docs, mt, nil
}

// bind hands the list to the grid. The grid may reject the first row, which
// the currency manager recovers from; only binding shape errors fail here.
func (t *TableData) bind(l list.List) error {
	t.mx.Lock()
	t.docs = l
	t.data = model1.NewTableData()
	t.mx.Unlock()

	err := t.grid.SetDataBinding(l)
	if err != nil && t.grid.CurrencyManager() == nil {
		t.notifyLoadFailed(err)
		return err
	}
	if err != nil {
		t.GridError(err)
	}
	t.log.Debug().Str("source", t.src.String()).Int("rows", t.grid.RowCount()).Msg("bound")

	return nil
}

// Watch loads the source and polls it for changes until ctx is done or
// Stop is called. A grid that is already bound is not reloaded; the poll
// loop picks up any change made while the model was stopped.
func (t *TableData) Watch(ctx context.Context) error {
	t.mx.Lock()
	if t.cancelFn != nil {
		t.cancelFn()
	}
	watchCtx, cancel := context.WithCancel(ctx)
	t.cancelFn = cancel
	t.mx.Unlock()

	if !t.Loaded() {
		if err := t.Load(watchCtx); err != nil {
			return err
		}
	}
	if t.store != nil {
		go t.watchLoop(watchCtx)
	}

	return nil
}

// watchLoop reloads the source when it changes on disk. File events
// trigger a check; the ticker catches changes the watcher misses.
func (t *TableData) watchLoop(ctx context.Context) {
	t.mx.RLock()
	refreshRate := t.refreshRate
	t.mx.RUnlock()

	if refreshRate <= 0 {
		refreshRate = DefaultRefreshRate
	}

	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()

	var events <-chan fsnotify.Event
	w, err := t.fileWatcher()
	if err != nil {
		t.log.Debug().Err(err).Str("file", t.src.File).Msg("File watch unavailable, polling")
	} else {
		defer func() { _ = w.Close() }()
		events = w.Events
	}

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(evt.Name) != filepath.Clean(t.src.File) || !evt.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
		case <-ticker.C:
		}
		if !t.stale() {
			continue
		}
		if err := t.Refresh(ctx); err != nil {
			t.notifyLoadFailed(err)
		}
	}
}

// fileWatcher watches the directory of the source so files replaced by
// rename are still seen.
func (t *TableData) fileWatcher() (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(t.src.File)); err != nil {
		_ = w.Close()
		return nil, err
	}

	return w, nil
}

func (t *TableData) stale() bool {
	mt, err := t.store.ModTime(t.src)
	if err != nil {
		return false
	}
	t.mx.RLock()
	defer t.mx.RUnlock()

	return !mt.Equal(t.modTime)
}

// Refresh reloads the source and merges the new rows into the bound list,
// so only changed rows raise change notifications.
func (t *TableData) Refresh(ctx context.Context) error {
	if t.store == nil {
		return ErrNoSource
	}
	docs, mt, err := t.read(ctx)
	if err != nil {
		return err
	}
	t.updater(func() {
		t.mx.Lock()
		t.modTime = mt
		t.mx.Unlock()
		err = t.merge(docs)
	})

	return err
}

func (t *TableData) merge(next *list.Documents) error {
	t.mx.RLock()
	cur, ok := t.docs.(*list.Documents)
	t.mx.RUnlock()
	if !ok || !slices.Equal(cur.Schema().Names(), next.Schema().Names()) {
		return t.bind(next)
	}

	t.mx.Lock()
	t.merging = true
	t.mx.Unlock()
	defer func() {
		t.mx.Lock()
		t.merging = false
		t.mx.Unlock()
		t.snapshot()
	}()

	n := min(cur.Len(), next.Len())
	for i := 0; i < n; i++ {
		d, _ := next.Doc(i)
		if err := cur.Replace(i, d.Raw); err != nil {
			return err
		}
	}
	for i := n; i < next.Len(); i++ {
		d, _ := next.Doc(i)
		if err := cur.Append(d.Raw); err != nil {
			return err
		}
	}
	for cur.Len() > next.Len() {
		if err := cur.RemoveAt(cur.Len() - 1); err != nil {
			return err
		}
	}
	t.log.Debug().Str("source", t.src.String()).Int("rows", cur.Len()).Msg("merged")

	return nil
}

// Save commits the pending edit and writes the rows back to the source.
// It must run on the updater goroutine.
func (t *TableData) Save(ctx context.Context) error {
	if t.store == nil {
		return ErrNoSource
	}
	t.mx.RLock()
	docs, ok := t.docs.(*list.Documents)
	t.mx.RUnlock()
	if !ok {
		return ErrNoList
	}

	if err := t.grid.EndEdit(); err != nil {
		return err
	}
	if err := t.store.Save(ctx, t.src, docs); err != nil {
		return err
	}
	if mt, err := t.store.ModTime(t.src); err == nil {
		t.mx.Lock()
		t.modTime = mt
		t.mx.Unlock()
	}

	return nil
}

// Stop stops the watch loop.
func (t *TableData) Stop() {
	t.mx.Lock()
	defer t.mx.Unlock()

	if t.cancelFn != nil {
		t.cancelFn()
		t.cancelFn = nil
	}
}

// GridChanged rebuilds the snapshot.
func (t *TableData) GridChanged(*grid.DataGrid) {
	if _, editing := t.grid.Editing(); !editing {
		t.mx.Lock()
		t.lastErr = nil
		t.mx.Unlock()
	}
	t.snapshot()
}

// CurrentCellChanged rebuilds the snapshot so the cursor follows the grid.
func (t *TableData) CurrentCellChanged(int, int) {
	t.snapshot()
}

// GridError records a rejected edit and passes it on.
func (t *TableData) GridError(err error) {
	t.mx.Lock()
	t.lastErr = err
	t.mx.Unlock()

	t.notifyEditFailed(err)
	t.snapshot()
}

// Sync rebuilds the snapshot from the grid, e.g. after staging an edit.
func (t *TableData) Sync() {
	t.snapshot()
}

func (t *TableData) snapshot() {
	g := t.grid
	t.mx.RLock()
	prev, failed, merging := t.data, t.lastErr != nil, t.merging
	t.mx.RUnlock()
	if merging {
		return
	}

	data := model1.NewTableData()
	if cm := g.CurrencyManager(); cm != nil {
		data.SetName(cm.ListName())
	}
	data.SetCurrent(g.CurrentRowIndex())
	data.SetSort(g.SortState())

	header := make(model1.Header, 0, g.ColumnCount())
	cols := g.DisplayColumns()
	for _, col := range cols {
		c, err := g.Column(col)
		if err != nil {
			continue
		}
		header = append(header, headerColumn(col, c))
	}
	data.SetHeader(header)

	editRow := -1
	if c, ok := g.Editing(); ok {
		editRow, _, _ = c.Editing()
	}
	prevEvents := prev.RowEvents()
	events := model1.NewRowEvents(g.RowCount())
	for r := 0; r < g.RowCount(); r++ {
		row := model1.NewRow(len(header))
		row.ID = strconv.Itoa(r)
		for i, h := range header {
			text, err := g.CellText(r, h.Col)
			if err != nil {
				text = model1.NAValue
			}
			row.Fields[i] = text
		}

		re := model1.NewRowEvent(model1.EventUnchanged, row)
		if old, ok := prevEvents.Get(row.ID); ok && !header.Diff(prev.Header()) {
			if old.Row.Diff(row) {
				re = model1.NewRowEventWithDeltas(row, model1.NewDeltaRow(old.Row, row, header))
			}
		} else if !prevEvents.Empty() {
			re.Kind = model1.EventAdd
		}
		re.Pending = r == editRow
		re.Failed = re.Pending && failed
		events.Add(re)
	}
	data.SetRowEvents(events)

	t.mx.Lock()
	t.data = data
	t.mx.Unlock()

	if events.Empty() {
		t.notifyNoData(data)
		return
	}
	t.notifyDataChanged(data)
}

func headerColumn(col int, c *grid.ColumnStyle) model1.HeaderColumn {
	h := model1.HeaderColumn{
		Name: c.HeaderText(),
		Col:  col,
		Attrs: model1.Attrs{
			Width:    c.Width(),
			ReadOnly: c.ReadOnly(),
			Bool:     c.Kind() == grid.KindBool,
		},
	}
	switch c.Alignment() {
	case grid.AlignCenter:
		h.Align = tview.AlignCenter
	case grid.AlignRight:
		h.Align = tview.AlignRight
	default:
		h.Align = tview.AlignLeft
	}
	if f := c.Field(); f != nil {
		h.Number = f.Type.IsNumeric()
		h.Time = f.Type == list.TypeTime
	}

	return h
}

// notifyNoData notifies listeners that no data is available.
func (t *TableData) notifyNoData(data *model1.TableData) {
	for _, l := range t.listenersCopy() {
		l.TableNoData(data)
	}
}

// notifyDataChanged notifies listeners that data has changed.
func (t *TableData) notifyDataChanged(data *model1.TableData) {
	for _, l := range t.listenersCopy() {
		l.TableDataChanged(data)
	}
}

// notifyLoadFailed notifies listeners that loading failed.
func (t *TableData) notifyLoadFailed(err error) {
	t.log.Warn().Err(err).Str("source", t.src.String()).Msg("load failed")
	for _, l := range t.listenersCopy() {
		l.TableLoadFailed(err)
	}
}

// notifyEditFailed notifies listeners that an edit was rejected.
func (t *TableData) notifyEditFailed(err error) {
	for _, l := range t.listenersCopy() {
		l.TableEditFailed(err)
	}
}

func (t *TableData) listenersCopy() []TableListener {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return slices.Clone(t.listeners)
}
