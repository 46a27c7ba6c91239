// Package binding keeps a single current row over a bound list and moves
// data between that row and the editors bound to it.
package binding

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/gridbind/gridbind/internal/list"
	"github.com/rs/zerolog"
)

// CurrencyManager owns the current position of a bound list. It pushes the
// current row into its bindings, pulls edits back and resynchronizes the
// position when the list notifies a change.
//
// A manager is not safe for concurrent use. Callbacks run synchronously and
// may reenter the manager; phase flags keep nested calls from looping.
type CurrencyManager struct {
	source     any
	list       list.List
	unsub      func()
	position   int
	lastGood   int
	bound      bool
	shouldBind bool
	phase      phase
	mutating   int
	deferred   error
	bindings   []Binding
	listeners  []Listener
	log        zerolog.Logger
}

// NewCurrencyManager returns an unbound manager.
func NewCurrencyManager(opts ...Option) *CurrencyManager {
	c := CurrencyManager{
		position:   -1,
		lastGood:   -1,
		shouldBind: true,
		log:        zerolog.Nop(),
	}
	for _, o := range opts {
		o(&c)
	}

	return &c
}

// Bind returns a manager bound to source.
func Bind(source any, opts ...Option) (*CurrencyManager, error) {
	c := NewCurrencyManager(opts...)
	if err := c.SetDataSource(source); err != nil {
		return nil, err
	}

	return c, nil
}

// SetDataSource binds the manager to source. Arrays and slices are wrapped,
// list sources are resolved once, lists are used as is. Binding the list
// already bound is a no-op.
func (c *CurrencyManager) SetDataSource(source any) error {
	l, err := list.Resolve(source)
	if err != nil {
		return fmt.Errorf("bind %T: %w", source, err)
	}
	if sameList(c.list, l) {
		return nil
	}

	return c.guardList(func() error {
		c.release()
		c.source, c.list = source, l
		if n, ok := l.(list.Notifier); ok {
			c.unsub = n.Subscribe(c.listChanged)
		}
		c.lastGood, c.position = -1, -1
		if l.Len() > 0 {
			c.position = 0
		}
		c.log.Debug().Str("list", c.ListName()).Int("count", l.Len()).Msg("data source bound")

		wasBound := c.bound
		err := c.onItemChanged(-1)
		c.fireListChanged(list.NewChangedEvent(list.Reset, -1))
		err = errors.Join(err, c.updateIsBinding(true))
		if wasBound && c.bound {
			err = errors.Join(err, c.onCurrentChanged())
		}

		return err
	})
}

func sameList(a, b list.List) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)

	return ta == tb && ta.Comparable() && a == b
}

// Close unwires the list notifications. The manager keeps its last state.
func (c *CurrencyManager) Close() {
	c.release()
}

func (c *CurrencyManager) release() {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
}

// DataSource returns the value the manager was bound to.
func (c *CurrencyManager) DataSource() any {
	return c.source
}

// List returns the resolved list or nil when unbound.
func (c *CurrencyManager) List() list.List {
	return c.list
}

// Count returns the number of rows in the bound list.
func (c *CurrencyManager) Count() int {
	if c.list == nil {
		return 0
	}
	return c.list.Len()
}

// Position returns the current row index, -1 when there is none.
func (c *CurrencyManager) Position() int {
	return c.position
}

// LastGoodKnownRow returns the last row successfully pushed, -1 if unknown.
func (c *CurrencyManager) LastGoodKnownRow() int {
	return c.lastGood
}

// IsBinding returns true when the manager has a current row and is not suspended.
func (c *CurrencyManager) IsBinding() bool {
	return c.bound
}

// SetPosition moves the current row. The value is clamped to the list
// bounds. It is ignored when there is no current row.
func (c *CurrencyManager) SetPosition(p int) error {
	if c.list == nil || c.position == -1 {
		return nil
	}
	p = max(0, min(p, c.Count()-1))

	return c.guardList(func() error {
		return c.changeRecordState(p, p != c.position, true, true, false)
	})
}

// Current returns the current row.
func (c *CurrencyManager) Current() (any, error) {
	row, ok := c.currentRow()
	if !ok {
		return nil, ErrNoCurrent
	}
	return row, nil
}

// At returns the row at index i.
func (c *CurrencyManager) At(i int) (any, error) {
	if i < 0 || i >= c.Count() {
		return nil, fmt.Errorf("row %d of %d: %w", i, c.Count(), ErrIndexOutOfRange)
	}
	return c.list.At(i), nil
}

func (c *CurrencyManager) currentRow() (any, bool) {
	if c.list == nil || c.position < 0 || c.position >= c.list.Len() {
		return nil, false
	}
	return c.list.At(c.position), true
}

// ItemProperties returns the row schema of the bound list, if it has one.
func (c *CurrencyManager) ItemProperties() list.Schema {
	if d, ok := c.list.(list.Describer); ok {
		return d.Schema()
	}
	return nil
}

// ListName returns the display name of the bound list.
func (c *CurrencyManager) ListName() string {
	switch l := c.list.(type) {
	case nil:
		return ""
	case list.Named:
		return l.ListName()
	default:
		return fmt.Sprintf("%T", l)
	}
}

// Find returns the first row whose field equals key, or -1.
func (c *CurrencyManager) Find(field string, key any) (int, error) {
	if key == nil {
		return -1, ErrNilKey
	}
	if c.list == nil {
		return -1, ErrNotBound
	}
	if s, ok := c.list.(list.Searcher); ok {
		return s.Find(field, key), nil
	}
	f, ok := c.ItemProperties().Find(field)
	if !ok {
		return -1, fmt.Errorf("find %q in %s: %w", field, c.ListName(), list.ErrUnknownField)
	}
	for i := range c.Count() {
		v, err := f.Value(c.list.At(i))
		if err == nil && list.Equal(v, key) {
			return i, nil
		}
	}

	return -1, nil
}

// SetSort sorts the bound list by field.
func (c *CurrencyManager) SetSort(field string, desc bool) error {
	s, ok := c.list.(list.Sorter)
	if !ok {
		return fmt.Errorf("sort %s: %w", c.ListName(), ErrNotSupported)
	}

	return c.guardList(func() error {
		return s.ApplySort(field, desc)
	})
}

// RemoveSort restores the bound list's natural order.
func (c *CurrencyManager) RemoveSort() error {
	s, ok := c.list.(list.Sorter)
	if !ok {
		return fmt.Errorf("sort %s: %w", c.ListName(), ErrNotSupported)
	}

	return c.guardList(func() error {
		s.RemoveSort()
		return nil
	})
}

// SortField returns the field the bound list is sorted by.
func (c *CurrencyManager) SortField() (string, bool) {
	if s, ok := c.list.(list.Sorter); ok {
		return s.SortField()
	}
	return "", false
}

// AddNew appends a blank row and makes it current.
func (c *CurrencyManager) AddNew() error {
	if c.list == nil {
		return ErrNotBound
	}
	ed, ok := c.list.(list.Editor)
	if !ok {
		return fmt.Errorf("add row to %s: %w", c.ListName(), ErrNotSupported)
	}

	return c.guardList(func() error {
		if _, err := ed.AddNew(); err != nil {
			return fmt.Errorf("add row to %s: %w", c.ListName(), err)
		}
		last := c.Count() - 1
		moving := c.position != last

		return c.changeRecordState(last, moving, moving, true, true)
	})
}

// RemoveAt removes row i from the bound list.
func (c *CurrencyManager) RemoveAt(i int) error {
	if c.list == nil {
		return ErrNotBound
	}
	ed, ok := c.list.(list.Editor)
	if !ok {
		return fmt.Errorf("remove row from %s: %w", c.ListName(), ErrNotSupported)
	}
	if i < 0 || i >= c.Count() {
		return fmt.Errorf("remove row %d of %d: %w", i, c.Count(), ErrIndexOutOfRange)
	}

	return c.guardList(func() error {
		return ed.RemoveAt(i)
	})
}

// EndCurrentEdit pulls editor data into the current row and commits it.
func (c *CurrencyManager) EndCurrentEdit() error {
	return c.guardList(func() error {
		c.endCurrentEdit()
		return nil
	})
}

func (c *CurrencyManager) endCurrentEdit() {
	c.endEditAt(c.position, true)
}

// endEditAt commits the pending edit of row i. Editor data is pulled into
// the row first when pull is set.
func (c *CurrencyManager) endEditAt(i int, pull bool) {
	if i < 0 || i >= c.Count() {
		return
	}
	row := c.list.At(i)
	if pull && !c.pullInto(i, row) {
		return
	}
	if e, ok := row.(list.EditableItem); ok {
		e.EndEdit()
	}
	if nc, ok := c.list.(list.NewItemCommitter); ok {
		nc.EndNew(i)
	}
}

// CancelCurrentEdit discards pending changes of the current row and
// pushes it again.
func (c *CurrencyManager) CancelCurrentEdit() error {
	return c.guardList(func() error {
		row, ok := c.currentRow()
		if !ok {
			return nil
		}
		if e, ok := row.(list.EditableItem); ok {
			e.CancelEdit()
		}
		if nc, ok := c.list.(list.NewItemCommitter); ok {
			nc.CancelNew(c.position)
		}
		if c.position == -1 {
			return nil
		}

		return c.onItemChanged(c.position)
	})
}

// Refresh resynchronizes the manager as if the list had been reset.
func (c *CurrencyManager) Refresh() error {
	if c.list == nil {
		return ErrNotBound
	}

	return c.guardList(func() error {
		switch n := c.Count(); {
		case n == 0:
			c.position = -1
		case c.position >= n:
			c.lastGood, c.position = -1, 0
		}

		return c.dispatchListChanged(list.NewChangedEvent(list.Reset, -1))
	})
}

// SuspendBinding stops pushing rows into bindings. The list is untouched.
func (c *CurrencyManager) SuspendBinding() error {
	return c.guardList(c.suspend)
}

func (c *CurrencyManager) suspend() error {
	c.lastGood = -1
	if !c.shouldBind {
		return nil
	}
	c.shouldBind = false
	c.log.Debug().Str("list", c.ListName()).Msg("binding suspended")

	err := c.updateIsBinding(true)
	if c.position != -1 {
		c.position = -1
		c.firePositionChanged()
	}

	return err
}

// ResumeBinding binds again from the first row. If no row can be pushed the
// manager stays suspended and the error is returned.
func (c *CurrencyManager) ResumeBinding() error {
	return c.guardList(func() error {
		c.lastGood = -1
		if c.shouldBind {
			return nil
		}
		c.shouldBind = true
		c.position = -1
		if c.Count() > 0 {
			c.position = 0
		}
		c.log.Debug().Str("list", c.ListName()).Msg("binding resumed")
		if err := c.updateIsBinding(true); err != nil {
			c.shouldBind = false
			return errors.Join(err, c.updateIsBinding(true))
		}

		return nil
	})
}

// AddBinding attaches b and pushes the current row into it when bound.
func (c *CurrencyManager) AddBinding(b Binding) error {
	c.bindings = append(c.bindings, b)
	if n, ok := b.(BoundNotifier); ok {
		n.BindingStateChanged(c.bound)
	}
	row, ok := c.currentRow()
	if !c.bound || !ok {
		return nil
	}

	return b.Push(row)
}

// RemoveBinding detaches b.
func (c *CurrencyManager) RemoveBinding(b Binding) {
	c.bindings = slices.DeleteFunc(c.bindings, func(x Binding) bool {
		return x == b
	})
}

// AddListener registers l.
func (c *CurrencyManager) AddListener(l Listener) {
	c.listeners = append(c.listeners, l)
}

// RemoveListener unregisters l.
func (c *CurrencyManager) RemoveListener(l Listener) {
	c.listeners = slices.DeleteFunc(c.listeners, func(x Listener) bool {
		return x == l
	})
}

// changeRecordState runs the position change protocol. An out of range
// target fails only while bound; otherwise it is clamped.
func (c *CurrencyManager) changeRecordState(newPos int, validating, endEdit, firePos, pull bool) error {
	count := c.Count()
	if count == 0 && newPos == -1 {
		old := c.position
		c.position = -1
		if old != -1 {
			c.firePositionChanged()
		}
		return nil
	}
	if (newPos < 0 || newPos >= count) && c.bound {
		return fmt.Errorf("move to %d of %d: %w", newPos, count, ErrIndexOutOfRange)
	}

	old := c.position
	if endEdit {
		exit := c.enter(phaseEndingEdit)
		c.endCurrentEdit()
		exit()
	}
	if validating && pull {
		c.pullData()
	}

	c.position = max(-1, min(newPos, c.Count()-1))
	var err error
	if validating {
		err = c.onCurrentChanged()
	}
	if old != c.position && firePos {
		c.firePositionChanged()
	}

	return err
}

func (c *CurrencyManager) onCurrentChanged() error {
	if c.phase.has(phaseEndingEdit) {
		return nil
	}
	prevGood := c.lastGood
	var (
		moved bool
		err   error
	)
	if !c.phase.has(phaseDispatching) {
		moved, err = c.pushWithFallback()
	}
	if row, ok := c.currentRow(); ok {
		if e, ok := row.(list.EditableItem); ok {
			e.BeginEdit()
		}
	}
	// A fallback from an unknown row already settled on a new current row.
	if !moved || prevGood != -1 {
		c.fireCurrentChanged()
	}

	return err
}

func (c *CurrencyManager) onItemChanged(index int) error {
	var (
		moved bool
		err   error
	)
	if (index == c.position || (index == -1 && c.position < c.Count())) && !c.phase.has(phaseEndingEdit) {
		moved, err = c.pushWithFallback()
	}
	c.fireItemChanged(index)
	if moved {
		c.firePositionChanged()
	}

	return err
}

// pushWithFallback pushes the current row. On failure it returns to the
// last good row, then scans for one. It reports whether the position moved.
func (c *CurrencyManager) pushWithFallback() (bool, error) {
	if c.phase.has(phasePulling | phasePushing) {
		return false, nil
	}
	if _, ok := c.currentRow(); !ok {
		return false, nil
	}
	if c.lastGood >= c.Count() {
		c.lastGood = -1
	}

	initial := c.position
	if err := c.pushBindings(); err != nil {
		c.fireDataError(err)
		if c.lastGood != -1 {
			c.log.Debug().Int("row", c.position).Int("lastGood", c.lastGood).Msg("push rejected, reverting")
			c.position = c.lastGood
			err = c.pushBindings()
			if err != nil {
				c.fireDataError(err)
			}
		}
		if err != nil {
			if err := c.findGoodRow(); err != nil {
				return c.position != initial, err
			}
		}
	}
	c.lastGood = c.position

	return c.position != initial, nil
}

func (c *CurrencyManager) findGoodRow() error {
	for i := range c.Count() {
		c.position = i
		if err := c.pushBindings(); err != nil {
			c.fireDataError(err)
			continue
		}
		c.log.Debug().Int("row", i).Msg("good row found")
		return nil
	}
	c.log.Warn().Str("list", c.ListName()).Int("count", c.Count()).Msg("no row accepts data, suspending binding")
	err := fmt.Errorf("%s: %w", c.ListName(), ErrNoGoodRow)
	// Drop the current row first so suspending does not pull into it.
	c.position = -1

	return errors.Join(err, c.suspend())
}

func (c *CurrencyManager) pushBindings() error {
	row, ok := c.currentRow()
	if !ok {
		return nil
	}
	defer c.enter(phasePushing)()
	for _, b := range slices.Clone(c.bindings) {
		if err := b.Push(row); err != nil {
			return err
		}
	}

	return nil
}

// pullData writes editor data into the current row. Pushes raised while
// pulling are dropped.
func (c *CurrencyManager) pullData() bool {
	row, ok := c.currentRow()
	if !ok {
		return true
	}
	return c.pullInto(c.position, row)
}

func (c *CurrencyManager) pullInto(i int, row any) bool {
	defer c.enter(phasePulling)()
	success := true
	for _, b := range slices.Clone(c.bindings) {
		if err := b.Pull(row); err != nil {
			c.log.Warn().Err(err).Int("row", i).Msg("pull failed")
			success = false
		}
	}

	return success
}

func (c *CurrencyManager) updateIsBinding(raise bool) error {
	if c.list == nil {
		return nil
	}
	bound := c.Count() > 0 && c.shouldBind && c.position != -1
	if bound == c.bound {
		return nil
	}
	c.bound = bound
	c.log.Debug().Bool("bound", bound).Str("list", c.ListName()).Msg("binding state changed")

	newPos := -1
	if bound {
		newPos = 0
	}
	err := c.changeRecordState(newPos, bound, c.position != newPos, true, false)
	if c.bound != bound {
		// A nested fallback flipped the state back and already notified.
		return err
	}
	for _, b := range slices.Clone(c.bindings) {
		if n, ok := b.(BoundNotifier); ok {
			n.BindingStateChanged(bound)
		}
	}
	for _, l := range slices.Clone(c.listeners) {
		l.BindingStateChanged(bound)
	}
	if raise {
		err = errors.Join(err, c.onItemChanged(-1))
	}

	return err
}

// guardList runs a manager operation that may mutate the list. Errors
// raised by notifications during fn are returned with its own.
func (c *CurrencyManager) guardList(fn func() error) error {
	c.mutating++
	err := fn()
	if c.mutating--; c.mutating > 0 {
		return err
	}
	err = errors.Join(err, c.deferred)
	c.deferred = nil

	return err
}

func (c *CurrencyManager) deferError(err error) {
	if err == nil {
		return
	}
	if c.mutating > 0 {
		c.deferred = errors.Join(c.deferred, err)
		return
	}
	c.log.Warn().Err(err).Str("list", c.ListName()).Msg("list change resync failed")
	c.fireDataError(err)
}

func (c *CurrencyManager) listChanged(e list.ChangedEvent) {
	c.deferError(c.dispatchListChanged(e))
}

func normalize(e list.ChangedEvent) list.ChangedEvent {
	if e.Kind != list.ItemMoved {
		return e
	}
	switch {
	case e.OldIndex < 0:
		return list.NewChangedEvent(list.ItemAdded, e.NewIndex)
	case e.NewIndex < 0:
		return list.NewChangedEvent(list.ItemDeleted, e.OldIndex)
	}

	return e
}

func (c *CurrencyManager) adjustLastGood(e list.ChangedEvent, count int) {
	switch e.Kind {
	case list.Reset:
		c.lastGood = -1
	case list.ItemAdded:
		if e.NewIndex <= c.lastGood && c.lastGood < count-1 {
			c.lastGood++
		}
	case list.ItemDeleted:
		switch {
		case e.NewIndex == c.lastGood:
			c.lastGood = -1
		case e.NewIndex < c.lastGood:
			c.lastGood--
		}
	case list.ItemMoved:
		if c.lastGood >= 0 {
			c.lastGood = movedIndex(c.lastGood, e.OldIndex, e.NewIndex)
		}
	case list.ItemChanged:
		if e.NewIndex == c.lastGood {
			c.lastGood = -1
		}
	}
}

func (c *CurrencyManager) dispatchListChanged(e list.ChangedEvent) error {
	e = normalize(e)
	count, old := c.Count(), c.position
	c.adjustLastGood(e, count)
	c.log.Debug().
		Stringer("event", e).
		Int("position", old).
		Int("count", count).
		Str("phase", c.phase.String()).
		Msg("list changed")

	if count == 0 {
		return c.collapse(e, old)
	}

	exit := c.enter(phaseDispatching)
	err := c.dispatch(e, count)
	exit()
	c.fireListChanged(e)

	return err
}

// collapse handles a list that became empty.
func (c *CurrencyManager) collapse(e list.ChangedEvent, old int) error {
	c.position = -1
	var err error
	if old != -1 {
		c.firePositionChanged()
		err = c.onCurrentChanged()
	}
	err = errors.Join(err, c.updateIsBinding(false))
	switch {
	case e.Kind == list.Reset, e.Kind == list.ItemDeleted:
		err = errors.Join(err, c.onItemChanged(-1))
	case e.Kind.IsSchemaChange():
		c.fireMetaDataChanged()
	}
	c.fireListChanged(e)

	return err
}

func (c *CurrencyManager) dispatch(e list.ChangedEvent, count int) error {
	pos := c.position
	switch e.Kind {
	case list.Reset:
		target := min(pos, count-1)
		if pos == -1 && c.shouldBind {
			target = 0
		}
		err := c.changeRecordState(target, true, false, true, false)
		err = errors.Join(err, c.updateIsBinding(false))
		return errors.Join(err, c.onItemChanged(-1))

	case list.ItemAdded:
		if e.NewIndex <= pos && pos < count-1 {
			// The current row shifted to pos+1. The change came from the
			// list, so its edit is committed without pulling editor data.
			exit := c.enter(phaseEndingEdit)
			c.endEditAt(pos+1, false)
			exit()
			err := c.changeRecordState(pos+1, true, false, pos != count-2, false)
			err = errors.Join(err, c.updateIsBinding(false))
			err = errors.Join(err, c.onItemChanged(-1))
			if c.position == count-1 {
				c.firePositionChanged()
			}
			return err
		}
		if e.NewIndex == pos && pos == count-1 && pos != -1 {
			c.fireCurrentItemChanged()
		}
		var err error
		if c.position == -1 {
			err = c.changeRecordState(0, false, false, true, false)
		}
		err = errors.Join(err, c.updateIsBinding(false))
		return errors.Join(err, c.onItemChanged(-1))

	case list.ItemDeleted:
		var err error
		switch {
		case e.NewIndex == pos:
			err = c.changeRecordState(min(pos, count-1), true, false, true, false)
		case e.NewIndex < pos:
			err = c.changeRecordState(pos-1, true, false, true, false)
		}
		return errors.Join(err, c.onItemChanged(-1))

	case list.ItemChanged:
		if e.NewIndex == pos {
			c.fireCurrentItemChanged()
		}
		return c.onItemChanged(e.NewIndex)

	case list.ItemMoved:
		target := movedIndex(pos, e.OldIndex, e.NewIndex)
		if pos < 0 || pos >= count || target == pos {
			return c.onItemChanged(-1)
		}
		// Pending editor data follows the current row to its new index.
		exit := c.enter(phaseEndingEdit)
		c.endEditAt(target, true)
		exit()
		err := c.changeRecordState(target, true, false, true, false)
		return errors.Join(err, c.onItemChanged(-1))

	case list.FieldAdded, list.FieldDeleted, list.FieldChanged:
		c.lastGood = -1
		var err error
		switch {
		case pos == -1 && c.shouldBind:
			err = c.changeRecordState(0, true, false, true, false)
		case pos > count-1:
			err = c.changeRecordState(count-1, true, false, true, false)
		}
		err = errors.Join(err, c.updateIsBinding(false))
		c.fireMetaDataChanged()
		return err
	}

	return nil
}

// movedIndex returns the index of row i after a row moves from one index to
// another.
func movedIndex(i, from, to int) int {
	switch {
	case i == from:
		return to
	case from < i && i <= to:
		return i - 1
	case to <= i && i < from:
		return i + 1
	}
	return i
}

func (c *CurrencyManager) fireItemChanged(index int) {
	for _, l := range slices.Clone(c.listeners) {
		l.ItemChanged(index)
	}
}

func (c *CurrencyManager) firePositionChanged() {
	for _, l := range slices.Clone(c.listeners) {
		l.PositionChanged(c.position)
	}
}

func (c *CurrencyManager) fireCurrentChanged() {
	for _, l := range slices.Clone(c.listeners) {
		l.CurrentChanged()
	}
	c.fireCurrentItemChanged()
}

func (c *CurrencyManager) fireCurrentItemChanged() {
	for _, l := range slices.Clone(c.listeners) {
		l.CurrentItemChanged()
	}
}

func (c *CurrencyManager) fireMetaDataChanged() {
	for _, l := range slices.Clone(c.listeners) {
		l.MetaDataChanged()
	}
}

func (c *CurrencyManager) fireListChanged(e list.ChangedEvent) {
	for _, l := range slices.Clone(c.listeners) {
		l.ListChanged(e)
	}
}

func (c *CurrencyManager) fireDataError(err error) {
	c.log.Debug().Err(err).Int("row", c.position).Msg("data error")
	for _, l := range slices.Clone(c.listeners) {
		l.DataError(err)
	}
}
