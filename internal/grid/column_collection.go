package grid

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// ColumnState is a set of view column state bits.
type ColumnState uint8

const (
	StateVisible ColumnState = 1 << iota
	StateFrozen
	StateSelected
	StateReadOnly
)

// StateNone matches every column.
const StateNone ColumnState = 0

// Has returns true if all bits are set.
func (s ColumnState) Has(bits ColumnState) bool {
	return s&bits == bits
}

func (s ColumnState) matches(include, exclude ColumnState) bool {
	return s&include == include && s&exclude == 0
}

// ViewColumn is one column of a grid view.
type ViewColumn struct {
	name         string
	headerText   string
	index        int
	displayIndex int
	width        int
	state        ColumnState
	owner        *ColumnCollection
	style        *ColumnStyle
}

// NewViewColumn returns a visible, detached column.
func NewViewColumn(name string, width int) *ViewColumn {
	return &ViewColumn{
		name:         name,
		headerText:   name,
		index:        -1,
		displayIndex: -1,
		width:        width,
		state:        StateVisible,
	}
}

func newStyledColumn(c *ColumnStyle) *ViewColumn {
	v := NewViewColumn(c.MappingName(), c.Width())
	v.headerText, v.style = c.HeaderText(), c
	if c.ReadOnly() {
		v.state |= StateReadOnly
	}

	return v
}

func (v *ViewColumn) Name() string             { return v.name }
func (v *ViewColumn) HeaderText() string       { return v.headerText }
func (v *ViewColumn) Index() int               { return v.index }
func (v *ViewColumn) DisplayIndex() int        { return v.displayIndex }
func (v *ViewColumn) Width() int               { return v.width }
func (v *ViewColumn) State() ColumnState       { return v.state }
func (v *ViewColumn) Style() *ColumnStyle      { return v.style }
func (v *ViewColumn) Visible() bool            { return v.state.Has(StateVisible) }
func (v *ViewColumn) Frozen() bool             { return v.state.Has(StateFrozen) }
func (v *ViewColumn) Selected() bool           { return v.state.Has(StateSelected) }
func (v *ViewColumn) ReadOnly() bool           { return v.state.Has(StateReadOnly) }
func (v *ViewColumn) Owner() *ColumnCollection { return v.owner }

const unknown = -1

// ColumnCollection holds the columns of a grid view with a display ordered
// cache and memoized aggregates.
type ColumnCollection struct {
	items       []*ViewColumn
	itemsSorted []*ViewColumn

	visibleCount         int
	visibleSelectedCount int
	visibleWidth         int
	visibleFrozenWidth   int
}

// NewColumnCollection returns an empty collection.
func NewColumnCollection() *ColumnCollection {
	var cc ColumnCollection
	cc.invalidateAggregates()

	return &cc
}

// Len returns the number of columns.
func (cc *ColumnCollection) Len() int {
	return len(cc.items)
}

// At returns the column at storage index i.
func (cc *ColumnCollection) At(i int) (*ViewColumn, bool) {
	if i < 0 || i >= len(cc.items) {
		return nil, false
	}
	return cc.items[i], true
}

// ByName returns the first column named name, ignoring case.
func (cc *ColumnCollection) ByName(name string) (*ViewColumn, bool) {
	for _, v := range cc.items {
		if strings.EqualFold(v.name, name) {
			return v, true
		}
	}
	return nil, false
}

// All returns the columns in storage order.
func (cc *ColumnCollection) All() []*ViewColumn {
	return slices.Clone(cc.items)
}

// Add appends v at the last display position.
func (cc *ColumnCollection) Add(v *ViewColumn) (int, error) {
	if v.owner != nil {
		return -1, fmt.Errorf("%w: %q", ErrColumnOwned, v.name)
	}
	v.owner, v.index, v.displayIndex = cc, len(cc.items), len(cc.items)
	cc.items = append(cc.items, v)
	cc.adjustAggregates(v, 1)
	cc.InvalidateColumnsOrder()

	return v.index, nil
}

// Insert places v at storage and display index i.
func (cc *ColumnCollection) Insert(i int, v *ViewColumn) error {
	if v.owner != nil {
		return fmt.Errorf("%w: %q", ErrColumnOwned, v.name)
	}
	if i < 0 || i > len(cc.items) {
		return fmt.Errorf("%w: %d", ErrNoColumn, i)
	}
	for _, x := range cc.items {
		if x.displayIndex >= i {
			x.displayIndex++
		}
	}
	v.owner, v.displayIndex = cc, i
	cc.items = slices.Insert(cc.items, i, v)
	cc.reindex(i)
	cc.adjustAggregates(v, 1)
	cc.InvalidateColumnsOrder()

	return nil
}

// Remove drops v from the collection.
func (cc *ColumnCollection) Remove(v *ViewColumn) error {
	if v == nil || v.owner != cc {
		return ErrNoColumn
	}
	return cc.RemoveAt(v.index)
}

// RemoveAt drops the column at storage index i. The removed column keeps its
// display index and loses its storage index.
func (cc *ColumnCollection) RemoveAt(i int) error {
	if i < 0 || i >= len(cc.items) {
		return fmt.Errorf("%w: %d", ErrNoColumn, i)
	}
	v := cc.items[i]
	cc.items = slices.Delete(cc.items, i, i+1)
	for _, x := range cc.items {
		if x.displayIndex > v.displayIndex {
			x.displayIndex--
		}
	}
	cc.reindex(i)
	cc.adjustAggregates(v, -1)
	v.owner, v.index = nil, -1
	cc.InvalidateColumnsOrder()

	return nil
}

// Clear drops all columns.
func (cc *ColumnCollection) Clear() {
	for _, v := range cc.items {
		v.owner, v.index = nil, -1
	}
	cc.items = nil
	cc.invalidateAggregates()
	cc.InvalidateColumnsOrder()
}

// SetDisplayIndex moves v to display position di, shifting the columns in
// between.
func (cc *ColumnCollection) SetDisplayIndex(v *ViewColumn, di int) error {
	if v == nil || v.owner != cc {
		return ErrNoColumn
	}
	if di < 0 || di >= len(cc.items) {
		return fmt.Errorf("%w: %d", ErrDisplayIndex, di)
	}
	old := v.displayIndex
	if old == di {
		return nil
	}
	for _, x := range cc.items {
		switch {
		case x == v:
		case old < di && x.displayIndex > old && x.displayIndex <= di:
			x.displayIndex--
		case di < old && x.displayIndex >= di && x.displayIndex < old:
			x.displayIndex++
		}
	}
	v.displayIndex = di
	cc.InvalidateColumnsOrder()

	return nil
}

// SetVisible shows or hides v.
func (cc *ColumnCollection) SetVisible(v *ViewColumn, b bool) error {
	if err := cc.setState(v, StateVisible, b); err != nil {
		return err
	}
	cc.invalidateAggregates()

	return nil
}

// SetFrozen pins or unpins v.
func (cc *ColumnCollection) SetFrozen(v *ViewColumn, b bool) error {
	if err := cc.setState(v, StateFrozen, b); err != nil {
		return err
	}
	cc.visibleFrozenWidth = unknown

	return nil
}

// SetSelected selects or deselects v.
func (cc *ColumnCollection) SetSelected(v *ViewColumn, b bool) error {
	if err := cc.setState(v, StateSelected, b); err != nil {
		return err
	}
	cc.visibleSelectedCount = unknown

	return nil
}

// SetWidth changes the width of v.
func (cc *ColumnCollection) SetWidth(v *ViewColumn, w int) error {
	if v == nil || v.owner != cc {
		return ErrNoColumn
	}
	if w < 0 {
		w = 0
	}
	v.width = w
	cc.visibleWidth, cc.visibleFrozenWidth = unknown, unknown

	return nil
}

func (cc *ColumnCollection) setState(v *ViewColumn, bit ColumnState, b bool) error {
	if v == nil || v.owner != cc {
		return ErrNoColumn
	}
	if b {
		v.state |= bit
	} else {
		v.state &^= bit
	}

	return nil
}

// InvalidateColumnsOrder drops the display ordered cache.
func (cc *ColumnCollection) InvalidateColumnsOrder() {
	cc.itemsSorted = nil
}

// Sorted returns the columns in display order.
func (cc *ColumnCollection) Sorted() []*ViewColumn {
	return slices.Clone(cc.sorted())
}

func (cc *ColumnCollection) sorted() []*ViewColumn {
	if cc.itemsSorted == nil {
		cc.itemsSorted = slices.Clone(cc.items)
		slices.SortStableFunc(cc.itemsSorted, compareOrder)
	}
	return cc.itemsSorted
}

func compareOrder(a, b *ViewColumn) int {
	if c := cmp.Compare(a.displayIndex, b.displayIndex); c != 0 {
		return c
	}
	return cmp.Compare(a.index, b.index)
}

// FirstColumn returns the first column in display order matching the filters.
func (cc *ColumnCollection) FirstColumn(include, exclude ColumnState) *ViewColumn {
	for _, v := range cc.sorted() {
		if v.state.matches(include, exclude) {
			return v
		}
	}
	return nil
}

// LastColumn returns the last column in display order matching the filters.
func (cc *ColumnCollection) LastColumn(include, exclude ColumnState) *ViewColumn {
	s := cc.sorted()
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].state.matches(include, exclude) {
			return s[i]
		}
	}
	return nil
}

// NextColumn returns the column after start in display order matching the
// filters, or nil.
func (cc *ColumnCollection) NextColumn(start *ViewColumn, include, exclude ColumnState) *ViewColumn {
	if start == nil {
		return nil
	}
	s := cc.sorted()
	i := slices.Index(s, start)
	if i == -1 {
		return cc.scan(start, include, exclude, 1)
	}
	for _, v := range s[i+1:] {
		if v.state.matches(include, exclude) {
			return v
		}
	}

	return nil
}

// PreviousColumn returns the column before start in display order matching
// the filters, or nil.
func (cc *ColumnCollection) PreviousColumn(start *ViewColumn, include, exclude ColumnState) *ViewColumn {
	if start == nil {
		return nil
	}
	s := cc.sorted()
	i := slices.Index(s, start)
	if i == -1 {
		return cc.scan(start, include, exclude, -1)
	}
	for j := i - 1; j >= 0; j-- {
		if s[j].state.matches(include, exclude) {
			return s[j]
		}
	}

	return nil
}

// scan finds the nearest matching column strictly after (dir 1) or before
// (dir -1) start by (DisplayIndex, Index).
func (cc *ColumnCollection) scan(start *ViewColumn, include, exclude ColumnState, dir int) *ViewColumn {
	var best *ViewColumn
	for _, v := range cc.items {
		if v == start || !v.state.matches(include, exclude) {
			continue
		}
		if compareOrder(v, start)*dir <= 0 {
			continue
		}
		if best == nil || compareOrder(v, best)*dir < 0 {
			best = v
		}
	}

	return best
}

// ColumnCount returns the number of columns matching the filters. Visible
// and Visible|Selected counts are memoized.
func (cc *ColumnCollection) ColumnCount(include, exclude ColumnState) int {
	if exclude == StateNone {
		switch include {
		case StateVisible:
			if cc.visibleCount == unknown {
				cc.visibleCount = cc.count(include)
			}
			return cc.visibleCount
		case StateVisible | StateSelected:
			if cc.visibleSelectedCount == unknown {
				cc.visibleSelectedCount = cc.count(include)
			}
			return cc.visibleSelectedCount
		}
	}
	var n int
	for _, v := range cc.items {
		if v.state.matches(include, exclude) {
			n++
		}
	}

	return n
}

// ColumnsWidth returns the summed width of columns matching the filters.
// Visible and Visible|Frozen sums are memoized.
func (cc *ColumnCollection) ColumnsWidth(include, exclude ColumnState) int {
	if exclude == StateNone {
		switch include {
		case StateVisible:
			if cc.visibleWidth == unknown {
				cc.visibleWidth = cc.width(include, exclude)
			}
			return cc.visibleWidth
		case StateVisible | StateFrozen:
			if cc.visibleFrozenWidth == unknown {
				cc.visibleFrozenWidth = cc.width(include, exclude)
			}
			return cc.visibleFrozenWidth
		}
	}

	return cc.width(include, exclude)
}

func (cc *ColumnCollection) count(include ColumnState) int {
	var n int
	for _, v := range cc.items {
		if v.state.matches(include, StateNone) {
			n++
		}
	}
	return n
}

func (cc *ColumnCollection) width(include, exclude ColumnState) int {
	var w int
	for _, v := range cc.items {
		if v.state.matches(include, exclude) {
			w += v.width
		}
	}
	return w
}

// adjustAggregates folds v into the cached aggregates only.
func (cc *ColumnCollection) adjustAggregates(v *ViewColumn, sign int) {
	if !v.Visible() {
		return
	}
	if cc.visibleCount != unknown {
		cc.visibleCount += sign
	}
	if v.Selected() && cc.visibleSelectedCount != unknown {
		cc.visibleSelectedCount += sign
	}
	if cc.visibleWidth != unknown {
		cc.visibleWidth += sign * v.width
	}
	if v.Frozen() && cc.visibleFrozenWidth != unknown {
		cc.visibleFrozenWidth += sign * v.width
	}
}

func (cc *ColumnCollection) invalidateAggregates() {
	cc.visibleCount, cc.visibleSelectedCount = unknown, unknown
	cc.visibleWidth, cc.visibleFrozenWidth = unknown, unknown
}

func (cc *ColumnCollection) reindex(from int) {
	for i := from; i < len(cc.items); i++ {
		cc.items[i].index = i
	}
}
