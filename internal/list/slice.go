package list

import (
	"fmt"
	"sort"
)

// Slice is an observable list of rows of type T with an explicit schema.
type Slice[T any] struct {
	subscribers

	name       string
	items      []T
	schema     Schema
	newItem    func() T
	pendingNew int
	sortField  string
	sortDesc   bool
	sorted     bool
}

// NewSlice returns a list over items described by schema.
func NewSlice[T any](name string, items []T, schema Schema) *Slice[T] {
	return &Slice[T]{
		name:       name,
		items:      items,
		schema:     schema,
		pendingNew: -1,
	}
}

// SetNewItem sets the factory used by AddNew.
func (s *Slice[T]) SetNewItem(fn func() T) *Slice[T] {
	s.newItem = fn
	return s
}

// ListName returns the list name.
func (s *Slice[T]) ListName() string {
	return s.name
}

// Len returns the number of rows.
func (s *Slice[T]) Len() int {
	return len(s.items)
}

// At returns the row at i or nil if out of range.
func (s *Slice[T]) At(i int) any {
	if i < 0 || i >= len(s.items) {
		return nil
	}
	return s.items[i]
}

// Item returns the typed row at i.
func (s *Slice[T]) Item(i int) (T, bool) {
	if i < 0 || i >= len(s.items) {
		var zero T
		return zero, false
	}
	return s.items[i], true
}

// Items returns a copy of the rows.
func (s *Slice[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Set replaces the row at i.
func (s *Slice[T]) Set(i int, v any) error {
	if i < 0 || i >= len(s.items) {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	t, ok := v.(T)
	if !ok {
		return fmt.Errorf("%w: expected %T, got %T", ErrValueType, *new(T), v)
	}
	s.items[i] = t
	s.notify(NewChangedEvent(ItemChanged, i))
	return nil
}

// Append adds rows at the tail.
func (s *Slice[T]) Append(vv ...T) {
	for _, v := range vv {
		s.items = append(s.items, v)
		s.notify(NewChangedEvent(ItemAdded, len(s.items)-1))
	}
}

// Insert adds a row at index i.
func (s *Slice[T]) Insert(i int, v T) error {
	if i < 0 || i > len(s.items) {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	s.items = append(s.items, v)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = v
	if s.pendingNew >= i {
		s.pendingNew++
	}
	s.notify(NewChangedEvent(ItemAdded, i))
	return nil
}

// RemoveAt removes the row at index i.
func (s *Slice[T]) RemoveAt(i int) error {
	if i < 0 || i >= len(s.items) {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	switch {
	case s.pendingNew == i:
		s.pendingNew = -1
	case s.pendingNew > i:
		s.pendingNew--
	}
	s.notify(NewChangedEvent(ItemDeleted, i))
	return nil
}

// Move relocates the row at from to index to.
func (s *Slice[T]) Move(from, to int) error {
	if from < 0 || from >= len(s.items) {
		return fmt.Errorf("%w: %d", ErrIndex, from)
	}
	if to < 0 || to >= len(s.items) {
		return fmt.Errorf("%w: %d", ErrIndex, to)
	}
	if from == to {
		return nil
	}
	v := s.items[from]
	s.items = append(s.items[:from], s.items[from+1:]...)
	s.items = append(s.items, v)
	copy(s.items[to+1:], s.items[to:])
	s.items[to] = v
	s.notify(NewMovedEvent(to, from))
	return nil
}

// Replace swaps all rows and raises a reset.
func (s *Slice[T]) Replace(items []T) {
	s.items = items
	s.pendingNew = -1
	s.notify(NewChangedEvent(Reset, -1))
}

// Clear removes all rows.
func (s *Slice[T]) Clear() {
	s.Replace(nil)
}

// NotifyChanged raises ItemChanged for a row mutated in place.
func (s *Slice[T]) NotifyChanged(i int) {
	if i < 0 || i >= len(s.items) {
		return
	}
	s.notify(NewChangedEvent(ItemChanged, i))
}

// AddNew appends a row built by the item factory and marks it pending.
func (s *Slice[T]) AddNew() (int, error) {
	if s.newItem == nil {
		return -1, fmt.Errorf("%w: no item factory for %q", ErrNotSupported, s.name)
	}
	s.items = append(s.items, s.newItem())
	s.pendingNew = len(s.items) - 1
	s.notify(NewChangedEvent(ItemAdded, s.pendingNew))
	return s.pendingNew, nil
}

// PendingNew returns the index of the uncommitted new row or -1.
func (s *Slice[T]) PendingNew() int {
	return s.pendingNew
}

// EndNew commits the pending new row.
func (s *Slice[T]) EndNew(i int) {
	if i >= 0 && i == s.pendingNew {
		s.pendingNew = -1
	}
}

// CancelNew discards the pending new row.
func (s *Slice[T]) CancelNew(i int) {
	if i < 0 || i != s.pendingNew {
		return
	}
	s.pendingNew = -1
	_ = s.RemoveAt(i)
}

// Schema returns the row schema.
func (s *Slice[T]) Schema() Schema {
	return s.schema
}

// AddField appends a field to the schema.
func (s *Slice[T]) AddField(f Field) {
	s.schema = append(s.schema, f)
	added := s.schema[len(s.schema)-1]
	s.notify(ChangedEvent{Kind: FieldAdded, NewIndex: -1, OldIndex: -1, Field: &added})
}

// RemoveField drops a field from the schema.
func (s *Slice[T]) RemoveField(name string) error {
	for i := range s.schema {
		if s.schema[i].Name != name {
			continue
		}
		victim := s.schema[i]
		s.schema = append(s.schema[:i:i], s.schema[i+1:]...)
		s.notify(ChangedEvent{Kind: FieldDeleted, NewIndex: -1, OldIndex: -1, Field: &victim})
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownField, name)
}

// ApplySort orders rows by field and raises a reset.
func (s *Slice[T]) ApplySort(field string, desc bool) error {
	f, ok := s.schema.Find(field)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if err := sortRows(s.items, f, desc); err != nil {
		return err
	}
	s.sortField, s.sortDesc, s.sorted = f.Name, desc, true
	s.notify(NewChangedEvent(Reset, -1))
	return nil
}

// RemoveSort forgets the active sort. Row order is left as is.
func (s *Slice[T]) RemoveSort() {
	s.sortField, s.sortDesc, s.sorted = "", false, false
}

// SortField returns the active sort field.
func (s *Slice[T]) SortField() (string, bool) {
	return s.sortField, s.sorted
}

// SortDescending returns true if the active sort is descending.
func (s *Slice[T]) SortDescending() bool {
	return s.sortDesc
}

// Find returns the index of the first row whose field equals key.
func (s *Slice[T]) Find(field string, key any) int {
	f, ok := s.schema.Find(field)
	if !ok {
		return -1
	}
	for i, it := range s.items {
		v, err := f.Value(it)
		if err != nil {
			continue
		}
		if Equal(v, key) {
			return i
		}
	}
	return -1
}

func sortRows[T any](items []T, f *Field, desc bool) error {
	keys := make([]any, len(items))
	for i, it := range items {
		v, err := f.Value(it)
		if err != nil {
			return fmt.Errorf("sort by %q: %w", f.Name, err)
		}
		keys[i] = v
	}
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		c := Compare(keys[idx[a]], keys[idx[b]])
		if desc {
			return c > 0
		}
		return c < 0
	})
	sorted := make([]T, len(items))
	for i, j := range idx {
		sorted[i] = items[j]
	}
	copy(items, sorted)
	return nil
}
