// Package list defines the bound-list contracts consumed by the currency
// manager and the adapters that satisfy them.
package list

import "fmt"

// ChangeKind identifies a list change notification.
type ChangeKind int

const (
	// Reset indicates the whole list changed.
	Reset ChangeKind = iota
	// ItemAdded indicates a row was inserted at NewIndex.
	ItemAdded
	// ItemDeleted indicates the row at NewIndex was removed.
	ItemDeleted
	// ItemChanged indicates the row at NewIndex was modified in place.
	ItemChanged
	// ItemMoved indicates the row at OldIndex now lives at NewIndex.
	ItemMoved
	// FieldAdded indicates a schema field was added.
	FieldAdded
	// FieldDeleted indicates a schema field was removed.
	FieldDeleted
	// FieldChanged indicates a schema field definition changed.
	FieldChanged
)

var changeKindNames = map[ChangeKind]string{
	Reset:        "Reset",
	ItemAdded:    "ItemAdded",
	ItemDeleted:  "ItemDeleted",
	ItemChanged:  "ItemChanged",
	ItemMoved:    "ItemMoved",
	FieldAdded:   "FieldAdded",
	FieldDeleted: "FieldDeleted",
	FieldChanged: "FieldChanged",
}

func (k ChangeKind) String() string {
	if s, ok := changeKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// IsSchemaChange returns true for field added/deleted/changed notifications.
func (k ChangeKind) IsSchemaChange() bool {
	return k == FieldAdded || k == FieldDeleted || k == FieldChanged
}

// ChangedEvent describes a list change.
type ChangedEvent struct {
	Kind     ChangeKind
	NewIndex int
	OldIndex int
	Field    *Field // set for schema changes
}

// NewChangedEvent returns an event for kind at newIndex.
func NewChangedEvent(kind ChangeKind, newIndex int) ChangedEvent {
	return ChangedEvent{Kind: kind, NewIndex: newIndex, OldIndex: -1}
}

// NewMovedEvent returns an ItemMoved event.
func NewMovedEvent(newIndex, oldIndex int) ChangedEvent {
	return ChangedEvent{Kind: ItemMoved, NewIndex: newIndex, OldIndex: oldIndex}
}

func (e ChangedEvent) String() string {
	return fmt.Sprintf("%s[new=%d old=%d]", e.Kind, e.NewIndex, e.OldIndex)
}

// List represents an ordered, indexable collection of rows.
type List interface {
	// Len returns the number of rows.
	Len() int

	// At returns the row at index i.
	At(i int) any

	// Set replaces the row at index i.
	Set(i int, v any) error
}

// Notifier is implemented by lists raising change notifications.
type Notifier interface {
	// Subscribe registers fn and returns a function removing it.
	Subscribe(fn func(ChangedEvent)) func()
}

// Describer is implemented by lists exposing their row schema.
type Describer interface {
	Schema() Schema
}

// Editor is implemented by lists supporting row creation and removal.
type Editor interface {
	// AddNew appends a new blank row and returns its index.
	AddNew() (int, error)

	// RemoveAt removes the row at index i.
	RemoveAt(i int) error
}

// NewItemCommitter is implemented by lists tracking a pending new row.
type NewItemCommitter interface {
	// EndNew commits the pending new row if it lives at index i.
	EndNew(i int)

	// CancelNew discards the pending new row if it lives at index i.
	CancelNew(i int)
}

// Sorter is implemented by lists supporting sorting by field.
type Sorter interface {
	ApplySort(field string, desc bool) error
	RemoveSort()
	SortField() (string, bool)
}

// Searcher is implemented by lists with their own search.
type Searcher interface {
	// Find returns the index of the first row whose field equals key or -1.
	Find(field string, key any) int
}

// Named is implemented by lists carrying a display name.
type Named interface {
	ListName() string
}

// Source produces a list. It is resolved once on bind.
type Source interface {
	List() (List, error)
}

// EditableItem is implemented by rows supporting transactional edits.
type EditableItem interface {
	BeginEdit()
	EndEdit()
	CancelEdit()
}
