package grid

import "errors"

var (
	// ErrUnboundColumn is returned when a column without a resolved field is
	// read or written.
	ErrUnboundColumn = errors.New("column is not bound to a field")

	// ErrDuplicateMappingName is returned when two columns of a table share a
	// mapping name.
	ErrDuplicateMappingName = errors.New("duplicate column mapping name")

	// ErrColumnOwned is returned when adding a column owned by another table
	// or collection.
	ErrColumnOwned = errors.New("column already belongs to another collection")

	// ErrDefaultCollection is returned when editing the derived columns of a
	// default table style.
	ErrDefaultCollection = errors.New("default table style columns cannot be edited")

	// ErrNotBound is returned when a grid or column is used before data binding.
	ErrNotBound = errors.New("grid has no data binding")

	// ErrReadOnly is returned when editing a read-only grid, table or column.
	ErrReadOnly = errors.New("cell is read-only")

	// ErrNoColumn is returned for unknown column indices or names.
	ErrNoColumn = errors.New("no such column")

	// ErrNoRelation is returned for unknown relation names.
	ErrNoRelation = errors.New("no such relation")

	// ErrSortDisabled is returned when sorting a table style that disallows it.
	ErrSortDisabled = errors.New("sorting is disabled for this table")

	// ErrDisplayIndex is returned for display indices outside the collection.
	ErrDisplayIndex = errors.New("display index out of range")
)
