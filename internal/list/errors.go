package list

import "errors"

var (
	// ErrNilSource is returned when binding a nil data source.
	ErrNilSource = errors.New("data source cannot be nil")

	// ErrNotList is returned when a data source is not list shaped.
	ErrNotList = errors.New("data source is not a list")

	// ErrIndex is returned for row indexes outside the list.
	ErrIndex = errors.New("index out of range")

	// ErrValueType is returned when a value cannot be assigned to a row or field.
	ErrValueType = errors.New("value type mismatch")

	// ErrReadOnly is returned when writing a read-only field.
	ErrReadOnly = errors.New("field is read-only")

	// ErrUnknownField is returned when a field name is not in the schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrNotSupported is returned when a list lacks a requested capability.
	ErrNotSupported = errors.New("operation not supported by list")
)
