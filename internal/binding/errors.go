package binding

import "errors"

var (
	// ErrIndexOutOfRange is returned when a bound manager is moved outside its rows.
	ErrIndexOutOfRange = errors.New("position out of range")

	// ErrNoCurrent is returned when reading the current row of an empty or unbound manager.
	ErrNoCurrent = errors.New("no current row")

	// ErrNoGoodRow is returned when no row in the list accepts pushed data.
	// Binding is suspended before it is returned.
	ErrNoGoodRow = errors.New("no row in the list can be pushed to its bindings")

	// ErrNilKey is returned by Find for a nil search key.
	ErrNilKey = errors.New("search key cannot be nil")

	// ErrNotSupported is returned when the bound list lacks a capability.
	ErrNotSupported = errors.New("operation not supported by the bound list")

	// ErrNotBound is returned by operations needing a data source before one is set.
	ErrNotBound = errors.New("no data source bound")
)
