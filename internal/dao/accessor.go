package dao

import (
	"fmt"
	"reflect"
	"sort"
)

// Accessors maps source formats to their accessor implementations.
type Accessors map[Format]Accessor

// accessors holds all registered DAOs.
var accessors = make(Accessors)

// RegisterAccessor adds an accessor to the global registry.
func RegisterAccessor(f Format, accessor Accessor) {
	accessors[f] = accessor
}

// AccessorFor returns a new initialized accessor instance for the given format.
func AccessorFor(f Factory, format Format) (Accessor, error) {
	accessor, ok := accessors[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	// Create new instance using reflection
	accessorType := reflect.TypeOf(accessor)
	if accessorType.Kind() == reflect.Ptr {
		accessorType = accessorType.Elem()
	}
	acc, ok := reflect.New(accessorType).Interface().(Accessor)
	if !ok {
		return nil, fmt.Errorf("failed to create accessor for: %s", format)
	}

	acc.Init(f, format)
	return acc, nil
}

// ListAccessors returns all registered formats.
func ListAccessors() []Format {
	ff := make([]Format, 0, len(accessors))
	for f := range accessors {
		ff = append(ff, f)
	}
	sort.Slice(ff, func(i, j int) bool { return ff[i] < ff[j] })

	return ff
}
