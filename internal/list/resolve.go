package list

import (
	"fmt"
	"reflect"
)

// Resolve turns a data source into a list. Raw slices and arrays are
// wrapped first, then list sources are asked for their list, then the value
// itself is used if it is a list.
func Resolve(source any) (List, error) {
	if isNil(source) {
		return nil, ErrNilSource
	}

	if l, ok := wrapArray(source); ok {
		return l, nil
	}

	if src, ok := source.(Source); ok {
		l, err := src.List()
		if err != nil {
			return nil, fmt.Errorf("resolve list source: %w", err)
		}
		if isNil(l) {
			return nil, ErrNilSource
		}
		return l, nil
	}

	if l, ok := source.(List); ok {
		return l, nil
	}

	return nil, fmt.Errorf("%w: %T", ErrNotList, source)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// Array adapts a raw Go slice or array. It has no notifications.
type Array struct {
	v      reflect.Value
	schema Schema
}

func wrapArray(source any) (*Array, bool) {
	rv := reflect.ValueOf(source)
	if rv.Kind() == reflect.Pointer && rv.Elem().Kind() == reflect.Array {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, false
	}
	if _, ok := source.(List); ok {
		return nil, false
	}

	a := Array{v: rv}
	elem := rv.Type().Elem()
	if d, ok := reflect.Zero(elem).Interface().(Describer); ok && elem.Kind() != reflect.Interface {
		a.schema = d.Schema()
	} else if tag := tagOfType(elem); tag != TypeAny {
		a.schema = Schema{valueField(tag)}
	}
	return &a, true
}

func valueField(tag TypeTag) Field {
	return Field{
		Name:     "Value",
		Type:     tag,
		ReadOnly: true,
		Get: func(row any) (any, error) {
			return row, nil
		},
	}
}

// NewArray wraps a raw slice.
func NewArray(source any) (*Array, error) {
	a, ok := wrapArray(source)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotList, source)
	}
	return a, nil
}

// Len returns the number of rows.
func (a *Array) Len() int {
	return a.v.Len()
}

// At returns the row at i or nil if out of range.
func (a *Array) At(i int) any {
	if i < 0 || i >= a.v.Len() {
		return nil
	}
	return a.v.Index(i).Interface()
}

// Set replaces the row at i when the backing value is addressable.
func (a *Array) Set(i int, v any) error {
	if i < 0 || i >= a.v.Len() {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	el := a.v.Index(i)
	if !el.CanSet() {
		return fmt.Errorf("%w: array is not addressable", ErrNotSupported)
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || !rv.Type().AssignableTo(el.Type()) {
		return fmt.Errorf("%w: expected %s, got %T", ErrValueType, el.Type(), v)
	}
	el.Set(rv)
	return nil
}

// Schema returns the element schema, if one could be derived.
func (a *Array) Schema() Schema {
	return a.schema
}

// ListName returns the element type name.
func (a *Array) ListName() string {
	return a.v.Type().Elem().Name()
}
