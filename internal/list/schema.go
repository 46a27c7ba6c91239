package list

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// TypeTag classifies a field value type.
type TypeTag int

const (
	TypeAny TypeTag = iota
	TypeString
	TypeBool
	TypeInt
	TypeUint
	TypeFloat
	TypeTime
	TypeArray // flat array value, rendered as a column
	TypeList  // child list, a relation
)

var typeTagNames = [...]string{"any", "string", "bool", "int", "uint", "float", "time", "array", "list"}

func (t TypeTag) String() string {
	if t < 0 || int(t) >= len(typeTagNames) {
		return fmt.Sprintf("TypeTag(%d)", int(t))
	}
	return typeTagNames[t]
}

// IsNumeric returns true for integer and float tags.
func (t TypeTag) IsNumeric() bool {
	return t == TypeInt || t == TypeUint || t == TypeFloat
}

// GetterFunc reads a field value from a row.
type GetterFunc func(row any) (any, error)

// SetterFunc writes a field value into a row.
type SetterFunc func(row any, v any) error

// Field describes one property of a row.
type Field struct {
	Name     string
	Type     TypeTag
	ReadOnly bool
	Hidden   bool
	Get      GetterFunc
	Set      SetterFunc
}

// Browsable returns true if the field should be surfaced to grids.
func (f *Field) Browsable() bool {
	return !f.Hidden
}

// IsRelation returns true if the field holds a child list.
func (f *Field) IsRelation() bool {
	return f.Type == TypeList
}

// Value reads the field from row.
func (f *Field) Value(row any) (any, error) {
	if f.Get == nil {
		return nil, fmt.Errorf("field %q has no getter", f.Name)
	}
	return f.Get(row)
}

// SetValue writes v into row.
func (f *Field) SetValue(row any, v any) error {
	if f.ReadOnly || f.Set == nil {
		return fmt.Errorf("%w: %s", ErrReadOnly, f.Name)
	}
	return f.Set(row, v)
}

// Schema is an ordered set of fields.
type Schema []Field

// Find returns the field with the given name, ignoring case.
func (s Schema) Find(name string) (*Field, bool) {
	for i := range s {
		if s[i].Name == name {
			return &s[i], true
		}
	}
	for i := range s {
		if strings.EqualFold(s[i].Name, name) {
			return &s[i], true
		}
	}
	return nil, false
}

// Names returns the field names in order.
func (s Schema) Names() []string {
	nn := make([]string, 0, len(s))
	for _, f := range s {
		nn = append(nn, f.Name)
	}
	return nn
}

// Browsable returns the fields that are not hidden.
func (s Schema) Browsable() Schema {
	out := make(Schema, 0, len(s))
	for _, f := range s {
		if f.Browsable() {
			out = append(out, f)
		}
	}
	return out
}

// NewField builds a typed field over rows of type R holding values of type V.
// A nil set makes the field read-only.
func NewField[R any, V any](name string, get func(R) V, set func(R, V)) Field {
	f := Field{
		Name:     name,
		Type:     TagOf[V](),
		ReadOnly: set == nil,
		Get: func(row any) (any, error) {
			r, ok := row.(R)
			if !ok {
				return nil, fmt.Errorf("%w: field %q expects %T, got %T", ErrValueType, name, *new(R), row)
			}
			return get(r), nil
		},
	}
	if set != nil {
		f.Set = func(row any, v any) error {
			r, ok := row.(R)
			if !ok {
				return fmt.Errorf("%w: field %q expects %T, got %T", ErrValueType, name, *new(R), row)
			}
			vv, err := Convert[V](v)
			if err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
			set(r, vv)
			return nil
		}
	}
	return f
}

var (
	timeType = reflect.TypeOf(time.Time{})
	listType = reflect.TypeOf((*List)(nil)).Elem()
)

// TagOf returns the type tag for V.
func TagOf[V any]() TypeTag {
	return tagOfType(reflect.TypeOf((*V)(nil)).Elem())
}

func tagOfType(t reflect.Type) TypeTag {
	if t == timeType || (t.Kind() == reflect.Pointer && t.Elem() == timeType) {
		return TypeTime
	}
	if t.Implements(listType) {
		return TypeList
	}
	switch t.Kind() {
	case reflect.String:
		return TypeString
	case reflect.Bool:
		return TypeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return TypeInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeUint
	case reflect.Float32, reflect.Float64:
		return TypeFloat
	case reflect.Slice, reflect.Array:
		return TypeArray
	default:
		return TypeAny
	}
}

// Convert coerces v into V, converting between numeric kinds when needed.
func Convert[V any](v any) (V, error) {
	var zero V
	if v == nil {
		return zero, nil
	}
	if vv, ok := v.(V); ok {
		return vv, nil
	}
	target := reflect.TypeOf((*V)(nil)).Elem()
	rv := reflect.ValueOf(v)
	if !rv.Type().ConvertibleTo(target) || !sameFamily(rv.Kind(), target.Kind()) {
		return zero, fmt.Errorf("%w: cannot use %T as %s", ErrValueType, v, target)
	}
	out, ok := rv.Convert(target).Interface().(V)
	if !ok {
		return zero, fmt.Errorf("%w: cannot use %T as %s", ErrValueType, v, target)
	}
	return out, nil
}

// sameFamily refuses conversions that compile but change meaning, like int to string.
func sameFamily(a, b reflect.Kind) bool {
	return kindFamily(a) != 0 && kindFamily(a) == kindFamily(b)
}

func kindFamily(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return 1
	case reflect.String:
		return 2
	case reflect.Bool:
		return 3
	default:
		return 0
	}
}
