package list

import (
	"fmt"
	"reflect"
	"time"

	"github.com/fvbommel/sortorder"
)

// Compare orders two field values. Nil sorts first, strings use natural
// ordering, mismatched kinds fall back to their text form.
func Compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return naturalCompare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}

	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
	}

	return naturalCompare(fmt.Sprint(a), fmt.Sprint(b))
}

// Equal reports whether a field value matches a search key.
func Equal(value, key any) bool {
	if value == nil || key == nil {
		return value == nil && key == nil
	}
	if t := reflect.TypeOf(value); t == reflect.TypeOf(key) && t.Comparable() && value == key {
		return true
	}
	if x, ok := toFloat(value); ok {
		if y, ok := toFloat(key); ok {
			return x == y
		}
	}
	if x, ok := value.(time.Time); ok {
		if y, ok := key.(time.Time); ok {
			return x.Equal(y)
		}
	}
	return false
}

func naturalCompare(a, b string) int {
	switch {
	case a == b:
		return 0
	case sortorder.NaturalLess(a, b):
		return -1
	default:
		return 1
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
