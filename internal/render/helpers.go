package render

import (
	"reflect"
	"strings"

	"github.com/mattn/go-runewidth"
)

// IsNull returns true for nil values and nil pointers.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}

// Missing returns MissingValue if string is empty
func Missing(s string) string {
	if s == "" {
		return MissingValue
	}
	return s
}

// NA returns NAValue if string is empty
func NA(s string) string {
	if s == "" {
		return NAValue
	}
	return s
}

// BoolToYesNo converts bool to Yes/No string
func BoolToYesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Truncate truncates a string to max display cells.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= max {
		return s
	}
	if max <= 3 {
		return runewidth.Truncate(s, max, "")
	}
	return runewidth.Truncate(s, max, "...")
}

// Pad right pads s with blanks to width display cells.
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// JoinStrings joins strings with separator, skipping empty ones
func JoinStrings(sep string, ss ...string) string {
	var parts []string
	for _, s := range ss {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

// stripGrouping drops thousands separators from a number.
func stripGrouping(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}
