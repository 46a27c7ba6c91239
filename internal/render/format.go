package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gridbind/gridbind/internal/list"
)

// ErrParse is returned when cell text cannot be converted to a field value.
var ErrParse = errors.New("cannot parse cell text")

// Formatter converts cell values to text and back.
type Formatter interface {
	// Format returns the display text of a non-null value.
	Format(v any) string

	// Parse converts text into a value for a field of type tag.
	Parse(text string, tag list.TypeTag) (any, error)
}

// Text formats values with their default text form. It parses strings only.
type Text struct{}

var _ Formatter = Text{}

func (Text) Format(v any) string {
	return fmt.Sprint(v)
}

func (Text) Parse(text string, tag list.TypeTag) (any, error) {
	switch tag {
	case list.TypeString, list.TypeAny:
		return text, nil
	default:
		return nil, fmt.Errorf("%w: %s is not editable as text", ErrParse, tag)
	}
}

// GeneralNumber formats numbers in their shortest exact form.
type GeneralNumber struct{}

var _ Formatter = GeneralNumber{}

func (GeneralNumber) Format(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'g', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

func (GeneralNumber) Parse(text string, tag list.TypeTag) (any, error) {
	s := stripGrouping(text)
	var (
		v   any
		err error
	)
	switch tag {
	case list.TypeInt:
		v, err = strconv.ParseInt(s, 10, 64)
	case list.TypeUint:
		v, err = strconv.ParseUint(s, 10, 64)
	case list.TypeFloat, list.TypeAny:
		v, err = strconv.ParseFloat(s, 64)
	default:
		return nil, fmt.Errorf("%w: %s is not numeric", ErrParse, tag)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %q as %s", ErrParse, text, tag)
	}

	return v, nil
}

// ShortDate formats times with a date layout.
type ShortDate struct {
	Layout string
}

var _ Formatter = ShortDate{}

// NewShortDate returns a date formatter, defaulting to ShortDateLayout.
func NewShortDate(layout string) ShortDate {
	if layout == "" {
		layout = ShortDateLayout
	}
	return ShortDate{Layout: layout}
}

func (d ShortDate) Format(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(d.layout())
	case *time.Time:
		return t.Format(d.layout())
	default:
		return fmt.Sprint(v)
	}
}

func (d ShortDate) Parse(text string, _ list.TypeTag) (any, error) {
	s := strings.TrimSpace(text)
	for _, layout := range []string{d.layout(), time.RFC3339, time.DateTime} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return nil, fmt.Errorf("%w: %q is not a %s date", ErrParse, text, d.layout())
}

func (d ShortDate) layout() string {
	if d.Layout == "" {
		return ShortDateLayout
	}
	return d.Layout
}

// Checkbox renders booleans as check marks.
type Checkbox struct{}

var _ Formatter = Checkbox{}

func (Checkbox) Format(v any) string {
	if b, ok := v.(bool); ok && b {
		return CheckedMark
	}
	return UncheckedMark
}

func (Checkbox) Parse(text string, _ list.TypeTag) (any, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case CheckedMark, "x", "yes", "y", "on":
		return true, nil
	case UncheckedMark, "", "no", "n", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a boolean", ErrParse, text)
	}

	return b, nil
}
