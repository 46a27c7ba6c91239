package grid

import (
	"github.com/gridbind/gridbind/internal/list"
	"github.com/gridbind/gridbind/internal/render"
)

// ColumnFactory builds the column style shown for a field.
type ColumnFactory func(f *list.Field, s Settings) *ColumnStyle

// Registry maps field types to column factories.
type Registry struct {
	factories map[list.TypeTag]ColumnFactory
	fallback  ColumnFactory
}

// NewRegistry returns a registry with the builtin column kinds.
func NewRegistry() *Registry {
	r := Registry{
		factories: make(map[list.TypeTag]ColumnFactory),
		fallback:  textColumn,
	}
	r.Register(list.TypeBool, func(*list.Field, Settings) *ColumnStyle {
		return NewBoolColumn()
	})
	r.Register(list.TypeString, textColumn)
	r.Register(list.TypeTime, func(_ *list.Field, s Settings) *ColumnStyle {
		return NewTextColumn(render.NewShortDate(s.DateFormat))
	})
	for _, tag := range []list.TypeTag{list.TypeInt, list.TypeUint, list.TypeFloat} {
		r.Register(tag, numberColumn)
	}
	r.Register(list.TypeArray, func(f *list.Field, s Settings) *ColumnStyle {
		c := textColumn(f, s)
		c.readOnly = true
		return c
	})

	return &r
}

// Register installs fn for fields of type tag, replacing any previous one.
func (r *Registry) Register(tag list.TypeTag, fn ColumnFactory) {
	r.factories[tag] = fn
}

// Build returns a new column style bound to f.
func (r *Registry) Build(f *list.Field, s Settings) *ColumnStyle {
	fn, ok := r.factories[f.Type]
	if !ok {
		fn = r.fallback
	}
	c := fn(f, s)
	c.field = f

	return c
}

func textColumn(*list.Field, Settings) *ColumnStyle {
	return NewTextColumn(render.Text{})
}

func numberColumn(*list.Field, Settings) *ColumnStyle {
	c := NewTextColumn(render.GeneralNumber{})
	c.alignment = AlignRight
	return c
}
