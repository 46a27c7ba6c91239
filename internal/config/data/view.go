package data

import "slices"

// DefaultView is the view shown when a source is opened.
const DefaultView = "grid"

// View represents the persisted grid layout of a source.
type View struct {
	Active  string         `yaml:"active"`
	Columns []string       `yaml:"columns,omitempty"`
	Hidden  []string       `yaml:"hidden,omitempty"`
	Widths  map[string]int `yaml:"widths,omitempty"`
}

// NewView creates a View with default settings.
func NewView() *View {
	return &View{
		Active: DefaultView,
	}
}

// Validate ensures the View has valid settings.
func (v *View) Validate() {
	if v.Active == "" {
		v.Active = DefaultView
	}
	for k, w := range v.Widths {
		if w <= 0 {
			delete(v.Widths, k)
		}
	}
}

// IsHidden checks if a column was hidden by the user.
func (v *View) IsHidden(col string) bool {
	return slices.Contains(v.Hidden, col)
}

// SetHidden records a column visibility change.
func (v *View) SetHidden(col string, hidden bool) {
	i := slices.Index(v.Hidden, col)
	switch {
	case hidden && i < 0:
		v.Hidden = append(v.Hidden, col)
	case !hidden && i >= 0:
		v.Hidden = slices.Delete(v.Hidden, i, i+1)
	}
}

// SetWidth records a column width override.
func (v *View) SetWidth(col string, w int) {
	if w <= 0 {
		delete(v.Widths, col)
		return
	}
	if v.Widths == nil {
		v.Widths = make(map[string]int)
	}
	v.Widths[col] = w
}
