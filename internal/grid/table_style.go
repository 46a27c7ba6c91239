package grid

import (
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/gridbind/gridbind/internal/binding"
	"github.com/gridbind/gridbind/internal/list"
	"github.com/gridbind/gridbind/internal/render"
)

// Settings holds grid wide defaults for derived table styles.
type Settings struct {
	PreferredColumnWidth int    `yaml:"preferredColumnWidth"`
	PreferredRowHeight   int    `yaml:"preferredRowHeight"`
	RowHeadersVisible    bool   `yaml:"rowHeadersVisible"`
	AllowSorting         bool   `yaml:"allowSorting"`
	ReadOnly             bool   `yaml:"readOnly"`
	NullText             string `yaml:"nullText"`
	DateFormat           string `yaml:"dateFormat"`
}

// DefaultSettings returns the stock grid defaults.
func DefaultSettings() Settings {
	return Settings{
		PreferredColumnWidth: 12,
		PreferredRowHeight:   1,
		RowHeadersVisible:    true,
		AllowSorting:         true,
		NullText:             render.DefaultNullText,
		DateFormat:           render.ShortDateLayout,
	}
}

// Colors holds the palette of a table style.
type Colors struct {
	Header          tcell.Color
	Fore            tcell.Color
	Back            tcell.Color
	Selection       tcell.Color
	AlternatingBack tcell.Color
}

// DefaultColors returns the stock palette.
func DefaultColors() Colors {
	return Colors{
		Header:          tcell.ColorAqua,
		Fore:            tcell.ColorWhite,
		Back:            tcell.ColorDefault,
		Selection:       tcell.ColorDodgerBlue,
		AlternatingBack: tcell.ColorDefault,
	}
}

// StyleListener observes table style changes. The column is nil when the
// table itself changed.
type StyleListener interface {
	StyleChanged(t *TableStyle, c *ColumnStyle)
}

// TableStyle describes how the rows of one list are shown.
type TableStyle struct {
	mappingName string
	columns     *ColumnStyles
	relations   []string
	settings    Settings
	colors      Colors
	isDefault   bool
	grid        *DataGrid
	registry    *Registry
	listeners   []StyleListener
}

// NewTableStyle returns a user table style for lists named mappingName.
func NewTableStyle(mappingName string) *TableStyle {
	return newTableStyle(mappingName, DefaultSettings(), nil, false)
}

func newDefaultTableStyle(name string, s Settings, r *Registry) *TableStyle {
	return newTableStyle(name, s, r, true)
}

func newTableStyle(name string, s Settings, r *Registry, isDefault bool) *TableStyle {
	if r == nil {
		r = NewRegistry()
	}
	t := TableStyle{
		mappingName: name,
		settings:    s,
		colors:      DefaultColors(),
		isDefault:   isDefault,
		registry:    r,
	}
	t.columns = newColumnStyles(&t)

	return &t
}

// IsDefault returns true for styles derived from the list schema.
func (t *TableStyle) IsDefault() bool { return t.isDefault }

// DataGrid returns the grid the style is attached to, or nil.
func (t *TableStyle) DataGrid() *DataGrid { return t.grid }

// GridColumnStyles returns the column collection.
func (t *TableStyle) GridColumnStyles() *ColumnStyles { return t.columns }

// Relations returns the names of child list fields.
func (t *TableStyle) Relations() []string { return slices.Clone(t.relations) }

// MappingName returns the name of the list this style applies to.
func (t *TableStyle) MappingName() string { return t.mappingName }

// SetMappingName changes the mapped list name.
func (t *TableStyle) SetMappingName(s string) {
	t.mappingName = s
	t.changed()
}

// Settings returns the style settings.
func (t *TableStyle) Settings() Settings { return t.settings }

// ApplySettings replaces the style settings.
func (t *TableStyle) ApplySettings(s Settings) {
	t.settings = s
	t.changed()
}

// PreferredColumnWidth returns the default column width.
func (t *TableStyle) PreferredColumnWidth() int {
	if t.settings.PreferredColumnWidth <= 0 {
		return DefaultSettings().PreferredColumnWidth
	}
	return t.settings.PreferredColumnWidth
}

// SetPreferredColumnWidth changes the default column width.
func (t *TableStyle) SetPreferredColumnWidth(w int) {
	if t.settings.PreferredColumnWidth == w {
		return
	}
	t.settings.PreferredColumnWidth = w
	t.changed()
}

// PreferredRowHeight returns the row height in lines.
func (t *TableStyle) PreferredRowHeight() int {
	if t.settings.PreferredRowHeight <= 0 {
		return 1
	}
	return t.settings.PreferredRowHeight
}

// SetPreferredRowHeight changes the row height.
func (t *TableStyle) SetPreferredRowHeight(h int) {
	if t.settings.PreferredRowHeight == h {
		return
	}
	t.settings.PreferredRowHeight = h
	t.changed()
}

// ReadOnly returns the table read-only flag.
func (t *TableStyle) ReadOnly() bool { return t.settings.ReadOnly }

// SetReadOnly changes the table read-only flag.
func (t *TableStyle) SetReadOnly(b bool) {
	if t.settings.ReadOnly == b {
		return
	}
	t.settings.ReadOnly = b
	t.changed()
}

// AllowSorting returns true if columns may be sorted.
func (t *TableStyle) AllowSorting() bool { return t.settings.AllowSorting }

// SetAllowSorting toggles sorting.
func (t *TableStyle) SetAllowSorting(b bool) {
	if t.settings.AllowSorting == b {
		return
	}
	t.settings.AllowSorting = b
	t.changed()
}

// RowHeadersVisible returns true if the row header column is shown.
func (t *TableStyle) RowHeadersVisible() bool { return t.settings.RowHeadersVisible }

// SetRowHeadersVisible toggles the row header column.
func (t *TableStyle) SetRowHeadersVisible(b bool) {
	if t.settings.RowHeadersVisible == b {
		return
	}
	t.settings.RowHeadersVisible = b
	t.changed()
}

// NullText returns the text shown for null values.
func (t *TableStyle) NullText() string { return t.settings.NullText }

// SetNullText changes the null text.
func (t *TableStyle) SetNullText(s string) {
	if t.settings.NullText == s {
		return
	}
	t.settings.NullText = s
	t.changed()
}

// Colors returns the palette.
func (t *TableStyle) Colors() Colors { return t.colors }

// SetColors replaces the palette.
func (t *TableStyle) SetColors(c Colors) {
	if t.colors == c {
		return
	}
	t.colors = c
	t.changed()
}

// AddListener registers a style listener.
func (t *TableStyle) AddListener(l StyleListener) {
	t.listeners = append(t.listeners, l)
}

// RemoveListener unregisters a style listener.
func (t *TableStyle) RemoveListener(l StyleListener) {
	t.listeners = slices.DeleteFunc(t.listeners, func(x StyleListener) bool {
		return x == l
	})
}

// SetGridColumnStylesCollection derives columns and relations from the
// browsable fields of cm. List valued fields become relations, every other
// field becomes a column.
func (t *TableStyle) SetGridColumnStylesCollection(cm *binding.CurrencyManager) error {
	if cm == nil || cm.List() == nil {
		return ErrNotBound
	}
	t.columns.reset()
	t.relations = nil
	for _, f := range cm.ItemProperties().Browsable() {
		if f.IsRelation() {
			t.relations = append(t.relations, f.Name)
			continue
		}
		c := t.registry.Build(&f, t.settings)
		c.mappingName, c.headerText = f.Name, f.Name
		if _, err := t.columns.add(c); err != nil {
			return err
		}
	}
	t.changed()

	return nil
}

// SetDataGridInColumns attaches the style to g and resolves the fields of
// user defined columns against the bound schema.
func (t *TableStyle) SetDataGridInColumns(g *DataGrid) {
	t.grid = g
	if g == nil || g.cm == nil {
		return
	}
	schema := g.cm.ItemProperties()
	if !t.isDefault {
		for _, c := range t.columns.items {
			c.field = resolveField(schema, c)
		}
	}
	t.relations = relationNames(schema.Browsable())
}

// Dispose detaches the style from its grid and releases its columns.
func (t *TableStyle) Dispose() {
	t.grid = nil
	t.listeners = nil
	if t.isDefault {
		t.columns.reset()
		t.relations = nil
	}
}

func relationNames(schema list.Schema) []string {
	var nn []string
	for i := range schema {
		if schema[i].IsRelation() {
			nn = append(nn, schema[i].Name)
		}
	}
	return nn
}

func (t *TableStyle) changed() {
	t.fire(nil)
}

func (t *TableStyle) columnChanged(c *ColumnStyle) {
	t.fire(c)
}

func (t *TableStyle) fire(c *ColumnStyle) {
	for _, l := range slices.Clone(t.listeners) {
		l.StyleChanged(t, c)
	}
}
