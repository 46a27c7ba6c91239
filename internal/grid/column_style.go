package grid

import (
	"fmt"

	"github.com/gridbind/gridbind/internal/binding"
	"github.com/gridbind/gridbind/internal/list"
	"github.com/gridbind/gridbind/internal/render"
)

// Alignment is the horizontal alignment of cell text.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Kind identifies how a column edits its cells.
type Kind int

const (
	KindText Kind = iota
	KindBool
)

// Validator vets a field value before its row becomes current.
type Validator func(v any) error

// ColumnStyle describes how one field of a row is shown and edited.
type ColumnStyle struct {
	field       *list.Field
	headerText  string
	mappingName string
	width       int
	readOnly    bool
	nullText    string
	hasNullText bool
	alignment   Alignment
	kind        Kind
	format      render.Formatter
	validator   Validator

	table    *TableStyle
	updating int
	dirty    bool
	editRow  int
	editText string
}

// NewTextColumn returns a text column using format, or plain text when nil.
func NewTextColumn(format render.Formatter) *ColumnStyle {
	if format == nil {
		format = render.Text{}
	}
	return &ColumnStyle{
		kind:    KindText,
		format:  format,
		editRow: -1,
	}
}

// NewBoolColumn returns a check box column.
func NewBoolColumn() *ColumnStyle {
	return &ColumnStyle{
		kind:      KindBool,
		format:    render.Checkbox{},
		alignment: AlignCenter,
		editRow:   -1,
	}
}

// Kind returns the column kind.
func (c *ColumnStyle) Kind() Kind { return c.kind }

// Field returns the bound field or nil.
func (c *ColumnStyle) Field() *list.Field { return c.field }

// Table returns the owning table style or nil.
func (c *ColumnStyle) Table() *TableStyle { return c.table }

// Formatter returns the cell formatter.
func (c *ColumnStyle) Formatter() render.Formatter { return c.format }

// Alignment returns the cell alignment.
func (c *ColumnStyle) Alignment() Alignment { return c.alignment }

// HeaderText returns the header caption.
func (c *ColumnStyle) HeaderText() string { return c.headerText }

// MappingName returns the name of the field this column maps to.
func (c *ColumnStyle) MappingName() string { return c.mappingName }

// SetHeaderText changes the header caption.
func (c *ColumnStyle) SetHeaderText(s string) {
	if c.headerText == s {
		return
	}
	c.headerText = s
	c.invalidate()
}

// SetMappingName changes the mapped field name. Names are unique per table,
// ignoring case.
func (c *ColumnStyle) SetMappingName(name string) error {
	if c.mappingName == name {
		return nil
	}
	if c.table != nil {
		if other, ok := c.table.columns.ByName(name); ok && other != c {
			return fmt.Errorf("%w: %q", ErrDuplicateMappingName, name)
		}
	}
	c.mappingName = name
	c.invalidate()

	return nil
}

// Width returns the column width, falling back to the table preference.
func (c *ColumnStyle) Width() int {
	if c.width > 0 {
		return c.width
	}
	if c.table != nil {
		return c.table.PreferredColumnWidth()
	}
	return DefaultSettings().PreferredColumnWidth
}

// SetWidth changes the column width. Zero restores the table preference.
func (c *ColumnStyle) SetWidth(w int) {
	if w < 0 {
		w = 0
	}
	if c.width == w {
		return
	}
	c.width = w
	c.invalidate()
}

// ReadOnly returns true if the column, its field or its table is read-only.
func (c *ColumnStyle) ReadOnly() bool {
	if c.readOnly {
		return true
	}
	if c.field != nil && (c.field.ReadOnly || c.field.Set == nil) {
		return true
	}
	return c.table != nil && c.table.ReadOnly()
}

// SetReadOnly changes the column read-only flag.
func (c *ColumnStyle) SetReadOnly(b bool) {
	if c.readOnly == b {
		return
	}
	c.readOnly = b
	c.invalidate()
}

// NullText returns the text shown for null values.
func (c *ColumnStyle) NullText() string {
	if c.hasNullText {
		return c.nullText
	}
	if c.table != nil {
		return c.table.NullText()
	}
	return render.DefaultNullText
}

// SetNullText overrides the table null text for this column.
func (c *ColumnStyle) SetNullText(s string) {
	if c.hasNullText && c.nullText == s {
		return
	}
	c.nullText, c.hasNullText = s, true
	c.invalidate()
}

// SetAlignment changes the cell alignment.
func (c *ColumnStyle) SetAlignment(a Alignment) {
	if c.alignment == a {
		return
	}
	c.alignment = a
	c.invalidate()
}

// SetFormatter changes the cell formatter.
func (c *ColumnStyle) SetFormatter(f render.Formatter) {
	if f == nil {
		f = render.Text{}
	}
	c.format = f
	c.invalidate()
}

// SetValidator installs a validator run whenever a row is pushed to the grid.
func (c *ColumnStyle) SetValidator(v Validator) {
	c.validator = v
}

// BeginUpdate defers change notifications until the matching EndUpdate.
func (c *ColumnStyle) BeginUpdate() {
	c.updating++
}

// EndUpdate ends a batch and flushes one notification if anything changed.
func (c *ColumnStyle) EndUpdate() {
	if c.updating == 0 {
		return
	}
	c.updating--
	if c.updating == 0 && c.dirty {
		c.dirty = false
		c.notify()
	}
}

// CheckValidDataSource verifies the column can read rows from cm.
func (c *ColumnStyle) CheckValidDataSource(cm *binding.CurrencyManager) error {
	if cm == nil || cm.List() == nil {
		return ErrNotBound
	}
	if c.field == nil {
		return fmt.Errorf("%w: %q", ErrUnboundColumn, c.label())
	}

	return nil
}

// ValueAt returns the field value of row.
func (c *ColumnStyle) ValueAt(cm *binding.CurrencyManager, row int) (any, error) {
	if err := c.CheckValidDataSource(cm); err != nil {
		return nil, err
	}
	r, err := cm.At(row)
	if err != nil {
		return nil, err
	}

	return c.field.Value(r)
}

// SetValueAt writes v into the field of row.
func (c *ColumnStyle) SetValueAt(cm *binding.CurrencyManager, row int, v any) error {
	if err := c.CheckValidDataSource(cm); err != nil {
		return err
	}
	if c.ReadOnly() {
		return fmt.Errorf("%w: %q", ErrReadOnly, c.label())
	}
	r, err := cm.At(row)
	if err != nil {
		return err
	}
	if err := c.field.SetValue(r, v); err != nil {
		return err
	}
	if n, ok := cm.List().(interface{ NotifyChanged(int) }); ok {
		n.NotifyChanged(row)
	}

	return nil
}

// Text returns the display text of row, including a pending edit.
func (c *ColumnStyle) Text(cm *binding.CurrencyManager, row int) (string, error) {
	if c.editRow != -1 && c.editRow == row {
		return c.editText, nil
	}
	v, err := c.ValueAt(cm, row)
	if err != nil {
		return "", err
	}
	if render.IsNull(v) {
		return c.NullText(), nil
	}

	return c.format.Format(v), nil
}

// Edit stages text as the pending value of row.
func (c *ColumnStyle) Edit(row int, text string) error {
	if c.ReadOnly() {
		return fmt.Errorf("%w: %q", ErrReadOnly, c.label())
	}
	c.editRow, c.editText = row, text
	c.invalidate()

	return nil
}

// Editing returns the pending edit, if any.
func (c *ColumnStyle) Editing() (int, string, bool) {
	return c.editRow, c.editText, c.editRow != -1
}

// Commit parses and stores the pending edit of row. It returns false when
// row has no pending edit. A failed commit keeps the edit pending.
func (c *ColumnStyle) Commit(cm *binding.CurrencyManager, row int) (bool, error) {
	if c.editRow == -1 || c.editRow != row {
		return false, nil
	}
	if err := c.CheckValidDataSource(cm); err != nil {
		return false, err
	}
	v, err := c.format.Parse(c.editText, c.field.Type)
	if err != nil {
		return false, fmt.Errorf("column %q: %w", c.label(), err)
	}
	if c.validator != nil {
		if err := c.validator(v); err != nil {
			return false, fmt.Errorf("column %q: %w", c.label(), err)
		}
	}
	if err := c.SetValueAt(cm, row, v); err != nil {
		return false, err
	}
	c.editRow, c.editText = -1, ""
	c.invalidate()

	return true, nil
}

// Abort drops the pending edit of row.
func (c *ColumnStyle) Abort(row int) {
	if c.editRow == -1 || c.editRow != row {
		return
	}
	c.editRow, c.editText = -1, ""
	c.invalidate()
}

// Validate runs the column validator against the field value of row.
func (c *ColumnStyle) Validate(row any) error {
	if c.field == nil || c.validator == nil {
		return nil
	}
	v, err := c.field.Value(row)
	if err != nil {
		return fmt.Errorf("column %q: %w", c.label(), err)
	}
	if err := c.validator(v); err != nil {
		return fmt.Errorf("column %q: %w", c.label(), err)
	}

	return nil
}

func (c *ColumnStyle) label() string {
	if c.mappingName != "" {
		return c.mappingName
	}
	return c.headerText
}

func (c *ColumnStyle) invalidate() {
	if c.updating > 0 {
		c.dirty = true
		return
	}
	c.notify()
}

func (c *ColumnStyle) notify() {
	if c.table != nil {
		c.table.columnChanged(c)
	}
}
