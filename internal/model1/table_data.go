package model1

import "sync"

// TableData is a rendered snapshot of a bound grid.
type TableData struct {
	header    Header
	rowEvents *RowEvents
	name      string
	current   int
	sortCol   int
	sortDesc  bool
	errMsg    string
	mx        sync.RWMutex
}

// NewTableData returns a new table.
func NewTableData() *TableData {
	return &TableData{
		rowEvents: NewRowEvents(10),
		current:   -1,
		sortCol:   -1,
	}
}

// Header returns the table header.
func (t *TableData) Header() Header {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.header
}

// SetHeader sets the table header.
func (t *TableData) SetHeader(h Header) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.header = h
}

// RowEvents returns the row events.
func (t *TableData) RowEvents() *RowEvents {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.rowEvents
}

// SetRowEvents replaces the row events.
func (t *TableData) SetRowEvents(re *RowEvents) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.rowEvents = re
}

// Name returns the bound list name.
func (t *TableData) Name() string {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.name
}

// SetName sets the bound list name.
func (t *TableData) SetName(n string) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.name = n
}

// Current returns the current row index or -1.
func (t *TableData) Current() int {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.current
}

// SetCurrent sets the current row index.
func (t *TableData) SetCurrent(row int) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.current = row
}

// Sort returns the sorted grid column or -1 and its direction.
func (t *TableData) Sort() (int, bool) {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.sortCol, t.sortDesc
}

// SetSort records the sorted grid column.
func (t *TableData) SetSort(col int, desc bool) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.sortCol, t.sortDesc = col, desc
}

// Empty returns true if no data is available.
func (t *TableData) Empty() bool {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.rowEvents.Empty()
}

// RowCount returns the number of rows.
func (t *TableData) RowCount() int {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.rowEvents.Count()
}

// Clone returns a shallow copy of the table data.
func (t *TableData) Clone() *TableData {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return &TableData{
		header:    t.header,
		rowEvents: t.rowEvents,
		name:      t.name,
		current:   t.current,
		sortCol:   t.sortCol,
		sortDesc:  t.sortDesc,
		errMsg:    t.errMsg,
	}
}

// SetError sets an error message to display instead of data.
func (t *TableData) SetError(msg string) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.errMsg = msg
}

// Error returns the error message, if any.
func (t *TableData) Error() string {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.errMsg
}

// HasError returns true if there's an error message.
func (t *TableData) HasError() bool {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.errMsg != ""
}
