package model

import (
	"context"
	"errors"

	"github.com/gridbind/gridbind/internal/model1"
)

var (
	// ErrNoSource is returned when a model has no backing file.
	ErrNoSource = errors.New("model has no source file")

	// ErrNoList is returned before the first load.
	ErrNoList = errors.New("no list loaded")
)

// TableModel defines the interface for a table data model bound to a grid.
type TableModel interface {
	// Header returns the table header.
	Header() model1.Header

	// RowCount returns the number of rows.
	RowCount() int

	// RowEvents returns the current row events.
	RowEvents() *model1.RowEvents

	// Peek returns the current snapshot.
	Peek() *model1.TableData

	// Watch loads the source and reloads it when the file changes.
	Watch(context.Context) error

	// Refresh reloads the source immediately.
	Refresh(context.Context) error

	// AddListener registers a table listener.
	AddListener(TableListener)

	// RemoveListener unregisters a table listener.
	RemoveListener(TableListener)
}

// TableListener represents a table model listener.
type TableListener interface {
	// TableNoData notifies listener no data was found.
	TableNoData(*model1.TableData)

	// TableDataChanged notifies the model data changed.
	TableDataChanged(*model1.TableData)

	// TableLoadFailed notifies the load failed.
	TableLoadFailed(error)

	// TableEditFailed notifies a rejected edit or row change.
	TableEditFailed(error)
}
