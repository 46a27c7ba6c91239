// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package view

import (
	"context"

	"github.com/derailed/tcell/v2"
	"github.com/gridbind/gridbind/internal/ui"
)

// Table wraps ui.Table with view-layer key bindings.
type Table struct {
	*ui.Table

	app     *App
	enterFn func(*tcell.EventKey) *tcell.EventKey
}

// NewTable creates a new table view.
func NewTable(app *App, name string) *Table {
	return &Table{
		Table: ui.NewTable(name),
		app:   app,
	}
}

// Init initializes the table view.
func (t *Table) Init(ctx context.Context) error {
	if err := t.Table.Init(ctx); err != nil {
		return err
	}
	t.bindKeys(t.Actions())

	return nil
}

// Start begins the table lifecycle.
func (*Table) Start() {}

// Stop ends the table lifecycle.
func (*Table) Stop() {}

// SetEnterFn sets the enter key handler.
func (t *Table) SetEnterFn(fn func(*tcell.EventKey) *tcell.EventKey) {
	t.enterFn = fn
}

// App returns the owning application.
func (t *Table) App() *App {
	return t.app
}

func (t *Table) bindKeys(aa *ui.KeyActions) {
	aa.Bulk(ui.KeyMap{
		tcell.KeyEnter: ui.NewKeyAction("Select", t.enterCmd, false),
		ui.KeyHelp:     ui.NewSharedKeyAction("Help", nil, true),
		ui.KeySlash:    ui.NewSharedKeyAction("Filter", nil, true),
		ui.KeyColon:    ui.NewSharedKeyAction("Command", nil, true),
	})
}

func (t *Table) enterCmd(evt *tcell.EventKey) *tcell.EventKey {
	if t.enterFn != nil {
		return t.enterFn(evt)
	}
	return evt
}
