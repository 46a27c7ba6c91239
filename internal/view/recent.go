// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package view

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/gridbind/gridbind/internal/config/data"
	"github.com/gridbind/gridbind/internal/render"
	"github.com/gridbind/gridbind/internal/ui"
)

// Recent lists the source files with saved settings and opens the
// selected one.
type Recent struct {
	*tview.Table

	app     *App
	sources []*data.SourceContext
	current string
}

// NewRecent creates a new recent sources view.
func NewRecent(app *App) *Recent {
	r := &Recent{
		Table: tview.NewTable(),
		app:   app,
	}

	r.SetBorder(true)
	r.SetTitle(" Recent ")
	r.SetTitleAlign(tview.AlignCenter)
	r.SetBorderColor(tcell.ColorAqua)
	r.SetBackgroundColor(tcell.ColorDefault)
	r.SetSelectable(true, false)
	r.SetFixed(1, 0)

	return r
}

// Init initializes the view.
func (r *Recent) Init(context.Context) error {
	r.SetInputCapture(r.keyboard)
	return nil
}

// Start loads the sources.
func (r *Recent) Start() {
	r.loadSources()
}

// Stop ends the view lifecycle.
func (*Recent) Stop() {}

// Name returns the view name.
func (*Recent) Name() string {
	return "recent"
}

// Hints returns menu hints.
func (*Recent) Hints() ui.MenuHints {
	return ui.MenuHints{
		{Mnemonic: "enter", Description: "Open", Visible: true},
		{Mnemonic: "esc", Description: "Back", Visible: true},
	}
}

// Sources returns the listed sources.
func (r *Recent) Sources() []*data.SourceContext {
	return r.sources
}

func (r *Recent) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, col := r.GetSelection()
	rowCount := r.GetRowCount()

	switch ui.AsKey(evt) {
	case ui.KeyJ, tcell.KeyDown:
		if row < rowCount-1 {
			r.Select(row+1, col)
		}
		return nil
	case ui.KeyK, tcell.KeyUp:
		if row > 1 {
			r.Select(row-1, col)
		}
		return nil
	case ui.KeyG:
		if rowCount > 1 {
			r.Select(1, col)
		}
		return nil
	case ui.KeyShiftG:
		if rowCount > 1 {
			r.Select(rowCount-1, col)
		}
		return nil
	case tcell.KeyEnter:
		r.openSelected()
		return nil
	case tcell.KeyEsc:
		r.app.Pop()
		return nil
	}

	return evt
}

func (r *Recent) loadSources() {
	r.Clear()

	for col, h := range []string{"", "FILE", "DIR", "FORMAT", "SORT", "READONLY"} {
		r.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1))
	}

	if ctx := r.app.Config().GridBind.ActiveSource(); ctx != nil {
		r.current = ctx.File
	}
	ss, err := r.app.Config().GridBind.Sources()
	if err != nil {
		r.showNoData(err.Error())
		return
	}
	r.sources = ss
	if len(ss) == 0 {
		r.showNoData("No recent sources")
		return
	}

	for i, s := range ss {
		row, active := i+1, s.File == r.current
		indicator, color := "", tcell.ColorWhite
		if active {
			indicator, color = "●", tcell.ColorGreen
		}
		f, desc := s.Sort()
		order := ""
		if desc {
			order = "desc"
		}
		sort := render.Missing(render.JoinStrings(" ", f, order))
		r.SetCell(row, 0, tview.NewTableCell(indicator).
			SetTextColor(tcell.ColorGreen).
			SetAlign(tview.AlignCenter))
		r.SetCell(row, 1, tview.NewTableCell(filepath.Base(s.File)).
			SetTextColor(color).
			SetExpansion(1).
			SetReference(s.File))
		r.SetCell(row, 2, tview.NewTableCell(filepath.Dir(s.File)).
			SetTextColor(tcell.ColorGray).
			SetExpansion(1))
		r.SetCell(row, 3, tview.NewTableCell(render.NA(s.Format)).
			SetTextColor(color).
			SetExpansion(1))
		r.SetCell(row, 4, tview.NewTableCell(sort).
			SetTextColor(color).
			SetExpansion(1))
		r.SetCell(row, 5, tview.NewTableCell(render.BoolToYesNo(s.IsReadOnly())).
			SetTextColor(color).
			SetExpansion(1))
	}

	r.SetTitle(fmt.Sprintf(" Recent [%d] ", len(ss)))
	r.Select(1, 0)
}

func (r *Recent) showNoData(msg string) {
	r.SetCell(1, 0, tview.NewTableCell(msg).
		SetTextColor(tcell.ColorGray).
		SetAlign(tview.AlignCenter).
		SetSelectable(false))
}

func (r *Recent) openSelected() {
	row, _ := r.GetSelection()
	if row < 1 || row > len(r.sources) {
		return
	}
	file := r.sources[row-1].File
	if file == r.current {
		r.app.Flash().Infof("Already viewing %s", filepath.Base(file))
		return
	}
	if err := r.app.Open(file); err != nil {
		r.app.Flash().Errf("Failed to open %s: %v", filepath.Base(file), err)
	}
}
