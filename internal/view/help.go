// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package view

import (
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/gridbind/gridbind/internal/ui"
)

// HelpBind represents a single keybinding.
type HelpBind struct {
	Key  string
	Desc string
}

var (
	helpCommands = []HelpBind{
		{":source", "Open File"},
		{":recent", "Recent Files"},
		{":save", "Save"},
		{":reload", "Reload"},
		{":sort", "Sort Column"},
		{":show", "Show Column"},
		{":schema", "Columns"},
		{":export", "Export XLSX"},
		{":relations", "Child Rows"},
		{":quit", "Quit"},
	}

	helpGeneral = []HelpBind{
		{"<:>", "Command"},
		{"</>", "Filter"},
		{"<?>", "Help"},
		{"<esc>", "Back"},
		{"<q>", "Quit"},
	}

	helpNavigation = []HelpBind{
		{"<j>", "Down"},
		{"<k>", "Up"},
		{"<h>", "Left"},
		{"<l>", "Right"},
		{"<g>", "Top"},
		{"<G>", "Bottom"},
		{"<enter>", "Select"},
	}
)

// Help displays a full-screen help view with keybindings.
type Help struct {
	*tview.Table

	closeFn func()
	hints   ui.MenuHints
}

// NewHelp creates a new help view.
func NewHelp() *Help {
	h := &Help{
		Table: tview.NewTable(),
	}
	h.build()

	return h
}

// SetCloseFn sets the callback when help is closed.
func (h *Help) SetCloseFn(fn func()) {
	h.closeFn = fn
}

// SetHints sets the key hints of the current view.
func (h *Help) SetHints(hh ui.MenuHints) {
	h.hints = hh
	h.Clear()
	h.populateHelp()
}

func (h *Help) build() {
	h.SetBorder(true)
	h.SetTitle(" Help ")
	h.SetTitleAlign(tview.AlignCenter)
	h.SetBorderColor(tcell.ColorYellow)
	h.SetBackgroundColor(tcell.ColorDefault)
	h.SetSelectable(false, false)

	h.populateHelp()

	h.SetInputCapture(func(evt *tcell.EventKey) *tcell.EventKey {
		switch {
		case evt.Key() == tcell.KeyEsc, evt.Key() == tcell.KeyEnter,
			evt.Rune() == '?', evt.Rune() == 'q':
			if h.closeFn != nil {
				h.closeFn()
			}
			return nil
		}
		return evt
	})
}

func (h *Help) viewBinds() []HelpBind {
	bb := make([]HelpBind, 0, len(h.hints))
	for _, hint := range h.hints {
		if hint.IsBlank() || !hint.Visible {
			continue
		}
		bb = append(bb, HelpBind{Key: "<" + hint.Mnemonic + ">", Desc: hint.Description})
	}

	return bb
}

// populateHelp fills the table in a 4 column layout.
func (h *Help) populateHelp() {
	columns := [][]HelpBind{helpCommands, helpGeneral, helpNavigation, h.viewBinds()}
	headers := []string{"COMMANDS", "GENERAL", "NAVIGATION", "VIEW"}

	maxRows := 0
	for _, col := range columns {
		maxRows = max(maxRows, len(col))
	}

	// Each logical column spans key, desc and spacer cells.
	const colWidth = 3
	for colIdx, col := range columns {
		baseCol := colIdx * colWidth
		h.SetCell(0, baseCol, tview.NewTableCell(headers[colIdx]).
			SetTextColor(tcell.ColorAqua).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))

		for rowIdx, bind := range col {
			h.SetCell(rowIdx+1, baseCol, tview.NewTableCell(bind.Key).
				SetTextColor(tcell.ColorYellow).
				SetSelectable(false))
			h.SetCell(rowIdx+1, baseCol+1, tview.NewTableCell(bind.Desc).
				SetTextColor(tcell.ColorWhite).
				SetSelectable(false).
				SetExpansion(1))
		}

		if colIdx < len(columns)-1 {
			for row := 0; row <= maxRows; row++ {
				h.SetCell(row, baseCol+2, tview.NewTableCell("").
					SetSelectable(false).
					SetExpansion(1))
			}
		}
	}

	h.SetCell(maxRows+2, 0, tview.NewTableCell("<esc> to close").
		SetTextColor(tcell.ColorGray).
		SetSelectable(false))
}
