// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package view

import (
	"fmt"
	"path/filepath"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/gridbind/gridbind/internal/render"
)

const maxInfoWidth = 32

// SourceInfoData describes the file shown in the header.
type SourceInfoData struct {
	Version  string
	File     string
	Format   string
	Rows     int
	ReadOnly bool
}

// SourceInfo displays the active source in the header.
type SourceInfo struct {
	*tview.Table

	data SourceInfoData
}

// NewSourceInfo creates a new source info display component.
func NewSourceInfo() *SourceInfo {
	s := &SourceInfo{
		Table: tview.NewTable(),
	}

	s.SetBorder(true)
	s.SetBorderColor(tcell.ColorDarkCyan)
	s.SetBorderPadding(0, 0, 1, 1)
	s.SetSelectable(false, false)

	return s
}

// SetInfo updates the displayed source information.
func (s *SourceInfo) SetInfo(d SourceInfoData) {
	s.data = d
	s.refresh()
}

// Info returns the displayed source information.
func (s *SourceInfo) Info() SourceInfoData {
	return s.data
}

// refresh rebuilds the compact two-line display.
func (s *SourceInfo) refresh() {
	s.Clear()

	file := render.MissingValue
	if s.data.File != "" {
		file = render.Truncate(filepath.Base(s.data.File), maxInfoWidth)
	}
	line1 := "[::b]" + tview.Escape(file) + "[-:-:-]"
	if s.data.ReadOnly {
		line1 += " [red::]ro[-::]"
	}
	s.SetCell(0, 0, tview.NewTableCell(line1).
		SetTextColor(tcell.ColorDarkCyan).
		SetAlign(tview.AlignLeft).
		SetSelectable(false))

	format := render.NA(s.data.Format)
	line2 := fmt.Sprintf("%s/%d [gray](v%s)[-]", format, s.data.Rows, s.data.Version)
	s.SetCell(1, 0, tview.NewTableCell(line2).
		SetTextColor(tcell.ColorWhite).
		SetAlign(tview.AlignLeft).
		SetSelectable(false))
}
