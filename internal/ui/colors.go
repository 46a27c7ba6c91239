package ui

import (
	"github.com/derailed/tcell/v2"
	gtcell "github.com/gdamore/tcell/v2"
)

// AsColor converts a core palette color to the terminal fork used by tview.
func AsColor(c gtcell.Color) tcell.Color {
	if c == gtcell.ColorDefault {
		return tcell.ColorDefault
	}
	h := c.Hex()
	if h < 0 {
		return tcell.ColorDefault
	}
	return tcell.NewHexColor(h)
}
