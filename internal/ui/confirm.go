// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package ui

import (
	"github.com/derailed/tcell/v2"
)

const confirmPageID = "confirm-dialog"

// ConfirmFunc is called when user confirms action.
type ConfirmFunc func()

// Confirm represents a yes/no dialog.
type Confirm struct {
	*Dialog

	confirmed bool
	onConfirm ConfirmFunc
	onCancel  func()
}

// NewConfirm creates a new confirmation dialog.
func NewConfirm(pages *Pages) *Confirm {
	c := Confirm{Dialog: NewDialog(pages, confirmPageID)}
	c.SetButtons([]string{"Yes", "No"})
	c.SetButtonHandler(c.handleButton)
	c.SetDangerous(false)

	return &c
}

// SetMessage sets the confirmation message.
func (c *Confirm) SetMessage(msg string) *Confirm {
	c.Dialog.SetMessage(msg)
	return c
}

// SetDangerous styles the dialog for destructive operations.
func (c *Confirm) SetDangerous(dangerous bool) *Confirm {
	if dangerous {
		c.SetColors(tcell.ColorRed, tcell.ColorRed, tcell.ColorWhite)
	} else {
		c.SetColors(tcell.ColorWhite, tcell.ColorBlue, tcell.ColorWhite)
	}
	return c
}

// SetOnConfirm sets the callback for when user confirms.
func (c *Confirm) SetOnConfirm(fn ConfirmFunc) *Confirm {
	c.onConfirm = fn
	return c
}

// SetOnCancel sets the callback for when user cancels.
func (c *Confirm) SetOnCancel(fn func()) *Confirm {
	c.onCancel = fn
	return c
}

func (c *Confirm) handleButton(idx int, _ string) {
	c.confirmed = idx == 0
	switch {
	case c.confirmed && c.onConfirm != nil:
		c.onConfirm()
	case !c.confirmed && c.onCancel != nil:
		c.onCancel()
	}
}

// IsConfirmed returns true if user confirmed the action.
func (c *Confirm) IsConfirmed() bool {
	return c.confirmed
}
