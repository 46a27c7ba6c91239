// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package ui

import (
	"fmt"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const alertPageID = "alert-dialog"

// Dialog is a modal shown over the content pages.
type Dialog struct {
	*tview.Modal

	pages  *Pages
	pageID string
}

// NewDialog returns a dialog shown on pages under pageID.
func NewDialog(pages *Pages, pageID string) *Dialog {
	d := Dialog{
		Modal:  tview.NewModal(),
		pages:  pages,
		pageID: pageID,
	}
	d.SetBackgroundColor(tcell.ColorDefault)
	d.SetTextColor(tcell.ColorWhite)

	return &d
}

// SetMessage sets the dialog text.
func (d *Dialog) SetMessage(msg string) *Dialog {
	d.SetText(msg)
	return d
}

// SetButtons adds the dialog buttons.
func (d *Dialog) SetButtons(labels []string) *Dialog {
	d.AddButtons(labels)
	return d
}

// SetButtonHandler dismisses the dialog then calls handler with the
// pressed button.
func (d *Dialog) SetButtonHandler(handler func(int, string)) *Dialog {
	d.SetDoneFunc(func(idx int, label string) {
		d.Dismiss()
		if handler != nil {
			handler(idx, label)
		}
	})
	return d
}

// Show displays the dialog.
func (d *Dialog) Show() {
	if d.pages != nil {
		d.pages.Show(d.pageID, d)
	}
}

// Dismiss hides the dialog.
func (d *Dialog) Dismiss() {
	if d.pages != nil {
		d.pages.Dismiss(d.pageID)
	}
}

// SetColors sets the text and button colors.
func (d *Dialog) SetColors(text, btnBg, btnText tcell.Color) *Dialog {
	d.SetTextColor(text)
	d.SetButtonBackgroundColor(btnBg)
	d.SetButtonTextColor(btnText)
	return d
}

// PageID returns the page the dialog is shown under.
func (d *Dialog) PageID() string {
	return d.pageID
}

// Alert reports a failure the user has to acknowledge, such as a list
// whose bindings were suspended.
type Alert struct {
	*Dialog

	msg     string
	onClose func()
}

// NewAlert returns an alert shown on pages.
func NewAlert(pages *Pages) *Alert {
	a := Alert{Dialog: NewDialog(pages, alertPageID)}
	a.SetButtons([]string{"OK"})
	a.SetColors(tcell.ColorRed, tcell.ColorRed, tcell.ColorWhite)
	a.SetButtonHandler(func(int, string) {
		if a.onClose != nil {
			a.onClose()
		}
	})

	return &a
}

// ShowError displays err under title. onClose runs once the alert is
// acknowledged.
func (a *Alert) ShowError(title string, err error, onClose func()) {
	a.onClose = onClose
	a.msg = fmt.Sprintf("%s\n\n%v", title, err)
	a.SetMessage(a.msg)
	a.Show()
}

// Message returns the text currently shown.
func (a *Alert) Message() string {
	return a.msg
}
