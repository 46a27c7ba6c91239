package ui_test

import (
	"testing"

	"github.com/derailed/tcell/v2"
	"github.com/gridbind/gridbind/internal/ui"
	"github.com/stretchr/testify/assert"
)

func TestKeyActionsHandle(t *testing.T) {
	var hits int
	aa := ui.NewKeyActionsFromMap(ui.KeyMap{
		ui.KeyR: ui.NewKeyAction("Reload", func(*tcell.EventKey) *tcell.EventKey {
			hits++
			return nil
		}, true),
	})

	assert.Nil(t, aa.Handle(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone)))
	assert.Equal(t, 1, hits)

	evt := tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)
	assert.Equal(t, evt, aa.Handle(evt))
	assert.Equal(t, 1, hits)
}

func TestKeyActionsClearKeepsShared(t *testing.T) {
	aa := ui.NewKeyActions()
	aa.Add(ui.KeyA, ui.NewKeyAction("Add", nil, true))
	aa.Add(ui.KeyHelp, ui.NewSharedKeyAction("Help", nil, true))
	aa.Add(tcell.KeyEsc, ui.NewSharedKeyAction("Back", nil, false))
	assert.Equal(t, 3, aa.Len())

	aa.Clear()
	assert.Equal(t, 2, aa.Len())
	_, ok := aa.Get(ui.KeyA)
	assert.False(t, ok)
	_, ok = aa.Get(ui.KeyHelp)
	assert.True(t, ok)
}

func TestKeyActionsMergeDelete(t *testing.T) {
	aa := ui.NewKeyActions()
	aa.Add(ui.KeyA, ui.NewKeyAction("Add", nil, true))

	bb := ui.NewKeyActions()
	bb.Add(ui.KeyA, ui.NewKeyAction("Append", nil, true))
	bb.Add(ui.KeyD, ui.NewKeyAction("Describe", nil, true))
	aa.Merge(bb)

	a, ok := aa.Get(ui.KeyA)
	assert.True(t, ok)
	assert.Equal(t, "Append", a.Description)
	assert.Equal(t, 2, aa.Len())

	aa.Delete(ui.KeyA, ui.KeyD)
	assert.Equal(t, 0, aa.Len())
}

func TestKeyActionsHints(t *testing.T) {
	aa := ui.NewKeyActionsFromMap(ui.KeyMap{
		ui.KeyS:         ui.NewKeyAction("Sort", nil, true),
		tcell.KeyCtrlS:  ui.NewKeyAction("Save", nil, true),
		ui.KeyShiftD:    ui.NewKeyActionWithOpts("Delete", nil, ui.ActionOpts{Visible: true, Dangerous: true}),
		tcell.KeyEscape: ui.NewKeyAction("Back", nil, false),
	})

	hh := aa.Hints()
	assert.Equal(t, ui.MenuHints{
		{Mnemonic: "ctrl-s", Description: "Save", Visible: true},
		{Mnemonic: "esc", Description: "Back"},
		{Mnemonic: "D", Description: "Delete", Visible: true},
		{Mnemonic: "s", Description: "Sort", Visible: true},
	}, hh)
}
