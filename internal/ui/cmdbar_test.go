package ui_test

import (
	"testing"

	"github.com/derailed/tcell/v2"
	"github.com/gridbind/gridbind/internal/ui"
	"github.com/stretchr/testify/assert"
)

func typeText(c *ui.CmdBar, s string) {
	h := c.GetInputCapture()
	for _, r := range s {
		h(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func press(c *ui.CmdBar, k tcell.Key) {
	c.GetInputCapture()(tcell.NewEventKey(k, 0, tcell.ModNone))
}

func TestCmdBarCommand(t *testing.T) {
	c := ui.NewCmdBar()
	var cmd string
	c.SetCommandFn(func(s string) { cmd = s })

	c.Activate(ui.ModeCommand)
	assert.True(t, c.IsActive())
	typeText(c, "sav")
	press(c, tcell.KeyTab)
	assert.Equal(t, "save", c.GetText())

	press(c, tcell.KeyEnter)
	assert.Equal(t, ":save", cmd)
	assert.False(t, c.IsActive())
	assert.Equal(t, ui.ModeNormal, c.Mode())
	assert.Equal(t, []string{"save"}, c.History())
}

func TestCmdBarHistory(t *testing.T) {
	c := ui.NewCmdBar()
	for _, s := range []string{"sort qty", "reload", "reload"} {
		c.Activate(ui.ModeCommand)
		typeText(c, s)
		press(c, tcell.KeyEnter)
	}
	assert.Equal(t, []string{"sort qty", "reload"}, c.History())

	c.Activate(ui.ModeCommand)
	press(c, tcell.KeyUp)
	assert.Equal(t, "reload", c.GetText())
	press(c, tcell.KeyUp)
	assert.Equal(t, "sort qty", c.GetText())
	press(c, tcell.KeyUp)
	assert.Equal(t, "sort qty", c.GetText())
	press(c, tcell.KeyDown)
	assert.Equal(t, "reload", c.GetText())
	press(c, tcell.KeyDown)
	assert.Equal(t, "", c.GetText())
}

func TestCmdBarEdit(t *testing.T) {
	c := ui.NewCmdBar()
	var got string
	c.ActivateEdit("name", "pear", func(s string) { got = s })
	assert.Equal(t, ui.ModeEdit, c.Mode())
	assert.Equal(t, "pear", c.GetText())

	press(c, tcell.KeyBackspace2)
	typeText(c, "s")
	press(c, tcell.KeyEnter)
	assert.Equal(t, "peas", got)
	assert.Empty(t, c.History())
}

func TestCmdBarEditEscape(t *testing.T) {
	c := ui.NewCmdBar()
	var (
		edited    bool
		cancelled bool
	)
	c.SetCancelFn(func() { cancelled = true })
	c.ActivateEdit("name", "pear", func(string) { edited = true })

	press(c, tcell.KeyEsc)
	assert.False(t, edited)
	assert.False(t, cancelled)
	assert.False(t, c.IsActive())
}

func TestCmdBarFilter(t *testing.T) {
	c := ui.NewCmdBar()
	var live []string
	c.SetFilterFn(func(s string) { live = append(live, s) })

	c.Activate(ui.ModeFilter)
	typeText(c, "pe")
	assert.Equal(t, []string{"p", "pe"}, live)

	press(c, tcell.KeyEnter)
	assert.Equal(t, "pe", c.GetFilterText())
	c.ClearFilter()
	assert.Equal(t, "", c.GetFilterText())
}

func TestCmdBarInactive(t *testing.T) {
	c := ui.NewCmdBar()
	evt := tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)
	assert.Equal(t, evt, c.GetInputCapture()(evt))
}
