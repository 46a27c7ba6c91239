package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gridbind/gridbind/internal/config/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *Config {
	t.Helper()

	c := NewConfig()
	c.GridBind.SetDir(data.NewDirAt(filepath.Join(t.TempDir(), "sources")))
	return c
}

func TestConfigLoadMissingKeepsDefaults(t *testing.T) {
	c := newTestConfig(t)
	path := filepath.Join(t.TempDir(), "gridbind.yaml")

	require.NoError(t, c.Load(path, false))
	assert.Equal(t, 12, c.GridBind.Grid.PreferredColumnWidth)
	assert.Equal(t, "info", c.GridBind.Logger.Level)

	assert.Error(t, c.Load(path, true))
}

func TestConfigLoadValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridbind.yaml")
	raw := `gridbind:
  readOnly: true
  grid:
    preferredColumnWidth: 0
    nullText: ""
    allowSorting: false
  logger:
    level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0600))

	c := newTestConfig(t)
	require.NoError(t, c.Load(path, true))

	gb := c.GridBind
	assert.True(t, gb.ReadOnly)
	assert.Equal(t, 12, gb.Grid.PreferredColumnWidth)
	assert.Equal(t, "(null)", gb.Grid.NullText)
	assert.Equal(t, "2006-01-02", gb.Grid.DateFormat)
	assert.False(t, gb.Grid.AllowSorting)
	assert.Equal(t, "debug", gb.Logger.Level)
}

func TestConfigSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridbind.yaml")
	c := newTestConfig(t)
	require.NoError(t, c.Load(path, false))

	require.NoError(t, c.Save(false))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	c.GridBind.Grid.NullText = "-"
	require.NoError(t, c.Save(true))

	c2 := newTestConfig(t)
	require.NoError(t, c2.Load(path, true))
	assert.Equal(t, "-", c2.GridBind.Grid.NullText)
}

func TestRefinePrecedence(t *testing.T) {
	c := newTestConfig(t)
	file := filepath.Join(t.TempDir(), "orders.json")

	flags := data.NewFlags()
	*flags.Path = "orders"
	*flags.Sort = "Due"
	*flags.Desc = true
	*flags.ReadOnly = true
	*flags.LogLevel = "warn"
	require.NoError(t, c.Refine(flags, file))

	gb := c.GridBind
	ctx := gb.ActiveSource()
	require.NotNil(t, ctx)
	assert.Equal(t, "orders", ctx.Path)
	f, desc := ctx.Sort()
	assert.Equal(t, "Due", f)
	assert.True(t, desc)
	assert.True(t, gb.IsReadOnly())
	assert.True(t, gb.GridSettings().ReadOnly)
	assert.Equal(t, "warn", gb.Logger.Level)

	require.NoError(t, gb.SaveSource())

	// Write beats the stored read-only source mode.
	c2 := newTestConfig(t)
	c2.GridBind.SetDir(data.NewDirAt(gb.dir.Root()))
	flags = data.NewFlags()
	*flags.Write = true
	require.NoError(t, c2.Refine(flags, file))
	assert.False(t, c2.GridBind.IsReadOnly())
	assert.Equal(t, "orders", c2.GridBind.ActiveSource().Path)
}

func TestRefineWithoutSource(t *testing.T) {
	c := newTestConfig(t)
	require.NoError(t, c.Refine(NewFlags(), ""))
	assert.Nil(t, c.GridBind.ActiveSource())
	assert.Error(t, c.GridBind.SaveSource())
}

func TestAliases(t *testing.T) {
	a := NewAliases()
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aliases:\n  o: sort\n  s: save\n"), 0600))
	require.NoError(t, a.LoadFrom(path))

	cmd, args := a.Expand("o Due desc")
	assert.Equal(t, "sort", cmd)
	assert.Equal(t, []string{"Due", "desc"}, args)

	cmd, _ = a.Expand("s")
	assert.Equal(t, "save", cmd)

	cmd, args = a.Expand("   ")
	assert.Empty(t, cmd)
	assert.Nil(t, args)

	assert.Equal(t, "reload", a.Get("reload"))
}

func TestHotKeys(t *testing.T) {
	h := NewHotKeys()
	path := filepath.Join(t.TempDir(), "hotkeys.yaml")
	require.NoError(t, h.LoadFrom(path))
	assert.Empty(t, h.Names())

	raw := `hotKeys:
  byDue:
    shortCut: Ctrl-D
    description: Sort by due date
    command: sort Due
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0600))
	require.NoError(t, h.LoadFrom(path))

	hk, ok := h.ForShortCut("ctrl-d")
	require.True(t, ok)
	assert.Equal(t, "sort Due", hk.Command)
	_, ok = h.ForShortCut("F2")
	assert.False(t, ok)
}
