// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package view

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/gridbind/gridbind/internal/grid"
	"github.com/gridbind/gridbind/internal/list"
	"github.com/gridbind/gridbind/internal/ui"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"
)

// Describe displays the current row of a grid.
type Describe struct {
	*tview.TextView

	app     *App
	grid    *grid.DataGrid
	row     int
	format  string
	raw     []byte
	actions *ui.KeyActions
	wrapOn  bool
}

// NewDescribe creates a detail view over the current row of g.
func NewDescribe(app *App, g *grid.DataGrid) *Describe {
	d := &Describe{
		TextView: tview.NewTextView(),
		app:      app,
		grid:     g,
		row:      g.CurrentRowIndex(),
		format:   "yaml",
		actions:  ui.NewKeyActions(),
	}

	d.SetDynamicColors(true)
	d.SetWrap(false)
	d.SetWordWrap(false)
	d.SetScrollable(true)
	d.SetBorder(true)
	d.SetBorderPadding(0, 0, 1, 1)
	d.SetBorderColor(tcell.ColorAqua)

	return d
}

// Init initializes the describe view.
func (d *Describe) Init(context.Context) error {
	d.bindKeys()
	d.SetInputCapture(d.keyboard)
	return nil
}

// Start renders the row.
func (d *Describe) Start() {
	d.Refresh()
}

// Stop stops the describe view.
func (d *Describe) Stop() {}

// Name returns the view name.
func (*Describe) Name() string {
	return "describe"
}

// Hints returns the menu hints for this view.
func (d *Describe) Hints() ui.MenuHints {
	return d.actions.Hints()
}

// Refresh reloads the row content.
func (d *Describe) Refresh() {
	d.Clear()

	raw, err := RowJSON(d.grid, d.row)
	if err != nil {
		d.SetText(fmt.Sprintf("[red::]%v[-::]", err))
		return
	}
	d.raw = raw
	d.SetText(d.content())
	d.updateTitle()
	d.ScrollToBeginning()
}

func (d *Describe) bindKeys() {
	d.actions.Bulk(ui.KeyMap{
		ui.KeyY:      ui.NewKeyAction("YAML", d.formatCmd("yaml"), true),
		ui.KeyJ:      ui.NewKeyAction("JSON", d.formatCmd("json"), true),
		ui.KeyW:      ui.NewKeyAction("Wrap", d.toggleWrap, true),
		tcell.KeyEsc: ui.NewKeyAction("Back", d.backCmd, true),
		ui.KeyQ:      ui.NewSharedKeyAction("Back", d.backCmd, false),
	})
}

func (d *Describe) toggleWrap(*tcell.EventKey) *tcell.EventKey {
	d.wrapOn = !d.wrapOn
	d.SetWrap(d.wrapOn)
	d.SetWordWrap(d.wrapOn)
	return nil
}

func (d *Describe) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, _ := d.GetScrollOffset()
	switch evt.Key() {
	case tcell.KeyDown:
		d.ScrollTo(row+1, 0)
		return nil
	case tcell.KeyUp:
		d.ScrollTo(max(row-1, 0), 0)
		return nil
	case tcell.KeyPgDn:
		d.ScrollTo(row+20, 0)
		return nil
	case tcell.KeyPgUp:
		d.ScrollTo(max(row-20, 0), 0)
		return nil
	case tcell.KeyHome:
		d.ScrollToBeginning()
		return nil
	case tcell.KeyEnd:
		d.ScrollToEnd()
		return nil
	}

	if evt.Key() == tcell.KeyRune {
		switch evt.Rune() {
		case 'k':
			d.ScrollTo(max(row-1, 0), 0)
			return nil
		case 'g':
			d.ScrollToBeginning()
			return nil
		case 'G':
			d.ScrollToEnd()
			return nil
		}
	}

	return d.actions.Handle(evt)
}

func (d *Describe) formatCmd(format string) ui.ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		d.format = format
		d.Clear()
		d.SetText(d.content())
		d.updateTitle()
		d.ScrollToBeginning()
		return nil
	}
}

func (d *Describe) backCmd(*tcell.EventKey) *tcell.EventKey {
	d.app.Pop()
	return nil
}

func (d *Describe) updateTitle() {
	name := "rows"
	if cm := d.grid.CurrencyManager(); cm != nil {
		name = cm.ListName()
	}
	d.SetTitle(fmt.Sprintf(" %s[%d] [%s] ", name, d.row, strings.ToUpper(d.format)))
}

func (d *Describe) content() string {
	if len(d.raw) == 0 {
		return "[red::]No data available[-::]"
	}
	if d.format == "json" {
		return tview.Escape(string(pretty.Pretty(d.raw)))
	}
	out, err := ToYAML(d.raw)
	if err != nil {
		return fmt.Sprintf("[red::]# Error generating YAML: %v[-::]", err)
	}

	return highlightYAML(tview.Escape(out))
}

// RowJSON returns the JSON document of row i of g. Rows that are not JSON
// documents are rendered from their browsable fields.
func RowJSON(g *grid.DataGrid, i int) ([]byte, error) {
	cm := g.CurrencyManager()
	if cm == nil {
		return nil, grid.ErrNotBound
	}
	row, err := cm.At(i)
	if err != nil {
		return nil, err
	}
	if doc, ok := row.(*list.Document); ok {
		return doc.Raw, nil
	}

	m := make(map[string]any)
	for _, f := range cm.ItemProperties().Browsable() {
		v, err := f.Value(row)
		if err != nil {
			return nil, err
		}
		if l, ok := v.(list.List); ok && f.IsRelation() {
			v = fmt.Sprintf("<%d rows>", l.Len())
		}
		m[f.Name] = v
	}

	return json.Marshal(m)
}

// ToYAML converts a JSON document to block style YAML, keeping key order.
func ToYAML(raw []byte) (string, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	blockStyle(&n)
	out, err := yaml.Marshal(&n)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// highlightYAML applies syntax highlighting to YAML content.
func highlightYAML(content string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSuffix(content, "\n"), "\n") {
		colonIdx := strings.Index(line, ":")
		if colonIdx <= 0 {
			b.WriteString(line + "\n")
			continue
		}
		key, value := line[:colonIdx+1], strings.TrimSpace(line[colonIdx+1:])
		keyStart := len(key) - len(strings.TrimLeft(key, " -"))
		indent, key := key[:keyStart], key[keyStart:]
		if value == "" {
			fmt.Fprintf(&b, "%s[aqua::]%s[-::]\n", indent, key)
			continue
		}
		fmt.Fprintf(&b, "%s[aqua::]%s[-::] %s\n", indent, key, colorizeValue(value))
	}

	return b.String()
}

// colorizeValue applies color based on value type.
func colorizeValue(value string) string {
	trimmed := strings.Trim(value, "\"'")
	switch strings.ToLower(trimmed) {
	case "true":
		return "[green::]" + value + "[-::]"
	case "false":
		return "[red::]" + value + "[-::]"
	case "null", "~":
		return "[gray::]" + value + "[-::]"
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return "[fuchsia::]" + value + "[-::]"
	}

	return value
}
