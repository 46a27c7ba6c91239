// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package view

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gridbind/gridbind/internal/config"
	"github.com/gridbind/gridbind/internal/config/data"
	"github.com/gridbind/gridbind/internal/dao"
	"github.com/gridbind/gridbind/internal/export"
	"github.com/gridbind/gridbind/internal/grid"
	"github.com/gridbind/gridbind/internal/model"
)

var (
	// ErrNoBrowser is returned by commands needing an open source.
	ErrNoBrowser = errors.New("no source open")

	// ErrDrillDownDisabled is returned when a source turns relations off.
	ErrDrillDownDisabled = errors.New("relation drill down disabled")
)

// Command handles user command interpretation and execution.
type Command struct {
	app *App
}

// NewCommand creates a new command interpreter.
func NewCommand(app *App) *Command {
	return &Command{app: app}
}

// Run parses and executes a command line.
func (c *Command) Run(line string) error {
	line = strings.TrimSpace(strings.TrimPrefix(line, ":"))
	if line == "" {
		return nil
	}
	name, args := c.app.aliases.Expand(line)
	if n, aa, ok := strings.Cut(name, " "); ok {
		name, args = n, append(strings.Fields(aa), args...)
	}

	switch name {
	case "q", "quit":
		c.app.Stop()
		return nil
	case "help":
		c.app.showHelp()
		return nil
	case "source", "open":
		if len(args) == 0 {
			return errors.New("source command requires a file")
		}
		return c.Open(args[0])
	case "recent":
		return c.app.Push(NewRecent(c.app))
	}

	b, err := c.browser()
	if err != nil {
		return err
	}
	switch name {
	case "w", "save":
		if err := b.Save(); err != nil {
			return err
		}
		c.app.Flash().Infof("Saved %s", b.Model().Source())
	case "reload":
		b.Reload()
	case "describe":
		return c.app.Push(NewDescribe(c.app, b.Grid()))
	case "schema":
		return c.app.Push(NewSchema(c.app, b.Grid()))
	case "export":
		return c.exportCmd(b, args)
	case "relations":
		if len(args) == 0 {
			rr := b.Grid().Relations()
			if len(rr) == 0 {
				return fmt.Errorf("%s has no relations", b.Name())
			}
			c.app.Flash().Infof("Relations: %s", strings.Join(rr, ", "))
			return nil
		}
		return b.OpenRelation(args[0])
	case "sort":
		return c.sortCmd(b, args)
	case "show":
		return c.showCmd(b, args)
	default:
		return fmt.Errorf("unknown command %q", name)
	}

	return nil
}

// Open replaces the content stack with a browser over file, restoring the
// stored settings of the source. An already active source keeps its
// settings, including command line overrides.
func (c *Command) Open(file string) error {
	ctx, err := c.activate(file)
	if err != nil {
		return err
	}
	src, err := dao.NewSource(ctx.File, ctx.Path, ctx.Format)
	if err != nil {
		return err
	}
	if ctx.Format == "" {
		ctx.Format = string(src.Format)
	}

	g := grid.NewDataGrid(c.app.GridOptions(ctx.IsReadOnly())...)
	m := model.NewTableData(src, c.app.Store(), g, c.app.ModelOptions()...)
	b := NewBrowser(c.app, m, ctx)

	c.app.Content.Stack.Clear()
	c.app.SetSourceInfo(SourceInfoData{
		File:     src.File,
		Format:   string(src.Format),
		ReadOnly: g.ReadOnly(),
	})

	return c.app.Push(b)
}

func (c *Command) activate(file string) (*data.SourceContext, error) {
	gb := c.app.Config().GridBind
	if ctx := gb.ActiveSource(); ctx != nil {
		if abs, err := filepath.Abs(file); err == nil && abs == ctx.File {
			return ctx, nil
		}
	}

	return gb.ActivateSource(file)
}

// browser returns the top most browser of the content stack.
func (c *Command) browser() (*Browser, error) {
	cc := c.app.Content.Peek()
	for i := len(cc) - 1; i >= 0; i-- {
		if b, ok := cc[i].(*Browser); ok {
			return b, nil
		}
	}

	return nil, ErrNoBrowser
}

func (c *Command) exportCmd(b *Browser, args []string) error {
	path := ExportPath(b.Name())
	if len(args) > 0 {
		path = args[0]
	}
	if err := data.EnsureFullPath(path, 0700); err != nil {
		return err
	}
	if err := export.WriteFile(b.Grid(), path); err != nil {
		return err
	}
	c.app.Flash().Infof("Exported %d rows to %s", b.Grid().RowCount(), path)

	return nil
}

// ExportPath returns the default workbook path for a list.
func ExportPath(name string) string {
	return filepath.Join(config.AppExportsDir, data.SanitizeFileName(name)+".xlsx")
}

func (c *Command) sortCmd(b *Browser, args []string) error {
	if len(args) == 0 {
		return errors.New("sort command requires a column")
	}
	col, err := columnOf(b.Grid(), args[0])
	if err != nil {
		return err
	}
	desc := len(args) > 1 && strings.EqualFold(args[1], "desc")
	c0, _ := b.Grid().Column(col)
	if err := SortBy(b.Grid(), c0.MappingName(), desc); err != nil {
		return err
	}
	b.Model().Sync()

	return nil
}

func (c *Command) showCmd(b *Browser, args []string) error {
	if len(args) == 0 {
		b.ShowColumns()
		return nil
	}
	col, err := columnOf(b.Grid(), args[0])
	if err != nil {
		return err
	}

	return b.SetColumnVisible(col, true)
}

// columnOf resolves a column by mapping name, header text or index.
func columnOf(g *grid.DataGrid, s string) (int, error) {
	if i, ok := g.ColumnIndex(s); ok {
		return i, nil
	}
	for i, c := range g.Columns() {
		if strings.EqualFold(c.HeaderText(), s) {
			return i, nil
		}
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 0 && i < g.ColumnCount() {
		return i, nil
	}

	return -1, fmt.Errorf("%w: %q", grid.ErrNoColumn, s)
}
