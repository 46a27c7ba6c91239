package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gridbind/gridbind/internal/config"
	"github.com/gridbind/gridbind/internal/config/data"
	"github.com/gridbind/gridbind/internal/dao"
	"github.com/gridbind/gridbind/internal/export"
	"github.com/gridbind/gridbind/internal/grid"
	"github.com/gridbind/gridbind/internal/model"
	"github.com/gridbind/gridbind/internal/model1"
	"github.com/gridbind/gridbind/internal/render"
	"github.com/gridbind/gridbind/internal/view"
)

const colGap = 2

var (
	schemaCmd = &cobra.Command{
		Use:   "schema file",
		Short: "Print the columns derived for a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchema,
	}
	exportCmd = &cobra.Command{
		Use:   "export file",
		Short: "Export the rows of a file to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
)

func runSchema(cmd *cobra.Command, args []string) error {
	g, done, err := loadGrid(cmd, args[0])
	if err != nil {
		return err
	}
	defer done()

	return printTable(cmd.OutOrStdout(), view.SchemaData(g))
}

func runExport(cmd *cobra.Command, args []string) error {
	g, done, err := loadGrid(cmd, args[0])
	if err != nil {
		return err
	}
	defer done()

	path := *gbFlags.Output
	if path == "" {
		path = view.ExportPath(g.TableStyle().MappingName())
	}
	if err := data.EnsureFullPath(path, 0700); err != nil {
		return err
	}
	if err := export.WriteFile(g, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", g.RowCount(), path)

	return nil
}

// loadGrid binds the rows of file to a grid without a terminal, restoring
// the stored layout of the source.
func loadGrid(cmd *cobra.Command, file string) (*grid.DataGrid, func(), error) {
	cfg, err := loadConfig(file)
	if err != nil {
		return nil, nil, err
	}
	l, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	done := func() { _ = l.Close() }

	g, err := bindSource(cmd, cfg, l.Logger)
	if err != nil {
		done()
		return nil, nil, err
	}

	return g, done, nil
}

func bindSource(cmd *cobra.Command, cfg *config.Config, log zerolog.Logger) (*grid.DataGrid, error) {
	ctx := cfg.GridBind.ActiveSource()
	if ctx == nil {
		return nil, fmt.Errorf("no source file")
	}
	src, err := dao.NewSource(ctx.File, ctx.Path, ctx.Format)
	if err != nil {
		return nil, err
	}

	g := grid.NewDataGrid(
		grid.WithLogger(log),
		grid.WithSettings(cfg.GridBind.GridSettings()),
	)
	m := model.NewTableData(src, dao.NewStore(dao.NewFactory(""), storeTTL), g, model.WithLogger(log))
	if err := m.Load(cmd.Context()); err != nil {
		return nil, err
	}
	if err := view.ApplyLayout(g, ctx); err != nil {
		log.Warn().Err(err).Msg("Layout restore failed")
	}

	return g, nil
}

// printTable writes td as space aligned columns.
func printTable(w io.Writer, td *model1.TableData) error {
	header := td.Header().ColumnNames(true)
	rows := [][]string{header}
	td.RowEvents().Range(func(_ int, re model1.RowEvent) bool {
		rows = append(rows, re.Row.Fields)
		return true
	})

	widths := make([]int, len(header))
	for _, r := range rows {
		for i, f := range r {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(f))
			}
		}
	}

	for _, r := range rows {
		var b strings.Builder
		for i, f := range r {
			if i >= len(widths) {
				break
			}
			if i == len(widths)-1 {
				b.WriteString(f)
				continue
			}
			b.WriteString(render.Pad(f, widths[i]+colGap))
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " ")); err != nil {
			return err
		}
	}

	return nil
}
