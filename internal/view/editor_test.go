// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package view

import (
	"os"
	"testing"

	"github.com/gridbind/gridbind/internal/grid"
	"github.com/gridbind/gridbind/internal/list"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func bindDocs(t *testing.T, rows ...string) (*grid.DataGrid, *list.Documents) {
	t.Helper()

	raws := make([][]byte, 0, len(rows))
	for _, r := range rows {
		raws = append(raws, []byte(r))
	}
	docs, err := list.NewDocuments("fruits", raws)
	require.NoError(t, err)
	g := grid.NewDataGrid()
	require.NoError(t, g.SetDataBinding(docs))

	return g, docs
}

// writeOnEdit returns an editor replacing the file content with each of
// the given documents in turn.
func writeOnEdit(t *testing.T, seen *[]string, docs ...string) EditFunc {
	t.Helper()

	var calls int
	return func(path string) (int, error) {
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		*seen = append(*seen, string(raw))
		if calls >= len(docs) {
			return 0, nil
		}
		calls++
		return 0, os.WriteFile(path, []byte(docs[calls-1]), 0600)
	}
}

func TestEditRow(t *testing.T) {
	g, docs := bindDocs(t, `{"name":"pear","qty":3}`, `{"name":"apple","qty":5}`)
	require.NoError(t, g.SetCurrentRowIndex(1))

	var seen []string
	err := editRow(g, writeOnEdit(t, &seen, `{"name":"apple","qty":7}`))
	require.NoError(t, err)

	d, ok := docs.Doc(1)
	require.True(t, ok)
	assert.Equal(t, int64(7), gjson.GetBytes(d.Raw, "qty").Int())
	assert.Len(t, seen, 1)
	assert.Contains(t, seen[0], `"apple"`)
}

func TestEditRowRetry(t *testing.T) {
	g, docs := bindDocs(t, `{"name":"pear","qty":3}`)

	var seen []string
	err := editRow(g, writeOnEdit(t, &seen, `{"name":`, `{"name":"plum","qty":3}`))
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Contains(t, seen[1], "// ERROR: invalid JSON")
	d, _ := docs.Doc(0)
	assert.Equal(t, "plum", gjson.GetBytes(d.Raw, "name").String())
}

func TestEditRowNoChanges(t *testing.T) {
	g, _ := bindDocs(t, `{"name":"pear"}`)

	var seen []string
	assert.ErrorIs(t, editRow(g, writeOnEdit(t, &seen)), ErrNoChanges)
}

func TestEditRowCancelled(t *testing.T) {
	g, _ := bindDocs(t, `{"name":"pear"}`)

	err := editRow(g, func(string) (int, error) { return 1, nil })
	assert.ErrorIs(t, err, ErrEditorCancelled)
}

func TestEditRowNotDocuments(t *testing.T) {
	g := grid.NewDataGrid()
	require.NoError(t, g.SetDataBinding([]int{1, 2}))

	assert.ErrorIs(t, editRow(g, nil), ErrNotDocuments)
	assert.ErrorIs(t, editRow(grid.NewDataGrid(), nil), grid.ErrNotBound)
}

func TestStripErrorComment(t *testing.T) {
	uu := map[string]struct {
		in, want string
	}{
		"plain": {
			in:   "{\"a\":1}",
			want: "{\"a\":1}",
		},
		"comment": {
			in:   "// ERROR: boom\n// ---\n\n{\"a\":1}",
			want: "\n{\"a\":1}",
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.want, string(stripErrorComment([]byte(u.in))))
		})
	}
}
