package list_test

import (
	"testing"
	"time"

	"github.com/gridbind/gridbind/internal/list"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocs(t *testing.T) *list.Documents {
	t.Helper()

	d, err := list.NewDocuments("orders", [][]byte{
		[]byte(`{"id":1,"customer":"ann","total":12.5,"paid":true,"placed":"2024-03-01T10:00:00Z","tags":["a"],"lines":[{"sku":"x"}]}`),
		[]byte(`{"id":2,"customer":"bob","total":3.25,"paid":false,"placed":"2024-03-02T10:00:00Z","tags":[],"lines":[{"sku":"y"},{"sku":"z"}]}`),
	})
	require.NoError(t, err)
	return d
}

func TestDocumentsInferSchema(t *testing.T) {
	d := sampleDocs(t)

	want := map[string]list.TypeTag{
		"id":       list.TypeInt,
		"customer": list.TypeString,
		"total":    list.TypeFloat,
		"paid":     list.TypeBool,
		"placed":   list.TypeTime,
		"tags":     list.TypeArray,
		"lines":    list.TypeList,
	}
	s := d.Schema()
	assert.Equal(t, []string{"id", "customer", "total", "paid", "placed", "tags", "lines"}, s.Names())
	for name, tag := range want {
		f, ok := s.Find(name)
		require.True(t, ok, name)
		assert.Equal(t, tag, f.Type, name)
	}
}

func TestInferFieldsWidens(t *testing.T) {
	uu := map[string]struct {
		rows []string
		want list.TypeTag
	}{
		"int-float":        {rows: []string{`{"v":1}`, `{"v":2.5}`}, want: list.TypeFloat},
		"float-int":        {rows: []string{`{"v":2.5}`, `{"v":1}`}, want: list.TypeFloat},
		"empty-relation":   {rows: []string{`{"v":[]}`, `{"v":[{"a":1}]}`}, want: list.TypeList},
		"relation-empty":   {rows: []string{`{"v":[{"a":1}]}`, `{"v":[]}`}, want: list.TypeList},
		"scalars-relation": {rows: []string{`{"v":[1]}`, `{"v":[{"a":1}]}`}, want: list.TypeArray},
		"null-bool":        {rows: []string{`{"v":null}`, `{"v":true}`}, want: list.TypeBool},
		"all-null":         {rows: []string{`{"v":null}`, `{"v":null}`}, want: list.TypeString},
		"int-text":         {rows: []string{`{"v":1}`, `{"v":"x"}`}, want: list.TypeString},
		"time-text":        {rows: []string{`{"v":"2024-03-01T10:00:00Z"}`, `{"v":"soon"}`}, want: list.TypeString},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			raws := make([][]byte, 0, len(u.rows))
			for _, r := range u.rows {
				raws = append(raws, []byte(r))
			}
			ff := list.InferFields(raws...)
			require.Len(t, ff, 1)
			assert.Equal(t, u.want, ff[0].Type)
		})
	}
}

func TestDocumentsLaterRowsWidenSchema(t *testing.T) {
	d, err := list.NewDocuments("items", [][]byte{
		[]byte(`{"sku":"a","qty":1,"lines":[]}`),
		[]byte(`{"sku":"b","qty":2.5,"lines":[{"id":"l1"}],"note":"late"}`),
	})
	require.NoError(t, err)

	s := d.Schema()
	assert.Equal(t, []string{"sku", "qty", "lines", "note"}, s.Names())
	qty, ok := s.Find("qty")
	require.True(t, ok)
	v, err := qty.Get(d.At(1))
	require.NoError(t, err)
	assert.InDelta(t, 2.5, v, 0.001)

	lines, ok := s.Find("lines")
	require.True(t, ok)
	assert.True(t, lines.IsRelation())
	v, err = lines.Get(d.At(0))
	require.NoError(t, err)
	child, ok := v.(*list.Documents)
	require.True(t, ok)
	assert.Equal(t, 0, child.Len())
}

func TestDocumentsFieldAccess(t *testing.T) {
	d := sampleDocs(t)
	s := d.Schema()

	customer, _ := s.Find("customer")
	v, err := customer.Value(d.At(1))
	require.NoError(t, err)
	assert.Equal(t, "bob", v)

	placed, _ := s.Find("placed")
	v, err = placed.Value(d.At(0))
	require.NoError(t, err)
	placedAt, ok := v.(time.Time)
	require.True(t, ok)
	assert.True(t, placedAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))

	lines, _ := s.Find("lines")
	v, err = lines.Value(d.At(1))
	require.NoError(t, err)
	child, ok := v.(*list.Documents)
	require.True(t, ok)
	assert.Equal(t, 2, child.Len())

	require.NoError(t, customer.SetValue(d.At(0), "cat"))
	doc, _ := d.Doc(0)
	assert.Equal(t, "cat", doc.Get("customer").String())
}

func TestDocumentsReplaceDiffs(t *testing.T) {
	d := sampleDocs(t)
	var r recorder
	d.Subscribe(r.record)

	doc, _ := d.Doc(0)
	same := append([]byte(nil), doc.Raw...)
	require.NoError(t, d.Replace(0, same))
	assert.Empty(t, r.events)

	changed := []byte(`{"id":1,"customer":"ann","total":99,"paid":true,"placed":"2024-03-01T10:00:00Z","tags":["a"],"lines":[]}`)
	patch, err := d.Diff(0, changed)
	require.NoError(t, err)
	assert.NotEmpty(t, patch)

	require.NoError(t, d.Replace(0, changed))
	assert.Equal(t, []list.ChangeKind{list.ItemChanged}, r.kinds())

	assert.Error(t, d.Replace(0, []byte(`{nope`)))
	assert.ErrorIs(t, d.Replace(5, changed), list.ErrIndex)
}

func TestDocumentsEditing(t *testing.T) {
	d := sampleDocs(t)
	var r recorder
	d.Subscribe(r.record)

	idx, err := d.AddNew()
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	d.CancelNew(idx)
	assert.Equal(t, 2, d.Len())

	require.NoError(t, d.Append([]byte(`{"id":3,"customer":"al"}`)))
	require.NoError(t, d.ApplySort("customer", false))
	assert.Equal(t, 0, d.Find("customer", "al"))
	assert.Equal(t, 2, d.Find("id", 2))

	require.NoError(t, d.RemoveAt(0))
	assert.Equal(t, []list.ChangeKind{
		list.ItemAdded, list.ItemDeleted, list.ItemAdded, list.Reset, list.ItemDeleted,
	}, r.kinds())
}

func TestNewDocumentsRejectsInvalid(t *testing.T) {
	_, err := list.NewDocuments("bad", [][]byte{[]byte(`[1,`)})
	assert.Error(t, err)
}
