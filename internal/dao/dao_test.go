package dao

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gridbind/gridbind/internal/list"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func schemaNames(d *list.Documents) []string {
	return d.Schema().Names()
}

func TestFormatOf(t *testing.T) {
	uu := map[string]struct {
		file string
		want Format
		err  error
	}{
		"json": {file: "a.json", want: FormatJSON},
		"yml":  {file: "a.YML", want: FormatYAML},
		"conf": {file: "a.conf", want: FormatINI},
		"none": {file: "a.txt", err: ErrUnknownFormat},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			f, err := FormatOf(u.file)
			if u.err != nil {
				assert.ErrorIs(t, err, u.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, u.want, f)
		})
	}
}

func TestNewSource(t *testing.T) {
	src, err := NewSource("/x/orders.json", "", "")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, src.Format)
	assert.Equal(t, "orders", src.Name())
	assert.Equal(t, "/x/orders.json", src.String())

	src, err = NewSource("/x/dump.txt", "data.rows", "yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, src.Format)
	assert.Equal(t, "rows", src.Name())
	assert.Equal(t, "/x/dump.txt[data.rows]", src.String())

	_, err = NewSource("/x/dump.txt", "", "csv")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSelectRows(t *testing.T) {
	rows, err := SelectRows([]byte(`{"a":{"b":[{"x":1},{"x":2}]}}`), "a.b")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = SelectRows([]byte(`{"a":1}`), "a")
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = SelectRows([]byte(`[{"x":1},2]`), "")
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestInferFieldsUnion(t *testing.T) {
	ff := InferFields([][]byte{
		[]byte(`{"id":1,"sku":"a"}`),
		[]byte(`{"id":"2","note":"n"}`),
	})

	require.Len(t, ff, 3)
	assert.Equal(t, "id", ff[0].Name)
	assert.Equal(t, list.TypeString, ff[0].Type)
	assert.Equal(t, "note", ff[2].Name)
}

func TestJSONLoadSave(t *testing.T) {
	path := writeFile(t, "orders.json", `{
  "meta": {"v": 1},
  "orders": [
    {"id": 1, "sku": "a"},
    {"id": 2, "sku": "b", "note": "x"}
  ]
}`)
	s := NewStore(NewFactory(""), 0)
	src := Source{File: path, Path: "orders"}

	docs, err := s.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 2, docs.Len())
	assert.Equal(t, "orders", docs.ListName())
	assert.Equal(t, []string{"id", "sku", "note"}, schemaNames(docs))

	require.NoError(t, docs.Replace(0, []byte(`{"id":1,"sku":"z"}`)))
	require.NoError(t, docs.Append([]byte(`{"id":3,"sku":"c"}`)))
	require.NoError(t, s.Save(context.Background(), src, docs))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gjson.GetBytes(raw, "meta.v").Int())
	assert.Equal(t, "z", gjson.GetBytes(raw, "orders.0.sku").String())
	assert.Equal(t, int64(3), gjson.GetBytes(raw, "orders.#").Int())
}

func TestJSONRootArray(t *testing.T) {
	path := writeFile(t, "rows.json", `[{"a":1},{"a":2}]`)
	s := NewStore(NewFactory(""), 0)
	src := Source{File: path}

	docs, err := s.Load(context.Background(), src)
	require.NoError(t, err)
	require.NoError(t, docs.RemoveAt(0))
	require.NoError(t, s.Save(context.Background(), src, docs))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"a":2}]`, string(gjson.ParseBytes(raw).Get("@ugly").Raw))
}

func TestJSONLoadErrors(t *testing.T) {
	s := NewStore(NewFactory(""), 0)

	_, err := s.Load(context.Background(), Source{File: filepath.Join(t.TempDir(), "nope.json")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := writeFile(t, "bad.json", `{"a":`)
	_, err = s.Load(context.Background(), Source{File: bad})
	assert.Error(t, err)

	obj := writeFile(t, "obj.json", `{"a":1}`)
	_, err = s.Load(context.Background(), Source{File: obj})
	assert.ErrorIs(t, err, ErrNoRows)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Load(ctx, Source{File: obj})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestYAMLLoadSave(t *testing.T) {
	path := writeFile(t, "inv.yaml", `title: inv
items:
  - name: bolt
    qty: 10
    price: 0.25
    ok: true
  - name: nut
    qty: 3
    price: 1.5
    ok: false
`)
	s := NewStore(NewFactory(""), 0)
	src := Source{File: path, Path: "items"}

	docs, err := s.Load(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, 2, docs.Len())
	assert.Equal(t, []string{"name", "qty", "price", "ok"}, schemaNames(docs))

	ff := docs.Fields()
	assert.Equal(t, list.TypeString, ff[0].Type)
	assert.Equal(t, list.TypeInt, ff[1].Type)
	assert.Equal(t, list.TypeFloat, ff[2].Type)
	assert.Equal(t, list.TypeBool, ff[3].Type)

	require.NoError(t, docs.Replace(1, []byte(`{"name":"nut","qty":4,"price":1.5,"ok":false}`)))
	require.NoError(t, s.Save(context.Background(), src, docs))

	docs, err = s.Load(context.Background(), src)
	require.NoError(t, err)
	d, ok := docs.Doc(1)
	require.True(t, ok)
	assert.Equal(t, int64(4), d.Get("qty").Int())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "title: inv")
	assert.Contains(t, string(raw), "- name: bolt")
}

func TestYAMLQuotesAmbiguousStrings(t *testing.T) {
	out, err := encodeYAML([]byte(`[{"zip":"007","flag":"true","empty":""}]`), nil)
	require.NoError(t, err)

	back, err := decodeYAML(out)
	require.NoError(t, err)
	assert.Equal(t, "007", gjson.GetBytes(back, "0.zip").Str)
	assert.Equal(t, gjson.String, gjson.GetBytes(back, "0.flag").Type)
	assert.Equal(t, gjson.String, gjson.GetBytes(back, "0.empty").Type)
}

func TestINILoadSave(t *testing.T) {
	path := writeFile(t, "app.ini", `[server]
host = example.org
port = 8080
tls = true

[client]
retries = 3
timeout = 1.50
`)
	s := NewStore(NewFactory(""), 0)
	src := Source{File: path}

	docs, err := s.Load(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, 2, docs.Len())
	assert.Equal(t, []string{SectionField, "host", "port", "tls", "retries", "timeout"}, schemaNames(docs))

	d, _ := docs.Doc(0)
	assert.Equal(t, "server", d.Get(SectionField).String())
	assert.Equal(t, gjson.Number, d.Get("port").Type)
	d, _ = docs.Doc(1)
	assert.Equal(t, gjson.String, d.Get("timeout").Type)

	require.NoError(t, docs.Replace(0, []byte(`{"Section":"server","host":"example.com","port":9090,"tls":true}`)))
	require.NoError(t, s.Save(context.Background(), src, docs))

	docs, err = s.Load(context.Background(), src)
	require.NoError(t, err)
	d, _ = docs.Doc(0)
	assert.Equal(t, "example.com", d.Get("host").String())
	assert.Equal(t, int64(9090), d.Get("port").Int())
	d, _ = docs.Doc(1)
	assert.Equal(t, "1.50", d.Get("timeout").String())

	_, err = s.Load(context.Background(), Source{File: path, Path: "server"})
	assert.ErrorIs(t, err, ErrPathUnsupported)
}

func TestRowCache(t *testing.T) {
	now := time.Now()
	c := NewRowCache(time.Hour)
	c.Set("json:a", now, [][]byte{[]byte(`{}`)})

	assert.Len(t, c.Get("json:a", now), 1)
	assert.Nil(t, c.Get("json:a", now.Add(time.Second)))
	assert.Nil(t, c.Get("json:b", now))

	c.Set("json:b", now, [][]byte{})
	c.InvalidatePrefix("json:")
	assert.Nil(t, c.Get("json:a", now))

	c.Set("json:a", now, [][]byte{})
	c.Clear()
	assert.Nil(t, c.Get("json:a", now))

	expired := NewRowCache(-time.Second)
	expired.Set("k", now, [][]byte{})
	assert.Nil(t, expired.Get("k", now))
}

func TestStoreUsesCache(t *testing.T) {
	path := writeFile(t, "rows.json", `[{"a":1}]`)
	s := NewStore(NewFactory(""), time.Hour)
	src := Source{File: path, Format: FormatJSON}

	_, err := s.Load(context.Background(), src)
	require.NoError(t, err)
	mt, err := s.ModTime(src)
	require.NoError(t, err)
	assert.NotNil(t, s.cache.Get("json:"+path, mt))

	docs, err := s.Load(context.Background(), src)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), src, docs))
	assert.Nil(t, s.cache.Get("json:"+path, mt))
}

func TestAccessorRegistry(t *testing.T) {
	assert.Equal(t, []Format{FormatINI, FormatJSON, FormatYAML}, ListAccessors())

	a, err := AccessorFor(NewFactory(""), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, a.Format())

	_, err = AccessorFor(NewFactory(""), "csv")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
