package render_test

import (
	"testing"
	"time"

	"github.com/gridbind/gridbind/internal/list"
	"github.com/gridbind/gridbind/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneralNumber(t *testing.T) {
	var f render.GeneralNumber

	assert.Equal(t, "12.5", f.Format(12.5))
	assert.Equal(t, "3", f.Format(3))
	assert.Equal(t, "1e+21", f.Format(1e21))

	uu := map[string]struct {
		text string
		tag  list.TypeTag
		e    any
		err  bool
	}{
		"int":      {text: "1,024", tag: list.TypeInt, e: int64(1024)},
		"uint":     {text: " 7 ", tag: list.TypeUint, e: uint64(7)},
		"float":    {text: "2.25", tag: list.TypeFloat, e: 2.25},
		"fraction": {text: "2.5", tag: list.TypeInt, err: true},
		"text":     {text: "x", tag: list.TypeString, err: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			v, err := f.Parse(u.text, u.tag)
			if u.err {
				assert.ErrorIs(t, err, render.ErrParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, u.e, v)
		})
	}
}

func TestShortDate(t *testing.T) {
	f := render.NewShortDate("")
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01", f.Format(at))

	v, err := f.Parse("2024-03-02", list.TypeTime)
	require.NoError(t, err)
	assert.True(t, v.(time.Time).Equal(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)))

	_, err = f.Parse("2024-03-01T10:00:00Z", list.TypeTime)
	require.NoError(t, err)

	_, err = f.Parse("yesterday", list.TypeTime)
	assert.ErrorIs(t, err, render.ErrParse)

	us := render.NewShortDate("01/02/2006")
	assert.Equal(t, "03/01/2024", us.Format(&at))
}

func TestCheckbox(t *testing.T) {
	var f render.Checkbox
	assert.Equal(t, render.CheckedMark, f.Format(true))
	assert.Equal(t, render.UncheckedMark, f.Format(false))

	for text, e := range map[string]bool{"[x]": true, "yes": true, "TRUE": true, "": false, "off": false} {
		v, err := f.Parse(text, list.TypeBool)
		require.NoError(t, err, text)
		assert.Equal(t, e, v, text)
	}
	_, err := f.Parse("maybe", list.TypeBool)
	assert.ErrorIs(t, err, render.ErrParse)
}

func TestText(t *testing.T) {
	var f render.Text
	assert.Equal(t, "[a b]", f.Format([]string{"a", "b"}))

	v, err := f.Parse("hi", list.TypeString)
	require.NoError(t, err)
	assert.Equal(t, "hi", v)

	_, err = f.Parse("hi", list.TypeArray)
	assert.ErrorIs(t, err, render.ErrParse)
}

func TestHelpers(t *testing.T) {
	assert.True(t, render.IsNull(nil))
	assert.True(t, render.IsNull((*int)(nil)))
	assert.False(t, render.IsNull(0))

	assert.Equal(t, "abcdefg", render.Truncate("abcdefg", 7))
	assert.Equal(t, "abc...", render.Truncate("abcdefg", 6))
	assert.Equal(t, "ab", render.Truncate("abcdefg", 2))
	assert.Equal(t, "ab  ", render.Pad("ab", 4))
	assert.Equal(t, render.NAValue, render.NA(""))
	assert.Equal(t, render.MissingValue, render.Missing(""))
	assert.Equal(t, "a/c", render.JoinStrings("/", "a", "", "c"))
}
