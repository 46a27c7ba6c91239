package list_test

import (
	"errors"
	"testing"

	"github.com/gridbind/gridbind/internal/list"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type source struct {
	l   list.List
	err error
}

func (s source) List() (list.List, error) {
	return s.l, s.err
}

func TestResolve(t *testing.T) {
	people := newPeople("a", "b")
	var nilSlice *list.Slice[*person]

	uu := map[string]struct {
		src any
		len int
		err error
	}{
		"nil":         {src: nil, err: list.ErrNilSource},
		"typed-nil":   {src: nilSlice, err: list.ErrNilSource},
		"raw-slice":   {src: []string{"a", "b", "c"}, len: 3},
		"raw-array":   {src: &[2]int{1, 2}, len: 2},
		"list":        {src: people, len: 2},
		"source":      {src: source{l: people}, len: 2},
		"source-nil":  {src: source{}, err: list.ErrNilSource},
		"not-a-list":  {src: 42, err: list.ErrNotList},
		"map-is-bad":  {src: map[string]int{}, err: list.ErrNotList},
		"source-fail": {src: source{err: errors.New("boom")}},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			l, err := list.Resolve(u.src)
			if k == "source-fail" {
				assert.ErrorContains(t, err, "boom")
				return
			}
			if u.err != nil {
				assert.ErrorIs(t, err, u.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, u.len, l.Len())
		})
	}
}

func TestArrayAdapter(t *testing.T) {
	raw := []string{"x", "y"}
	l, err := list.Resolve(raw)
	require.NoError(t, err)

	a, ok := l.(*list.Array)
	require.True(t, ok)
	assert.Equal(t, "y", a.At(1))
	assert.Nil(t, a.At(5))
	assert.Equal(t, []string{"Value"}, a.Schema().Names())
	assert.Equal(t, list.TypeString, a.Schema()[0].Type)

	require.NoError(t, a.Set(0, "z"))
	assert.Equal(t, "z", raw[0])
	assert.ErrorIs(t, a.Set(0, 1), list.ErrValueType)
	assert.ErrorIs(t, a.Set(9, "q"), list.ErrIndex)

	_, err = list.NewArray(3)
	assert.ErrorIs(t, err, list.ErrNotList)
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, list.Compare(nil, 1))
	assert.Equal(t, 1, list.Compare(1, nil))
	assert.Equal(t, -1, list.Compare("a2", "a10"))
	assert.Equal(t, 0, list.Compare(int64(3), 3.0))
	assert.Equal(t, -1, list.Compare(false, true))
	assert.True(t, list.Equal(int32(7), int64(7)))
	assert.False(t, list.Equal("7", 7))
}
