package list_test

import (
	"testing"
	"time"

	"github.com/gridbind/gridbind/internal/list"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name    string
	Age     int
	Active  bool
	Born    time.Time
	Tags    []string
	Friends *list.Slice[*person]
}

func personSchema() list.Schema {
	return list.Schema{
		list.NewField("Name", func(p *person) string { return p.Name }, func(p *person, v string) { p.Name = v }),
		list.NewField("Age", func(p *person) int { return p.Age }, func(p *person, v int) { p.Age = v }),
		list.NewField("Active", func(p *person) bool { return p.Active }, func(p *person, v bool) { p.Active = v }),
		list.NewField("Born", func(p *person) time.Time { return p.Born }, nil),
		list.NewField("Tags", func(p *person) []string { return p.Tags }, nil),
		list.NewField("Friends", func(p *person) *list.Slice[*person] { return p.Friends }, nil),
	}
}

func newPeople(names ...string) *list.Slice[*person] {
	pp := make([]*person, 0, len(names))
	for i, n := range names {
		pp = append(pp, &person{Name: n, Age: 20 + i})
	}
	return list.NewSlice("people", pp, personSchema())
}

type recorder struct {
	events []list.ChangedEvent
}

func (r *recorder) record(e list.ChangedEvent) {
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []list.ChangeKind {
	kk := make([]list.ChangeKind, 0, len(r.events))
	for _, e := range r.events {
		kk = append(kk, e.Kind)
	}
	return kk
}

func TestNewFieldTags(t *testing.T) {
	s := personSchema()

	uu := map[string]struct {
		tag      list.TypeTag
		readOnly bool
	}{
		"Name":    {tag: list.TypeString},
		"Age":     {tag: list.TypeInt},
		"Active":  {tag: list.TypeBool},
		"Born":    {tag: list.TypeTime, readOnly: true},
		"Tags":    {tag: list.TypeArray, readOnly: true},
		"Friends": {tag: list.TypeList, readOnly: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			f, ok := s.Find(k)
			require.True(t, ok)
			assert.Equal(t, u.tag, f.Type)
			assert.Equal(t, u.readOnly, f.ReadOnly)
		})
	}
}

func TestFieldSetConverts(t *testing.T) {
	p := &person{Name: "a"}
	f, ok := personSchema().Find("age")
	require.True(t, ok)

	require.NoError(t, f.SetValue(p, int64(42)))
	assert.Equal(t, 42, p.Age)

	err := f.SetValue(p, "42")
	assert.ErrorIs(t, err, list.ErrValueType)

	born, _ := personSchema().Find("Born")
	assert.ErrorIs(t, born.SetValue(p, time.Now()), list.ErrReadOnly)
}

func TestSliceNotifications(t *testing.T) {
	s := newPeople("a", "b", "c")
	var r recorder
	unsub := s.Subscribe(r.record)

	s.Append(&person{Name: "d"})
	require.NoError(t, s.Insert(0, &person{Name: "z"}))
	require.NoError(t, s.Move(0, 2))
	require.NoError(t, s.RemoveAt(1))
	require.NoError(t, s.Set(0, &person{Name: "y"}))
	s.NotifyChanged(0)
	s.Clear()

	assert.Equal(t, []list.ChangeKind{
		list.ItemAdded, list.ItemAdded, list.ItemMoved, list.ItemDeleted,
		list.ItemChanged, list.ItemChanged, list.Reset,
	}, r.kinds())
	assert.Equal(t, 2, r.events[2].NewIndex)
	assert.Equal(t, 0, r.events[2].OldIndex)

	unsub()
	s.Append(&person{Name: "e"})
	assert.Len(t, r.events, 7)
}

func TestSliceMove(t *testing.T) {
	s := newPeople("a", "b", "c", "d")
	require.NoError(t, s.Move(3, 1))

	names := make([]string, 0, s.Len())
	for _, p := range s.Items() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"a", "d", "b", "c"}, names)
	assert.ErrorIs(t, s.Move(0, 9), list.ErrIndex)
}

func TestSliceAddNew(t *testing.T) {
	s := newPeople("a")
	_, err := s.AddNew()
	require.ErrorIs(t, err, list.ErrNotSupported)

	s.SetNewItem(func() *person { return &person{Name: "new"} })
	idx, err := s.AddNew()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 1, s.PendingNew())

	s.CancelNew(idx)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, -1, s.PendingNew())

	idx, err = s.AddNew()
	require.NoError(t, err)
	s.EndNew(idx)
	s.CancelNew(idx)
	assert.Equal(t, 2, s.Len())
}

func TestSliceSortAndFind(t *testing.T) {
	s := newPeople("item10", "item2", "item1")
	var r recorder
	s.Subscribe(r.record)

	require.NoError(t, s.ApplySort("Name", false))
	names := []string{}
	for _, p := range s.Items() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"item1", "item2", "item10"}, names)
	assert.Equal(t, []list.ChangeKind{list.Reset}, r.kinds())

	field, ok := s.SortField()
	assert.True(t, ok)
	assert.Equal(t, "Name", field)

	require.NoError(t, s.ApplySort("Age", true))
	assert.Equal(t, "item1", s.Items()[0].Name)

	assert.Equal(t, 2, s.Find("Name", "item10"))
	assert.Equal(t, 0, s.Find("Age", int64(22)))
	assert.Equal(t, -1, s.Find("Name", "nope"))
	assert.Equal(t, -1, s.Find("Bogus", "x"))

	assert.ErrorIs(t, s.ApplySort("Bogus", false), list.ErrUnknownField)
	s.RemoveSort()
	_, ok = s.SortField()
	assert.False(t, ok)
}

func TestSliceSchemaChanges(t *testing.T) {
	s := newPeople("a")
	var r recorder
	s.Subscribe(r.record)

	s.AddField(list.Field{Name: "Extra", Type: list.TypeString})
	require.NoError(t, s.RemoveField("Extra"))
	assert.ErrorIs(t, s.RemoveField("Extra"), list.ErrUnknownField)

	assert.Equal(t, []list.ChangeKind{list.FieldAdded, list.FieldDeleted}, r.kinds())
	assert.Equal(t, "Extra", r.events[0].Field.Name)
	assert.Len(t, s.Schema(), 6)
}
