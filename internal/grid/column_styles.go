package grid

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gridbind/gridbind/internal/list"
)

// CollectionAction names a change to a column collection.
type CollectionAction int

const (
	CollectionAdd CollectionAction = iota
	CollectionRemove
	CollectionRefresh
)

// CollectionListener observes column collection changes. The column is nil
// on refresh.
type CollectionListener func(action CollectionAction, c *ColumnStyle)

// ColumnStyles holds the ordered columns of a table style.
type ColumnStyles struct {
	owner     *TableStyle
	items     []*ColumnStyle
	listeners map[int]CollectionListener
	nextID    int
}

func newColumnStyles(owner *TableStyle) *ColumnStyles {
	return &ColumnStyles{
		owner:     owner,
		listeners: make(map[int]CollectionListener),
	}
}

// Subscribe registers fn and returns a func removing it.
func (s *ColumnStyles) Subscribe(fn CollectionListener) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() { delete(s.listeners, id) }
}

// Len returns the number of columns.
func (s *ColumnStyles) Len() int {
	return len(s.items)
}

// All returns a copy of the columns.
func (s *ColumnStyles) All() []*ColumnStyle {
	return slices.Clone(s.items)
}

// At returns the column at i.
func (s *ColumnStyles) At(i int) (*ColumnStyle, bool) {
	if i < 0 || i >= len(s.items) {
		return nil, false
	}
	return s.items[i], true
}

// ByName returns the column with the given mapping name, ignoring case.
func (s *ColumnStyles) ByName(name string) (*ColumnStyle, bool) {
	for _, c := range s.items {
		if strings.EqualFold(c.mappingName, name) {
			return c, true
		}
	}
	return nil, false
}

// ByField returns the column bound to field f.
func (s *ColumnStyles) ByField(f *list.Field) (*ColumnStyle, bool) {
	if f == nil {
		return nil, false
	}
	for _, c := range s.items {
		if c.field != nil && c.field.Name == f.Name {
			return c, true
		}
	}
	return nil, false
}

// Contains returns true if c belongs to the collection.
func (s *ColumnStyles) Contains(c *ColumnStyle) bool {
	return s.IndexOf(c) != -1
}

// IndexOf returns the index of c or -1.
func (s *ColumnStyles) IndexOf(c *ColumnStyle) int {
	return slices.Index(s.items, c)
}

// Add appends c and returns its index.
func (s *ColumnStyles) Add(c *ColumnStyle) (int, error) {
	if s.owner.isDefault {
		return -1, ErrDefaultCollection
	}
	return s.add(c)
}

// AddRange appends columns, stopping at the first failure.
func (s *ColumnStyles) AddRange(cc ...*ColumnStyle) error {
	for _, c := range cc {
		if _, err := s.Add(c); err != nil {
			return err
		}
	}
	return nil
}

// Remove drops c from the collection.
func (s *ColumnStyles) Remove(c *ColumnStyle) error {
	if s.owner.isDefault {
		return ErrDefaultCollection
	}
	i := s.IndexOf(c)
	if i == -1 {
		return fmt.Errorf("%w: %q", ErrNoColumn, c.label())
	}
	s.removeAt(i)

	return nil
}

// RemoveAt drops the column at i.
func (s *ColumnStyles) RemoveAt(i int) error {
	if s.owner.isDefault {
		return ErrDefaultCollection
	}
	if i < 0 || i >= len(s.items) {
		return fmt.Errorf("%w: %d", ErrNoColumn, i)
	}
	s.removeAt(i)

	return nil
}

// Clear drops all columns.
func (s *ColumnStyles) Clear() error {
	if s.owner.isDefault {
		return ErrDefaultCollection
	}
	s.reset()

	return nil
}

func (s *ColumnStyles) add(c *ColumnStyle) (int, error) {
	if c.table != nil || s.Contains(c) {
		return -1, fmt.Errorf("%w: %q", ErrColumnOwned, c.label())
	}
	if c.mappingName != "" {
		if _, ok := s.ByName(c.mappingName); ok {
			return -1, fmt.Errorf("%w: %q", ErrDuplicateMappingName, c.mappingName)
		}
	}
	c.table = s.owner
	if g := s.owner.grid; g != nil && g.cm != nil && c.field == nil {
		c.field = resolveField(g.cm.ItemProperties(), c)
	}
	s.items = append(s.items, c)
	s.fire(CollectionAdd, c)

	return len(s.items) - 1, nil
}

func (s *ColumnStyles) removeAt(i int) {
	c := s.items[i]
	s.items = slices.Delete(s.items, i, i+1)
	c.table = nil
	s.fire(CollectionRemove, c)
}

func (s *ColumnStyles) reset() {
	for _, c := range s.items {
		c.table = nil
	}
	s.items = nil
	s.fire(CollectionRefresh, nil)
}

func (s *ColumnStyles) fire(a CollectionAction, c *ColumnStyle) {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := s.listeners[id]; ok {
			fn(a, c)
		}
	}
}

// resolveField finds the field a column maps to, first by mapping name then
// by header text. Relations never resolve.
func resolveField(schema list.Schema, c *ColumnStyle) *list.Field {
	match := func(name string, eq func(a, b string) bool) *list.Field {
		if name == "" {
			return nil
		}
		for i := range schema {
			if schema[i].IsRelation() || !eq(schema[i].Name, name) {
				continue
			}
			f := schema[i]
			return &f
		}
		return nil
	}
	if f := match(c.mappingName, strings.EqualFold); f != nil {
		return f
	}

	return match(c.headerText, func(a, b string) bool { return a == b })
}
