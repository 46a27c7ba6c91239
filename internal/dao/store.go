package dao

import (
	"context"
	"time"

	"github.com/gridbind/gridbind/internal/list"
)

type cacheSetter interface {
	SetCache(*RowCache)
}

// Store loads and saves sources through the registered accessors, sharing
// one row cache between them.
type Store struct {
	factory Factory
	cache   *RowCache
}

// NewStore returns a store over f. A zero ttl disables caching.
func NewStore(f Factory, ttl time.Duration) *Store {
	s := Store{factory: f}
	if ttl > 0 {
		s.cache = NewRowCache(ttl)
	}

	return &s
}

func (s *Store) accessor(src Source) (Accessor, error) {
	format := src.Format
	if format == "" {
		var err error
		if format, err = FormatOf(src.File); err != nil {
			return nil, err
		}
	}
	acc, err := AccessorFor(s.factory, format)
	if err != nil {
		return nil, err
	}
	if c, ok := acc.(cacheSetter); ok && s.cache != nil {
		c.SetCache(s.cache)
	}

	return acc, nil
}

// Load returns the rows of src.
func (s *Store) Load(ctx context.Context, src Source) (*list.Documents, error) {
	acc, err := s.accessor(src)
	if err != nil {
		return nil, err
	}
	return acc.Load(ctx, src)
}

// Save writes docs back to src.
func (s *Store) Save(ctx context.Context, src Source, docs *list.Documents) error {
	acc, err := s.accessor(src)
	if err != nil {
		return err
	}
	return acc.Save(ctx, src, docs)
}

// ModTime returns the modification time of the source file.
func (s *Store) ModTime(src Source) (time.Time, error) {
	return s.factory.ModTime(src.File)
}
