package dao

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gridbind/gridbind/internal/list"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// FileResource is the base struct that all format DAOs embed.
// It provides factory access, format identification and row caching.
type FileResource struct {
	Factory
	format Format
	cache  *RowCache
	mx     sync.RWMutex
}

// Init initializes the FileResource with factory and format.
func (r *FileResource) Init(f Factory, format Format) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.Factory = f
	r.format = format
}

// Format returns the source format.
func (r *FileResource) Format() Format {
	r.mx.RLock()
	defer r.mx.RUnlock()
	return r.format
}

// getFactory returns the factory in a thread-safe manner.
func (r *FileResource) getFactory() Factory {
	r.mx.RLock()
	defer r.mx.RUnlock()
	return r.Factory
}

// getCache returns the row cache in a thread-safe manner.
func (r *FileResource) getCache() *RowCache {
	r.mx.RLock()
	defer r.mx.RUnlock()
	return r.cache
}

// SetCache sets the row cache (typically called during initialization).
func (r *FileResource) SetCache(cache *RowCache) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.cache = cache
}

// cacheKey generates a cache key from format and source.
func (r *FileResource) cacheKey(src Source) string {
	return fmt.Sprintf("%s:%s", r.Format(), src)
}

// decodeFunc turns file bytes into a JSON document.
type decodeFunc func(raw []byte) ([]byte, error)

// load reads a source through the cache, decodes it to JSON and selects
// the row array.
func (r *FileResource) load(ctx context.Context, src Source, decode decodeFunc) (*list.Documents, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := r.getFactory()
	if f == nil {
		return nil, fmt.Errorf("%s accessor not initialized", r.Format())
	}

	mt, err := f.ModTime(src.File)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src, err)
	}
	key := r.cacheKey(src)
	if c := r.getCache(); c != nil {
		if rows := c.Get(key, mt); rows != nil {
			return list.NewDocuments(src.Name(), rows, InferFields(rows)...)
		}
	}

	raw, err := f.ReadFile(src.File)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src, err)
	}
	doc, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	rows, err := SelectRows(doc, src.Path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src, err)
	}
	if c := r.getCache(); c != nil {
		c.Set(key, mt, rows)
	}

	return list.NewDocuments(src.Name(), rows, InferFields(rows)...)
}

// encodeFunc turns a JSON document into file bytes. The previous file
// content is passed along so formats can keep what the rows don't cover.
type encodeFunc func(doc, previous []byte) ([]byte, error)

// save writes the rows into the source document at src.Path.
func (r *FileResource) save(ctx context.Context, src Source, docs *list.Documents, decode decodeFunc, encode encodeFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f := r.getFactory()
	if f == nil {
		return fmt.Errorf("%s accessor not initialized", r.Format())
	}

	rows := RowsJSON(docs)
	var (
		doc  = rows
		prev []byte
	)
	if src.Path != "" {
		var err error
		if prev, err = f.ReadFile(src.File); err != nil {
			return fmt.Errorf("save %s: %w", src, err)
		}
		whole, err := decode(prev)
		if err != nil {
			return fmt.Errorf("save %s: %w", src, err)
		}
		if doc, err = sjson.SetRawBytes(whole, src.Path, rows); err != nil {
			return fmt.Errorf("save %s: %w", src, err)
		}
	}

	out, err := encode(doc, prev)
	if err != nil {
		return fmt.Errorf("encode %s: %w", src, err)
	}
	if err := f.WriteFile(src.File, out); err != nil {
		return fmt.Errorf("save %s: %w", src, err)
	}
	if c := r.getCache(); c != nil {
		c.Invalidate(r.cacheKey(src))
	}

	return nil
}

// SelectRows returns the objects of the array found at path in a JSON
// document. An empty path selects the document root.
func SelectRows(doc []byte, path string) ([][]byte, error) {
	res := gjson.ParseBytes(doc)
	if path != "" {
		res = res.Get(path)
	}
	if !res.IsArray() {
		return nil, fmt.Errorf("%w: %q", ErrNoRows, path)
	}

	var rows [][]byte
	for i, el := range res.Array() {
		if !el.IsObject() {
			return nil, fmt.Errorf("%w: element %d is %s", ErrNoRows, i, el.Type)
		}
		rows = append(rows, []byte(el.Raw))
	}

	return rows, nil
}

// RowsJSON renders the rows of a document list as a JSON array.
func RowsJSON(docs *list.Documents) []byte {
	out := []byte{'['}
	for i := 0; i < docs.Len(); i++ {
		d, _ := docs.Doc(i)
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, d.Raw...)
	}

	return append(out, ']')
}

// InferFields derives a schema covering the keys of every row.
func InferFields(rows [][]byte) []list.DocField {
	return list.InferFields(rows...)
}

var keyEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)

// escapeKey turns an object key into a literal gjson/sjson path element.
func escapeKey(k string) string {
	return keyEscaper.Replace(k)
}
