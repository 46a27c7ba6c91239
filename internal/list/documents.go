package list

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/wI2L/jsondiff"
)

// Document is a JSON row.
type Document struct {
	Raw []byte
}

// Get returns the value at a gjson path.
func (d *Document) Get(path string) gjson.Result {
	return gjson.GetBytes(d.Raw, path)
}

// DocField describes a field stored at a gjson path.
type DocField struct {
	Name     string
	Path     string
	Type     TypeTag
	ReadOnly bool
	Hidden   bool
}

// Documents is an observable list of JSON rows.
type Documents struct {
	subscribers

	name       string
	docs       []*Document
	fields     []DocField
	schema     Schema
	pendingNew int
	sortField  string
	sorted     bool
}

// NewDocuments returns a list over raw JSON rows. When fields is empty the
// schema is inferred from all rows.
func NewDocuments(name string, raws [][]byte, fields ...DocField) (*Documents, error) {
	d := Documents{name: name, pendingNew: -1}
	for i, raw := range raws {
		if !gjson.ValidBytes(raw) {
			return nil, fmt.Errorf("document %d: invalid JSON", i)
		}
		d.docs = append(d.docs, &Document{Raw: raw})
	}
	if len(fields) == 0 && len(raws) > 0 {
		fields = InferFields(raws...)
	}
	d.setFields(fields)

	return &d, nil
}

// InferFields derives field descriptors covering the top-level keys of every
// row, in the order keys first appear. Rows that disagree on a type widen it:
// integers and floats make a float, an empty array gives way to a relation
// and other conflicts fall back to text. Null values carry no type.
func InferFields(raws ...[]byte) []DocField {
	var (
		ff    []DocField
		kinds []inferred
		index = make(map[string]int)
	)
	for _, raw := range raws {
		gjson.ParseBytes(raw).ForEach(func(key, value gjson.Result) bool {
			i, ok := index[key.String()]
			if !ok {
				i = len(ff)
				index[key.String()] = i
				ff = append(ff, DocField{Name: key.String(), Path: escapePath(key.String()), Type: TypeString})
				kinds = append(kinds, inferred{})
			}
			kinds[i].observe(value)
			return true
		})
	}
	for i := range ff {
		if kinds[i].known {
			ff[i].Type = kinds[i].tag
		}
	}

	return ff
}

type inferred struct {
	tag   TypeTag
	known bool
	empty bool
}

func (k *inferred) observe(v gjson.Result) {
	if v.Type == gjson.Null {
		return
	}
	t, empty := inferTag(v), v.IsArray() && len(v.Array()) == 0
	if !k.known {
		k.tag, k.known, k.empty = t, true, empty
		return
	}
	k.tag = widen(k.tag, t, k.empty, empty)
	k.empty = k.empty && empty
}

func widen(a, b TypeTag, aEmpty, bEmpty bool) TypeTag {
	switch {
	case a == b:
		return a
	case isNumber(a) && isNumber(b):
		return TypeFloat
	case a == TypeArray && b == TypeList && aEmpty, a == TypeList && b == TypeArray && bEmpty:
		return TypeList
	case a == TypeArray && b == TypeList, a == TypeList && b == TypeArray:
		return TypeArray
	default:
		return TypeString
	}
}

func isNumber(t TypeTag) bool {
	return t == TypeInt || t == TypeFloat
}

func escapePath(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return r.Replace(key)
}

func inferTag(v gjson.Result) TypeTag {
	switch v.Type {
	case gjson.True, gjson.False:
		return TypeBool
	case gjson.Number:
		if v.Num == float64(int64(v.Num)) && !strings.ContainsAny(v.Raw, ".eE") {
			return TypeInt
		}
		return TypeFloat
	case gjson.String:
		if _, err := time.Parse(time.RFC3339, v.Str); err == nil {
			return TypeTime
		}
		return TypeString
	case gjson.JSON:
		if v.IsArray() {
			arr := v.Array()
			if len(arr) > 0 && arr[0].IsObject() {
				return TypeList
			}
			return TypeArray
		}
		return TypeAny
	default:
		return TypeString
	}
}

func (d *Documents) setFields(fields []DocField) {
	d.fields = fields
	d.schema = make(Schema, 0, len(fields))
	for _, f := range fields {
		d.schema = append(d.schema, d.makeField(f))
	}
}

func (d *Documents) makeField(df DocField) Field {
	f := Field{
		Name:     df.Name,
		Type:     df.Type,
		ReadOnly: df.ReadOnly,
		Hidden:   df.Hidden,
		Get: func(row any) (any, error) {
			doc, ok := row.(*Document)
			if !ok {
				return nil, fmt.Errorf("%w: expected *Document, got %T", ErrValueType, row)
			}
			return docValue(doc.Get(df.Path), df)
		},
	}
	if !df.ReadOnly {
		f.Set = func(row any, v any) error {
			doc, ok := row.(*Document)
			if !ok {
				return fmt.Errorf("%w: expected *Document, got %T", ErrValueType, row)
			}
			if t, ok := v.(time.Time); ok {
				v = t.Format(time.RFC3339)
			}
			raw, err := sjson.SetBytes(doc.Raw, df.Path, v)
			if err != nil {
				return fmt.Errorf("set %q: %w", df.Name, err)
			}
			doc.Raw = raw
			return nil
		}
	}
	return f
}

func docValue(r gjson.Result, df DocField) (any, error) {
	if !r.Exists() || r.Type == gjson.Null {
		return nil, nil
	}
	switch df.Type {
	case TypeString:
		return r.String(), nil
	case TypeBool:
		return r.Bool(), nil
	case TypeInt:
		return r.Int(), nil
	case TypeUint:
		return r.Uint(), nil
	case TypeFloat:
		return r.Float(), nil
	case TypeTime:
		t, err := time.Parse(time.RFC3339, r.String())
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", df.Name, err)
		}
		return t, nil
	case TypeList:
		raws := make([][]byte, 0)
		for _, el := range r.Array() {
			raws = append(raws, []byte(el.Raw))
		}
		return NewDocuments(df.Name, raws)
	case TypeArray:
		vals := make([]any, 0)
		for _, el := range r.Array() {
			vals = append(vals, el.Value())
		}
		return vals, nil
	default:
		return r.Raw, nil
	}
}

// ListName returns the list name.
func (d *Documents) ListName() string {
	return d.name
}

// Len returns the number of rows.
func (d *Documents) Len() int {
	return len(d.docs)
}

// At returns the *Document at i or nil if out of range.
func (d *Documents) At(i int) any {
	if i < 0 || i >= len(d.docs) {
		return nil
	}
	return d.docs[i]
}

// Doc returns the typed row at i.
func (d *Documents) Doc(i int) (*Document, bool) {
	if i < 0 || i >= len(d.docs) {
		return nil, false
	}
	return d.docs[i], true
}

// Set replaces the row at i with a *Document or raw JSON bytes.
func (d *Documents) Set(i int, v any) error {
	switch doc := v.(type) {
	case *Document:
		return d.Replace(i, doc.Raw)
	case []byte:
		return d.Replace(i, doc)
	default:
		return fmt.Errorf("%w: expected *Document, got %T", ErrValueType, v)
	}
}

// Replace swaps the JSON of row i. ItemChanged is raised only when the new
// document differs from the old one.
func (d *Documents) Replace(i int, raw []byte) error {
	if i < 0 || i >= len(d.docs) {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("document %d: invalid JSON", i)
	}
	patch, err := jsondiff.CompareJSON(d.docs[i].Raw, raw)
	if err != nil {
		return fmt.Errorf("diff document %d: %w", i, err)
	}
	if len(patch) == 0 {
		return nil
	}
	d.docs[i].Raw = raw
	d.notify(NewChangedEvent(ItemChanged, i))
	return nil
}

// Diff returns the JSON patch turning row i into raw.
func (d *Documents) Diff(i int, raw []byte) (jsondiff.Patch, error) {
	if i < 0 || i >= len(d.docs) {
		return nil, fmt.Errorf("%w: %d", ErrIndex, i)
	}
	return jsondiff.CompareJSON(d.docs[i].Raw, raw)
}

// Append adds rows at the tail.
func (d *Documents) Append(raw []byte) error {
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("document %d: invalid JSON", len(d.docs))
	}
	d.docs = append(d.docs, &Document{Raw: raw})
	d.notify(NewChangedEvent(ItemAdded, len(d.docs)-1))
	return nil
}

// NotifyChanged raises ItemChanged for a row mutated in place.
func (d *Documents) NotifyChanged(i int) {
	if i < 0 || i >= len(d.docs) {
		return
	}
	d.notify(NewChangedEvent(ItemChanged, i))
}

// AddNew appends an empty object row and marks it pending.
func (d *Documents) AddNew() (int, error) {
	d.docs = append(d.docs, &Document{Raw: []byte("{}")})
	d.pendingNew = len(d.docs) - 1
	d.notify(NewChangedEvent(ItemAdded, d.pendingNew))
	return d.pendingNew, nil
}

// EndNew commits the pending new row.
func (d *Documents) EndNew(i int) {
	if i >= 0 && i == d.pendingNew {
		d.pendingNew = -1
	}
}

// CancelNew discards the pending new row.
func (d *Documents) CancelNew(i int) {
	if i < 0 || i != d.pendingNew {
		return
	}
	d.pendingNew = -1
	_ = d.RemoveAt(i)
}

// RemoveAt removes the row at i.
func (d *Documents) RemoveAt(i int) error {
	if i < 0 || i >= len(d.docs) {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	d.docs = append(d.docs[:i], d.docs[i+1:]...)
	switch {
	case d.pendingNew == i:
		d.pendingNew = -1
	case d.pendingNew > i:
		d.pendingNew--
	}
	d.notify(NewChangedEvent(ItemDeleted, i))
	return nil
}

// Schema returns the row schema.
func (d *Documents) Schema() Schema {
	return d.schema
}

// Fields returns the document field descriptors.
func (d *Documents) Fields() []DocField {
	return d.fields
}

// ApplySort orders rows by field and raises a reset.
func (d *Documents) ApplySort(field string, desc bool) error {
	f, ok := d.schema.Find(field)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if err := sortRows(d.docs, f, desc); err != nil {
		return err
	}
	d.sortField, d.sorted = f.Name, true
	d.notify(NewChangedEvent(Reset, -1))
	return nil
}

// RemoveSort forgets the active sort.
func (d *Documents) RemoveSort() {
	d.sortField, d.sorted = "", false
}

// SortField returns the active sort field.
func (d *Documents) SortField() (string, bool) {
	return d.sortField, d.sorted
}

// Find returns the index of the first row whose field equals key.
func (d *Documents) Find(field string, key any) int {
	f, ok := d.schema.Find(field)
	if !ok {
		return -1
	}
	for i, doc := range d.docs {
		v, err := f.Value(doc)
		if err == nil && Equal(v, key) {
			return i
		}
	}
	return -1
}
