package binding_test

import (
	"fmt"

	"github.com/gridbind/gridbind/internal/binding"
	"github.com/gridbind/gridbind/internal/list"
)

type row struct {
	Name    string
	editing int
	onEnd   func()
}

func (r *row) BeginEdit() { r.editing++ }

func (r *row) EndEdit() {
	if r.onEnd != nil {
		r.onEnd()
	}
}

func (r *row) CancelEdit() {}

func rowSchema() list.Schema {
	return list.Schema{
		list.NewField("Name", func(r *row) string { return r.Name }, func(r *row, v string) { r.Name = v }),
	}
}

func newRows(names ...string) *list.Slice[*row] {
	rr := make([]*row, 0, len(names))
	for _, n := range names {
		rr = append(rr, &row{Name: n})
	}
	return list.NewSlice("rows", rr, rowSchema())
}

func names(s *list.Slice[*row]) []string {
	nn := make([]string, 0, s.Len())
	for _, r := range s.Items() {
		nn = append(nn, r.Name)
	}
	return nn
}

// editor mimics a text box bound to the Name field. Rows named in reject
// fail to push. Only edited text is pulled.
type editor struct {
	text   string
	dirty  bool
	reject map[string]bool
	pushes int
	bound  []bool
}

func (e *editor) Push(v any) error {
	r := v.(*row)
	e.pushes++
	if e.reject[r.Name] {
		return fmt.Errorf("invalid row %q", r.Name)
	}
	e.text, e.dirty = r.Name, false
	return nil
}

func (e *editor) Pull(v any) error {
	if e.dirty {
		v.(*row).Name, e.dirty = e.text, false
	}
	return nil
}

func (e *editor) edit(text string) {
	e.text, e.dirty = text, true
}

func (e *editor) BindingStateChanged(bound bool) {
	e.bound = append(e.bound, bound)
}

type events struct {
	position    int
	current     int
	currentItem int
	item        int
	meta        int
	list        []list.ChangeKind
	errs        []error
}

func (ev *events) reset() {
	*ev = events{}
}

func (ev *events) listener() *binding.ListenerFuncs {
	return &binding.ListenerFuncs{
		OnPositionChanged:    func(int) { ev.position++ },
		OnCurrentChanged:     func() { ev.current++ },
		OnCurrentItemChanged: func() { ev.currentItem++ },
		OnItemChanged:        func(int) { ev.item++ },
		OnMetaDataChanged:    func() { ev.meta++ },
		OnListChanged:        func(e list.ChangedEvent) { ev.list = append(ev.list, e.Kind) },
		OnDataError:          func(err error) { ev.errs = append(ev.errs, err) },
	}
}
