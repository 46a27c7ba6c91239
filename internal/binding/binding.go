package binding

// Binding connects an editor to the current row of a currency manager.
type Binding interface {
	// Push writes row data into the editor. An error rejects the row.
	Push(row any) error

	// Pull writes editor data into row.
	Pull(row any) error
}

// BoundNotifier is implemented by bindings tracking the manager's bound state.
type BoundNotifier interface {
	BindingStateChanged(bound bool)
}

// Funcs adapts push and pull callbacks to a Binding. Nil callbacks succeed.
type Funcs struct {
	PushFn func(row any) error
	PullFn func(row any) error
}

var _ Binding = (*Funcs)(nil)

// Push calls PushFn.
func (f *Funcs) Push(row any) error {
	if f.PushFn == nil {
		return nil
	}
	return f.PushFn(row)
}

// Pull calls PullFn.
func (f *Funcs) Pull(row any) error {
	if f.PullFn == nil {
		return nil
	}
	return f.PullFn(row)
}
