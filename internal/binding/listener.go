package binding

import "github.com/gridbind/gridbind/internal/list"

// Listener observes a currency manager.
type Listener interface {
	// ItemChanged reports a row change; -1 means every row.
	ItemChanged(index int)

	// PositionChanged reports a new current position.
	PositionChanged(position int)

	// CurrentChanged reports that the current row changed.
	CurrentChanged()

	// CurrentItemChanged reports that the current row or its content changed.
	CurrentItemChanged()

	// MetaDataChanged reports a schema change in the bound list.
	MetaDataChanged()

	// ListChanged relays the normalized list notification.
	ListChanged(list.ChangedEvent)

	// DataError reports a push failure that was recovered or deferred.
	DataError(error)

	// BindingStateChanged reports that the manager became bound or unbound.
	BindingStateChanged(bound bool)
}

// ListenerFuncs adapts optional callbacks to a Listener. Nil slots are skipped.
type ListenerFuncs struct {
	OnItemChanged         func(index int)
	OnPositionChanged     func(position int)
	OnCurrentChanged      func()
	OnCurrentItemChanged  func()
	OnMetaDataChanged     func()
	OnListChanged         func(list.ChangedEvent)
	OnDataError           func(error)
	OnBindingStateChanged func(bound bool)
}

var _ Listener = (*ListenerFuncs)(nil)

func (l *ListenerFuncs) ItemChanged(index int) {
	if l.OnItemChanged != nil {
		l.OnItemChanged(index)
	}
}

func (l *ListenerFuncs) PositionChanged(position int) {
	if l.OnPositionChanged != nil {
		l.OnPositionChanged(position)
	}
}

func (l *ListenerFuncs) CurrentChanged() {
	if l.OnCurrentChanged != nil {
		l.OnCurrentChanged()
	}
}

func (l *ListenerFuncs) CurrentItemChanged() {
	if l.OnCurrentItemChanged != nil {
		l.OnCurrentItemChanged()
	}
}

func (l *ListenerFuncs) MetaDataChanged() {
	if l.OnMetaDataChanged != nil {
		l.OnMetaDataChanged()
	}
}

func (l *ListenerFuncs) ListChanged(e list.ChangedEvent) {
	if l.OnListChanged != nil {
		l.OnListChanged(e)
	}
}

func (l *ListenerFuncs) DataError(err error) {
	if l.OnDataError != nil {
		l.OnDataError(err)
	}
}

func (l *ListenerFuncs) BindingStateChanged(bound bool) {
	if l.OnBindingStateChanged != nil {
		l.OnBindingStateChanged(bound)
	}
}
