package ui

import (
	"sort"
	"sync"

	"github.com/derailed/tcell/v2"
)

// ActionHandler handles a keyboard command.
type ActionHandler func(*tcell.EventKey) *tcell.EventKey

// ActionOpts tracks extra action options.
type ActionOpts struct {
	Visible   bool
	Shared    bool
	Dangerous bool
}

// KeyAction represents a keyboard action.
type KeyAction struct {
	Description string
	Action      ActionHandler
	Opts        ActionOpts
}

// KeyMap tracks key to action mappings.
type KeyMap map[tcell.Key]KeyAction

// NewKeyAction returns a new keyboard action.
func NewKeyAction(d string, a ActionHandler, display bool) KeyAction {
	return NewKeyActionWithOpts(d, a, ActionOpts{Visible: display})
}

// NewSharedKeyAction returns a hidden action that stays bound when a view
// resets its own actions.
func NewSharedKeyAction(d string, a ActionHandler, display bool) KeyAction {
	return NewKeyActionWithOpts(d, a, ActionOpts{Visible: display, Shared: true})
}

// NewKeyActionWithOpts returns a new keyboard action.
func NewKeyActionWithOpts(d string, a ActionHandler, opts ActionOpts) KeyAction {
	return KeyAction{
		Description: d,
		Action:      a,
		Opts:        opts,
	}
}

// KeyActions tracks the actions of a view.
type KeyActions struct {
	actions KeyMap
	mx      sync.RWMutex
}

// NewKeyActions returns an empty action set.
func NewKeyActions() *KeyActions {
	return &KeyActions{actions: make(KeyMap)}
}

// NewKeyActionsFromMap returns an action set seeded from m.
func NewKeyActionsFromMap(m KeyMap) *KeyActions {
	a := NewKeyActions()
	a.Bulk(m)
	return a
}

// Get returns the action bound to a key.
func (a *KeyActions) Get(key tcell.Key) (KeyAction, bool) {
	a.mx.RLock()
	defer a.mx.RUnlock()

	v, ok := a.actions[key]
	return v, ok
}

// Len returns the number of bound keys.
func (a *KeyActions) Len() int {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return len(a.actions)
}

// Add binds an action, replacing any previous one.
func (a *KeyActions) Add(k tcell.Key, ka KeyAction) {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.actions[k] = ka
}

// Bulk binds a set of actions.
func (a *KeyActions) Bulk(m KeyMap) {
	a.mx.Lock()
	defer a.mx.Unlock()

	for k, v := range m {
		a.actions[k] = v
	}
}

// Merge binds the actions of another set.
func (a *KeyActions) Merge(aa *KeyActions) {
	aa.mx.RLock()
	m := make(KeyMap, len(aa.actions))
	for k, v := range aa.actions {
		m[k] = v
	}
	aa.mx.RUnlock()

	a.Bulk(m)
}

// Delete unbinds keys.
func (a *KeyActions) Delete(kk ...tcell.Key) {
	a.mx.Lock()
	defer a.mx.Unlock()

	for _, k := range kk {
		delete(a.actions, k)
	}
}

// Clear unbinds every action but the shared ones.
func (a *KeyActions) Clear() {
	a.mx.Lock()
	defer a.mx.Unlock()

	for k, v := range a.actions {
		if !v.Opts.Shared {
			delete(a.actions, k)
		}
	}
}

// Hints returns the menu hints of the visible actions.
func (a *KeyActions) Hints() MenuHints {
	a.mx.RLock()
	defer a.mx.RUnlock()

	kk := make([]tcell.Key, 0, len(a.actions))
	for k := range a.actions {
		kk = append(kk, k)
	}
	sort.Slice(kk, func(i, j int) bool { return kk[i] < kk[j] })

	hh := make(MenuHints, 0, len(kk))
	for _, k := range kk {
		v := a.actions[k]
		hh = append(hh, MenuHint{
			Mnemonic:    KeyName(k),
			Description: v.Description,
			Visible:     v.Opts.Visible,
		})
	}

	return hh
}

// Handle dispatches a key event to its action. Unbound keys are returned.
func (a *KeyActions) Handle(evt *tcell.EventKey) *tcell.EventKey {
	if ka, ok := a.Get(AsKey(evt)); ok && ka.Action != nil {
		return ka.Action(evt)
	}
	return evt
}
